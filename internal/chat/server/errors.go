package server

import "errors"

var (
	// ErrListenerFailed - returns from Run when listening socket enters error state.
	// Server is not usable anymore, all connections are closed.
	ErrListenerFailed = errors.New("server.Server: listening socket failed")

	// ErrServerClosed - returns from Run if server was closed before or is already running.
	ErrServerClosed = errors.New("server.Server: closed or already running")
)
