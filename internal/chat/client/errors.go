package client

import (
	"errors"
	"fmt"
)

// ErrTransportClosed - returns on send over closed transport.
var ErrTransportClosed = errors.New("client.Transport: closed")

// ConnectionError - describes failed attempt to connect chat server.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("client.Connect: unable to connect %s: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
