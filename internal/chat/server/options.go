//go:build unix

package server

import (
	"errors"
	"fmt"
	"log/slog"
)

// Option - customizes Server built by Listen.
type Option func(s *Server) error

func setup(s *Server, options ...Option) error {
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(s); err != nil {
			return err
		}
	}
	return nil
}

// WithLogger - attach structured logger, server is silent without it.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			return errors.New("server.WithLogger: logger is nil")
		}
		s.logger = logger
		return nil
	}
}

// WithChunkSize - overwrites default size of a single read from connection.
func WithChunkSize(size int) Option {
	return func(s *Server) error {
		if size <= 0 {
			return fmt.Errorf("server.WithChunkSize: invalid size (%d)", size)
		}
		s.chunkSize = size
		return nil
	}
}

// WithEcho - controls whether a line is relayed back to the connection it came from.
// Echo is enabled by default.
func WithEcho(echo bool) Option {
	return func(s *Server) error {
		s.echo = echo
		return nil
	}
}

// WithJoinChan - attach channel to be notified of accepted connections.
// Server never blocks on it, events are dropped when channel is not ready.
func WithJoinChan(join chan<- JoinEvent) Option {
	return func(s *Server) error {
		if s.join != nil {
			return errors.New("server.WithJoinChan: join-channel already set up")
		}
		s.join = join
		return nil
	}
}

// WithPartChan - attach channel to be notified of removed connections.
// Server never blocks on it, events are dropped when channel is not ready.
func WithPartChan(part chan<- PartEvent) Option {
	return func(s *Server) error {
		if s.part != nil {
			return errors.New("server.WithPartChan: part-channel already set up")
		}
		s.part = part
		return nil
	}
}
