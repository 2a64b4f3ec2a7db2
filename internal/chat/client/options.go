package client

import (
	"errors"
	"fmt"
	"log/slog"
)

// Option - customizes Transport built by Connect.
type Option func(t *Transport) error

func setup(t *Transport, options ...Option) error {
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(t); err != nil {
			return err
		}
	}
	return nil
}

// WithLogger - attach structured logger, transport is silent without it.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transport) error {
		if logger == nil {
			return errors.New("client.WithLogger: logger is nil")
		}
		t.logger = logger
		return nil
	}
}

// WithChunkSize - overwrites default size of a single read from connection.
func WithChunkSize(size int) Option {
	return func(t *Transport) error {
		if size <= 0 {
			return fmt.Errorf("client.WithChunkSize: invalid size (%d)", size)
		}
		t.chunkSize = size
		return nil
	}
}
