// Package client implements the client side of chat connection: a single TCP
// connection with a background receive loop and synchronous sends.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"sync/atomic"

	"github.com/wtask/linechat/internal/chat/codec"
	"github.com/wtask/linechat/internal/chat/inbox"
	"github.com/wtask/linechat/pkg/background"
)

const (
	// ConnectionMessage - announcement sent after connect, %s is the username.
	ConnectionMessage = "server: %s has joined the chat."
	// DisconnectionMessage - announcement sent before leaving, %s is the username.
	DisconnectionMessage = "server: %s has left the chat."
)

const defaultChunkSize = 1024

// Transport - connection to chat server.
type Transport struct {
	conn      net.Conn
	username  string
	alive     atomic.Bool
	failure   atomic.Pointer[error]
	incoming  *inbox.Queue
	chunkSize int
	logger    *slog.Logger

	scope *background.Scope
	stop  func()
}

// Connect - dials chat server, returns *ConnectionError if server is unreachable.
func Connect(host string, port int, username string, options ...Option) (*Transport, error) {
	t := &Transport{
		username:  username,
		incoming:  inbox.NewQueue(),
		chunkSize: defaultChunkSize,
	}
	if err := setup(t, options...); err != nil {
		return nil, err
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, &ConnectionError{Addr: addr, Err: err}
	}
	t.conn = conn
	t.alive.Store(true)
	t.scope, t.stop = background.NewScope(context.Background())
	t.logDebug("Connected", "addr", addr)
	return t, nil
}

// Username - returns name the lines are sent on behalf of.
func (t *Transport) Username() string {
	return t.username
}

// RemoteAddr - returns address of chat server.
func (t *Transport) RemoteAddr() net.Addr {
	return t.conn.RemoteAddr()
}

// Incoming - returns queue of received lines.
func (t *Transport) Incoming() *inbox.Queue {
	return t.incoming
}

// Alive - reports the receive loop has not met the end of connection yet.
func (t *Transport) Alive() bool {
	return t.alive.Load()
}

// Err - returns unexpected receive error which stopped the receive loop, if any.
func (t *Transport) Err() error {
	if err := t.failure.Load(); err != nil {
		return *err
	}
	return nil
}

// Start - launches receive loop in background.
func (t *Transport) Start() {
	t.scope.Go(t.receive)
}

func (t *Transport) receive(ctx context.Context) {
	decoder := codec.NewDecoder(0)
	push := func(line string) {
		t.incoming.Push(codec.Printable(line))
	}
	buf := make([]byte, t.chunkSize)
	for {
		n, err := t.conn.Read(buf)
		if n > 0 {
			for _, line := range decoder.Feed(buf[:n]) {
				push(line)
			}
		}
		if err == nil {
			continue
		}
		if line, ok := decoder.Flush(); ok {
			push(line)
		}
		switch {
		case errors.Is(err, io.EOF):
			t.logDebug("Server closed connection")
		case ctx.Err() != nil:
			// closed on our side
		default:
			err = fmt.Errorf("client.Transport: receive: %w", err)
			t.failure.Store(&err)
			t.logError("Receive failed", err)
		}
		t.alive.Store(false)
		return
	}
}

// Send - sends text as a chat line of the user. Calls must not be concurrent.
func (t *Transport) Send(text string) error {
	return t.send(codec.Format(t.username, text))
}

// SendConnectionMessage - announces the user has joined the chat.
func (t *Transport) SendConnectionMessage() error {
	return t.send(fmt.Sprintf(ConnectionMessage, t.username))
}

// SendDisconnectionMessage - announces the user is leaving the chat.
// It is the best effort, failure is only logged.
func (t *Transport) SendDisconnectionMessage() {
	if err := t.send(fmt.Sprintf(DisconnectionMessage, t.username)); err != nil {
		t.logDebug("Disconnection message is not sent", "error", err)
	}
}

func (t *Transport) send(line string) error {
	if t.scope.Expired() {
		return ErrTransportClosed
	}
	if _, err := t.conn.Write(codec.Encode(line)); err != nil {
		return fmt.Errorf("client.Transport: send: %w", err)
	}
	return nil
}

// Close - closes connection and waits the receive loop is done.
func (t *Transport) Close() error {
	if t.scope.Expired() {
		return nil
	}
	t.scope.Cancel()
	err := t.conn.Close()
	t.stop()
	return err
}

func (t *Transport) logDebug(msg string, args ...any) {
	if t.logger == nil {
		return
	}
	t.logger.Debug(msg, args...)
}

func (t *Transport) logError(msg string, err error) {
	if t.logger == nil {
		return
	}
	t.logger.Error(msg, "error", err)
}
