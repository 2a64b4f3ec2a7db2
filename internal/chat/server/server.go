//go:build unix

// Package server implements chat broadcast server. A single goroutine multiplexes
// the listening socket and every client connection with poll(2) and relays each
// received line to all connected clients.
package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"github.com/wtask/linechat/internal/chat/codec"
)

const defaultChunkSize = 1024

const (
	stateIdle int32 = iota
	stateRunning
	stateClosing
	stateClosed
)

// Server - chat connections keeper and line relay.
type Server struct {
	fd   int
	addr *net.TCPAddr
	// wake - self-pipe to interrupt poll when Close is called
	wake  [2]int
	state atomic.Int32
	done  chan struct{}

	chunkSize int
	echo      bool
	logger    *slog.Logger
	join      chan<- JoinEvent
	part      chan<- PartEvent

	conns *registry
}

// Listen - binds non-blocking listening socket to host:port and returns server ready to Run.
// Port 0 selects ephemeral port, see Addr.
func Listen(host string, port int, options ...Option) (*Server, error) {
	s := &Server{
		fd:        -1,
		wake:      [2]int{-1, -1},
		done:      make(chan struct{}),
		chunkSize: defaultChunkSize,
		echo:      true,
		conns:     newRegistry(),
	}
	if err := setup(s, options...); err != nil {
		return nil, err
	}

	fd, addr, err := listenTCP(host, port)
	if err != nil {
		return nil, fmt.Errorf("server.Listen: %w", err)
	}
	s.fd, s.addr = fd, addr

	if err := unix.Pipe(s.wake[:]); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("server.Listen: wake pipe: %w", err)
	}
	for _, p := range s.wake {
		unix.CloseOnExec(p)
		unix.SetNonblock(p, true)
	}
	return s, nil
}

// Addr - returns bound address of listening socket.
func (s *Server) Addr() net.Addr {
	return s.addr
}

// Run - serves connections until the listening socket fails or Close is called.
// Returns nil after Close and ErrListenerFailed on listener failure.
func (s *Server) Run() error {
	if !s.state.CompareAndSwap(stateIdle, stateRunning) {
		return ErrServerClosed
	}
	defer func() {
		s.release()
		s.state.Store(stateClosed)
		close(s.done)
	}()

	s.logInfo("Chat server is running", "addr", s.addr.String())
	buf := make([]byte, s.chunkSize)
	for {
		fds := s.pollSet()
		if _, err := unix.Poll(fds, -1); err != nil {
			if temporary(err) {
				continue
			}
			s.logError("Poll failed", err)
			return fmt.Errorf("server.Server: poll: %w", err)
		}

		if fds[0].Revents != 0 {
			s.logInfo("Got stop request")
			return nil
		}

		listener := fds[1]
		if listener.Revents&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
			s.logError("Listening socket is in error state", ErrListenerFailed, "revents", listener.Revents)
			return ErrListenerFailed
		}
		if listener.Revents&unix.POLLIN != 0 {
			s.accept()
		}

		for _, p := range fds[2:] {
			if p.Revents == 0 {
				continue
			}
			// may be already retired by broadcast in this iteration
			c, ok := s.conns.get(int(p.Fd))
			if !ok {
				continue
			}
			if p.Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0 {
				s.receive(c, buf)
			}
			if p.Revents&unix.POLLOUT != 0 {
				if _, ok := s.conns.get(c.fd); ok {
					if err := s.flush(c); err != nil {
						s.retire(c, PartActionFailed, err)
					}
				}
			}
		}
	}
}

// Close - stops running server and waits it has released every connection.
// Close of server which was never run just releases its sockets.
func (s *Server) Close() error {
	for {
		switch s.state.Load() {
		case stateIdle:
			if s.state.CompareAndSwap(stateIdle, stateClosed) {
				s.release()
				close(s.done)
				return nil
			}
		case stateRunning:
			if s.state.CompareAndSwap(stateRunning, stateClosing) {
				unix.Write(s.wake[1], []byte{0})
				<-s.done
				return nil
			}
		default:
			<-s.done
			return nil
		}
	}
}

// pollSet - builds poll(2) input from current connection set.
// Index 0 is the wake pipe, index 1 is the listener.
func (s *Server) pollSet() []unix.PollFd {
	fds := make([]unix.PollFd, 0, s.conns.len()+2)
	fds = append(fds,
		unix.PollFd{Fd: int32(s.wake[0]), Events: unix.POLLIN},
		unix.PollFd{Fd: int32(s.fd), Events: unix.POLLIN},
	)
	s.conns.scan(func(c *connection) {
		events := int16(unix.POLLIN)
		if len(c.outbox) > 0 {
			events |= unix.POLLOUT
		}
		fds = append(fds, unix.PollFd{Fd: int32(c.fd), Events: events})
	})
	return fds
}

func (s *Server) accept() {
	nfd, sa, err := unix.Accept(s.fd)
	if err != nil {
		if !temporary(err) && !errors.Is(err, unix.ECONNABORTED) {
			s.logError("Unable to accept connection", err)
		}
		return
	}
	unix.CloseOnExec(nfd)
	if err := unix.SetNonblock(nfd, true); err != nil {
		s.logError("Unable to make connection non-blocking", err)
		unix.Close(nfd)
		return
	}

	c := &connection{
		id:      uuid.NewString(),
		fd:      nfd,
		addr:    tcpAddr(sa),
		decoder: codec.NewDecoder(0),
	}
	s.conns.add(c)
	s.logInfo("Client has joined", "id", c.id, "addr", formatAddress(c.addr), "clients", s.conns.len())
	s.notifyJoin(c)
}

func (s *Server) receive(c *connection, buf []byte) {
	n, err := unix.Read(c.fd, buf)
	switch {
	case err != nil && temporary(err):
		return
	case err != nil:
		s.leave(c, PartActionFailed, err)
		return
	case n == 0:
		s.leave(c, PartActionLeft, nil)
		return
	}
	for _, line := range c.decoder.Feed(buf[:n]) {
		s.broadcast(c, line)
	}
}

// leave - retires connection and relays its line left without delimiter, if any,
// to the remaining connections.
func (s *Server) leave(c *connection, action PartAction, cause error) {
	s.retire(c, action, cause)
	if line, ok := c.decoder.Flush(); ok {
		s.broadcast(c, line)
	}
}

// broadcast - relays line to every connection, origin included if echo is enabled.
func (s *Server) broadcast(origin *connection, line string) {
	s.logDebug("Relay line", "from", origin.id, "size", len(line))
	frame := codec.Encode(line)
	failed := map[*connection]error{}
	s.conns.scan(func(c *connection) {
		if c == origin && !s.echo {
			return
		}
		c.outbox = append(c.outbox, frame...)
		if err := s.flush(c); err != nil {
			failed[c] = err
		}
	})
	for c, err := range failed {
		s.retire(c, PartActionFailed, err)
	}
}

// flush - writes as much of outbox as socket accepts without blocking.
func (s *Server) flush(c *connection) error {
	for len(c.outbox) > 0 {
		n, err := unix.Write(c.fd, c.outbox)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			if temporary(err) {
				return nil
			}
			return err
		}
		c.outbox = c.outbox[n:]
	}
	c.outbox = nil
	return nil
}

// retire - removes connection from server, it is safe to call several times.
func (s *Server) retire(c *connection, action PartAction, cause error) {
	if !s.conns.delete(c) {
		return
	}
	unix.Close(c.fd)
	if cause != nil {
		s.logInfo("Client has gone", "id", c.id, "addr", formatAddress(c.addr), "action", action.String(), "error", cause)
	} else {
		s.logInfo("Client has gone", "id", c.id, "addr", formatAddress(c.addr), "action", action.String())
	}
	s.notifyPart(c, action, cause)
}

// release - closes every connection and server sockets.
func (s *Server) release() {
	s.conns.scan(func(c *connection) {
		s.retire(c, PartActionShutdown, nil)
	})
	if s.fd >= 0 {
		unix.Close(s.fd)
		s.fd = -1
	}
	for i, p := range s.wake {
		if p >= 0 {
			unix.Close(p)
			s.wake[i] = -1
		}
	}
	s.logInfo("Chat server stopped")
}

func (s *Server) notifyJoin(c *connection) {
	if s.join == nil {
		return
	}
	select {
	case s.join <- JoinEvent{ConnEvent{c.id, c.addr, time.Now().UTC()}}:
	default:
		s.logDebug("Join event dropped", "id", c.id)
	}
}

func (s *Server) notifyPart(c *connection, action PartAction, cause error) {
	if s.part == nil {
		return
	}
	select {
	case s.part <- PartEvent{ConnEvent{c.id, c.addr, time.Now().UTC()}, action, cause}:
	default:
		s.logDebug("Part event dropped", "id", c.id)
	}
}
