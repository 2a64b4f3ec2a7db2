//go:build unix

package server

import (
	"net"

	"github.com/wtask/linechat/internal/chat/codec"
)

type connection struct {
	id      string
	fd      int
	addr    net.Addr
	decoder *codec.Decoder
	// outbox - bytes not yet accepted by the socket
	outbox []byte
}

// registry - connection set of the server loop, keyed by file descriptor.
// It is owned by a single goroutine and is not synchronized.
type registry struct {
	list map[int]*connection
}

func newRegistry() *registry {
	return &registry{
		list: make(map[int]*connection),
	}
}

func (r *registry) len() int {
	return len(r.list)
}

func (r *registry) get(fd int) (c *connection, ok bool) {
	c, ok = r.list[fd]
	return c, ok
}

func (r *registry) add(c *connection) bool {
	if _, ok := r.list[c.fd]; ok {
		return false
	}
	r.list[c.fd] = c
	return true
}

// delete - removes connection and reports whether it was registered.
func (r *registry) delete(c *connection) bool {
	if kept, ok := r.list[c.fd]; !ok || kept != c {
		return false
	}
	delete(r.list, c.fd)
	return true
}

func (r *registry) scan(f func(*connection)) {
	for _, c := range r.list {
		f(c)
	}
}
