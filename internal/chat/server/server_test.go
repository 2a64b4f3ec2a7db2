//go:build unix

package server

import (
	"bufio"
	"io"
	"log/slog"
	"net"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type testServer struct {
	*Server
	join chan JoinEvent
	part chan PartEvent
	errc chan error
}

func startServer(test *testing.T, options ...Option) *testServer {
	test.Helper()
	ts := &testServer{
		join: make(chan JoinEvent, 16),
		part: make(chan PartEvent, 16),
		errc: make(chan error, 1),
	}
	options = append([]Option{
		WithLogger(testLogger),
		WithJoinChan(ts.join),
		WithPartChan(ts.part),
	}, options...)
	s, err := Listen("127.0.0.1", 0, options...)
	require.NoError(test, err)
	ts.Server = s
	go func() {
		ts.errc <- s.Run()
	}()
	test.Cleanup(func() { s.Close() })
	return ts
}

type peer struct {
	id     string
	conn   net.Conn
	reader *bufio.Reader
}

// dial - connects new peer and waits server has accepted it.
func (ts *testServer) dial(test *testing.T) *peer {
	test.Helper()
	conn, err := net.Dial("tcp", ts.Addr().String())
	require.NoError(test, err)
	test.Cleanup(func() { conn.Close() })
	select {
	case event := <-ts.join:
		return &peer{event.ID, conn, bufio.NewReader(conn)}
	case <-time.After(2 * time.Second):
		test.Fatal("there is no join event")
	}
	return nil
}

func (p *peer) send(test *testing.T, data string) {
	test.Helper()
	_, err := p.conn.Write([]byte(data))
	require.NoError(test, err)
}

func (p *peer) readLine(test *testing.T) string {
	test.Helper()
	p.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := p.reader.ReadString('\n')
	require.NoError(test, err)
	return line
}

// silent - asserts nothing arrives to the peer during given period.
func (p *peer) silent(test *testing.T, period time.Duration) {
	test.Helper()
	p.conn.SetReadDeadline(time.Now().Add(period))
	line, err := p.reader.ReadString('\n')
	netErr, ok := err.(net.Error)
	assert.True(test, ok && netErr.Timeout(), "expected timeout, got %q, %v", line, err)
}

func TestListen_Options(test *testing.T) {
	_, err := Listen("127.0.0.1", 0, WithChunkSize(0))
	assert.Error(test, err)

	_, err = Listen("127.0.0.1", 0, WithLogger(nil))
	assert.Error(test, err)

	join := make(chan JoinEvent)
	_, err = Listen("127.0.0.1", 0, WithJoinChan(join), WithJoinChan(join))
	assert.Error(test, err)

	_, err = Listen("127.0.0.1", -1)
	assert.Error(test, err)

	s, err := Listen("127.0.0.1", 0, nil, WithEcho(false), WithChunkSize(16))
	require.NoError(test, err)
	defer s.Close()
	assert.False(test, s.echo)
	assert.Equal(test, 16, s.chunkSize)
	addr, ok := s.Addr().(*net.TCPAddr)
	require.True(test, ok)
	assert.NotZero(test, addr.Port)
	assert.Equal(test, "127.0.0.1", addr.IP.String())
}

func TestServer_Broadcast(test *testing.T) {
	ts := startServer(test)
	a, b, c := ts.dial(test), ts.dial(test), ts.dial(test)

	a.send(test, "alice: hi\n")
	for _, p := range []*peer{a, b, c} {
		assert.Equal(test, "alice: hi\n", p.readLine(test))
	}
}

func TestServer_BroadcastTrimsAndSplits(test *testing.T) {
	ts := startServer(test)
	a, b := ts.dial(test), ts.dial(test)

	a.send(test, "ali")
	b.silent(test, 50*time.Millisecond)
	a.send(test, "ce: x  \r\nalice: y\n")
	assert.Equal(test, "alice: x\n", b.readLine(test))
	assert.Equal(test, "alice: y\n", b.readLine(test))
}

func TestServer_RelayVerbatim(test *testing.T) {
	ts := startServer(test)
	a, b := ts.dial(test), ts.dial(test)

	a.send(test, "bob:\tcol\x07bell\x1b[1mbold\n")
	assert.Equal(test, "bob:\tcol\x07bell\x1b[1mbold\n", b.readLine(test))
}

func TestServer_RelayOnLeave(test *testing.T) {
	ts := startServer(test)
	a, b := ts.dial(test), ts.dial(test)

	a.send(test, "bob: hi")
	b.silent(test, 50*time.Millisecond)
	a.conn.Close()
	assert.Equal(test, "bob: hi\n", b.readLine(test))

	select {
	case event := <-ts.part:
		assert.Equal(test, a.id, event.ID)
		assert.Equal(test, PartActionLeft, event.Action)
	case <-time.After(2 * time.Second):
		test.Fatal("there is no part event")
	}

	// nothing is relayed for a connection leaving without pending data
	c := ts.dial(test)
	c.send(test, "carol: bye\n")
	assert.Equal(test, "carol: bye\n", b.readLine(test))
	c.conn.Close()
	select {
	case <-ts.part:
	case <-time.After(2 * time.Second):
		test.Fatal("there is no part event")
	}
	b.silent(test, 100*time.Millisecond)
}

func TestServer_WithoutEcho(test *testing.T) {
	ts := startServer(test, WithEcho(false))
	a, b := ts.dial(test), ts.dial(test)

	a.send(test, "alice: hi\n")
	assert.Equal(test, "alice: hi\n", b.readLine(test))
	a.silent(test, 100*time.Millisecond)

	b.send(test, "bob: hello\n")
	assert.Equal(test, "bob: hello\n", a.readLine(test))
}

func TestServer_Disconnect(test *testing.T) {
	ts := startServer(test)
	a, b, c := ts.dial(test), ts.dial(test), ts.dial(test)

	b.conn.Close()
	select {
	case event := <-ts.part:
		assert.Equal(test, b.id, event.ID)
		assert.Equal(test, PartActionLeft, event.Action)
		assert.NoError(test, event.Err)
	case <-time.After(2 * time.Second):
		test.Fatal("there is no part event")
	}

	a.send(test, "alice: still here\n")
	assert.Equal(test, "alice: still here\n", a.readLine(test))
	assert.Equal(test, "alice: still here\n", c.readLine(test))

	c.send(test, "carol: me too\n")
	assert.Equal(test, "carol: me too\n", a.readLine(test))

	// disconnect is not announced by server and is reported only once
	select {
	case event := <-ts.part:
		test.Error("unexpected part event", event.ID, event.Action)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestServer_Close(test *testing.T) {
	ts := startServer(test)
	a := ts.dial(test)

	require.NoError(test, ts.Close())
	select {
	case err := <-ts.errc:
		assert.NoError(test, err)
	case <-time.After(2 * time.Second):
		test.Fatal("Run has not returned after Close")
	}

	select {
	case event := <-ts.part:
		assert.Equal(test, a.id, event.ID)
		assert.Equal(test, PartActionShutdown, event.Action)
	default:
		test.Error("there is no part event on shutdown")
	}

	a.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err := a.reader.ReadString('\n')
	assert.Equal(test, io.EOF, err)

	assert.NoError(test, ts.Close())
	assert.Equal(test, ErrServerClosed, ts.Run())
}

func TestServer_ListenerFailed(test *testing.T) {
	if runtime.GOOS != "linux" {
		test.Skip("shutdown of listening socket is reported as POLLHUP on linux only")
	}
	ts := &testServer{
		join: make(chan JoinEvent, 16),
		part: make(chan PartEvent, 16),
		errc: make(chan error, 1),
	}
	s, err := Listen("127.0.0.1", 0, WithLogger(testLogger), WithJoinChan(ts.join), WithPartChan(ts.part))
	require.NoError(test, err)
	ts.Server = s
	listener := s.fd
	go func() {
		ts.errc <- s.Run()
	}()
	test.Cleanup(func() { s.Close() })
	a, b := ts.dial(test), ts.dial(test)

	require.NoError(test, unix.Shutdown(listener, unix.SHUT_RDWR))
	select {
	case err := <-ts.errc:
		assert.Equal(test, ErrListenerFailed, err)
	case <-time.After(2 * time.Second):
		test.Fatal("Run has not returned after listener failure")
	}

	parted := map[string]PartAction{}
	for len(parted) < 2 {
		select {
		case event := <-ts.part:
			parted[event.ID] = event.Action
		default:
			test.Fatal("not every connection is closed", parted)
		}
	}
	assert.Equal(test, map[string]PartAction{a.id: PartActionShutdown, b.id: PartActionShutdown}, parted)

	for _, p := range []*peer{a, b} {
		p.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, err := p.reader.ReadString('\n')
		assert.Equal(test, io.EOF, err)
	}

	assert.Equal(test, ErrServerClosed, s.Run())
	_, err = net.DialTimeout("tcp", s.Addr().String(), time.Second)
	assert.Error(test, err)
}

func TestServer_CloseIdle(test *testing.T) {
	s, err := Listen("127.0.0.1", 0)
	require.NoError(test, err)
	require.NoError(test, s.Close())
	assert.Equal(test, ErrServerClosed, s.Run())

	_, err = net.DialTimeout("tcp", s.Addr().String(), time.Second)
	assert.Error(test, err)
}

func TestServer_ManyLines(test *testing.T) {
	ts := startServer(test, WithChunkSize(7))
	a, b := ts.dial(test), ts.dial(test)

	sent := []string{}
	for _, word := range strings.Fields("lorem ipsum dolor sit amet consectetur adipiscing elit") {
		sent = append(sent, "alice: "+word+"\n")
	}
	a.send(test, strings.Join(sent, ""))
	for _, expected := range sent {
		assert.Equal(test, expected, b.readLine(test))
	}
}

func Test_tcpAddr(test *testing.T) {
	v4 := tcpAddr(&unix.SockaddrInet4{Port: 20000, Addr: [4]byte{127, 0, 0, 1}})
	assert.Equal(test, "127.0.0.1:20000", v4.String())

	v6 := tcpAddr(&unix.SockaddrInet6{Port: 20000, Addr: [16]byte{15: 1}})
	assert.Equal(test, "[::1]:20000", v6.String())

	assert.Nil(test, tcpAddr(nil))
}

func Test_sockaddr(test *testing.T) {
	family, sa := sockaddr(net.ParseIP("10.0.0.1"), 80)
	assert.Equal(test, unix.AF_INET, family)
	assert.Equal(test, &unix.SockaddrInet4{Port: 80, Addr: [4]byte{10, 0, 0, 1}}, sa)

	family, _ = sockaddr(net.ParseIP("::1"), 80)
	assert.Equal(test, unix.AF_INET6, family)
}
