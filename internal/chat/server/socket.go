//go:build unix

package server

import (
	"errors"
	"net"
	"strconv"

	"golang.org/x/sys/unix"
)

// backlog - listen queue size of the server socket.
const backlog = 5

// listenTCP - creates non-blocking listening socket bound to host:port.
func listenTCP(host string, port int) (fd int, addr *net.TCPAddr, err error) {
	if port < 0 || port > 65535 {
		return -1, nil, errors.New("invalid port " + strconv.Itoa(port))
	}
	ip, err := resolveIP(host)
	if err != nil {
		return -1, nil, err
	}
	family, sa := sockaddr(ip, port)

	fd, err = unix.Socket(family, unix.SOCK_STREAM, unix.IPPROTO_TCP)
	if err != nil {
		return -1, nil, err
	}
	defer func() {
		if err != nil {
			unix.Close(fd)
			fd = -1
		}
	}()
	unix.CloseOnExec(fd)
	if err = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return fd, nil, err
	}
	if err = unix.SetNonblock(fd, true); err != nil {
		return fd, nil, err
	}
	if err = unix.Bind(fd, sa); err != nil {
		return fd, nil, err
	}
	if err = unix.Listen(fd, backlog); err != nil {
		return fd, nil, err
	}
	bound, err := unix.Getsockname(fd)
	if err != nil {
		return fd, nil, err
	}
	return fd, tcpAddr(bound), nil
}

// resolveIP - resolves host to a single IP address, IPv4 is preferred.
// Empty host means any IPv4 address.
func resolveIP(host string) (net.IP, error) {
	if host == "" {
		return net.IPv4zero, nil
	}
	addr, err := net.ResolveTCPAddr("tcp", net.JoinHostPort(host, "0"))
	if err != nil {
		return nil, err
	}
	if addr.IP == nil {
		return net.IPv4zero, nil
	}
	return addr.IP, nil
}

func sockaddr(ip net.IP, port int) (family int, sa unix.Sockaddr) {
	if ip4 := ip.To4(); ip4 != nil {
		sa4 := &unix.SockaddrInet4{Port: port}
		copy(sa4.Addr[:], ip4)
		return unix.AF_INET, sa4
	}
	sa6 := &unix.SockaddrInet6{Port: port}
	copy(sa6.Addr[:], ip.To16())
	return unix.AF_INET6, sa6
}

func tcpAddr(sa unix.Sockaddr) *net.TCPAddr {
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return &net.TCPAddr{IP: net.IPv4(a.Addr[0], a.Addr[1], a.Addr[2], a.Addr[3]), Port: a.Port}
	case *unix.SockaddrInet6:
		ip := make(net.IP, net.IPv6len)
		copy(ip, a.Addr[:])
		return &net.TCPAddr{IP: ip, Port: a.Port}
	default:
		return nil
	}
}

// temporary - reports the syscall error only means "try later".
func temporary(err error) bool {
	return errors.Is(err, unix.EAGAIN) ||
		errors.Is(err, unix.EWOULDBLOCK) ||
		errors.Is(err, unix.EINTR)
}
