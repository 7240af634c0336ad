package socket

import (
	"golang.org/x/sys/unix"

	"github.com/corewind/asyncexec/handle"
	"github.com/corewind/asyncexec/netaddr"
	"github.com/corewind/asyncexec/precondition"
)

// ServerSocket is a bound, listening acceptor — the passive-open side of
// spec.md's stream protocol. Grounded on basic_stream_socket.hpp's
// bind/listen/accept triad.
type ServerSocket struct {
	base
	addr netaddr.Address
}

// Listen binds addr (unlinking any stale filesystem endpoint first, per
// spec.md §4.7) and starts listening with the given backlog, clamped to
// MaxQueue.
func Listen(addr netaddr.Address, backlog int) (srv *ServerSocket, err error) {
	defer precondition.Recover(&err)
	precondition.NotLess(backlog, 0, "backlog")
	if backlog > MaxQueue {
		backlog = MaxQueue
	}

	proto, _ := protocolFor(addr, Stream)
	b, berr := open(proto)
	if berr != nil {
		return nil, berr
	}
	if uerr := addr.Unlink(); uerr != nil {
		_ = b.Close()
		return nil, uerr
	}
	sa, aerr := addr.Sockaddr()
	if aerr != nil {
		_ = b.Close()
		return nil, aerr
	}
	if berr := precondition.NoSystemError("bind", unix.Bind(b.h.Native(), sa)); berr != nil {
		_ = b.Close()
		return nil, berr
	}
	if lerr := precondition.NoSystemError("listen", unix.Listen(b.h.Native(), backlog)); lerr != nil {
		_ = b.Close()
		return nil, lerr
	}
	return &ServerSocket{base: b, addr: addr}, nil
}

// Accept blocks until a connection arrives and returns a connected
// StreamSocket for it, along with the peer's address when the underlying
// family reports one. basic_stream_socket.hpp's accept() instead takes a
// handler and invokes it with the new connection; returning the socket
// directly is the idiomatic Go shape (callers range over Accept in a loop
// rather than supplying a callback) and is used the same way throughout
// this package's tests.
func (s *ServerSocket) Accept() (*StreamSocket, netaddr.Address, error) {
	fd, sa, err := unix.Accept(s.h.Native())
	if serr := precondition.NoSystemError("accept", err); serr != nil {
		return nil, netaddr.Address{}, serr
	}
	peer, perr := netaddr.FromSockaddr(sa)
	if perr != nil {
		peer = netaddr.Address{}
	}
	conn := &StreamSocket{base: base{
		h:     handle.New(fd, func(n int) error { return unix.Close(n) }),
		proto: Protocol{Family: s.proto.Family, Type: Stream},
	}}
	return conn, peer, nil
}

// Close additionally unlinks the bound filesystem endpoint for a Unix
// server, per spec.md §4.7's "server socket owns cleanup of its bind path."
func (s *ServerSocket) Close() error {
	err := s.base.Close()
	if uerr := s.addr.Unlink(); err == nil {
		err = uerr
	}
	return err
}
