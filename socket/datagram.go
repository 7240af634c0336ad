package socket

import (
	"golang.org/x/sys/unix"

	"github.com/corewind/asyncexec/netaddr"
	"github.com/corewind/asyncexec/precondition"
)

// DatagramSocket is a connectionless, message-oriented endpoint. Grounded
// on basic_datagram_socket.hpp and src/jar/net2/datagram_socket.cpp's
// bind/sendto/recvfrom triad.
type DatagramSocket struct {
	base
}

// NewDatagram opens an unbound datagram socket for family.
func NewDatagram(family netaddr.Family) (d *DatagramSocket, err error) {
	defer precondition.Recover(&err)
	b, berr := open(Protocol{Family: family, Type: Datagram})
	if berr != nil {
		return nil, berr
	}
	return &DatagramSocket{base: b}, nil
}

// Bind associates the socket with a local address, unlinking any stale
// filesystem endpoint first for the Unix family.
func (d *DatagramSocket) Bind(addr netaddr.Address) error {
	if err := addr.Unlink(); err != nil {
		return err
	}
	sa, err := addr.Sockaddr()
	if err != nil {
		return err
	}
	return precondition.NoSystemError("bind", unix.Bind(d.h.Native(), sa))
}

// SendTo sends buf as a single datagram to addr. On success it returns
// len(buf); the underlying sendto reports no byte count, so a short send
// is never reported. addr must not
// be the empty address, and buf must be a non-nil, non-zero-length buffer,
// matching datagram_socket.cpp's not_null/not_zero preconditions.
func (d *DatagramSocket) SendTo(addr netaddr.Address, buf []byte) (n int, err error) {
	defer precondition.Recover(&err)
	precondition.NotNull(buf, "buffer")
	precondition.NotZero(len(buf), "buffer length")
	if addr.IsZero() {
		panic(&precondition.InvalidArgumentError{Message: "address must not be empty"})
	}

	sa, serr := addr.Sockaddr()
	if serr != nil {
		return 0, serr
	}
	if serr := precondition.NoSystemError("sendto", unix.Sendto(d.h.Native(), buf, 0, sa)); serr != nil {
		return 0, serr
	}
	return len(buf), nil
}

// ReceiveFrom reads one datagram into buf and reports the sender's
// address. Per spec.md §6's "oversize datagram rejection", a message
// larger than len(buf) is truncated by the kernel; callers that need to
// detect truncation should size buf generously and compare the returned
// count against len(buf). buf must be a non-nil, non-zero-length buffer.
func (d *DatagramSocket) ReceiveFrom(buf []byte) (n int, addr netaddr.Address, err error) {
	defer precondition.Recover(&err)
	precondition.NotNull(buf, "buffer")
	precondition.NotZero(len(buf), "buffer length")

	n, from, rerr := unix.Recvfrom(d.h.Native(), buf, 0)
	if serr := precondition.NoSystemError("recvfrom", rerr); serr != nil {
		return 0, netaddr.Address{}, serr
	}
	if from == nil {
		return n, netaddr.Address{}, nil
	}
	addr, aerr := netaddr.FromSockaddr(from)
	if aerr != nil {
		return n, netaddr.Address{}, aerr
	}
	return n, addr, nil
}
