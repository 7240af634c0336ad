package socket

import (
	"golang.org/x/sys/unix"

	"github.com/corewind/asyncexec/netaddr"
	"github.com/corewind/asyncexec/precondition"
)

// StreamSocket is a connected, byte-stream endpoint — the client side of a
// stream connection, or the per-connection socket a ServerSocket hands back from
// Accept. Grounded on basic_stream_socket.hpp's connect/read/write contract.
type StreamSocket struct {
	base
}

// Connect opens and connects a stream socket to addr.
func Connect(addr netaddr.Address) (s *StreamSocket, err error) {
	defer precondition.Recover(&err)

	proto, perr := protocolFor(addr, Stream)
	if perr != nil {
		return nil, perr
	}
	b, berr := open(proto)
	if berr != nil {
		return nil, berr
	}
	sa, aerr := addr.Sockaddr()
	if aerr != nil {
		_ = b.Close()
		return nil, aerr
	}
	if cerr := precondition.NoSystemError("connect", unix.Connect(b.h.Native(), sa)); cerr != nil {
		_ = b.Close()
		return nil, cerr
	}
	return &StreamSocket{base: b}, nil
}

// Receive reads up to len(buf) bytes, returning the count actually read.
// A zero count with a nil error indicates the peer has shut down its send
// side (EOF), mirroring basic_stream_socket.hpp's read(). buf must be a
// non-nil, non-zero-length buffer, matching stream_socket.cpp's
// not_null/not_zero preconditions on every read.
func (s *StreamSocket) Receive(buf []byte) (n int, err error) {
	defer precondition.Recover(&err)
	precondition.NotNull(buf, "buffer")
	precondition.NotZero(len(buf), "buffer length")

	n, rerr := unix.Read(s.h.Native(), buf)
	if serr := precondition.NoSystemError("read", rerr); serr != nil {
		return 0, serr
	}
	return n, nil
}

// Send writes buf in full, retrying short writes, and returns the total
// bytes written. buf must be a non-nil, non-zero-length buffer, matching
// stream_socket.cpp's not_null/not_zero preconditions on every write.
func (s *StreamSocket) Send(buf []byte) (n int, err error) {
	defer precondition.Recover(&err)
	precondition.NotNull(buf, "buffer")
	precondition.NotZero(len(buf), "buffer length")

	total := 0
	for total < len(buf) {
		written, werr := unix.Write(s.h.Native(), buf[total:])
		if serr := precondition.NoSystemError("write", werr); serr != nil {
			return total, serr
		}
		if written == 0 {
			break
		}
		total += written
	}
	return total, nil
}

func protocolFor(addr netaddr.Address, t Type) (Protocol, error) {
	return Protocol{Family: addr.Family(), Type: t}, nil
}
