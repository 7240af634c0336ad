// Package socket implements the typed stream/datagram/server socket façade
// spec.md's C9 describes, layered on handle (C7), netaddr (C8), and
// precondition (C10), using golang.org/x/sys/unix for the underlying system
// calls — the Go-native stand-in for the original's bind/listen/recvfrom/…
// wrapper layer, which spec.md §1 explicitly scopes out except for the
// contract it exposes here.
//
// Grounded on original_source/lib_shared/inc/jar/net2/{basic_socket,
// basic_stream_socket,basic_datagram_socket}.hpp and
// src/jar/net2/datagram_socket.cpp.
package socket

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"

	"github.com/corewind/asyncexec/handle"
	"github.com/corewind/asyncexec/netaddr"
	"github.com/corewind/asyncexec/precondition"
)

// Type names the socket types spec.md §6 enumerates.
type Type int

const (
	Stream Type = iota
	Datagram
)

// Protocol is the family+type tag that, per spec.md's Socket<S,P>,
// determines what family/type/protocol is enforced at open time.
type Protocol struct {
	Family netaddr.Family
	Type   Type
}

// ShutdownMode names the three shutdown directions spec.md §4.7 specifies.
type ShutdownMode int

const (
	ShutdownReceive ShutdownMode = iota
	ShutdownSend
	ShutdownBoth
)

// MaxQueue is the platform's maximum listen backlog, per spec.md §6.
const MaxQueue = unix.SOMAXCONN

func domain(f netaddr.Family) (int, error) {
	switch f {
	case netaddr.Unix:
		return unix.AF_UNIX, nil
	case netaddr.IP4:
		return unix.AF_INET, nil
	case netaddr.IP6:
		return unix.AF_INET6, nil
	default:
		return 0, fmt.Errorf("socket: unsupported family %v", f)
	}
}

func sockType(t Type) int {
	if t == Datagram {
		return unix.SOCK_DGRAM
	}
	return unix.SOCK_STREAM
}

// base is embedded by StreamSocket, ServerSocket, and DatagramSocket; it owns the handle and
// implements the family/type-agnostic parts of spec.md §4.7's contract.
type base struct {
	h     *handle.Handle
	proto Protocol
}

func open(proto Protocol) (base, error) {
	d, err := domain(proto.Family)
	if err != nil {
		return base{}, err
	}
	fd, err := unix.Socket(d, sockType(proto.Type), 0)
	if serr := precondition.NoSystemError("socket", err); serr != nil {
		return base{}, serr
	}
	return base{h: handle.New(fd, func(n int) error { return unix.Close(n) }), proto: proto}, nil
}

// Close releases the underlying file descriptor. Idempotent.
func (b *base) Close() error { return b.h.Close() }

// NonBlocking toggles O_NONBLOCK on the underlying descriptor.
func (b *base) NonBlocking(on bool) error {
	return precondition.NoSystemError("fcntl(O_NONBLOCK)", unix.SetNonblock(b.h.Native(), on))
}

// IsNonBlocking reports whether O_NONBLOCK is currently set.
func (b *base) IsNonBlocking() bool {
	flags, err := unix.FcntlInt(uintptr(b.h.Native()), unix.F_GETFL, 0)
	if err != nil {
		return false
	}
	return flags&unix.O_NONBLOCK != 0
}

// Shutdown disables further send and/or receive on the socket without
// closing the descriptor.
func (b *base) Shutdown(mode ShutdownMode) error {
	var how int
	switch mode {
	case ShutdownReceive:
		how = unix.SHUT_RD
	case ShutdownSend:
		how = unix.SHUT_WR
	default:
		how = unix.SHUT_RDWR
	}
	return precondition.NoSystemError("shutdown", unix.Shutdown(b.h.Native(), how))
}

// SendBufferSize returns SO_SNDBUF.
func (b *base) SendBufferSize() (int, error) {
	n, err := unix.GetsockoptInt(b.h.Native(), unix.SOL_SOCKET, unix.SO_SNDBUF)
	if serr := precondition.NoSystemError("getsockopt(SO_SNDBUF)", err); serr != nil {
		return 0, serr
	}
	return n, nil
}

// SetSendTimeout sets SO_SNDTIMEO at microsecond resolution, per spec.md §6.
func (b *base) SetSendTimeout(d time.Duration) error {
	return precondition.NoSystemError("setsockopt(SO_SNDTIMEO)",
		unix.SetsockoptTimeval(b.h.Native(), unix.SOL_SOCKET, unix.SO_SNDTIMEO, durationToTimeval(d)))
}

// SetReceiveTimeout sets SO_RCVTIMEO at microsecond resolution.
func (b *base) SetReceiveTimeout(d time.Duration) error {
	return precondition.NoSystemError("setsockopt(SO_RCVTIMEO)",
		unix.SetsockoptTimeval(b.h.Native(), unix.SOL_SOCKET, unix.SO_RCVTIMEO, durationToTimeval(d)))
}

func durationToTimeval(d time.Duration) *unix.Timeval {
	usec := d.Microseconds()
	return &unix.Timeval{Sec: usec / 1e6, Usec: usec % 1e6}
}

// Fd exposes the raw descriptor for diagnostics/tests only; application
// code should prefer the typed operations.
func (b *base) Fd() int { return b.h.Native() }
