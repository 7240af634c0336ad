// Package netaddr implements the value-typed socket endpoint spec.md's C8
// describes, grounded on
// original_source/lib_shared/inc/jar/net2/socket_address.hpp and
// src/jar/net2/domain_address.cpp.
package netaddr

import (
	"errors"
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// Family names the socket address families this port supports, per
// spec.md §6: "IPC (filesystem path), IPv4, IPv6."
type Family int

const (
	Unix Family = iota
	IP4
	IP6
)

func (f Family) String() string {
	switch f {
	case Unix:
		return "unix"
	case IP4:
		return "ip4"
	case IP6:
		return "ip6"
	default:
		return "unknown"
	}
}

// MaxUnixPathLen is the platform max-path-minus-one spec.md §6 requires IPC
// addresses be capped at: unix.SizeofSockaddrUnix reserves a fixed-size
// Path array (108 bytes on Linux); the usable length is one less, to leave
// room for the trailing NUL the kernel expects for a non-abstract path.
const MaxUnixPathLen = len(unix.RawSockaddrUnix{}.Path) - 1

// Address is a value type owning a family tag and the data needed to
// reconstruct the corresponding golang.org/x/sys/unix.Sockaddr for a raw
// syscall, plus a string projection and (for unix-family addresses) an
// Unlink operation.
type Address struct {
	family Family
	path   string // Unix
	ip     net.IP // IP4 / IP6
	port   int    // IP4 / IP6
}

// NewUnix constructs a filesystem-path-backed IPC address. It enforces the
// platform max length at construction, per spec.md §3's "Enforces max
// length at construction": a path longer than MaxUnixPathLen is rejected
// rather than silently truncated.
func NewUnix(path string) (Address, error) {
	if len(path) > MaxUnixPathLen {
		return Address{}, fmt.Errorf("netaddr: unix path length %d exceeds max %d", len(path), MaxUnixPathLen)
	}
	if len(path) == 0 {
		return Address{}, errors.New("netaddr: unix path must not be empty")
	}
	return Address{family: Unix, path: path}, nil
}

// NewIP4 constructs an IPv4 address. ip must be a valid 4-byte (or
// 4-in-16-byte) IP.
func NewIP4(ip net.IP, port int) (Address, error) {
	v4 := ip.To4()
	if v4 == nil {
		return Address{}, fmt.Errorf("netaddr: %v is not a valid IPv4 address", ip)
	}
	return Address{family: IP4, ip: v4, port: port}, nil
}

// NewIP6 constructs an IPv6 address.
func NewIP6(ip net.IP, port int) (Address, error) {
	v6 := ip.To16()
	if v6 == nil {
		return Address{}, fmt.Errorf("netaddr: %v is not a valid IPv6 address", ip)
	}
	return Address{family: IP6, ip: v6, port: port}, nil
}

// Family returns the address family tag.
func (a Address) Family() Family { return a.family }

// Path returns the filesystem path for a Unix-family address, or "" for
// others.
func (a Address) Path() string { return a.path }

// IP returns the IP for an IP4/IP6-family address, or nil for Unix.
func (a Address) IP() net.IP { return a.ip }

// Port returns the port for an IP4/IP6-family address, or 0 for Unix.
func (a Address) Port() int { return a.port }

// Length returns the semantic byte length of the address content (the path
// length for Unix, 4 or 16 for IP4/IP6), not the size of the underlying
// fixed-size kernel struct.
func (a Address) Length() int {
	switch a.family {
	case Unix:
		return len(a.path)
	case IP4:
		return net.IPv4len
	case IP6:
		return net.IPv6len
	default:
		return 0
	}
}

// MaxLength returns the platform maximum for this address's family.
func (a Address) MaxLength() int {
	switch a.family {
	case Unix:
		return MaxUnixPathLen
	case IP4:
		return net.IPv4len
	case IP6:
		return net.IPv6len
	default:
		return 0
	}
}

// String projects the address to a human-readable form.
func (a Address) String() string {
	switch a.family {
	case Unix:
		return "unix:" + a.path
	case IP4, IP6:
		return net.JoinHostPort(a.ip.String(), fmt.Sprint(a.port))
	default:
		return "invalid"
	}
}

// Equal compares semantic content — family plus path, or family plus IP and
// port — not byte-identity of an underlying struct, per spec.md §3.
func (a Address) Equal(other Address) bool {
	if a.family != other.family {
		return false
	}
	switch a.family {
	case Unix:
		return a.path == other.path
	case IP4, IP6:
		return a.ip.Equal(other.ip) && a.port == other.port
	default:
		return true
	}
}

// IsZero reports whether a is the zero-value Address (no family assigned),
// the "empty address" precondition socket_address.hpp rejects on bind/
// connect/sendto.
func (a Address) IsZero() bool {
	return a.family == Unix && a.path == "" && a.ip == nil && a.port == 0
}

// Unlink removes the filesystem endpoint for a Unix-family address. It is a
// no-op (returns nil) for IP4/IP6 addresses and for a path that does not
// exist, matching spec.md §4.7's "bind unlinks existing filesystem
// endpoints... before binding" — a fresh path that was never bound must not
// fail this step.
func (a Address) Unlink() error {
	if a.family != Unix {
		return nil
	}
	if err := unix.Unlink(a.path); err != nil && !errors.Is(err, unix.ENOENT) {
		return fmt.Errorf("netaddr: unlink %s: %w", a.path, err)
	}
	return nil
}

// Sockaddr builds the golang.org/x/sys/unix.Sockaddr this address
// represents, for use directly in a Bind/Connect/Sendto syscall.
func (a Address) Sockaddr() (unix.Sockaddr, error) {
	switch a.family {
	case Unix:
		return &unix.SockaddrUnix{Name: a.path}, nil
	case IP4:
		var sa unix.SockaddrInet4
		copy(sa.Addr[:], a.ip.To4())
		sa.Port = a.port
		return &sa, nil
	case IP6:
		var sa unix.SockaddrInet6
		copy(sa.Addr[:], a.ip.To16())
		sa.Port = a.port
		return &sa, nil
	default:
		return nil, errors.New("netaddr: invalid address family")
	}
}

// FromSockaddr reconstructs an Address from a raw unix.Sockaddr returned by
// Accept/RecvfromUnix, used by DatagramSocket.ReceiveFrom to report the
// sender.
func FromSockaddr(sa unix.Sockaddr) (Address, error) {
	switch v := sa.(type) {
	case *unix.SockaddrUnix:
		return NewUnix(v.Name)
	case *unix.SockaddrInet4:
		ip := net.IP(v.Addr[:])
		return NewIP4(ip, v.Port)
	case *unix.SockaddrInet6:
		ip := net.IP(v.Addr[:])
		return NewIP6(ip, v.Port)
	default:
		return Address{}, fmt.Errorf("netaddr: unsupported sockaddr type %T", sa)
	}
}
