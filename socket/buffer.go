package socket

import (
	"github.com/corewind/asyncexec/netaddr"
	"github.com/corewind/asyncexec/pool"
)

// BufferPool hands out fixed-size byte slices for StreamSocket.Receive and
// DatagramSocket.ReceiveFrom, avoiding a fresh allocation per call on a
// busy connection.
type BufferPool struct {
	pool pool.Pool[[]byte]
	size int
}

// NewBufferPool returns an unbounded pool of size-byte buffers, backed by
// sync.Pool; the runtime is free to shrink its population under memory
// pressure. Suits a listener accepting an unpredictable number of
// connections.
func NewBufferPool(size int) *BufferPool {
	return &BufferPool{
		pool: pool.NewDynamic(func() []byte { return make([]byte, size) }),
		size: size,
	}
}

// NewBoundedBufferPool returns a pool of size-byte buffers capped at
// capacity steady-state entries, suited to a fixed-width connection pool
// where the caller wants receive-buffer memory bounded by a known
// concurrency limit rather than left to sync.Pool's GC-driven eviction.
func NewBoundedBufferPool(size int, capacity uint) *BufferPool {
	return &BufferPool{
		pool: pool.NewFixed(capacity, func() []byte { return make([]byte, size) }),
		size: size,
	}
}

// Get returns a buffer of the pool's configured size.
func (b *BufferPool) Get() []byte { return b.pool.Get() }

// Put returns buf to the pool for reuse. buf must have been obtained from
// Get; a buffer of the wrong length is dropped rather than pooled.
func (b *BufferPool) Put(buf []byte) {
	if len(buf) != b.size {
		return
	}
	b.pool.Put(buf)
}

// ReceivePooled reads one StreamSocket.Receive worth of data into a buffer
// borrowed from bp, returning the data read and a release func the caller
// must invoke once done with it (typically via defer) to return the
// buffer to bp.
func (s *StreamSocket) ReceivePooled(bp *BufferPool) (data []byte, release func(), err error) {
	buf := bp.Get()
	n, rerr := s.Receive(buf)
	if rerr != nil {
		bp.Put(buf)
		return nil, func() {}, rerr
	}
	return buf[:n], func() { bp.Put(buf) }, nil
}

// ReceiveFromPooled is DatagramSocket.ReceiveFrom backed by a buffer
// borrowed from bp; the caller must invoke the returned release func once
// done with the data to return the buffer to bp.
func (d *DatagramSocket) ReceiveFromPooled(bp *BufferPool) (data []byte, from netaddr.Address, release func(), err error) {
	buf := bp.Get()
	n, from, rerr := d.ReceiveFrom(buf)
	if rerr != nil {
		bp.Put(buf)
		return nil, netaddr.Address{}, func() {}, rerr
	}
	return buf[:n], from, func() { bp.Put(buf) }, nil
}
