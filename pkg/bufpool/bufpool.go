// Package bufpool provides a scratch-buffer pool sized to one fixed block
// size. BlockFileContainer and RawAccessContainer both need a scratch
// buffer of exactly the container's block size B when the
// caller's backing buffer is smaller than B; routing those through a pool
// avoids a fresh allocation on every Update/Get of an undersized block.
package bufpool

import "sync"

// Pool hands out byte slices sized to one fixed block size, reusing
// returned buffers via sync.Pool. All operations are safe for concurrent
// use.
type Pool struct {
	blockSize int
	pool      sync.Pool
}

// New returns a Pool of buffers sized exactly blockSize bytes.
func New(blockSize int) *Pool {
	p := &Pool{blockSize: blockSize}
	p.pool = sync.Pool{
		New: func() any {
			buf := make([]byte, p.blockSize)
			return &buf
		},
	}
	return p
}

// Get returns a buffer whose length is exactly the pool's block size. The returned slice's contents are not guaranteed to be zeroed —
// callers that need that must zero it themselves (Get never zeroes to
// avoid paying for it on the hot path when the whole buffer is about to be
// overwritten anyway).
func (p *Pool) Get() []byte {
	bufPtr := p.pool.Get().(*[]byte)
	return (*bufPtr)[:p.blockSize]
}

// Put returns buf to the pool. buf must have been obtained from Get (or
// have capacity exactly equal to the pool's block size); anything else is
// silently dropped rather than pooled.
func (p *Pool) Put(buf []byte) {
	if cap(buf) != p.blockSize {
		return
	}
	full := buf[:p.blockSize]
	p.pool.Put(&full)
}

// BlockSize returns the fixed size of buffers this pool hands out.
func (p *Pool) BlockSize() int { return p.blockSize }
