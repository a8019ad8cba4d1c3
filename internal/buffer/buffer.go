// Package buffer provides a small pool of reusable byte buffers shared by
// the substream adapters, so that reading compressed blocks does not
// allocate on every call.
package buffer

import "sync"

// DefaultSize is the granularity that buffer sizes are rounded up to.
const DefaultSize = 4096

// Buffer is a reusable, growable byte buffer.
type Buffer struct{ Data []byte }

// Len returns the number of bytes currently held by the buffer.
func (b *Buffer) Len() int { return len(b.Data) }

// Pool is a single sync.Pool specialized for *Buffer; buffers of every size
// share it, and Get allocates anew when the pooled one is too small.
type Pool struct{ pool sync.Pool }

// Get returns a buffer with at least the requested size, reusing a pooled
// one when its capacity is sufficient.
func (p *Pool) Get(size int) *Buffer {
	b, _ := p.pool.Get().(*Buffer)
	if b != nil {
		if size <= cap(b.Data) {
			b.Data = b.Data[:size]
			return b
		}
		p.Put(b)
	}
	return New(size)
}

// Put returns a buffer to the pool for later reuse.
func (p *Pool) Put(b *Buffer) {
	if b != nil {
		p.pool.Put(b)
	}
}

// New allocates a buffer of the given size, rounded up to DefaultSize.
func New(size int) *Buffer {
	return &Buffer{Data: make([]byte, size, Align(size, DefaultSize))}
}

// Release returns *buf to pool and clears the caller's reference.
func Release(buf **Buffer, pool *Pool) {
	if b := *buf; b != nil {
		*buf = nil
		pool.Put(b)
	}
}

// Align rounds size up to the nearest multiple of to.
func Align(size, to int) int {
	return ((size + (to - 1)) / to) * to
}
