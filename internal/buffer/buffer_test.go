package buffer_test

import (
	"testing"

	"github.com/BioTurboNick/rr/internal/assert"
	"github.com/BioTurboNick/rr/internal/buffer"
)

func TestAlign(t *testing.T) {
	assert.Equal(t, buffer.Align(0, 4096), 0)
	assert.Equal(t, buffer.Align(1, 4096), 4096)
	assert.Equal(t, buffer.Align(4096, 4096), 4096)
	assert.Equal(t, buffer.Align(4097, 4096), 8192)
}

func TestPoolReusesCapacity(t *testing.T) {
	var pool buffer.Pool

	b := pool.Get(128)
	assert.Equal(t, b.Len(), 128)
	b.Data[0] = 0xff
	pool.Put(b)

	b2 := pool.Get(64)
	assert.Equal(t, b2.Len(), 64)
	if cap(b2.Data) < 128 {
		t.Fatalf("expected reused buffer to keep its capacity, got cap=%d", cap(b2.Data))
	}
}

func TestPoolGrowsBeyondPooledCapacity(t *testing.T) {
	var pool buffer.Pool

	small := pool.Get(16)
	pool.Put(small)

	big := pool.Get(1 << 20)
	assert.Equal(t, big.Len(), 1<<20)
}

func TestRelease(t *testing.T) {
	var pool buffer.Pool
	b := pool.Get(32)
	assert.Equal(t, b.Len(), 32)

	buffer.Release(&b, &pool)
	if b != nil {
		t.Fatalf("expected Release to nil out the caller's reference")
	}
}
