package pool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolGetPut(t *testing.T) {
	p := New(
		func() *bytes.Buffer { return bytes.NewBuffer(make([]byte, 0, 64)) },
		func(b *bytes.Buffer) { b.Reset() },
	)

	buf := p.Get()
	require.NotNil(t, buf)
	buf.WriteString("hello")
	p.Put(buf)

	// Reset ran on the way back in.
	buf2 := p.Get()
	assert.Equal(t, 0, buf2.Len())
}

func TestPoolStats(t *testing.T) {
	p := New(func() int { return 42 }, nil)

	v := p.Get()
	assert.Equal(t, 42, v)

	allocated, inUse, hits, misses := p.Stats()
	assert.Equal(t, int64(1), allocated)
	assert.Equal(t, int64(1), inUse)
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)

	p.Put(v)
	_, inUse, _, _ = p.Stats()
	assert.Equal(t, int64(0), inUse)
}

func TestBufferPoolBucketSelection(t *testing.T) {
	bp := NewBufferPool()

	buf := bp.Get(2048)
	assert.Equal(t, 2048, len(buf))
	assert.Equal(t, 4096, cap(buf))

	bp.Put(buf)

	again := bp.Get(4096)
	assert.Equal(t, 4096, len(again))
}

func TestBufferPoolOversized(t *testing.T) {
	bp := NewBufferPool()

	buf := bp.Get(32 << 20)
	assert.Equal(t, 32<<20, len(buf))

	// Not a bucket size; Put is a no-op but must not panic.
	bp.Put(buf)
}
