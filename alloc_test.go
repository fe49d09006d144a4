package memheap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocBytes(t *testing.T) {
	h := newTestHeap(t, 1024)

	addr, b := h.AllocBytes(100)
	require.Len(t, b, 100)
	assert.Equal(t, 100, cap(b))
	assert.Equal(t, uint32(100), h.ChunkSize(addr))

	copy(b, "hello")
	assert.Equal(t, "hello", string(h.Bytes(addr)[:5]))

	addr0, b0 := h.AllocBytes(0)
	assert.Empty(t, b0)
	assert.True(t, h.IsOnHeap(addr0))
}

func TestAllocBytesRecycledChunk(t *testing.T) {
	h := newTestHeap(t, 1024)
	big, buf := h.AllocBytes(64)
	for i := range buf {
		buf[i] = 0xFF
	}
	_ = h.Allocate(4)
	h.Release(big)

	addr, b := h.AllocBytes(16)
	require.Equal(t, big, addr)
	assert.Len(t, b, 16)
	// the full recycled payload is still reachable
	assert.Len(t, h.Bytes(addr), 64)
	// the freelist link overwrote the first word, the rest is stale
	assert.Equal(t, byte(0xFF), b[4])
}

func TestAllocZeroed(t *testing.T) {
	h := newTestHeap(t, 1024)
	big, buf := h.AllocBytes(64)
	for i := range buf {
		buf[i] = 0xFF
	}
	_ = h.Allocate(4)
	h.Release(big)

	addr, b := h.AllocZeroed(32)
	require.Equal(t, big, addr)
	assert.Equal(t, make([]byte, 32), b)
	assert.Equal(t, byte(0xFF), h.Bytes(addr)[40], "only the requested bytes are cleared")
}

func TestBytesInvalidAddress(t *testing.T) {
	h := newTestHeap(t, 1024)
	assert.Nil(t, h.Bytes(h.Start()-1))
	assert.Nil(t, h.Bytes(h.Limit()))
	assert.Nil(t, h.Bytes(h.Start()))
	assert.Nil(t, h.Bytes(Nil))
	assert.Zero(t, h.ChunkSize(h.Start()+4))
	assert.Zero(t, h.ChunkSize(Nil))

	// a header claiming more than the region holds yields nil
	addr, b := h.AllocBytes(8)
	b[0], b[1], b[2], b[3] = 0xFF, 0xFF, 0, 0
	assert.Nil(t, h.Bytes(addr+4))
}
