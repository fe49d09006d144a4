package memheap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnterArena(t *testing.T) {
	h := newTestHeap(t, 1024)
	root := h.CurrentArena()
	end := h.End()

	h.EnterArena()
	assert.Equal(t, end, h.CurrentArena())
	assert.Equal(t, end+ArenaSize, h.End())
	assert.True(t, h.InsideArena())
	assert.Equal(t, 1, h.ArenaDepth())

	h.LeaveArena()
	assert.Equal(t, root, h.CurrentArena())
	assert.Equal(t, end, h.End())
	assert.False(t, h.InsideArena())
	assert.Zero(t, h.ArenaDepth())
}

func TestArenaBulkReclaim(t *testing.T) {
	tests := []struct {
		name  string
		sizes []uint32
	}{
		{"empty", nil},
		{"single", []uint32{1}},
		{"mixed", []uint32{0, 3, 100, 7, 4096, 12}},
		{"large", []uint32{30000, 30000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHeap(t, 64*1024)
			_ = h.Allocate(24)
			end, arena := h.End(), h.CurrentArena()

			h.EnterArena()
			for _, n := range tt.sizes {
				_ = h.Allocate(n)
			}
			h.LeaveArena()

			assert.Equal(t, end, h.End())
			assert.Equal(t, arena, h.CurrentArena())
		})
	}
}

func TestArenaReclaimsFreelist(t *testing.T) {
	h := newTestHeap(t, 4096)
	end := h.End()

	h.EnterArena()
	a := h.Allocate(64)
	_ = h.Allocate(8)
	h.Release(a)
	count, _ := h.FreeChunks()
	require.Equal(t, 1, count)
	h.LeaveArena()

	count, _ = h.FreeChunks()
	assert.Zero(t, count, "inner freelist does not leak into the parent")
	assert.Equal(t, end, h.End())
}

func TestArenaFreelistsAreScoped(t *testing.T) {
	h := newTestHeap(t, 4096)
	outer := h.Allocate(64)
	_ = h.Allocate(8)
	h.Release(outer)

	h.EnterArena()
	inner := h.Allocate(16)
	assert.NotEqual(t, outer, inner, "the root freelist is not visible inside the arena")
	assert.Greater(t, uint32(inner), uint32(h.CurrentArena()))
	h.LeaveArena()

	assert.Equal(t, outer, h.Allocate(16), "the root freelist is intact after leaving")
}

func TestNestedArenas(t *testing.T) {
	h := newTestHeap(t, 8192)
	var ends []Addr
	for depth := 1; depth <= 5; depth++ {
		ends = append(ends, h.End())
		h.EnterArena()
		_ = h.Allocate(uint32(depth * 10))
		assert.Equal(t, depth, h.ArenaDepth())
	}
	for depth := 5; depth >= 1; depth-- {
		h.LeaveArena()
		assert.Equal(t, ends[depth-1], h.End())
		assert.Equal(t, depth-1, h.ArenaDepth())
	}
}

func TestLeaveRootArena(t *testing.T) {
	h := newTestHeap(t, 1024)
	end := h.End()
	fe := requireFatal(t, UnderflowLeave, func() { h.LeaveArena() })
	assert.ErrorIs(t, fe, ErrUnderflowLeave)
	assert.Equal(t, end, h.End())
	assert.Equal(t, h.Start(), h.CurrentArena())

	h.EnterArena()
	h.LeaveArena()
	requireFatal(t, UnderflowLeave, func() { h.LeaveArena() })
}

func TestEnterArenaExhaustion(t *testing.T) {
	h := newTestHeap(t, 64)
	_ = h.Allocate(h.FreeBytes() - HeaderSize - ArenaSize + 1)
	requireFatal(t, Exhaustion, func() { h.EnterArena() })
	assert.False(t, h.InsideArena())
}

func TestEnterArenaFillsHeap(t *testing.T) {
	h := newTestHeap(t, 64)
	_ = h.Allocate(h.FreeBytes() - HeaderSize - ArenaSize)
	h.EnterArena()
	assert.Zero(t, h.FreeBytes())
	h.LeaveArena()
}

func TestWithArena(t *testing.T) {
	h := newTestHeap(t, 4096)
	end := h.End()
	h.WithArena(func() {
		assert.True(t, h.InsideArena())
		for i := 0; i < 10; i++ {
			_ = h.Allocate(100)
		}
	})
	assert.Equal(t, end, h.End())
	assert.False(t, h.InsideArena())
}

func TestWithArenaLeavesOnPanic(t *testing.T) {
	h := newTestHeap(t, 256)
	end := h.End()
	requireFatal(t, Exhaustion, func() {
		h.WithArena(func() {
			_ = h.Allocate(1024)
		})
	})
	assert.Equal(t, end, h.End())
	assert.Zero(t, h.ArenaDepth())
}

// The 64 KB draw pass: three buffers in an arena, each placed right after the
// previous chunk, all gone after leaving.
func TestArenaDrawPass(t *testing.T) {
	h := newTestHeap(t, 64*1024)
	before := h.End()

	h.EnterArena()
	var prev Addr
	var prevSize uint32
	for i, n := range []uint32{100, 200, 50} {
		a := h.Allocate(n)
		if i > 0 {
			assert.Equal(t, prev+Addr(prevSize)+HeaderSize, a, fmt.Sprintf("allocation %d", i))
		}
		assert.True(t, h.IsInCurrentArena(a))
		prev, prevSize = a, n
	}
	h.LeaveArena()

	assert.Equal(t, before, h.End())
}

func TestArenaPreservesFingerprint(t *testing.T) {
	h := newTestHeap(t, 4096)
	_, buf := h.AllocBytes(32)
	copy(buf, "persistent state")
	fp := h.Fingerprint()

	h.WithArena(func() {
		a := h.Allocate(64)
		_ = h.Allocate(8)
		h.Release(a)
		_, tmp := h.AllocZeroed(48)
		tmp[0] = 1
	})
	assert.Equal(t, fp, h.Fingerprint())
}
