package memheap

import murmur "github.com/rryqszq4/go-murmurhash"

const fingerprintSeed = 0xdeadbeef

// FreeBytes returns the bytes left between the bump cursor and the heap limit.
// Chunks sitting on freelists are not counted.
func (h *Heap) FreeBytes() uint32 {
	return uint32(h.limit - h.end)
}

// UsedBytes returns the bytes between the heap start and the bump cursor,
// arena headers and freelist chunks included.
func (h *Heap) UsedBytes() uint32 {
	return uint32(h.end - h.start)
}

// Capacity returns the size of the heap region.
func (h *Heap) Capacity() uint32 {
	return uint32(h.limit - h.start)
}

// Utilization returns the ratio of used bytes to capacity (0.0 to 1.0).
func (h *Heap) Utilization() float64 {
	return float64(h.UsedBytes()) / float64(h.Capacity())
}

// Start returns the first heap address.
func (h *Heap) Start() Addr { return h.start }

// Limit returns the first address past the heap.
func (h *Heap) Limit() Addr { return h.limit }

// End returns the bump cursor.
func (h *Heap) End() Addr { return h.end }

// CurrentArena returns the address of the current arena header.
func (h *Heap) CurrentArena() Addr { return h.arena }

// IsOnHeap reports whether addr lies inside the heap region.
func (h *Heap) IsOnHeap(addr Addr) bool {
	return addr >= h.start && addr < h.limit
}

// IsInCurrentArena reports whether addr lies at or above the current arena.
func (h *Heap) IsInCurrentArena(addr Addr) bool {
	return addr >= h.arena && addr < h.limit
}

// InsideArena reports whether an arena above the root is current.
func (h *Heap) InsideArena() bool {
	return !h.IsInCurrentArena(h.start)
}

// MallocCalls returns the number of Allocate calls so far.
func (h *Heap) MallocCalls() uint32 { return h.mallocCalls }

// FreeCalls returns the number of accepted Release calls so far.
func (h *Heap) FreeCalls() uint32 { return h.freeCalls }

// FreeChunks walks the current arena's freelist and returns its length and
// the payload bytes it holds.
func (h *Heap) FreeChunks() (count int, bytes uint64) {
	for at := h.arenaAt(h.arena).freelist(); at != Nil; {
		c := h.freeChunkAt(at)
		count++
		bytes += uint64(c.size())
		at = c.next()
	}
	return count, bytes
}

// Fingerprint hashes the used part of the heap. Leaving an arena restores the
// fingerprint taken just before entering it.
func (h *Heap) Fingerprint() uint32 {
	return murmur.MurmurHash3_x86_32(h.mem[:h.end-h.start], fingerprintSeed)
}

// Metrics returns a snapshot of heap statistics.
func (h *Heap) Metrics() HeapMetrics {
	freeChunks, freelistBytes := h.FreeChunks()
	return HeapMetrics{
		UsedBytes:     h.UsedBytes(),
		FreeBytes:     h.FreeBytes(),
		Capacity:      h.Capacity(),
		Utilization:   h.Utilization(),
		MallocCalls:   h.mallocCalls,
		FreeCalls:     h.freeCalls,
		ArenaDepth:    h.ArenaDepth(),
		FreeChunks:    freeChunks,
		FreelistBytes: freelistBytes,
	}
}

// HeapMetrics contains statistical information about a heap.
type HeapMetrics struct {
	UsedBytes     uint32  // Bytes below the bump cursor
	FreeBytes     uint32  // Bytes above the bump cursor
	Capacity      uint32  // Size of the heap region
	Utilization   float64 // Ratio of used to capacity (0.0-1.0)
	MallocCalls   uint32  // Allocate calls
	FreeCalls     uint32  // Release calls
	ArenaDepth    int     // Arenas entered above the root
	FreeChunks    int     // Chunks on the current arena's freelist
	FreelistBytes uint64  // Payload bytes on the current arena's freelist
}
