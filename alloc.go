package memheap

// AllocBytes allocates n bytes and returns the payload address together with
// a slice over it. The slice aliases heap memory: it is only valid until the
// chunk is released or its arena is left.
// The contents are whatever the chunk held before.
func (h *Heap) AllocBytes(n uint32) (Addr, []byte) {
	addr := h.allocate(n)
	return addr, h.Bytes(addr)[:n]
}

// AllocZeroed is AllocBytes with the returned bytes cleared.
func (h *Heap) AllocZeroed(n uint32) (Addr, []byte) {
	addr := h.allocate(n)
	b := h.Bytes(addr)[:n]
	clear(b)
	return addr, b
}

// Bytes returns the full payload of the live chunk at addr. A chunk recycled
// from a freelist may be larger than the size requested for it.
// Returns nil if addr is not a payload address on the heap.
func (h *Heap) Bytes(addr Addr) []byte {
	if !h.IsOnHeap(addr) || addr < h.start+ArenaSize+HeaderSize {
		return nil
	}
	size := h.chunkOf(addr).size()
	off := uint64(addr - h.start)
	if off+uint64(size) > uint64(len(h.mem)) {
		return nil
	}
	return h.mem[off : off+uint64(size) : off+uint64(size)]
}

// ChunkSize returns the size recorded in the header of the chunk at addr.
func (h *Heap) ChunkSize(addr Addr) uint32 {
	if !h.IsOnHeap(addr) || addr < h.start+ArenaSize+HeaderSize {
		return 0
	}
	return h.chunkOf(addr).size()
}
