package memheap

import "encoding/binary"

const (
	// HeaderSize is the size of the chunk header preceding every payload.
	HeaderSize = 4
	// linkSize is the freelist link stored in the first payload word of a
	// free chunk.
	linkSize = 4
	// ArenaSize is the size of an arena header: freelist head, previous arena.
	ArenaSize = 8
)

// footprint returns the heap bytes occupied by a chunk of the given size.
// The payload always has room for the freelist link.
func footprint(size uint32) uint64 {
	return HeaderSize + uint64(max(size, linkSize))
}

func (h *Heap) word(a Addr) uint32 {
	return binary.LittleEndian.Uint32(h.mem[a-h.start:])
}

func (h *Heap) setWord(a Addr, v uint32) {
	binary.LittleEndian.PutUint32(h.mem[a-h.start:], v)
}

// usedChunk is the allocated view of a chunk: header plus caller payload.
type usedChunk struct {
	h  *Heap
	at Addr
}

func (h *Heap) usedChunkAt(at Addr) usedChunk { return usedChunk{h: h, at: at} }

// chunkOf recovers the chunk owning a payload address.
func (h *Heap) chunkOf(payload Addr) usedChunk { return usedChunk{h: h, at: payload - HeaderSize} }

func (c usedChunk) size() uint32 { return c.h.word(c.at) }
func (c usedChunk) setSize(n uint32) { c.h.setWord(c.at, n) }
func (c usedChunk) payload() Addr { return c.at + HeaderSize }

// free switches the chunk to its freelist view, linking it to next.
func (c usedChunk) free(next Addr) freeChunk {
	f := freeChunk{h: c.h, at: c.at}
	f.setNext(next)
	return f
}

// freeChunk is the freelist view of a chunk: header plus next link.
type freeChunk struct {
	h  *Heap
	at Addr
}

func (h *Heap) freeChunkAt(at Addr) freeChunk { return freeChunk{h: h, at: at} }

func (c freeChunk) size() uint32 { return c.h.word(c.at) }
func (c freeChunk) next() Addr { return Addr(c.h.word(c.at + HeaderSize)) }
func (c freeChunk) setNext(n Addr) { c.h.setWord(c.at+HeaderSize, uint32(n)) }
func (c freeChunk) use() usedChunk { return usedChunk{h: c.h, at: c.at} }

// arenaView reads and writes an in-heap arena header.
type arenaView struct {
	h  *Heap
	at Addr
}

func (h *Heap) arenaAt(at Addr) arenaView { return arenaView{h: h, at: at} }

func (a arenaView) freelist() Addr { return Addr(a.h.word(a.at)) }
func (a arenaView) setFreelist(c Addr) { a.h.setWord(a.at, uint32(c)) }
func (a arenaView) previous() Addr { return Addr(a.h.word(a.at + 4)) }
func (a arenaView) setPrevious(p Addr) { a.h.setWord(a.at+4, uint32(p)) }
