package memheap

import (
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
)

// Options configures a Heap.
type Options struct {
	// Logger receives trace output and fatal reports. Defaults to log.Default().
	Logger *log.Logger
	// TraceMemory logs every allocation, release and arena transition at
	// debug level.
	TraceMemory bool
	// OnFatal is invoked before the heap panics on an invariant violation.
	// Defaults to LogFatal(Logger).
	OnFatal FatalHandler
}

// Heap is a first-fit freelist allocator with a bump-pointer fallback over a
// fixed region, plus a stack of arenas for scoped bulk deallocation.
// Not goroutine-safe.
type Heap struct {
	mem   []byte
	start Addr
	limit Addr
	// end is the bump cursor.
	end Addr
	// arena is the address of the current arena header.
	arena Addr
	// abandoned bounds the bytes released by LeaveArena that the cursor has
	// not carved again. Zero when there are none.
	abandoned Addr

	mallocCalls uint32
	freeCalls   uint32

	logger  *log.Logger
	trace   bool
	onFatal FatalHandler
}

// New places the root arena at the start of region and returns the heap.
// The region is owned by the heap from here on.
func New(region Region, opts Options) (*Heap, error) {
	if _, err := NewRegion(region.Start, region.Mem); err != nil {
		return nil, err
	}
	if len(region.Mem) < ArenaSize {
		return nil, errors.Errorf("region of %d bytes cannot hold the root arena", len(region.Mem))
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.OnFatal == nil {
		opts.OnFatal = LogFatal(opts.Logger)
	}
	h := &Heap{
		mem:     region.Mem,
		start:   region.Start,
		limit:   region.Limit(),
		logger:  opts.Logger,
		trace:   opts.TraceMemory,
		onFatal: opts.OnFatal,
	}
	root := h.arenaAt(h.start)
	root.setFreelist(Nil)
	root.setPrevious(Nil)
	h.arena = h.start
	h.end = h.start + ArenaSize
	return h, nil
}

// Allocate returns the payload address of a chunk of at least numBytes.
// The current arena's freelist is searched first-fit; otherwise the chunk is
// carved at the bump cursor. Running out of heap is fatal.
func (h *Heap) Allocate(numBytes uint32) Addr {
	return h.allocate(numBytes)
}

func (h *Heap) allocate(numBytes uint32) Addr {
	h.mallocCalls++
	a := h.arenaAt(h.arena)
	prev := Nil
	for at := a.freelist(); at != Nil; {
		c := h.freeChunkAt(at)
		if c.size() >= numBytes {
			if prev == Nil {
				a.setFreelist(c.next())
			} else {
				h.freeChunkAt(prev).setNext(c.next())
			}
			h.tracef("allocating from existing chunk", "bytes", numBytes, "chunk", c.size())
			return c.use().payload()
		}
		prev = at
		at = c.next()
	}

	need := footprint(numBytes)
	if uint64(h.end)+need > uint64(h.limit) {
		h.fatal(Exhaustion, errors.Wrapf(ErrExhausted, "allocate %d bytes with %d free", numBytes, h.FreeBytes()))
	}
	c := h.usedChunkAt(h.end)
	c.setSize(numBytes)
	h.advance(Addr(need))
	h.tracef("allocating from heap", "bytes", numBytes, "free", h.FreeBytes())
	return c.payload()
}

// Release returns the chunk at addr to the current arena. The most recently
// carved chunk rewinds the bump cursor; any other chunk is prepended to the
// arena's freelist. Releasing Nil does nothing; releasing an address that
// does not belong to the current arena is fatal.
func (h *Heap) Release(addr Addr) {
	h.release(addr)
}

func (h *Heap) release(addr Addr) {
	if addr == Nil {
		return
	}
	if !h.IsOnHeap(addr) {
		h.fatal(InvalidRelease, errors.Wrapf(ErrInvalidRelease, "release %s outside the heap", addr))
	}
	// Below the current arena the chunk belongs to an enclosing one. Past the
	// cursor it either belonged to an arena that has been left or was
	// already released.
	if addr < h.arena || (addr >= h.end && addr < h.abandoned) {
		h.fatal(CrossArenaRelease, errors.Wrapf(ErrCrossArenaRelease, "release %s outside arena %s..%s", addr, h.arena, h.end))
	}
	if addr >= h.end {
		h.fatal(InvalidRelease, errors.Wrapf(ErrInvalidRelease, "release %s past the cursor %s", addr, h.end))
	}
	if addr < h.arena+ArenaSize+HeaderSize {
		h.fatal(InvalidRelease, errors.Wrapf(ErrInvalidRelease, "release %s overlaps arena %s", addr, h.arena))
	}
	h.freeCalls++

	c := h.chunkOf(addr)
	end := uint64(c.at) + footprint(c.size())
	if end == uint64(h.end) {
		h.end = c.at
		h.tracef("deallocating last chunk", "free", h.FreeBytes())
		return
	}
	if end > uint64(h.end) {
		h.fatal(InvalidRelease, errors.Wrapf(ErrInvalidRelease, "chunk %s of %d bytes extends past the heap end %s", c.at, c.size(), h.end))
	}
	a := h.arenaAt(h.arena)
	c.free(a.freelist())
	a.setFreelist(c.at)
	h.tracef("deallocating to freelist", "bytes", c.size(), "free", h.FreeBytes())
}

// advance moves the cursor forward by n bytes.
func (h *Heap) advance(n Addr) {
	h.end += n
	if h.end >= h.abandoned {
		h.abandoned = 0
	}
}

func (h *Heap) tracef(msg string, keyvals ...any) {
	if h.trace {
		h.logger.Debug(msg, keyvals...)
	}
}
