package memheap

import "github.com/pkg/errors"

// EnterArena pushes a new arena at the bump cursor. Everything allocated
// until the matching LeaveArena is reclaimed by it in one step.
func (h *Heap) EnterArena() {
	h.enterArena()
}

func (h *Heap) enterArena() {
	if uint64(h.end)+ArenaSize > uint64(h.limit) {
		h.fatal(Exhaustion, errors.Wrapf(ErrExhausted, "enter arena with %d free", h.FreeBytes()))
	}
	a := h.arenaAt(h.end)
	a.setFreelist(Nil)
	a.setPrevious(h.arena)
	h.arena = a.at
	h.advance(ArenaSize)
	h.tracef("entering arena", "arena", a.at, "free", h.FreeBytes())
}

// LeaveArena pops the current arena, rewinding the bump cursor to its header.
// Chunks allocated inside it, live or free, are gone afterwards. Leaving the
// root arena is fatal.
func (h *Heap) LeaveArena() {
	h.leaveArena()
}

func (h *Heap) leaveArena() {
	a := h.arenaAt(h.arena)
	prev := a.previous()
	if prev == Nil {
		h.fatal(UnderflowLeave, errors.Wrapf(ErrUnderflowLeave, "arena %s", a.at))
	}
	h.abandoned = max(h.abandoned, h.end)
	h.end = a.at
	h.arena = prev
	h.tracef("leaving arena", "arena", a.at, "current", prev, "free", h.FreeBytes())
}

// WithArena runs fn inside a fresh arena and leaves it afterwards, also when
// fn panics.
func (h *Heap) WithArena(fn func()) {
	h.enterArena()
	defer h.leaveArena()
	fn()
}

// ArenaDepth returns the number of arenas entered above the root.
func (h *Heap) ArenaDepth() int {
	depth := 0
	for at := h.arenaAt(h.arena).previous(); at != Nil; at = h.arenaAt(at).previous() {
		depth++
	}
	return depth
}
