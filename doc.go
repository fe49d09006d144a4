// Package memheap implements the heap allocator of a memory-constrained
// device: one fixed region serves every dynamic allocation, and an arena
// stack gives scoped bulk deallocation.
//
// # Overview
//
// Every allocation is a chunk: a 4-byte size header followed by the payload.
// Allocate first scans the current arena's freelist for the first chunk large
// enough (first-fit, most recently released first); when none fits it carves
// a new chunk at the bump cursor. Release rewinds the cursor when the chunk
// is the most recently carved one and prepends it to the current arena's
// freelist otherwise. Chunks are never split or coalesced.
//
// A chunk always occupies at least 8 bytes of heap: requests under 4 bytes
// still reserve a 4-byte payload so a released chunk can hold its freelist
// link. Allocate(2) therefore needs 8 free bytes, not 6.
//
// # Arenas
//
// EnterArena writes an arena header at the bump cursor and makes it current.
// LeaveArena rewinds the cursor to that header, reclaiming every chunk
// allocated since in O(1), whether or not it was released:
//
//	h.EnterArena()
//	pixels := h.Allocate(320 * 240)
//	scratch := h.Allocate(1024)
//	// draw...
//	h.LeaveArena() // pixels and scratch are gone
//
// or, equivalently:
//
//	h.WithArena(func() {
//		_, buf := h.AllocZeroed(320 * 240)
//		render(buf)
//	})
//
// A chunk may only be released while its own arena is current. Releasing an
// address that belongs to an enclosing arena would link it into the wrong
// freelist, so it is fatal. So is releasing a chunk of an arena that has
// been left, as long as the cursor has not carved over it again. Any other
// address at or past the cursor, such as a chunk released twice in a row, is
// an invalid release.
//
// # Fatal conditions
//
// The allocator never returns a failure value. Exhaustion, releasing across
// an arena boundary, releasing something that is not a live chunk and
// leaving the root arena all call the configured FatalHandler with the kind
// and the call site, then panic with the *FatalError. On the device the
// handler halts; on host builds the panic aborts the test or simulation.
//
// # Addresses
//
// Heap memory is a byte slice placed at an absolute base address (Region).
// Addresses are uint32 device addresses, and Nil (all ones) is the null link.
// Bytes, AllocBytes and AllocZeroed give slice views over payloads.
//
// # Thread Safety
//
// None. The target has a single execution context.
//
// # Diagnostics
//
//	fmt.Printf("used %d free %d\n", h.UsedBytes(), h.FreeBytes())
//	if !h.IsInCurrentArena(addr) { ... }
//	m := h.Metrics()
package memheap
