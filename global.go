package memheap

import (
	"sync"

	"github.com/pkg/errors"
)

var (
	std     *Heap
	stdOnce sync.Once
)

// Init constructs the process heap over region. It must run once, after the
// platform has made the heap bounds known; later calls fail with
// ErrAlreadyInitialized, including after a failed first call.
func Init(region Region, opts Options) error {
	err := errors.WithStack(ErrAlreadyInitialized)
	stdOnce.Do(func() {
		std, err = New(region, opts)
	})
	return err
}

// Default returns the process heap, or nil before Init.
func Default() *Heap {
	return std
}

func mustDefault() *Heap {
	if std == nil {
		std.fatal(Uninitialized, errors.WithStack(ErrNotInitialized))
	}
	return std
}

// Allocate allocates from the process heap.
func Allocate(numBytes uint32) Addr {
	return mustDefault().allocate(numBytes)
}

// Release releases into the process heap.
func Release(addr Addr) {
	mustDefault().release(addr)
}

// EnterArena enters an arena on the process heap.
func EnterArena() {
	mustDefault().enterArena()
}

// LeaveArena leaves the current arena of the process heap.
func LeaveArena() {
	mustDefault().leaveArena()
}
