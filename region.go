package memheap

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Addr is an absolute address inside the heap region.
type Addr uint32

// Nil is the null link. No region may contain it.
const Nil Addr = math.MaxUint32

const (
	// DefaultBase is the SRAM base address of the target MCU.
	DefaultBase Addr = 0x20000000
	// DefaultHeapSize matches the heap of the simulation build (520 KiB).
	DefaultHeapSize = 520 * 1024
)

func (a Addr) String() string {
	if a == Nil {
		return "nil"
	}
	return fmt.Sprintf("0x%08x", uint32(a))
}

// Region is the contiguous memory handed to the allocator by the platform.
// Byte a of the heap lives at Mem[a-Start].
type Region struct {
	Start Addr
	Mem   []byte
}

// NewRegion validates that mem placed at start stays below Nil.
func NewRegion(start Addr, mem []byte) (Region, error) {
	if uint64(start)+uint64(len(mem)) > uint64(Nil) {
		return Region{}, errors.Errorf("region %s+%d overflows the address space", start, len(mem))
	}
	return Region{Start: start, Mem: mem}, nil
}

// HostRegion returns a plain buffer of size bytes placed at DefaultBase.
// It stands in for the linker-provided heap on host builds.
// If size <= 0, DefaultHeapSize is used.
func HostRegion(size int) Region {
	if size <= 0 {
		size = DefaultHeapSize
	}
	return Region{Start: DefaultBase, Mem: make([]byte, size)}
}

// Limit returns the first address past the region.
func (r Region) Limit() Addr {
	return r.Start + Addr(len(r.Mem))
}
