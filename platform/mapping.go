// Package platform provides heap regions for host builds.
package platform

import (
	"github.com/pkg/errors"

	"github.com/pavanmanishd/memheap"
)

// Mapping is a heap region backed by memory the Go runtime does not manage.
type Mapping struct {
	region memheap.Region
	mapped bool
}

// Map reserves size bytes and places them at start.
func Map(start memheap.Addr, size int) (*Mapping, error) {
	if size <= 0 {
		return nil, errors.Errorf("invalid size: %d", size)
	}
	mem, mapped, err := mapAnonymous(size)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to map %d bytes", size)
	}
	region, err := memheap.NewRegion(start, mem)
	if err != nil {
		if mapped {
			_ = unmap(mem)
		}
		return nil, err
	}
	return &Mapping{region: region, mapped: mapped}, nil
}

// Region returns the mapped region.
func (m *Mapping) Region() memheap.Region {
	return m.region
}

// Close releases the memory. Any heap built over the region must not be used
// afterwards.
func (m *Mapping) Close() error {
	if m.region.Mem == nil {
		return nil
	}
	var err error
	if m.mapped {
		err = unmap(m.region.Mem)
	}
	m.region.Mem = nil
	return errors.Wrap(err, "failed to unmap region")
}
