// Package scenario replays scripted allocation patterns against a heap.
package scenario

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/pavanmanishd/memheap"
)

// Op names a script step.
type Op string

const (
	OpEnter    Op = "enter"
	OpLeave    Op = "leave"
	OpAlloc    Op = "alloc"
	OpFree     Op = "free"
	OpSnapshot Op = "snapshot"
)

// Step is one scripted heap operation.
type Step struct {
	Op   Op     `yaml:"op"`
	Name string `yaml:"name,omitempty"`
	Size uint32 `yaml:"size,omitempty"`
	Zero bool   `yaml:"zero,omitempty"`
}

// Script is a named list of steps.
type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Result records the heap state after a step.
type Result struct {
	Index       int
	Step        Step
	Addr        memheap.Addr
	Used        uint32
	Free        uint32
	Depth       int
	Fingerprint uint32
}

// Report is the outcome of a run.
type Report struct {
	Script  string
	Results []Result
	Metrics memheap.HeapMetrics
}

// Load decodes a script, rejecting unknown fields and ops.
func Load(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(err, "failed to decode script")
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile reads a script from path.
func LoadFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open script %s", path)
	}
	defer f.Close()
	return Load(f)
}

func (s *Script) validate() error {
	for i, st := range s.Steps {
		switch st.Op {
		case OpEnter, OpLeave, OpSnapshot, OpAlloc:
		case OpFree:
			if st.Name == "" {
				return errors.Errorf("step %d: free needs a name", i)
			}
		default:
			return errors.Errorf("step %d: unknown op %q", i, st.Op)
		}
	}
	return nil
}

// Run replays the script. A free refers to the latest allocation of that
// name; names allocated inside an arena are forgotten when it is left. Heap
// invariant violations go through the heap's fatal handler.
func Run(h *memheap.Heap, s *Script) (*Report, error) {
	names := map[string]memheap.Addr{}
	report := &Report{Script: s.Name}
	for i, st := range s.Steps {
		res := Result{Index: i, Step: st, Addr: memheap.Nil}
		switch st.Op {
		case OpEnter:
			h.EnterArena()
		case OpLeave:
			h.LeaveArena()
			for name, addr := range names {
				if addr >= h.End() {
					delete(names, name)
				}
			}
		case OpAlloc:
			if st.Zero {
				res.Addr, _ = h.AllocZeroed(st.Size)
			} else {
				res.Addr = h.Allocate(st.Size)
			}
			if st.Name != "" {
				names[st.Name] = res.Addr
			}
		case OpFree:
			addr, ok := names[st.Name]
			if !ok {
				return report, errors.Errorf("step %d: no live allocation named %q", i, st.Name)
			}
			h.Release(addr)
			delete(names, st.Name)
			res.Addr = addr
		case OpSnapshot:
		}
		res.Used = h.UsedBytes()
		res.Free = h.FreeBytes()
		res.Depth = h.ArenaDepth()
		res.Fingerprint = h.Fingerprint()
		report.Results = append(report.Results, res)
	}
	report.Metrics = h.Metrics()
	return report, nil
}
