package alloc

import (
	"fmt"
	"math"
	"sync"
)

// Allocator hands out append-only file offsets.
type Allocator struct {
	mu sync.Mutex

	// eof is the next allocation point.
	eof int64

	// base is the minimum offset that can be allocated.
	base int64

	allocations []Allocation
	stats       Stats
}

// Allocation is one allocated range. Tag and Ref are zero for ranges that
// do not belong to a data element (DD blocks, padding).
type Allocation struct {
	Offset int32
	Size   int32
	Tag    uint16
	Ref    uint16
}

// Stats contains allocation statistics.
type Stats struct {
	TotalAllocations int
	TotalBytes       int64
	LargestAlloc     int32
}

// New creates an allocator starting at base.
func New(base int64) *Allocator {
	return &Allocator{eof: base, base: base}
}

// Alloc reserves size bytes that belong to no element.
func (a *Allocator) Alloc(size int) (int32, error) {
	return a.AllocElement(0, 0, size)
}

// AllocElement reserves size bytes for the element (tag, ref).
func (a *Allocator) AllocElement(tag, ref uint16, size int) (int32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if size < 0 {
		return 0, fmt.Errorf("negative allocation size %d", size)
	}
	if a.eof+int64(size) > math.MaxInt32 {
		return 0, fmt.Errorf("allocation of %d bytes at %d exceeds 32-bit offsets", size, a.eof)
	}

	off := int32(a.eof)
	if size == 0 {
		return off, nil
	}
	a.eof += int64(size)

	a.allocations = append(a.allocations, Allocation{
		Offset: off,
		Size:   int32(size),
		Tag:    tag,
		Ref:    ref,
	})
	a.stats.TotalAllocations++
	a.stats.TotalBytes += int64(size)
	if int32(size) > a.stats.LargestAlloc {
		a.stats.LargestAlloc = int32(size)
	}
	return off, nil
}

// EOF returns the current end-of-file offset.
func (a *Allocator) EOF() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.eof
}

// Stats returns a copy of the allocation statistics.
func (a *Allocator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// Allocations returns a copy of all allocations in offset order.
func (a *Allocator) Allocations() []Allocation {
	a.mu.Lock()
	defer a.mu.Unlock()
	result := make([]Allocation, len(a.allocations))
	copy(result, a.allocations)
	return result
}

// Elements returns the allocations that belong to a data element.
func (a *Allocator) Elements() []Allocation {
	var out []Allocation
	for _, e := range a.Allocations() {
		if e.Tag != 0 {
			out = append(out, e)
		}
	}
	return out
}

// Validate checks that allocations are in bounds and that no two elements
// share a (tag, ref) pair.
func (a *Allocator) Validate() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	type key struct{ tag, ref uint16 }
	seen := make(map[key]bool)
	for _, e := range a.allocations {
		if int64(e.Offset) < a.base {
			return fmt.Errorf("allocation at %d is before base offset %d", e.Offset, a.base)
		}
		if int64(e.Offset)+int64(e.Size) > a.eof {
			return fmt.Errorf("allocation at %d size %d extends past EOF %d", e.Offset, e.Size, a.eof)
		}
		if e.Tag == 0 {
			continue
		}
		k := key{e.Tag, e.Ref}
		if seen[k] {
			return fmt.Errorf("element tag %d ref %d allocated twice", e.Tag, e.Ref)
		}
		seen[k] = true
	}
	return nil
}
