// Package lifetime tracks live child handles without owning them.
//
// A parent registers each child it hands out and receives an ID. The child
// removes itself with that ID when it closes; the parent drains whatever is
// left with Pop when it closes first. IDs carry a generation so an ID kept
// past its removal can never remove a later occupant of the same slot.
package lifetime

// ID identifies a registration. The zero ID is never issued.
type ID struct {
	slot uint32
	gen  uint32
}

// Valid reports whether the ID was issued by a registry.
func (id ID) Valid() bool {
	return id.gen != 0
}

type slot[T any] struct {
	val  T
	gen  uint32
	live bool
}

// Registry is a slot table of live entries. It is not safe for concurrent
// use; callers guard it with the lock that guards the handle tree.
type Registry[T any] struct {
	slots []slot[T]
	free  []uint32
	n     int
}

// Add registers v and returns its ID.
func (r *Registry[T]) Add(v T) ID {
	var i uint32
	if k := len(r.free); k > 0 {
		i = r.free[k-1]
		r.free = r.free[:k-1]
	} else {
		i = uint32(len(r.slots))
		r.slots = append(r.slots, slot[T]{})
	}
	s := &r.slots[i]
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	s.val = v
	s.live = true
	r.n++
	return ID{slot: i, gen: s.gen}
}

// Remove unregisters the entry with the given ID. It reports false if the
// entry is already gone.
func (r *Registry[T]) Remove(id ID) bool {
	if !id.Valid() || int(id.slot) >= len(r.slots) {
		return false
	}
	s := &r.slots[id.slot]
	if !s.live || s.gen != id.gen {
		return false
	}
	r.clear(id.slot)
	return true
}

// Pop removes and returns some live entry. Callers drain a registry with
// Pop in a loop rather than iterating, so entries may remove themselves
// while the drain is in progress.
func (r *Registry[T]) Pop() (T, bool) {
	for i := len(r.slots) - 1; i >= 0; i-- {
		if r.slots[i].live {
			v := r.slots[i].val
			r.clear(uint32(i))
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Len returns the number of live entries.
func (r *Registry[T]) Len() int {
	return r.n
}

func (r *Registry[T]) clear(i uint32) {
	var zero T
	r.slots[i].val = zero
	r.slots[i].live = false
	r.free = append(r.free, i)
	r.n--
}
