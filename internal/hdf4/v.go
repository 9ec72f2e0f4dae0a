package hdf4

import (
	"fmt"

	"github.com/robert-malhotra/go-hdfeos/internal/dd"
	"github.com/robert-malhotra/go-hdfeos/internal/vgroup"
)

// V is a Vgroup interface session.
type V struct {
	session
}

// VStart starts the Vgroup interface.
func (f *File) VStart() (*V, error) {
	s, err := f.start()
	if err != nil {
		return nil, err
	}
	return &V{s}, nil
}

// End ends the session.
func (v *V) End() error {
	return v.end()
}

// GetID returns the smallest Vgroup ref greater than ref. Pass -1 for the
// first. ErrNoMoreEntries marks the end.
func (v *V) GetID(ref int32) (int32, error) {
	if err := v.check(); err != nil {
		return 0, err
	}
	next, ok := v.f.table.Next(dd.TagVG, ref)
	if !ok {
		return 0, ErrNoMoreEntries
	}
	return int32(next), nil
}

// Attach opens the Vgroup with the given ref.
func (v *V) Attach(ref int32) (*Vgroup, error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	g, err := v.f.readVgroup(ref)
	if err != nil {
		return nil, err
	}
	if err := v.f.acquire(); err != nil {
		return nil, err
	}
	return &Vgroup{handle: handle{f: v.f}, g: g}, nil
}

func (f *File) readVgroup(ref int32) (*vgroup.Group, error) {
	if ref < 0 || ref > 0xffff {
		return nil, fmt.Errorf("vgroup ref %d: %w", ref, ErrNotFound)
	}
	data, ok, err := f.element(dd.TagVG, uint16(ref))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("vgroup ref %d: %w", ref, ErrNotFound)
	}
	return vgroup.Parse(uint16(ref), data)
}

// Vgroup is an attached Vgroup.
type Vgroup struct {
	handle
	g *vgroup.Group
}

// Ref returns the Vgroup's ref.
func (g *Vgroup) Ref() int32 { return int32(g.g.Ref) }

// Name returns the Vgroup's name.
func (g *Vgroup) Name() string { return g.g.Name }

// Class returns the Vgroup's class.
func (g *Vgroup) Class() string { return g.g.Class }

// Members returns the tag/ref pairs of the Vgroup's members, in stored order.
func (g *Vgroup) Members() ([]vgroup.TagRef, error) {
	if err := g.check(); err != nil {
		return nil, err
	}
	return append([]vgroup.TagRef(nil), g.g.Members...), nil
}

// Detach releases the Vgroup.
func (g *Vgroup) Detach() error {
	return g.release()
}
