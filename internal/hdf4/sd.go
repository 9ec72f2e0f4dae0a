package hdf4

import (
	"fmt"

	"github.com/robert-malhotra/go-hdfeos/internal/dd"
	"github.com/robert-malhotra/go-hdfeos/internal/dtype"
	"github.com/robert-malhotra/go-hdfeos/internal/sds"
	"github.com/robert-malhotra/go-hdfeos/internal/vdata"
	"github.com/robert-malhotra/go-hdfeos/internal/vgroup"
)

// Class names the SD interface gives to its Vgroups and attribute Vdatas.
const (
	ClassVar  = "Var0.0"
	ClassAttr = "Attr0.0"
)

// SD is a scientific data set interface session.
type SD struct {
	session
}

// SDStart starts the SD interface.
func (f *File) SDStart() (*SD, error) {
	s, err := f.start()
	if err != nil {
		return nil, err
	}
	return &SD{s}, nil
}

// End ends the session.
func (sd *SD) End() error {
	return sd.end()
}

// Refs returns the refs of every numeric data group in the file.
func (sd *SD) Refs() ([]int32, error) {
	if err := sd.check(); err != nil {
		return nil, err
	}
	var out []int32
	for _, ref := range sd.f.table.Refs(dd.TagNDG) {
		out = append(out, int32(ref))
	}
	return out, nil
}

// Info describes a data set.
type Info struct {
	Name     string
	Rank     int
	Dims     []int
	Type     dtype.Type
	NumAttrs int
}

// Select opens the data set whose numeric data group has the given ref.
func (sd *SD) Select(ref int32) (*SDS, error) {
	if err := sd.check(); err != nil {
		return nil, err
	}
	if ref < 0 || ref > 0xffff {
		return nil, fmt.Errorf("sds ref %d: %w", ref, ErrNotFound)
	}
	s, err := sd.f.readSDS(uint16(ref))
	if err != nil {
		return nil, err
	}
	if err := sd.f.acquire(); err != nil {
		return nil, err
	}
	s.handle = handle{f: sd.f}
	return s, nil
}

func (f *File) readSDS(ref uint16) (*SDS, error) {
	data, ok, err := f.element(dd.TagNDG, ref)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("sds ref %d: %w", ref, ErrNotFound)
	}
	members, err := sds.ParseNDG(data)
	if err != nil {
		return nil, fmt.Errorf("sds ref %d: %w", ref, err)
	}

	s := &SDS{ref: ref}
	var haveDims, haveNT bool
	for _, m := range members {
		switch m.Tag {
		case dd.TagSDD:
			raw, ok, err := f.element(dd.TagSDD, m.Ref)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, fmt.Errorf("sds ref %d: dimension record %d: %w", ref, m.Ref, ErrNotFound)
			}
			if s.dims, err = sds.ParseSDD(raw); err != nil {
				return nil, fmt.Errorf("sds ref %d: %w", ref, err)
			}
			haveDims = true
		case dd.TagNT:
			raw, ok, err := f.element(dd.TagNT, m.Ref)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, fmt.Errorf("sds ref %d: number type %d: %w", ref, m.Ref, ErrNotFound)
			}
			nt, err := sds.ParseNT(raw)
			if err != nil {
				return nil, fmt.Errorf("sds ref %d: %w", ref, err)
			}
			s.info.Type = nt.Type
			haveNT = true
		case dd.TagSD:
			s.dataRef, s.hasData = m.Ref, true
		case dd.TagFV:
			s.fillRef, s.hasFill = m.Ref, true
		}
	}
	if !haveDims || !haveNT {
		return nil, fmt.Errorf("sds ref %d: incomplete numeric data group", ref)
	}

	s.info.Rank = s.dims.Rank()
	s.info.Dims = append([]int(nil), s.dims.Sizes...)
	s.info.Name = fmt.Sprintf("Data-Set-%d", ref)

	vars, err := f.varGroups()
	if err != nil {
		return nil, err
	}
	if g, ok := vars[ref]; ok {
		s.info.Name = g.Name
		s.info.NumAttrs = f.countAttrs(g)
	}
	return s, nil
}

// varGroups indexes the Var0.0 Vgroups by the NDG they describe.
func (f *File) varGroups() (map[uint16]*vgroup.Group, error) {
	f.varsOnce.Do(func() {
		f.vars = make(map[uint16]*vgroup.Group)
		for _, ref := range f.table.Refs(dd.TagVG) {
			g, err := f.readVgroup(int32(ref))
			if err != nil {
				f.varsErr = err
				return
			}
			if g.Class != ClassVar {
				continue
			}
			for _, m := range g.Members {
				if m.Tag == dd.TagNDG {
					f.vars[m.Ref] = g
				}
			}
		}
	})
	return f.vars, f.varsErr
}

func (f *File) countAttrs(g *vgroup.Group) int {
	n := 0
	for _, m := range g.Members {
		if m.Tag != dd.TagVH {
			continue
		}
		raw, ok, err := f.element(dd.TagVH, m.Ref)
		if err != nil || !ok {
			continue
		}
		h, err := vdata.ParseHeader(m.Ref, raw)
		if err == nil && h.Class == ClassAttr {
			n++
		}
	}
	return n
}

// SDS is a selected data set.
type SDS struct {
	handle
	ref     uint16
	info    Info
	dims    sds.Dims
	dataRef uint16
	hasData bool
	fillRef uint16
	hasFill bool
	data    []byte // loaded on first read
}

// Ref returns the data set's NDG ref.
func (s *SDS) Ref() int32 { return int32(s.ref) }

// Info returns the data set's name, shape, type and attribute count.
func (s *SDS) Info() Info {
	info := s.info
	info.Dims = append([]int(nil), s.info.Dims...)
	return info
}

// ReadSlab reads a hyperslab. A nil stride means 1 in every dimension.
func (s *SDS) ReadSlab(start, stride, count []int) ([]byte, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	sel := &sds.Selection{Start: start, Stride: stride, Count: count}
	if err := sel.Validate(s.dims.Sizes); err != nil {
		return nil, err
	}
	if s.data == nil {
		data, err := s.load()
		if err != nil {
			return nil, err
		}
		s.data = data
	}
	return sds.Extract(s.data, s.dims.Sizes, s.info.Type.Size(), sel)
}

// load reads the full data set, synthesized from the fill value (or
// zeros) when nothing was written.
func (s *SDS) load() ([]byte, error) {
	size := s.info.Type.Size() * s.dims.Elements()
	if s.hasData {
		data, ok, err := s.f.element(dd.TagSD, s.dataRef)
		if err != nil {
			return nil, err
		}
		if ok && len(data) >= size {
			return data, nil
		}
		if ok {
			return nil, fmt.Errorf("sds ref %d: data has %d bytes, need %d", s.ref, len(data), size)
		}
	}

	out := make([]byte, size)
	if s.hasFill {
		fill, ok, err := s.f.element(dd.TagFV, s.fillRef)
		if err != nil {
			return nil, err
		}
		if ok && len(fill) >= s.info.Type.Size() {
			elem := fill[:s.info.Type.Size()]
			for off := 0; off < size; off += len(elem) {
				copy(out[off:], elem)
			}
		}
	}
	return out, nil
}

// EndAccess releases the data set.
func (s *SDS) EndAccess() error {
	s.data = nil
	return s.release()
}
