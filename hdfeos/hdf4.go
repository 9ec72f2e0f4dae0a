package hdfeos

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/robert-malhotra/go-hdfeos/internal/hdf4"
	"github.com/robert-malhotra/go-hdfeos/internal/sds"
)

// hdf4Library adapts an HDF4 file and its three interface sessions to
// Library.
type hdf4Library struct {
	f  *hdf4.File
	v  *hdf4.V
	vs *hdf4.VS
	sd *hdf4.SD
}

func openHDF4(path string) (*hdf4Library, error) {
	f, err := hdf4.Open(path)
	if err != nil {
		return nil, err
	}
	return newHDF4Library(f)
}

func newHDF4Library(f *hdf4.File) (*hdf4Library, error) {
	lib := &hdf4Library{f: f}
	var err error
	if lib.v, err = f.VStart(); err != nil {
		return nil, multierror.Append(err, lib.Close())
	}
	if lib.vs, err = f.VSStart(); err != nil {
		return nil, multierror.Append(err, lib.Close())
	}
	if lib.sd, err = f.SDStart(); err != nil {
		return nil, multierror.Append(err, lib.Close())
	}
	return lib, nil
}

func (l *hdf4Library) NextGroup(ref int32) (int32, error) {
	next, err := l.v.GetID(ref)
	if errors.Is(err, hdf4.ErrNoMoreEntries) {
		return 0, ErrExhausted
	}
	return next, err
}

func (l *hdf4Library) AttachGroup(ref int32) (GroupHandle, error) {
	g, err := l.v.Attach(ref)
	if err != nil {
		return nil, err
	}
	return hdf4Group{g}, nil
}

func (l *hdf4Library) AttachTable(ref int32) (TableHandle, error) {
	vd, err := l.vs.Attach(ref)
	if err != nil {
		return nil, err
	}
	return &hdf4Table{vd: vd, info: tableInfo(vd)}, nil
}

func (l *hdf4Library) SelectArray(ref int32) (ArrayHandle, error) {
	s, err := l.sd.Select(ref)
	if err != nil {
		return nil, err
	}
	return hdf4Array{s}, nil
}

// Close ends the sessions in reverse order of starting them, then closes
// the file.
func (l *hdf4Library) Close() error {
	var result *multierror.Error
	if l.sd != nil {
		if err := l.sd.End(); err != nil {
			result = multierror.Append(result, fmt.Errorf("ending SD interface: %w", err))
		}
	}
	if l.vs != nil {
		if err := l.vs.End(); err != nil {
			result = multierror.Append(result, fmt.Errorf("ending VS interface: %w", err))
		}
	}
	if l.v != nil {
		if err := l.v.End(); err != nil {
			result = multierror.Append(result, fmt.Errorf("ending V interface: %w", err))
		}
	}
	if err := l.f.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

type hdf4Group struct {
	g *hdf4.Vgroup
}

func (g hdf4Group) Name() string  { return g.g.Name() }
func (g hdf4Group) Class() string { return g.g.Class() }
func (g hdf4Group) Detach() error { return g.g.Detach() }

func (g hdf4Group) Members() ([]TagRef, error) {
	members, err := g.g.Members()
	if err != nil {
		return nil, err
	}
	out := make([]TagRef, len(members))
	for i, m := range members {
		out[i] = TagRef{Tag: m.Tag, Ref: int32(m.Ref)}
	}
	return out, nil
}

type hdf4Table struct {
	vd   *hdf4.Vdata
	info TableInfo
}

func tableInfo(vd *hdf4.Vdata) TableInfo {
	h := vd.Header()
	info := TableInfo{
		Name:      h.Name,
		Class:     h.Class,
		Records:   h.NumRecords,
		Interlace: int(h.Interlace),
		Size:      h.RecordSize,
		Fields:    make([]Field, len(h.Fields)),
	}
	for i, f := range h.Fields {
		info.Fields[i] = Field{
			Name:   f.Name,
			Type:   f.Type,
			Order:  f.Order,
			Size:   f.Size,
			Offset: f.Offset,
		}
	}
	return info
}

func (t *hdf4Table) Info() TableInfo { return t.info }
func (t *hdf4Table) Detach() error   { return t.vd.Detach() }

func (t *hdf4Table) ReadRecords(start, count int) ([][]byte, error) {
	return t.vd.Read(start, count)
}

type hdf4Array struct {
	s *hdf4.SDS
}

func (a hdf4Array) EndAccess() error { return a.s.EndAccess() }

func (a hdf4Array) Info() ArrayInfo {
	info := a.s.Info()
	return ArrayInfo{
		Name:     info.Name,
		Rank:     info.Rank,
		Dims:     info.Dims,
		Type:     info.Type,
		NumAttrs: info.NumAttrs,
	}
}

func (a hdf4Array) ReadSlab(start, stride, count []int) ([]byte, error) {
	data, err := a.s.ReadSlab(start, stride, count)
	if errors.Is(err, sds.ErrRank) || errors.Is(err, sds.ErrSelection) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSlice, err)
	}
	return data, err
}
