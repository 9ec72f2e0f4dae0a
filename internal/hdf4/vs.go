package hdf4

import (
	"fmt"

	"github.com/robert-malhotra/go-hdfeos/internal/dd"
	"github.com/robert-malhotra/go-hdfeos/internal/vdata"
)

// VS is a Vdata interface session.
type VS struct {
	session
}

// VSStart starts the Vdata interface.
func (f *File) VSStart() (*VS, error) {
	s, err := f.start()
	if err != nil {
		return nil, err
	}
	return &VS{s}, nil
}

// End ends the session.
func (vs *VS) End() error {
	return vs.end()
}

// Attach opens the Vdata with the given ref.
func (vs *VS) Attach(ref int32) (*Vdata, error) {
	if err := vs.check(); err != nil {
		return nil, err
	}
	if ref < 0 || ref > 0xffff {
		return nil, fmt.Errorf("vdata ref %d: %w", ref, ErrNotFound)
	}
	data, ok, err := vs.f.element(dd.TagVH, uint16(ref))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("vdata ref %d: %w", ref, ErrNotFound)
	}
	h, err := vdata.ParseHeader(uint16(ref), data)
	if err != nil {
		return nil, err
	}
	if err := vs.f.acquire(); err != nil {
		return nil, err
	}
	return &Vdata{handle: handle{f: vs.f}, h: h}, nil
}

// Vdata is an attached Vdata.
type Vdata struct {
	handle
	h    *vdata.Header
	data []byte // loaded on first read
}

// Header returns the decoded header.
func (v *Vdata) Header() *vdata.Header { return v.h }

// Read returns count records starting at start, each laid out fully
// interlaced.
func (v *Vdata) Read(start, count int) ([][]byte, error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	if v.data == nil && v.h.NumRecords > 0 {
		data, ok, err := v.f.element(dd.TagVS, v.h.Ref)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("vdata %d records: %w", v.h.Ref, ErrNotFound)
		}
		v.data = data
	}
	return v.h.Records(v.data, start, count)
}

// Detach releases the Vdata.
func (v *Vdata) Detach() error {
	v.data = nil
	return v.release()
}
