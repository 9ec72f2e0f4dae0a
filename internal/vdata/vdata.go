// Package vdata decodes HDF4 Vdata headers (DFTAG_VH) and extracts records
// from the matching data element (DFTAG_VS).
//
// A Vdata is a table: a fixed list of typed fields and a number of records.
// Each field has an order (number of values per record), so a record's
// size is the sum of order*size over its fields.
package vdata

import (
	"fmt"
	"strings"

	"github.com/robert-malhotra/go-hdfeos/internal/binary"
	"github.com/robert-malhotra/go-hdfeos/internal/dtype"
)

// Interlace modes.
const (
	FullInterlace uint16 = 0
	NoInterlace   uint16 = 1
)

// Header versions.
const (
	Version3 uint16 = 3
	Version4 uint16 = 4
)

const flagAttrs = 0x1

// Field describes one Vdata field.
type Field struct {
	Name   string
	Type   dtype.Type
	Size   int // bytes per record: order * element size
	Offset int // byte offset within a fully interlaced record
	Order  int
}

// Header is a decoded Vdata header.
type Header struct {
	Ref        uint16
	Interlace  uint16
	NumRecords int
	RecordSize int
	Fields     []Field
	Name       string
	Class      string
	ExtTag     uint16
	ExtRef     uint16
	Flags      uint32
	Version    uint16
}

// FieldNames returns the field names in declaration order.
func (h *Header) FieldNames() []string {
	names := make([]string, len(h.Fields))
	for i, f := range h.Fields {
		names[i] = f.Name
	}
	return names
}

// FieldList returns the comma-separated field list HDF4 reports.
func (h *Header) FieldList() string {
	return strings.Join(h.FieldNames(), ",")
}

// ParseHeader decodes a Vdata header record.
func ParseHeader(ref uint16, data []byte) (*Header, error) {
	r := binary.FromBytes(data)
	h := &Header{Ref: ref}
	var err error

	if h.Interlace, err = r.ReadUint16(); err != nil {
		return nil, fmt.Errorf("vdata %d: reading interlace: %w", ref, err)
	}
	nrecs, err := r.ReadInt32()
	if err != nil {
		return nil, fmt.Errorf("vdata %d: reading record count: %w", ref, err)
	}
	if nrecs < 0 {
		return nil, fmt.Errorf("vdata %d: negative record count %d", ref, nrecs)
	}
	h.NumRecords = int(nrecs)
	ivsize, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	h.RecordSize = int(ivsize)

	nfields, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	types, err := r.ReadUint16s(int(nfields))
	if err != nil {
		return nil, fmt.Errorf("vdata %d: reading field types: %w", ref, err)
	}
	sizes, err := r.ReadUint16s(int(nfields))
	if err != nil {
		return nil, fmt.Errorf("vdata %d: reading field sizes: %w", ref, err)
	}
	if _, err := r.ReadUint16s(int(nfields)); err != nil { // stored offsets, recomputed below
		return nil, fmt.Errorf("vdata %d: reading field offsets: %w", ref, err)
	}
	orders, err := r.ReadUint16s(int(nfields))
	if err != nil {
		return nil, fmt.Errorf("vdata %d: reading field orders: %w", ref, err)
	}

	h.Fields = make([]Field, nfields)
	offset := 0
	for i := range h.Fields {
		name, err := r.ReadString()
		if err != nil {
			return nil, fmt.Errorf("vdata %d: reading field name %d: %w", ref, i, err)
		}
		h.Fields[i] = Field{
			Name:   name,
			Type:   dtype.Type(types[i]),
			Size:   int(sizes[i]),
			Offset: offset,
			Order:  int(orders[i]),
		}
		offset += int(sizes[i])
	}
	if h.RecordSize == 0 {
		h.RecordSize = offset
	}

	if h.Name, err = r.ReadString(); err != nil {
		return nil, fmt.Errorf("vdata %d: reading name: %w", ref, err)
	}
	if h.Class, err = r.ReadString(); err != nil {
		return nil, fmt.Errorf("vdata %d: reading class: %w", ref, err)
	}
	if h.ExtTag, err = r.ReadUint16(); err != nil {
		return nil, err
	}
	if h.ExtRef, err = r.ReadUint16(); err != nil {
		return nil, err
	}
	if len(data) >= int(r.Pos())+4 {
		tail := binary.FromBytes(data[len(data)-4:])
		h.Version, _ = tail.ReadUint16()
	}
	if h.Version == Version4 && len(data) >= int(r.Pos())+8 {
		h.Flags, _ = r.ReadUint32()
	}

	return h, nil
}

// Records extracts count records starting at start from the Vdata's data
// element. Each returned record is laid out fully interlaced regardless of
// the storage interlace.
func (h *Header) Records(data []byte, start, count int) ([][]byte, error) {
	if start < 0 || count < 0 || start+count > h.NumRecords {
		return nil, fmt.Errorf("vdata %d: records [%d, %d) out of range [0, %d)", h.Ref, start, start+count, h.NumRecords)
	}
	if need := h.NumRecords * h.RecordSize; len(data) < need {
		return nil, fmt.Errorf("vdata %d: data element has %d bytes, need %d", h.Ref, len(data), need)
	}

	out := make([][]byte, count)
	switch h.Interlace {
	case FullInterlace:
		for i := range out {
			off := (start + i) * h.RecordSize
			rec := make([]byte, h.RecordSize)
			copy(rec, data[off:off+h.RecordSize])
			out[i] = rec
		}
	case NoInterlace:
		// Field-major storage: all values of field 0, then field 1, ...
		for i := range out {
			out[i] = make([]byte, h.RecordSize)
		}
		base := 0
		for _, f := range h.Fields {
			for i := range out {
				src := base + (start+i)*f.Size
				copy(out[i][f.Offset:f.Offset+f.Size], data[src:src+f.Size])
			}
			base += h.NumRecords * f.Size
		}
	default:
		return nil, fmt.Errorf("vdata %d: unknown interlace mode %d", h.Ref, h.Interlace)
	}
	return out, nil
}
