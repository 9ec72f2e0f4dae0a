package vdata

import (
	"github.com/robert-malhotra/go-hdfeos/internal/binary"
)

// EncodeHeader serializes a Vdata header. Field offsets and sizes are taken
// from the fields as given.
func EncodeHeader(h *Header) []byte {
	var buf binary.Buffer
	w := binary.NewWriter(&buf, binary.DefaultConfig())

	w.WriteUint16(h.Interlace)
	w.WriteInt32(int32(h.NumRecords))
	w.WriteUint16(uint16(h.RecordSize))
	w.WriteUint16(uint16(len(h.Fields)))
	for _, f := range h.Fields {
		w.WriteUint16(uint16(f.Type))
	}
	for _, f := range h.Fields {
		w.WriteUint16(uint16(f.Size))
	}
	for _, f := range h.Fields {
		w.WriteUint16(uint16(f.Offset))
	}
	for _, f := range h.Fields {
		w.WriteUint16(uint16(f.Order))
	}
	for _, f := range h.Fields {
		w.WriteString(f.Name)
	}
	w.WriteString(h.Name)
	w.WriteString(h.Class)
	w.WriteUint16(h.ExtTag)
	w.WriteUint16(h.ExtRef)
	w.WriteUint16(Version3)
	w.WriteUint16(0) // more
	return buf.Bytes()
}

// Layout fills in field sizes, offsets and the record size from each
// field's type and order.
func Layout(h *Header) {
	offset := 0
	for i := range h.Fields {
		f := &h.Fields[i]
		if f.Order == 0 {
			f.Order = 1
		}
		f.Size = f.Order * f.Type.Size()
		f.Offset = offset
		offset += f.Size
	}
	h.RecordSize = offset
}

// Deinterlace converts fully interlaced records into field-major storage.
func Deinterlace(h *Header, records [][]byte) []byte {
	var out []byte
	for _, f := range h.Fields {
		for _, rec := range records {
			out = append(out, rec[f.Offset:f.Offset+f.Size]...)
		}
	}
	return out
}
