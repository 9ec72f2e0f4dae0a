// Package hdf4test writes small HDF4 and HDF-EOS files for tests.
//
// A Builder lays elements out back to back after the magic number and
// writes the data descriptor table last, split over several chained DD
// blocks so readers exercise the chain.
package hdf4test

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"os"

	"github.com/robert-malhotra/go-hdfeos/internal/alloc"
	"github.com/robert-malhotra/go-hdfeos/internal/binary"
	"github.com/robert-malhotra/go-hdfeos/internal/dd"
	"github.com/robert-malhotra/go-hdfeos/internal/dtype"
	"github.com/robert-malhotra/go-hdfeos/internal/sds"
	"github.com/robert-malhotra/go-hdfeos/internal/vdata"
	"github.com/robert-malhotra/go-hdfeos/internal/vgroup"
)

// HDF-EOS and SD class names.
const (
	ClassSwath = "SWATH"
	ClassVar   = "Var0.0"
	ClassAttr  = "Attr0.0"

	DataFields        = "Data Fields"
	GeolocationFields = "Geolocation Fields"
	SwathAttributes   = "Swath Attributes"
)

const (
	ddsPerBlock    = 8
	blocksPerTable = 4
)

// Member is one tag/ref entry of a Vgroup.
type Member struct {
	Tag uint16
	Ref uint16
}

// Group returns a member referring to a Vgroup.
func Group(ref uint16) Member { return Member{dd.TagVG, ref} }

// Table returns a member referring to a Vdata.
func Table(ref uint16) Member { return Member{dd.TagVH, ref} }

// Array returns a member referring to an SDS.
func Array(ref uint16) Member { return Member{dd.TagNDG, ref} }

// Field describes one Vdata field.
type Field struct {
	Name  string
	Type  dtype.Type
	Order int
}

// Vdata describes a table to write.
type Vdata struct {
	Name        string
	Class       string
	Fields      []Field
	Records     [][]any // one value per field; strings for char8, slices for order > 1
	NoInterlace bool
	BlockSize   int // when positive, records are stored as linked blocks
}

// SDS describes a scientific data set to write.
type SDS struct {
	Name     string
	Type     dtype.Type
	Dims     []int
	Data     any // nil leaves the data unwritten
	Fill     any
	Attrs    []string
	Compress bool
}

// Builder accumulates elements of an HDF4 file.
type Builder struct {
	alloc *alloc.Allocator
	buf   binary.Buffer
	refs  map[uint16]uint16
	err   error
	out   []byte
}

// New returns an empty builder.
func New() *Builder {
	b := &Builder{
		alloc: alloc.New(int64(len(dd.Signature))),
		refs:  make(map[uint16]uint16),
	}
	b.writer(0).WriteBytes(dd.Signature)
	// The first DD block is an empty header whose next offset is patched
	// once the element table is known.
	if _, err := b.alloc.Alloc(6); err != nil {
		b.fail(err)
	}
	return b
}

func (b *Builder) writer(off int64) *binary.Writer {
	return binary.NewWriter(&b.buf, binary.DefaultConfig()).At(off)
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *Builder) nextRef(tag uint16) uint16 {
	b.refs[tag]++
	return b.refs[tag]
}

func (b *Builder) put(tag, ref uint16, data []byte) {
	off, err := b.alloc.AllocElement(tag, ref, len(data))
	if err != nil {
		b.fail(err)
		return
	}
	b.writer(int64(off)).WriteBytes(data)
}

// Element writes a raw element under a fresh ref and returns the ref.
func (b *Builder) Element(tag uint16, data []byte) uint16 {
	ref := b.nextRef(tag)
	b.put(tag, ref, data)
	return ref
}

// Vgroup writes a Vgroup and returns its ref.
func (b *Builder) Vgroup(name, class string, members ...Member) uint16 {
	ref := b.nextRef(dd.TagVG)
	g := &vgroup.Group{Ref: ref, Name: name, Class: class}
	for _, m := range members {
		g.Members = append(g.Members, vgroup.TagRef{Tag: m.Tag, Ref: m.Ref})
	}
	b.put(dd.TagVG, ref, vgroup.Encode(g))
	return ref
}

// Swath writes an HDF-EOS swath Vgroup and its standard subgroups. A nil
// slice leaves that subgroup out; an empty one writes an empty subgroup.
func (b *Builder) Swath(name string, data, geolocation, attributes []Member) uint16 {
	var members []Member
	if data != nil {
		members = append(members, Group(b.Vgroup(DataFields, "SWATH Vgroup", data...)))
	}
	if geolocation != nil {
		members = append(members, Group(b.Vgroup(GeolocationFields, "SWATH Vgroup", geolocation...)))
	}
	if attributes != nil {
		members = append(members, Group(b.Vgroup(SwathAttributes, "SWATH Vgroup", attributes...)))
	}
	return b.Vgroup(name, ClassSwath, members...)
}

// Vdata writes a Vdata header and its records and returns the shared ref.
func (b *Builder) Vdata(v Vdata) uint16 {
	ref := b.nextRef(dd.TagVH)
	h := &vdata.Header{
		Ref:        ref,
		NumRecords: len(v.Records),
		Name:       v.Name,
		Class:      v.Class,
	}
	if v.NoInterlace {
		h.Interlace = vdata.NoInterlace
	}
	for _, f := range v.Fields {
		h.Fields = append(h.Fields, vdata.Field{Name: f.Name, Type: f.Type, Order: f.Order})
	}
	vdata.Layout(h)

	records := make([][]byte, len(v.Records))
	for i, values := range v.Records {
		rec, err := encodeRecord(h, values)
		if err != nil {
			b.fail(fmt.Errorf("vdata %q record %d: %w", v.Name, i, err))
			return ref
		}
		records[i] = rec
	}

	var data []byte
	if v.NoInterlace {
		data = vdata.Deinterlace(h, records)
	} else {
		data = bytes.Join(records, nil)
	}

	b.put(dd.TagVH, ref, vdata.EncodeHeader(h))
	if v.BlockSize > 0 {
		b.putLinked(dd.TagVS, ref, data, v.BlockSize)
	} else {
		b.put(dd.TagVS, ref, data)
	}
	return ref
}

func encodeRecord(h *vdata.Header, values []any) ([]byte, error) {
	if len(values) != len(h.Fields) {
		return nil, fmt.Errorf("have %d values for %d fields", len(values), len(h.Fields))
	}
	rec := make([]byte, h.RecordSize)
	for i, f := range h.Fields {
		raw, err := dtype.Encode(f.Type, values[i])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		if len(raw) > f.Size {
			raw = raw[:f.Size]
		}
		copy(rec[f.Offset:], raw)
	}
	return rec, nil
}

// putLinked stores data as a linked-block special element.
func (b *Builder) putLinked(tag, ref uint16, data []byte, blockSize int) {
	var blocks [][]byte
	for off := 0; off < len(data); off += blockSize {
		blocks = append(blocks, data[off:min(off+blockSize, len(data))])
	}
	blockRefs := make([]uint16, len(blocks))
	for i := range blocks {
		blockRefs[i] = b.nextRef(dd.TagLinked)
	}
	tables := (len(blocks) + blocksPerTable - 1) / blocksPerTable
	tableRefs := make([]uint16, max(tables, 1))
	for i := range tableRefs {
		tableRefs[i] = b.nextRef(dd.TagLinked)
	}

	for i, blk := range blocks {
		b.put(dd.TagLinked, blockRefs[i], blk)
	}
	for i, tref := range tableRefs {
		var tb binary.Buffer
		w := binary.NewWriter(&tb, binary.DefaultConfig())
		next := uint16(0)
		if i+1 < len(tableRefs) {
			next = tableRefs[i+1]
		}
		w.WriteUint16(next)
		for j := 0; j < blocksPerTable; j++ {
			k := i*blocksPerTable + j
			if k < len(blockRefs) {
				w.WriteUint16(blockRefs[k])
			} else {
				w.WriteUint16(0)
			}
		}
		b.put(dd.TagLinked, tref, tb.Bytes())
	}

	var hb binary.Buffer
	w := binary.NewWriter(&hb, binary.DefaultConfig())
	w.WriteUint16(dd.SpecialLinked)
	w.WriteInt32(int32(len(data)))
	w.WriteInt32(int32(blockSize))
	w.WriteInt32(int32(blockSize))
	w.WriteInt32(blocksPerTable)
	w.WriteUint16(tableRefs[0])
	b.put(dd.SpecialTag(tag), ref, hb.Bytes())
}

// putCompressed stores data as a deflate-compressed special element.
func (b *Builder) putCompressed(tag, ref uint16, data []byte) {
	var z bytes.Buffer
	zw := zlib.NewWriter(&z)
	if _, err := zw.Write(data); err != nil {
		b.fail(err)
		return
	}
	if err := zw.Close(); err != nil {
		b.fail(err)
		return
	}
	compRef := b.Element(dd.TagCompressed, z.Bytes())

	var hb binary.Buffer
	w := binary.NewWriter(&hb, binary.DefaultConfig())
	w.WriteUint16(dd.SpecialCompressed)
	w.WriteUint16(0) // version
	w.WriteInt32(int32(len(data)))
	w.WriteUint16(compRef)
	w.WriteUint16(0) // model
	w.WriteUint16(4) // deflate
	b.put(dd.SpecialTag(tag), ref, hb.Bytes())
}

// SDS writes a scientific data set with its Var0.0 Vgroup and returns the
// NDG ref, which is also the ref of its SDD, SD and FV elements.
func (b *Builder) SDS(s SDS) uint16 {
	ref := b.nextRef(dd.TagNDG)
	ntRef := b.Element(dd.TagNT, sds.EncodeNT(s.Type))
	b.put(dd.TagSDD, ref, sds.EncodeSDD(s.Dims, dd.TagNT, ntRef))

	members := []sds.TagRef{{Tag: dd.TagSDD, Ref: ref}, {Tag: dd.TagNT, Ref: ntRef}}

	if s.Data != nil {
		raw, err := dtype.Encode(s.Type, s.Data)
		if err != nil {
			b.fail(fmt.Errorf("sds %q: %w", s.Name, err))
			return ref
		}
		if s.Compress {
			b.putCompressed(dd.TagSD, ref, raw)
		} else {
			b.put(dd.TagSD, ref, raw)
		}
		members = append(members, sds.TagRef{Tag: dd.TagSD, Ref: ref})
	}
	if s.Fill != nil {
		raw, err := dtype.Encode(s.Type, s.Fill)
		if err != nil {
			b.fail(fmt.Errorf("sds %q fill: %w", s.Name, err))
			return ref
		}
		b.put(dd.TagFV, ref, raw)
		members = append(members, sds.TagRef{Tag: dd.TagFV, Ref: ref})
	}
	b.put(dd.TagNDG, ref, sds.EncodeNDG(members))

	vars := []Member{Array(ref)}
	for _, name := range s.Attrs {
		vars = append(vars, Table(b.Vdata(Vdata{
			Name:    name,
			Class:   ClassAttr,
			Fields:  []Field{{Name: "VALUES", Type: dtype.Char8, Order: max(len(name), 1)}},
			Records: [][]any{{name}},
		})))
	}
	b.Vgroup(s.Name, ClassVar, vars...)
	return ref
}

// Bytes writes the DD table and returns the finished file. Further calls
// return the same bytes.
func (b *Builder) Bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.out != nil {
		return b.out, nil
	}

	elems := b.alloc.Elements()
	prev := int64(len(dd.Signature)) // the empty first block
	b.writer(prev).WriteUint16(0)
	b.writer(prev + 2).WriteInt32(0)

	for start := 0; start < len(elems); start += ddsPerBlock {
		chunk := elems[start:min(start+ddsPerBlock, len(elems))]
		off, err := b.alloc.Alloc(6 + dd.DescriptorSize*len(chunk))
		if err != nil {
			return nil, err
		}
		b.writer(prev + 2).WriteInt32(off)

		w := b.writer(int64(off))
		w.WriteUint16(uint16(len(chunk)))
		w.WriteInt32(0)
		for _, e := range chunk {
			w.WriteUint16(e.Tag)
			w.WriteUint16(e.Ref)
			w.WriteInt32(e.Offset)
			w.WriteInt32(e.Size)
		}
		prev = int64(off)
	}

	if err := b.alloc.Validate(); err != nil {
		return nil, err
	}
	b.out = append([]byte(nil), b.buf.Bytes()...)
	return b.out, nil
}

// WriteFile writes the finished file to path.
func (b *Builder) WriteFile(path string) error {
	data, err := b.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
