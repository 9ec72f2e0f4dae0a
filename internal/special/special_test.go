package special

import (
	"bytes"
	"compress/zlib"
	"errors"
	"testing"

	"github.com/robert-malhotra/go-hdfeos/internal/binary"
	"github.com/robert-malhotra/go-hdfeos/internal/dd"
	"github.com/robert-malhotra/go-hdfeos/internal/filter"
)

// fixture lays elements out back to back and records their descriptors.
type fixture struct {
	buf   binary.Buffer
	table dd.Table
}

func (f *fixture) put(tag, ref uint16, data []byte) {
	off := int32(f.buf.Len())
	f.buf.WriteAt(data, int64(off))
	f.table.Add(dd.Descriptor{Tag: tag, Ref: ref, Offset: off, Length: int32(len(data))})
}

func (f *fixture) reader() *binary.Reader {
	return binary.NewReader(bytes.NewReader(f.buf.Bytes()), binary.DefaultConfig())
}

func header(fields ...any) []byte {
	var buf binary.Buffer
	w := binary.NewWriter(&buf, binary.DefaultConfig())
	for _, v := range fields {
		switch v := v.(type) {
		case uint16:
			w.WriteUint16(v)
		case int32:
			w.WriteInt32(v)
		}
	}
	return buf.Bytes()
}

func payload(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(i * 7)
	}
	return out
}

func TestPlainElement(t *testing.T) {
	var f fixture
	f.put(0, 0, []byte("pad"))
	f.put(dd.TagSD, 2, payload(10))

	d, _ := f.table.Find(dd.TagSD, 2)
	got, err := ReadElement(f.reader(), &f.table, d)
	if err != nil {
		t.Fatalf("ReadElement failed: %v", err)
	}
	if !bytes.Equal(got, payload(10)) {
		t.Errorf("got %v", got)
	}
}

func TestCompressedElement(t *testing.T) {
	want := payload(64)
	var z bytes.Buffer
	zw := zlib.NewWriter(&z)
	zw.Write(want)
	zw.Close()

	var f fixture
	f.put(dd.TagCompressed, 5, z.Bytes())
	f.put(dd.SpecialTag(dd.TagSD), 2, header(
		dd.SpecialCompressed, uint16(0), int32(len(want)), uint16(5), uint16(0), filter.CodeDeflate,
	))

	d, _ := f.table.Find(dd.TagSD, 2)
	r := f.reader()

	got, err := ReadElement(r, &f.table, d)
	if err != nil {
		t.Fatalf("ReadElement failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("decompressed data mismatch")
	}

	n, err := Length(r, d)
	if err != nil {
		t.Fatalf("Length failed: %v", err)
	}
	if n != int32(len(want)) {
		t.Errorf("expected length %d, got %d", len(want), n)
	}
}

func TestLinkedElement(t *testing.T) {
	want := payload(25)

	var f fixture
	// First block 10 bytes, then 8-byte blocks; two blocks per table.
	f.put(dd.TagLinked, 11, want[:10])
	f.put(dd.TagLinked, 12, want[10:18])
	f.put(dd.TagLinked, 13, want[18:25])
	f.put(dd.TagLinked, 20, header(uint16(21), uint16(11), uint16(12)))
	f.put(dd.TagLinked, 21, header(uint16(0), uint16(13), uint16(0)))
	f.put(dd.SpecialTag(dd.TagVS), 4, header(
		dd.SpecialLinked, int32(25), int32(10), int32(8), int32(2), uint16(20),
	))

	d, _ := f.table.Find(dd.TagVS, 4)
	got, err := ReadElement(f.reader(), &f.table, d)
	if err != nil {
		t.Fatalf("ReadElement failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestLinkedCycle(t *testing.T) {
	var f fixture
	f.put(dd.TagLinked, 11, payload(4))
	f.put(dd.TagLinked, 20, header(uint16(20), uint16(11)))
	f.put(dd.SpecialTag(dd.TagVS), 4, header(
		dd.SpecialLinked, int32(100), int32(4), int32(4), int32(1), uint16(20),
	))

	d, _ := f.table.Find(dd.TagVS, 4)
	if _, err := ReadElement(f.reader(), &f.table, d); err == nil {
		t.Error("expected error for cyclic link tables")
	}
}

func TestUnsupportedSpecial(t *testing.T) {
	var f fixture
	f.put(dd.SpecialTag(dd.TagSD), 2, header(dd.SpecialChunked, uint16(0)))

	d, _ := f.table.Find(dd.TagSD, 2)
	r := f.reader()
	if _, err := ReadElement(r, &f.table, d); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
	if _, err := Length(r, d); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported from Length, got %v", err)
	}
}

func TestEmptyElement(t *testing.T) {
	d := dd.Descriptor{Tag: dd.TagSD, Ref: 1, Offset: binary.InvalidOffset}
	got, err := ReadElement(binary.FromBytes(nil), &dd.Table{}, d)
	if err != nil || got != nil {
		t.Errorf("expected empty element, got %v, %v", got, err)
	}
}
