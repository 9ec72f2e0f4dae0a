package binary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestReaderReadUint8(t *testing.T) {
	r := FromBytes([]byte{0x42, 0xFF, 0x00})

	v, err := r.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0x42 {
		t.Errorf("expected 0x42, got 0x%02x", v)
	}

	v, err = r.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0xFF {
		t.Errorf("expected 0xFF, got 0x%02x", v)
	}
}

func TestReaderReadUint16(t *testing.T) {
	// Big-endian: 0x0102 stored as [0x01, 0x02]
	r := FromBytes([]byte{0x01, 0x02, 0xFF, 0xFE})

	v, err := r.ReadUint16()
	if err != nil {
		t.Fatalf("ReadUint16 failed: %v", err)
	}
	if v != 0x0102 {
		t.Errorf("expected 0x0102, got 0x%04x", v)
	}

	s, err := r.ReadInt16()
	if err != nil {
		t.Fatalf("ReadInt16 failed: %v", err)
	}
	if s != -2 {
		t.Errorf("expected -2, got %d", s)
	}
}

func TestReaderReadInt32(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint32(0x12345678))
	binary.Write(&buf, binary.BigEndian, int32(-1))

	r := FromBytes(buf.Bytes())

	v, err := r.ReadUint32()
	if err != nil {
		t.Fatalf("ReadUint32 failed: %v", err)
	}
	if v != 0x12345678 {
		t.Errorf("expected 0x12345678, got 0x%08x", v)
	}

	s, err := r.ReadInt32()
	if err != nil {
		t.Fatalf("ReadInt32 failed: %v", err)
	}
	if s != InvalidOffset {
		t.Errorf("expected %d, got %d", InvalidOffset, s)
	}
}

func TestReaderReadUint16s(t *testing.T) {
	r := FromBytes([]byte{0x07, 0xAD, 0x07, 0xAA, 0x02, 0xD0})

	vs, err := r.ReadUint16s(3)
	if err != nil {
		t.Fatalf("ReadUint16s failed: %v", err)
	}
	want := []uint16{1965, 1962, 720}
	for i := range want {
		if vs[i] != want[i] {
			t.Errorf("vs[%d] = %d, want %d", i, vs[i], want[i])
		}
	}
}

func TestReaderReadString(t *testing.T) {
	r := FromBytes([]byte{0x00, 0x05, 'S', 'W', 'A', 'T', 'H', 0x00, 0x00})

	s, err := r.ReadString()
	if err != nil {
		t.Fatalf("ReadString failed: %v", err)
	}
	if s != "SWATH" {
		t.Errorf("expected SWATH, got %q", s)
	}

	empty, err := r.ReadString()
	if err != nil {
		t.Fatalf("ReadString failed: %v", err)
	}
	if empty != "" {
		t.Errorf("expected empty string, got %q", empty)
	}
}

func TestReaderShortRead(t *testing.T) {
	r := FromBytes([]byte{0x01})

	if _, err := r.ReadUint32(); !errors.Is(err, ErrShortRead) {
		t.Errorf("expected ErrShortRead, got %v", err)
	}
	if r.Pos() != 0 {
		t.Errorf("failed read should not advance position, got %d", r.Pos())
	}
}

func TestReaderAt(t *testing.T) {
	r := FromBytes([]byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05})

	r2 := r.At(3)
	v, err := r2.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0x03 {
		t.Errorf("expected 0x03, got 0x%02x", v)
	}

	// Original reader should be unaffected
	v, err = r.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0x00 {
		t.Errorf("expected 0x00, got 0x%02x", v)
	}
}

func TestReaderSkipAndPeek(t *testing.T) {
	r := FromBytes([]byte{0x00, 0x01, 0x02, 0x03})

	r.Skip(1)
	peeked, err := r.Peek(2)
	if err != nil {
		t.Fatalf("Peek failed: %v", err)
	}
	if !bytes.Equal(peeked, []byte{0x01, 0x02}) {
		t.Errorf("expected [0x01, 0x02], got %v", peeked)
	}
	if r.Pos() != 1 {
		t.Errorf("Peek should not advance position, got %d", r.Pos())
	}
}

func TestReaderNegativeOffset(t *testing.T) {
	r := FromBytes([]byte{0x00}).At(-4)
	if _, err := r.ReadUint8(); err == nil {
		t.Error("expected error reading at negative offset")
	}
}
