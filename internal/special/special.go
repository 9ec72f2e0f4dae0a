// Package special reads HDF4 data elements, resolving special elements
// (compressed and linked-block storage) into their plain bytes.
package special

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-hdfeos/internal/binary"
	"github.com/robert-malhotra/go-hdfeos/internal/dd"
	"github.com/robert-malhotra/go-hdfeos/internal/filter"
)

// ErrUnsupported is returned for special element kinds this package cannot read.
var ErrUnsupported = errors.New("unsupported special element")

// maxDepth bounds nested special elements (a compressed payload stored in
// linked blocks, for instance).
const maxDepth = 4

// Compressed describes a compressed element header.
type Compressed struct {
	Version uint16
	Length  int32 // uncompressed length
	CompRef uint16
	Model   uint16
	Coder   uint16
}

// Linked describes a linked-block element header.
type Linked struct {
	Length    int32
	FirstLen  int32
	BlockLen  int32
	NumBlocks int32
	LinkRef   uint16
}

// ReadElement returns the full contents of the element described by d.
func ReadElement(r *binary.Reader, t *dd.Table, d dd.Descriptor) ([]byte, error) {
	return readElement(r, t, d, 0)
}

// Length returns the logical length of the element: the stored length for
// plain elements, the uncompressed or total length for special ones.
func Length(r *binary.Reader, d dd.Descriptor) (int32, error) {
	if !d.Special() {
		return d.Length, nil
	}
	hr := r.At(int64(d.Offset))
	code, err := hr.ReadUint16()
	if err != nil {
		return 0, err
	}
	switch code {
	case dd.SpecialCompressed:
		c, err := readCompressed(hr)
		if err != nil {
			return 0, err
		}
		return c.Length, nil
	case dd.SpecialLinked:
		l, err := readLinked(hr)
		if err != nil {
			return 0, err
		}
		return l.Length, nil
	default:
		return 0, fmt.Errorf("%w: code %d", ErrUnsupported, code)
	}
}

func readElement(r *binary.Reader, t *dd.Table, d dd.Descriptor, depth int) ([]byte, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("special element nesting exceeds %d", maxDepth)
	}
	if d.Offset == binary.InvalidOffset || d.Length <= 0 {
		return nil, nil
	}
	if !d.Special() {
		return r.At(int64(d.Offset)).ReadBytes(int(d.Length))
	}

	hr := r.At(int64(d.Offset))
	code, err := hr.ReadUint16()
	if err != nil {
		return nil, fmt.Errorf("reading special code: %w", err)
	}

	switch code {
	case dd.SpecialCompressed:
		c, err := readCompressed(hr)
		if err != nil {
			return nil, fmt.Errorf("reading compressed header: %w", err)
		}
		return readCompressedData(r, t, c, depth)
	case dd.SpecialLinked:
		l, err := readLinked(hr)
		if err != nil {
			return nil, fmt.Errorf("reading linked-block header: %w", err)
		}
		return readLinkedData(r, t, l)
	default:
		return nil, fmt.Errorf("%w: code %d for tag %d ref %d", ErrUnsupported, code, d.BaseTag(), d.Ref)
	}
}

func readCompressed(hr *binary.Reader) (*Compressed, error) {
	var c Compressed
	var err error
	if c.Version, err = hr.ReadUint16(); err != nil {
		return nil, err
	}
	if c.Length, err = hr.ReadInt32(); err != nil {
		return nil, err
	}
	if c.CompRef, err = hr.ReadUint16(); err != nil {
		return nil, err
	}
	if c.Model, err = hr.ReadUint16(); err != nil {
		return nil, err
	}
	if c.Coder, err = hr.ReadUint16(); err != nil {
		return nil, err
	}
	return &c, nil
}

func readCompressedData(r *binary.Reader, t *dd.Table, c *Compressed, depth int) ([]byte, error) {
	payloadDesc, ok := t.Find(dd.TagCompressed, c.CompRef)
	if !ok {
		return nil, fmt.Errorf("compressed payload ref %d not found", c.CompRef)
	}
	payload, err := readElement(r, t, payloadDesc, depth+1)
	if err != nil {
		return nil, fmt.Errorf("reading compressed payload: %w", err)
	}

	f, err := filter.New(c.Coder)
	if err != nil {
		return nil, err
	}
	out, err := f.Decode(payload, int(c.Length))
	if err != nil {
		return nil, fmt.Errorf("%s decode: %w", filter.Name(c.Coder), err)
	}
	return out, nil
}

func readLinked(hr *binary.Reader) (*Linked, error) {
	var l Linked
	var err error
	if l.Length, err = hr.ReadInt32(); err != nil {
		return nil, err
	}
	if l.FirstLen, err = hr.ReadInt32(); err != nil {
		return nil, err
	}
	if l.BlockLen, err = hr.ReadInt32(); err != nil {
		return nil, err
	}
	if l.NumBlocks, err = hr.ReadInt32(); err != nil {
		return nil, err
	}
	if l.LinkRef, err = hr.ReadUint16(); err != nil {
		return nil, err
	}
	if l.NumBlocks <= 0 {
		return nil, fmt.Errorf("invalid blocks per link table: %d", l.NumBlocks)
	}
	return &l, nil
}

// readLinkedData follows the chain of link tables. Each table holds the ref
// of the next table followed by NumBlocks block refs; a zero ref ends the data.
func readLinkedData(r *binary.Reader, t *dd.Table, l *Linked) ([]byte, error) {
	out := make([]byte, 0, l.Length)
	visited := make(map[uint16]bool)
	linkRef := l.LinkRef
	first := true

	for linkRef != 0 && int32(len(out)) < l.Length {
		if visited[linkRef] {
			return nil, fmt.Errorf("link table %d visited twice", linkRef)
		}
		visited[linkRef] = true

		ld, ok := t.Find(dd.TagLinked, linkRef)
		if !ok {
			return nil, fmt.Errorf("link table ref %d not found", linkRef)
		}
		lr := r.At(int64(ld.Offset))
		next, err := lr.ReadUint16()
		if err != nil {
			return nil, fmt.Errorf("reading link table %d: %w", linkRef, err)
		}
		blocks, err := lr.ReadUint16s(int(l.NumBlocks))
		if err != nil {
			return nil, fmt.Errorf("reading link table %d: %w", linkRef, err)
		}

		for _, ref := range blocks {
			if ref == 0 || int32(len(out)) >= l.Length {
				break
			}
			bd, ok := t.Find(dd.TagLinked, ref)
			if !ok {
				return nil, fmt.Errorf("linked block ref %d not found", ref)
			}
			want := l.BlockLen
			if first {
				want = l.FirstLen
				first = false
			}
			want = min(want, l.Length-int32(len(out)), bd.Length)
			block, err := r.At(int64(bd.Offset)).ReadBytes(int(want))
			if err != nil {
				return nil, fmt.Errorf("reading linked block %d: %w", ref, err)
			}
			out = append(out, block...)
		}
		linkRef = next
	}

	if int32(len(out)) != l.Length {
		return nil, fmt.Errorf("linked element truncated: got %d bytes, want %d", len(out), l.Length)
	}
	return out, nil
}
