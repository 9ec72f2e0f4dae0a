package dd

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/robert-malhotra/go-hdfeos/internal/binary"
)

// Signature is the HDF4 magic number.
var Signature = []byte{0x0e, 0x03, 0x13, 0x01}

// DescriptorSize is the on-disk size of one DD.
const DescriptorSize = 12

// Errors
var (
	ErrNotHDF4      = errors.New("not an HDF4 file: signature not found")
	ErrInvalidChain = errors.New("invalid DD block chain")
)

// Descriptor is one data descriptor.
type Descriptor struct {
	Tag    uint16 // as stored, including the special bit
	Ref    uint16
	Offset int32
	Length int32
}

// Special reports whether the element is a special element.
func (d Descriptor) Special() bool {
	return IsSpecial(d.Tag)
}

// BaseTag returns the tag without the special bit.
func (d Descriptor) BaseTag() uint16 {
	return BaseTag(d.Tag)
}

type key struct {
	tag uint16
	ref uint16
}

// Table holds every non-empty descriptor in file order.
type Table struct {
	descs []Descriptor
	index map[key]int
}

// Read verifies the signature and parses the whole DD chain.
func Read(r io.ReaderAt) (*Table, error) {
	br := binary.NewReader(r, binary.DefaultConfig())

	sig, err := br.ReadBytes(len(Signature))
	if err != nil || string(sig) != string(Signature) {
		return nil, ErrNotHDF4
	}

	t := &Table{index: make(map[key]int)}
	visited := make(map[int64]bool)
	offset := int64(len(Signature))

	for offset != 0 {
		if visited[offset] {
			return nil, fmt.Errorf("%w: block at %d visited twice", ErrInvalidChain, offset)
		}
		visited[offset] = true

		next, err := t.readBlock(br.At(offset))
		if err != nil {
			return nil, fmt.Errorf("reading DD block at %d: %w", offset, err)
		}
		offset = int64(next)
	}

	return t, nil
}

func (t *Table) readBlock(br *binary.Reader) (int32, error) {
	n, err := br.ReadUint16()
	if err != nil {
		return 0, err
	}
	next, err := br.ReadInt32()
	if err != nil {
		return 0, err
	}
	if next < 0 {
		return 0, fmt.Errorf("%w: negative next offset %d", ErrInvalidChain, next)
	}

	raw, err := br.ReadBytes(int(n) * DescriptorSize)
	if err != nil {
		return 0, err
	}
	rr := binary.FromBytes(raw)
	for i := 0; i < int(n); i++ {
		var d Descriptor
		d.Tag, _ = rr.ReadUint16()
		d.Ref, _ = rr.ReadUint16()
		d.Offset, _ = rr.ReadInt32()
		d.Length, _ = rr.ReadInt32()
		if d.Tag == TagNull {
			continue
		}
		t.Add(d)
	}
	return next, nil
}

// Add records a descriptor. A later descriptor for the same pair replaces
// the earlier one.
func (t *Table) Add(d Descriptor) {
	if t.index == nil {
		t.index = make(map[key]int)
	}
	k := key{d.Tag, d.Ref}
	if i, ok := t.index[k]; ok {
		t.descs[i] = d
		return
	}
	t.index[k] = len(t.descs)
	t.descs = append(t.descs, d)
}

// Find returns the descriptor for a base tag and ref, in either its plain
// or its special form.
func (t *Table) Find(tag, ref uint16) (Descriptor, bool) {
	if i, ok := t.index[key{tag, ref}]; ok {
		return t.descs[i], true
	}
	if i, ok := t.index[key{SpecialTag(tag), ref}]; ok {
		return t.descs[i], true
	}
	return Descriptor{}, false
}

// Refs returns the refs stored under a base tag, in ascending order.
func (t *Table) Refs(tag uint16) []uint16 {
	var refs []uint16
	for _, d := range t.descs {
		if d.BaseTag() == tag {
			refs = append(refs, d.Ref)
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i] < refs[j] })
	return refs
}

// Next returns the smallest ref under tag that is greater than after.
// Pass -1 to get the first one.
func (t *Table) Next(tag uint16, after int32) (uint16, bool) {
	for _, ref := range t.Refs(tag) {
		if int32(ref) > after {
			return ref, true
		}
	}
	return 0, false
}

// Len returns the number of descriptors.
func (t *Table) Len() int {
	return len(t.descs)
}

// All returns a copy of every descriptor in file order.
func (t *Table) All() []Descriptor {
	return append([]Descriptor(nil), t.descs...)
}
