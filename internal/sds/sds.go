// Package sds decodes HDF4 scientific data sets: the numeric data group
// (NDG) that ties a data set together, its dimension record (SDD), its
// number type (NT), and the hyperslab selection over its raw data (SD).
package sds

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-hdfeos/internal/binary"
	"github.com/robert-malhotra/go-hdfeos/internal/dtype"
)

// Errors
var (
	ErrRank      = errors.New("selection rank does not match data set rank")
	ErrSelection = errors.New("selection out of bounds")
)

// TagRef is one member of a numeric data group.
type TagRef struct {
	Tag uint16
	Ref uint16
}

// ParseNDG decodes a numeric data group: a flat list of tag/ref pairs.
func ParseNDG(data []byte) ([]TagRef, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("ndg length %d is not a multiple of 4", len(data))
	}
	r := binary.FromBytes(data)
	out := make([]TagRef, len(data)/4)
	for i := range out {
		out[i].Tag, _ = r.ReadUint16()
		out[i].Ref, _ = r.ReadUint16()
	}
	return out, nil
}

// EncodeNDG serializes a numeric data group.
func EncodeNDG(members []TagRef) []byte {
	var buf binary.Buffer
	w := binary.NewWriter(&buf, binary.DefaultConfig())
	for _, m := range members {
		w.WriteUint16(m.Tag)
		w.WriteUint16(m.Ref)
	}
	return buf.Bytes()
}

// NT is a number type record.
type NT struct {
	Version uint8
	Type    dtype.Type
	Width   uint8 // bits
	Class   uint8
}

// NTSize is the on-disk size of an NT record.
const NTSize = 4

// Number type classes.
const (
	classBigEndian    uint8 = 1
	classLittleEndian uint8 = 4
)

// ParseNT decodes a number type record.
func ParseNT(data []byte) (NT, error) {
	if len(data) < NTSize {
		return NT{}, fmt.Errorf("nt record too short: %d bytes", len(data))
	}
	nt := NT{
		Version: data[0],
		Type:    dtype.Type(data[1]),
		Width:   data[2],
		Class:   data[3],
	}
	if !nt.Type.Valid() {
		return NT{}, fmt.Errorf("unsupported number type %d", data[1])
	}
	if nt.Class == classLittleEndian {
		nt.Type = nt.Type.LittleEndian()
	}
	return nt, nil
}

// EncodeNT serializes a number type record.
func EncodeNT(t dtype.Type) []byte {
	class := classBigEndian
	if t.Base() != t && t.ByteOrder() != binary.DefaultConfig().ByteOrder {
		class = classLittleEndian
	}
	return []byte{1, uint8(t.Base()), uint8(t.Size() * 8), class}
}

// Dims is a decoded dimension record.
type Dims struct {
	Sizes []int
	NTRef uint16 // ref of the data number type
}

// Rank returns the number of dimensions.
func (d Dims) Rank() int {
	return len(d.Sizes)
}

// Elements returns the total number of elements.
func (d Dims) Elements() int {
	n := 1
	for _, s := range d.Sizes {
		n *= s
	}
	return n
}

// ParseSDD decodes a dimension record: rank, sizes, then the tag/ref of the
// data number type. Trailing scale number types are ignored.
func ParseSDD(data []byte) (Dims, error) {
	r := binary.FromBytes(data)
	rank, err := r.ReadUint16()
	if err != nil {
		return Dims{}, fmt.Errorf("reading rank: %w", err)
	}
	d := Dims{Sizes: make([]int, rank)}
	for i := range d.Sizes {
		v, err := r.ReadInt32()
		if err != nil {
			return Dims{}, fmt.Errorf("reading dimension %d: %w", i, err)
		}
		if v < 0 {
			return Dims{}, fmt.Errorf("negative dimension %d: %d", i, v)
		}
		d.Sizes[i] = int(v)
	}
	if _, err := r.ReadUint16(); err != nil {
		return Dims{}, fmt.Errorf("reading nt tag: %w", err)
	}
	if d.NTRef, err = r.ReadUint16(); err != nil {
		return Dims{}, fmt.Errorf("reading nt ref: %w", err)
	}
	return d, nil
}

// EncodeSDD serializes a dimension record. Every scale shares the data
// number type.
func EncodeSDD(sizes []int, ntTag, ntRef uint16) []byte {
	var buf binary.Buffer
	w := binary.NewWriter(&buf, binary.DefaultConfig())
	w.WriteUint16(uint16(len(sizes)))
	for _, s := range sizes {
		w.WriteInt32(int32(s))
	}
	w.WriteUint16(ntTag)
	w.WriteUint16(ntRef)
	for range sizes {
		w.WriteUint16(ntTag)
		w.WriteUint16(ntRef)
	}
	return buf.Bytes()
}
