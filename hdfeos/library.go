package hdfeos

import (
	"github.com/robert-malhotra/go-hdfeos/internal/dd"
	"github.com/robert-malhotra/go-hdfeos/internal/dtype"
)

// Kind is the kind of an object inside a container.
type Kind int

// Object kinds.
const (
	KindGroup Kind = iota + 1
	KindTable
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindTable:
		return "table"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Tags of the recognized object kinds.
const (
	TagGroup uint16 = dd.TagVG
	TagTable uint16 = dd.TagVH
	TagArray uint16 = dd.TagNDG
)

// Classify maps a tag to the kind of object it names. Tags of any other
// kind report false and are skipped.
func Classify(tag uint16) (Kind, bool) {
	switch tag {
	case TagGroup:
		return KindGroup, true
	case TagTable:
		return KindTable, true
	case TagArray:
		return KindArray, true
	}
	return 0, false
}

// ObjectRef identifies one object in a container.
type ObjectRef struct {
	Kind Kind
	Ref  int32
}

// TagRef is one raw entry of a group node.
type TagRef struct {
	Tag uint16
	Ref int32
}

// NumberType is an HDF4 number type.
type NumberType = dtype.Type

// Number types.
const (
	Char8   = dtype.Char8
	UChar8  = dtype.UChar8
	Float32 = dtype.Float32
	Float64 = dtype.Float64
	Int8    = dtype.Int8
	UInt8   = dtype.UInt8
	Int16   = dtype.Int16
	UInt16  = dtype.UInt16
	Int32   = dtype.Int32
	UInt32  = dtype.UInt32
	Int64   = dtype.Int64
	UInt64  = dtype.UInt64
)

// Field describes one table field.
type Field struct {
	Name   string
	Type   NumberType
	Order  int // values per record
	Size   int // bytes per record
	Offset int // byte offset within a record
}

// TableInfo is the metadata of a table, read when it is attached.
type TableInfo struct {
	Name      string
	Class     string
	Records   int
	Interlace int
	Fields    []Field
	Size      int // record size in bytes
}

// ArrayInfo is the metadata of an array dataset, read when it is selected.
type ArrayInfo struct {
	Name     string
	Rank     int
	Dims     []int
	Type     NumberType
	NumAttrs int
}

// Library is the raw handle layer a Container is built on. Open uses the
// HDF4 implementation; OpenLibrary accepts any other.
//
// NextGroup returns the group ref following ref (-1 for the first) and
// ErrExhausted once there are no more.
type Library interface {
	NextGroup(ref int32) (int32, error)
	AttachGroup(ref int32) (GroupHandle, error)
	AttachTable(ref int32) (TableHandle, error)
	SelectArray(ref int32) (ArrayHandle, error)
	Close() error
}

// GroupHandle is a raw attached group node.
type GroupHandle interface {
	Name() string
	Class() string
	Members() ([]TagRef, error)
	Detach() error
}

// TableHandle is a raw attached table.
type TableHandle interface {
	Info() TableInfo
	ReadRecords(start, count int) ([][]byte, error)
	Detach() error
}

// ArrayHandle is a raw selected array dataset.
type ArrayHandle interface {
	Info() ArrayInfo
	ReadSlab(start, stride, count []int) ([]byte, error)
	EndAccess() error
}
