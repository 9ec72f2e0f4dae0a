package dtype

import (
	"encoding/binary"
	"fmt"
	"reflect"
)

// Type is an HDF4 number type code.
type Type uint16

// Number types.
const (
	UChar8  Type = 3
	Char8   Type = 4
	Float32 Type = 5
	Float64 Type = 6
	Int8    Type = 20
	UInt8   Type = 21
	Int16   Type = 22
	UInt16  Type = 23
	Int32   Type = 24
	UInt32  Type = 25
	Int64   Type = 26
	UInt64  Type = 27
)

const (
	flagNative = 0x1000
	flagCustom = 0x2000
	flagLitEnd = 0x4000
)

// Base strips the layout flags.
func (t Type) Base() Type {
	return t &^ (flagNative | flagCustom | flagLitEnd)
}

// ByteOrder returns the storage byte order for the type.
func (t Type) ByteOrder() binary.ByteOrder {
	if t&flagLitEnd != 0 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// Size returns the element size in bytes, or 0 for unknown types.
func (t Type) Size() int {
	switch t.Base() {
	case UChar8, Char8, Int8, UInt8:
		return 1
	case Int16, UInt16:
		return 2
	case Float32, Int32, UInt32:
		return 4
	case Float64, Int64, UInt64:
		return 8
	default:
		return 0
	}
}

// Valid reports whether the type is a known number type.
func (t Type) Valid() bool {
	return t.Size() != 0
}

// IsChar reports whether the type holds characters.
func (t Type) IsChar() bool {
	b := t.Base()
	return b == Char8 || b == UChar8
}

func (t Type) String() string {
	switch t.Base() {
	case UChar8:
		return "uchar8"
	case Char8:
		return "char8"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int8:
		return "int8"
	case UInt8:
		return "uint8"
	case Int16:
		return "int16"
	case UInt16:
		return "uint16"
	case Int32:
		return "int32"
	case UInt32:
		return "uint32"
	case Int64:
		return "int64"
	case UInt64:
		return "uint64"
	default:
		return fmt.Sprintf("dfnt-%d", uint16(t))
	}
}

// GoType returns the Go reflect.Type that corresponds to the number type.
func GoType(t Type) (reflect.Type, error) {
	switch t.Base() {
	case UChar8, UInt8, Char8:
		return reflect.TypeOf(uint8(0)), nil
	case Int8:
		return reflect.TypeOf(int8(0)), nil
	case Int16:
		return reflect.TypeOf(int16(0)), nil
	case UInt16:
		return reflect.TypeOf(uint16(0)), nil
	case Int32:
		return reflect.TypeOf(int32(0)), nil
	case UInt32:
		return reflect.TypeOf(uint32(0)), nil
	case Int64:
		return reflect.TypeOf(int64(0)), nil
	case UInt64:
		return reflect.TypeOf(uint64(0)), nil
	case Float32:
		return reflect.TypeOf(float32(0)), nil
	case Float64:
		return reflect.TypeOf(float64(0)), nil
	default:
		return nil, fmt.Errorf("unsupported number type: %d", uint16(t))
	}
}

// LittleEndian returns t flagged as stored little-endian.
func (t Type) LittleEndian() Type {
	return t | flagLitEnd
}
