package dtype

import (
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Decode converts n elements of raw data into a typed slice ([]float32,
// []int16, ...). Character types decode to []uint8.
func Decode(t Type, data []byte, n int) (any, error) {
	size := t.Size()
	if size == 0 {
		return nil, fmt.Errorf("unsupported number type: %d", uint16(t))
	}
	if n < 0 || n*size > len(data) {
		return nil, fmt.Errorf("need %d bytes for %d %s elements, have %d", n*size, n, t, len(data))
	}
	order := t.ByteOrder()

	switch t.Base() {
	case UChar8, UInt8, Char8:
		out := make([]uint8, n)
		copy(out, data)
		return out, nil
	case Int8:
		out := make([]int8, n)
		for i := range out {
			out[i] = int8(data[i])
		}
		return out, nil
	case Int16:
		out := make([]int16, n)
		for i := range out {
			out[i] = int16(order.Uint16(data[2*i:]))
		}
		return out, nil
	case UInt16:
		out := make([]uint16, n)
		for i := range out {
			out[i] = order.Uint16(data[2*i:])
		}
		return out, nil
	case Int32:
		out := make([]int32, n)
		for i := range out {
			out[i] = int32(order.Uint32(data[4*i:]))
		}
		return out, nil
	case UInt32:
		out := make([]uint32, n)
		for i := range out {
			out[i] = order.Uint32(data[4*i:])
		}
		return out, nil
	case Int64:
		out := make([]int64, n)
		for i := range out {
			out[i] = int64(order.Uint64(data[8*i:]))
		}
		return out, nil
	case UInt64:
		out := make([]uint64, n)
		for i := range out {
			out[i] = order.Uint64(data[8*i:])
		}
		return out, nil
	case Float32:
		out := make([]float32, n)
		for i := range out {
			out[i] = math.Float32frombits(order.Uint32(data[4*i:]))
		}
		return out, nil
	case Float64:
		out := make([]float64, n)
		for i := range out {
			out[i] = math.Float64frombits(order.Uint64(data[8*i:]))
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported number type: %d", uint16(t))
}

// DecodeValue decodes a single field value of the given order. Order 1
// yields a scalar; character fields yield a string with trailing NULs
// trimmed; anything else yields a typed slice.
func DecodeValue(t Type, data []byte, order int) (any, error) {
	if t.Base() == Char8 {
		if order > len(data) {
			return nil, fmt.Errorf("need %d bytes for char8 field, have %d", order, len(data))
		}
		return strings.TrimRight(string(data[:order]), "\x00"), nil
	}
	vals, err := Decode(t, data, order)
	if err != nil {
		return nil, err
	}
	if order == 1 {
		return reflect.ValueOf(vals).Index(0).Interface(), nil
	}
	return vals, nil
}

// Convert decodes n elements into dest, which must be a pointer to a slice
// of a numeric Go type. Values are converted between numeric kinds.
func Convert(t Type, data []byte, n int, dest any) error {
	destVal := reflect.ValueOf(dest)
	if destVal.Kind() != reflect.Ptr || destVal.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("dest must be a pointer to a slice")
	}

	vals, err := Decode(t, data, n)
	if err != nil {
		return err
	}
	src := reflect.ValueOf(vals)
	slice := destVal.Elem()
	elemType := slice.Type().Elem()

	if src.Type().Elem() == elemType {
		slice.Set(src)
		return nil
	}
	if !src.Type().Elem().ConvertibleTo(elemType) || !isNumeric(elemType.Kind()) {
		return fmt.Errorf("cannot convert %s to %s", t, elemType)
	}

	out := reflect.MakeSlice(slice.Type(), n, n)
	for i := 0; i < n; i++ {
		out.Index(i).Set(src.Index(i).Convert(elemType))
	}
	slice.Set(out)
	return nil
}

// Float64s decodes n elements and widens them to float64.
func Float64s(t Type, data []byte, n int) ([]float64, error) {
	var out []float64
	if err := Convert(t, data, n, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
