package dtype

import (
	"fmt"
	"math"
	"reflect"
)

// Encode converts a slice of Go numbers into raw big-endian bytes of the
// given number type. Strings are accepted for character types.
func Encode(t Type, values any) ([]byte, error) {
	size := t.Size()
	if size == 0 {
		return nil, fmt.Errorf("unsupported number type: %d", uint16(t))
	}
	if s, ok := values.(string); ok {
		if !t.IsChar() {
			return nil, fmt.Errorf("cannot encode string as %s", t)
		}
		return []byte(s), nil
	}

	v := reflect.ValueOf(values)
	if v.Kind() != reflect.Slice {
		v = reflect.Append(reflect.MakeSlice(reflect.SliceOf(v.Type()), 0, 1), v)
	}

	order := t.ByteOrder()
	out := make([]byte, v.Len()*size)
	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		buf := out[i*size:]
		switch t.Base() {
		case Float32:
			order.PutUint32(buf, math.Float32bits(float32(toFloat(elem))))
		case Float64:
			order.PutUint64(buf, math.Float64bits(toFloat(elem)))
		default:
			bits := toBits(elem)
			switch size {
			case 1:
				buf[0] = uint8(bits)
			case 2:
				order.PutUint16(buf, uint16(bits))
			case 4:
				order.PutUint32(buf, uint32(bits))
			case 8:
				order.PutUint64(buf, bits)
			}
		}
	}
	return out, nil
}

func toFloat(v reflect.Value) float64 {
	switch {
	case v.CanFloat():
		return v.Float()
	case v.CanInt():
		return float64(v.Int())
	case v.CanUint():
		return float64(v.Uint())
	}
	return 0
}

func toBits(v reflect.Value) uint64 {
	switch {
	case v.CanInt():
		return uint64(v.Int())
	case v.CanUint():
		return v.Uint()
	case v.CanFloat():
		return uint64(int64(v.Float()))
	}
	return 0
}
