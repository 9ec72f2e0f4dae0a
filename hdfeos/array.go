package hdfeos

import (
	"fmt"
	"math"

	"github.com/robert-malhotra/go-hdfeos/internal/dtype"
)

// ArrayDataset is an open multi-dimensional array (an SDS).
type ArrayDataset struct {
	n      *node
	h      ArrayHandle
	info   ArrayInfo
	parent any
}

func newArrayLocked(parent *node, h ArrayHandle, keep any) *ArrayDataset {
	a := &ArrayDataset{h: h, info: h.Info(), parent: keep}
	a.n = parent.s.newNodeLocked(parent, "array", a.info.Name, h.EndAccess)
	track(a, a.n)
	return a
}

// Name returns the dataset name.
func (a *ArrayDataset) Name() string { return a.info.Name }

// Kind returns KindArray.
func (a *ArrayDataset) Kind() Kind { return KindArray }

// Rank returns the number of dimensions.
func (a *ArrayDataset) Rank() int { return a.info.Rank }

// Dims returns the dimension sizes.
func (a *ArrayDataset) Dims() []int { return append([]int(nil), a.info.Dims...) }

// Type returns the element type.
func (a *ArrayDataset) Type() NumberType { return a.info.Type }

// NumAttrs returns the number of attributes attached to the dataset.
func (a *ArrayDataset) NumAttrs() int { return a.info.NumAttrs }

// Info returns the dataset's metadata.
func (a *ArrayDataset) Info() ArrayInfo {
	info := a.info
	info.Dims = a.Dims()
	return info
}

// ReadSlab reads the hyperslab given by start, stride and count. A nil
// stride means 1 in every dimension.
func (a *ArrayDataset) ReadSlab(start, stride, count []int) (*Array, error) {
	a.n.s.mu.Lock()
	defer a.n.s.mu.Unlock()
	if err := a.n.checkLocked("read"); err != nil {
		return nil, err
	}

	raw, err := a.h.ReadSlab(start, stride, count)
	if err != nil {
		return nil, opError("read", a.info.Name, err)
	}
	return &Array{Type: a.info.Type, Shape: append([]int(nil), count...), Raw: raw}, nil
}

// Slice selects part of one dimension. Negative Start and Stop count from
// the end and out-of-range values are clamped; a zero Step means 1.
type Slice struct {
	Start, Stop, Step int
}

// All selects a whole dimension.
var All = Slice{Start: 0, Stop: math.MaxInt, Step: 1}

// Range selects [start, stop) of a dimension.
func Range(start, stop int) Slice {
	return Slice{Start: start, Stop: stop, Step: 1}
}

// ReadSlice reads one Slice per leading dimension; dimensions without a
// Slice are read whole.
func (a *ArrayDataset) ReadSlice(sel ...Slice) (*Array, error) {
	if len(sel) > a.info.Rank {
		return nil, opError("read", a.info.Name, fmt.Errorf("%w: %d slices for rank %d", ErrInvalidSlice, len(sel), a.info.Rank))
	}

	start := make([]int, a.info.Rank)
	stride := make([]int, a.info.Rank)
	count := make([]int, a.info.Rank)
	for d, size := range a.info.Dims {
		s := All
		if d < len(sel) {
			s = sel[d]
		}
		if s.Step == 0 {
			s.Step = 1
		}
		if s.Step < 0 {
			return nil, opError("read", a.info.Name, fmt.Errorf("%w: step %d", ErrInvalidSlice, s.Step))
		}
		lo, hi := clampRange(s.Start, s.Stop, size)
		start[d] = lo
		stride[d] = s.Step
		count[d] = (hi - lo + s.Step - 1) / s.Step
	}
	return a.ReadSlab(start, stride, count)
}

// ReadAll reads the whole dataset.
func (a *ArrayDataset) ReadAll() (*Array, error) {
	return a.ReadSlice()
}

// At reads one element. Negative indexes count from the end.
func (a *ArrayDataset) At(idx ...int) (any, error) {
	if len(idx) != a.info.Rank {
		return nil, opError("read", a.info.Name, fmt.Errorf("%w: %d indexes for rank %d", ErrInvalidSlice, len(idx), a.info.Rank))
	}
	start := make([]int, len(idx))
	count := make([]int, len(idx))
	for d, i := range idx {
		if i < 0 {
			i += a.info.Dims[d]
		}
		if i < 0 || i >= a.info.Dims[d] {
			return nil, opError("read", a.info.Name, fmt.Errorf("%w: index %d out of range in dimension %d", ErrInvalidSlice, idx[d], d))
		}
		start[d] = i
		count[d] = 1
	}

	arr, err := a.ReadSlab(start, nil, count)
	if err != nil {
		return nil, err
	}
	return dtype.DecodeValue(arr.Type, arr.Raw, 1)
}

// Close releases the dataset. Closing an already closed dataset does
// nothing.
func (a *ArrayDataset) Close() error {
	return a.n.close()
}

// Array is a block of elements read from an ArrayDataset, in row-major
// order.
type Array struct {
	Type  NumberType
	Shape []int
	Raw   []byte
}

// Len returns the number of elements.
func (a *Array) Len() int {
	n := 1
	for _, s := range a.Shape {
		n *= s
	}
	return n
}

// Values decodes the elements into a typed slice ([]float32, []int16, ...).
func (a *Array) Values() (any, error) {
	return dtype.Decode(a.Type, a.Raw, a.Len())
}

// Float64s decodes the elements, converting them to float64.
func (a *Array) Float64s() ([]float64, error) {
	return dtype.Float64s(a.Type, a.Raw, a.Len())
}
