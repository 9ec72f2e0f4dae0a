package sds

import "fmt"

// Selection is a hyperslab: start, stride and count per dimension. A nil
// Stride means 1 in every dimension.
type Selection struct {
	Start  []int
	Stride []int
	Count  []int
}

// Validate checks the selection against the data set's dimension sizes and
// fills in a default stride.
func (s *Selection) Validate(dims []int) error {
	rank := len(dims)
	if len(s.Start) != rank || len(s.Count) != rank {
		return fmt.Errorf("%w: start %d, count %d, rank %d", ErrRank, len(s.Start), len(s.Count), rank)
	}
	if s.Stride == nil {
		s.Stride = make([]int, rank)
		for i := range s.Stride {
			s.Stride[i] = 1
		}
	}
	if len(s.Stride) != rank {
		return fmt.Errorf("%w: stride %d, rank %d", ErrRank, len(s.Stride), rank)
	}
	for i := range dims {
		if s.Start[i] < 0 || s.Count[i] < 0 || s.Stride[i] < 1 {
			return fmt.Errorf("%w: dimension %d: start=%d stride=%d count=%d",
				ErrSelection, i, s.Start[i], s.Stride[i], s.Count[i])
		}
		if s.Count[i] == 0 {
			continue
		}
		// Compared by division so a huge stride or count cannot wrap.
		if s.Start[i] >= dims[i] || (s.Count[i] > 1 && s.Stride[i] > (dims[i]-1-s.Start[i])/(s.Count[i]-1)) {
			return fmt.Errorf("%w: dimension %d: start=%d stride=%d count=%d exceeds size %d",
				ErrSelection, i, s.Start[i], s.Stride[i], s.Count[i], dims[i])
		}
	}
	return nil
}

// Elements returns the number of elements selected.
func (s *Selection) Elements() int {
	n := 1
	for _, c := range s.Count {
		n *= c
	}
	return n
}

// Extract copies the selected elements out of a row-major buffer. The
// selection must already be validated.
func Extract(data []byte, dims []int, elemSize int, sel *Selection) ([]byte, error) {
	total := elemSize
	for _, d := range dims {
		total *= d
	}
	if len(data) < total {
		return nil, fmt.Errorf("data has %d bytes, need %d", len(data), total)
	}

	n := sel.Elements()
	out := make([]byte, 0, n*elemSize)
	if n == 0 {
		return out, nil
	}
	if len(dims) == 0 {
		return append(out, data[:elemSize]...), nil
	}

	// Row-major strides in elements.
	rank := len(dims)
	strides := make([]int, rank)
	strides[rank-1] = 1
	for i := rank - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * dims[i+1]
	}

	idx := make([]int, rank)
	for {
		off := 0
		for i := range idx {
			off += (sel.Start[i] + idx[i]*sel.Stride[i]) * strides[i]
		}
		off *= elemSize
		out = append(out, data[off:off+elemSize]...)

		// Advance the odometer, last dimension fastest.
		d := rank - 1
		for d >= 0 {
			idx[d]++
			if idx[d] < sel.Count[d] {
				break
			}
			idx[d] = 0
			d--
		}
		if d < 0 {
			return out, nil
		}
	}
}
