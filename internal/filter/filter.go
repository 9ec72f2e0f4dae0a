package filter

import (
	"errors"
	"fmt"
)

// Coder codes as stored in a compressed element header.
const (
	CodeNone    uint16 = 0
	CodeRLE     uint16 = 1
	CodeNBit    uint16 = 2
	CodeSkpHuff uint16 = 3
	CodeDeflate uint16 = 4
	CodeSZIP    uint16 = 5
	CodeJPEG    uint16 = 7
)

// ErrUnsupported is returned for coders that are recognized but not implemented.
var ErrUnsupported = errors.New("unsupported coder")

// Filter is the interface implemented by all HDF4 coders.
type Filter interface {
	// ID returns the coder code.
	ID() uint16

	// Decode transforms encoded data to decoded form. size is the expected
	// decoded length, or -1 if unknown.
	Decode(input []byte, size int) ([]byte, error)
}

// Registry maps coder codes to constructors.
var Registry = map[uint16]func() Filter{
	CodeNone:    func() Filter { return None{} },
	CodeRLE:     func() Filter { return RLE{} },
	CodeDeflate: func() Filter { return Deflate{} },
}

// filterNames maps known coder codes to their names for better error messages.
var filterNames = map[uint16]string{
	CodeNone:    "none",
	CodeRLE:     "RLE",
	CodeNBit:    "N-bit",
	CodeSkpHuff: "skipping Huffman",
	CodeDeflate: "deflate",
	CodeSZIP:    "SZIP",
	CodeJPEG:    "JPEG",
}

// New returns the coder for a code.
func New(code uint16) (Filter, error) {
	constructor, ok := Registry[code]
	if !ok {
		if name, known := filterNames[code]; known {
			return nil, fmt.Errorf("%w: %s (code %d)", ErrUnsupported, name, code)
		}
		return nil, fmt.Errorf("%w: code %d", ErrUnsupported, code)
	}
	return constructor(), nil
}

// Name returns a readable name for a coder code.
func Name(code uint16) string {
	if name, ok := filterNames[code]; ok {
		return name
	}
	return fmt.Sprintf("coder-%d", code)
}

// None passes data through unchanged.
type None struct{}

func (None) ID() uint16 { return CodeNone }

func (None) Decode(input []byte, size int) ([]byte, error) {
	if size >= 0 && size < len(input) {
		return input[:size], nil
	}
	return input, nil
}
