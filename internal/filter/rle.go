package filter

import "fmt"

const (
	rleRunBit  = 0x80
	rleMinRun  = 3
	rleCountMk = 0x7f
)

// RLE implements the HDF4 run-length coder.
type RLE struct{}

func (RLE) ID() uint16 {
	return CodeRLE
}

func (RLE) Decode(input []byte, size int) ([]byte, error) {
	out := make([]byte, 0, max(size, 0))
	for i := 0; i < len(input); {
		ctl := input[i]
		i++
		if ctl&rleRunBit != 0 {
			if i >= len(input) {
				return nil, fmt.Errorf("rle: run at %d missing value byte", i-1)
			}
			n := int(ctl&rleCountMk) + rleMinRun
			for j := 0; j < n; j++ {
				out = append(out, input[i])
			}
			i++
			continue
		}
		n := int(ctl) + 1
		if i+n > len(input) {
			return nil, fmt.Errorf("rle: literal run of %d at %d exceeds input", n, i-1)
		}
		out = append(out, input[i:i+n]...)
		i += n
	}
	if size >= 0 {
		if len(out) < size {
			return nil, fmt.Errorf("rle: decoded %d bytes, want %d", len(out), size)
		}
		out = out[:size]
	}
	return out, nil
}
