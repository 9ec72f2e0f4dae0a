package filter

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// Deflate implements the HDF4 deflate coder (zlib stream).
type Deflate struct{}

func (Deflate) ID() uint16 {
	return CodeDeflate
}

func (Deflate) Decode(input []byte, size int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("zlib reader: %w", err)
	}
	defer r.Close()

	var src io.Reader = r
	if size >= 0 {
		src = io.LimitReader(r, int64(size))
	}
	output, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("zlib decompress: %w", err)
	}
	if size >= 0 && len(output) != size {
		return nil, fmt.Errorf("zlib decompress: got %d bytes, want %d", len(output), size)
	}

	return output, nil
}
