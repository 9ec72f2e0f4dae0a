// Package binary provides low-level binary I/O operations for HDF4 file parsing.
package binary

import (
	"encoding/binary"
	"errors"
	"io"
)

// ErrShortRead is returned when fewer bytes than requested are available.
var ErrShortRead = errors.New("short read")

// InvalidOffset is the offset HDF4 stores for a descriptor with no data.
const InvalidOffset = -1

// Reader provides methods for reading HDF4 binary data. HDF4 stores all
// structural integers big-endian with 32-bit offsets and lengths.
type Reader struct {
	r     io.ReaderAt
	order binary.ByteOrder
	pos   int64
}

// Config holds reader configuration.
type Config struct {
	ByteOrder binary.ByteOrder
}

// DefaultConfig returns the configuration used for HDF4 metadata.
func DefaultConfig() Config {
	return Config{ByteOrder: binary.BigEndian}
}

// NewReader creates a binary reader with the given configuration.
func NewReader(r io.ReaderAt, cfg Config) *Reader {
	order := cfg.ByteOrder
	if order == nil {
		order = binary.BigEndian
	}
	return &Reader{r: r, order: order}
}

// FromBytes returns a big-endian reader over an in-memory buffer.
func FromBytes(b []byte) *Reader {
	return &Reader{r: bytesReaderAt(b), order: binary.BigEndian}
}

// At returns a new reader positioned at the given offset.
// The new reader shares the underlying io.ReaderAt but has independent position.
func (r *Reader) At(offset int64) *Reader {
	return &Reader{r: r.r, order: r.order, pos: offset}
}

// Pos returns the current read position.
func (r *Reader) Pos() int64 {
	return r.pos
}

// ReadBytes reads exactly n bytes from the current position.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	got, err := r.r.ReadAt(buf, r.pos)
	if got < n {
		if err == nil || err == io.EOF {
			err = ErrShortRead
		}
		return nil, err
	}
	r.pos += int64(n)
	return buf, nil
}

// ReadUint8 reads an unsigned 8-bit integer.
func (r *Reader) ReadUint8() (uint8, error) {
	buf, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadUint16 reads an unsigned 16-bit integer.
func (r *Reader) ReadUint16() (uint16, error) {
	buf, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(buf), nil
}

// ReadInt16 reads a signed 16-bit integer.
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadUint32 reads an unsigned 32-bit integer.
func (r *Reader) ReadUint32() (uint32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(buf), nil
}

// ReadInt32 reads a signed 32-bit integer. HDF4 offsets and lengths are int32.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadUint16s reads n consecutive unsigned 16-bit integers.
func (r *Reader) ReadUint16s(n int) ([]uint16, error) {
	buf, err := r.ReadBytes(2 * n)
	if err != nil {
		return nil, err
	}
	out := make([]uint16, n)
	for i := range out {
		out[i] = r.order.Uint16(buf[2*i:])
	}
	return out, nil
}

// ReadString reads a uint16 length prefix followed by that many bytes,
// the way HDF4 stores Vgroup and Vdata names.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadUint16()
	if err != nil {
		return "", err
	}
	buf, err := r.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// Skip advances the position by n bytes.
func (r *Reader) Skip(n int64) {
	r.pos += n
}

// Peek reads n bytes without advancing the position.
func (r *Reader) Peek(n int) ([]byte, error) {
	pos := r.pos
	buf, err := r.ReadBytes(n)
	r.pos = pos
	return buf, err
}

// ByteOrder returns the configured byte order.
func (r *Reader) ByteOrder() binary.ByteOrder {
	return r.order
}

type bytesReaderAt []byte

func (b bytesReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(b)) {
		return 0, io.EOF
	}
	n := copy(p, b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
