// Package filter implements the HDF4 compression coders.
//
// A compressed HDF4 element records which coder produced its payload. When
// reading, the payload is decoded back to the element's raw bytes before
// any other interpretation.
//
// # Supported Coders
//
//   - None (code 0): Payload is stored as-is via [None].
//
//   - RLE (code 1): HDF4 run-length encoding via [RLE]. A control byte with
//     the high bit set introduces a run of (n & 0x7f) + 3 copies of the next
//     byte; otherwise n + 1 literal bytes follow.
//
//   - Deflate (code 4): Zlib compression via [Deflate], using Go's standard
//     compress/zlib package.
//
// # Unsupported Coders
//
// N-bit (2), adaptive Huffman (3), SZIP (5) and JPEG (7) are recognized by
// name so that errors are explicit, but cannot be decoded.
//
// # Key Types
//
//   - [Filter]: Interface implemented by all coders (ID and Decode methods)
//   - [New]: Looks up a coder by code
package filter
