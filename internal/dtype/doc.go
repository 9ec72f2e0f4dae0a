// Package dtype handles HDF4 number types (the DFNT_* codes) and converts
// raw element bytes into Go values.
//
// # Number Types
//
// HDF4 identifies element types by a 16-bit code. The low byte selects the
// type; bit 0x1000 marks native layout and bit 0x4000 marks little-endian
// storage. Files written by the standard library use big-endian storage.
//
//	Code  Type      Go type
//	3     uchar8    uint8
//	4     char8     byte (decoded to string for character fields)
//	5     float32   float32
//	6     float64   float64
//	20    int8      int8
//	21    uint8     uint8
//	22    int16     int16
//	23    uint16    uint16
//	24    int32     int32
//	25    uint32    uint32
//	26    int64     int64
//	27    uint64    uint64
//
// # Conversion
//
// [Decode] returns a freshly allocated typed slice. [Convert] fills a
// caller-supplied slice pointer, converting between numeric kinds with
// reflect the way a caller expects (reading int16 data into []float64 is
// allowed). [Encode] is the inverse of [Decode] and exists for the test
// fixture builder.
package dtype
