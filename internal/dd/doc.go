// Package dd handles the HDF4 file signature and the chain of data
// descriptor (DD) blocks.
//
// Every HDF4 object is stored as a data element addressed by a (tag, ref)
// pair. The DD blocks are the file's table of contents: they map each pair
// to the byte offset and length of its element.
//
// # File Signature
//
// HDF4 files begin with the four bytes 0x0e 0x03 0x13 0x01. [Read] rejects
// anything else with [ErrNotHDF4].
//
// # DD Blocks
//
// The first DD block starts right after the signature. Each block holds:
//
//	Offset  Size  Description
//	0       2     Number of DDs in this block
//	2       4     Offset of the next block (0 = last)
//	6       12*n  DDs: tag (2), ref (2), offset (4), length (4)
//
// Empty slots carry [TagNull] and are skipped. All integers are big-endian.
//
// # Special Elements
//
// A tag with bit 0x4000 set marks a special element (compressed, linked
// blocks, ...). [Table.Find] resolves a base tag to either form and reports
// which one it found via [Descriptor.Special].
//
// # Key Types and Functions
//
//   - [Table]: Parsed descriptors with lookup by (tag, ref)
//   - [Read]: Verifies the signature and walks the DD chain
//   - [Descriptor]: One DD entry
package dd
