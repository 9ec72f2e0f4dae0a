// Package alloc manages space when laying out an HDF4 file.
//
// HDF4 addresses every data element by a 32-bit offset recorded in a data
// descriptor. The test fixture builder places elements one after another;
// this package hands out those offsets and remembers which (tag, ref) pair
// each range belongs to, so the descriptor table can be produced from the
// allocation record.
//
// # Usage
//
//	a := alloc.New(4)                    // after the magic number
//	off := a.AllocElement(1965, 2, 48)   // a 48-byte Vgroup element
//	for _, e := range a.Allocations() {  // one DD per allocation
//		...
//	}
package alloc
