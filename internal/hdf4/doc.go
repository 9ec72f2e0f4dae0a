// Package hdf4 is a read-only HDF4 library covering the three interfaces an
// HDF-EOS navigator needs: Vgroups (V), Vdata tables (VS) and scientific
// data sets (SD).
//
// A File is opened once. Each interface is started as a session
// ([File.VStart], [File.VSStart], [File.SDStart]) and hands out access
// handles ([Vgroup], [Vdata], [SDS]). Every session and handle is counted
// against the file; [File.Close] reports [ErrAccessOpen] when any of them
// are still outstanding, mirroring how the C library refuses to close a file
// with open access records.
//
// # Iterating Vgroups
//
//	v, _ := f.VStart()
//	defer v.End()
//	for ref, err := v.GetID(-1); err == nil; ref, err = v.GetID(ref) {
//		g, _ := v.Attach(ref)
//		fmt.Println(g.Name(), g.Class())
//		g.Detach()
//	}
package hdf4
