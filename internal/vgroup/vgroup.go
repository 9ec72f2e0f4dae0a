// Package vgroup decodes HDF4 Vgroup records (DFTAG_VG).
//
// A Vgroup is a named, classed list of (tag, ref) pairs. It is the only
// grouping structure HDF4 has: HDF-EOS swaths, their field groups, and the
// SD interface's per-variable bookkeeping are all Vgroups.
package vgroup

import (
	"fmt"

	"github.com/robert-malhotra/go-hdfeos/internal/binary"
)

// Vgroup record versions.
const (
	Version3 uint16 = 3
	Version4 uint16 = 4 // adds flags and attribute list
)

const flagAttrs = 0x1

// TagRef is one member of a Vgroup.
type TagRef struct {
	Tag uint16
	Ref uint16
}

// Attr is a Vgroup attribute reference (a Vdata holding the value).
type Attr struct {
	Tag uint16
	Ref uint16
}

// Group is a decoded Vgroup record.
type Group struct {
	Ref     uint16
	Members []TagRef
	Name    string
	Class   string
	ExtTag  uint16
	ExtRef  uint16
	Flags   uint32
	Attrs   []Attr
	Version uint16
}

// Parse decodes a Vgroup record.
func Parse(ref uint16, data []byte) (*Group, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("vgroup %d: record too short (%d bytes)", ref, len(data))
	}
	r := binary.FromBytes(data)
	g := &Group{Ref: ref}

	n, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	tags, err := r.ReadUint16s(int(n))
	if err != nil {
		return nil, fmt.Errorf("vgroup %d: reading tags: %w", ref, err)
	}
	refs, err := r.ReadUint16s(int(n))
	if err != nil {
		return nil, fmt.Errorf("vgroup %d: reading refs: %w", ref, err)
	}
	g.Members = make([]TagRef, n)
	for i := range g.Members {
		g.Members[i] = TagRef{Tag: tags[i], Ref: refs[i]}
	}

	if g.Name, err = r.ReadString(); err != nil {
		return nil, fmt.Errorf("vgroup %d: reading name: %w", ref, err)
	}
	if g.Class, err = r.ReadString(); err != nil {
		return nil, fmt.Errorf("vgroup %d: reading class: %w", ref, err)
	}
	if g.ExtTag, err = r.ReadUint16(); err != nil {
		return nil, err
	}
	if g.ExtRef, err = r.ReadUint16(); err != nil {
		return nil, err
	}

	// The version sits in the trailing (version, more) pair; version 4
	// records carry flags and attributes before it.
	if len(data) >= int(r.Pos())+4 {
		tail := binary.FromBytes(data[len(data)-4:])
		g.Version, _ = tail.ReadUint16()
	}
	if g.Version == Version4 {
		if g.Flags, err = r.ReadUint32(); err != nil {
			return nil, fmt.Errorf("vgroup %d: reading flags: %w", ref, err)
		}
		if g.Flags&flagAttrs != 0 {
			na, err := r.ReadInt32()
			if err != nil {
				return nil, err
			}
			if na < 0 || int(na)*4 > len(data) {
				return nil, fmt.Errorf("vgroup %d: invalid attribute count %d", ref, na)
			}
			g.Attrs = make([]Attr, na)
			for i := range g.Attrs {
				g.Attrs[i].Tag, _ = r.ReadUint16()
				if g.Attrs[i].Ref, err = r.ReadUint16(); err != nil {
					return nil, err
				}
			}
		}
	}

	return g, nil
}

// Encode serializes a Vgroup record. Version 4 is written when the group
// has attributes, version 3 otherwise.
func Encode(g *Group) []byte {
	var buf binary.Buffer
	w := binary.NewWriter(&buf, binary.DefaultConfig())

	w.WriteUint16(uint16(len(g.Members)))
	for _, m := range g.Members {
		w.WriteUint16(m.Tag)
	}
	for _, m := range g.Members {
		w.WriteUint16(m.Ref)
	}
	w.WriteString(g.Name)
	w.WriteString(g.Class)
	w.WriteUint16(g.ExtTag)
	w.WriteUint16(g.ExtRef)

	version := Version3
	if len(g.Attrs) > 0 {
		version = Version4
		w.WriteUint32(g.Flags | flagAttrs)
		w.WriteInt32(int32(len(g.Attrs)))
		for _, a := range g.Attrs {
			w.WriteUint16(a.Tag)
			w.WriteUint16(a.Ref)
		}
	}
	w.WriteUint16(version)
	w.WriteUint16(0) // more
	return buf.Bytes()
}
