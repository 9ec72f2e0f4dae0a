package hdfeos

import "fmt"

// Object is a handle returned by Group.Open: a *Group, *Table or
// *ArrayDataset.
type Object interface {
	Name() string
	Kind() Kind
	Close() error
}

// Group is an open group node.
type Group struct {
	n      *node
	h      GroupHandle
	name   string
	class  string
	parent any // keeps the parent handle reachable while this one is

	// index maps child names to refs. It is nil until first used and never
	// rebuilt afterwards; names keeps first-seen order for Members.
	index map[string]ObjectRef
	names []string
}

func newGroupLocked(parent *node, h GroupHandle, keep any) *Group {
	g := &Group{
		h:      h,
		name:   h.Name(),
		class:  h.Class(),
		parent: keep,
	}
	g.n = parent.s.newNodeLocked(parent, "group", g.name, h.Detach)
	track(g, g.n)
	return g
}

// Name returns the group name.
func (g *Group) Name() string { return g.name }

// Class returns the group class.
func (g *Group) Class() string { return g.class }

// Kind returns KindGroup.
func (g *Group) Kind() Kind { return KindGroup }

// Members returns the names of the group's children in the order the file
// lists them. A name that occurs more than once is listed once.
func (g *Group) Members() ([]string, error) {
	g.n.s.mu.Lock()
	defer g.n.s.mu.Unlock()
	if err := g.n.checkLocked("list members"); err != nil {
		return nil, err
	}
	if err := g.ensureIndexLocked(); err != nil {
		return nil, err
	}
	return append([]string(nil), g.names...), nil
}

// Lookup returns the kind and ref of the named child without opening it.
func (g *Group) Lookup(name string) (ObjectRef, error) {
	g.n.s.mu.Lock()
	defer g.n.s.mu.Unlock()
	return g.lookupLocked(name)
}

func (g *Group) lookupLocked(name string) (ObjectRef, error) {
	if err := g.n.checkLocked("lookup"); err != nil {
		return ObjectRef{}, err
	}
	if err := g.ensureIndexLocked(); err != nil {
		return ObjectRef{}, err
	}
	ref, ok := g.index[name]
	if !ok {
		return ObjectRef{}, opError("lookup", name, ErrNotFound)
	}
	return ref, nil
}

// ensureIndexLocked scans the group's entries once, attaching each
// recognized child to read its name. When two children share a name the
// later one wins. A failed scan leaves the index unbuilt.
func (g *Group) ensureIndexLocked() error {
	if g.index != nil {
		return nil
	}

	members, err := g.h.Members()
	if err != nil {
		return opError("index", g.name, err)
	}

	index := make(map[string]ObjectRef, len(members))
	var names []string
	for _, m := range members {
		kind, ok := Classify(m.Tag)
		if !ok {
			continue
		}
		name, err := g.peekNameLocked(kind, m.Ref)
		if err != nil {
			return opError("index", g.name, err)
		}
		if _, dup := index[name]; !dup {
			names = append(names, name)
		}
		index[name] = ObjectRef{Kind: kind, Ref: m.Ref}
	}

	g.index, g.names = index, names
	return nil
}

// peekNameLocked transiently opens a child to read its name.
func (g *Group) peekNameLocked(kind Kind, ref int32) (string, error) {
	lib := g.n.s.lib
	switch kind {
	case KindGroup:
		h, err := lib.AttachGroup(ref)
		if err != nil {
			return "", openError(err)
		}
		name := h.Name()
		return name, h.Detach()
	case KindTable:
		h, err := lib.AttachTable(ref)
		if err != nil {
			return "", openError(err)
		}
		name := h.Info().Name
		return name, h.Detach()
	case KindArray:
		h, err := lib.SelectArray(ref)
		if err != nil {
			return "", openError(err)
		}
		name := h.Info().Name
		return name, h.EndAccess()
	}
	return "", fmt.Errorf("unknown kind %d", kind)
}

// Open opens the named child. Every call returns a new handle, which the
// caller must close; the group closes it too when the group is closed.
func (g *Group) Open(name string) (Object, error) {
	g.n.s.mu.Lock()
	defer g.n.s.mu.Unlock()

	ref, err := g.lookupLocked(name)
	if err != nil {
		return nil, err
	}
	return g.openLocked(name, ref)
}

func (g *Group) openLocked(name string, ref ObjectRef) (Object, error) {
	lib := g.n.s.lib
	switch ref.Kind {
	case KindGroup:
		h, err := lib.AttachGroup(ref.Ref)
		if err != nil {
			return nil, opError("open group", name, openError(err))
		}
		return newGroupLocked(g.n, h, g), nil
	case KindTable:
		h, err := lib.AttachTable(ref.Ref)
		if err != nil {
			return nil, opError("open table", name, openError(err))
		}
		return newTableLocked(g.n, h, g), nil
	case KindArray:
		h, err := lib.SelectArray(ref.Ref)
		if err != nil {
			return nil, opError("open array", name, openError(err))
		}
		return newArrayLocked(g.n, h, g), nil
	}
	return nil, opError("open", name, fmt.Errorf("unknown kind %d", ref.Kind))
}

// openKind opens the named child after checking it is of the given kind.
func (g *Group) openKind(name string, kind Kind, mismatch error) (Object, error) {
	g.n.s.mu.Lock()
	defer g.n.s.mu.Unlock()

	ref, err := g.lookupLocked(name)
	if err != nil {
		return nil, err
	}
	if ref.Kind != kind {
		return nil, opError("open", name, mismatch)
	}
	return g.openLocked(name, ref)
}

// OpenGroup opens the named child group.
func (g *Group) OpenGroup(name string) (*Group, error) {
	obj, err := g.openKind(name, KindGroup, ErrNotGroup)
	if err != nil {
		return nil, err
	}
	return obj.(*Group), nil
}

// OpenTable opens the named child table.
func (g *Group) OpenTable(name string) (*Table, error) {
	obj, err := g.openKind(name, KindTable, ErrNotTable)
	if err != nil {
		return nil, err
	}
	return obj.(*Table), nil
}

// OpenArray opens the named child array dataset.
func (g *Group) OpenArray(name string) (*ArrayDataset, error) {
	obj, err := g.openKind(name, KindArray, ErrNotArray)
	if err != nil {
		return nil, err
	}
	return obj.(*ArrayDataset), nil
}

// Close closes the group and every handle opened from it. Closing an
// already closed group does nothing.
func (g *Group) Close() error {
	return g.n.close()
}
