package hdfeos

import (
	"errors"
	"sort"
)

// Container is an open HDF-EOS file.
type Container struct {
	n      *node
	name   string
	swaths map[string]int32 // built once in Open, never modified
}

// Open opens the HDF-EOS file at path and catalogs its swaths.
func Open(path string, opts ...Option) (*Container, error) {
	lib, err := openHDF4(path)
	if err != nil {
		return nil, opError("open", path, openError(err))
	}
	return newContainer(lib, path, newOptions(opts))
}

// OpenLibrary builds a Container on an already opened Library. The
// Container takes ownership of lib and closes it, including when
// OpenLibrary fails.
func OpenLibrary(lib Library, opts ...Option) (*Container, error) {
	return newContainer(lib, "", newOptions(opts))
}

func newContainer(lib Library, name string, o *options) (*Container, error) {
	log := o.logger
	if name != "" {
		log = log.WithField("container", name)
	}

	swaths, err := buildCatalog(lib, o.swathClass)
	if err != nil {
		if cerr := lib.Close(); cerr != nil {
			log.WithError(cerr).Debug("closing library after failed open")
		}
		return nil, opError("open", name, openError(err))
	}
	log.WithField("swaths", len(swaths)).Debug("built swath catalog")

	s := &session{lib: lib, log: log}
	c := &Container{
		n:      s.newNodeLocked(nil, "container", name, lib.Close),
		name:   name,
		swaths: swaths,
	}
	track(c, c.n)
	return c, nil
}

// buildCatalog attaches every group in turn and records those of the swath
// class. Exhaustion ends the scan; any other error aborts it.
func buildCatalog(lib Library, class string) (map[string]int32, error) {
	swaths := make(map[string]int32)
	ref := int32(-1)
	for {
		next, err := lib.NextGroup(ref)
		if errors.Is(err, ErrExhausted) {
			return swaths, nil
		}
		if err != nil {
			return nil, err
		}

		g, err := lib.AttachGroup(next)
		if err != nil {
			return nil, err
		}
		name, gclass := g.Name(), g.Class()
		if err := g.Detach(); err != nil {
			return nil, err
		}
		if gclass == class {
			swaths[name] = next
		}
		ref = next
	}
}

// Name returns the path the container was opened from.
func (c *Container) Name() string {
	return c.name
}

// Swaths returns the swath names in sorted order.
func (c *Container) Swaths() ([]string, error) {
	c.n.s.mu.Lock()
	defer c.n.s.mu.Unlock()
	if err := c.n.checkLocked("list swaths"); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(c.swaths))
	for name := range c.swaths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// OpenSwath opens the named swath. The returned Swath must be closed; it is
// also closed when the Container is.
func (c *Container) OpenSwath(name string) (*Swath, error) {
	c.n.s.mu.Lock()
	defer c.n.s.mu.Unlock()
	if err := c.n.checkLocked("open swath"); err != nil {
		return nil, err
	}

	ref, ok := c.swaths[name]
	if !ok {
		return nil, opError("open swath", name, ErrNotFound)
	}
	return c.openSwathLocked(name, ref)
}

// Close closes the container and every handle still open beneath it.
// Closing an already closed container does nothing.
func (c *Container) Close() error {
	return c.n.close()
}
