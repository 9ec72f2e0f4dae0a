package hdfeos

import (
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// Names of the groups a swath is made of.
const (
	DataFields        = "Data Fields"
	GeolocationFields = "Geolocation Fields"
	SwathAttributes   = "Swath Attributes"
)

// Swath is an open HDF-EOS swath: a fixed view over its data, geolocation
// and attribute groups. Closing it closes the three groups.
type Swath struct {
	n      *node
	name   string
	groups map[string]*Group
	parent *Container
}

func (c *Container) openSwathLocked(name string, ref int32) (*Swath, error) {
	lib := c.n.s.lib
	h, err := lib.AttachGroup(ref)
	if err != nil {
		return nil, opError("open swath", name, openError(err))
	}

	sw := &Swath{
		n:      c.n.s.newNodeLocked(c.n, "swath", name, h.Detach),
		name:   name,
		groups: make(map[string]*Group, 3),
		parent: c,
	}
	if err := sw.classifyLocked(h); err != nil {
		if cerr := sw.n.closeLocked(); cerr != nil {
			err = multierror.Append(err, cerr)
		}
		return nil, opError("open swath", name, err)
	}
	track(sw, sw.n)
	return sw, nil
}

// classifyLocked opens the swath's subgroups and keeps the three it knows.
// Any other subgroup is closed again straight away.
func (sw *Swath) classifyLocked(h GroupHandle) error {
	members, err := h.Members()
	if err != nil {
		return err
	}

	lib := sw.n.s.lib
	for _, m := range members {
		if kind, ok := Classify(m.Tag); !ok || kind != KindGroup {
			continue
		}
		gh, err := lib.AttachGroup(m.Ref)
		if err != nil {
			return openError(err)
		}

		switch name := gh.Name(); name {
		case DataFields, GeolocationFields, SwathAttributes:
			old := sw.groups[name]
			sw.groups[name] = newGroupLocked(sw.n, gh, sw)
			if old != nil {
				if err := old.n.closeLocked(); err != nil {
					return err
				}
			}
		default:
			sw.n.s.log.WithFields(logrus.Fields{"swath": sw.name, "group": name}).Debug("skipping unknown swath subgroup")
			if err := gh.Detach(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Name returns the swath name.
func (sw *Swath) Name() string {
	return sw.name
}

// Field returns one of the swath's groups by name: DataFields,
// GeolocationFields or SwathAttributes. A group the file does not have
// fails with ErrFieldNotPresent.
func (sw *Swath) Field(name string) (*Group, error) {
	sw.n.s.mu.Lock()
	defer sw.n.s.mu.Unlock()
	if err := sw.n.checkLocked("swath field"); err != nil {
		return nil, err
	}
	g := sw.groups[name]
	if g == nil {
		return nil, opError("swath field", name, ErrFieldNotPresent)
	}
	return g, nil
}

// Data returns the "Data Fields" group.
func (sw *Swath) Data() (*Group, error) {
	return sw.Field(DataFields)
}

// Geolocation returns the "Geolocation Fields" group.
func (sw *Swath) Geolocation() (*Group, error) {
	return sw.Field(GeolocationFields)
}

// Attributes returns the "Swath Attributes" group.
func (sw *Swath) Attributes() (*Group, error) {
	return sw.Field(SwathAttributes)
}

// Has reports whether the swath has the named group. It reports false once
// the swath is closed.
func (sw *Swath) Has(name string) bool {
	sw.n.s.mu.Lock()
	defer sw.n.s.mu.Unlock()
	return !sw.n.closed && sw.groups[name] != nil
}

// Close closes the swath and its groups, along with anything opened from
// them. Closing an already closed swath does nothing.
func (sw *Swath) Close() error {
	return sw.n.close()
}
