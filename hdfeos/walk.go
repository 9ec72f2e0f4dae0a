package hdfeos

import (
	"errors"
	"path"

	"github.com/hashicorp/go-multierror"
)

// WalkFunc is called for each object during traversal.
// path is the slash-separated path from the starting group.
// obj is a *Group, *Table or *ArrayDataset; it is closed after fn returns
// (and, for groups, after its children are walked), so fn must not keep it.
// err is any error encountered opening the object, with obj nil.
//
// Return ErrSkipGroup from a group to skip its children, or from any other
// object to skip the remaining members of its group. Return ErrStopWalk to
// end the walk without error, or any other error to end it with that error.
type WalkFunc func(path string, obj Object, err error) error

// ErrStopWalk can be returned from a WalkFunc to stop walking without an error.
var ErrStopWalk = &walkStopError{}

type walkStopError struct{}

func (e *walkStopError) Error() string { return "walk stopped" }

// IsStopWalk returns true if the error is ErrStopWalk.
func IsStopWalk(err error) bool {
	var stop *walkStopError
	return errors.As(err, &stop)
}

// ErrSkipGroup can be returned from a WalkFunc on a group to skip its children.
var ErrSkipGroup = errors.New("skip this group")

// Walk visits g and everything below it in member order, opening each
// child for the duration of its callback.
//
// Example:
//
//	hdfeos.Walk(geo, func(path string, obj hdfeos.Object, err error) error {
//	    if err != nil {
//	        return err
//	    }
//	    switch o := obj.(type) {
//	    case *hdfeos.Table:
//	        fmt.Println("table:", path, o.Records(), "records")
//	    case *hdfeos.ArrayDataset:
//	        fmt.Println("array:", path, o.Dims())
//	    }
//	    return nil
//	})
func Walk(g *Group, fn WalkFunc) error {
	err := walkGroup(g.Name(), g, fn)
	if IsStopWalk(err) {
		return nil
	}
	return err
}

func walkGroup(p string, g *Group, fn WalkFunc) error {
	if err := fn(p, g, nil); err != nil {
		if errors.Is(err, ErrSkipGroup) {
			return nil
		}
		return err
	}

	members, err := g.Members()
	if err != nil {
		return err
	}

	for _, name := range members {
		skipRest, err := walkChild(path.Join(p, name), g, name, fn)
		if err != nil {
			return err
		}
		if skipRest {
			return nil
		}
	}
	return nil
}

// walkChild visits one member of a group. skipRest is set when fn asked to
// skip the member's remaining siblings.
func walkChild(p string, parent *Group, name string, fn WalkFunc) (skipRest bool, err error) {
	obj, err := parent.Open(name)
	if err != nil {
		if err = fn(p, nil, err); errors.Is(err, ErrSkipGroup) {
			return true, nil
		}
		return false, err
	}

	if child, ok := obj.(*Group); ok {
		err = walkGroup(p, child, fn)
	} else if err = fn(p, obj, nil); errors.Is(err, ErrSkipGroup) {
		skipRest, err = true, nil
	}

	if cerr := obj.Close(); cerr != nil {
		return false, multierror.Append(err, cerr)
	}
	return skipRest, err
}
