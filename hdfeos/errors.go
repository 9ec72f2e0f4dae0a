// Package hdfeos navigates HDF-EOS containers: swaths, their field groups,
// and the tables and array datasets inside them.
//
// Every handle returned by this package must be closed. Closing a handle
// closes every descendant handle still open beneath it, so closing the
// Container releases everything:
//
//	c, err := hdfeos.Open("OMI-Aura_L2.he4")
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	sw, err := c.OpenSwath("Earth UV-1 Swath")
//	...
//	geo, err := sw.Geolocation()
//	...
//	t, err := geo.OpenTable("Time")
package hdfeos

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrExhausted       = errors.New("no more entries")
	ErrNotFound        = errors.New("object not found")
	ErrClosed          = errors.New("handle is closed")
	ErrOpen            = errors.New("open failed")
	ErrFieldNotPresent = errors.New("swath field not present")
	ErrNotGroup        = errors.New("object is not a group")
	ErrNotTable        = errors.New("object is not a table")
	ErrNotArray        = errors.New("object is not an array dataset")
	ErrInvalidSlice    = errors.New("invalid index or slice")
)

// OpError records a failed operation and the object it was applied to.
type OpError struct {
	Op   string
	Name string
	Err  error
}

func (e *OpError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("hdfeos: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("hdfeos: %s %q: %v", e.Op, e.Name, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func opError(op, name string, err error) error {
	return &OpError{Op: op, Name: name, Err: err}
}

// openError marks err as an open failure while keeping it matchable.
func openError(err error) error {
	if errors.Is(err, ErrOpen) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrOpen, err)
}
