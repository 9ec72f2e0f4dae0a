package hdf4

import "errors"

// Errors
var (
	ErrNoMoreEntries = errors.New("no more entries")
	ErrAccessOpen    = errors.New("access handles still open")
	ErrClosed        = errors.New("file is closed")
	ErrNotFound      = errors.New("element not found")
	ErrReleased      = errors.New("handle already released")
)
