package hdf4

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/robert-malhotra/go-hdfeos/internal/binary"
	"github.com/robert-malhotra/go-hdfeos/internal/dd"
	"github.com/robert-malhotra/go-hdfeos/internal/special"
	"github.com/robert-malhotra/go-hdfeos/internal/vgroup"
)

// File is an open HDF4 file.
type File struct {
	path   string
	closer io.Closer
	reader *binary.Reader
	table  *dd.Table

	mu     sync.Mutex
	open   int // sessions and access handles not yet released
	closed bool

	varsOnce sync.Once
	vars     map[uint16]*vgroup.Group // NDG ref -> its Var0.0 Vgroup
	varsErr  error
}

// Open opens an HDF4 file for reading.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	hf, err := NewFile(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	hf.path = path
	hf.closer = f
	return hf, nil
}

// NewFile reads the descriptor table of an HDF4 file held by r.
func NewFile(r io.ReaderAt) (*File, error) {
	table, err := dd.Read(r)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor table: %w", err)
	}
	return &File{
		reader: binary.NewReader(r, binary.DefaultConfig()),
		table:  table,
	}, nil
}

// Path returns the file path, empty for files made with NewFile.
func (f *File) Path() string {
	return f.path
}

// Descriptors returns every data descriptor in file order.
func (f *File) Descriptors() []dd.Descriptor {
	return f.table.All()
}

// Outstanding returns the number of sessions and access handles that have
// not been released.
func (f *File) Outstanding() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

// Close releases the file. It returns ErrAccessOpen if sessions or handles
// are still outstanding; the underlying file is closed regardless.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	var result *multierror.Error
	if f.open > 0 {
		result = multierror.Append(result, fmt.Errorf("%w: %d outstanding", ErrAccessOpen, f.open))
	}
	if f.closer != nil {
		if err := f.closer.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// acquire counts a new session or handle.
func (f *File) acquire() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	f.open++
	return nil
}

func (f *File) release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open--
}

func (f *File) checkOpen() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	return nil
}

// element reads the full contents of (tag, ref), resolving special
// elements. ok is false when the file has no such element.
func (f *File) element(tag, ref uint16) (data []byte, ok bool, err error) {
	d, ok := f.table.Find(tag, ref)
	if !ok {
		return nil, false, nil
	}
	data, err = special.ReadElement(f.reader, f.table, d)
	if err != nil {
		return nil, true, fmt.Errorf("reading tag %d ref %d: %w", tag, ref, err)
	}
	return data, true, nil
}

// session is the state shared by the V, VS and SD interfaces.
type session struct {
	f     *File
	ended bool
}

func (f *File) start() (session, error) {
	if err := f.acquire(); err != nil {
		return session{}, err
	}
	return session{f: f}, nil
}

func (s *session) end() error {
	if s.ended {
		return ErrReleased
	}
	s.ended = true
	s.f.release()
	return nil
}

func (s *session) check() error {
	if s.ended {
		return ErrReleased
	}
	return s.f.checkOpen()
}

// handle is the release bookkeeping shared by access handles.
type handle struct {
	f        *File
	released bool
}

func (h *handle) release() error {
	if h.released {
		return ErrReleased
	}
	h.released = true
	h.f.release()
	return nil
}

func (h *handle) check() error {
	if h.released {
		return ErrReleased
	}
	return h.f.checkOpen()
}
