package hdfeos

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/robert-malhotra/go-hdfeos/internal/dtype"
	"github.com/robert-malhotra/go-hdfeos/internal/sds"
)

// fakeLib is an in-memory Library with handle accounting and fault
// injection. It is safe for the cleanup goroutine to use.
type fakeLib struct {
	mu sync.Mutex

	groups map[int32]*fakeGroupNode
	tables map[int32]*fakeTableNode
	arrays map[int32]*fakeArrayNode

	open     int
	attaches map[ObjectRef]int
	closed   bool

	nextErr    error           // returned by NextGroup instead of exhaustion
	attachErr  map[int32]error // returned by AttachGroup for a ref
	detachErr  error           // returned by every group Detach
	closeCalls int
}

type fakeGroupNode struct {
	name, class string
	members     []TagRef
}

type fakeTableNode struct {
	info    TableInfo
	records [][]byte
}

type fakeArrayNode struct {
	info ArrayInfo
	data []byte
}

func newFakeLib() *fakeLib {
	return &fakeLib{
		groups:    make(map[int32]*fakeGroupNode),
		tables:    make(map[int32]*fakeTableNode),
		arrays:    make(map[int32]*fakeArrayNode),
		attaches:  make(map[ObjectRef]int),
		attachErr: make(map[int32]error),
	}
}

func (l *fakeLib) addGroup(ref int32, name, class string, members ...TagRef) {
	l.groups[ref] = &fakeGroupNode{name: name, class: class, members: members}
}

// addTable adds a single-field float64 table whose record i holds float64(i).
func (l *fakeLib) addTable(ref int32, name string, n int) {
	recs := make([][]byte, n)
	for i := range recs {
		recs[i], _ = dtype.Encode(dtype.Float64, float64(i))
	}
	l.tables[ref] = &fakeTableNode{
		info: TableInfo{
			Name:    name,
			Records: n,
			Size:    8,
			Fields:  []Field{{Name: name, Type: dtype.Float64, Order: 1, Size: 8}},
		},
		records: recs,
	}
}

func (l *fakeLib) addArray(ref int32, name string, dims ...int) {
	n := 1
	for _, d := range dims {
		n *= d
	}
	vals := make([]int32, n)
	for i := range vals {
		vals[i] = int32(i)
	}
	data, _ := dtype.Encode(dtype.Int32, vals)
	l.arrays[ref] = &fakeArrayNode{
		info: ArrayInfo{Name: name, Rank: len(dims), Dims: dims, Type: dtype.Int32},
		data: data,
	}
}

func (l *fakeLib) outstanding() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.open
}

func (l *fakeLib) attachCount(kind Kind, ref int32) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.attaches[ObjectRef{kind, ref}]
}

func (l *fakeLib) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

func (l *fakeLib) acquire(kind Kind, ref int32) error {
	if l.closed {
		return errors.New("fake: library closed")
	}
	l.open++
	l.attaches[ObjectRef{kind, ref}]++
	return nil
}

func (l *fakeLib) releaser(err error) func() error {
	released := false
	return func() error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if released {
			return errors.New("fake: double release")
		}
		released = true
		l.open--
		return err
	}
}

func (l *fakeLib) NextGroup(ref int32) (int32, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	refs := make([]int, 0, len(l.groups))
	for r := range l.groups {
		refs = append(refs, int(r))
	}
	sort.Ints(refs)
	for _, r := range refs {
		if int32(r) > ref {
			return int32(r), nil
		}
	}
	if l.nextErr != nil {
		return 0, l.nextErr
	}
	return 0, ErrExhausted
}

func (l *fakeLib) AttachGroup(ref int32) (GroupHandle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.attachErr[ref]; err != nil {
		return nil, err
	}
	g, ok := l.groups[ref]
	if !ok {
		return nil, fmt.Errorf("fake: no group %d", ref)
	}
	if err := l.acquire(KindGroup, ref); err != nil {
		return nil, err
	}
	return &fakeGroup{node: g, release: l.releaser(l.detachErr)}, nil
}

func (l *fakeLib) AttachTable(ref int32) (TableHandle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, ok := l.tables[ref]
	if !ok {
		return nil, fmt.Errorf("fake: no table %d", ref)
	}
	if err := l.acquire(KindTable, ref); err != nil {
		return nil, err
	}
	return &fakeTable{node: t, lib: l, release: l.releaser(nil)}, nil
}

func (l *fakeLib) SelectArray(ref int32) (ArrayHandle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.arrays[ref]
	if !ok {
		return nil, fmt.Errorf("fake: no array %d", ref)
	}
	if err := l.acquire(KindArray, ref); err != nil {
		return nil, err
	}
	return &fakeArray{node: a, release: l.releaser(nil)}, nil
}

func (l *fakeLib) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closeCalls++
	if l.closed {
		return errors.New("fake: closed twice")
	}
	l.closed = true
	if l.open != 0 {
		return fmt.Errorf("fake: %d handles outstanding", l.open)
	}
	return nil
}

type fakeGroup struct {
	node    *fakeGroupNode
	release func() error
}

func (g *fakeGroup) Name() string  { return g.node.name }
func (g *fakeGroup) Class() string { return g.node.class }
func (g *fakeGroup) Detach() error { return g.release() }

func (g *fakeGroup) Members() ([]TagRef, error) {
	return append([]TagRef(nil), g.node.members...), nil
}

type fakeTable struct {
	node    *fakeTableNode
	lib     *fakeLib
	release func() error
	reads   [][2]int // start, count of every ReadRecords call
}

func (t *fakeTable) Info() TableInfo { return t.node.info }
func (t *fakeTable) Detach() error   { return t.release() }

func (t *fakeTable) ReadRecords(start, count int) ([][]byte, error) {
	t.reads = append(t.reads, [2]int{start, count})
	if start < 0 || count < 0 || start+count > len(t.node.records) {
		return nil, fmt.Errorf("fake: records [%d, %d) out of range", start, start+count)
	}
	return t.node.records[start : start+count], nil
}

type fakeArray struct {
	node    *fakeArrayNode
	release func() error
}

func (a *fakeArray) Info() ArrayInfo  { return a.node.info }
func (a *fakeArray) EndAccess() error { return a.release() }

func (a *fakeArray) ReadSlab(start, stride, count []int) ([]byte, error) {
	sel := sds.Selection{Start: start, Stride: stride, Count: count}
	if err := sel.Validate(a.node.info.Dims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSlice, err)
	}
	return sds.Extract(a.node.data, a.node.info.Dims, 4, &sel)
}

// swathFixture builds a container-shaped fake:
//
//	ref 1  "Earth UV-1 Swath" (SWATH)
//	         -> 2 "Data Fields" -> table 10 "Radiance" (10 records), array 20 "Pixels"
//	         -> 3 "Geolocation Fields" -> table 11 "Time" (5 records), table 12 "Latitude"
//	         -> 4 "Extra Fields"
//	         -> 5 "Swath Attributes"
//	ref 6  "Other Swath" (SWATH) with no subgroups
//	ref 7  "Not a swath" (Var0.0)
func swathFixture() *fakeLib {
	l := newFakeLib()
	l.addGroup(1, "Earth UV-1 Swath", "SWATH",
		TagRef{TagGroup, 2}, TagRef{TagGroup, 3}, TagRef{TagGroup, 4}, TagRef{TagGroup, 5}, TagRef{TagTable, 13})
	l.addGroup(2, "Data Fields", "SWATH Vgroup", TagRef{TagTable, 10}, TagRef{TagArray, 20})
	l.addGroup(3, "Geolocation Fields", "SWATH Vgroup", TagRef{TagTable, 11}, TagRef{TagTable, 12})
	l.addGroup(4, "Extra Fields", "SWATH Vgroup", TagRef{TagTable, 10})
	l.addGroup(5, "Swath Attributes", "SWATH Vgroup")
	l.addGroup(6, "Other Swath", "SWATH")
	l.addGroup(7, "Not a swath", "Var0.0")
	l.addTable(10, "Radiance", 10)
	l.addTable(11, "Time", 5)
	l.addTable(12, "Latitude", 5)
	l.addTable(13, "Stray", 1)
	l.addArray(20, "Pixels", 6)
	return l
}
