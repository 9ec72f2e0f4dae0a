package hdfeos

import (
	"fmt"

	"github.com/robert-malhotra/go-hdfeos/internal/dtype"
)

// Table is an open table (Vdata): a fixed number of records with named,
// typed fields.
type Table struct {
	n      *node
	h      TableHandle
	info   TableInfo
	parent any
}

func newTableLocked(parent *node, h TableHandle, keep any) *Table {
	t := &Table{h: h, info: h.Info(), parent: keep}
	t.n = parent.s.newNodeLocked(parent, "table", t.info.Name, h.Detach)
	track(t, t.n)
	return t
}

// Name returns the table name.
func (t *Table) Name() string { return t.info.Name }

// Kind returns KindTable.
func (t *Table) Kind() Kind { return KindTable }

// Class returns the table class.
func (t *Table) Class() string { return t.info.Class }

// Records returns the number of records.
func (t *Table) Records() int { return t.info.Records }

// Size returns the size of one record in bytes.
func (t *Table) Size() int { return t.info.Size }

// Fields returns the table's fields in declaration order.
func (t *Table) Fields() []Field {
	return append([]Field(nil), t.info.Fields...)
}

// Info returns the table's metadata.
func (t *Table) Info() TableInfo {
	info := t.info
	info.Fields = t.Fields()
	return info
}

// Read returns record i. A negative i counts from the end.
func (t *Table) Read(i int) (Record, error) {
	n := t.info.Records
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return Record{}, opError("read", t.info.Name, fmt.Errorf("%w: record %d out of range [0, %d)", ErrInvalidSlice, i, n))
	}
	recs, err := t.read(i, i+1)
	if err != nil {
		return Record{}, err
	}
	return recs[0], nil
}

// ReadRange returns the records start, start+step, ... before stop. Bounds
// follow slice conventions: negative values count from the end and
// out-of-range values are clamped. step must be positive.
//
// The whole range [start, stop) is read and then every step-th record is
// kept.
func (t *Table) ReadRange(start, stop, step int) ([]Record, error) {
	if step <= 0 {
		return nil, opError("read", t.info.Name, fmt.Errorf("%w: step %d", ErrInvalidSlice, step))
	}
	start, stop = clampRange(start, stop, t.info.Records)

	recs, err := t.read(start, stop)
	if err != nil || step == 1 {
		return recs, err
	}
	out := make([]Record, 0, (len(recs)+step-1)/step)
	for i := 0; i < len(recs); i += step {
		out = append(out, recs[i])
	}
	return out, nil
}

// ReadAll returns every record.
func (t *Table) ReadAll() ([]Record, error) {
	return t.read(0, t.info.Records)
}

func (t *Table) read(start, stop int) ([]Record, error) {
	t.n.s.mu.Lock()
	defer t.n.s.mu.Unlock()
	if err := t.n.checkLocked("read"); err != nil {
		return nil, err
	}

	raw, err := t.h.ReadRecords(start, stop-start)
	if err != nil {
		return nil, opError("read", t.info.Name, err)
	}
	out := make([]Record, len(raw))
	for i, r := range raw {
		out[i] = Record{fields: t.info.Fields, raw: r}
	}
	return out, nil
}

// Close releases the table. Closing an already closed table does nothing.
func (t *Table) Close() error {
	return t.n.close()
}

// clampRange resolves slice bounds against a length n.
func clampRange(start, stop, n int) (int, int) {
	clamp := func(i int) int {
		if i < 0 {
			i += n
		}
		return min(max(i, 0), n)
	}
	start, stop = clamp(start), clamp(stop)
	return start, max(stop, start)
}

// Record is one table record.
type Record struct {
	fields []Field
	raw    []byte
}

// Bytes returns the record's raw bytes.
func (r Record) Bytes() []byte {
	return r.raw
}

// Value decodes the named field. Char8 fields decode to a string, fields of
// order 1 to a scalar and anything else to a typed slice.
func (r Record) Value(field string) (any, error) {
	for _, f := range r.fields {
		if f.Name == field {
			return r.decode(f)
		}
	}
	return nil, opError("field", field, ErrNotFound)
}

// Values decodes every field in declaration order.
func (r Record) Values() ([]any, error) {
	out := make([]any, len(r.fields))
	for i, f := range r.fields {
		v, err := r.decode(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (r Record) decode(f Field) (any, error) {
	if f.Offset+f.Size > len(r.raw) {
		return nil, fmt.Errorf("field %s: record has %d bytes, need %d", f.Name, len(r.raw), f.Offset+f.Size)
	}
	v, err := dtype.DecodeValue(f.Type, r.raw[f.Offset:f.Offset+f.Size], f.Order)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", f.Name, err)
	}
	return v, nil
}
