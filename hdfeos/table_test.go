package hdfeos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRadiance(t *testing.T) (*Container, *Table, *fakeTable) {
	t.Helper()
	lib := swathFixture()
	c, sw := openSwath(t, lib)
	data, err := sw.Data()
	require.NoError(t, err)
	tbl, err := data.OpenTable("Radiance")
	require.NoError(t, err)
	return c, tbl, tbl.h.(*fakeTable)
}

func recordValues(t *testing.T, recs []Record) []float64 {
	t.Helper()
	out := make([]float64, len(recs))
	for i, r := range recs {
		v, err := r.Value("Radiance")
		require.NoError(t, err)
		out[i] = v.(float64)
	}
	return out
}

func TestTableMetadata(t *testing.T) {
	c, tbl, _ := openRadiance(t)
	defer c.Close()

	assert.Equal(t, "Radiance", tbl.Name())
	assert.Equal(t, KindTable, tbl.Kind())
	assert.Equal(t, 10, tbl.Records())
	assert.Equal(t, 8, tbl.Size())
	require.Len(t, tbl.Fields(), 1)
	assert.Equal(t, Float64, tbl.Fields()[0].Type)
}

func TestStridedReadMatchesUnstrided(t *testing.T) {
	c, tbl, raw := openRadiance(t)
	defer c.Close()

	full, err := tbl.ReadRange(0, 10, 1)
	require.NoError(t, err)
	strided, err := tbl.ReadRange(0, 10, 2)
	require.NoError(t, err)

	require.Len(t, strided, 5)
	for i, rec := range strided {
		assert.Equal(t, full[2*i].Bytes(), rec.Bytes())
	}
	assert.Equal(t, []float64{0, 2, 4, 6, 8}, recordValues(t, strided))

	// The strided read fetched the whole unstrided range.
	assert.Equal(t, [2]int{0, 10}, raw.reads[len(raw.reads)-1])
}

func TestReadRangeBounds(t *testing.T) {
	c, tbl, _ := openRadiance(t)
	defer c.Close()

	tests := []struct {
		name              string
		start, stop, step int
		want              []float64
	}{
		{"middle", 2, 5, 1, []float64{2, 3, 4}},
		{"negative start", -3, 10, 1, []float64{7, 8, 9}},
		{"negative stop", 0, -8, 1, []float64{0, 1}},
		{"stop past end", 8, 100, 1, []float64{8, 9}},
		{"start past end", 20, 30, 1, []float64{}},
		{"empty", 5, 2, 1, []float64{}},
		{"stride 3", 1, 10, 3, []float64{1, 4, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := tbl.ReadRange(tt.start, tt.stop, tt.step)
			require.NoError(t, err)
			assert.Equal(t, tt.want, recordValues(t, recs))
		})
	}

	_, err := tbl.ReadRange(0, 10, 0)
	assert.ErrorIs(t, err, ErrInvalidSlice)
	_, err = tbl.ReadRange(0, 10, -1)
	assert.ErrorIs(t, err, ErrInvalidSlice)
}

func TestReadIndex(t *testing.T) {
	c, tbl, _ := openRadiance(t)
	defer c.Close()

	rec, err := tbl.Read(3)
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, recordValues(t, []Record{rec}))

	rec, err = tbl.Read(-1)
	require.NoError(t, err)
	assert.Equal(t, []float64{9}, recordValues(t, []Record{rec}))

	_, err = tbl.Read(10)
	assert.ErrorIs(t, err, ErrInvalidSlice)
	_, err = tbl.Read(-11)
	assert.ErrorIs(t, err, ErrInvalidSlice)

	all, err := tbl.ReadAll()
	require.NoError(t, err)
	assert.Len(t, all, 10)
}

func TestRecordValues(t *testing.T) {
	rec := Record{
		fields: []Field{
			{Name: "Time", Type: Float64, Order: 1, Size: 8, Offset: 0},
			{Name: "Code", Type: Char8, Order: 4, Size: 4, Offset: 8},
			{Name: "Flags", Type: Int16, Order: 2, Size: 4, Offset: 12},
		},
		raw: []byte{
			0x3f, 0xf8, 0, 0, 0, 0, 0, 0, // 1.5
			'O', 'M', 0, 0,
			0, 1, 0xff, 0xff,
		},
	}

	vals, err := rec.Values()
	require.NoError(t, err)
	assert.Equal(t, []any{1.5, "OM", []int16{1, -1}}, vals)

	_, err = rec.Value("Missing")
	assert.ErrorIs(t, err, ErrNotFound)

	short := Record{fields: rec.fields, raw: rec.raw[:10]}
	_, err = short.Value("Flags")
	assert.Error(t, err)
}

func TestClampRange(t *testing.T) {
	tests := []struct {
		start, stop, n int
		lo, hi         int
	}{
		{0, 10, 10, 0, 10},
		{-2, 10, 10, 8, 10},
		{-20, 3, 10, 0, 3},
		{4, 2, 10, 4, 4},
		{0, 5, 0, 0, 0},
	}
	for _, tt := range tests {
		lo, hi := clampRange(tt.start, tt.stop, tt.n)
		assert.Equal(t, tt.lo, lo, "start %d stop %d n %d", tt.start, tt.stop, tt.n)
		assert.Equal(t, tt.hi, hi, "start %d stop %d n %d", tt.start, tt.stop, tt.n)
	}
}
