package hdfeos

import (
	"errors"
	"io"
	"runtime"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func openFake(t *testing.T, lib *fakeLib, opts ...Option) *Container {
	t.Helper()
	c, err := OpenLibrary(lib, append([]Option{WithLogger(quietLogger())}, opts...)...)
	require.NoError(t, err)
	return c
}

func TestCatalogIsImmutable(t *testing.T) {
	lib := swathFixture()
	c := openFake(t, lib)
	defer c.Close()

	before, err := c.Swaths()
	require.NoError(t, err)
	assert.Equal(t, []string{"Earth UV-1 Swath", "Other Swath"}, before)

	sw, err := c.OpenSwath("Earth UV-1 Swath")
	require.NoError(t, err)
	_, err = c.OpenSwath("Other Swath")
	require.NoError(t, err)
	require.NoError(t, sw.Close())

	after, err := c.Swaths()
	require.NoError(t, err)
	assert.Equal(t, before, after)

	// Returned slices are copies.
	after[0] = "changed"
	again, _ := c.Swaths()
	assert.Equal(t, before, again)
}

func TestCatalogLeavesNoHandlesOpen(t *testing.T) {
	lib := swathFixture()
	c := openFake(t, lib)

	assert.Zero(t, lib.outstanding(), "catalog scan must detach every group")
	assert.Equal(t, 1, lib.attachCount(KindGroup, 7), "non-swath groups are attached once to read their class")

	require.NoError(t, c.Close())
	assert.True(t, lib.isClosed())
}

func TestCatalogSwathClassOption(t *testing.T) {
	c := openFake(t, swathFixture(), WithSwathClass("Var0.0"))
	defer c.Close()

	names, err := c.Swaths()
	require.NoError(t, err)
	assert.Equal(t, []string{"Not a swath"}, names)
}

func TestOpenFailsOnScanError(t *testing.T) {
	ioErr := errors.New("disk on fire")

	tests := []struct {
		name  string
		setup func(*fakeLib)
	}{
		{"next group", func(l *fakeLib) { l.nextErr = ioErr }},
		{"attach", func(l *fakeLib) { l.attachErr[6] = ioErr }},
		{"detach", func(l *fakeLib) { l.detachErr = ioErr }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := swathFixture()
			tt.setup(lib)

			c, err := OpenLibrary(lib, WithLogger(quietLogger()))
			require.Error(t, err)
			assert.Nil(t, c)
			assert.ErrorIs(t, err, ErrOpen)
			assert.ErrorIs(t, err, ioErr)

			var opErr *OpError
			require.True(t, errors.As(err, &opErr))
			assert.Equal(t, "open", opErr.Op)

			assert.True(t, lib.isClosed(), "library must be closed after a failed open")
		})
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(t.TempDir()+"/missing.he4", WithLogger(quietLogger()))
	assert.ErrorIs(t, err, ErrOpen)
}

func TestOpenSwathNotFound(t *testing.T) {
	lib := swathFixture()
	c := openFake(t, lib)
	defer c.Close()

	_, err := c.OpenSwath("Not a swath")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, lib.outstanding())
}

func TestContainerCloseCascades(t *testing.T) {
	lib := swathFixture()
	c := openFake(t, lib)

	sw, err := c.OpenSwath("Earth UV-1 Swath")
	require.NoError(t, err)
	data, err := sw.Data()
	require.NoError(t, err)
	tbl, err := data.OpenTable("Radiance")
	require.NoError(t, err)
	arr, err := data.OpenArray("Pixels")
	require.NoError(t, err)
	geo, err := sw.Geolocation()
	require.NoError(t, err)
	nested, err := geo.OpenTable("Time")
	require.NoError(t, err)
	other, err := c.OpenSwath("Other Swath")
	require.NoError(t, err)

	require.NotZero(t, lib.outstanding())
	require.NoError(t, c.Close())
	assert.Zero(t, lib.outstanding())
	assert.True(t, lib.isClosed())

	// Every close afterwards is a no-op.
	for _, obj := range []interface{ Close() error }{c, sw, data, tbl, arr, geo, nested, other} {
		assert.NoError(t, obj.Close())
	}
	assert.Equal(t, 1, lib.closeCalls)

	_, err = c.Swaths()
	assert.ErrorIs(t, err, ErrClosed)
	_, err = c.OpenSwath("Other Swath")
	assert.ErrorIs(t, err, ErrClosed)
	_, err = tbl.Read(0)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = arr.ReadAll()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestCloseReportsReleaseFailureOnce(t *testing.T) {
	lib := swathFixture()
	c := openFake(t, lib)
	defer c.Close()

	sw, err := c.OpenSwath("Other Swath")
	require.NoError(t, err)

	detachErr := errors.New("detach failed")
	lib.mu.Lock()
	lib.detachErr = detachErr
	lib.mu.Unlock()

	// The swath's own handle was attached before the failure was armed, so
	// reopen one that carries it.
	sw2, err := c.OpenSwath("Other Swath")
	require.NoError(t, err)

	err = sw2.Close()
	assert.ErrorIs(t, err, detachErr)
	assert.NoError(t, sw2.Close(), "a failed close must not be retried")

	assert.NoError(t, sw.Close())
}

func TestLeakedHandleIsCleanedUp(t *testing.T) {
	lib := swathFixture()
	logger, hook := test.NewNullLogger()
	c, err := OpenLibrary(lib, WithLogger(logger))
	require.NoError(t, err)
	defer c.Close()

	func() {
		sw, err := c.OpenSwath("Other Swath")
		require.NoError(t, err)
		require.Equal(t, "Other Swath", sw.Name())
	}()
	require.Equal(t, 1, lib.outstanding())

	assert.Eventually(t, func() bool {
		runtime.GC()
		return lib.outstanding() == 0
	}, 5*time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		for _, e := range hook.AllEntries() {
			if e.Level == logrus.WarnLevel && e.Data["name"] == "Other Swath" {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}
