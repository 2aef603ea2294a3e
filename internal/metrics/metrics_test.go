package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIncrementAndGet(t *testing.T) {
	c := New()

	require.Zero(t, c.Get(ScanAttempts))

	c.Increment(ScanAttempts)
	c.Increment(ScanAttempts)
	c.Add(CheckKeysFound, 5)
	c.Add(CheckKeysFound, 0)

	require.EqualValues(t, 2, c.Get(ScanAttempts))
	require.EqualValues(t, 5, c.Get(CheckKeysFound))
	require.Zero(t, c.Get(Failures))
}

func TestSnapshotContainsAllEvents(t *testing.T) {
	c := New()
	c.Increment(RemovalSuccess)

	snap, err := c.Snapshot()
	require.NoError(t, err)
	require.Len(t, snap, len(Events))
	require.EqualValues(t, 1, snap[RemovalSuccess])
	require.Zero(t, snap[MasterKeysMissing])
}

func TestReset(t *testing.T) {
	c := New()
	c.Increment(Failures)
	c.Increment("custom")
	c.Reset()

	snap, err := c.Snapshot()
	require.NoError(t, err)
	require.Len(t, snap, len(Events))
	require.Zero(t, snap[Failures])
}

func TestFormatOrder(t *testing.T) {
	lines := Format(map[string]uint64{
		ScanAttempts: 3,
		"zeta":       1,
		"alpha":      2,
	})

	require.Len(t, lines, len(Events)+2)
	require.Equal(t, "scan_attempts: 3", lines[0])
	require.Equal(t, "failures: 0", lines[len(Events)-1])
	require.Equal(t, "alpha: 2", lines[len(Events)])
	require.Equal(t, "zeta: 1", lines[len(Events)+1])
}

func TestCollectorsAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.Increment(ScanAttempts)

	require.EqualValues(t, 1, a.Get(ScanAttempts))
	require.Zero(t, b.Get(ScanAttempts))
}
