package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCollector(t *testing.T) {
	t.Parallel()

	t.Run("nil config uses defaults", func(t *testing.T) {
		c := NewCollector(nil)
		require.NotNil(t, c)
		assert.True(t, c.config.Enabled)
		assert.Equal(t, 9180, c.config.Port)
		assert.Equal(t, "/metrics", c.config.Path)
		assert.NotNil(t, c.registry)
	})

	t.Run("disabled collector has no registry", func(t *testing.T) {
		c := NewCollector(&Config{Enabled: false})
		require.NotNil(t, c)
		assert.Nil(t, c.registry)
	})
}

func TestRecordOperation(t *testing.T) {
	t.Parallel()

	c := NewCollector(&Config{Enabled: true, Port: 0, Path: "/metrics", Namespace: "synthfs"})

	c.RecordOperation("lookup", OutcomeOK)
	c.RecordOperation("lookup", OutcomeNotFound)
	c.RecordOperation("open", OutcomeDenied)

	snap := c.Snapshot()
	require.Contains(t, snap, "lookup")
	require.Contains(t, snap, "open")

	assert.EqualValues(t, 2, snap["lookup"].Count)
	assert.EqualValues(t, 1, snap["lookup"].NotFound)
	assert.EqualValues(t, 1, snap["open"].Count)
	assert.EqualValues(t, 1, snap["open"].Denied)
	assert.False(t, snap["lookup"].LastSeen.IsZero())
}

func TestRecordRead(t *testing.T) {
	t.Parallel()

	c := NewCollector(&Config{Enabled: true, Port: 0, Path: "/metrics", Namespace: "synthfs"})

	// Must not panic and must not block; the counter value itself is
	// asserted through the registry.
	c.RecordRead(4096)
	c.RecordRead(1024)

	families, err := c.registry.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() == "synthfs_generated_bytes_total" {
			found = true
			require.Len(t, mf.GetMetric(), 1)
			assert.EqualValues(t, 5120, mf.GetMetric()[0].GetCounter().GetValue())
		}
	}
	assert.True(t, found, "generated_bytes_total not gathered")
}

func TestDisabledCollectorIsNoOp(t *testing.T) {
	t.Parallel()

	c := NewCollector(&Config{Enabled: false})

	// None of these may panic on a disabled collector.
	c.RecordOperation("lookup", OutcomeOK)
	c.RecordRead(1024)

	assert.Empty(t, c.Snapshot())
	assert.NoError(t, c.Start(context.Background()))
	assert.NoError(t, c.Stop(context.Background()))
}
