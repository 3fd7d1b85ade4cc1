package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/demographics-cli/internal/analysis"
)

func TestCollector_Record(t *testing.T) {
	c := NewCollector()

	c.Record(&analysis.Result{
		Tables: []analysis.TableOutcome{
			{Status: analysis.StatusSuccess},
			{Status: analysis.StatusNoData},
			{Status: analysis.StatusSuccess},
		},
		Summary: analysis.Summary{Attempted: 3, Succeeded: 2},
	}, nil, 20*time.Millisecond)
	c.Record(nil, errors.New("unknown variable"), 10*time.Millisecond)

	snap := c.Snapshot()
	assert.Equal(t, 2, snap.Requests)
	assert.Equal(t, 1, snap.RequestFailures)
	assert.Equal(t, 3, snap.TablesAttempted)
	assert.Equal(t, 2, snap.TablesSucceeded)
	assert.Equal(t, 2, snap.TablesByStatus["success"])
	assert.Equal(t, 1, snap.TablesByStatus["no_data"])
	assert.InDelta(t, 15, snap.AvgDurationMS, 0.01)
	assert.False(t, snap.CollectedAt.IsZero())
}

func TestCollector_EmptySnapshot(t *testing.T) {
	snap := NewCollector().Snapshot()
	assert.Zero(t, snap.Requests)
	assert.Zero(t, snap.AvgDurationMS)
	assert.Empty(t, snap.TablesByStatus)
}
