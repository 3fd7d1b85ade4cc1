// Package monitoring aggregates in-process counters for the analysis
// service.
package monitoring

import (
	"sync"
	"time"

	"github.com/sells-group/demographics-cli/internal/analysis"
)

// Snapshot holds a point-in-time view of service activity since start.
type Snapshot struct {
	Requests        int            `json:"requests"`
	RequestFailures int            `json:"request_failures"`
	TablesAttempted int            `json:"tables_attempted"`
	TablesSucceeded int            `json:"tables_succeeded"`
	TablesByStatus  map[string]int `json:"tables_by_status"`
	AvgDurationMS   float64        `json:"avg_duration_ms"`
	CollectedAt     time.Time      `json:"collected_at"`
}

// Collector accumulates analysis outcomes. Safe for concurrent use.
type Collector struct {
	mu sync.Mutex

	requests      int
	failures      int
	attempted     int
	succeeded     int
	byStatus      map[analysis.Status]int
	totalDuration time.Duration
}

func NewCollector() *Collector {
	return &Collector{byStatus: make(map[analysis.Status]int)}
}

// Record tallies one analysis request. res may be nil when the request
// failed outright.
func (c *Collector) Record(res *analysis.Result, err error, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requests++
	c.totalDuration += duration
	if err != nil {
		c.failures++
		return
	}
	if res == nil {
		return
	}
	c.attempted += res.Summary.Attempted
	c.succeeded += res.Summary.Succeeded
	for _, out := range res.Tables {
		c.byStatus[out.Status]++
	}
}

// Snapshot copies the current counters.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	byStatus := make(map[string]int, len(c.byStatus))
	for s, n := range c.byStatus {
		byStatus[string(s)] = n
	}

	var avgMS float64
	if c.requests > 0 {
		avgMS = float64(c.totalDuration.Milliseconds()) / float64(c.requests)
	}

	return Snapshot{
		Requests:        c.requests,
		RequestFailures: c.failures,
		TablesAttempted: c.attempted,
		TablesSucceeded: c.succeeded,
		TablesByStatus:  byStatus,
		AvgDurationMS:   avgMS,
		CollectedAt:     time.Now().UTC(),
	}
}
