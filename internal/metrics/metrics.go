package metrics

import (
	"fmt"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const (
	namespace = "walletool"
	eventKey  = "event"
)

// Event names tracked by the Collector.
const (
	ScanAttempts      = "scan_attempts"
	ScanCacheHits     = "scan_cache_hits"
	MasterKeysFound   = "master_keys_found"
	MasterKeysMissing = "master_keys_missing"
	CheckKeysFound    = "check_keys_found"
	RemovalAttempts   = "removal_attempts"
	RemovalSuccess    = "removal_success"
	Failures          = "failures"
)

// Events lists every event in reporting order.
var Events = []string{
	ScanAttempts,
	ScanCacheHits,
	MasterKeysFound,
	MasterKeysMissing,
	CheckKeysFound,
	RemovalAttempts,
	RemovalSuccess,
	Failures,
}

// Collector counts tool events on a private prometheus registry.
type Collector struct {
	registry *prometheus.Registry
	events   *prometheus.CounterVec
}

func New() *Collector {
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_total",
		Help:      "Number of wallet tool events by kind.",
	}, []string{eventKey})

	registry := prometheus.NewRegistry()
	registry.MustRegister(events)

	c := &Collector{registry: registry, events: events}
	c.Reset()

	return c
}

func (c *Collector) Increment(event string) {
	c.Add(event, 1)
}

func (c *Collector) Add(event string, n int) {
	if n <= 0 {
		return
	}
	c.events.WithLabelValues(event).Add(float64(n))
}

// Get returns the current count for event, or zero if it was never seen.
func (c *Collector) Get(event string) uint64 {
	var m dto.Metric
	if err := c.events.WithLabelValues(event).Write(&m); err != nil {
		return 0
	}
	return uint64(m.GetCounter().GetValue())
}

// Snapshot gathers every counter into a map keyed by event name.
func (c *Collector) Snapshot() (map[string]uint64, error) {
	families, err := c.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gathering metrics: %w", err)
	}

	snap := make(map[string]uint64, len(Events))
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == eventKey {
					snap[lp.GetValue()] = uint64(m.GetCounter().GetValue())
				}
			}
		}
	}

	return snap, nil
}

// Reset zeroes all counters. Known events are re-created so they always
// appear in a Snapshot.
func (c *Collector) Reset() {
	c.events.Reset()
	for _, e := range Events {
		c.events.WithLabelValues(e)
	}
}

// Format renders a snapshot one "event: count" per line, known events first
// in their fixed order and anything else sorted after them.
func Format(snap map[string]uint64) []string {
	lines := make([]string, 0, len(snap))
	seen := make(map[string]bool, len(Events))

	for _, e := range Events {
		seen[e] = true
		lines = append(lines, fmt.Sprintf("%s: %d", e, snap[e]))
	}

	var extra []string
	for e := range snap {
		if !seen[e] {
			extra = append(extra, e)
		}
	}
	sort.Strings(extra)
	for _, e := range extra {
		lines = append(lines, fmt.Sprintf("%s: %d", e, snap[e]))
	}

	return lines
}
