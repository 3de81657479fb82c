// Package perf keeps a bounded window of request and backend-call timings
// for the dashboard. Writes are cheap and lock the ring only for a slot
// copy; all aggregation is deferred to Snapshot.
package perf

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize bounds the timing window when no capacity is given.
const DefaultRingSize = 10000

// EntryKind separates console page requests from calls the console makes
// to the diary backend.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindBackend
)

// Entry is one timed event.
type Entry struct {
	Kind       EntryKind
	Path       string // "METHOD /path" for requests, method+path for backend calls
	StatusCode int
	DurationMs float64
	Timestamp  time.Time
}

// Collector retains the most recent entries in a fixed ring.
type Collector struct {
	mu    sync.Mutex
	ring  []Entry
	next  int
	total atomic.Int64
}

// NewCollector allocates a collector retaining up to size entries.
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{ring: make([]Entry, size)}
}

// Record stores an entry, evicting the oldest when the ring is full.
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.ring[c.next] = e
	c.next++
	if c.next == len(c.ring) {
		c.next = 0
	}
	c.mu.Unlock()
	c.total.Add(1)
}

// TotalRecorded returns how many entries have ever been recorded,
// including ones the ring has since evicted.
func (c *Collector) TotalRecorded() int64 {
	return c.total.Load()
}

// Snapshot is the dashboard's aggregated view of the timing window.
type Snapshot struct {
	TotalRequests  int64
	RequestP50Ms   float64
	RequestP95Ms   float64
	RequestP99Ms   float64
	SlowestPaths   []PathStat
	SlowestBackend []PathStat
}

// PathStat aggregates the entries sharing one path.
type PathStat struct {
	Path    string
	AvgMs   float64
	MaxMs   float64
	Count   int
	TotalMs float64
}

// Snapshot aggregates entries recorded at or after since. It sorts and
// groups the whole window, so it is meant for dashboard loads, not hot
// paths.
// POST: Returns percentiles over request entries plus the topN slowest
// request and backend paths by average duration
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	window := append([]Entry(nil), c.ring...)
	c.mu.Unlock()

	groups := map[EntryKind]map[string]*PathStat{
		KindRequest: {},
		KindBackend: {},
	}
	var requestMs []float64

	for _, e := range window {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		if e.Kind == KindRequest {
			requestMs = append(requestMs, e.DurationMs)
		}
		byPath := groups[e.Kind]
		s := byPath[e.Path]
		if s == nil {
			s = &PathStat{Path: e.Path}
			byPath[e.Path] = s
		}
		s.Count++
		s.TotalMs += e.DurationMs
		if e.DurationMs > s.MaxMs {
			s.MaxMs = e.DurationMs
		}
	}

	snap := Snapshot{
		TotalRequests:  c.TotalRecorded(),
		SlowestPaths:   rankByAvg(groups[KindRequest], topN),
		SlowestBackend: rankByAvg(groups[KindBackend], topN),
	}

	if len(requestMs) > 0 {
		sort.Float64s(requestMs)
		snap.RequestP50Ms = percentile(requestMs, 50)
		snap.RequestP95Ms = percentile(requestMs, 95)
		snap.RequestP99Ms = percentile(requestMs, 99)
	}
	return snap
}

// percentile interpolates the p-th percentile of an ascending slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := (p / 100) * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi || hi >= len(sorted) {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// rankByAvg flattens a path group and keeps the n slowest by average.
func rankByAvg(byPath map[string]*PathStat, n int) []PathStat {
	ranked := make([]PathStat, 0, len(byPath))
	for _, s := range byPath {
		s.AvgMs = s.TotalMs / float64(s.Count)
		ranked = append(ranked, *s)
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].AvgMs > ranked[j].AvgMs })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
