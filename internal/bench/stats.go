package bench

import (
	"sort"
	"sync"

	"github.com/studiowebux/sihui/internal/client"
	"github.com/studiowebux/sihui/internal/types"
)

// Stats aggregates the exchanges of a run
type Stats struct {
	Completed     int         `json:"completed" yaml:"completed"`
	Succeeded     int         `json:"succeeded" yaml:"succeeded"`
	Rejected      int         `json:"rejected" yaml:"rejected"`
	Failed        int         `json:"failed" yaml:"failed"`
	StatusCodes   map[int]int `json:"statusCodes" yaml:"statusCodes"`
	TotalBytesIn  int64       `json:"totalBytesIn" yaml:"totalBytesIn"`
	TotalBytesOut int64       `json:"totalBytesOut" yaml:"totalBytesOut"`

	durations []int64
	totalMs   int64
}

func newStats() Stats {
	return Stats{StatusCodes: map[int]int{}}
}

func (s *Stats) add(ex types.Exchange) {
	ms := ex.Duration.Milliseconds()
	s.Completed++
	s.totalMs += ms
	s.durations = append(s.durations, ms)
	s.TotalBytesOut += ex.RequestSize
	s.TotalBytesIn += ex.ResponseSize
	s.StatusCodes[ex.Status]++

	switch {
	case ex.Status == 0:
		s.Failed++
	case client.IsSuccessStatus(ex.Status):
		s.Succeeded++
	default:
		s.Rejected++
	}
}

// AvgDurationMs is the mean latency
func (s Stats) AvgDurationMs() float64 {
	if s.Completed == 0 {
		return 0
	}
	return float64(s.totalMs) / float64(s.Completed)
}

// MinDurationMs is the fastest call, 0 without results
func (s Stats) MinDurationMs() int64 {
	if len(s.durations) == 0 {
		return 0
	}
	return s.sorted()[0]
}

// MaxDurationMs is the slowest call, 0 without results
func (s Stats) MaxDurationMs() int64 {
	if len(s.durations) == 0 {
		return 0
	}
	sorted := s.sorted()
	return sorted[len(sorted)-1]
}

// Percentile interpolates the p-th latency percentile (0-100)
func (s Stats) Percentile(p float64) int64 {
	if len(s.durations) == 0 {
		return 0
	}
	sorted := s.sorted()

	index := (p / 100.0) * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return int64(float64(sorted[lower])*(1-weight) + float64(sorted[upper])*weight)
}

// SuccessRate is the share of 2xx responses, 0-100
func (s Stats) SuccessRate() float64 {
	if s.Completed == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Completed) * 100
}

func (s Stats) sorted() []int64 {
	sorted := make([]int64, len(s.durations))
	copy(sorted, s.durations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted
}

func (s Stats) clone() Stats {
	out := s
	out.StatusCodes = make(map[int]int, len(s.StatusCodes))
	for code, n := range s.StatusCodes {
		out.StatusCodes[code] = n
	}
	out.durations = append([]int64(nil), s.durations...)
	return out
}

// Collector is a client.Recorder feeding Stats
type Collector struct {
	mu    sync.Mutex
	stats Stats
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{stats: newStats()}
}

// Record adds one exchange
func (c *Collector) Record(ex types.Exchange) error {
	c.mu.Lock()
	c.stats.add(ex)
	c.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the current stats
func (c *Collector) Snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats.clone()
}

// Reset drops everything collected so far
func (c *Collector) Reset() {
	c.mu.Lock()
	c.stats = newStats()
	c.mu.Unlock()
}
