package bench

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/studiowebux/sihui/internal/client"
)

// Run statuses
const (
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Doer sends one request; *client.Client satisfies it
type Doer interface {
	Do(ctx context.Context, req client.Request, out any) error
}

// Report is the outcome of a run
type Report struct {
	ID          int64     `json:"id,omitempty" yaml:"id,omitempty"`
	Host        string    `json:"host" yaml:"host"`
	Method      string    `json:"method" yaml:"method"`
	Endpoint    string    `json:"endpoint" yaml:"endpoint"`
	Concurrency int       `json:"concurrency" yaml:"concurrency"`
	Requests    int       `json:"requests" yaml:"requests"`
	Sent        int       `json:"sent" yaml:"sent"`
	Status      string    `json:"status" yaml:"status"`
	StartedAt   time.Time `json:"startedAt" yaml:"startedAt"`
	CompletedAt time.Time `json:"completedAt" yaml:"completedAt"`

	Completed     int         `json:"completed" yaml:"completed"`
	Succeeded     int         `json:"succeeded" yaml:"succeeded"`
	Rejected      int         `json:"rejected" yaml:"rejected"`
	Failed        int         `json:"failed" yaml:"failed"`
	StatusCodes   map[int]int `json:"statusCodes,omitempty" yaml:"statusCodes,omitempty"`
	AvgDurationMs float64     `json:"avgDurationMs" yaml:"avgDurationMs"`
	MinDurationMs int64       `json:"minDurationMs" yaml:"minDurationMs"`
	MaxDurationMs int64       `json:"maxDurationMs" yaml:"maxDurationMs"`
	P50DurationMs int64       `json:"p50DurationMs" yaml:"p50DurationMs"`
	P95DurationMs int64       `json:"p95DurationMs" yaml:"p95DurationMs"`
	P99DurationMs int64       `json:"p99DurationMs" yaml:"p99DurationMs"`
}

// Elapsed is the wall time of the run
func (r *Report) Elapsed() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}

// Throughput is completed calls per second
func (r *Report) Throughput() float64 {
	elapsed := r.Elapsed().Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(r.Completed) / elapsed
}

// Runner drives the worker pool
type Runner struct {
	doer      Doer
	collector *Collector
	cfg       Config

	sent int64
	now  func() time.Time
}

// NewRunner validates cfg. collector must be registered on doer's recorders.
func NewRunner(doer Doer, collector *Collector, cfg Config) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bench config: %w", err)
	}
	if collector == nil {
		return nil, fmt.Errorf("a collector is required")
	}
	return &Runner{doer: doer, collector: collector, cfg: cfg, now: time.Now}, nil
}

// Run blocks until every request finished, the duration cap fired or ctx ended.
// Cancellation is not an error: the report says how far the run got.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	r.collector.Reset()
	atomic.StoreInt64(&r.sent, 0)

	if r.cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Duration)
		defer cancel()
	}

	started := r.now()
	tasks := make(chan time.Duration, r.cfg.Concurrency*2)

	var wg sync.WaitGroup
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, started, tasks)
		}()
	}

	r.schedule(ctx, tasks)
	wg.Wait()

	return r.report(ctx, started), nil
}

func (r *Runner) schedule(ctx context.Context, tasks chan<- time.Duration) {
	defer close(tasks)
	for i := 0; i < r.cfg.Requests; i++ {
		select {
		case <-ctx.Done():
			return
		case tasks <- r.cfg.offset(i):
		}
	}
}

func (r *Runner) worker(ctx context.Context, started time.Time, tasks <-chan time.Duration) {
	req := client.Request{
		Method:   r.cfg.Method,
		Endpoint: r.cfg.Endpoint,
		Query:    r.cfg.Query,
		Body:     r.cfg.Body,
	}

	for offset := range tasks {
		if wait := offset - r.now().Sub(started); wait > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
		}
		if ctx.Err() != nil {
			return
		}

		atomic.AddInt64(&r.sent, 1)
		var out json.RawMessage
		// failures are counted from the recorded exchange
		_ = r.doer.Do(ctx, req, &out)
	}
}

func (r *Runner) report(ctx context.Context, started time.Time) *Report {
	stats := r.collector.Snapshot()
	sent := int(atomic.LoadInt64(&r.sent))

	status := StatusCompleted
	if sent < r.cfg.Requests && (r.cfg.Duration == 0 || !errors.Is(ctx.Err(), context.DeadlineExceeded)) {
		status = StatusCancelled
	}

	return &Report{
		Method:        r.cfg.Method,
		Endpoint:      r.cfg.Endpoint,
		Concurrency:   r.cfg.Concurrency,
		Requests:      r.cfg.Requests,
		Sent:          sent,
		Status:        status,
		StartedAt:     started,
		CompletedAt:   r.now(),
		Completed:     stats.Completed,
		Succeeded:     stats.Succeeded,
		Rejected:      stats.Rejected,
		Failed:        stats.Failed,
		StatusCodes:   stats.StatusCodes,
		AvgDurationMs: stats.AvgDurationMs(),
		MinDurationMs: stats.MinDurationMs(),
		MaxDurationMs: stats.MaxDurationMs(),
		P50DurationMs: stats.Percentile(50),
		P95DurationMs: stats.Percentile(95),
		P99DurationMs: stats.Percentile(99),
	}
}
