package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/studiowebux/sihui/internal/bench"
	"github.com/studiowebux/sihui/internal/client"
	"github.com/studiowebux/sihui/internal/config"
	"github.com/studiowebux/sihui/internal/history"
)

// BenchOptions configures `sihui bench`
type BenchOptions struct {
	RawRequest
	Concurrency int
	Requests    int
	RampUp      time.Duration
	Duration    time.Duration
	NoSave      bool
}

// Bench load-tests one endpoint and prints the report. Bench calls bypass the
// request log; the finished run is stored in the bench table instead.
func (a *App) Bench(ctx context.Context, opts BenchOptions) error {
	query, err := ParseQuery(opts.Query)
	if err != nil {
		return err
	}

	cfg := bench.Config{
		Method:      opts.Method,
		Endpoint:    opts.Endpoint,
		Query:       query,
		Concurrency: opts.Concurrency,
		Requests:    opts.Requests,
		RampUp:      opts.RampUp,
		Duration:    opts.Duration,
	}
	if opts.Body != "" {
		if !json.Valid([]byte(opts.Body)) {
			return fmt.Errorf("request body is not valid JSON")
		}
		cfg.Body = json.RawMessage(opts.Body)
	}

	a.ensureFresh(ctx)

	collector := bench.NewCollector()
	c, err := client.New(client.Config{
		BaseURL:   a.Client.BaseURL(),
		Timeout:   a.timeout,
		Store:     a.Store,
		Logger:    a.Logger,
		RateLimit: a.Settings.RateLimit,
		Metrics:   a.Metrics,
		Recorders: []client.Recorder{collector},
	})
	if err != nil {
		return err
	}

	runner, err := bench.NewRunner(c, collector, cfg)
	if err != nil {
		return err
	}

	a.Loading.SetLoading("bench", true)
	report, err := runner.Run(ctx)
	a.Loading.SetLoading("bench", false)
	if err != nil {
		return err
	}
	report.Host = history.HostOf(a.Client.BaseURL())

	if !opts.NoSave && a.Settings.IsHistoryEnabled() {
		a.saveBenchRun(report)
	}

	if a.Printer.Format() != FormatText {
		return a.Printer.Print(report)
	}
	a.printReport(report)
	return nil
}

func (a *App) saveBenchRun(report *bench.Report) {
	store, err := bench.NewStore(config.DatabaseFile)
	if err != nil {
		a.Logger.WithError(err).Warn("Bench run not saved")
		return
	}
	defer store.Close()

	if err := store.Save(report); err != nil {
		a.Logger.WithError(err).Warn("Bench run not saved")
	}
}

// BenchRuns prints stored runs, newest first
func (a *App) BenchRuns(limit int) error {
	if !a.Settings.IsHistoryEnabled() {
		return ErrRequestLogDisabled
	}

	store, err := bench.NewStore(config.DatabaseFile)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(limit)
	if err != nil {
		return err
	}

	if a.Printer.Format() != FormatText {
		return a.Printer.Print(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(a.out, mutedStyle.Render("No bench runs yet"))
		return nil
	}
	for _, r := range runs {
		rate := 0.0
		if r.Completed > 0 {
			rate = float64(r.Succeeded) / float64(r.Completed)
		}
		fmt.Fprintf(a.out, "%s %-6s %s %s\n",
			mutedStyle.Render(r.StartedAt.Local().Format("2006-01-02 15:04:05")),
			r.Method,
			r.Endpoint,
			mutedStyle.Render(r.Status),
		)
		fmt.Fprintf(a.out, "       %d/%d ok %s  avg %s  p95 %s  x%d\n",
			r.Succeeded, r.Completed,
			statusStyle(rate >= 0.99, rate >= 0.9).Render(fmt.Sprintf("%.0f%%", rate*100)),
			client.FormatDuration(int64(r.AvgDurationMs)),
			client.FormatDuration(r.P95DurationMs),
			r.Concurrency,
		)
	}
	return nil
}

func (a *App) printReport(r *bench.Report) {
	rate := 0.0
	if r.Completed > 0 {
		rate = float64(r.Succeeded) / float64(r.Completed)
	}

	a.Printer.Line("Target", fmt.Sprintf("%s %s", r.Method, r.Endpoint))
	a.Printer.Line("Status", r.Status)
	a.Printer.Line("Requests", fmt.Sprintf("%d sent, %d completed with %d workers in %s (%.1f req/s)",
		r.Sent, r.Completed, r.Concurrency, r.Elapsed().Round(time.Millisecond), r.Throughput()))
	a.Printer.Line("Outcome", fmt.Sprintf("%s ok, %d rejected, %d failed",
		statusStyle(rate >= 0.99, rate >= 0.9).Render(fmt.Sprintf("%d (%.1f%%)", r.Succeeded, rate*100)),
		r.Rejected, r.Failed))
	a.Printer.Line("Latency", fmt.Sprintf("avg %s  min %s  p50 %s  p95 %s  p99 %s  max %s",
		client.FormatDuration(int64(r.AvgDurationMs)),
		client.FormatDuration(r.MinDurationMs),
		client.FormatDuration(r.P50DurationMs),
		client.FormatDuration(r.P95DurationMs),
		client.FormatDuration(r.P99DurationMs),
		client.FormatDuration(r.MaxDurationMs)))
	a.Printer.Line("Codes", benchCodes(r.StatusCodes))
}

func benchCodes(codes map[int]int) string {
	keys := make([]int, 0, len(codes))
	for code := range codes {
		keys = append(keys, code)
	}
	sort.Ints(keys)

	parts := make([]string, 0, len(keys))
	for _, code := range keys {
		label := strconv.Itoa(code)
		if code == 0 {
			label = "ERR"
		}
		parts = append(parts, fmt.Sprintf("%s×%d", label, codes[code]))
	}
	return strings.Join(parts, " ")
}
