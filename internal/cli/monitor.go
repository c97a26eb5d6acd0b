package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/studiowebux/sihui/internal/resilience"
	"github.com/studiowebux/sihui/internal/types"
)

// Overview is the combined monitoring snapshot
type Overview struct {
	Health      *types.SystemHealth        `json:"health" yaml:"health"`
	Metrics     *types.SystemMetrics       `json:"metrics" yaml:"metrics"`
	Performance *types.PerformanceOverview `json:"performance" yaml:"performance"`
}

// FetchOverview queries health, metrics and the performance overview in parallel.
// The first failure cancels the other calls.
func (a *App) FetchOverview(ctx context.Context) (*Overview, error) {
	return Fetch(ctx, a, "monitor overview", func(ctx context.Context) (*Overview, error) {
		var overview Overview
		g, ctx := errgroup.WithContext(ctx)

		g.Go(func() (err error) {
			overview.Health, err = a.Services.Monitoring.Health(ctx)
			return err
		})
		g.Go(func() (err error) {
			overview.Metrics, err = a.Services.Monitoring.Metrics(ctx)
			return err
		})
		g.Go(func() (err error) {
			overview.Performance, err = a.Services.Monitoring.PerformanceOverview(ctx)
			return err
		})

		if err := g.Wait(); err != nil {
			return nil, err
		}
		return &overview, nil
	})
}

// Overview prints the combined monitoring snapshot
func (a *App) Overview(ctx context.Context) error {
	overview, err := a.FetchOverview(ctx)
	if err != nil {
		return err
	}
	return a.Printer.Print(overview)
}

// WatchOptions configures `monitor watch`
type WatchOptions struct {
	Interval    time.Duration
	Count       int    // stop after this many polls, 0 runs until ctx ends
	MetricsAddr string // serve the prometheus registry here when set
}

// Watch polls the health endpoint until ctx is cancelled or Count polls are done.
// Failed polls are reported and do not stop the loop.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Second
	}

	if opts.MetricsAddr != "" {
		stop, err := a.serveMetrics(opts.MetricsAddr)
		if err != nil {
			return err
		}
		defer stop()
	}

	unsubscribe := a.Loading.Subscribe(func(ev resilience.LoadingEvent) {
		if ev.Key == "monitor watch" && ev.IsLoading {
			a.Logger.Debug("Polling health")
		}
	})
	defer unsubscribe()

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for polls := 0; ; {
		a.poll(ctx)
		polls++
		if opts.Count > 0 && polls >= opts.Count {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (a *App) poll(ctx context.Context) {
	start := time.Now()
	res := resilience.Run(ctx, a.Handler, a.Services.Monitoring.Health, resilience.Options{
		LoadingKey: "monitor watch",
		Retries:    a.retries,
	})
	elapsed := time.Since(start).Round(time.Millisecond)

	if !res.OK() {
		if a.Printer.Format() == FormatText {
			fmt.Fprintf(a.out, "%s %s %s\n", mutedStyle.Render(start.Format("15:04:05")), errorStyle.Render("UNREACHABLE"), res.Err.Message)
		} else {
			_ = a.Printer.Print(map[string]any{"time": start, "status": "UNREACHABLE", "error": res.Err})
		}
		return
	}

	health := res.Value
	if a.Printer.Format() != FormatText {
		_ = a.Printer.Print(map[string]any{"time": start, "status": health.Status, "latency": elapsed.String(), "components": health.Components})
		return
	}

	style := statusStyle(health.Status == types.HealthUp, health.Status == types.HealthDegraded)
	fmt.Fprintf(a.out, "%s %s %s\n", mutedStyle.Render(start.Format("15:04:05")), style.Render(health.Status), mutedStyle.Render(elapsed.String()))
}

// serveMetrics exposes the prometheus registry and returns its shutdown func
func (a *App) serveMetrics(addr string) (func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", a.Metrics.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.WithError(err).Error("Metrics server error")
		}
	}()
	a.Logger.WithFields(logrus.Fields{"addr": listener.Addr().String(), "path": "/metrics"}).Info("Serving metrics")

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
