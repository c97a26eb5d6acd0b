package resilience

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/studiowebux/sihui/internal/metrics"
)

// Notifier surfaces a failure to the user
type Notifier interface {
	Notify(err *ClassifiedError)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(*ClassifiedError)

func (f NotifierFunc) Notify(err *ClassifiedError) {
	f(err)
}

// LogNotifier writes failures as warnings
type LogNotifier struct {
	Logger logrus.FieldLogger
}

func (n LogNotifier) Notify(err *ClassifiedError) {
	if n.Logger == nil || err == nil {
		return
	}
	fields := logrus.Fields{"code": err.Code}
	if err.Hint != "" {
		fields["hint"] = err.Hint
	}
	if err.Status != 0 {
		fields["status"] = err.Status
	}
	n.Logger.WithFields(fields).Warn(Describe(err))
}

// Options controls a single Run
type Options struct {
	LoadingKey string
	// Silent suppresses the notifier; failures are still returned in the Result
	Silent bool
	// Retries is the retry budget; 0 runs the operation exactly once
	Retries int
	// OnError replaces the notifier for this call and receives the raw error
	OnError func(error)
}

// Result is the outcome of Run: a value, or the classified failure
type Result[T any] struct {
	Value T
	Err   *ClassifiedError
}

// OK reports success
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Unwrap converts the result back to the (value, error) form
func (r Result[T]) Unwrap() (T, error) {
	if r.Err != nil {
		return r.Value, r.Err
	}
	return r.Value, nil
}

// Handler wires the shared resources used by Run
type Handler struct {
	Registry   *LoadingRegistry
	Notifier   Notifier
	RetryDelay time.Duration // base backoff, 1s when zero
	Sleep      func(ctx context.Context, d time.Duration) error
	Metrics    *metrics.Collector
	Logger     logrus.FieldLogger
}

// NewHandler creates a handler with the default retry delay
func NewHandler(registry *LoadingRegistry, notifier Notifier) *Handler {
	return &Handler{
		Registry:   registry,
		Notifier:   notifier,
		RetryDelay: time.Second,
	}
}

// Run executes op with loading tracking, optional retries and failure reporting.
// It never panics or returns a bare error: failures come back classified in the Result.
func Run[T any](ctx context.Context, h *Handler, op func(context.Context) (T, error), opts Options) Result[T] {
	if h == nil {
		h = &Handler{}
	}

	if opts.LoadingKey != "" && h.Registry != nil {
		h.Registry.SetLoading(opts.LoadingKey, true)
		defer h.Registry.SetLoading(opts.LoadingKey, false)
	}

	guarded := func(ctx context.Context) (value T, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = &ClassifiedError{
					Code:      CodeUnknown,
					Message:   UnknownMessage,
					Details:   fmt.Sprint(r),
					Timestamp: Clock(),
				}
			}
		}()
		return op(ctx)
	}

	var (
		value T
		err   error
	)
	if opts.Retries > 0 {
		value, err = Retry(ctx, guarded, RetryOptions{
			MaxRetries: opts.Retries,
			Delay:      h.retryDelay(),
			Sleep:      h.Sleep,
			OnRetry:    h.onRetry,
		})
	} else {
		value, err = guarded(ctx)
	}

	if err == nil {
		return Result[T]{Value: value}
	}

	classified := Classify(err)
	h.Metrics.Failure(classified.Code)

	switch {
	case opts.OnError != nil:
		opts.OnError(err)
	case !opts.Silent && h.Notifier != nil:
		h.Notifier.Notify(classified)
	}
	return Result[T]{Err: classified}
}

// Exec is Run for operations without a value
func (h *Handler) Exec(ctx context.Context, op func(context.Context) error, opts Options) Result[struct{}] {
	return Run(ctx, h, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	}, opts)
}

func (h *Handler) retryDelay() time.Duration {
	if h.RetryDelay <= 0 {
		return time.Second
	}
	return h.RetryDelay
}

func (h *Handler) onRetry(attempt int, delay time.Duration, err error) {
	h.Metrics.Retry()
	h.logger().WithFields(logrus.Fields{
		"attempt": attempt,
		"delay":   delay,
	}).WithError(err).Debug("retrying operation")
}

func (h *Handler) logger() logrus.FieldLogger {
	if h.Logger != nil {
		return h.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
