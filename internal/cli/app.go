package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/studiowebux/sihui/internal/analytics"
	"github.com/studiowebux/sihui/internal/auth"
	"github.com/studiowebux/sihui/internal/client"
	"github.com/studiowebux/sihui/internal/config"
	"github.com/studiowebux/sihui/internal/history"
	"github.com/studiowebux/sihui/internal/metrics"
	"github.com/studiowebux/sihui/internal/resilience"
	"github.com/studiowebux/sihui/internal/services"
	"github.com/studiowebux/sihui/internal/session"
)

// tokenSkew is how close to expiry a token is refreshed before a command runs
const tokenSkew = time.Minute

// Options are the global command flags
type Options struct {
	APIURL     string
	Timeout    time.Duration // 0 uses the settings file
	Retries    int           // negative uses the settings file
	Output     string
	Filter     string
	Query      string
	Verbose    bool
	ConfigPath string

	// ConfigDir overrides ~/.sihui
	ConfigDir string
	// Store overrides the credentials file
	Store session.Store
	Out   io.Writer
	Err   io.Writer
}

// App holds everything a command needs
type App struct {
	Settings  config.Settings
	Logger    *logrus.Logger
	Store     session.Store
	Client    *client.Client
	Services  *services.Services
	Auth      *auth.Manager
	Handler   *resilience.Handler
	Loading   *resilience.LoadingRegistry
	Metrics   *metrics.Collector
	History   *history.Manager   // nil when the request log is disabled
	Analytics *analytics.Manager // nil when the request log is disabled

	Printer *Printer
	retries int
	timeout time.Duration
	out     io.Writer
}

// FailedError marks a command failure that was already reported to the user
type FailedError struct {
	Err *resilience.ClassifiedError
}

func (e *FailedError) Error() string {
	return e.Err.Error()
}

func (e *FailedError) Unwrap() error {
	return e.Err
}

// IsReported reports whether err was already surfaced by the notifier
func IsReported(err error) bool {
	var failed *FailedError
	return errors.As(err, &failed)
}

// NewApp loads settings and credentials and wires the client stack
func NewApp(opts Options) (*App, error) {
	if opts.ConfigDir != "" {
		if err := config.InitializeAt(opts.ConfigDir); err != nil {
			return nil, fmt.Errorf("failed to initialize config: %w", err)
		}
	} else if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	if err := config.LoadEnv(); err != nil {
		return nil, err
	}

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = config.GetConfigFilePath()
	}
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	logger := NewLogger(opts.Verbose, opts.Err)
	applyLevel(logger, settings.LogLevel, opts.Verbose)

	store := opts.Store
	if store == nil {
		store = session.NewFileStore(config.GetCredentialsFilePath())
	}

	app := &App{
		Settings: settings,
		Logger:   logger,
		Store:    store,
		Loading:  resilience.NewLoadingRegistry(),
		Metrics:  metrics.New(),
		out:      out,
	}

	var recorders []client.Recorder
	if settings.IsHistoryEnabled() {
		recorders = app.openRequestLog()
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = settings.Timeout.Std()
	}

	c, err := client.New(client.Config{
		BaseURL:   config.ResolveAPIURL(opts.APIURL, settings),
		Timeout:   timeout,
		Store:     store,
		Logger:    logger,
		RateLimit: settings.RateLimit,
		Metrics:   app.Metrics,
		Recorders: recorders,
	})
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Client = c
	app.timeout = timeout
	app.Services = services.New(c, store)
	app.Auth = auth.NewManager(app.Services.Auth, store)
	c.SetUnauthorizedHandler(app.Auth.HandleUnauthorized)

	app.Handler = resilience.NewHandler(app.Loading, resilience.LogNotifier{Logger: logger})
	app.Handler.RetryDelay = settings.RetryDelay.Std()
	app.Handler.Metrics = app.Metrics
	app.Handler.Logger = logger

	app.retries = opts.Retries
	if app.retries < 0 {
		app.retries = settings.Retries
	}

	format := opts.Output
	if format == "" {
		format = settings.Output
	}
	filterExpr, queryExpr, err := resolveSavedQueries(opts.Filter, opts.Query)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Printer = NewPrinter(out, format, filterExpr, queryExpr)

	app.Loading.Subscribe(func(ev resilience.LoadingEvent) {
		logger.WithFields(logrus.Fields{"key": ev.Key, "loading": ev.IsLoading}).Debug("Loading state changed")
	})

	return app, nil
}

// openRequestLog opens the sqlite request log. Failures only disable it.
func (a *App) openRequestLog() []client.Recorder {
	var recorders []client.Recorder

	hist, err := history.NewManager(config.DatabaseFile)
	if err != nil {
		a.Logger.WithError(err).Warn("Request history disabled")
	} else {
		a.History = hist
		recorders = append(recorders, hist)
	}

	stats, err := analytics.NewManager(config.DatabaseFile)
	if err != nil {
		a.Logger.WithError(err).Warn("Request analytics disabled")
	} else {
		a.Analytics = stats
		recorders = append(recorders, stats)
	}

	return recorders
}

// Close releases the request log
func (a *App) Close() {
	if a.History != nil {
		_ = a.History.Close()
	}
	if a.Analytics != nil {
		_ = a.Analytics.Close()
	}
}

// Out is where command results are written
func (a *App) Out() io.Writer {
	return a.out
}

// ensureFresh refreshes an expiring JWT before a remote command. Problems are
// left for the command itself to surface.
func (a *App) ensureFresh(ctx context.Context) {
	if session.Token(a.Store) == "" || session.RefreshToken(a.Store) == "" {
		return
	}
	refreshed, err := a.Auth.EnsureFresh(ctx, tokenSkew)
	switch {
	case err != nil:
		a.Logger.WithError(err).Debug("Token refresh skipped")
	case refreshed:
		a.Logger.Debug("Access token refreshed")
	}
}

// Fetch runs op through the resilience handler under key and returns its value
func Fetch[T any](ctx context.Context, a *App, key string, op func(context.Context) (T, error)) (T, error) {
	a.ensureFresh(ctx)
	res := resilience.Run(ctx, a.Handler, op, resilience.Options{
		LoadingKey: key,
		Retries:    a.retries,
	})
	if !res.OK() {
		return res.Value, &FailedError{Err: res.Err}
	}
	return res.Value, nil
}

// Show runs op like Fetch and prints its value
func Show[T any](ctx context.Context, a *App, key string, op func(context.Context) (T, error)) error {
	value, err := Fetch(ctx, a, key, op)
	if err != nil {
		return err
	}
	return a.Printer.Print(value)
}

// Exec runs a value-less op and prints message on success
func Exec(ctx context.Context, a *App, key string, op func(context.Context) error, message string) error {
	_, err := Fetch(ctx, a, key, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	if err != nil {
		return err
	}
	a.Printer.Success(message)
	return nil
}
