// Package app provides the application context for anchore-ctl.
// It allows dependency injection for testing.
package app

import (
	"context"

	"github.com/anchore/anchore-ctl/internal/archive"
	"github.com/anchore/anchore-ctl/internal/audit"
	"github.com/anchore/anchore-ctl/internal/config"
	"github.com/anchore/anchore-ctl/internal/logging"
	"github.com/anchore/anchore-ctl/internal/status"
)

// App holds the application dependencies
type App struct {
	// Config is the merged and resolved configuration
	Config *config.Config

	// Archive produces and restores system backups
	Archive *archive.Manager

	// Audit records system operations in the data directory
	Audit *audit.Logger

	// Database, Feeds and Manifests back the status report
	Database  status.Database
	Feeds     status.Feeds
	Manifests status.Manifests

	loaderOpts []config.Option
}

// Option is a function that configures the App
type Option func(*App)

// WithConfig sets an already loaded configuration
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.Config = cfg
	}
}

// WithLoaderOptions passes options to the config loader
func WithLoaderOptions(opts ...config.Option) Option {
	return func(a *App) {
		a.loaderOpts = append(a.loaderOpts, opts...)
	}
}

// WithArchive sets a custom archive manager
func WithArchive(m *archive.Manager) Option {
	return func(a *App) {
		a.Archive = m
	}
}

// WithAudit sets a custom audit logger
func WithAudit(l *audit.Logger) Option {
	return func(a *App) {
		a.Audit = l
	}
}

// WithStatus sets custom status sources
func WithStatus(db status.Database, feeds status.Feeds, manifests status.Manifests) Option {
	return func(a *App) {
		a.Database = db
		a.Feeds = feeds
		a.Manifests = manifests
	}
}

// New creates a new App with the given options.
// Without WithConfig the configuration is loaded from disk; a failed load
// yields no App.
func New(opts ...Option) (*App, error) {
	app := &App{}

	for _, opt := range opts {
		opt(app)
	}

	if app.Config == nil {
		cfg, err := config.NewLoader(app.loaderOpts...).Load()
		if err != nil {
			return nil, err
		}
		app.Config = cfg
	}
	logging.Debug("configuration ready", "config_file", app.Config.ConfigFile, "data_dir", app.Config.DataDir)

	if app.Archive == nil {
		app.Archive = archive.NewManager(app.Config)
	}

	if app.Audit == nil {
		app.Audit = audit.NewLogger(app.Config.DataDir)
	}

	probe := status.NewFSProbe(app.Config)
	if app.Database == nil {
		app.Database = probe
	}
	if app.Feeds == nil {
		app.Feeds = probe
	}
	if app.Manifests == nil {
		app.Manifests = probe
	}

	return app, nil
}

// Status builds the current status report
func (a *App) Status() (*status.Report, error) {
	return status.Build(a.Database, a.Feeds, a.Manifests)
}

type contextKey struct{}

// NewContext returns a context carrying app
func NewContext(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, contextKey{}, app)
}

// FromContext returns the App stored in ctx, if any
func FromContext(ctx context.Context) (*App, bool) {
	if ctx == nil {
		return nil, false
	}
	app, ok := ctx.Value(contextKey{}).(*App)
	return app, ok && app != nil
}
