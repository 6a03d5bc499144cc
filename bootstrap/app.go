package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/typedhttp/component"
	"github.com/kbukum/typedhttp/config"
	"github.com/kbukum/typedhttp/httpclient"
	"github.com/kbukum/typedhttp/httpclient/rest"
	"github.com/kbukum/typedhttp/logger"
	"github.com/kbukum/typedhttp/observability"
	"github.com/kbukum/typedhttp/version"
)

const headerUserAgent = "User-Agent"

// App owns the components of a client application and the rest.Client
// built on top of them.
type App struct {
	Name       string
	Version    string
	Cfg        *config.ClientConfig
	Components *component.Registry
	Logger     *logger.Logger

	http     *httpclient.Component
	restOpts []rest.Option
	client   *rest.Client

	gracefulTimeout time.Duration
	onStart         []Hook
	onStop          []Hook
}

// New applies defaults to cfg, validates it and registers the telemetry and
// HTTP adapter components. Nothing is started yet.
func New(cfg *config.ClientConfig, opts ...Option) (*App, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	o := newSettings(opts)
	app := &App{
		Name:            cfg.Name,
		Version:         cfg.Version,
		Cfg:             cfg,
		Logger:          o.log,
		restOpts:        o.restOpts,
		gracefulTimeout: o.grace,
	}
	if app.Logger == nil {
		logger.Init(&cfg.Logging)
		app.Logger = logger.GetGlobalLogger()
	}
	app.Components = component.NewRegistry(
		component.WithRegistryLogger(app.Logger.WithComponent("registry")),
		component.WithStopTimeout(app.gracefulTimeout),
	)

	httpCfg := cfg.HTTP
	httpCfg.Headers = withUserAgent(httpCfg.Headers, cfg.Name, cfg.Version)
	app.http = httpclient.NewComponent(httpCfg, append([]httpclient.Option{
		httpclient.WithLogger(app.Logger.WithComponent(httpCfg.Name)),
	}, o.httpOpts...)...)

	// Telemetry first so the adapter picks up the installed providers.
	if err := app.Components.Register(observability.NewComponent(cfg.Telemetry)); err != nil {
		return nil, err
	}
	if err := app.Components.Register(app.http); err != nil {
		return nil, err
	}
	return app, nil
}

// withUserAgent copies headers and adds a User-Agent unless one is set.
func withUserAgent(headers map[string]string, name, ver string) map[string]string {
	out := make(map[string]string, len(headers)+1)
	hasUA := false
	for k, v := range headers {
		out[k] = v
		hasUA = hasUA || http.CanonicalHeaderKey(k) == headerUserAgent
	}
	if !hasUA {
		out[headerUserAgent] = version.UserAgent(name, ver)
	}
	return out
}

// RegisterComponent adds a component started after the built-in ones.
func (a *App) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// Client returns the rest.Client. It is nil until Start succeeds.
func (a *App) Client() *rest.Client {
	return a.client
}

// Start starts every component, builds the client and runs OnStart hooks.
// On failure the components already started are stopped again.
func (a *App) Start(ctx context.Context) error {
	start := time.Now()
	a.Logger.Info("starting application", logger.Fields("name", a.Name, "version", a.Version))

	if err := a.Components.StartAll(ctx); err != nil {
		return errors.Join(fmt.Errorf("failed to start components: %w", err), a.Components.StopAll(ctx))
	}

	restOpts := append([]rest.Option{rest.WithLogger(a.Logger.WithComponent("rest"))}, a.restOpts...)
	a.client = rest.New(a.http.Adapter(), restOpts...)

	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("ready check reported issues", logger.MergeWithError(nil, err))
	}
	if err := runUntilError(ctx, a.onStart); err != nil {
		return errors.Join(err, a.Components.StopAll(ctx))
	}

	a.Logger.Info("application started", logger.MergeWithDuration(
		logger.Fields("base_url", a.Cfg.HTTP.BaseURL), time.Since(start)))
	return nil
}

// ReadyCheck reports every component that is not healthy.
func (a *App) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Components.HealthAll(ctx) {
		if !h.Healthy() {
			unhealthy = append(unhealthy, h.String())
		}
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %v", unhealthy)
	}
	return nil
}

// Shutdown runs OnStop hooks and stops every component within the graceful
// timeout.
func (a *App) Shutdown(ctx context.Context) error {
	a.Logger.Info("shutting down application", logger.Fields("timeout", a.gracefulTimeout.String()))

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.gracefulTimeout)
	defer cancel()

	var errs []error
	if err := runAll(ctx, a.onStop); err != nil {
		a.Logger.Error("stop hooks failed", logger.MergeWithError(nil, err))
		errs = append(errs, err)
	}
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("shutdown completed with errors", logger.MergeWithError(nil, err))
		errs = append(errs, err)
	}
	a.client = nil

	a.Logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// RunTask starts the application, runs fn with the client and shuts down.
// SIGINT and SIGTERM cancel the context given to fn. The error of fn takes
// precedence over a shutdown error.
func (a *App) RunTask(ctx context.Context, fn func(ctx context.Context, client *rest.Client) error) error {
	if err := a.Start(ctx); err != nil {
		return err
	}

	taskCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	taskErr := fn(taskCtx, a.client)
	if stopErr := a.Shutdown(ctx); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}
