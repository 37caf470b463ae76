package providers

import (
	"github.com/rs/zerolog"

	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	gohttp "github.com/km-arc/go-container/framework/http"
	"github.com/km-arc/go-container/framework/logging"
	"github.com/km-arc/go-container/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the configuration from .env and the environment.
//
// Defined identifiers:
//   - "config"  → *config.Config
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) {
	envFiles := p.EnvFiles
	app.Set("config", func(*container.Container) any {
		return config.Load(envFiles...)
	})
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider builds the application logger from "config" and, on
// Boot, hands it to the container itself.
//
// Defined identifiers:
//   - "logger"  → zerolog.Logger
type LoggingServiceProvider struct {
	container.BaseProvider
}

func (p *LoggingServiceProvider) Register(app *container.Container) {
	app.Set("logger", func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, "config")
		if err != nil {
			return nil, err
		}
		logCfg := cfg.Log
		logCfg.ApplyDefaults()
		return logging.New(&logCfg, cfg.App.Name), nil
	})
}

// Boot keeps the container's current logger when "logger" cannot be
// resolved, and reports why on it.
func (p *LoggingServiceProvider) Boot(app *container.Container) {
	log, err := container.Resolve[zerolog.Logger](app, "logger")
	if err != nil {
		current := app.Logger()
		current.Error().Err(err).Msg("logger unavailable, keeping the container's logger")
		return
	}
	app.SetLogger(logging.Component(log, "container"))
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router.
//
// Defined identifiers:
//   - "router"  → *routing.Router
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) {
	app.Set("router", func(c *container.Container) (any, error) {
		log, err := container.Resolve[zerolog.Logger](c, "logger")
		if err != nil {
			return nil, err
		}
		return routing.New(logging.Component(log, "http")), nil
	})
}

// ── InspectorServiceProvider ──────────────────────────────────────────────────

// InspectorServiceProvider mounts the container inspector on the router when
// config.Inspector.Enabled is set. It is deferred: nothing is built until
// "inspector" is first resolved.
//
// Defined identifiers:
//   - "inspector"  → *gohttp.Inspector
type InspectorServiceProvider struct {
	container.BaseProvider
}

func (p *InspectorServiceProvider) IsDeferred() bool   { return true }
func (p *InspectorServiceProvider) Provides() []string { return []string{"inspector"} }

func (p *InspectorServiceProvider) Register(app *container.Container) {
	app.Set("inspector", func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, "config")
		if err != nil {
			return nil, err
		}
		router, err := container.Resolve[*routing.Router](c, "router")
		if err != nil {
			return nil, err
		}
		inspector := gohttp.NewInspector(c)
		if cfg.Inspector.Enabled {
			router.Prefix(cfg.Inspector.Prefix, inspector.Register)
		}
		return inspector, nil
	})
}
