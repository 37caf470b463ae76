package app

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	gohttp "github.com/km-arc/go-container/framework/http"
	"github.com/km-arc/go-container/framework/providers"
	"github.com/km-arc/go-container/framework/routing"
)

// Version of the framework.
const Version = "0.1.0"

// Application is the top-level application container. It embeds the
// Container and ProviderRegistry so user code can call app.Set(), app.Get()
// and app.Register() directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
}

// New creates the application with the framework providers registered.
// Constructible types are taken from opts (see container.WithTypes).
func New(envFiles []string, opts ...container.Option) *Application {
	c := container.New(opts...)
	registry := container.NewProviderRegistry(c)

	app := &Application{
		Container: c,
		Providers: registry,
	}
	c.Set("container", c)

	registry.Register(&providers.ConfigServiceProvider{EnvFiles: envFiles})
	registry.Register(&providers.LoggingServiceProvider{})
	registry.Register(&providers.RoutingServiceProvider{})
	registry.Register(&providers.InspectorServiceProvider{})

	return app
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) {
	a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() {
	a.Providers.Boot()
}

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container, "config")
}

// Logger resolves the application logger from the container.
func (a *Application) Logger() zerolog.Logger {
	return container.MustResolve[zerolog.Logger](a.Container, "logger")
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() *routing.Router {
	return container.MustResolve[*routing.Router](a.Container, "router")
}

// Inspector resolves the container inspector, mounting its routes when
// enabled in config.
func (a *Application) Inspector() *gohttp.Inspector {
	return container.MustResolve[*gohttp.Inspector](a.Container, "inspector")
}

// Handler boots the application (if needed) and returns the router with the
// inspector mounted.
func (a *Application) Handler() http.Handler {
	if !a.Providers.Booted() {
		a.Boot()
	}
	a.Inspector()
	return a.Router()
}

// Run serves Handler on APP_PORT.
func (a *Application) Run() error {
	handler := a.Handler()
	cfg := a.Config()
	log := a.Logger()

	addr := ":" + cfg.App.Port
	log.Info().
		Str("addr", addr).
		Str("env", cfg.App.Env).
		Int("definitions", len(a.Identifiers())).
		Int("types", len(a.Types().Names())).
		Msg("server starting")

	if err := http.ListenAndServe(addr, handler); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
