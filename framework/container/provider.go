package container

import "sort"

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related definitions.
//
// Register only sets definitions. Boot is called after all providers have
// been registered, so it is safe to Get other definitions there.
//
//	type MailProvider struct{ container.BaseProvider }
//
//	func (p *MailProvider) Register(app *container.Container) {
//	    app.Set("mailer", func(c *container.Container) (any, error) {
//	        cfg, err := container.Resolve[*config.Config](c, "config")
//	        if err != nil {
//	            return nil, err
//	        }
//	        return mail.NewSMTP(cfg.Mail), nil
//	    })
//	}
type ServiceProvider interface {
	// Register sets definitions into the container.
	Register(app *Container)

	// Boot is called after all providers are registered.
	Boot(app *Container)

	// Provides returns the identifiers a deferred provider defines.
	Provides() []string

	// IsDeferred returns true if the provider should only be registered when
	// one of its Provides() identifiers is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct with no-op Boot, Provides and
// IsDeferred.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container)  {}
func (p *BaseProvider) Provides() []string { return nil }
func (p *BaseProvider) IsDeferred() bool   { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots ServiceProviders against one container,
// including deferred providers.
type ProviderRegistry struct {
	app        *Container
	eager      []ServiceProvider
	deferred   map[string]ServiceProvider // id → provider not loaded yet
	booted     bool
	registered map[ServiceProvider]bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		deferred:   make(map[string]ServiceProvider),
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and calls its Register method, unless it is
// deferred. Registering the same provider twice is a no-op.
func (r *ProviderRegistry) Register(provider ServiceProvider) {
	if r.registered[provider] {
		return
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		for _, id := range provider.Provides() {
			r.deferred[id] = provider
		}
		r.interceptDeferred(provider)
		return
	}

	provider.Register(r.app)
	r.eager = append(r.eager, provider)

	if r.booted {
		provider.Boot(r.app)
	}
}

// interceptDeferred sets a placeholder closure for each deferred id. The
// first resolution loads the provider, which replaces the placeholder, and
// resolves the new definition afresh; a surrounding Get caches it.
func (r *ProviderRegistry) interceptDeferred(provider ServiceProvider) {
	for _, id := range provider.Provides() {
		r.app.Set(id, Closure(func(c *Container) (any, error) {
			if r.deferred[id] == nil {
				return nil, &ConstructionError{Type: id, Reason: "deferred provider did not define it"}
			}
			r.load(provider)
			return c.GetNew(id)
		}))
	}
}

func (r *ProviderRegistry) load(provider ServiceProvider) {
	for _, id := range provider.Provides() {
		delete(r.deferred, id)
	}
	provider.Register(r.app)
	if r.booted {
		provider.Boot(r.app)
	}
}

// Boot calls Boot on all eager providers. Later calls are no-ops.
func (r *ProviderRegistry) Boot() {
	if r.booted {
		return
	}
	r.booted = true
	for _, provider := range r.eager {
		provider.Boot(r.app)
	}
}

// Booted returns true if Boot has been called.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns the eager providers in registration order.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.eager }

// Deferred returns the identifiers whose providers have not been loaded yet,
// sorted.
func (r *ProviderRegistry) Deferred() []string {
	out := make([]string, 0, len(r.deferred))
	for id := range r.deferred {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
