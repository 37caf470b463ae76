// Package container provides a string-keyed dependency-injection container
// with autowiring.
//
// # Definitions
//
// Any value can be stored under an identifier. How it is turned into a value
// is decided each time it is resolved, in this order:
//
//	c.Set("Mailer", "SMTPMailer")  // a registered type name: constructed
//	c.Set("cache", &CacheFactory{}) // a Factory: Create(c) builds the value
//	c.Set("clock", func(c *container.Container) any { return time.Now })
//	c.Set("retries", 3)            // anything else: returned as-is
//
// Closure results are never reinterpreted, even if they are type names or
// factories.
//
// # Resolving
//
//	v, err := c.Get("Mailer")     // cached: same value until Set("Mailer", ...)
//	v, err = c.GetNew("Mailer")   // always fresh, cache untouched
//
//	// Typed
//	m, err := container.Resolve[*SMTPMailer](c, "Mailer")
//
// # Autowiring
//
// Go cannot look types up by name or read constructor parameter names, so
// constructible types are declared in a Types table: a constructor plus one
// Param per argument.
//
//	c.RegisterType("SMTPMailer", NewSMTPMailer,
//	    container.Ref("transport", "Transport"),     // c.Get("Transport")
//	    container.Collection("headers"),             // empty if no default
//	    container.Scalar("port").WithDefault(25),
//	)
//
// A registered type name can be requested without ever being Set. Reference
// parameters are resolved with Get, so nested dependencies become the cached
// value for their own identifier. A scalar with no default cannot be guessed
// and fails with a ConstructionError naming the parameter.
//
// # Errors
//
// Failures are *NotFoundError (errors.Is ErrNotFound) or *ConstructionError
// (errors.Is ErrConstruction). Errors from factories, closures and
// constructors are wrapped into a ConstructionError unless they already are
// one, so a dependency that is not found surfaces as a ConstructionError for
// the outer identifier with the NotFoundError as its Cause.
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) {
//	    app.Set("mailer", "SMTPMailer")
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot()
//
// A deferred provider (IsDeferred returns true) is only registered when one
// of its Provides() identifiers is first resolved.
package container
