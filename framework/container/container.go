package container

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// ── Container ─────────────────────────────────────────────────────────────────

// Container maps string identifiers to definitions and resolves them into
// values, caching the result of Get per identifier.
//
// A definition is classified when it is resolved, not when it is set:
//   - a string naming a registered type is constructed (autowired)
//   - a Factory is asked to Create the value
//   - a closure is called with the container
//   - anything else is returned as-is
//
// The maps are guarded by a mutex, but resolution runs unlocked so closures
// and factories can call back into the container.
type Container struct {
	mu sync.RWMutex

	// id → raw definition
	definitions map[string]any

	// id → value cached by Get
	instances map[string]any

	types *Types
	log   zerolog.Logger
}

// Option configures a Container.
type Option func(*Container) error

// New creates a container.
//
//	c := container.New(
//	    container.WithTypes(types),
//	    container.WithDefinitions(map[string]any{"retries": 3}),
//	)
//
// New panics if an option fails, as it only fails on programmer errors.
func New(opts ...Option) *Container {
	c := &Container{
		definitions: make(map[string]any),
		instances:   make(map[string]any),
		types:       NewTypes(),
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			panic(fmt.Sprintf("container: failed to apply option: %v", err))
		}
	}
	return c
}

// WithDefinitions pre-seeds the container, as SetAll.
func WithDefinitions(defs map[string]any) Option {
	return func(c *Container) error {
		return c.SetAll(defs)
	}
}

// WithTypes makes the names in t constructible. Containers built with the
// same table share it.
func WithTypes(t *Types) Option {
	return func(c *Container) error {
		if t == nil {
			return fmt.Errorf("types table cannot be nil")
		}
		c.types = t
		return nil
	}
}

// WithLogger sets the logger used for debug events.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Container) error {
		c.log = l
		return nil
	}
}

// SetLogger replaces the logger after construction.
func (c *Container) SetLogger(l zerolog.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log = l
}

// Logger returns the logger used for debug events.
func (c *Container) Logger() zerolog.Logger {
	return *c.logger()
}

func (c *Container) logger() *zerolog.Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l := c.log
	return &l
}

// Types returns the table of constructible type names.
func (c *Container) Types() *Types {
	return c.types
}

// RegisterType registers a constructible type in the container's table.
func (c *Container) RegisterType(name string, ctor any, params ...Param) error {
	return c.types.Register(name, ctor, params...)
}

// ── Registration ──────────────────────────────────────────────────────────────

// Set stores a definition, dropping any instance cached for id so the next
// Get builds from the new definition.
//
//	c.Set("retries", 3)
//	c.Set("Mailer", "SMTPMailer")       // type name: autowired
//	c.Set("clock", func(c *container.Container) any { return time.Now })
//
// Only Closure, func(*Container) (any, error), func(*Container) any and
// func() any are called. A func of any other signature, such as
// func(*Container) *Mailer, is stored and returned as a literal value; Set
// logs a warning for it.
func (c *Container) Set(id string, definition any) {
	c.mu.Lock()
	_, invalidated := c.instances[id]
	delete(c.instances, id)
	c.definitions[id] = definition
	l := c.log
	c.mu.Unlock()

	l.Debug().Str("id", id).Bool("invalidated", invalidated).Msg("definition set")
	if _, factory := definition.(Factory); isFunc(definition) && !factory && !isClosure(definition) {
		l.Warn().Str("id", id).Str("type", fmt.Sprintf("%T", definition)).
			Msg("func definition is not a closure shape and will be returned as a literal")
	}
}

// SetAll stores every definition in defs. No definition is stored if any
// identifier is invalid.
func (c *Container) SetAll(defs map[string]any) error {
	ids := make([]string, 0, len(defs))
	for id := range defs {
		if err := checkID(id); err != nil {
			return err
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		c.Set(id, defs[id])
	}
	return nil
}

// ── Lookup ────────────────────────────────────────────────────────────────────

// Has reports whether a definition was set for id. Type names that are only
// constructible do not count.
func (c *Container) Has(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.definitions[id]
	return ok
}

// GetDefinition returns the raw definition set for id.
func (c *Container) GetDefinition(id string) (any, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if def, ok := c.definitions[id]; ok {
		return def, nil
	}
	return nil, &NotFoundError{ID: id}
}

// Resolved reports whether Get has cached a value for id.
func (c *Container) Resolved(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.instances[id]
	return ok
}

// Identifiers returns every identifier with a definition, sorted.
func (c *Container) Identifiers() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.definitions))
	for id := range c.definitions {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Get returns the value for id, resolving and caching it on first use.
// Repeated calls return the same value until id is Set again.
func (c *Container) Get(id string) (any, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	c.mu.RLock()
	inst, ok := c.instances[id]
	c.mu.RUnlock()
	if ok {
		c.logger().Debug().Str("id", id).Bool("cached", true).Msg("definition resolved")
		return inst, nil
	}

	inst, err := c.GetNew(id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	// A concurrent or nested Get may have cached id first; keep that one.
	if existing, ok := c.instances[id]; ok {
		inst = existing
	} else {
		c.instances[id] = inst
	}
	c.mu.Unlock()

	return inst, nil
}

// GetNew always resolves id afresh. It neither reads nor writes the cache.
func (c *Container) GetNew(id string) (any, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return c.resolve(id)
}

// ── Reflect helpers ───────────────────────────────────────────────────────────

// TypeKey returns the package-qualified type name of v, useful as a stable
// type name for Types.Register. It returns "" for a nil interface.
//
//	key := container.TypeKey((*UserRepository)(nil))  // "main.UserRepository"
func TypeKey(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.PkgPath() + "." + t.Name()
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// Resolve calls Get and type-asserts the result.
//
//	db, err := container.Resolve[*sql.DB](c, "db")
func Resolve[T any](c *Container, id string) (T, error) {
	inst, err := c.Get(id)
	return assertType[T](id, inst, err)
}

// ResolveNew calls GetNew and type-asserts the result.
func ResolveNew[T any](c *Container, id string) (T, error) {
	inst, err := c.GetNew(id)
	return assertType[T](id, inst, err)
}

// MustResolve is like Resolve but panics on failure.
func MustResolve[T any](c *Container, id string) T {
	v, err := Resolve[T](c, id)
	if err != nil {
		panic(err)
	}
	return v
}

func assertType[T any](id string, instance any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	v, ok := instance.(T)
	if !ok {
		want := reflect.TypeOf((*T)(nil)).Elem()
		return zero, fmt.Errorf("container: [%s] resolved to %T, expected %v", id, instance, want)
	}
	return v, nil
}
