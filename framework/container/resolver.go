package container

import (
	"fmt"
	"reflect"
)

// Factory is implemented by values that build the real value for an
// identifier. A registered Factory, or a constructed type that implements
// Factory, is asked to Create the value instead of being returned itself.
type Factory interface {
	Create(c *Container) (any, error)
}

// Closure is a deferred computation: it is called with the container and its
// result is used as-is. Plain funcs of the shapes func(*Container) any and
// func() any are treated the same way.
type Closure func(c *Container) (any, error)

// Kind is how a definition is interpreted at resolution time.
type Kind int

const (
	KindLiteral Kind = iota
	KindClass
	KindFactory
	KindClosure
	KindUnregistered
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindClass:
		return "class"
	case KindFactory:
		return "factory"
	case KindClosure:
		return "closure"
	case KindUnregistered:
		return "unregistered"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Kind reports how id would be resolved right now. It returns
// KindUnregistered for an identifier with no definition, whether or not it
// names a constructible type.
func (c *Container) Kind(id string) Kind {
	def, err := c.GetDefinition(id)
	if err != nil {
		return KindUnregistered
	}
	return c.classify(def)
}

// classify decides the kind of a stored definition, in priority order.
func (c *Container) classify(def any) Kind {
	if name, ok := def.(string); ok && c.types.Has(name) {
		return KindClass
	}
	if _, ok := def.(Factory); ok {
		return KindFactory
	}
	if isClosure(def) {
		return KindClosure
	}
	return KindLiteral
}

func isClosure(def any) bool {
	switch def.(type) {
	case Closure, func(*Container) (any, error), func(*Container) any, func() any:
		return true
	}
	return false
}

func isFunc(def any) bool {
	t := reflect.TypeOf(def)
	return t != nil && t.Kind() == reflect.Func
}

// resolve produces a fresh value for id.
func (c *Container) resolve(id string) (any, error) {
	def, err := c.GetDefinition(id)
	if err != nil {
		class, ok := c.types.Lookup(id)
		if !ok {
			return nil, &NotFoundError{ID: id}
		}
		c.logger().Debug().Str("id", id).Str("kind", KindUnregistered.String()).Msg("autowiring unregistered type")
		return c.build(class)
	}

	kind := c.classify(def)
	c.logger().Debug().Str("id", id).Str("kind", kind.String()).Msg("resolving definition")

	switch kind {
	case KindClass:
		class, ok := c.types.Lookup(def.(string))
		if !ok {
			return nil, &NotFoundError{ID: def.(string)}
		}
		return c.build(class)
	case KindFactory:
		return c.create(id, def.(Factory))
	case KindClosure:
		return c.call(id, def)
	default:
		return def, nil
	}
}

// build constructs class and, if the result is itself a Factory, lets it
// create the final value.
func (c *Container) build(class *Class) (any, error) {
	inst, err := c.construct(class)
	if err != nil {
		return nil, err
	}
	if f, ok := inst.(Factory); ok {
		return c.create(class.Name, f)
	}
	return inst, nil
}

func (c *Container) create(name string, f Factory) (any, error) {
	v, err := f.Create(c)
	if err != nil {
		return nil, wrapFailure(name, "factory failed", err)
	}
	return v, nil
}

func (c *Container) call(id string, def any) (any, error) {
	var (
		v   any
		err error
	)
	switch fn := def.(type) {
	case Closure:
		v, err = fn(c)
	case func(*Container) (any, error):
		v, err = fn(c)
	case func(*Container) any:
		v = fn(c)
	case func() any:
		v = fn()
	}
	if err != nil {
		return nil, wrapFailure(id, "closure failed", err)
	}
	return v, nil
}
