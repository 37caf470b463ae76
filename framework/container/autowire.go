package container

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"sync"
)

// ── Parameter descriptors ─────────────────────────────────────────────────────

// ParamKind classifies a constructor parameter for autowiring.
type ParamKind int

const (
	// ParamReference is an object dependency named by a type name or identifier.
	ParamReference ParamKind = iota
	// ParamScalar is a bool, numeric or string argument.
	ParamScalar
	// ParamCollection is a slice, map or array argument.
	ParamCollection
	// ParamUntyped accepts any value and can only be filled from a default.
	ParamUntyped
)

func (k ParamKind) String() string {
	switch k {
	case ParamReference:
		return "reference"
	case ParamScalar:
		return "scalar"
	case ParamCollection:
		return "collection"
	case ParamUntyped:
		return "untyped"
	default:
		return fmt.Sprintf("ParamKind(%d)", int(k))
	}
}

// Param describes one constructor argument. Build it with Ref, Scalar,
// Collection or Untyped and optionally attach a default.
type Param struct {
	Name     string
	Kind     ParamKind
	TypeName string // references only

	def        any
	defFunc    func() (any, error)
	hasDefault bool
}

// Ref describes a dependency resolved through the container under typeName.
//
//	container.Ref("logger", "Logger")
func Ref(name, typeName string) Param {
	return Param{Name: name, Kind: ParamReference, TypeName: typeName}
}

// Scalar describes a bool, numeric or string argument.
func Scalar(name string) Param {
	return Param{Name: name, Kind: ParamScalar}
}

// Collection describes a slice, map or array argument. Without a default it
// receives an empty collection.
func Collection(name string) Param {
	return Param{Name: name, Kind: ParamCollection}
}

// Untyped describes an argument of interface type with no container meaning.
func Untyped(name string) Param {
	return Param{Name: name, Kind: ParamUntyped}
}

// WithDefault returns a copy of p using v when the container cannot supply a value.
func (p Param) WithDefault(v any) Param {
	p.def, p.defFunc, p.hasDefault = v, nil, true
	return p
}

// WithDefaultFunc is like WithDefault but evaluates fn at construction time.
// An error from fn fails the construction.
func (p Param) WithDefaultFunc(fn func() (any, error)) Param {
	p.def, p.defFunc, p.hasDefault = nil, fn, true
	return p
}

// HasDefault reports whether a default is attached.
func (p Param) HasDefault() bool { return p.hasDefault }

func (p Param) defaultValue() (any, error) {
	if p.defFunc != nil {
		return p.defFunc()
	}
	return p.def, nil
}

// ── Class ─────────────────────────────────────────────────────────────────────

// Class is a constructible type: a constructor function plus one Param per
// constructor argument.
type Class struct {
	Name   string
	Params []Param

	fn           reflect.Value
	argTypes     []reflect.Type
	returnsError bool
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// newClass validates ctor against params.
func newClass(name string, ctor any, params []Param) (*Class, error) {
	if name == "" {
		return nil, fmt.Errorf("type name cannot be empty")
	}
	if ctor == nil {
		return nil, fmt.Errorf("type %q: constructor cannot be nil", name)
	}

	fn := reflect.ValueOf(ctor)
	fnType := fn.Type()
	if fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("type %q: constructor must be a function, got %v", name, fnType)
	}
	if fnType.IsVariadic() {
		return nil, fmt.Errorf("type %q: variadic constructors are not supported", name)
	}

	switch fnType.NumOut() {
	case 1:
	case 2:
		if !fnType.Out(1).Implements(errorType) {
			return nil, fmt.Errorf("type %q: constructor's second return value must be error, got %v", name, fnType.Out(1))
		}
	default:
		return nil, fmt.Errorf("type %q: constructor must return (T) or (T, error), got %d return values", name, fnType.NumOut())
	}

	if fnType.NumIn() != len(params) {
		return nil, fmt.Errorf("type %q: constructor takes %d arguments, %d parameters described", name, fnType.NumIn(), len(params))
	}

	argTypes := make([]reflect.Type, len(params))
	for i, p := range params {
		t := fnType.In(i)
		if p.Name == "" {
			return nil, fmt.Errorf("type %q: parameter %d has no name", name, i)
		}
		switch p.Kind {
		case ParamReference:
			if p.TypeName == "" {
				return nil, fmt.Errorf("type %q: reference parameter %q has no type name", name, p.Name)
			}
		case ParamScalar:
			if !isScalarKind(t.Kind()) {
				return nil, fmt.Errorf("type %q: scalar parameter %q has non-scalar type %v", name, p.Name, t)
			}
		case ParamCollection:
			if !isCollectionKind(t.Kind()) {
				return nil, fmt.Errorf("type %q: collection parameter %q has non-collection type %v", name, p.Name, t)
			}
		case ParamUntyped:
		default:
			return nil, fmt.Errorf("type %q: parameter %q has unknown kind %v", name, p.Name, p.Kind)
		}
		if p.hasDefault && p.defFunc == nil {
			if _, err := convertArg(p.def, t); err != nil {
				return nil, fmt.Errorf("type %q: default for parameter %q: %w", name, p.Name, err)
			}
		}
		argTypes[i] = t
	}

	return &Class{
		Name:         name,
		Params:       append([]Param(nil), params...),
		fn:           fn,
		argTypes:     argTypes,
		returnsError: fnType.NumOut() == 2,
	}, nil
}

// ArgType returns the Go type of the i-th constructor argument.
func (c *Class) ArgType(i int) reflect.Type {
	return c.argTypes[i]
}

// ── Types ─────────────────────────────────────────────────────────────────────

// Types maps type names to constructors. It stands in for runtime lookup of
// types by name: only names registered here are constructible.
type Types struct {
	mu      sync.RWMutex
	classes map[string]*Class
}

// NewTypes creates an empty table.
func NewTypes() *Types {
	return &Types{classes: make(map[string]*Class)}
}

// Register adds or replaces a constructible type.
//
//	types.Register("Mailer", NewMailer,
//	    container.Ref("transport", "Transport"),
//	    container.Scalar("retries").WithDefault(3),
//	)
func (t *Types) Register(name string, ctor any, params ...Param) error {
	class, err := newClass(name, ctor, params)
	if err != nil {
		return fmt.Errorf("container: %w", err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.classes[name] = class
	return nil
}

// MustRegister is like Register but panics on an invalid entry.
func (t *Types) MustRegister(name string, ctor any, params ...Param) {
	if err := t.Register(name, ctor, params...); err != nil {
		panic(err)
	}
}

// Has reports whether name is a constructible type.
func (t *Types) Has(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.classes[name]
	return ok
}

// Lookup returns the class registered under name.
func (t *Types) Lookup(name string) (*Class, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	class, ok := t.classes[name]
	return class, ok
}

// Names returns all registered type names, sorted.
func (t *Types) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.classes))
	for name := range t.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ── Construction ──────────────────────────────────────────────────────────────

// construct builds class, resolving each parameter in declaration order.
func (c *Container) construct(class *Class) (any, error) {
	args := make([]reflect.Value, len(class.Params))
	for i, p := range class.Params {
		arg, err := c.argument(class, p, class.argTypes[i])
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}

	c.logger().Debug().Str("type", class.Name).Int("args", len(args)).Msg("invoking constructor")

	out := class.fn.Call(args)
	if class.returnsError && !out[1].IsNil() {
		return nil, wrapFailure(class.Name, "constructor returned an error", out[1].Interface().(error))
	}
	return out[0].Interface(), nil
}

func (c *Container) argument(class *Class, p Param, t reflect.Type) (reflect.Value, error) {
	if p.Kind == ParamReference && (c.Has(p.TypeName) || c.types.Has(p.TypeName)) {
		dep, err := c.Get(p.TypeName)
		if err != nil {
			return reflect.Value{}, err
		}
		return assignArg(class, p, dep, t)
	}

	if p.Kind == ParamCollection && !p.hasDefault {
		return emptyCollection(t), nil
	}

	if p.hasDefault {
		v, err := p.defaultValue()
		if err != nil {
			return reflect.Value{}, &ConstructionError{
				Type:   class.Name,
				Param:  p.Name,
				Reason: "unable to get default value of constructor parameter",
				Cause:  err,
			}
		}
		return assignArg(class, p, v, t)
	}

	return reflect.Value{}, &ConstructionError{
		Type:   class.Name,
		Param:  p.Name,
		Reason: "unable to process a constructor parameter",
	}
}

func assignArg(class *Class, p Param, v any, t reflect.Type) (reflect.Value, error) {
	rv, err := convertArg(v, t)
	if err != nil {
		return reflect.Value{}, &ConstructionError{Type: class.Name, Param: p.Name, Reason: err.Error()}
	}
	return rv, nil
}

// convertArg turns v into a value of type t.
func convertArg(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		if isNillable(t.Kind()) {
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("nil is not assignable to %v", t)
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	if isNumericKind(rv.Kind()) && isNumericKind(t.Kind()) {
		if err := checkNumeric(rv, t); err != nil {
			return reflect.Value{}, err
		}
		return rv.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("value of type %v is not assignable to %v", rv.Type(), t)
}

// checkNumeric rejects conversions that would change the value: dropping a
// fraction, flipping a sign or overflowing t.
func checkNumeric(rv reflect.Value, t reflect.Type) error {
	target := reflect.Zero(t)
	lossy := func() error {
		return fmt.Errorf("value %v of type %v does not fit in %v", rv.Interface(), rv.Type(), t)
	}

	switch {
	case isIntKind(t.Kind()):
		switch {
		case isIntKind(rv.Kind()):
			if target.OverflowInt(rv.Int()) {
				return lossy()
			}
		case isUintKind(rv.Kind()):
			if rv.Uint() > math.MaxInt64 || target.OverflowInt(int64(rv.Uint())) {
				return lossy()
			}
		default:
			f := rv.Float()
			if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 || target.OverflowInt(int64(f)) {
				return lossy()
			}
		}
	case isUintKind(t.Kind()):
		switch {
		case isIntKind(rv.Kind()):
			if rv.Int() < 0 || target.OverflowUint(uint64(rv.Int())) {
				return lossy()
			}
		case isUintKind(rv.Kind()):
			if target.OverflowUint(rv.Uint()) {
				return lossy()
			}
		default:
			f := rv.Float()
			if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 || target.OverflowUint(uint64(f)) {
				return lossy()
			}
		}
	default:
		var f float64
		switch {
		case isIntKind(rv.Kind()):
			f = float64(rv.Int())
		case isUintKind(rv.Kind()):
			f = float64(rv.Uint())
		default:
			f = rv.Float()
		}
		if target.OverflowFloat(f) {
			return lossy()
		}
	}
	return nil
}

func emptyCollection(t reflect.Type) reflect.Value {
	switch t.Kind() {
	case reflect.Slice:
		return reflect.MakeSlice(t, 0, 0)
	case reflect.Map:
		return reflect.MakeMap(t)
	default:
		return reflect.Zero(t)
	}
}

func isNillable(k reflect.Kind) bool {
	switch k {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

func isNumericKind(k reflect.Kind) bool {
	return isIntKind(k) || isUintKind(k) || k == reflect.Float32 || k == reflect.Float64
}

func isIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUintKind(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isScalarKind(k reflect.Kind) bool {
	return k == reflect.Bool || k == reflect.String || isNumericKind(k)
}

func isCollectionKind(k reflect.Kind) bool {
	return k == reflect.Slice || k == reflect.Map || k == reflect.Array
}
