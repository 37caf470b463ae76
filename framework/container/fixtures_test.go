package container_test

import (
	"sync/atomic"

	"github.com/km-arc/go-container/framework/container"
)

// ── fixtures ──────────────────────────────────────────────────────────────────

var tick atomic.Int64

// nextTick stands in for a wall-clock reading that differs on every call.
func nextTick() int64 { return tick.Add(1) }

type StdClass struct{}

type DummyName struct{ name string }

func NewDummyName(name string) *DummyName { return &DummyName{name: name} }

func (n *DummyName) Get() string     { return n.name }
func (n *DummyName) Set(name string) { n.name = name }

type DummyData struct {
	name *DummyName
	time any
}

func NewDummyData(name *DummyName, time any) *DummyData {
	return &DummyData{name: name, time: time}
}

func (d *DummyData) Name() *DummyName { return d.name }
func (d *DummyData) Time() any        { return d.time }

type DummyFactory struct{ time any }

func NewDummyFactory(time any) *DummyFactory {
	if time == nil {
		time = nextTick()
	}
	return &DummyFactory{time: time}
}

func (f *DummyFactory) Create(c *container.Container) (any, error) {
	name, err := container.Resolve[*DummyName](c, "DummyName")
	if err != nil {
		return nil, err
	}
	return NewDummyData(name, f.time), nil
}

type AutoWiringInterface interface {
	Data() *DummyData
}

type AutoWiring struct {
	data  *DummyData
	array []string
	n     int
	s     string
}

func NewAutoWiring(data *DummyData, array []string, n int, s string) *AutoWiring {
	return &AutoWiring{data: data, array: array, n: n, s: s}
}

func (a *AutoWiring) Data() *DummyData { return a.data }

type AutoWiringScalarNotDefault struct {
	n int
	s string
}

func NewAutoWiringScalarNotDefault(n int, s string) *AutoWiringScalarNotDefault {
	return &AutoWiringScalarNotDefault{n: n, s: s}
}

// AutoWiringDummyFactory delegates to the DummyFactory type.
type AutoWiringDummyFactory struct{}

func (AutoWiringDummyFactory) Create(c *container.Container) (any, error) {
	return c.Get("DummyFactory")
}

type AutoWiringFactory struct{ wiring AutoWiringInterface }

func NewAutoWiringFactory(wiring AutoWiringInterface) *AutoWiringFactory {
	return &AutoWiringFactory{wiring: wiring}
}

func (f *AutoWiringFactory) Create(c *container.Container) (any, error) {
	if f.wiring != nil {
		return f.wiring, nil
	}
	return c.Get("AutoWiring")
}

// newTypes returns a table with every fixture registered.
func newTypes() *container.Types {
	types := container.NewTypes()
	types.MustRegister("StdClass", func() *StdClass { return &StdClass{} })
	types.MustRegister("DummyName", NewDummyName,
		container.Scalar("name").WithDefault("Test Name"),
	)
	types.MustRegister("DummyData", NewDummyData,
		container.Ref("name", "DummyName"),
		container.Untyped("time").WithDefault(nil),
	)
	types.MustRegister("DummyFactory", NewDummyFactory,
		container.Untyped("time").WithDefault(nil),
	)
	types.MustRegister("AutoWiring", NewAutoWiring,
		container.Ref("dummyData", "DummyData"),
		container.Collection("array"),
		container.Scalar("int").WithDefault(100),
		container.Scalar("string").WithDefault("string"),
	)
	types.MustRegister("AutoWiringScalarNotDefault", NewAutoWiringScalarNotDefault,
		container.Scalar("int"),
		container.Scalar("string"),
	)
	types.MustRegister("AutoWiringDummyFactory", func() AutoWiringDummyFactory { return AutoWiringDummyFactory{} })
	types.MustRegister("AutoWiringFactory", NewAutoWiringFactory,
		container.Ref("autoWiring", "AutoWiringInterface").WithDefault(nil),
	)
	return types
}

func newContainer(opts ...container.Option) *container.Container {
	return container.New(append([]container.Option{container.WithTypes(newTypes())}, opts...)...)
}
