package http

import (
	"fmt"
	"net/http"

	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/routing"
)

// Definition describes one identifier set in the container.
type Definition struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Resolved bool   `json:"resolved"`
	Type     string `json:"type"`
}

// TypeInfo describes one constructible type.
type TypeInfo struct {
	Name   string      `json:"name"`
	Params []ParamInfo `json:"params"`
}

type ParamInfo struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Type       string `json:"type"`
	Ref        string `json:"ref,omitempty"`
	HasDefault bool   `json:"has_default"`
}

// Inspector serves a read-only JSON view of a container. It never resolves
// anything, so looking does not change what is cached.
type Inspector struct {
	c *container.Container
}

// NewInspector creates an Inspector over c.
func NewInspector(c *container.Container) *Inspector {
	return &Inspector{c: c}
}

// Register adds the inspector routes to r:
//
//	GET /definitions
//	GET /definitions/{id}
//	GET /types
func (i *Inspector) Register(r *routing.Router) {
	r.Get("/definitions", i.listDefinitions)
	r.Get("/definitions/{id}", i.showDefinition)
	r.Get("/types", i.listTypes)
}

// Definitions returns every definition, sorted by identifier.
func (i *Inspector) Definitions() []Definition {
	ids := i.c.Identifiers()
	out := make([]Definition, 0, len(ids))
	for _, id := range ids {
		if d, err := i.Definition(id); err == nil {
			out = append(out, d)
		}
	}
	return out
}

// Definition describes id without resolving it.
func (i *Inspector) Definition(id string) (Definition, error) {
	def, err := i.c.GetDefinition(id)
	if err != nil {
		return Definition{}, err
	}
	return Definition{
		ID:       id,
		Kind:     i.c.Kind(id).String(),
		Resolved: i.c.Resolved(id),
		Type:     fmt.Sprintf("%T", def),
	}, nil
}

// Types returns every constructible type, sorted by name.
func (i *Inspector) Types() []TypeInfo {
	types := i.c.Types()
	names := types.Names()
	out := make([]TypeInfo, 0, len(names))
	for _, name := range names {
		class, ok := types.Lookup(name)
		if !ok {
			continue
		}
		info := TypeInfo{Name: name, Params: make([]ParamInfo, len(class.Params))}
		for n, p := range class.Params {
			info.Params[n] = ParamInfo{
				Name:       p.Name,
				Kind:       p.Kind.String(),
				Type:       class.ArgType(n).String(),
				Ref:        p.TypeName,
				HasDefault: p.HasDefault(),
			}
		}
		out = append(out, info)
	}
	return out
}

func (i *Inspector) listDefinitions(w http.ResponseWriter, _ *http.Request) {
	NewResponse(w).Success(i.Definitions())
}

func (i *Inspector) showDefinition(w http.ResponseWriter, r *http.Request) {
	res := NewResponse(w)
	d, err := i.Definition(routing.Param(r, "id"))
	if err != nil {
		res.FromError(err)
		return
	}
	res.Success(d)
}

func (i *Inspector) listTypes(w http.ResponseWriter, _ *http.Request) {
	NewResponse(w).Success(i.Types())
}
