// Package module wires the match API using modkit
package module

import (
	"net/http"

	modkit "warmintro/internal/modkit"
	"warmintro/internal/modkit/httpkit"
	str "warmintro/internal/platform/strings"
	matchhttp "warmintro/internal/services/api/match/http"
	"warmintro/internal/services/match/domain"
)

// Module implements the match API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws      []func(http.Handler) http.Handler
	ports    any
	register func(httpkit.Router)
}

// New constructs the match API module over the matcher port
func New(deps modkit.Deps, matcher domain.MatcherPort, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("match"), modkit.WithPrefix("/match"),
	}, opts...)...)

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		ports:  matcher,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		matchhttp.Register(r, matcher)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Ports returns the module port bundle
func (m *Module) Ports() any { return m.ports }
