// Package module wires the pipeline API using modkit
package module

import (
	"net/http"

	modkit "warmintro/internal/modkit"
	"warmintro/internal/modkit/httpkit"
	str "warmintro/internal/platform/strings"
	pipehttp "warmintro/internal/services/api/pipeline/http"
	"warmintro/internal/services/pipeline/domain"
)

// Module implements the pipeline API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws      []func(http.Handler) http.Handler
	ports    any
	register func(httpkit.Router)
}

// New constructs the pipeline API module over the tracker and sweeper ports
func New(deps modkit.Deps, tracker domain.TrackerPort, sweeper domain.SweeperPort, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("pipeline"), modkit.WithPrefix("/pipeline"),
	}, opts...)...)

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
	}
	ports := pipehttp.Ports{Tracker: tracker, Sweeper: sweeper}
	m.ports = ports

	external := b.Register
	m.register = func(r httpkit.Router) {
		pipehttp.Register(r, ports)
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
