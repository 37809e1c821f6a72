// Package module wires the roster API using modkit
package module

import (
	"net/http"

	modkit "warmintro/internal/modkit"
	"warmintro/internal/modkit/httpkit"
	str "warmintro/internal/platform/strings"
	rosterhttp "warmintro/internal/services/api/roster/http"
	"warmintro/internal/services/roster/domain"
)

// Module implements the roster API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws      []func(http.Handler) http.Handler
	ports    any
	register func(httpkit.Router)
}

// New constructs the roster API module over the roster service ports
func New(deps modkit.Deps, reader domain.ReaderPort, writer domain.WriterPort, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("roster"), modkit.WithPrefix("/roster"),
	}, opts...)...)

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
	}
	ports := rosterhttp.Ports{Reader: reader, Writer: writer}
	m.ports = ports

	external := b.Register
	m.register = func(r httpkit.Router) {
		rosterhttp.Register(r, ports)
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
