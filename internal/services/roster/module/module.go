// Package module implements the roster service module
package module

import (
	"warmintro/internal/modkit"
	"warmintro/internal/modkit/httpkit"
	"warmintro/internal/services/roster/domain"
	"warmintro/internal/services/roster/repo"
	"warmintro/internal/services/roster/service"
)

// Ports exposed by the roster module
type Ports struct {
	Reader domain.ReaderPort
	Writer domain.WriterPort
}

// Module implements the roster service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new roster module
func New(deps modkit.Deps) *Module {
	svc := service.New(deps.PG, repo.NewPG())

	m := &Module{deps: deps}
	m.ports = Ports{
		Reader: svc,
		Writer: svc,
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "roster" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
