// Package module implements the match service module
package module

import (
	"warmintro/internal/modkit"
	"warmintro/internal/modkit/httpkit"
	"warmintro/internal/services/match/domain"
	"warmintro/internal/services/match/service"
	rosterdom "warmintro/internal/services/roster/domain"
)

// Ports exposed by the match module
type Ports struct {
	Matcher domain.MatcherPort
}

// Module implements the match service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new match module wired to the roster reader
func New(deps modkit.Deps, roster rosterdom.ReaderPort) *Module {
	svc, err := service.New(roster, service.Config{})
	if err != nil {
		panic(err)
	}

	m := &Module{deps: deps}
	m.ports = Ports{Matcher: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "match" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
