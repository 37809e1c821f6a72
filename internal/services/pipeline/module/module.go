// Package module implements the pipeline service module
package module

import (
	"time"

	"warmintro/internal/modkit"
	"warmintro/internal/modkit/httpkit"
	"warmintro/internal/services/pipeline/domain"
	"warmintro/internal/services/pipeline/service"
)

// Ports exposed by the pipeline module
type Ports struct {
	Tracker domain.TrackerPort
	Sweeper domain.SweeperPort
}

// Module implements the pipeline service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new pipeline module
func New(deps modkit.Deps) *Module {
	followUp := time.Duration(deps.Cfg.MayInt("PIPELINE_FOLLOWUP_DAYS", 5)) * 24 * time.Hour
	svc := service.New(deps.PG, deps.CH, deps.Log, service.Config{
		FollowUpAfter: followUp,
	})

	m := &Module{deps: deps}
	m.ports = Ports{
		Tracker: svc,
		Sweeper: svc,
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "pipeline" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
