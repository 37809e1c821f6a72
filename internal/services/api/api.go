// Package api provides the HTTP API for the application
package api

import (
	"warmintro/internal/platform/config"
	"warmintro/internal/platform/logger"
	phttp "warmintro/internal/platform/net/http"
	"warmintro/internal/platform/store"

	"warmintro/internal/modkit"
	"warmintro/internal/modkit/httpkit"
	"warmintro/internal/modkit/module"

	matchapi "warmintro/internal/services/api/match/module"
	metamod "warmintro/internal/services/api/meta/module"
	pipeapi "warmintro/internal/services/api/pipeline/module"
	rosterapi "warmintro/internal/services/api/roster/module"

	matchmod "warmintro/internal/services/match/module"
	pipemod "warmintro/internal/services/pipeline/module"
	rostermod "warmintro/internal/services/roster/module"
)

// Options are the API options
type Options struct {
	Config        config.Conf
	Store         *store.Store
	Logger        *logger.Logger
	EnableSwagger bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	// service modules first so their ports can feed the API modules
	roster := rostermod.New(deps)
	rosterPorts := roster.Ports().(rostermod.Ports)

	match := matchmod.New(deps, rosterPorts.Reader)
	matchPorts := match.Ports().(matchmod.Ports)

	pipe := pipemod.New(deps)
	pipePorts := pipe.Ports().(pipemod.Ports)

	mods := []module.Module{
		metamod.New(deps),
		rosterapi.New(deps, rosterPorts.Reader, rosterPorts.Writer),
		matchapi.New(deps, matchPorts.Matcher),
		pipeapi.New(deps, pipePorts.Tracker, pipePorts.Sweeper),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		phttp.MountSwagger(r, opt.EnableSwagger)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			m.MountRoutes(api)
		}
	})
}
