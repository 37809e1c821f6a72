package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"warmintro/internal/modkit"
	"warmintro/internal/modkit/module"
	"warmintro/internal/platform/config"
	"warmintro/internal/platform/logger"
	"warmintro/internal/platform/store"

	pipemod "warmintro/internal/services/pipeline/module"
)

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	l := logger.Get()

	st, err := store.Open(context.Background(), store.Config{
		AppName: "warmintro-pipeline",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
		CH: store.CHConfig{
			Enabled: chCfg.MayString("DBURL", "") != "",
			URL:     chCfg.MayString("DBURL", ""),
			Role:    "pipeline",
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	var (
		fInterval = flag.Duration("interval", time.Hour, "how often to sweep overdue cards")
		fOnce     = flag.Bool("once", false, "run a single sweep and exit")
	)
	flag.Parse()

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		CH:  st.CH,
		Log: *l,
	}

	pm := pipemod.New(deps)
	module.Register(pm.Name(), pm.Ports())
	sweeper := module.MustPortsOf[pipemod.Ports](pm).Sweeper

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweep := func() {
		res, err := sweeper.Sweep(ctx, time.Now())
		if err != nil {
			l.Error().Err(err).Msg("sweep failed")
			return
		}
		for _, e := range res.Errors {
			l.Warn().Str("detail", e).Msg("card sweep error")
		}
	}

	sweep()
	if *fOnce {
		return
	}

	tick := time.NewTicker(*fInterval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			l.Info().Msg("pipeline sweeper shutting down")
			return
		case <-tick.C:
			sweep()
		}
	}
}
