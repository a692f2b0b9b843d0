package main

import (
	"context"

	"rein-coach/internal/common/observability"
	"rein-coach/internal/pipeline"
)

// setupObservers builds the pipeline observer for a command. Tracing is
// installed only when enabled in config; metrics only when withMetrics is set.
// The returned shutdown flushes whatever was started.
func setupObservers(ctx context.Context, withMetrics bool) (pipeline.Observer, func(context.Context), error) {
	var observers []pipeline.Observer
	var shutdowns []func(context.Context) error

	if cfg.Observability.Tracing {
		tp, err := observability.InitTracing(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		observers = append(observers, observability.NewSpanObserver(tp))
		shutdowns = append(shutdowns, tp.Shutdown)
	}

	if withMetrics {
		obs, err := observability.New(cfg.Observability.ServiceName, nil)
		if err != nil {
			return nil, nil, err
		}
		observers = append(observers, obs)
		shutdowns = append(shutdowns, obs.Shutdown)
	}

	shutdown := func(ctx context.Context) {
		for _, fn := range shutdowns {
			if err := fn(ctx); err != nil {
				log.Warn("observability shutdown failed", map[string]interface{}{"error": err.Error()})
			}
		}
	}

	if len(observers) == 0 {
		return nil, shutdown, nil
	}
	return pipeline.MultiObserver(observers...), shutdown, nil
}

// newPipeline builds the Gemini-backed pipeline from the loaded config.
func newPipeline(ctx context.Context, observer pipeline.Observer) (*pipeline.Pipeline, error) {
	opts := []pipeline.Option{pipeline.WithLogger(log)}
	if observer != nil {
		opts = append(opts, pipeline.WithObserver(observer))
	}
	return pipeline.New(ctx, pipeline.ConfigFrom(cfg), opts...)
}
