package pipeline

import "rein-coach/internal/common/logger"

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used by the orchestrator and every stage.
func WithLogger(log logger.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.logger = log
		}
	}
}

// WithObserver attaches an observer. Passing nil leaves observation off.
func WithObserver(o Observer) Option {
	return func(p *Pipeline) {
		p.observer = o
	}
}
