package pipeline

import (
	"context"
	"time"
)

// Operation names reported to observers.
const (
	OperationPreprocess = "preprocess_goal"
	OperationGenerate   = "generate_resolution"
	OperationEvaluate   = "evaluate_resolution_quality"
	OperationPlan       = "create_execution_plan"
	OperationCoach      = "generate_coaching_response"
	OperationEndToEnd   = "end_to_end_pipeline"
)

// Observation describes one finished operation. Outputs is nil when Err is set.
type Observation struct {
	Name     string
	RunID    string
	Inputs   map[string]interface{}
	Outputs  map[string]interface{}
	Err      error
	Started  time.Time
	Duration time.Duration
}

// Observer receives an Observation after every operation. Implementations
// must not block for long; they run on the caller's goroutine.
type Observer interface {
	Observe(ctx context.Context, obs Observation)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, obs Observation)

func (f ObserverFunc) Observe(ctx context.Context, obs Observation) {
	f(ctx, obs)
}

// MultiObserver fans each observation out to every non-nil observer in order.
func MultiObserver(observers ...Observer) Observer {
	out := make(multiObserver, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

type multiObserver []Observer

// Observe delivers obs to every observer even when one panics. The first
// panic is raised again after the rest have run.
func (m multiObserver) Observe(ctx context.Context, obs Observation) {
	var first interface{}
	for _, o := range m {
		if r := observeOne(ctx, o, obs); r != nil && first == nil {
			first = r
		}
	}
	if first != nil {
		panic(first)
	}
}

func observeOne(ctx context.Context, o Observer, obs Observation) (recovered interface{}) {
	defer func() {
		recovered = recover()
	}()
	o.Observe(ctx, obs)
	return nil
}
