package common

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/panics"
)

// Give the timed executor a task and a period.
// Run executes the task once straight away and then every period
// until the context is done. A task that panics is logged and
// the following executions still take place
type TimedExecutor struct {
	period time.Duration
	task   func(context.Context)
}

// Create a timed executor provided a period and a task
func NewTimedExecutor(period time.Duration, task func(context.Context)) TimedExecutor {
	return TimedExecutor{period, task}
}

func (te *TimedExecutor) Run(ctx context.Context) {
	ticker := time.NewTicker(te.period)
	defer ticker.Stop()
	for ctx.Err() == nil {
		te.Execute(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Execute the task once, recovering from any panic
func (te *TimedExecutor) Execute(ctx context.Context) {
	var catcher panics.Catcher
	catcher.Try(func() { te.task(ctx) })
	if recovered := catcher.Recovered(); recovered != nil {
		log.Error().Err(recovered.AsError()).Str("stack", string(recovered.Stack)).Msg("Timed task panicked")
	}
}
