package dispatch

import (
	"context"

	"kisanmitra/internal/types"
)

// Runner binds a Dispatcher to a recipient source, giving the cron
// schedule and the manual ops trigger one entry point for a full run.
type Runner struct {
	recipients types.RecipientSource
	dispatcher *Dispatcher
}

// NewRunner creates a Runner.
func NewRunner(recipients types.RecipientSource, dispatcher *Dispatcher) *Runner {
	return &Runner{recipients: recipients, dispatcher: dispatcher}
}

// Run loads the active recipients and dispatches to all of them.
func (r *Runner) Run(ctx context.Context) (RunResult, error) {
	recipients, err := r.recipients.Active(ctx)
	if err != nil {
		return RunResult{}, err
	}
	return r.dispatcher.DispatchTo(ctx, recipients), nil
}
