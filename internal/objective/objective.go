package objective

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/signalnine/hyperdrome/internal/loss"
	"github.com/signalnine/hyperdrome/internal/param"
	"github.com/signalnine/hyperdrome/internal/result"
	"github.com/signalnine/hyperdrome/internal/submit"
)

// Func evaluates one trial and returns its scalar loss, matching the search
// driver's per-trial evaluation contract.
type Func func(ctx context.Context, trial param.Trial) (float64, error)

type Opts struct {
	Script      string
	ResultsPath string
	Spec        param.Spec
	Loss        loss.Loss
	Submitter   submit.Submitter
	Waiter      *result.Waiter
	Log         logrus.FieldLogger
}

// New composes suggester, submitter, waiter and loss into a single objective.
// Each error kind surfaces unchanged to the caller, which decides whether to
// mark the trial failed or abort the sweep; no retries happen here.
func New(opts *Opts) Func {
	return func(ctx context.Context, trial param.Trial) (float64, error) {
		values, err := param.Suggest(opts.Spec, trial)
		if err != nil {
			return 0, err
		}

		req := &submit.Request{
			Script:      opts.Script,
			ResultsPath: opts.ResultsPath,
			TrialID:     trial.ID(),
			Args:        param.Args(values),
		}
		if err := opts.Submitter.Submit(ctx, req); err != nil {
			return 0, err
		}

		row, err := opts.Waiter.Wait(ctx, opts.ResultsPath, trial.ID())
		if err != nil {
			return 0, err
		}

		v, err := opts.Loss.Calculate(row)
		if err != nil {
			return 0, err
		}
		opts.Log.WithFields(logrus.Fields{"trial": trial.ID(), "value": v}).Info("trial evaluated")
		return v, nil
	}
}
