package study

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/signalnine/hyperdrome/internal/objective"
	"github.com/signalnine/hyperdrome/internal/result"
)

// Direction says whether lower or higher objective values win.
type Direction int

const (
	Minimize Direction = iota
	Maximize
)

func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "minimize":
		return Minimize, nil
	case "maximize":
		return Maximize, nil
	default:
		return 0, fmt.Errorf("unknown direction %q (want minimize or maximize)", s)
	}
}

func (d Direction) String() string {
	if d == Maximize {
		return "maximize"
	}
	return "minimize"
}

// Study drives a sweep: it owns trial numbering, runs the objective for each
// trial, and tracks the best value seen. Trials may run in parallel; each
// objective call stays synchronous from its worker's point of view.
type Study struct {
	ID        string
	Direction Direction
	Sampler   Sampler
	RunDir    string // when set, a meta.json is written per trial
	Log       logrus.FieldLogger
}

func New(direction Direction, sampler Sampler, log logrus.FieldLogger) *Study {
	return &Study{
		ID:        xid.New().String(),
		Direction: direction,
		Sampler:   sampler,
		Log:       log,
	}
}

type Result struct {
	BestTrial string
	BestValue float64
	Completed int
	Failed    int
}

// Optimize evaluates the objective for trial numbers 0..trials-1, at most
// parallel at a time. A failed trial is recorded and the sweep continues;
// Optimize errors only when nothing completed. Cancelling ctx stops new
// trials from launching.
func (s *Study) Optimize(ctx context.Context, obj objective.Func, trials, parallel int) (*Result, error) {
	if trials < 1 {
		return nil, fmt.Errorf("trials must be at least 1")
	}

	best := math.Inf(1)
	if s.Direction == Maximize {
		best = math.Inf(-1)
	}
	res := &Result{BestValue: best}
	var mu sync.Mutex

	runPool(ctx, parallel, trials, func(n int) {
		t := newTrial(n, s.Sampler)
		start := time.Now()
		v, err := obj(ctx, t)
		if err != nil {
			s.Log.WithError(err).WithField("trial", t.ID()).Warn("trial failed")
		}
		s.finish(t, v, err, time.Since(start), res, &mu)
	})

	if res.Completed == 0 {
		return nil, fmt.Errorf("no trials completed (%d failed)", res.Failed)
	}
	return res, nil
}

func (s *Study) finish(t *trial, value float64, err error, elapsed time.Duration, res *Result, mu *sync.Mutex) {
	meta := &result.TrialMeta{
		Study:     s.ID,
		Trial:     t.ID(),
		Params:    t.Params(),
		DurationS: int(elapsed.Seconds()),
	}

	mu.Lock()
	switch {
	case err == nil:
		meta.State = "completed"
		meta.Value = value
		res.Completed++
		if s.better(value, res.BestValue) {
			res.BestValue = value
			res.BestTrial = t.ID()
		}
	case isTimeout(err):
		meta.State = "timeout"
		meta.Error = err.Error()
		res.Failed++
	default:
		meta.State = "failed"
		meta.Error = err.Error()
		res.Failed++
	}
	mu.Unlock()

	if s.RunDir != "" {
		if werr := result.WriteTrialMeta(result.TrialDir(s.RunDir, t.ID()), meta); werr != nil {
			s.Log.WithError(werr).Warn("writing trial meta")
		}
	}
}

func (s *Study) better(v, best float64) bool {
	if s.Direction == Maximize {
		return v > best
	}
	return v < best
}

func isTimeout(err error) bool {
	var terr *result.TimeoutError
	return errors.As(err, &terr)
}
