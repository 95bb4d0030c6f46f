package result

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// TimeoutError reports that no result row for the trial appeared within the
// wait budget. The external job is not killed; waiting is simply abandoned.
type TimeoutError struct {
	TrialID string
	Path    string
	Waited  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("no result for trial %s in %s after %s", e.TrialID, e.Path, e.Waited)
}

// Waiter blocks until a trial's result row lands in the shared results file.
// There is no push notification from the scheduler, so it either polls on a
// fixed interval or, with Watch set, reacts to filesystem events on the
// results directory (still bounded by the same budget).
type Waiter struct {
	Interval time.Duration // poll interval, default 5s
	MaxWait  time.Duration // wait budget, default 24h
	Watch    bool
	Log      logrus.FieldLogger
}

const (
	defaultInterval = 5 * time.Second
	defaultMaxWait  = 24 * time.Hour
)

func (w *Waiter) interval() time.Duration {
	if w.Interval > 0 {
		return w.Interval
	}
	return defaultInterval
}

func (w *Waiter) maxWait() time.Duration {
	if w.MaxWait > 0 {
		return w.MaxWait
	}
	return defaultMaxWait
}

// Wait scans the results file until a row tagged with trialID appears,
// returning the parsed row. Exceeding the wait budget fails with
// *TimeoutError so a stuck job cannot hang the whole run.
func (w *Waiter) Wait(ctx context.Context, path, trialID string) (Row, error) {
	log := w.Log.WithFields(logrus.Fields{"trial": trialID, "results": path})

	var events <-chan fsnotify.Event
	if w.Watch {
		watcher, err := fsnotify.NewWatcher()
		if err == nil {
			if err = watcher.Add(filepath.Dir(path)); err != nil {
				watcher.Close()
			}
		}
		if err != nil {
			log.WithError(err).Warn("file watch unavailable, falling back to polling")
		} else {
			defer watcher.Close()
			events = watcher.Events
		}
	}

	start := time.Now()
	deadline := start.Add(w.maxWait())
	bo := backoff.WithContext(backoff.NewConstantBackOff(w.interval()), ctx)
	log.Info("waiting for result")

	for {
		row, found, err := Scan(path, trialID)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", path, err)
		}
		if found {
			log.WithField("waited", time.Since(start).Round(time.Millisecond)).Info("result row found")
			return row, nil
		}
		if time.Now().After(deadline) {
			terr := &TimeoutError{TrialID: trialID, Path: path, Waited: w.maxWait()}
			log.Error(terr.Error())
			return nil, terr
		}

		d := bo.NextBackOff()
		if d == backoff.Stop {
			return nil, ctx.Err()
		}
		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-events:
			// Rescan on any event touching the results dir; an unrelated
			// event just costs one extra scan.
			timer.Stop()
		case <-timer.C:
		}
	}
}
