//go:build integration

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/signalnine/hyperdrome/internal/loss"
	"github.com/signalnine/hyperdrome/internal/objective"
	"github.com/signalnine/hyperdrome/internal/param"
	"github.com/signalnine/hyperdrome/internal/result"
	"github.com/signalnine/hyperdrome/internal/study"
	"github.com/signalnine/hyperdrome/internal/submit"
)

// createJobScript writes a stand-in for a batch job: it backgrounds itself,
// sleeps briefly, then appends its result line, the same shape a detached
// scheduler job has from the bridge's point of view.
func createJobScript(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "job.sh")
	script := `#!/bin/sh
results="$1"
trial="$2"
trajectories="$3"
lr="$4"
opt="$5"
(
  sleep 0.2
  echo "$trial,$trajectories,$trajectories,$lr,$opt" >> "$results"
) > /dev/null 2>&1 &
`
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("writing job script: %v", err)
	}
	return path
}

func TestSweepEndToEnd(t *testing.T) {
	script := createJobScript(t)
	resultsPath := filepath.Join(t.TempDir(), "results.csv")
	runDir := t.TempDir()

	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	spec := param.Spec{
		{Name: "trajectories", Kind: param.Int, Min: 1, Max: 5000},
		{Name: "lr", Kind: param.Float, Min: 1e-5, Max: 1e-2, Log: true},
		{Name: "optimizer", Kind: param.Categorical, Choices: []string{"adam", "sgd"}},
	}

	obj := objective.New(&objective.Opts{
		Script:      script,
		ResultsPath: resultsPath,
		Spec:        spec,
		Loss:        loss.Field{Index: 0},
		Submitter:   &submit.CommandSubmitter{Command: "sh", Log: log},
		Waiter: &result.Waiter{
			Interval: 50 * time.Millisecond,
			MaxWait:  10 * time.Second,
			Log:      log,
		},
		Log: log,
	})

	s := study.New(study.Maximize, study.NewRandomSampler(42), log)
	s.RunDir = runDir

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	res, err := s.Optimize(ctx, obj, 4, 2)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if res.Completed != 4 {
		t.Fatalf("completed = %d, want 4", res.Completed)
	}

	// The job echoes trajectories as its first output, so the best value must
	// equal the best trial's recorded trajectories parameter.
	meta, err := result.ReadTrialMeta(filepath.Join(result.TrialDir(runDir, res.BestTrial), "meta.json"))
	if err != nil {
		t.Fatalf("reading best trial meta: %v", err)
	}
	if meta.Params["trajectories"] == "" {
		t.Fatal("best trial has no recorded trajectories param")
	}
	if got := meta.Value; got != res.BestValue {
		t.Errorf("meta value %v != study best %v", got, res.BestValue)
	}

	audit, err := result.AuditFile(resultsPath)
	if err != nil {
		t.Fatalf("AuditFile: %v", err)
	}
	if audit.Rows != 4 || audit.Malformed != 0 || len(audit.DuplicateIDs) != 0 {
		t.Errorf("results file audit: %+v", audit)
	}
}
