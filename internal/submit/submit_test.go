package submit_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/signalnine/hyperdrome/internal/submit"
)

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)
	return log
}

// writeScript drops an executable shell script into a temp dir.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("writing script: %v", err)
	}
	return path
}

func TestCommandSubmitterArgumentOrder(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "argv.txt")
	script := writeScript(t, `echo "$@" > `+outPath)

	s := &submit.CommandSubmitter{Command: "sh", Log: testLogger()}
	req := &submit.Request{
		Script:      script,
		ResultsPath: "/data/results.csv",
		TrialID:     "7",
		Args:        []string{"3000", "0.003", "sgd"},
	}
	if err := s.Submit(context.Background(), req); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading argv capture: %v", err)
	}
	want := "/data/results.csv 7 3000 0.003 sgd"
	if got := strings.TrimSpace(string(data)); got != want {
		t.Errorf("job argv = %q, want %q", got, want)
	}
}

func TestCommandSubmitterFailure(t *testing.T) {
	script := writeScript(t, `echo "queue is full" >&2; exit 1`)

	s := &submit.CommandSubmitter{Command: "sh", Log: testLogger()}
	err := s.Submit(context.Background(), &submit.Request{
		Script:      script,
		ResultsPath: "results.csv",
		TrialID:     "3",
	})
	var serr *submit.SubmitError
	if !errors.As(err, &serr) {
		t.Fatalf("got %v, want *submit.SubmitError", err)
	}
	if !strings.Contains(serr.Stderr, "queue is full") {
		t.Errorf("stderr not captured: %q", serr.Stderr)
	}
}

func TestCommandSubmitterMissingCommand(t *testing.T) {
	s := &submit.CommandSubmitter{Command: "hyperdrome-no-such-scheduler", Log: testLogger()}
	err := s.Submit(context.Background(), &submit.Request{Script: "job.sh", TrialID: "1"})
	var serr *submit.SubmitError
	if !errors.As(err, &serr) {
		t.Fatalf("got %v, want *submit.SubmitError", err)
	}
}
