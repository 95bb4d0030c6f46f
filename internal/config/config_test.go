package config_test

import (
	"testing"
	"time"

	"github.com/signalnine/hyperdrome/internal/config"
	"github.com/signalnine/hyperdrome/internal/param"
)

func TestLoadMinimal(t *testing.T) {
	cfg, err := config.Load("../../testdata/minimal.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Script != "test.submit" {
		t.Errorf("script = %q", cfg.Script)
	}
	if cfg.Scheduler.Backend != "command" || cfg.Scheduler.Command != "sbatch" {
		t.Errorf("scheduler defaults not applied: %+v", cfg.Scheduler)
	}
	if cfg.Study.Direction != "minimize" {
		t.Errorf("direction default = %q", cfg.Study.Direction)
	}
	if cfg.Study.Parallel != 1 {
		t.Errorf("parallel default = %d", cfg.Study.Parallel)
	}
	if cfg.Wait.Interval() != 5*time.Second {
		t.Errorf("interval default = %s", cfg.Wait.Interval())
	}
	if cfg.Wait.Timeout() != 86400*time.Second {
		t.Errorf("timeout default = %s", cfg.Wait.Timeout())
	}
	if cfg.Results.Dir != "results" {
		t.Errorf("results.dir default = %q", cfg.Results.Dir)
	}
}

func TestLoadFull(t *testing.T) {
	cfg, err := config.Load("../../testdata/full.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Study.Trials != 15 || cfg.Study.Parallel != 4 {
		t.Errorf("study = %+v", cfg.Study)
	}
	if !cfg.Wait.Watch {
		t.Error("expected watch mode enabled")
	}

	spec, err := cfg.ParamSpec()
	if err != nil {
		t.Fatalf("ParamSpec: %v", err)
	}
	want := []struct {
		name string
		kind param.Kind
	}{
		{"trajectories", param.Int},
		{"lr", param.Float},
		{"optimizer", param.Categorical},
	}
	if len(spec) != len(want) {
		t.Fatalf("got %d params, want %d", len(spec), len(want))
	}
	for i, w := range want {
		if spec[i].Name != w.name || spec[i].Kind != w.kind {
			t.Errorf("param %d = %s/%v, want %s/%v", i, spec[i].Name, spec[i].Kind, w.name, w.kind)
		}
	}
	if !spec[1].Log {
		t.Error("lr should be log sampled")
	}
}

func TestLoadDockerBackend(t *testing.T) {
	cfg, err := config.Load("../../testdata/docker.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Scheduler.Backend != "docker" || cfg.Scheduler.Image != "python:3.11-slim" {
		t.Errorf("scheduler = %+v", cfg.Scheduler)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := config.Load("nonexistent.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadInvalid(t *testing.T) {
	if _, err := config.Load("../../testdata/invalid.yaml"); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
