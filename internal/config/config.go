package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/signalnine/hyperdrome/internal/param"
)

type Config struct {
	Script    string    `yaml:"script"`
	Scheduler Scheduler `yaml:"scheduler"`
	Results   Results   `yaml:"results"`
	Study     Study     `yaml:"study"`
	Wait      Wait      `yaml:"wait"`
	Params    []Param   `yaml:"params"`
}

type Scheduler struct {
	Backend string            `yaml:"backend"` // command or docker
	Command string            `yaml:"command"`
	Image   string            `yaml:"image"`
	Env     map[string]string `yaml:"env"`
}

type Results struct {
	Path string `yaml:"path"` // shared CSV results file appended by jobs
	Dir  string `yaml:"dir"`  // run records (per-trial meta.json)
}

type Study struct {
	Direction string `yaml:"direction"`
	Trials    int    `yaml:"trials"`
	Parallel  int    `yaml:"parallel"`
	Seed      int64  `yaml:"seed"`
}

type Wait struct {
	IntervalS int  `yaml:"interval_s"`
	TimeoutS  int  `yaml:"timeout_s"`
	Watch     bool `yaml:"watch"`
}

func (w Wait) Interval() time.Duration { return time.Duration(w.IntervalS) * time.Second }
func (w Wait) Timeout() time.Duration  { return time.Duration(w.TimeoutS) * time.Second }

type Param struct {
	Name    string   `yaml:"name"`
	Kind    string   `yaml:"kind"`
	Min     float64  `yaml:"min"`
	Max     float64  `yaml:"max"`
	Log     bool     `yaml:"log"`
	Choices []string `yaml:"choices"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Script == "" {
		return fmt.Errorf("script is required")
	}
	if cfg.Results.Path == "" {
		return fmt.Errorf("results.path is required")
	}
	if cfg.Results.Dir == "" {
		cfg.Results.Dir = "results"
	}

	switch cfg.Scheduler.Backend {
	case "", "command":
		cfg.Scheduler.Backend = "command"
		if cfg.Scheduler.Command == "" {
			cfg.Scheduler.Command = "sbatch"
		}
	case "docker":
		if cfg.Scheduler.Image == "" {
			return fmt.Errorf("scheduler.image is required for the docker backend")
		}
	default:
		return fmt.Errorf("unknown scheduler.backend %q", cfg.Scheduler.Backend)
	}

	if cfg.Study.Trials < 1 {
		return fmt.Errorf("study.trials must be at least 1")
	}
	if cfg.Study.Parallel < 1 {
		cfg.Study.Parallel = 1
	}
	switch cfg.Study.Direction {
	case "":
		cfg.Study.Direction = "minimize"
	case "minimize", "maximize":
	default:
		return fmt.Errorf("study.direction must be minimize or maximize, got %q", cfg.Study.Direction)
	}

	if cfg.Wait.IntervalS < 1 {
		cfg.Wait.IntervalS = 5
	}
	if cfg.Wait.TimeoutS < 1 {
		cfg.Wait.TimeoutS = 86400
	}

	if len(cfg.Params) == 0 {
		return fmt.Errorf("no params defined")
	}
	spec, err := cfg.ParamSpec()
	if err != nil {
		return err
	}
	return spec.Validate()
}

// ParamSpec converts the declared parameters, preserving declaration order.
func (c *Config) ParamSpec() (param.Spec, error) {
	spec := make(param.Spec, 0, len(c.Params))
	for _, p := range c.Params {
		kind, err := param.ParseKind(p.Kind)
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", p.Name, err)
		}
		spec = append(spec, param.Param{
			Name:    p.Name,
			Kind:    kind,
			Min:     p.Min,
			Max:     p.Max,
			Log:     p.Log,
			Choices: p.Choices,
		})
	}
	return spec, nil
}
