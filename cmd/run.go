package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/signalnine/hyperdrome/internal/config"
	"github.com/signalnine/hyperdrome/internal/loss"
	"github.com/signalnine/hyperdrome/internal/objective"
	"github.com/signalnine/hyperdrome/internal/report"
	"github.com/signalnine/hyperdrome/internal/result"
	"github.com/signalnine/hyperdrome/internal/study"
	"github.com/signalnine/hyperdrome/internal/submit"
)

var (
	flagTrials    int
	flagParallel  int
	flagSeed      int64
	flagLossField int
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a hyperparameter sweep",
		RunE:  runSweep,
	}
	cmd.Flags().IntVar(&flagTrials, "trials", 0, "override trial count")
	cmd.Flags().IntVar(&flagParallel, "parallel", 0, "override max concurrent trials")
	cmd.Flags().Int64Var(&flagSeed, "seed", 0, "override sampler seed")
	cmd.Flags().IntVar(&flagLossField, "loss-field", 0, "result output field used as the objective value (0 = first field after the trial id)")
	return cmd
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if flagTrials > 0 {
		cfg.Study.Trials = flagTrials
	}
	if flagParallel > 0 {
		cfg.Study.Parallel = flagParallel
	}
	if flagSeed != 0 {
		cfg.Study.Seed = flagSeed
	}

	log := newLogger()
	spec, err := cfg.ParamSpec()
	if err != nil {
		return err
	}
	direction, err := study.ParseDirection(cfg.Study.Direction)
	if err != nil {
		return err
	}

	submitter := newSubmitter(cfg, log)

	runDir, err := result.CreateRunDir(cfg.Results.Dir)
	if err != nil {
		return err
	}
	fmt.Printf("Run directory: %s\n", runDir)

	obj := objective.New(&objective.Opts{
		Script:      cfg.Script,
		ResultsPath: cfg.Results.Path,
		Spec:        spec,
		Loss:        loss.Field{Index: flagLossField},
		Submitter:   submitter,
		Waiter: &result.Waiter{
			Interval: cfg.Wait.Interval(),
			MaxWait:  cfg.Wait.Timeout(),
			Watch:    cfg.Wait.Watch,
			Log:      log,
		},
		Log: log,
	})

	seed := cfg.Study.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := study.New(direction, study.NewRandomSampler(seed), log)
	s.RunDir = runDir

	fmt.Printf("Study %s: %d trials (%s), %d in parallel\n",
		s.ID, cfg.Study.Trials, direction, cfg.Study.Parallel)

	res, err := s.Optimize(context.Background(), obj, cfg.Study.Trials, cfg.Study.Parallel)
	if err != nil {
		return err
	}
	fmt.Printf("Best: trial %s = %g\n", res.BestTrial, res.BestValue)

	fmt.Println("\n--- Results ---")
	return report.Generate(runDir, cfg.Study.Direction, "table", os.Stdout)
}

func newSubmitter(cfg *config.Config, log logrus.FieldLogger) submit.Submitter {
	switch cfg.Scheduler.Backend {
	case "docker":
		return &submit.DockerSubmitter{
			Image: cfg.Scheduler.Image,
			Env:   cfg.Scheduler.Env,
			Log:   log,
		}
	default:
		return &submit.CommandSubmitter{
			Command: cfg.Scheduler.Command,
			Log:     log,
		}
	}
}
