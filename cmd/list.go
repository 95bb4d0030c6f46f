package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/signalnine/hyperdrome/internal/config"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the configured sweep",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Script: %s\n", cfg.Script)
			if cfg.Scheduler.Backend == "docker" {
				fmt.Printf("Scheduler: docker (image: %s)\n", cfg.Scheduler.Image)
			} else {
				fmt.Printf("Scheduler: %s\n", cfg.Scheduler.Command)
			}
			fmt.Printf("Results: %s\n", cfg.Results.Path)
			fmt.Printf("Study: %s, %d trials, %d in parallel\n",
				cfg.Study.Direction, cfg.Study.Trials, cfg.Study.Parallel)

			fmt.Println("\nParameters:")
			for _, p := range cfg.Params {
				switch p.Kind {
				case "categorical":
					fmt.Printf("  - %s (categorical: %s)\n", p.Name, strings.Join(p.Choices, ", "))
				default:
					scale := ""
					if p.Log {
						scale = ", log"
					}
					fmt.Printf("  - %s (%s: %g..%g%s)\n", p.Name, p.Kind, p.Min, p.Max, scale)
				}
			}
			return nil
		},
	}
}
