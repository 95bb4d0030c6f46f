package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/signalnine/hyperdrome/internal/config"
	"github.com/signalnine/hyperdrome/internal/result"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the config and the results file",
		Long:  "Load and validate the sweep config, then audit the results file (if it exists) for malformed lines and duplicate trial ids.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Config OK: %d params, %d trials\n", len(cfg.Params), cfg.Study.Trials)

			if _, err := os.Stat(cfg.Script); err != nil {
				fmt.Printf("warning: script %s not found locally (fine if it lives on the cluster)\n", cfg.Script)
			}

			audit, err := result.AuditFile(cfg.Results.Path)
			if os.IsNotExist(err) {
				fmt.Printf("Results file %s does not exist yet\n", cfg.Results.Path)
				return nil
			}
			if err != nil {
				return fmt.Errorf("auditing results file: %w", err)
			}
			fmt.Printf("Results file %s: %d rows, %d malformed lines\n",
				cfg.Results.Path, audit.Rows, audit.Malformed)
			if len(audit.DuplicateIDs) > 0 {
				return fmt.Errorf("duplicate trial ids in results file: %s", strings.Join(audit.DuplicateIDs, ", "))
			}
			return nil
		},
	}
}
