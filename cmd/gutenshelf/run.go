package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/gutenshelf/internal/category"
	"github.com/jackzampolin/gutenshelf/internal/pipeline"
	"github.com/jackzampolin/gutenshelf/internal/report"
)

var runForce bool

var runCmd = &cobra.Command{
	Use:   "run [category...]",
	Short: "Fetch, verify and catalog books",
	Long: `Process every category in the library root, or only the named ones.

Books with a complete catalog record are skipped; failed books are retried.
A summary is printed when the run ends. The exit status is non-zero when a
catalog could not be read or saved, or when the run was interrupted.

Examples:
  gutenshelf run                      # All categories
  gutenshelf run classics adventure   # Only these categories
  gutenshelf run classics --force     # Reprocess complete books too`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := setup()
		if err != nil {
			return err
		}
		if err := e.home.EnsureExists(); err != nil {
			return err
		}

		cats, err := category.Discover(e.home, args, e.logger)
		if err != nil {
			return err
		}
		if len(cats) == 0 {
			e.logger.Warn("no category files found", "root", e.home.Path())
		}

		orch, err := pipeline.FromConfig(e.cfg.Get(), e.home, e.logger)
		if err != nil {
			return err
		}

		summary, runErr := orch.Run(ctx, cats, runForce)
		if err := report.Output(summary); err != nil {
			return err
		}

		switch {
		case runErr != nil:
			return runErr
		case summary.Interrupted:
			return errors.New("run interrupted")
		case summary.HasErrors():
			return fmt.Errorf("%d categories could not be processed", countErrors(summary))
		}
		return nil
	},
}

func countErrors(s *pipeline.RunSummary) int {
	n := 0
	for _, c := range s.Categories {
		if c.Error != "" {
			n++
		}
	}
	return n
}

func init() {
	runCmd.Flags().BoolVar(&runForce, "force", false, "reprocess books that already have a complete record")
	rootCmd.AddCommand(runCmd)
}
