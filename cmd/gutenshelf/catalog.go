package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/gutenshelf/internal/catalog"
	"github.com/jackzampolin/gutenshelf/internal/home"
	"github.com/jackzampolin/gutenshelf/internal/report"
)

var catalogStatus string

var catalogCmd = &cobra.Command{
	Use:   "catalog <category>",
	Short: "Print the catalog records of a category",
	Long: `Print the records of <category>/catalog.csv.

Examples:
  gutenshelf catalog classics
  gutenshelf catalog classics --status failed -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}

		status := catalog.Status(catalogStatus)
		switch status {
		case "", catalog.StatusComplete, catalog.StatusSkipped, catalog.StatusFailed:
		default:
			return fmt.Errorf("unknown status %q", catalogStatus)
		}

		key := home.CategoryKey(args[0])
		path := e.home.CatalogPath(key)
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("no catalog for category %q: %w", key, err)
		}
		cache, err := catalog.Load(path)
		if err != nil {
			return err
		}
		return report.Output(report.NewCatalogView(key, cache, status))
	},
}

func init() {
	catalogCmd.Flags().StringVar(&catalogStatus, "status", "", "only records with this status: complete, skipped, failed")
	rootCmd.AddCommand(catalogCmd)
}
