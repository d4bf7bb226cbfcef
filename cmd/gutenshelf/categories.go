package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/gutenshelf/internal/catalog"
	"github.com/jackzampolin/gutenshelf/internal/category"
	"github.com/jackzampolin/gutenshelf/internal/report"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories and their catalog progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}

		cats, err := category.Discover(e.home, nil, e.logger)
		if err != nil {
			return err
		}

		infos := make([]report.CategoryInfo, 0, len(cats))
		for _, cat := range cats {
			cache, err := catalog.Load(e.home.CatalogPath(cat.Key))
			if err != nil {
				e.logger.Warn("catalog unreadable", "category", cat.Key, "error", err)
				cache = nil
			}
			infos = append(infos, report.NewCategoryInfo(cat, cache))
		}
		return report.Output(infos)
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}
