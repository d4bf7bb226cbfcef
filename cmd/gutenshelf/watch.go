package main

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/gutenshelf/internal/category"
	"github.com/jackzampolin/gutenshelf/internal/config"
	"github.com/jackzampolin/gutenshelf/internal/home"
	"github.com/jackzampolin/gutenshelf/internal/pipeline"
	"github.com/jackzampolin/gutenshelf/internal/report"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Process categories, then re-run each one when its file changes",
	Long: `Run every category once, then watch the library root for edits to
category files. A changed category is re-run incrementally: only new or
previously failed books are fetched.

Config file edits are picked up without restarting; an invalid edit is
ignored and the previous config stays active.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := setup()
		if err != nil {
			return err
		}
		if err := e.home.EnsureExists(); err != nil {
			return err
		}

		w, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer w.Close()
		if err := w.Add(e.home.Path()); err != nil {
			return err
		}

		reload := make(chan *config.Config, 1)
		e.cfg.OnChange(func(cfg *config.Config) {
			select {
			case reload <- cfg:
			default:
			}
		})
		e.cfg.WatchConfig()

		orch, err := pipeline.FromConfig(e.cfg.Get(), e.home, e.logger)
		if err != nil {
			return err
		}

		runKeys(ctx, e, orch, nil)

		e.logger.Info("watching for category changes", "root", e.home.Path())
		pending := make(map[string]bool)
		timer := time.NewTimer(watchDebounce)
		timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil

			case ev, ok := <-w.Events:
				if !ok {
					return nil
				}
				if !isCategoryEvent(ev) {
					continue
				}
				pending[home.CategoryKey(ev.Name)] = true
				timer.Reset(watchDebounce)

			case err, ok := <-w.Errors:
				if !ok {
					return nil
				}
				e.logger.Warn("watcher error", "error", err)

			case cfg := <-reload:
				next, err := pipeline.FromConfig(cfg, e.home, e.logger)
				if err != nil {
					e.logger.Warn("keeping previous pipeline after config change", "error", err)
					continue
				}
				orch = next
				e.logger.Info("config reloaded")

			case <-timer.C:
				keys := make([]string, 0, len(pending))
				for k := range pending {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				clear(pending)
				runKeys(ctx, e, orch, keys)
			}
		}
	},
}

// runKeys runs the named categories, or all when keys is empty. Failures
// are logged; the watcher keeps going.
func runKeys(ctx context.Context, e *env, orch *pipeline.Orchestrator, keys []string) {
	var cats []*category.Category
	if len(keys) == 0 {
		all, err := category.Discover(e.home, nil, e.logger)
		if err != nil {
			e.logger.Error("failed to discover categories", "error", err)
			return
		}
		cats = all
	}
	for _, key := range keys {
		cat, err := category.Load(e.home.CategoryFile(key))
		if err != nil {
			// Deleted or no longer a category
			e.logger.Info("not running category", "category", key, "reason", err)
			continue
		}
		cats = append(cats, cat)
	}
	if len(cats) == 0 {
		return
	}

	summary, err := orch.Run(ctx, cats, false)
	if err != nil {
		e.logger.Error("run finished with errors", "error", err)
	}
	if err := report.Output(summary); err != nil {
		e.logger.Error("failed to print summary", "error", err)
	}
}

func isCategoryEvent(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(ev.Name)
	return filepath.Ext(name) == home.CategoryExt && name != home.ConfigFileName
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "quiet period before re-running a changed category")
	rootCmd.AddCommand(watchCmd)
}
