package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/syssam/mbgen/compiler/load"
)

const watchDebounce = 200 * time.Millisecond

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [table...]",
		Short: "Regenerate whenever the generation file changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			cfg, logger := getConfig(ctx), getLogger(ctx)
			if cfg.File == "" {
				return errors.New("watch requires a generation file")
			}
			reload := func() (*load.Config, error) { return load.Load(cfg.File, cmd.Flags()) }
			run := func(cfg *load.Config) error {
				return runGenerate(ctx, cfg, logger, cmd.OutOrStdout(), args)
			}
			return watch(ctx, cfg, logger, reload, run)
		},
	}
	cmd.Flags().Bool("overwrite", false, "remove existing mapping files before generating")
	cmd.Flags().Bool("preflight", false, "check tables and columns against the database first")
	return cmd
}

// watch runs once, then again after every change of the generation file
// until ctx is done. A failed run is logged and does not stop watching.
func watch(ctx context.Context, cfg *load.Config, logger *slog.Logger, reload func() (*load.Config, error), run func(*load.Config) error) error {
	if err := run(cfg); err != nil {
		logger.Error("generation failed", "error", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()
	file, err := filepath.Abs(cfg.File)
	if err != nil {
		return err
	}
	// Editors replace files on save; watch the directory instead of the file.
	if err := watcher.Add(filepath.Dir(file)); err != nil {
		return err
	}
	logger.Info("watching generation file", "path", file)

	changed := make(chan struct{}, 1)
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != file || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case changed <- struct{}{}:
				default:
				}
			})
		case <-changed:
			cfg, err := reload()
			if err != nil {
				logger.Error("reloading generation file", "error", err)
				continue
			}
			logger.Debug("generation file changed", "path", file)
			if err := run(cfg); err != nil {
				logger.Error("generation failed", "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}
