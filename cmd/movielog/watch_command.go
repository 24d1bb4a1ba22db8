package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/marco/movielog/internal/record"
	"github.com/marco/movielog/internal/store"
)

func newWatchCommand(ctx *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the movies directory and revalidate externally edited records",
		Long: `Watch the movies directory and revalidate records as external tools
(dashboards, plain editors) change them. Malformed edits are reported as
they happen instead of surfacing on the next load.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if _, err := ctx.openStore(); err != nil {
				return err
			}

			debounce := time.Duration(cfg.Options.WatchDebounceSeconds) * time.Second
			watcher, err := store.NewWatcher(cfg.MoviesDir, debounce, watchChangeHandler(cfg.MoviesDir))
			if err != nil {
				return err
			}
			if err := watcher.Start(); err != nil {
				return err
			}

			sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-sigCtx.Done()

			slog.Info("shutting down watcher")
			return watcher.Stop()
		},
	}
}

// watchChangeHandler revalidates the changed document, then reloads the
// record directory so the reported state covers the whole collection,
// not just the edited file.
func watchChangeHandler(dir string) store.ChangeHandler {
	return func(path string) {
		revalidateDocument(path)

		s, parseErrs, err := store.Load(dir)
		if err != nil {
			slog.Error("failed to reload record store", "dir", dir, "error", err)
			return
		}
		for _, pe := range parseErrs {
			slog.Warn("skipped malformed record", "path", pe.Path, "error", pe.Err)
		}
		slog.Info("record store reloaded", "records", s.Len(), "malformed", len(parseErrs))
	}
}

// revalidateDocument decodes a changed document and reports the result.
// Deleted documents are noted, not errors: the dashboard owner may prune
// records by removing files.
func revalidateDocument(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("record document removed", "path", path)
			return
		}
		slog.Error("failed to read record document", "path", path, "error", err)
		return
	}

	rec, err := record.Decode(path, data)
	if err != nil {
		slog.Error("record document is malformed", "path", path, "error", err)
		return
	}
	slog.Info("record document valid",
		"path", path,
		"title", rec.Title,
		"year", rec.Year,
		"status", rec.Status,
	)
}
