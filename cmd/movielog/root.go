package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marco/movielog/internal/config"
	"github.com/marco/movielog/internal/match"
	"github.com/marco/movielog/internal/record"
	"github.com/marco/movielog/internal/store"
	"github.com/marco/movielog/internal/tmdb"
	"github.com/marco/movielog/internal/tmdb/cache"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := &appContext{configPath: &configFlag}

	rootCmd := &cobra.Command{
		Use:           "movielog",
		Short:         "Personal movie log over a directory of Markdown records",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "movielog.yaml", "Configuration file path")

	rootCmd.AddCommand(newLogCommand(ctx))
	rootCmd.AddCommand(newWatchedCommand(ctx))
	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newToWatchCommand(ctx))
	rootCmd.AddCommand(newSearchCommand(ctx))
	rootCmd.AddCommand(newStatsCommand(ctx))
	rootCmd.AddCommand(newRefreshCommand(ctx))
	rootCmd.AddCommand(newDeleteCommand(ctx))
	rootCmd.AddCommand(newImportCommand(ctx))
	rootCmd.AddCommand(newWatchCommand(ctx))

	return rootCmd
}

// appContext lazily wires the pieces each command needs so that read-only
// commands never touch the network or the cache database.
type appContext struct {
	configPath *string
	cfg        *config.Config
}

func (a *appContext) ensureConfig() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := config.Load(*a.configPath)
	if err != nil {
		return nil, err
	}
	a.cfg = cfg
	return cfg, nil
}

// openStore loads the record directory. Malformed documents are reported
// as warnings and skipped; they never block the rest of the collection.
func (a *appContext) openStore() (*store.Store, error) {
	cfg, err := a.ensureConfig()
	if err != nil {
		return nil, err
	}
	s, parseErrs, err := store.Load(cfg.MoviesDir)
	if err != nil {
		return nil, err
	}
	for _, pe := range parseErrs {
		fmt.Fprintf(os.Stderr, "Warning: skipped malformed record: %v\n", pe)
	}
	return s, nil
}

// newMatcher builds the metadata matcher with the TMDB client and, when
// enabled, the SQLite response cache. The returned closer releases the
// cache database.
func (a *appContext) newMatcher() (*match.Matcher, func(), error) {
	cfg, err := a.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, nil, err
	}

	clientCfg := tmdb.ClientConfig{
		APIKey:           cfg.TMDB.APIKey,
		Language:         cfg.TMDB.Language,
		RateLimitDelayMs: cfg.TMDB.RateLimitDelay,
		CacheTTLDays:     cfg.Cache.TTLDays,
	}

	closer := func() {}
	if cfg.Cache.Enabled {
		sqliteCache, err := cache.NewSQLiteCache(cfg.Cache.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open TMDB cache: %w", err)
		}
		clientCfg.Cache = sqliteCache
		closer = func() { sqliteCache.Close() }
	}

	client := tmdb.NewClient(clientCfg)
	return match.NewMatcher(client, cfg.Options.ActorCount), closer, nil
}

// parseStatus maps a CLI status argument onto the record enum, accepting
// the short forms the interactive log prompt always took.
func parseStatus(s string) (record.Status, error) {
	switch s {
	case "w", "watched":
		return record.StatusWatched, nil
	case "tw", "to-watch":
		return record.StatusToWatch, nil
	default:
		return "", fmt.Errorf("unknown status %q (use watched or to-watch)", s)
	}
}
