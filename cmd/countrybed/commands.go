package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/andreiashu/countrybed"
)

// env holds everything a command needs, built once per invocation in
// the root PersistentPreRunE.
type env struct {
	cfg      *countrybed.Config
	store    *countrybed.CacheStore
	syncer   *countrybed.Synchronizer
	reporter *terminalReporter
	logger   *zap.Logger
}

type rootFlags struct {
	cacheDir string
	baseURL  string
	interval time.Duration
	logLevel string
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	var (
		flags rootFlags
		e     env
	)

	root := &cobra.Command{
		Use:           "countrybed",
		Short:         "Country reference data from a local REST Countries cache",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.init(flags, out, errOut)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.logger != nil {
				_ = e.logger.Sync()
			}
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &ExitError{Code: 2, Message: err.Error()}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&flags.cacheDir, "cache-dir", "", "Cache directory (default: user cache dir/countrybed)")
	pf.StringVar(&flags.baseURL, "base-url", "", "REST Countries API root")
	pf.DurationVar(&flags.interval, "interval", 0, "Cache age that triggers a re-fetch (default 168h)")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	root.AddCommand(
		newSyncCmd(&e),
		newNameCmd(&e),
		newCapitalCmd(&e),
		newRegionCmd(&e),
		newRegionsCmd(&e),
		newRandomCmd(&e),
		newNearestCmd(&e),
		newStatusCmd(&e),
		newCacheCmd(&e),
	)
	return root
}

// init builds the logger, config, store and synchronizer.
func (e *env) init(flags rootFlags, out, errOut io.Writer) error {
	logger, err := newLogger(flags.logLevel, errOut)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}

	var opts []countrybed.Option
	if flags.cacheDir != "" {
		opts = append(opts, countrybed.WithCacheDir(flags.cacheDir))
	}
	if flags.baseURL != "" {
		opts = append(opts, countrybed.WithBaseURL(flags.baseURL))
	}
	if flags.interval > 0 {
		opts = append(opts, countrybed.WithSyncInterval(flags.interval))
	}
	opts = append(opts, countrybed.WithLogger(logger))

	cfg, err := countrybed.ConfigFromEnv(opts...)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	store, err := countrybed.NewCacheStore(cfg)
	if err != nil {
		return err
	}

	e.cfg = cfg
	e.store = store
	e.logger = logger
	e.reporter = newTerminalReporter(out, errOut)
	e.syncer = countrybed.NewSynchronizer(cfg, store, countrybed.WithReporter(e.reporter))
	logger.Debug("configured", zap.String("cache_dir", store.Dir()), zap.String("base_url", cfg.BaseURL))
	return nil
}

// snapshot runs an unforced sync, which only fetches when stale.
func (e *env) snapshot(ctx context.Context) (*countrybed.Snapshot, error) {
	return e.syncer.Sync(ctx, countrybed.SyncOptions{})
}

func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log-level %q: must be debug, info, warn or error", level)
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}

// argsAtLeast is cobra.MinimumNArgs reporting a usage exit code.
func argsAtLeast(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return &ExitError{Code: 2, Message: fmt.Sprintf("%s: requires at least %d argument(s)\n\n%s", cmd.Name(), n, cmd.UsageString())}
		}
		return nil
	}
}

// argsExactly is cobra.ExactArgs reporting a usage exit code.
func argsExactly(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return &ExitError{Code: 2, Message: fmt.Sprintf("%s: requires exactly %d argument(s)\n\n%s", cmd.Name(), n, cmd.UsageString())}
		}
		return nil
	}
}

func newSyncCmd(e *env) *cobra.Command {
	var (
		force     bool
		withFlags bool
		workers   int
	)
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Refresh the local cache if it is stale",
		Args:  argsExactly(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if workers > 0 {
				e.cfg.FlagWorkers = workers
			}
			snap, err := e.syncer.Sync(cmd.Context(), countrybed.SyncOptions{
				Force:       force,
				WithFlagArt: withFlags,
			})
			if err != nil {
				return err
			}
			if !snap.Fetched {
				e.reporter.Message(fmt.Sprintf("Cache is up to date (%d countries, synced %s).",
					snap.Index.Len(), snap.LastSynced.Format(time.RFC1123)))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Re-fetch even if the cache is fresh")
	cmd.Flags().BoolVar(&withFlags, "with-flags", false, "Render flag art after fetching")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent flag renders (default 1)")
	return cmd
}

func newNameCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "name <country>",
		Short: "Look up a country by name (exact, then partial)",
		Args:  argsAtLeast(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := e.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			c, err := snap.Index.FindByName(strings.Join(args, " "))
			if err != nil {
				return err
			}
			e.reporter.Country(snap.Describe(c))
			return nil
		},
	}
}

func newCapitalCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "capital <city>",
		Short: "Find the country a capital city belongs to",
		Args:  argsAtLeast(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := e.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			c, err := snap.Index.FindByCapital(strings.Join(args, " "))
			if err != nil {
				return err
			}
			e.reporter.Country(snap.Describe(c))
			return nil
		},
	}
}

func newRegionCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "region <region>",
		Short: "List the countries of a region (case-sensitive, e.g. Europe)",
		Args:  argsAtLeast(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := e.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			region := strings.Join(args, " ")
			countries := snap.Index.FilterByRegion(region)
			if len(countries) == 0 {
				e.reporter.Alert(fmt.Sprintf("No countries in region %q. Known regions: %s",
					region, strings.Join(snap.Index.Regions(), ", ")))
				return nil
			}
			for _, c := range countries {
				e.reporter.Message(c.Name.Common)
			}
			e.reporter.Success(fmt.Sprintf("%d countries in %s.", len(countries), region))
			return nil
		},
	}
}

func newRegionsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List the regions present in the dataset",
		Args:  argsExactly(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := e.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			for _, r := range snap.Index.Regions() {
				e.reporter.Message(r)
			}
			return nil
		},
	}
}

func newRandomCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "random",
		Short: "Describe a random country",
		Args:  argsExactly(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := e.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			name, err := snap.Index.RandomName(nil)
			if err != nil {
				return err
			}
			c, err := snap.Index.FindByName(name)
			if err != nil {
				return err
			}
			e.reporter.Country(snap.Describe(c))
			return nil
		},
	}
}

func newNearestCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "nearest <lat> <lng>",
		Short: "Find the country whose reference point is closest to a coordinate",
		Args:  argsExactly(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, err := strconv.ParseFloat(args[0], 64)
			if err != nil || lat < -90 || lat > 90 {
				return &ExitError{Code: 2, Message: fmt.Sprintf("invalid latitude %q", args[0])}
			}
			lng, err := strconv.ParseFloat(args[1], 64)
			if err != nil || lng < -180 || lng > 180 {
				return &ExitError{Code: 2, Message: fmt.Sprintf("invalid longitude %q", args[1])}
			}
			snap, err := e.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			c, km, err := snap.Index.Nearest(lat, lng)
			if err != nil {
				return err
			}
			e.reporter.Country(snap.Describe(c))
			e.reporter.Message(fmt.Sprintf("%.0f km from %.4f, %.4f", km, lat, lng))
			return nil
		},
	}
}

func newStatusCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show cache location and freshness",
		Args:  argsExactly(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := e.syncer.Status()
			if err != nil {
				return err
			}
			e.reporter.Message("Cache directory: " + st.Dir)
			if st.HasTimestamp {
				e.reporter.Message(fmt.Sprintf("Last synced:     %s (%s ago)",
					st.LastSynced.Format(time.RFC1123), st.Age.Round(time.Second)))
			} else {
				e.reporter.Message("Last synced:     never")
			}
			e.reporter.Message(fmt.Sprintf("Flag art cached: %t", st.HasFlagArt))
			if st.Stale {
				e.reporter.Alert("Cache is stale: " + st.Reason)
			} else {
				e.reporter.Success(fmt.Sprintf("Cache is fresh (interval %s).", e.cfg.SyncInterval))
			}
			return nil
		},
	}
}

func newCacheCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all cached data",
		Args:  argsExactly(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.store.Clear(); err != nil {
				return err
			}
			e.reporter.Success("Cache cleared: " + e.store.Dir())
			return nil
		},
	})
	return cmd
}
