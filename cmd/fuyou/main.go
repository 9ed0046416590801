package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/fuyou/internal/config"
	"github.com/rgehrsitz/fuyou/internal/logging"
	"github.com/rgehrsitz/fuyou/internal/store"
	"github.com/rgehrsitz/fuyou/internal/thresholds"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const dateLayout = "2006-01-02"

// app carries the per-invocation wiring shared by every subcommand
type app struct {
	cfgFile   string
	dbPath    string
	logLevel  string
	logFormat string

	settings *config.Settings
	logger   *slog.Logger
	store    *store.SQLiteStore
	registry *thresholds.Registry
	metrics  *prometheus.Registry
	now      func() time.Time
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "fuyou",
		Short: "扶養の壁 (dependency threshold) tracker",
		Long: `fuyou tracks a part-time worker's income against the statutory
dependency walls (103万, 106万, 123万, 130万, 150万) and tells them how
much more they can earn this year without losing dependent status.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.init,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/fuyou/config.yaml)")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite database path (overrides database.path)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format (console, json)")

	root.AddCommand(
		statusCmd(a),
		eligibilityCmd(a),
		impactCmd(a),
		thresholdsCmd(a),
		incomeCmd(a),
		onboardCmd(a),
		versionCmd(),
	)
	return root
}

// init loads settings and installs the logger before any subcommand runs
func (a *app) init(cmd *cobra.Command, _ []string) error {
	v, err := config.NewViper(a.cfgFile)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		v.Set(config.KeyDatabasePath, a.dbPath)
	}
	if a.logLevel != "" {
		v.Set(config.KeyLogLevel, a.logLevel)
	}
	if a.logFormat != "" {
		v.Set(config.KeyLogFormat, a.logFormat)
	}

	a.settings, err = config.Load(v)
	if err != nil {
		return err
	}
	a.logger, err = logging.Setup(a.settings.LogLevel, a.settings.LogFormat)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

// close releases the store opened during the invocation
func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	a.registry = nil
	return err
}

// openStore opens and migrates the database once per invocation
func (a *app) openStore(ctx context.Context) (*store.SQLiteStore, error) {
	if a.store != nil {
		return a.store, nil
	}
	st, err := store.Open(ctx, a.settings.DatabasePath, store.WithLogger(a.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", a.settings.DatabasePath, err)
	}
	a.store = st
	return st, nil
}

// thresholdRegistry builds the registry over the store. A store that
// cannot be opened leaves the registry on its fallback tiers.
func (a *app) thresholdRegistry(ctx context.Context) *thresholds.Registry {
	if a.registry != nil {
		return a.registry
	}

	a.metrics = prometheus.NewRegistry()
	opts := []thresholds.Option{
		thresholds.WithLogger(a.logger),
		thresholds.WithCacheTTL(a.settings.CacheTTL),
		thresholds.WithMetrics(thresholds.NewMetrics(a.metrics)),
		thresholds.WithNow(a.now),
	}

	if st, err := a.openStore(ctx); err != nil {
		a.logger.WarnContext(ctx, "threshold store unavailable", "error", err)
	} else {
		opts = append(opts, thresholds.WithStore(st))
	}

	fallback, err := a.settings.EnvFallback()
	if err != nil {
		a.logger.WarnContext(ctx, "ignoring threshold fallback setting", "error", err)
	} else if len(fallback) > 0 {
		opts = append(opts, thresholds.WithEnvFallback(fallback))
	}

	a.registry = thresholds.NewRegistry(opts...)
	return a.registry
}

// adminRegistry is thresholdRegistry for commands that must write to the store
func (a *app) adminRegistry(ctx context.Context) (*thresholds.Registry, *store.SQLiteStore, error) {
	st, err := a.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	return a.thresholdRegistry(ctx), st, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// dateFlag parses an optional date flag, defaulting to now
func (a *app) dateFlag(cmd *cobra.Command, name string) (time.Time, error) {
	s, _ := cmd.Flags().GetString(name)
	if s == "" {
		return a.now(), nil
	}
	return parseDate(s)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "fuyou %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(w, info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	return runApp(ctx, &app{now: time.Now}, args, stdout, stderr)
}

func runApp(ctx context.Context, a *app, args []string, stdout, stderr io.Writer) (err error) {
	defer func() {
		if cerr := a.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
