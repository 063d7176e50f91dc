package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"tienda-console/internal/adapters/api"
	"tienda-console/internal/adapters/persistence/repositories"
	"tienda-console/internal/config"
	"tienda-console/internal/core/services"
	"tienda-console/internal/pkg/logger"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// cliSessionID is the single session kept in the state file
const cliSessionID = "cli"

type options struct {
	apiURL    string
	stateFile string
	output    string
	verbose   bool
	timeout   time.Duration
}

// app is what every subcommand works with
type app struct {
	opts *options
	svc  *services.Container
	log  logrus.FieldLogger
}

// ctx returns a command context bound to the CLI session
func (a *app) ctx(cmd *cobra.Command) context.Context {
	return services.WithSessionID(cmd.Context(), cliSessionID)
}

// print writes v as indented JSON
func (a *app) print(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) table() bool {
	return a.opts.output == "table"
}

func defaultStateFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".tiendactl.json"
	}
	return filepath.Join(dir, "tiendactl", "session.json")
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	a := &app{opts: opts}

	rootCmd := &cobra.Command{
		Use:           "tiendactl",
		Short:         "Operator CLI for the store backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.svc != nil {
				a.svc.Close(5 * time.Second)
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.apiURL, "api", envOr("API_BASE_URL", "http://localhost:8080"), "backend base URL")
	flags.StringVar(&opts.stateFile, "state", envOr("TIENDACTL_STATE", defaultStateFile()), "session state file")
	flags.StringVarP(&opts.output, "output", "o", "table", "output format: table or json")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	flags.DurationVar(&opts.timeout, "timeout", 15*time.Second, "per request timeout")

	rootCmd.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newProductosCmd(a),
		newPedidosCmd(a),
		newReportesCmd(a),
	)

	return rootCmd
}

func (a *app) init() error {
	level := "warn"
	if a.opts.verbose {
		level = "debug"
	}
	a.log = logger.New(level, "text")

	store, err := repositories.NewFileStore(a.opts.stateFile)
	if err != nil {
		return err
	}

	cfg := &config.Config{
		API: config.APIConfig{BaseURL: a.opts.apiURL, Timeout: a.opts.timeout},
		Cache: config.CacheConfig{
			ProductsStale: time.Minute,
			CartStale:     time.Minute,
			OrdersStale:   time.Minute,
			UsersStale:    time.Minute,
			ReportsStale:  time.Minute,
		},
	}
	backend := api.New(api.Options{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout, Logger: a.log})

	a.svc, err = services.NewContainer(cfg, store, backend, a.log)
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
