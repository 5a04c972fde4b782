package main

import (
	"log/slog"
	"os"
	"strings"

	"allnotes_server_go/config"
	"allnotes_server_go/data"
	"allnotes_server_go/logging"

	"github.com/spf13/cobra"
)

// cliFlags - значения флагов командной строки, перекрывающие конфигурацию.
type cliFlags struct {
	configPath string
	addr       string
	env        string
	logLevel   string
}

// load собирает конфигурацию и применяет флаги поверх нее.
func (f *cliFlags) load() (*config.Config, error) {
	cfg, err := config.Load(strings.TrimSpace(f.configPath))
	if err != nil {
		return nil, err
	}
	if f.addr != "" {
		cfg.HTTP.Addr = f.addr
	}
	if f.env != "" {
		cfg.Env = f.env
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (f *cliFlags) loadWithLogger() (*config.Config, *slog.Logger, error) {
	cfg, err := f.load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func databaseOptions(cfg *config.Config) data.Options {
	return data.Options{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.DSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime(),
	}
}

func newRootCommand() *cobra.Command {
	flags := &cliFlags{}

	rootCmd := &cobra.Command{
		Use:           "allnotes",
		Short:         "AllNotes API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), flags)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Configuration file path (TOML)")
	rootCmd.PersistentFlags().StringVar(&flags.addr, "addr", "", "HTTP listen address, e.g. :3001")
	rootCmd.PersistentFlags().StringVar(&flags.env, "env", "", "Environment: development or production")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newServeCommand(flags))
	rootCmd.AddCommand(newMigrateCommand(flags))

	return rootCmd
}
