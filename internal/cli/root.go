// Package cli provides the mbgen command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/syssam/mbgen/compiler/load"
	"github.com/syssam/mbgen/dialect"
)

// Version is set at build time.
var Version = "dev"

type configKey struct{}

type loggerKey struct{}

// NewRootCmd returns the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	var cfgFile string
	root := &cobra.Command{
		Use:   "mbgen",
		Short: "Generate MyBatis models, mappers and mapping files from database tables",
		Long: `mbgen turns a generation file describing a database connection, an output
layout and a set of tables into MyBatis Generator jobs and runs them.

Configuration is read from mbgen.yaml (or --config), MBGEN_ environment
variables and command line flags, later sources winning.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "dialects" {
				return nil
			}
			cfg, err := load.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			verbose, _ := cmd.Flags().GetBool("verbose")
			logger := newLogger(cmd.ErrOrStderr(), verbose)
			if cfg.File != "" {
				logger.Debug("using generation file", "path", cfg.File)
			}
			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "generation file (default: ./mbgen.yaml)")
	pf.BoolP("verbose", "v", false, "verbose output")
	pf.String("dialect", "", "database dialect")
	pf.String("host", "", "database host")
	pf.Int("port", 0, "database port")
	pf.String("username", "", "database user")
	pf.String("password", "", "database password")
	pf.String("schema", "", "database schema (the database file for Sqlite)")
	pf.String("url", "", "raw JDBC connection URL")
	_ = root.RegisterFlagCompletionFunc("dialect", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return dialect.Names(), cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(
		newGenerateCmd(),
		newDumpCmd(),
		newTablesCmd(),
		newWatchCmd(),
		newDialectsCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// getConfig retrieves the configuration from the command context.
func getConfig(ctx context.Context) *load.Config {
	if c, ok := ctx.Value(configKey{}).(*load.Config); ok {
		return c
	}
	return &load.Config{}
}

// getLogger retrieves the logger from the command context.
func getLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}
