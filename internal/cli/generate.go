package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/mbgen"
	"github.com/syssam/mbgen/compiler"
	"github.com/syssam/mbgen/compiler/load"
	"github.com/syssam/mbgen/connector"
	"github.com/syssam/mbgen/engine"
	"github.com/syssam/mbgen/engine/mbg"
	"github.com/syssam/mbgen/introspect"
)

// newEngine returns the engine of the configuration. Tests replace it.
var newEngine = func(cfg *load.Config, logger *slog.Logger) (engine.Engine, error) {
	opts := []mbg.Option{mbg.WithClassPath(cfg.Engine.ClassPath...), mbg.WithLogger(logger)}
	if cfg.Engine.Java != "" {
		opts = append(opts, mbg.WithJava(cfg.Engine.Java))
	}
	if cfg.Engine.KeepConfig {
		opts = append(opts, mbg.WithKeepConfig())
	}
	return mbg.New(opts...)
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [table...]",
		Short: "Generate the configured tables",
		Long: `Generate runs one MyBatis Generator job per configured table. When tables
are given, only those are generated.`,
		Example: `  # Generate every table of ./mbgen.yaml
  mbgen generate

  # Regenerate one table, replacing its mapping file
  mbgen generate user_info --overwrite`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig(cmd.Context())
			return runGenerate(cmd.Context(), cfg, getLogger(cmd.Context()), cmd.OutOrStdout(), args)
		},
	}
	cmd.Flags().Bool("overwrite", false, "remove existing mapping files before generating")
	cmd.Flags().Bool("preflight", false, "check tables and columns against the database first")
	cmd.Flags().Int("workers", 0, "number of tables generated concurrently")
	cmd.Flags().String("driver-dir", "", "directory holding the JDBC connector jars")
	return cmd
}

func newGenerator(cfg *load.Config, logger *slog.Logger) (*compiler.Generator, error) {
	eng, err := newEngine(cfg, logger)
	if err != nil {
		return nil, err
	}
	opts := []compiler.Option{
		compiler.WithEngine(eng),
		compiler.WithResolver(connector.Dir(cfg.DriverDir)),
		compiler.WithProgress(engine.NewLogProgress(logger)),
		compiler.WithLogger(logger),
	}
	if cfg.Preflight {
		in, err := introspect.New(introspect.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		opts = append(opts, compiler.WithPreflight(in))
	}
	return compiler.New(opts...)
}

// runGenerate generates the selected tables of the configuration
// concurrently and prints the mapping file and warnings of each.
func runGenerate(ctx context.Context, cfg *load.Config, logger *slog.Logger, out io.Writer, tables []string) error {
	tasks, err := cfg.Tasks(tables...)
	if err != nil {
		return err
	}
	if err := checkMappings(tasks); err != nil {
		return err
	}
	if err := mkdirs(tasks); err != nil {
		return err
	}
	g, err := newGenerator(cfg, logger)
	if err != nil {
		return err
	}
	results := make([]*compiler.Result, len(tasks))
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(max(cfg.Workers, 1))
	for i, task := range tasks {
		grp.Go(func() error {
			res, err := g.Generate(ctx, cfg.Connection, task.Request, task.Rules)
			if err != nil {
				return fmt.Errorf("table %s: %w", task.Request.TableName, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return err
	}
	for _, res := range results {
		fmt.Fprintf(out, "%s\t%s\n", res.Job.Table.Name, res.Mapping)
		for _, w := range res.Warnings {
			fmt.Fprintf(out, "  warning: %s\n", w)
		}
	}
	return nil
}

// checkMappings rejects a batch in which two tables write the same mapping
// file: the second run would clear the file of the first.
func checkMappings(tasks []load.Task) error {
	seen := make(map[string]string, len(tasks))
	for _, t := range tasks {
		path, err := compiler.MappingFilePath(t.Request)
		if err != nil {
			return err
		}
		if prev, ok := seen[path]; ok {
			return mbgen.NewConfigError("Tables", t.Request.TableName, fmt.Sprintf("tables %s and %s write the same mapping file %s", prev, t.Request.TableName, path))
		}
		seen[path] = t.Request.TableName
	}
	return nil
}

// mkdirs creates the output directories the engine writes into.
func mkdirs(tasks []load.Task) error {
	for _, t := range tasks {
		req, err := t.Request.Normalize()
		if err != nil {
			return err
		}
		for _, l := range []string{req.Model.Folder, req.Mapper.Folder, req.Mapping.Folder} {
			if err := os.MkdirAll(filepath.Join(req.ProjectFolder, l), 0o755); err != nil {
				return err
			}
		}
	}
	return nil
}
