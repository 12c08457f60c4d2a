package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/syssam/mbgen/compiler"
	"github.com/syssam/mbgen/compiler/gen"
	"github.com/syssam/mbgen/compiler/load"
	"github.com/syssam/mbgen/engine/mbg"
)

func newDumpCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "dump [table...]",
		Short: "Print the assembled jobs without running them",
		Long: `Dump assembles the job of every selected table and prints it, either as
YAML or as the MyBatis Generator configuration handed to the engine.
Passwords are never printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(getConfig(cmd.Context()), cmd.OutOrStdout(), format, args)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml|xml)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "xml"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func runDump(cfg *load.Config, out io.Writer, format string, tables []string) error {
	tasks, err := cfg.Tasks(tables...)
	if err != nil {
		return err
	}
	jobs := make([]*gen.Job, 0, len(tasks))
	for _, t := range tasks {
		res, err := compiler.Plan(cfg.Connection, t.Request, t.Rules)
		if err != nil {
			return fmt.Errorf("table %s: %w", t.Request.TableName, err)
		}
		jobs = append(jobs, res.Job)
	}
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		for _, job := range jobs {
			if err := enc.Encode(job); err != nil {
				return err
			}
		}
		return enc.Close()
	case "xml":
		for _, job := range jobs {
			job.Connection.Password = ""
			if err := mbg.WriteConfig(out, job); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
