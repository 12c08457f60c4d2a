package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/mbgen/introspect"
)

func newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the tables of the configured schema",
		Long: `Tables connects to the database with a native driver and lists the tables
of the configured schema. MySQL, PostgreSQL and Sqlite are supported.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			in, err := introspect.New(introspect.WithLogger(getLogger(ctx)))
			if err != nil {
				return err
			}
			tables, err := in.Tables(ctx, getConfig(ctx).Connection)
			if err != nil {
				return err
			}
			for _, t := range tables {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}
