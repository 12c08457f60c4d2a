package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/syssam/mbgen/dialect"
)

func newDialectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List the supported database dialects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Dialect", "Port", "Driver", "Connector", "Capabilities"})
			for _, s := range dialect.Specs() {
				port := "-"
				if s.DefaultPort != 0 {
					port = fmt.Sprint(s.DefaultPort)
				}
				t.AppendRow(table.Row{s.Tag, port, s.DriverClass, s.Connector, s.Capabilities.String()})
			}
			t.Render()
			return nil
		},
	}
}
