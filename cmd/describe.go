package cmd

import (
	"fmt"

	"db-gate/internal/schema"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe <table>",
	Short: "Show the columns of a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		t, err := schema.Describe(cmd.Context(), s.connector, s.dialect, s.table(args[0]))
		if err != nil {
			return err
		}

		w := table.NewWriter()
		w.SetOutputMirror(cmd.OutOrStdout())
		w.SetStyle(table.StyleLight)
		w.SetTitle(t.Ref.String())
		w.AppendHeader(table.Row{"#", "Column", "Type", "Normalized", "Length", "Nullable", "Auto", "Meaning"})
		for i, c := range t.Columns {
			length := ""
			if c.Length > 0 {
				length = fmt.Sprint(c.Length)
			}
			w.AppendRow(table.Row{i + 1, c.Name, c.RawType, c.DataType, length, yesNo(c.IsNullable), yesNo(c.IsAutoInc), c.Meaning})
		}
		w.Render()
		return nil
	},
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

func init() {
	RootCmd.AddCommand(describeCmd)
}
