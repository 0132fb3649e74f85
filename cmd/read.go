package cmd

import (
	"github.com/spf13/cobra"
)

var (
	listLimit  int
	readFormat string
	getKey     keyFlags
)

var listCmd = &cobra.Command{
	Use:   "list <table>",
	Short: "Print up to --limit rows of a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		rows, err := s.engine.ReadAll(cmd.Context(), s.table(args[0]), listLimit)
		if err != nil {
			return err
		}
		return renderRows(cmd.OutOrStdout(), rows, readFormat)
	},
}

var getCmd = &cobra.Command{
	Use:   "get <table>",
	Short: "Print the rows matching --key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := getKey.predicate()
		if err != nil {
			return err
		}
		s, err := openSession()
		if err != nil {
			return err
		}
		rows, err := s.engine.ReadByKey(cmd.Context(), s.table(args[0]), key)
		if err != nil {
			return err
		}
		return renderRows(cmd.OutOrStdout(), rows, readFormat)
	},
}

func init() {
	RootCmd.AddCommand(listCmd, getCmd)

	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "maximum number of rows (default settings.default_limit)")
	for _, c := range []*cobra.Command{listCmd, getCmd} {
		c.Flags().StringVarP(&readFormat, "format", "f", "table", "output format: table, json or csv")
	}
	getKey.register(getCmd)
}
