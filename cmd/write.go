package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	insertFields fieldFlags
	updateFields fieldFlags
	updateKey    keyFlags
	deleteKey    keyFlags
)

var insertCmd = &cobra.Command{
	Use:   "insert <table>",
	Short: "Insert one row built from the --set flags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := insertFields.fieldSet()
		if err != nil {
			return err
		}
		s, err := openSession()
		if err != nil {
			return err
		}
		ok, err := s.engine.Create(cmd.Context(), s.table(args[0]), fields, directive())
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("insert into %s: no row inserted", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), "1 row inserted")
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <table>",
	Short: "Set the --set fields on every row matching --key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := updateKey.predicate()
		if err != nil {
			return err
		}
		fields, err := updateFields.fieldSet()
		if err != nil {
			return err
		}
		s, err := openSession()
		if err != nil {
			return err
		}
		n, err := s.engine.Update(cmd.Context(), s.table(args[0]), key, fields, directive())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d row(s) updated\n", n)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <table>",
	Short: "Delete every row matching --key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := deleteKey.predicate()
		if err != nil {
			return err
		}
		s, err := openSession()
		if err != nil {
			return err
		}
		n, err := s.engine.Delete(cmd.Context(), s.table(args[0]), key)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d row(s) deleted\n", n)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(insertCmd, updateCmd, deleteCmd)

	insertFields.register(insertCmd)
	updateFields.register(updateCmd)
	updateKey.register(updateCmd)
	deleteKey.register(deleteCmd)
}
