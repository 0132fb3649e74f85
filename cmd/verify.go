package cmd

import (
	"errors"
	"fmt"

	"db-gate/internal/hashing"
	"db-gate/internal/record"

	"github.com/spf13/cobra"
)

var (
	userColumn     string
	passwordColumn string
	userValue      string
	password       string
)

var errBadCredentials = errors.New("invalid credentials")

var verifyCmd = &cobra.Command{
	Use:   "verify <table>",
	Short: "Check a password against the hash stored for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		hash, ok, err := s.engine.CredentialHash(cmd.Context(), s.table(args[0]), userColumn, passwordColumn, record.Text(userValue))
		if err != nil {
			return err
		}
		if !ok {
			return errBadCredentials
		}
		if err := s.hasher.Compare(hash, password); err != nil {
			if errors.Is(err, hashing.ErrMismatch) {
				return errBadCredentials
			}
			return fmt.Errorf("compare hash: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "OK")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&userColumn, "user-column", "email", "column holding the user name")
	verifyCmd.Flags().StringVar(&passwordColumn, "password-column", "password", "column holding the password hash")
	verifyCmd.Flags().StringVarP(&userValue, "user", "u", "", "user to look up (required)")
	verifyCmd.Flags().StringVarP(&password, "password", "p", "", "plaintext password to check (required)")
	_ = verifyCmd.MarkFlagRequired("user")
	_ = verifyCmd.MarkFlagRequired("password")
}
