package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile    string
	verbose    bool
	schemaName string
	encrypted  string

	// Logger is built in PersistentPreRunE and synced after every command.
	Logger = zap.NewNop()
)

var RootCmd = &cobra.Command{
	Use:   "db-gate",
	Short: "Generic table access across SQL dialects",
	Long: `db-gate reads and writes rows of any table in the active database
(postgres, mysql, sqlserver, oracle or sqlite) without knowing its columns
in advance. Values are always bound as parameters; backend errors are
reported as one stable set of error kinds.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger()
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		Logger = l
		if used := viper.ConfigFileUsed(); used != "" {
			Logger.Debug("using config file", zap.String("path", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = Logger.Sync()
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./db-gate.yaml)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every statement")
	RootCmd.PersistentFlags().StringVar(&schemaName, "schema", "", "schema of the table (default: the database's schema, then the dialect default)")
	RootCmd.PersistentFlags().StringVar(&encrypted, "encrypt", "", "comma-separated fields to hash before writing (overrides settings.encrypted_fields)")

	viper.SetDefault("settings.default_limit", 100)
	viper.SetDefault("settings.default_count", 100)
	viper.SetDefault("hashing.algorithm", "bcrypt")
	viper.SetDefault("log.level", "info")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// executable directory first, then the working directory
		if ex, err := os.Executable(); err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("db-gate")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("DBGATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

func newLogger() (*zap.Logger, error) {
	if verbose || strings.EqualFold(viper.GetString("log.level"), "debug") {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(viper.GetString("log.level")); err == nil {
		cfg.Level = lvl
	}
	return cfg.Build()
}
