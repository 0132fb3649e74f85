package cmd

import (
	"fmt"
	"time"

	"db-gate/internal/schema"
	"db-gate/internal/seed"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	count    int
	fillSeed int64
	dryRun   bool
)

var fillCmd = &cobra.Command{
	Use:   "fill <table>",
	Short: "Fill a table with generated rows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}

		// flag > config > default
		targetCount := viper.GetInt("settings.default_count")
		if count > 0 {
			targetCount = count
		}

		t, err := schema.Describe(cmd.Context(), s.connector, s.dialect, s.table(args[0]))
		if err != nil {
			return err
		}
		if len(t.Writable()) == 0 {
			return fmt.Errorf("table %s has no writable columns", t.Ref)
		}

		gen := seed.NewGenerator(fillSeed)
		if dryRun {
			fmt.Fprintf(cmd.OutOrStdout(), "Sample row for %s (nothing written):\n", t.Ref)
			for _, f := range gen.Row(t) {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-20s %s\n", f.Name, formatValue(f.Value))
			}
			return nil
		}

		target := seed.MaxRows(t, targetCount)
		Logger.Info("starting fill",
			zap.String("table", t.Ref.String()),
			zap.Int("count", target),
			zap.String("encrypted", directive().String()))
		start := time.Now()

		uiprogress.Start()
		bar := uiprogress.AddBar(target).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return fmt.Sprintf("%s: ", t.Ref.Name)
		})

		res := seed.Fill(cmd.Context(), s.engine, t, target, directive(), gen, func() {
			bar.Incr()
		})

		uiprogress.Stop()

		icon := "✓"
		if res.Status != seed.StatusOK {
			icon = "!"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n[%s] %-20s : %d rows (Target: %d, Attempts: %d) - %s\n",
			icon, res.Table, res.Inserted, res.Target, res.Attempts, res.Status)
		if res.Err != nil && res.Status != seed.StatusOK {
			fmt.Fprintf(cmd.OutOrStdout(), "    └ Error: %v\n", res.Err)
		}
		Logger.Info("fill done", zap.Duration("elapsed", time.Since(start)), zap.Int("inserted", res.Inserted))

		if res.Status == seed.StatusFailed {
			return fmt.Errorf("fill %s failed", res.Table)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(fillCmd)

	fillCmd.Flags().IntVar(&count, "count", 0, "number of rows to generate (overrides settings.default_count)")
	fillCmd.Flags().Int64Var(&fillSeed, "seed", 0, "random seed, 0 for a random one")
	fillCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print one generated row without writing")
}
