package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jdlee-quant/rebound/internal/pipeline"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one full daily run",
	Long: `Executes the full daily pipeline for one as-of date:

  1. Fetch daily close histories for the universe
  2. Rank tickers by drawdown ratio
  3. Evaluate the portfolio sell rule and buys
  4. Submit orders (unless --dry-run)
  5. Append the immutable snapshot and write CSV artifacts

A date that has already been recorded is a successful no-op.

Example:
  go run ./cmd/rebound run
  go run ./cmd/rebound run --date 2026-08-28
  go run ./cmd/rebound run --dry-run --capital 50000`,
	RunE: runPipeline,
}

var (
	runDate    string
	runCapital float64
	runDryRun  bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runDate, "date", "", "as-of date (YYYY-MM-DD, default: today)")
	runCmd.Flags().Float64Var(&runCapital, "capital", 100_000, "starting capital when no broker account and no history")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "evaluate and persist without submitting orders")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	asOf := time.Now().UTC()
	if runDate != "" {
		parsed, err := time.Parse("2006-01-02", runDate)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", runDate, err)
		}
		asOf = parsed
	}

	a, err := initApp(ctx, initOptions{capital: runCapital})
	if err != nil {
		return err
	}
	defer a.Close()

	runCtx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	res, err := a.orchestrator.Run(runCtx, pipeline.RunConfig{AsOf: asOf, DryRun: runDryRun})
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	if res.Duplicate {
		fmt.Printf("Run for %s already recorded, nothing to do.\n", asOf.Format("2006-01-02"))
		return nil
	}

	fmt.Printf("Run for %s completed in %s\n", res.AsOf.Format("2006-01-02"), res.Duration.Round(time.Millisecond))
	fmt.Printf("Stages: %s\n", strings.Join(res.CompletedStages, " -> "))
	if res.Screening != nil {
		fmt.Printf("Screened: %d ranked, %d excluded\n",
			len(res.Screening.Candidates.Records), res.Screening.Candidates.Excluded)
	}
	if res.Snapshot != nil {
		fmt.Printf("Portfolio: %d positions, %d closed, %d buys skipped, cash $%.2f\n",
			res.Snapshot.Count(), len(res.Snapshot.Closed), len(res.Snapshot.Skipped), res.Snapshot.Cash)
	}
	return nil
}
