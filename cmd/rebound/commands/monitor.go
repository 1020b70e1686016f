package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jdlee-quant/rebound/internal/query"
)

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Check the profit-taking rule",
	Long: `Evaluates the batch sell rule against the latest snapshot and
prints whether the average gain of the most recent positions has
reached the target. Read-only: never places orders.

Example:
  go run ./cmd/rebound monitor`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	a, err := initApp(cmd.Context(), initOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	status, err := a.query.ProfitTakingStatus(cmd.Context())
	if err != nil {
		return fmt.Errorf("profit-taking query: %w", err)
	}
	if status == nil {
		fmt.Println("No portfolio snapshot recorded yet. Run `rebound run` first.")
		return nil
	}

	fmt.Println(query.NewFormatter().ProfitTaking(status))
	return nil
}
