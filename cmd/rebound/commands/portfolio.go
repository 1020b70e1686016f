package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jdlee-quant/rebound/internal/query"
)

// portfolioCmd represents the portfolio command
var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show the current portfolio snapshot",
	Long: `Prints the most recent portfolio snapshot: open positions,
unrealized gains, stale quotes and available cash.

Example:
  go run ./cmd/rebound portfolio`,
	RunE: runPortfolio,
}

func init() {
	rootCmd.AddCommand(portfolioCmd)
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	a, err := initApp(cmd.Context(), initOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := a.query.CurrentPortfolio(cmd.Context())
	if err != nil {
		return fmt.Errorf("portfolio query: %w", err)
	}
	if snap == nil {
		fmt.Println("No portfolio snapshot recorded yet. Run `rebound run` first.")
		return nil
	}

	fmt.Println(query.NewFormatter().Portfolio(snap))
	return nil
}
