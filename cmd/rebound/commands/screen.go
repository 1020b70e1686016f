package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jdlee-quant/rebound/internal/query"
)

// screenCmd represents the screen command
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Show the latest drawdown ranking",
	Long: `Prints the top candidates from the most recent recorded
screening run. Reads history only, never calls the data provider.

Example:
  go run ./cmd/rebound screen
  go run ./cmd/rebound screen --top 20`,
	RunE: runScreen,
}

var screenTop int

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().IntVar(&screenTop, "top", 0, "number of candidates to show (default: recorded top-K)")
}

func runScreen(cmd *cobra.Command, args []string) error {
	a, err := initApp(cmd.Context(), initOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.query.TopCandidates(cmd.Context(), screenTop)
	if err != nil {
		return fmt.Errorf("top candidates query: %w", err)
	}
	if res == nil {
		fmt.Println("No screening results recorded yet. Run `rebound run` first.")
		return nil
	}

	fmt.Println(query.NewFormatter().TopCandidates(res))
	return nil
}
