package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// universeCmd represents the universe command
var universeCmd = &cobra.Command{
	Use:   "universe",
	Short: "Inspect or refresh the index membership",
	Long: `Manages the Russell 1000 membership list used for screening.

Subcommands:
  show     - print the current membership
  refresh  - re-fetch the membership from the published holdings

Example:
  go run ./cmd/rebound universe show
  go run ./cmd/rebound universe refresh`,
}

var (
	universeShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Print the current membership",
		RunE:  showUniverse,
	}

	universeRefreshCmd = &cobra.Command{
		Use:   "refresh",
		Short: "Re-fetch the membership from the published holdings",
		RunE:  refreshUniverse,
	}
)

func init() {
	rootCmd.AddCommand(universeCmd)
	universeCmd.AddCommand(universeShowCmd)
	universeCmd.AddCommand(universeRefreshCmd)
}

func showUniverse(cmd *cobra.Command, args []string) error {
	a, err := initApp(cmd.Context(), initOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	symbols := a.universe.Symbols()
	for _, s := range symbols {
		fmt.Println(s)
	}
	fmt.Printf("\n%d symbols\n", len(symbols))
	return nil
}

func refreshUniverse(cmd *cobra.Command, args []string) error {
	a, err := initApp(cmd.Context(), initOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	before := a.universe.Size()
	if err := a.universe.Refresh(cmd.Context()); err != nil {
		return fmt.Errorf("universe refresh: %w", err)
	}

	fmt.Printf("Universe refreshed: %d -> %d symbols\n", before, a.universe.Size())
	return nil
}
