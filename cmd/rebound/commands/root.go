package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rebound",
	Short: "Russell 1000 drawdown screening and portfolio engine",
	Long: `rebound screens the Russell 1000 for the deepest drawdowns and
runs a mean-reversion portfolio on top of the daily ranking.

Usage:
  go run ./cmd/rebound [command]

Examples:
  go run ./cmd/rebound run --dry-run
  go run ./cmd/rebound screen
  go run ./cmd/rebound portfolio
  go run ./cmd/rebound scheduler start
  go run ./cmd/rebound api`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
