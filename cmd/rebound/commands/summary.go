package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jdlee-quant/rebound/internal/query"
)

// summaryCmd represents the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the historical run summary",
	Long: `Aggregates the recorded runs over a date range: closed trades,
realized P&L and skipped buys.

Example:
  go run ./cmd/rebound summary
  go run ./cmd/rebound summary --from 2026-01-01 --to 2026-08-28`,
	RunE: runSummary,
}

var (
	summaryFrom string
	summaryTo   string
)

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().StringVar(&summaryFrom, "from", "", "range start (YYYY-MM-DD, default: 30 days ago)")
	summaryCmd.Flags().StringVar(&summaryTo, "to", "", "range end (YYYY-MM-DD, default: today)")
}

func runSummary(cmd *cobra.Command, args []string) error {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)

	var err error
	if summaryFrom != "" {
		if from, err = time.Parse("2006-01-02", summaryFrom); err != nil {
			return fmt.Errorf("invalid --from %q: %w", summaryFrom, err)
		}
	}
	if summaryTo != "" {
		if to, err = time.Parse("2006-01-02", summaryTo); err != nil {
			return fmt.Errorf("invalid --to %q: %w", summaryTo, err)
		}
	}
	if to.Before(from) {
		return fmt.Errorf("--to must not precede --from")
	}

	a, err := initApp(cmd.Context(), initOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	summary, err := a.query.HistoricalSummary(cmd.Context(), from, to)
	if err != nil {
		return fmt.Errorf("summary query: %w", err)
	}

	fmt.Println(query.NewFormatter().Summary(summary))
	return nil
}
