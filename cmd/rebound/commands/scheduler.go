package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jdlee-quant/rebound/internal/scheduler"
	"github.com/jdlee-quant/rebound/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the job scheduler",
	Long: `Starts the scheduler daemon or manages its jobs.

Registered jobs:
  daily_screen      - weekdays 10:00 UTC, the full daily run
  universe_refresh  - Sunday 08:00 UTC, membership refresh

Subcommands:
  start   - start the scheduler daemon
  list    - list registered jobs
  run     - trigger one job immediately
  status  - show job execution history

Example:
  go run ./cmd/rebound scheduler start
  go run ./cmd/rebound scheduler run daily_screen`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		Long: `Starts the scheduler and blocks until interrupted. The daily
run is idempotent per date, so a restart never double-trades.`,
		RunE: startScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listSchedulerJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Trigger one job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runSchedulerJob,
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show job execution history",
		RunE:  showSchedulerStatus,
	}

	schedulerDryRun  bool
	schedulerCapital float64
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)

	schedulerCmd.PersistentFlags().BoolVar(&schedulerDryRun, "dry-run", false, "daily runs evaluate without submitting orders")
	schedulerCmd.PersistentFlags().Float64Var(&schedulerCapital, "capital", 100_000, "starting capital when no broker account and no history")
}

// buildScheduler wires the scheduler with both recurring jobs.
func buildScheduler(a *app) (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.log)

	if err := sched.AddJob(jobs.NewDailyScreenJob(a.orchestrator, a.log, schedulerDryRun)); err != nil {
		return nil, fmt.Errorf("add daily_screen: %w", err)
	}
	if err := sched.AddJob(jobs.NewUniverseRefreshJob(a.universe, a.log)); err != nil {
		return nil, fmt.Errorf("add universe_refresh: %w", err)
	}

	return sched, nil
}

func startScheduler(cmd *cobra.Command, args []string) error {
	a, err := initApp(cmd.Context(), initOptions{capital: schedulerCapital})
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := buildScheduler(a)
	if err != nil {
		return err
	}

	sched.Start()

	fmt.Println("Scheduler started. Registered jobs:")
	for _, name := range sched.Jobs() {
		fmt.Printf("  - %s\n", name)
	}
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}

func listSchedulerJobs(cmd *cobra.Command, args []string) error {
	a, err := initApp(cmd.Context(), initOptions{capital: schedulerCapital})
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := buildScheduler(a)
	if err != nil {
		return err
	}

	for _, name := range sched.Jobs() {
		fmt.Println(name)
	}
	return nil
}

func runSchedulerJob(cmd *cobra.Command, args []string) error {
	a, err := initApp(cmd.Context(), initOptions{capital: schedulerCapital})
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := buildScheduler(a)
	if err != nil {
		return err
	}

	name := args[0]
	if err := sched.RunJob(name); err != nil {
		return err
	}

	// RunJob is asynchronous; poll the history until the result lands.
	fmt.Printf("Job %s triggered, waiting for completion...\n", name)
	for {
		if result, ok := sched.LatestResult(name); ok {
			if !result.Success {
				return fmt.Errorf("job %s failed: %s", name, result.Error)
			}
			fmt.Printf("Job %s completed in %s\n", name, result.Duration.Round(time.Millisecond))
			return nil
		}
		time.Sleep(500 * time.Millisecond)
	}
}

func showSchedulerStatus(cmd *cobra.Command, args []string) error {
	a, err := initApp(cmd.Context(), initOptions{capital: schedulerCapital})
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := buildScheduler(a)
	if err != nil {
		return err
	}

	for _, name := range sched.Jobs() {
		history, err := sched.History(name)
		if err != nil {
			return err
		}

		latest := history.Latest()
		if latest == nil {
			fmt.Printf("%-20s never run\n", name)
			continue
		}
		status := "ok"
		if !latest.Success {
			status = "failed: " + latest.Error
		}
		fmt.Printf("%-20s last %s (%s), success rate %.0f%%\n",
			name, latest.EndTime.Format(time.RFC3339), status, history.SuccessRate()*100)
	}
	return nil
}
