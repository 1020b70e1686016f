// Package jobs holds the concrete scheduled jobs.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/jdlee-quant/rebound/internal/pipeline"
	"github.com/jdlee-quant/rebound/pkg/logger"
)

// DailyScreenJob runs the full screening and portfolio pipeline once
// per trading day after the close.
type DailyScreenJob struct {
	orchestrator *pipeline.Orchestrator
	logger       *logger.Logger
	dryRun       bool
}

// NewDailyScreenJob creates the daily pipeline job.
func NewDailyScreenJob(orch *pipeline.Orchestrator, log *logger.Logger, dryRun bool) *DailyScreenJob {
	return &DailyScreenJob{
		orchestrator: orch,
		logger:       log,
		dryRun:       dryRun,
	}
}

// Name returns the job name.
func (j *DailyScreenJob) Name() string {
	return "daily_screen"
}

// Schedule runs at 06:00 ET, after the provider's overnight
// consolidation. The host is expected to run in UTC; 10:00 UTC covers
// EDT.
func (j *DailyScreenJob) Schedule() string {
	return "0 0 10 * * MON-FRI"
}

// Run executes one pipeline run for today. A date already recorded is
// success; the scheduler's retries never double-apply a run.
func (j *DailyScreenJob) Run(ctx context.Context) error {
	asOf := time.Now().UTC().Truncate(24 * time.Hour)

	result, err := j.orchestrator.Run(ctx, pipeline.RunConfig{
		AsOf:   asOf,
		DryRun: j.dryRun,
	})
	if err != nil {
		return fmt.Errorf("daily pipeline run failed: %w", err)
	}

	if result.Duplicate {
		j.logger.WithField("as_of", asOf.Format("2006-01-02")).Info("Daily run already recorded")
		return nil
	}

	j.logger.WithFields(map[string]interface{}{
		"as_of":     asOf.Format("2006-01-02"),
		"ranked":    len(result.Screening.Candidates.Records),
		"excluded":  result.Screening.Candidates.Excluded,
		"positions": result.Snapshot.Count(),
	}).Info("Daily screening run completed")
	return nil
}
