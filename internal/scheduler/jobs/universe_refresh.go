package jobs

import (
	"context"
	"fmt"

	"github.com/jdlee-quant/rebound/internal/universe"
	"github.com/jdlee-quant/rebound/pkg/logger"
)

// UniverseRefreshJob refreshes the index membership from the published
// holdings. Membership changes are infrequent; weekly is enough.
type UniverseRefreshJob struct {
	universe *universe.Universe
	logger   *logger.Logger
}

// NewUniverseRefreshJob creates the refresh job.
func NewUniverseRefreshJob(u *universe.Universe, log *logger.Logger) *UniverseRefreshJob {
	return &UniverseRefreshJob{universe: u, logger: log}
}

// Name returns the job name.
func (j *UniverseRefreshJob) Name() string {
	return "universe_refresh"
}

// Schedule runs Sunday 08:00 UTC, before the Monday session.
func (j *UniverseRefreshJob) Schedule() string {
	return "0 0 8 * * SUN"
}

// Run refreshes the membership. A failed refresh keeps the previous
// list, so the daily run is never blocked by the holdings source.
func (j *UniverseRefreshJob) Run(ctx context.Context) error {
	if err := j.universe.Refresh(ctx); err != nil {
		return fmt.Errorf("universe refresh failed: %w", err)
	}

	j.logger.WithField("size", j.universe.Size()).Info("Universe refresh completed")
	return nil
}
