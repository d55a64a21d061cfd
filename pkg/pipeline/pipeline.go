// Package pipeline sequences the ETL stages. Stages communicate only through
// their object-store artifacts: each stage must fully commit its artifact
// before the next one starts, and a stage failure stops the run.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stage is one blocking unit of artifact-in/artifact-out processing.
type Stage interface {
	Name() string
	Run(ctx context.Context) error
}

// Runner executes stages strictly sequentially with a hard barrier between
// them. The design assumes at-most-one in-flight run; nothing enforces it.
type Runner struct {
	stages []Stage
	log    *zap.SugaredLogger
}

// NewRunner creates a runner over the given stage sequence.
func NewRunner(log *zap.SugaredLogger, stages ...Stage) *Runner {
	return &Runner{stages: stages, log: log}
}

// Run executes every stage in order, stopping at the first failure. Each run
// gets a fresh run id carried through the logs for correlation.
func (r *Runner) Run(ctx context.Context) error {
	if len(r.stages) == 0 {
		return fmt.Errorf("pipeline has no stages")
	}

	runID := uuid.NewString()
	log := r.log.With("run_id", runID)
	log.Infow("pipeline run starting", "stages", len(r.stages))

	start := time.Now()
	for _, stage := range r.stages {
		stageStart := time.Now()
		log.Infow("stage starting", "stage", stage.Name())

		if err := stage.Run(ctx); err != nil {
			log.Errorw("stage failed", "stage", stage.Name(), "error", err)
			return fmt.Errorf("stage %s: %w", stage.Name(), err)
		}

		log.Infow("stage complete", "stage", stage.Name(),
			"duration", time.Since(stageStart).Round(time.Millisecond))
	}

	log.Infow("pipeline run complete",
		"duration", time.Since(start).Round(time.Millisecond))
	return nil
}
