// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"talentflow-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"
)

// Worker tracks one open job subscription so shutdown can close them all.
type Worker struct {
	jobWorker worker.JobWorker
	taskType  string
	logger    *zap.Logger
}

// Register opens a job subscription for taskType. Handlers complete or fail
// jobs themselves; the wrapper only adds fleet-level instrumentation.
func Register(
	client zbc.Client,
	taskType string,
	maxJobsActive int,
	timeout time.Duration,
	handler func(worker.JobClient, entities.Job),
	obs *observability.Observability,
	log *zap.Logger,
) *Worker {
	wrapped := handler
	if obs != nil {
		wrapped = func(jobClient worker.JobClient, job entities.Job) {
			start := time.Now()
			handler(jobClient, job)
			ctx := context.Background()
			obs.RecordJobHandled(ctx, taskType)
			obs.RecordJobDuration(ctx, taskType, time.Since(start))
		}
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(wrapped).
		MaxJobsActive(maxJobsActive).
		Timeout(timeout).
		Name(taskType + "-worker").
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", maxJobsActive),
		zap.Duration("timeout", timeout),
	)

	return &Worker{jobWorker: jobWorker, taskType: taskType, logger: log}
}

// Close stops polling and waits for in-flight jobs to drain.
func (w *Worker) Close() {
	w.logger.Info("stopping worker", zap.String("taskType", w.taskType))
	w.jobWorker.Close()
}
