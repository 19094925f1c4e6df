// internal/common/camunda/worker.go
package camunda

import (
	"fmt"
	"time"

	"carprice-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

type WorkerOptions struct {
	TaskType      string
	MaxJobsActive int
	Timeout       time.Duration
	// FetchVariables limits the job payload; empty fetches every variable in scope.
	FetchVariables []string
}

// Worker is one open job worker subscription.
type Worker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// StartWorker opens a job worker for opts.TaskType that dispatches to handler.
func StartWorker(client zbc.Client, opts WorkerOptions, handler worker.JobHandler, log logger.Logger) *Worker {
	step := client.NewJobWorker().
		JobType(opts.TaskType).
		Handler(handler).
		MaxJobsActive(opts.MaxJobsActive).
		Name(fmt.Sprintf("%s-worker", opts.TaskType))
	if opts.Timeout > 0 {
		step = step.Timeout(opts.Timeout)
	}
	if len(opts.FetchVariables) > 0 {
		step = step.FetchVariables(opts.FetchVariables...)
	}

	w := &Worker{
		worker:   step.Open(),
		logger:   log,
		taskType: opts.TaskType,
	}

	log.Info("worker started", map[string]interface{}{
		"taskType":      opts.TaskType,
		"maxJobsActive": opts.MaxJobsActive,
		"timeout":       opts.Timeout.String(),
	})
	return w
}

func (w *Worker) TaskType() string {
	return w.taskType
}

// Close stops polling and waits for in-flight jobs.
func (w *Worker) Close() {
	if w == nil || w.worker == nil {
		return
	}
	w.logger.Info("stopping worker", map[string]interface{}{"taskType": w.taskType})
	w.worker.Close()
	w.worker.AwaitClose()
	w.worker = nil
}
