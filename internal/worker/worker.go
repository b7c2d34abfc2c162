package worker

import (
	"context"

	"github.com/Avaneesh2012/futuride/internal/executor"
	"github.com/Avaneesh2012/futuride/internal/metrics"
	"github.com/Avaneesh2012/futuride/internal/queue"
	"github.com/rs/zerolog"
)

type Worker struct {
	id       int
	executor *executor.Executor
	manager  *queue.Manager
	logger   *zerolog.Logger
}

func NewWorker(id int, exec *executor.Executor, manager *queue.Manager, logger *zerolog.Logger) *Worker {
	return &Worker{
		id:       id,
		executor: exec,
		manager:  manager,
		logger:   logger,
	}
}

func (w *Worker) Start(ctx context.Context) {
	w.logger.Info().Int("worker_id", w.id).Msg("worker started")
	for {
		select {
		case job := <-w.manager.NextJob():
			metrics.ActiveWorkers.Inc()
			w.processJob(job)
			metrics.ActiveWorkers.Dec()
			metrics.QueueDepth.Set(float64(len(w.manager.NextJob())))
		case <-ctx.Done():
			w.logger.Info().Int("worker_id", w.id).Msg("worker stopping")
			return
		}
	}
}

func (w *Worker) processJob(job *queue.Job) {
	w.logger.Info().
		Int("worker_id", w.id).
		Str("job_id", job.ID).
		Str("language", job.Request.Language).
		Msg("processing job")

	resp := w.executor.Execute(job.Ctx, job.Request)

	metrics.ExecutionsTotal.WithLabelValues(job.Request.Language, resp.Status).Inc()
	if resp.TimeMs > 0 {
		metrics.ExecutionDuration.WithLabelValues(job.Request.Language).Observe(float64(resp.TimeMs))
	}

	select {
	case job.Result <- resp:
	case <-job.Ctx.Done():
		// The requester gave up waiting. Drop the result.
	}
}
