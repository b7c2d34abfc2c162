package queue

import (
	"context"

	"github.com/Avaneesh2012/futuride/internal/executor"
	"github.com/Avaneesh2012/futuride/internal/metrics"
)

type Job struct {
	ID      string
	Request executor.Request
	Result  chan *executor.Response
	Ctx     context.Context
}

// Manager is a bounded FIFO of pending executions. Together with the
// worker pool it caps how many child processes can run at once.
type Manager struct {
	jobQueue chan *Job
}

func NewManager(capacity int) *Manager {
	return &Manager{
		jobQueue: make(chan *Job, capacity),
	}
}

// Submit enqueues a job, blocking if the queue is full until a worker
// drains it or the job's context expires.
func (m *Manager) Submit(job *Job) bool {
	select {
	case m.jobQueue <- job:
		metrics.QueueDepth.Set(float64(len(m.jobQueue)))
		return true
	case <-job.Ctx.Done():
		return false
	}
}

func (m *Manager) NextJob() <-chan *Job {
	return m.jobQueue
}
