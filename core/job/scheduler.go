package job

import (
	"context"
	"errors"
	"sync"
	"time"

	"search-sync/core/document"
	"search-sync/core/logger"

	"go.uber.org/zap"
)

// State is the lifecycle state of a scheduled job.
type State string

const (
	StateQueued   State = "queued"
	StateRunning  State = "running"
	StateFinished State = "finished"
	StateFailed   State = "failed"
	StateCanceled State = "canceled"
)

var (
	// ErrUnknownJob is returned for job ids the scheduler never saw or already forgot.
	ErrUnknownJob = errors.New("unknown job")

	// ErrSchedulerClosed is returned by Submit once Shutdown has started.
	ErrSchedulerClosed = errors.New("scheduler is shut down")
)

// DefaultRetention is the number of finished jobs whose status is kept.
const DefaultRetention = 1000

// Status is a snapshot of a scheduled job.
type Status struct {
	ID        string          `json:"id"`
	State     State           `json:"state"`
	Scope     *document.Scope `json:"scope,omitempty"`
	Overwrite bool            `json:"overwrite"`
	GroupPath string          `json:"group_path"`
	Processed int64           `json:"processed"`
	Expected  int64           `json:"expected"`
	Summary   *Summary        `json:"summary,omitempty"`
	Error     string          `json:"error,omitempty"`
	Submitted time.Time       `json:"submitted_at"`
	Started   *time.Time      `json:"started_at,omitempty"`
	Finished  *time.Time      `json:"finished_at,omitempty"`
}

// ReportWriter persists the final status of a job.
type ReportWriter interface {
	WriteReport(ctx context.Context, status Status) error
}

type entry struct {
	job    *Job
	status Status
	cancel context.CancelFunc
}

type waiter struct {
	id   string
	path GroupPath
}

// Scheduler runs jobs, admitting a job only when its group path overlaps
// neither a running job nor a job queued before it. Jobs on overlapping
// scopes therefore start in submission order. It provides mutual exclusion
// between overlapping scopes, not transactional isolation.
type Scheduler struct {
	mu       sync.Mutex
	running  map[string]GroupPath
	queue    []*waiter
	released chan struct{}
	jobs     map[string]*entry
	finished []string
	retain   int
	closed   bool

	reports ReportWriter
	logger  *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithReports persists the final status of every job.
func WithReports(w ReportWriter) Option {
	return func(s *Scheduler) { s.reports = w }
}

// WithRetention sets how many finished jobs keep their status. Older
// finished jobs are forgotten and reported as unknown.
func WithRetention(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.retain = n
		}
	}
}

// WithLogger sets the scheduler logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// NewScheduler creates an idle scheduler.
func NewScheduler(opts ...Option) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		running:  make(map[string]GroupPath),
		released: make(chan struct{}),
		jobs:     make(map[string]*entry),
		retain:   DefaultRetention,
		logger:   zap.NewNop(),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes job synchronously once its group path is free.
func (s *Scheduler) Run(ctx context.Context, job *Job) (Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	w := s.register(job, cancel)
	return s.execute(ctx, job, w)
}

// Submit queues job for asynchronous execution and returns its id.
// Submitted jobs are canceled by Shutdown, after which Submit fails with
// ErrSchedulerClosed.
func (s *Scheduler) Submit(job *Job) (string, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", ErrSchedulerClosed
	}
	s.wg.Add(1)
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(s.ctx)
	w := s.register(job, cancel)

	go func() {
		defer s.wg.Done()
		defer cancel()
		_, _ = s.execute(ctx, job, w)
	}()
	return job.Request().ID, nil
}

// Cancel requests cooperative cancellation of a queued or running job.
func (s *Scheduler) Cancel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.jobs[id]
	if !ok {
		return ErrUnknownJob
	}
	e.cancel()
	return nil
}

// Status returns a snapshot of the job status.
func (s *Scheduler) Status(id string) (Status, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.jobs[id]
	if !ok {
		return Status{}, false
	}
	status := e.status
	status.Processed, status.Expected = e.job.Progress()
	return status, true
}

// Wait blocks until every submitted job has finished.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Shutdown cancels submitted jobs and waits for them, or for ctx.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// register records the job and queues it for admission.
func (s *Scheduler) register(job *Job, cancel context.CancelFunc) *waiter {
	req := job.Request()
	w := &waiter{id: req.ID, path: job.GroupPath()}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, w)
	s.jobs[req.ID] = &entry{
		job:    job,
		cancel: cancel,
		status: Status{
			ID:        req.ID,
			State:     StateQueued,
			Scope:     req.Scope,
			Overwrite: req.Overwrite,
			GroupPath: job.GroupPath().String(),
			Submitted: time.Now(),
		},
	}
	return w
}

func (s *Scheduler) execute(ctx context.Context, job *Job, w *waiter) (Summary, error) {
	id := job.Request().ID
	log := logger.WithJob(s.logger, id, w.path.String())

	if err := s.acquire(ctx, w); err != nil {
		log.Info("Job canceled while queued")
		s.finish(id, nil, err)
		return Summary{}, err
	}
	defer s.release(id)

	s.update(id, func(st *Status) {
		now := time.Now()
		st.State = StateRunning
		st.Started = &now
	})

	summary, err := job.Run(ctx)
	s.finish(id, &summary, err)
	return summary, err
}

// acquire waits until the queued job overlaps neither a running job nor a
// job queued earlier, then marks its path as running.
func (s *Scheduler) acquire(ctx context.Context, w *waiter) error {
	s.mu.Lock()
	for {
		if s.admissible(w) {
			s.dequeue(w)
			s.running[w.id] = w.path
			s.mu.Unlock()
			return nil
		}
		released := s.released
		s.mu.Unlock()

		select {
		case <-released:
			s.mu.Lock()
		case <-ctx.Done():
			s.mu.Lock()
			s.dequeue(w)
			// Jobs queued behind w may be admissible now.
			s.broadcast()
			s.mu.Unlock()
			return ctx.Err()
		}
	}
}

func (s *Scheduler) admissible(w *waiter) bool {
	for _, running := range s.running {
		if running.Overlaps(w.path) {
			return false
		}
	}
	for _, queued := range s.queue {
		if queued == w {
			return true
		}
		if queued.path.Overlaps(w.path) {
			return false
		}
	}
	return true
}

func (s *Scheduler) dequeue(w *waiter) {
	for i, queued := range s.queue {
		if queued == w {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return
		}
	}
}

// broadcast wakes every queued job. Callers hold s.mu.
func (s *Scheduler) broadcast() {
	close(s.released)
	s.released = make(chan struct{})
}

func (s *Scheduler) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, id)
	s.broadcast()
}

func (s *Scheduler) update(id string, fn func(*Status)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.jobs[id]; ok {
		fn(&e.status)
	}
}

func (s *Scheduler) finish(id string, summary *Summary, err error) {
	s.update(id, func(st *Status) {
		now := time.Now()
		st.Finished = &now
		st.Summary = summary
		switch {
		case err == nil:
			st.State = StateFinished
		case errors.Is(err, context.Canceled):
			st.State = StateCanceled
			st.Error = err.Error()
		default:
			st.State = StateFailed
			st.Error = err.Error()
		}
	})

	if s.reports != nil {
		status, _ := s.Status(id)
		// The job context may be canceled already; the report must still be written.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := s.reports.WriteReport(ctx, status); err != nil {
			s.logger.Warn("Failed to write job report", zap.String("job_id", id), zap.Error(err))
		}
		cancel()
	}
	s.forget(id)
}

// forget records id as finished and drops the oldest finished jobs beyond
// the retention limit.
func (s *Scheduler) forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished = append(s.finished, id)
	for len(s.finished) > s.retain {
		oldest := s.finished[0]
		s.finished = s.finished[1:]
		if e, ok := s.jobs[oldest]; ok && e.status.Finished != nil {
			delete(s.jobs, oldest)
		}
	}
}
