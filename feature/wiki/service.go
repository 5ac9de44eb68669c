package wiki

import (
	"search-sync/core/document"
	"search-sync/core/job"

	"go.uber.org/zap"
)

// Service submits and tracks index synchronization jobs.
type Service struct {
	scheduler *job.Scheduler
	deps      job.Dependencies
	logger    *zap.Logger
}

// NewService creates a new wiki indexing service.
func NewService(scheduler *job.Scheduler, deps job.Dependencies, logger *zap.Logger) *Service {
	return &Service{
		scheduler: scheduler,
		deps:      deps,
		logger:    logger,
	}
}

// Submit queues a job for scope and returns its id.
func (s *Service) Submit(scope *document.Scope, overwrite bool) (string, error) {
	if err := scope.Validate(); err != nil {
		return "", err
	}
	j := job.New(job.Request{Scope: scope, Overwrite: overwrite}, s.deps)
	return s.scheduler.Submit(j)
}

// Status returns the status of job id.
func (s *Service) Status(id string) (job.Status, error) {
	status, ok := s.scheduler.Status(id)
	if !ok {
		return job.Status{}, job.ErrUnknownJob
	}
	return status, nil
}

// Cancel requests cancellation of job id.
func (s *Service) Cancel(id string) error {
	return s.scheduler.Cancel(id)
}
