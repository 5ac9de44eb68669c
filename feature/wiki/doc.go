// Package wiki exposes search index synchronization over HTTP.
//
// # Endpoints
//
//   - POST /index/jobs: queue a job ({"scope": {...}, "overwrite": false}), 202 with the job id
//   - GET /index/jobs/:id: job state, progress and summary
//   - DELETE /index/jobs/:id: cooperative cancellation
//
// Jobs run on the shared job.Scheduler, so a job waits while another job with
// an overlapping scope is running.
package wiki
