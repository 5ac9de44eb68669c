package job

import (
	"context"
	"sync"
	"testing"
	"time"

	"search-sync/core/document"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingIndexer blocks every IndexScope call until its scope is released.
type blockingIndexer struct {
	started chan string
	mu      sync.Mutex
	release map[string]chan struct{}
}

func newBlockingIndexer(scopes ...*document.Scope) *blockingIndexer {
	b := &blockingIndexer{started: make(chan string, len(scopes)), release: map[string]chan struct{}{}}
	for _, s := range scopes {
		b.release[s.String()] = make(chan struct{})
	}
	return b
}

func (b *blockingIndexer) IndexDocument(ctx context.Context, key document.Key, overwrite bool) error {
	return nil
}

func (b *blockingIndexer) DeleteDocument(ctx context.Context, key document.Key, overwrite bool) error {
	return nil
}

func (b *blockingIndexer) IndexScope(ctx context.Context, scope *document.Scope, overwrite bool) error {
	b.mu.Lock()
	release := b.release[scope.String()]
	b.mu.Unlock()

	b.started <- scope.String()
	select {
	case <-release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *blockingIndexer) unblock(scope *document.Scope) {
	close(b.release[scope.String()])
}

func waitStarted(t *testing.T, b *blockingIndexer) string {
	t.Helper()
	select {
	case s := <-b.started:
		return s
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a job to start")
		return ""
	}
}

type memReports struct {
	mu       sync.Mutex
	statuses []Status
}

func (m *memReports) WriteReport(ctx context.Context, status Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, status)
	return nil
}

func rebuild(scope *document.Scope, indexer Indexer) *Job {
	return New(Request{Scope: scope, Overwrite: true}, Dependencies{Indexer: indexer})
}

func submit(t *testing.T, s *Scheduler, j *Job) string {
	t.Helper()
	id, err := s.Submit(j)
	require.NoError(t, err)
	return id
}

func TestScheduler_SerializesOverlappingScopes(t *testing.T) {
	xwiki := document.WikiScope("xwiki")
	main := document.SpaceScope("xwiki", "Main")
	chess := document.WikiScope("chess")
	indexer := newBlockingIndexer(xwiki, main, chess)
	s := NewScheduler()

	a := submit(t, s, rebuild(xwiki, indexer))
	assert.Equal(t, "xwiki", waitStarted(t, indexer))

	b := submit(t, s, rebuild(main, indexer))
	c := submit(t, s, rebuild(chess, indexer))

	// The disjoint job starts while the overlapping one waits.
	assert.Equal(t, "chess", waitStarted(t, indexer))
	status, ok := s.Status(b)
	require.True(t, ok)
	assert.Equal(t, StateQueued, status.State)

	indexer.unblock(xwiki)
	assert.Equal(t, "xwiki:Main", waitStarted(t, indexer))

	indexer.unblock(main)
	indexer.unblock(chess)
	s.Wait()

	for _, id := range []string{a, b, c} {
		status, ok := s.Status(id)
		require.True(t, ok)
		assert.Equal(t, StateFinished, status.State, id)
		assert.NotNil(t, status.Summary)
		assert.NotNil(t, status.Started)
		assert.NotNil(t, status.Finished)
	}
}

func TestScheduler_CancelQueuedJob(t *testing.T) {
	xwiki := document.WikiScope("xwiki")
	indexer := newBlockingIndexer(xwiki)
	s := NewScheduler()

	submit(t, s, rebuild(xwiki, indexer))
	waitStarted(t, indexer)

	queued := submit(t, s, rebuild(nil, indexer))
	require.NoError(t, s.Cancel(queued))

	require.Eventually(t, func() bool {
		status, _ := s.Status(queued)
		return status.State == StateCanceled
	}, 5*time.Second, 10*time.Millisecond)

	indexer.unblock(xwiki)
	s.Wait()
}

func TestScheduler_Run(t *testing.T) {
	reports := &memReports{}
	m := &memIndex{
		store: map[document.Key]string{key("xwiki", "Main", "WebHome"): "1"},
		index: map[document.Key]string{},
	}
	s := NewScheduler(WithReports(reports))

	j := New(Request{ID: "job-1"}, m.deps())
	summary, err := s.Run(context.Background(), j)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Added)

	status, ok := s.Status("job-1")
	require.True(t, ok)
	assert.Equal(t, StateFinished, status.State)
	assert.Equal(t, "search/indexer", status.GroupPath)
	assert.Equal(t, int64(1), status.Processed)

	require.Len(t, reports.statuses, 1)
	assert.Equal(t, "job-1", reports.statuses[0].ID)
	assert.Equal(t, int64(1), reports.statuses[0].Summary.Added)
}

func TestScheduler_FailedJob(t *testing.T) {
	s := NewScheduler()
	_, err := s.Run(context.Background(), New(Request{ID: "bad", Scope: &document.Scope{}}, Dependencies{}))
	require.Error(t, err)

	status, ok := s.Status("bad")
	require.True(t, ok)
	assert.Equal(t, StateFailed, status.State)
	assert.NotEmpty(t, status.Error)
}

func TestScheduler_Unknown(t *testing.T) {
	s := NewScheduler()
	_, ok := s.Status("missing")
	assert.False(t, ok)
	assert.ErrorIs(t, s.Cancel("missing"), ErrUnknownJob)
}

func TestScheduler_Shutdown(t *testing.T) {
	xwiki := document.WikiScope("xwiki")
	indexer := newBlockingIndexer(xwiki)
	s := NewScheduler()

	id := submit(t, s, rebuild(xwiki, indexer))
	waitStarted(t, indexer)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	status, _ := s.Status(id)
	assert.Equal(t, StateCanceled, status.State)

	_, err := s.Submit(rebuild(xwiki, indexer))
	assert.ErrorIs(t, err, ErrSchedulerClosed)
}

func TestScheduler_AdmitsInSubmissionOrder(t *testing.T) {
	xwiki := document.WikiScope("xwiki")
	chess := document.WikiScope("chess")
	indexer := newBlockingIndexer(xwiki, nil, chess)
	s := NewScheduler()

	submit(t, s, rebuild(xwiki, indexer))
	assert.Equal(t, "xwiki", waitStarted(t, indexer))

	// The unscoped job overlaps every wiki: the later chess job must not
	// overtake it even though chess is disjoint from the running job.
	all := submit(t, s, rebuild(nil, indexer))
	later := submit(t, s, rebuild(chess, indexer))

	indexer.unblock(xwiki)
	assert.Equal(t, "*", waitStarted(t, indexer))
	status, ok := s.Status(later)
	require.True(t, ok)
	assert.Equal(t, StateQueued, status.State)

	indexer.unblock(nil)
	assert.Equal(t, "chess", waitStarted(t, indexer))
	indexer.unblock(chess)
	s.Wait()

	status, _ = s.Status(all)
	assert.Equal(t, StateFinished, status.State)
}

func TestScheduler_CanceledWaiterUnblocksQueue(t *testing.T) {
	xwiki := document.WikiScope("xwiki")
	chess := document.WikiScope("chess")
	indexer := newBlockingIndexer(xwiki, nil, chess)
	s := NewScheduler()

	submit(t, s, rebuild(xwiki, indexer))
	waitStarted(t, indexer)

	all := submit(t, s, rebuild(nil, indexer))
	submit(t, s, rebuild(chess, indexer))
	require.NoError(t, s.Cancel(all))

	assert.Equal(t, "chess", waitStarted(t, indexer))
	indexer.unblock(chess)
	indexer.unblock(xwiki)
	s.Wait()
}

func TestScheduler_Retention(t *testing.T) {
	s := NewScheduler(WithRetention(2))
	for _, id := range []string{"j1", "j2", "j3"} {
		_, err := s.Run(context.Background(), New(Request{ID: id, Scope: &document.Scope{}}, Dependencies{}))
		require.Error(t, err)
	}

	_, ok := s.Status("j1")
	assert.False(t, ok)
	assert.ErrorIs(t, s.Cancel("j1"), ErrUnknownJob)
	for _, id := range []string{"j2", "j3"} {
		_, ok := s.Status(id)
		assert.True(t, ok, id)
	}
	assert.Len(t, s.jobs, 2)
}
