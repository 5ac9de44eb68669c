package job

import (
	"context"
	"sort"
	"sync"

	"search-sync/core/document"
	"search-sync/core/reconcile"

	"github.com/stretchr/testify/mock"
)

// memPager serves a fixed set of rows in a single page.
type memPager struct {
	rows     []document.Row
	scope    *document.Scope
	done     bool
	fetchErr error
}

func (p *memPager) SetScope(scope *document.Scope) error {
	p.scope = scope
	return nil
}

func (p *memPager) NextPage(ctx context.Context) ([]document.Row, bool, error) {
	if p.fetchErr != nil {
		return nil, false, reconcile.NewSourceError("memory", reconcile.OpFetch, p.fetchErr)
	}
	if p.done {
		return nil, false, nil
	}
	p.done = true
	var rows []document.Row
	for _, r := range p.rows {
		if p.scope.Contains(r.Key()) {
			rows = append(rows, r)
		}
	}
	return rows, false, nil
}

func (p *memPager) Count(ctx context.Context) (int64, error) {
	return int64(len(p.rows)), nil
}

func rowsFactory(rows ...document.Row) IteratorFactory {
	return func() reconcile.Iterator[string] {
		return reconcile.NewPaged(&memPager{rows: rows})
	}
}

func failingFactory(err error) IteratorFactory {
	return func() reconcile.Iterator[string] {
		return reconcile.NewPaged(&memPager{fetchErr: err})
	}
}

func row(wiki, space, name, version string) document.Row {
	return document.Row{Wiki: wiki, Space: space, Name: name, Version: version}
}

func key(wiki, space, name string) document.Key {
	return document.Key{Wiki: wiki, Space: space, Name: name}
}

type mockIndexer struct {
	mock.Mock
}

func (m *mockIndexer) IndexDocument(ctx context.Context, key document.Key, overwrite bool) error {
	return m.Called(ctx, key, overwrite).Error(0)
}

func (m *mockIndexer) DeleteDocument(ctx context.Context, key document.Key, overwrite bool) error {
	return m.Called(ctx, key, overwrite).Error(0)
}

func (m *mockIndexer) IndexScope(ctx context.Context, scope *document.Scope, overwrite bool) error {
	return m.Called(ctx, scope, overwrite).Error(0)
}

type mockExists struct {
	mock.Mock
}

func (m *mockExists) Exists(ctx context.Context, key document.Key) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// memIndex is an in-memory store + index pair whose indexer copies store
// versions into the index.
type memIndex struct {
	mu    sync.Mutex
	store map[document.Key]string
	index map[document.Key]string
}

func (m *memIndex) sorted(src map[document.Key]string) []document.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]document.Row, 0, len(src))
	for k, v := range src {
		rows = append(rows, document.Row{Wiki: k.Wiki, Space: k.Space, Name: k.Name, Locale: k.Locale, Version: v})
	}
	sort.Slice(rows, func(i, j int) bool { return document.Compare(rows[i].Key(), rows[j].Key()) < 0 })
	return rows
}

func (m *memIndex) deps() Dependencies {
	return Dependencies{
		Indexer: m,
		Exists:  m,
		Store:   func() reconcile.Iterator[string] { return reconcile.NewPaged(&memPager{rows: m.sorted(m.store)}) },
		Index:   func() reconcile.Iterator[string] { return reconcile.NewPaged(&memPager{rows: m.sorted(m.index)}) },
	}
}

func (m *memIndex) IndexDocument(ctx context.Context, key document.Key, overwrite bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.index[key] = m.store[key]
	return nil
}

func (m *memIndex) DeleteDocument(ctx context.Context, key document.Key, overwrite bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.index, key)
	return nil
}

func (m *memIndex) IndexScope(ctx context.Context, scope *document.Scope, overwrite bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.index {
		if scope.Contains(k) {
			delete(m.index, k)
		}
	}
	for k, v := range m.store {
		if scope.Contains(k) {
			m.index[k] = v
		}
	}
	return nil
}

func (m *memIndex) Exists(ctx context.Context, key document.Key) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.store[key]
	return ok, nil
}
