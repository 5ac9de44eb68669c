package index

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"search-sync/core/search"

	"github.com/olivere/elastic/v7"
	"github.com/stretchr/testify/require"
)

// fakeES is a minimal in-memory Elasticsearch serving the endpoints used by
// this package.
type fakeES struct {
	t *testing.T

	mu        sync.Mutex
	docs      map[string]Document
	searches  []map[string]any
	bulkCalls int
	cleared   int
	refreshes int
	failIndex bool
}

func newFakeES(t *testing.T) (*fakeES, *elastic.Client) {
	t.Helper()
	f := &fakeES{t: t, docs: make(map[string]Document)}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)

	client, err := search.NewClient(search.Config{URL: srv.URL})
	require.NoError(t, err)
	return f, client
}

func (f *fakeES) put(id string, doc Document) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[id] = doc
}

func (f *fakeES) ids() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.docs))
	for id := range f.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (f *fakeES) get(id string) (Document, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	return d, ok
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (f *fakeES) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	body, _ := io.ReadAll(r.Body)
	path := r.URL.Path

	switch {
	case strings.HasSuffix(path, "/_search"):
		f.search(w, body)
	case strings.HasSuffix(path, "/_bulk"):
		f.bulk(w, body)
	case strings.HasSuffix(path, "/_delete_by_query"):
		n := len(f.docs)
		f.docs = make(map[string]Document)
		f.cleared++
		writeJSON(w, http.StatusOK, map[string]any{"deleted": n, "total": n, "failures": []any{}})
	case strings.HasSuffix(path, "/_refresh"):
		f.refreshes++
		writeJSON(w, http.StatusOK, map[string]any{"_shards": map[string]int{"total": 1, "successful": 1, "failed": 0}})
	case r.Method == http.MethodDelete && strings.Contains(path, "/_doc/"):
		id := path[strings.Index(path, "/_doc/")+len("/_doc/"):]
		if _, ok := f.docs[id]; !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"_index": "documents", "_id": id, "result": "not_found"})
			return
		}
		delete(f.docs, id)
		writeJSON(w, http.StatusOK, map[string]any{"_index": "documents", "_id": id, "result": "deleted"})
	case strings.Contains(path, "/_doc/") || strings.Contains(path, "/_create/"):
		f.index(w, r, path, body)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]any{"type": "unexpected", "reason": r.Method + " " + path}, "status": 400})
	}
}

func (f *fakeES) index(w http.ResponseWriter, r *http.Request, path string, body []byte) {
	create := strings.Contains(path, "/_create/") || r.URL.Query().Get("op_type") == "create"
	id := path[strings.LastIndex(path, "/")+1:]

	if f.failIndex {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": map[string]any{"type": "exception", "reason": "disk full"}, "status": 500})
		return
	}
	if _, ok := f.docs[id]; ok && create {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":  map[string]any{"type": "version_conflict_engine_exception", "reason": "document already exists"},
			"status": 409,
		})
		return
	}
	var doc Document
	require.NoError(f.t, json.Unmarshal(body, &doc))
	f.docs[id] = doc
	writeJSON(w, http.StatusCreated, map[string]any{"_index": "documents", "_id": id, "_version": 1, "result": "created"})
}

func (f *fakeES) bulk(w http.ResponseWriter, body []byte) {
	f.bulkCalls++
	var items []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 1<<20), 1<<24)
	for scanner.Scan() {
		var action map[string]map[string]any
		require.NoError(f.t, json.Unmarshal(scanner.Bytes(), &action))
		require.True(f.t, scanner.Scan(), "bulk action without source")

		for op, meta := range action {
			id := fmt.Sprint(meta["_id"])
			status := http.StatusCreated
			if _, ok := f.docs[id]; ok && op == "create" {
				status = http.StatusConflict
			} else {
				var doc Document
				require.NoError(f.t, json.Unmarshal(scanner.Bytes(), &doc))
				f.docs[id] = doc
			}
			items = append(items, map[string]any{op: map[string]any{"_index": "documents", "_id": id, "status": status}})
		}
	}
	errorsFound := false
	for _, item := range items {
		for _, v := range item {
			if v.(map[string]any)["status"] != http.StatusCreated {
				errorsFound = true
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"took": 1, "errors": errorsFound, "items": items})
}

// search answers count and sorted search_after requests over the stored docs.
func (f *fakeES) search(w http.ResponseWriter, body []byte) {
	var req map[string]any
	require.NoError(f.t, json.Unmarshal(body, &req))
	f.searches = append(f.searches, req)

	type entry struct {
		id  string
		doc Document
	}
	var all []entry
	for id, d := range f.docs {
		all = append(all, entry{id, d})
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i].doc, all[j].doc
		return strings.Join([]string{a.Wiki, a.Space, a.Name, a.Locale}, "\x00") <
			strings.Join([]string{b.Wiki, b.Space, b.Name, b.Locale}, "\x00")
	})

	size := 10
	if s, ok := req["size"].(float64); ok {
		size = int(s)
	}
	if size == 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"took": 1,
			"hits": map[string]any{"total": map[string]any{"value": len(all), "relation": "eq"}, "hits": []any{}},
		})
		return
	}

	start := 0
	if after, ok := req["search_after"].([]any); ok {
		key := make([]string, len(after))
		for i, v := range after {
			key[i] = fmt.Sprint(v)
		}
		marker := strings.Join(key, "\x00")
		for start < len(all) {
			d := all[start].doc
			if strings.Join([]string{d.Wiki, d.Space, d.Name, d.Locale}, "\x00") > marker {
				break
			}
			start++
		}
	}

	hits := []any{}
	for i := start; i < len(all) && i < start+size; i++ {
		d := all[i].doc
		hits = append(hits, map[string]any{
			"_index":  "documents",
			"_id":     all[i].id,
			"_source": map[string]any{"wiki": d.Wiki, "space": d.Space, "name": d.Name, "locale": d.Locale, "version": d.Version},
			"sort":    []any{d.Wiki, d.Space, d.Name, d.Locale},
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"took": 1, "hits": map[string]any{"hits": hits}})
}
