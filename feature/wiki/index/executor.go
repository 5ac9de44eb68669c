package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"search-sync/core/document"
	"search-sync/core/utils"

	"github.com/olivere/elastic/v7"
)

// StartCursor marks the first page of a cursor walk.
const StartCursor = "*"

// Request is a single search request issued by the index iterator.
type Request struct {
	Query elastic.Query
	// Cursor is StartCursor or the Cursor of the previous page.
	Cursor string
	// Rows is the page size. Zero requests the hit count only.
	Rows int
}

// Page is one page of search results.
type Page struct {
	Rows []document.Row
	// Cursor resumes after the last row. It equals the request cursor when
	// the page is empty.
	Cursor string
	// Total is the number of matching documents; set for count requests.
	Total int64
}

// Executor runs search requests against the index.
type Executor interface {
	Search(ctx context.Context, req Request) (Page, error)
}

// ElasticExecutor is the Elasticsearch Executor. Pages are sorted by the key
// fields and walked with search_after.
type ElasticExecutor struct {
	client *elastic.Client
	index  string
}

// NewExecutor creates an executor reading index.
func NewExecutor(client *elastic.Client, index string) *ElasticExecutor {
	return &ElasticExecutor{client: client, index: index}
}

// Search implements Executor.
func (e *ElasticExecutor) Search(ctx context.Context, req Request) (Page, error) {
	svc := e.client.Search(e.index).Query(req.Query)

	if req.Rows == 0 {
		res, err := svc.Size(0).TrackTotalHits(true).Do(ctx)
		if err != nil {
			return Page{}, err
		}
		return Page{Cursor: req.Cursor, Total: res.TotalHits()}, nil
	}

	svc = svc.Size(req.Rows).
		TrackTotalHits(false).
		FetchSourceContext(elastic.NewFetchSourceContext(true).Include(keyFields...).Include(fieldVersion))
	for _, field := range keyFields {
		svc = svc.Sort(field, true)
	}

	if req.Cursor != "" && req.Cursor != StartCursor {
		after, err := decodeCursor(req.Cursor)
		if err != nil {
			return Page{}, err
		}
		svc = svc.SearchAfter(after...)
	}

	res, err := svc.Do(ctx)
	if err != nil {
		return Page{}, err
	}

	page := Page{Cursor: req.Cursor}
	if res.Hits == nil {
		return page, nil
	}
	for _, hit := range res.Hits.Hits {
		row, err := decodeRow(hit)
		if err != nil {
			return Page{}, err
		}
		page.Rows = append(page.Rows, row)
	}
	if n := len(res.Hits.Hits); n > 0 {
		cursor, err := json.Marshal(res.Hits.Hits[n-1].Sort)
		if err != nil {
			return Page{}, fmt.Errorf("failed to encode cursor: %w", err)
		}
		page.Cursor = string(cursor)
	}
	return page, nil
}

func decodeCursor(cursor string) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(cursor)))
	dec.UseNumber()
	var after []any
	if err := dec.Decode(&after); err != nil {
		return nil, fmt.Errorf("invalid cursor %q: %w", cursor, err)
	}
	return after, nil
}

func decodeRow(hit *elastic.SearchHit) (document.Row, error) {
	dec := json.NewDecoder(bytes.NewReader(hit.Source))
	dec.UseNumber()
	var src map[string]any
	if err := dec.Decode(&src); err != nil {
		return document.Row{}, fmt.Errorf("failed to decode hit %s: %w", hit.Id, err)
	}
	return document.Row{
		Wiki:    utils.ToString(src[fieldWiki]),
		Space:   utils.ToString(src[fieldSpace]),
		Name:    utils.ToString(src[fieldName]),
		Locale:  utils.ToString(src[fieldLocale]),
		Version: utils.ToString(src[fieldVersion]),
	}, nil
}
