package index

import (
	"context"
	"errors"
	"fmt"
	"io"

	"search-sync/core/document"
	"search-sync/core/reconcile"
	"search-sync/core/storage"
	"search-sync/feature/wiki/models"
	"search-sync/feature/wiki/store"

	"github.com/minio/minio-go/v7"
	"github.com/olivere/elastic/v7"
	"go.uber.org/zap"
)

// DocumentLoader loads a full document row from the store.
type DocumentLoader interface {
	Document(ctx context.Context, key document.Key) (*models.Document, error)
}

// maxContentBytes caps the body read from object storage for one document.
const maxContentBytes = 10 << 20

// IndexerConfig holds the collaborators of an Indexer.
type IndexerConfig struct {
	Client *elastic.Client
	Index  string
	// Loader returns store.ErrNotFound for documents deleted meanwhile.
	Loader DocumentLoader
	// Storage and Bucket hold document content. Storage may be nil.
	Storage storage.Client
	Bucket  string
	// Store creates iterators over the store for IndexScope.
	Store func() reconcile.Iterator[string]
	// BatchSize bounds the bulk requests of IndexScope.
	BatchSize int
	Logger    *zap.Logger
}

// Indexer writes wiki documents to Elasticsearch.
type Indexer struct {
	cfg      IndexerConfig
	resolver Resolver
}

// NewIndexer creates an indexer.
func NewIndexer(cfg IndexerConfig) *Indexer {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultPageSize
	}
	return &Indexer{cfg: cfg}
}

// IndexDocument loads key from the store and writes it to the index. Without
// overwrite an existing entry is left untouched.
func (i *Indexer) IndexDocument(ctx context.Context, key document.Key, overwrite bool) error {
	doc, err := i.build(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		i.cfg.Logger.Debug("Document vanished before indexing", zap.String("key", key.String()))
		return i.DeleteDocument(ctx, key, overwrite)
	}
	if err != nil {
		return err
	}

	svc := i.cfg.Client.Index().Index(i.cfg.Index).Id(key.String()).BodyJson(doc)
	if !overwrite {
		svc = svc.OpType("create")
	}
	if _, err := svc.Do(ctx); err != nil {
		if !overwrite && elastic.IsConflict(err) {
			return nil
		}
		return fmt.Errorf("failed to index %s: %w", key, err)
	}
	return nil
}

// DeleteDocument removes key from the index. A missing entry is not an error.
func (i *Indexer) DeleteDocument(ctx context.Context, key document.Key, _ bool) error {
	_, err := i.cfg.Client.Delete().Index(i.cfg.Index).Id(key.String()).Do(ctx)
	if err != nil && !elastic.IsNotFound(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// IndexScope indexes every store document under scope with bulk requests.
// With overwrite, the scope is first cleared from the index.
func (i *Indexer) IndexScope(ctx context.Context, scope *document.Scope, overwrite bool) error {
	if overwrite {
		res, err := i.cfg.Client.DeleteByQuery(i.cfg.Index).
			Query(i.resolver.ResolveQuery(scope)).
			ProceedOnVersionConflict().
			Refresh("true").
			Do(ctx)
		if err != nil {
			return fmt.Errorf("failed to clear %s: %w", scope, err)
		}
		i.cfg.Logger.Debug("Cleared index scope", zap.String("scope", scope.String()), zap.Int64("deleted", res.Deleted))
	}

	it := i.cfg.Store()
	if err := it.SetScope(scope); err != nil {
		return err
	}

	bulk := i.cfg.Client.Bulk().Index(i.cfg.Index)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ok, err := it.HasNext(ctx)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		key, _, err := it.Next(ctx)
		if err != nil {
			return err
		}

		doc, err := i.build(ctx, key)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}

		req := elastic.NewBulkIndexRequest().Id(key.String()).Doc(doc)
		if !overwrite {
			req.OpType("create")
		}
		bulk.Add(req)
		if bulk.NumberOfActions() >= i.cfg.BatchSize {
			if err := i.flush(ctx, bulk, overwrite); err != nil {
				return err
			}
		}
	}
	if bulk.NumberOfActions() > 0 {
		if err := i.flush(ctx, bulk, overwrite); err != nil {
			return err
		}
	}

	if _, err := i.cfg.Client.Refresh(i.cfg.Index).Do(ctx); err != nil {
		return fmt.Errorf("failed to refresh index: %w", err)
	}
	return nil
}

// flush sends the pending bulk actions. The service is reset by Do.
func (i *Indexer) flush(ctx context.Context, bulk *elastic.BulkService, overwrite bool) error {
	res, err := bulk.Do(ctx)
	if err != nil {
		return fmt.Errorf("bulk index failed: %w", err)
	}
	for _, item := range res.Failed() {
		if !overwrite && item.Status == 409 {
			continue
		}
		reason := ""
		if item.Error != nil {
			reason = item.Error.Reason
		}
		return fmt.Errorf("bulk index of %s failed with status %d: %s", item.Id, item.Status, reason)
	}
	return nil
}

// build assembles the search document of key.
func (i *Indexer) build(ctx context.Context, key document.Key) (*Document, error) {
	row, err := i.cfg.Loader.Document(ctx, key)
	if err != nil {
		return nil, err
	}

	content, err := i.content(ctx, row.ContentObject)
	if err != nil {
		return nil, fmt.Errorf("failed to read content of %s: %w", key, err)
	}

	return &Document{
		Wiki:      row.Wiki,
		Space:     row.Space,
		Name:      row.Name,
		Locale:    row.Locale,
		Version:   row.Version,
		Title:     row.Title,
		Content:   content,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

// content reads the document body. Missing objects index metadata only.
func (i *Indexer) content(ctx context.Context, object string) (string, error) {
	if object == "" || i.cfg.Storage == nil {
		return "", nil
	}
	rc, err := i.cfg.Storage.GetObject(ctx, i.cfg.Bucket, object, minio.GetObjectOptions{})
	if errors.Is(err, storage.ErrObjectNotFound) {
		i.cfg.Logger.Debug("Content object missing", zap.String("object", object))
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer rc.Close()

	body, err := io.ReadAll(io.LimitReader(rc, maxContentBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
