package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"search-sync/core/document"
	"search-sync/feature/wiki/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned by Document when no row matches the key.
var ErrNotFound = errors.New("document not found")

const keyOrder = "wiki ASC, space ASC, name ASC, locale ASC"

// Querier runs the store queries of the synchronization against the
// documents table.
type Querier struct {
	db *gorm.DB
}

// NewQuerier creates a querier over db.
func NewQuerier(db *gorm.DB) *Querier {
	return &Querier{db: db}
}

// Fetch returns one page of (key, version) rows under scope in key order.
func (q *Querier) Fetch(ctx context.Context, scope *document.Scope, offset, limit int) ([]document.Row, error) {
	// database/sql renders numeric version columns as their decimal string.
	var rows []document.Row
	err := q.scoped(ctx, scope).
		Select("wiki, space, name, locale, version").
		Order(keyOrder).
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of rows under scope.
func (q *Querier) Count(ctx context.Context, scope *document.Scope) (int64, error) {
	var n int64
	if err := q.scoped(ctx, scope).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// Exists reports whether the store holds key.
func (q *Querier) Exists(ctx context.Context, key document.Key) (bool, error) {
	var n int64
	err := q.byKey(ctx, key).Limit(1).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", key, err)
	}
	return n > 0, nil
}

// Wikis lists the distinct wikis of the store.
func (q *Querier) Wikis(ctx context.Context) ([]string, error) {
	var wikis []string
	err := q.db.WithContext(ctx).
		Model(&models.Document{}).
		Distinct("wiki").
		Order("wiki ASC").
		Pluck("wiki", &wikis).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wikis: %w", err)
	}
	return wikis, nil
}

// Document loads the full row of key.
func (q *Querier) Document(ctx context.Context, key document.Key) (*models.Document, error) {
	var doc models.Document
	err := q.byKey(ctx, key).Take(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return &doc, nil
}

func (q *Querier) byKey(ctx context.Context, key document.Key) *gorm.DB {
	return q.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("wiki = ? AND space = ? AND name = ? AND locale = ?", key.Wiki, key.Space, key.Name, key.Locale)
}

// scoped applies the scope predicate. Nested spaces are matched with a
// prefix LIKE on the serialized space path.
func (q *Querier) scoped(ctx context.Context, scope *document.Scope) *gorm.DB {
	tx := q.db.WithContext(ctx).Model(&models.Document{})
	if scope == nil {
		return tx
	}

	tx = tx.Where("wiki = ?", scope.Wiki)
	if len(scope.Space) == 0 {
		return tx
	}

	space := scope.SpaceString()
	if scope.Name == "" {
		pattern := escapeLike(space) + string(document.SpaceSeparator) + "%"
		return tx.Where("(space = ? OR space LIKE ? ESCAPE '!')", space, pattern)
	}

	tx = tx.Where("space = ? AND name = ?", space, scope.Name)
	if scope.Locale != "" {
		tx = tx.Where("locale = ?", scope.Locale)
	}
	return tx
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
