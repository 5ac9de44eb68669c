package index

import (
	"search-sync/core/document"

	"github.com/olivere/elastic/v7"
)

// QueryResolver turns a scope into a search query.
type QueryResolver interface {
	ResolveQuery(scope *document.Scope) elastic.Query
}

// Resolver builds filter queries equivalent to the store scope predicate.
type Resolver struct{}

// ResolveQuery implements QueryResolver. A nil scope matches everything.
func (Resolver) ResolveQuery(scope *document.Scope) elastic.Query {
	if scope == nil {
		return elastic.NewMatchAllQuery()
	}

	q := elastic.NewBoolQuery().Filter(elastic.NewTermQuery(fieldWiki, scope.Wiki))
	if len(scope.Space) == 0 {
		return q
	}

	space := scope.SpaceString()
	if scope.Name == "" {
		return q.Filter(elastic.NewBoolQuery().
			Should(
				elastic.NewTermQuery(fieldSpace, space),
				elastic.NewPrefixQuery(fieldSpace, space+string(document.SpaceSeparator)),
			).
			MinimumNumberShouldMatch(1))
	}

	q = q.Filter(elastic.NewTermQuery(fieldSpace, space), elastic.NewTermQuery(fieldName, scope.Name))
	if scope.Locale != "" {
		q = q.Filter(elastic.NewTermQuery(fieldLocale, scope.Locale))
	}
	return q
}
