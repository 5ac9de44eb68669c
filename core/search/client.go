package search

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/olivere/elastic/v7"
)

// NewClient creates an Elasticsearch client from the configuration.
// No request is sent until the client is used.
func NewClient(cfg Config) (*elastic.Client, error) {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	opts := []elastic.ClientOptionFunc{
		elastic.SetURL(cfg.URL),
		elastic.SetSniff(cfg.Sniff),
		elastic.SetHealthcheck(false),
		elastic.SetHttpClient(&http.Client{Timeout: time.Duration(timeout) * time.Second}),
	}
	if cfg.Username != "" {
		opts = append(opts, elastic.SetBasicAuth(cfg.Username, cfg.Password))
	}

	client, err := elastic.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create search client: %w", err)
	}
	return client, nil
}

// EnsureIndex creates the index with the given mapping when it does not exist.
func EnsureIndex(ctx context.Context, client *elastic.Client, index, mapping string) error {
	exists, err := client.IndexExists(index).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", index, err)
	}
	if exists {
		return nil
	}
	if _, err := client.CreateIndex(index).BodyString(mapping).Do(ctx); err != nil {
		return fmt.Errorf("failed to create index %s: %w", index, err)
	}
	return nil
}
