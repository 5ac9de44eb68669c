package job

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"search-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// ObjectReports uploads job reports as JSON objects to object storage.
type ObjectReports struct {
	client storage.Client
	bucket string
	prefix string
}

// NewObjectReports creates a report writer storing <prefix>/<id>.json in bucket.
func NewObjectReports(client storage.Client, bucket, prefix string) *ObjectReports {
	return &ObjectReports{client: client, bucket: bucket, prefix: prefix}
}

// ObjectName returns the object key of the report of job id.
func (r *ObjectReports) ObjectName(id string) string {
	return path.Join(r.prefix, id+".json")
}

// WriteReport implements ReportWriter.
func (r *ObjectReports) WriteReport(ctx context.Context, status Status) error {
	body, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	_, err = r.client.PutObject(ctx, r.bucket, r.ObjectName(status.ID), bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload report %s: %w", status.ID, err)
	}
	return nil
}
