// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client. Document bodies are kept in object storage
// next to the authoritative store rows (the row names the object), and
// finished synchronization jobs may upload their report to the same bucket.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
//   - BucketExists / MakeBucket: used by EnsureBucket at startup.
//   - PutObject: uploads job reports.
//   - GetObject: reads document content. A missing key yields ErrObjectNotFound.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
