// Package config provides configuration management for search-sync.
//
// It loads an optional .env file with godotenv, registers every key declared
// by the `mapstructure` tags with its `default` tag value, and lets Viper
// overlay environment variables (SECTION_FIELD, e.g. SYNC_BATCH_SIZE).
//
// # Configuration Structure
//
//   - Server: HTTP port, API key and shutdown budget
//   - Database: authoritative document store connection
//   - Search: Elasticsearch endpoint and index name
//   - Storage: MinIO credentials and bucket for document content and reports
//   - Log: logging level and format
//   - Sync: iterator page sizes, indexing rate, parallelism and report prefix
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
