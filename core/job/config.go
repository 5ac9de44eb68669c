package job

// Config holds the tuning knobs of synchronization jobs.
type Config struct {
	// BatchSize is the page size of the store iterator.
	BatchSize int `mapstructure:"batch_size" default:"100"`
	// PageSize is the page size of the index iterator.
	PageSize int `mapstructure:"page_size" default:"100"`
	// IndexRate caps index mutations per second. Zero disables throttling.
	IndexRate float64 `mapstructure:"index_rate" default:"0"`
	// Workers bounds the number of wikis synchronized in parallel.
	Workers int `mapstructure:"workers" default:"4"`
	// ReportPrefix is the object storage prefix of job reports. Empty disables reports.
	ReportPrefix string `mapstructure:"report_prefix" default:"reports/index-sync"`
	// Retention is the number of finished jobs whose status stays queryable.
	Retention int `mapstructure:"retention" default:"1000"`
}
