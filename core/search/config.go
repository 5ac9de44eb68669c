package search

// Config holds configuration for the search engine connection.
type Config struct {
	// URL is the Elasticsearch endpoint.
	URL string `mapstructure:"url" default:"http://localhost:9200"`
	// Index is the name of the index holding wiki documents.
	Index string `mapstructure:"index" default:"documents"`
	// Username enables basic authentication when set.
	Username string `mapstructure:"username" default:""`
	// Password is the basic authentication password.
	Password string `mapstructure:"password" default:""`
	// Sniff enables cluster node discovery.
	Sniff bool `mapstructure:"sniff" default:"false"`
	// TimeoutSeconds bounds every HTTP request to the cluster.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
