package index

import "time"

// Search document fields.
const (
	fieldWiki      = "wiki"
	fieldSpace     = "space"
	fieldName      = "name"
	fieldLocale    = "locale"
	fieldVersion   = "version"
	fieldTitle     = "title"
	fieldContent   = "content"
	fieldUpdatedAt = "updated_at"
)

// keyFields are the sort fields of a cursor walk, in comparator order.
var keyFields = []string{fieldWiki, fieldSpace, fieldName, fieldLocale}

// Mapping is the index mapping of wiki documents. Key fields are keywords so
// that they sort byte-wise like document.Compare.
const Mapping = `{
  "mappings": {
    "properties": {
      "wiki":       {"type": "keyword"},
      "space":      {"type": "keyword"},
      "name":       {"type": "keyword"},
      "locale":     {"type": "keyword"},
      "version":    {"type": "keyword"},
      "title":      {"type": "text"},
      "content":    {"type": "text"},
      "updated_at": {"type": "date"}
    }
  }
}`

// Document is the search representation of a wiki document.
type Document struct {
	Wiki      string    `json:"wiki"`
	Space     string    `json:"space"`
	Name      string    `json:"name"`
	Locale    string    `json:"locale"`
	Version   string    `json:"version"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
