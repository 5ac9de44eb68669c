package document

import "strings"

const (
	// SpaceSeparator separates the segments of a serialized space path.
	SpaceSeparator = '.'
	escapeChar     = '\\'

	// segmentSpecials are escaped in space segments and names,
	// wikiSpecials in the wiki of a rendered key.
	segmentSpecials = `.;\`
	wikiSpecials    = `:\`
)

// Key identifies a document in both the authoritative store and the search index.
type Key struct {
	// Wiki is the partition the document belongs to.
	Wiki string `json:"wiki"`
	// Space is the serialized hierarchical path of the document (see JoinSpace).
	Space string `json:"space"`
	// Name is the leaf name of the document.
	Name string `json:"name"`
	// Locale is the translation locale; empty for the default locale.
	Locale string `json:"locale,omitempty"`
}

// NewKey builds a key from its path segments.
func NewKey(wiki string, space []string, name, locale string) Key {
	return Key{Wiki: wiki, Space: JoinSpace(space), Name: name, Locale: locale}
}

// SpacePath returns the space segments of the key.
func (k Key) SpacePath() []string {
	return SplitSpace(k.Space)
}

// String renders the key as wiki:space.name;locale. It is also the id of the
// document in the search index, so distinct keys render distinct strings: the
// wiki ends at the first unescaped ':' and the name is escaped.
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(escape(k.Wiki, wikiSpecials))
	b.WriteByte(':')
	if k.Space != "" {
		b.WriteString(k.Space)
		b.WriteByte(SpaceSeparator)
	}
	b.WriteString(escape(k.Name, segmentSpecials))
	if k.Locale != "" {
		b.WriteByte(';')
		b.WriteString(k.Locale)
	}
	return b.String()
}

// Compare orders keys by wiki, space, name and locale.
// Both iterator sources stream in this order.
func Compare(a, b Key) int {
	if c := strings.Compare(a.Wiki, b.Wiki); c != 0 {
		return c
	}
	if c := strings.Compare(a.Space, b.Space); c != 0 {
		return c
	}
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return strings.Compare(a.Locale, b.Locale)
}

// Row is a single result row of a store or search query.
type Row struct {
	Wiki    string
	Space   string
	Name    string
	Locale  string
	Version string
}

// Key returns the document key of the row.
func (r Row) Key() Key {
	return Key{Wiki: r.Wiki, Space: r.Space, Name: r.Name, Locale: r.Locale}
}

// JoinSpace serializes space segments, escaping separators inside segments.
func JoinSpace(segments []string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = escape(s, segmentSpecials)
	}
	return strings.Join(escaped, string(SpaceSeparator))
}

// SplitSpace is the inverse of JoinSpace.
func SplitSpace(space string) []string {
	if space == "" {
		return nil
	}
	var (
		segments []string
		current  strings.Builder
		escaped  bool
	)
	for _, r := range space {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == escapeChar:
			escaped = true
		case r == SpaceSeparator:
			segments = append(segments, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(segments, current.String())
}

func escape(s, specials string) string {
	if !strings.ContainsAny(s, specials) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(specials, r) {
			b.WriteRune(escapeChar)
		}
		b.WriteRune(r)
	}
	return b.String()
}
