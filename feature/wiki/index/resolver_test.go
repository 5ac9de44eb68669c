package index

import (
	"encoding/json"
	"testing"

	"search-sync/core/document"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func querySource(t *testing.T, scope *document.Scope) string {
	t.Helper()
	src, err := Resolver{}.ResolveQuery(scope).Source()
	require.NoError(t, err)
	out, err := json.Marshal(src)
	require.NoError(t, err)
	return string(out)
}

func TestResolver_ResolveQuery(t *testing.T) {
	tests := []struct {
		name     string
		scope    *document.Scope
		contains []string
		excludes []string
	}{
		{
			name:     "All",
			scope:    nil,
			contains: []string{`"match_all":{}`},
		},
		{
			name:     "Wiki",
			scope:    document.WikiScope("xwiki"),
			contains: []string{`"term":{"wiki":"xwiki"}`},
			excludes: []string{`"space"`},
		},
		{
			name:  "Space",
			scope: document.SpaceScope("xwiki", "Main", "Sub"),
			contains: []string{
				`"term":{"wiki":"xwiki"}`,
				`"term":{"space":"Main.Sub"}`,
				`"prefix":{"space":"Main.Sub."}`,
				`"minimum_should_match":"1"`,
			},
		},
		{
			name:  "Document",
			scope: &document.Scope{Wiki: "xwiki", Space: []string{"Main"}, Name: "WebHome"},
			contains: []string{
				`"term":{"space":"Main"}`,
				`"term":{"name":"WebHome"}`,
			},
			excludes: []string{`"prefix"`, `"locale"`},
		},
		{
			name:     "DocumentLocale",
			scope:    &document.Scope{Wiki: "xwiki", Space: []string{"Main"}, Name: "WebHome", Locale: "fr"},
			contains: []string{`"term":{"locale":"fr"}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := querySource(t, tt.scope)
			for _, s := range tt.contains {
				assert.Contains(t, src, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, src, s)
			}
		})
	}
}
