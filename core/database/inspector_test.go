package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE test_docs (id INTEGER PRIMARY KEY, name TEXT, version TEXT)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "test_docs")
	assert.NoError(t, err)
	assert.Len(t, columns, 3)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}

	assert.Equal(t, "integer", colMap["id"])
	assert.Equal(t, "text", colMap["name"])
	assert.Equal(t, "text", colMap["version"])

	// PRAGMA table_info returns an empty result for a non-existent table
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestRequireColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE test_docs (id INTEGER PRIMARY KEY, name TEXT, version TEXT)").Error)

	assert.NoError(t, RequireColumns(db, "test_docs", "name", "VERSION"))
	assert.ErrorContains(t, RequireColumns(db, "test_docs", "name", "locale", "wiki"), "missing columns: locale, wiki")
	assert.ErrorContains(t, RequireColumns(db, "missing_table", "name"), "does not exist")
}
