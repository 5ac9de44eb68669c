package models_test

import (
	"testing"

	"search-sync/core/database"
	"search-sync/core/document"
	"search-sync/feature/wiki/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument(t *testing.T) {
	d := models.Document{Wiki: "xwiki", Space: "Main", Name: "WebHome", Locale: "fr"}
	assert.Equal(t, "documents", d.TableName())
	assert.Equal(t, document.Key{Wiki: "xwiki", Space: "Main", Name: "WebHome", Locale: "fr"}, d.Key())
}

func TestMigrate_SQLite(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	require.NoError(t, models.Migrate(db))
	require.NoError(t, database.RequireColumns(db, "documents", append(models.KeyColumns, "version", "content_object")...))

	require.NoError(t, db.Create(&models.Document{Wiki: "xwiki", Space: "Main", Name: "WebHome", Version: "1.1"}).Error)
	err = db.Create(&models.Document{Wiki: "xwiki", Space: "Main", Name: "WebHome", Version: "2.1"}).Error
	assert.Error(t, err, "duplicate key must violate the unique index")
}
