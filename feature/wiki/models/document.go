package models

import (
	"fmt"
	"time"

	"search-sync/core/document"

	"gorm.io/gorm"
)

// Document represents the 'documents' table of the authoritative store.
// One row per (wiki, space, name, locale).
type Document struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Wiki          string    `gorm:"column:wiki;type:varchar(64);not null;uniqueIndex:idx_documents_key,priority:1"`
	Space         string    `gorm:"column:space;type:varchar(255);not null;uniqueIndex:idx_documents_key,priority:2"`
	Name          string    `gorm:"column:name;type:varchar(255);not null;uniqueIndex:idx_documents_key,priority:3"`
	Locale        string    `gorm:"column:locale;type:varchar(8);not null;default:'';uniqueIndex:idx_documents_key,priority:4"`
	Version       string    `gorm:"column:version;type:varchar(64);not null"`
	Title         string    `gorm:"column:title;type:varchar(768)"`
	ContentObject string    `gorm:"column:content_object;type:varchar(1024)"` // object storage key, empty when the body lives elsewhere
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

// TableName overrides the table name.
func (Document) TableName() string {
	return "documents"
}

// Key returns the document key of the row.
func (d Document) Key() document.Key {
	return document.Key{Wiki: d.Wiki, Space: d.Space, Name: d.Name, Locale: d.Locale}
}

// KeyColumns are the columns of the document key, in comparator order.
var KeyColumns = []string{"wiki", "space", "name", "locale"}

// Migrate creates or updates the documents table. On MySQL the key columns
// are switched to a binary collation so that ORDER BY matches document.Compare.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Document{}); err != nil {
		return fmt.Errorf("failed to migrate documents: %w", err)
	}
	if db.Dialector.Name() != "mysql" {
		return nil
	}
	stmt := "ALTER TABLE `documents` " +
		"MODIFY `wiki` varchar(64) NOT NULL COLLATE utf8mb4_bin, " +
		"MODIFY `space` varchar(255) NOT NULL COLLATE utf8mb4_bin, " +
		"MODIFY `name` varchar(255) NOT NULL COLLATE utf8mb4_bin, " +
		"MODIFY `locale` varchar(8) NOT NULL DEFAULT '' COLLATE utf8mb4_bin"
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("failed to set binary collation on documents: %w", err)
	}
	return nil
}
