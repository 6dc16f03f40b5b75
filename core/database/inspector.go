package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ColumnInfo matches the output of SHOW COLUMNS
type ColumnInfo struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default *string // Pointer because NULL default is possible
	Extra   string
}

// NotNull reports whether the column carries a NOT NULL constraint.
func (c ColumnInfo) NotNull() bool {
	return strings.EqualFold(c.Null, "NO")
}

// TableExists checks the database catalog for the presence of a table.
func TableExists(db *gorm.DB, tableName string) (bool, error) {
	var count int64
	var err error
	if db.Dialector.Name() == "sqlite" {
		err = db.Raw("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", tableName).Scan(&count).Error
	} else {
		err = db.Raw("SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?", tableName).Scan(&count).Error
	}
	if err != nil {
		return false, fmt.Errorf("failed to check existence of table %s: %w", tableName, err)
	}
	return count > 0, nil
}

// GetTableColumns retrieves the column definitions for a given table.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	var columns []ColumnInfo
	// Check dialect
	if db.Dialector.Name() == "sqlite" {
		// SQLite uses PRAGMA table_info
		type sqliteColumn struct {
			Cid        int     `gorm:"column:cid"`
			Name       string  `gorm:"column:name"`
			Type       string  `gorm:"column:type"`
			NotNull    int     `gorm:"column:notnull"`
			DefaultVal *string `gorm:"column:dflt_value"`
			Pk         int     `gorm:"column:pk"`
		}
		var sqliteCols []sqliteColumn
		if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", tableName)).Scan(&sqliteCols).Error; err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
		}
		for _, col := range sqliteCols {
			null := "YES"
			if col.NotNull == 1 {
				null = "NO"
			}
			key := ""
			if col.Pk > 0 {
				key = "PRI"
			}
			columns = append(columns, ColumnInfo{
				Field:   strings.ToLower(col.Name),
				Type:    strings.ToLower(col.Type),
				Null:    null,
				Key:     key,
				Default: col.DefaultVal,
			})
		}
		return columns, nil
	}

	// Use Raw SQL for MySQL "SHOW COLUMNS".
	// GORM's Migrator().ColumnTypes() is an abstraction, but raw gives the exact type strings.
	err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", tableName)).Scan(&columns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}
	// Normalize names and types to lowercase
	for i := range columns {
		columns[i].Type = strings.ToLower(columns[i].Type)
		columns[i].Field = strings.ToLower(columns[i].Field)
	}
	return columns, nil
}
