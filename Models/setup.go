package Models

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect opens the sqlite database at path and migrates the schema.
// The returned handle is created once at startup and passed to every
// component that needs it; nothing in this codebase reaches for a
// package-level connection.
func Connect(path string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s?_foreign_keys=on", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs AutoMigrate for every table, base tables first.
func Migrate(db *gorm.DB) error {
	// 1. Tables with no foreign keys
	if err := db.AutoMigrate(
		&User{},
		&Driver{},
		&Vehicle{},
	); err != nil {
		return fmt.Errorf("migrate base tables: %w", err)
	}

	// 2. Ledger tables referencing vehicles and drivers
	if err := db.AutoMigrate(
		&KeyLogEntry{},
		&Trip{},
		&FuelingLog{},
	); err != nil {
		return fmt.Errorf("migrate ledger tables: %w", err)
	}
	return nil
}
