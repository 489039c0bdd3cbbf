package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS meals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		totalCalories REAL NOT NULL,
		createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS foods (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		mealId INTEGER NOT NULL,
		name TEXT NOT NULL,
		brand TEXT,
		image TEXT,
		calories REAL NOT NULL,
		proteins REAL,
		carbs REAL,
		fats REAL,
		quantity REAL NOT NULL DEFAULT 1,
		measure TEXT NOT NULL DEFAULT 'portion',
		isScanned INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (mealId) REFERENCES meals (id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_foods_mealId ON foods(mealId)`,
	`CREATE INDEX IF NOT EXISTS idx_meals_date ON meals(date)`,
	`CREATE TABLE IF NOT EXISTS db_version (
		version INTEGER PRIMARY KEY
	)`,
}

// EnsureSchema creates the tables and indexes that do not exist yet.
// Existing objects are left as they are; upgrades belong to the ladder.
func EnsureSchema(ctx context.Context, db *gorm.DB) error {
	for _, stmt := range schema {
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
