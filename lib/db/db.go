package db

import (
	"fmt"
	"log/slog"

	"github.com/movieshelf/movieshelf/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open opens (or creates) the SQLite catalog at path, tunes the connection,
// and migrates the schema. The movies table is created on first use.
func Open(path string, logger *slog.Logger) (*gorm.DB, error) {
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: NewGormLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %q: %w", path, err)
	}

	if err := enableSQLiteOptimizations(gdb, logger); err != nil {
		return nil, fmt.Errorf("failed to enable SQLite optimizations: %w", err)
	}

	if err := gdb.AutoMigrate(&models.Movie{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := createIndexes(gdb, logger); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return gdb, nil
}

// enableSQLiteOptimizations applies SQLite-specific pragmas.
func enableSQLiteOptimizations(gdb *gorm.DB, logger *slog.Logger) error {
	optimizations := []string{
		"PRAGMA journal_mode=WAL",   // Safer writes for a file-backed catalog
		"PRAGMA synchronous=NORMAL", // Faster writes while maintaining safety
		"PRAGMA foreign_keys=ON",    // Enable foreign key constraints
		"PRAGMA temp_store=MEMORY",  // Store temporary tables in memory
	}

	for _, pragma := range optimizations {
		if err := gdb.Exec(pragma).Error; err != nil {
			logger.Warn("Failed to execute pragma", slog.String("pragma", pragma), slog.Any("error", err))
		} else {
			logger.Debug("Executed pragma", slog.String("pragma", pragma))
		}
	}

	return nil
}

// createIndexes creates indexes for the listing and filter queries.
func createIndexes(gdb *gorm.DB, logger *slog.Logger) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_movies_rating ON movies(rating)",
		"CREATE INDEX IF NOT EXISTS idx_movies_year ON movies(year)",
	}

	for _, indexSQL := range indexes {
		if err := gdb.Exec(indexSQL).Error; err != nil {
			logger.Warn("Failed to create index", slog.String("sql", indexSQL), slog.Any("error", err))
		} else {
			logger.Debug("Created index", slog.String("sql", indexSQL))
		}
	}

	return nil
}
