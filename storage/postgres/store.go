// Package postgres implements storage.PromptStore directly against PostgreSQL
// using GORM, for deployments that do not go through Supabase's REST layer.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/promptharvest/core"
	"github.com/poiesic/promptharvest/storage"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Store upserts prompts with INSERT ... ON CONFLICT (prompt_text) DO UPDATE.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

var _ storage.PromptStore = (*Store)(nil)

// Open connects to the database at dsn. When migrate is true the prompts table
// is created or updated to match the Prompt model.
func Open(dsn string, migrate bool) (storage.PromptStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: database url is required", storage.ErrInvalidConfig)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to db: %w", storage.ErrInvalidConfig, err)
	}

	if migrate {
		if err := db.AutoMigrate(&Prompt{}); err != nil {
			return nil, fmt.Errorf("failed to migrate prompts table: %w", err)
		}
	}
	return NewStore(db), nil
}

// NewStore wraps an existing GORM connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:     db,
		logger: slog.Default().With("component", "postgres-store"),
	}
}

// Upsert writes all rows in a single statement. The returned count is the
// number of rows the database reports as affected.
func (s *Store) Upsert(ctx context.Context, rows []core.EnrichedRecord) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	prompts := make([]Prompt, len(rows))
	for i, r := range rows {
		prompts[i] = fromRecord(r)
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: storage.ConflictKey}},
			DoUpdates: clause.AssignmentColumns([]string{"image_url", "source", "style_tags"}),
		}).
		Create(&prompts)
	if result.Error != nil {
		s.logger.Error("error upserting prompts", "rows", len(prompts), "err", result.Error)
		return 0, fmt.Errorf("%w: %w", storage.ErrRequestFailed, result.Error)
	}

	return int(result.RowsAffected), nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
