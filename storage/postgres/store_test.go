package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/poiesic/promptharvest/core"
	"github.com/poiesic/promptharvest/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func rows() []core.EnrichedRecord {
	return []core.EnrichedRecord{
		core.RawRecord{PromptText: "cinematic city", ImageURL: "img1", Source: "lexica"}.Enriched([]string{"cinematic"}),
		core.RawRecord{PromptText: "neon dream", Source: "civitai"}.Enriched(nil),
	}
}

func TestUpsert_Success(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "prompts" .* ON CONFLICT \("prompt_text"\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	written, err := store.Upsert(context.Background(), rows())
	require.NoError(t, err)
	assert.Equal(t, 2, written)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestUpsert_Error(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "prompts"`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	written, err := store.Upsert(context.Background(), rows())
	require.Error(t, err)
	assert.Zero(t, written)
	assert.ErrorIs(t, err, storage.ErrRequestFailed)
	assert.Contains(t, err.Error(), "connection reset")
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestUpsert_EmptyIssuesNoQuery(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	written, err := store.Upsert(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, written)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestOpen_RequiresDSN(t *testing.T) {
	_, err := Open("", false)
	assert.ErrorIs(t, err, storage.ErrInvalidConfig)
}

func TestFromRecord(t *testing.T) {
	p := fromRecord(rows()[0])
	assert.Equal(t, "cinematic city", p.PromptText)
	require.NotNil(t, p.ImageURL)
	assert.Equal(t, "img1", *p.ImageURL)
	assert.Equal(t, []string{"cinematic"}, []string(p.StyleTags))

	p = fromRecord(rows()[1])
	assert.Nil(t, p.ImageURL)
	assert.NotNil(t, p.StyleTags)
	assert.Empty(t, p.StyleTags)
}

func TestPromptTableName(t *testing.T) {
	assert.Equal(t, storage.TableName, Prompt{}.TableName())
}
