package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/heritagecrafts/platform/backend/internal/domain/repositories"
	"github.com/heritagecrafts/platform/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/heritagecrafts/platform/backend/pkg/errors"
)

func newMockTranslationCacheAdapter(t *testing.T) (repositories.TranslationCacheRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTranslationCacheAdapter(postgres.NewClientWithDB(db)), mock
}

func TestEvictLowValue_ReportsEvictedCount(t *testing.T) {
	adapter, mock := newMockTranslationCacheAdapter(t)

	mock.ExpectExec("DELETE FROM translation_cache").
		WithArgs(10).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := adapter.EvictLowValue(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEvictLowValue_RowCountFailureSurfaces(t *testing.T) {
	adapter, mock := newMockTranslationCacheAdapter(t)

	mock.ExpectExec("DELETE FROM translation_cache").
		WithArgs(10).
		WillReturnResult(sqlmock.NewErrorResult(errors.New("driver gave up")))

	n, err := adapter.EvictLowValue(context.Background(), 10)

	assert.Equal(t, 0, n)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
}

func TestDeleteExpired_RowCountFailureSurfaces(t *testing.T) {
	adapter, mock := newMockTranslationCacheAdapter(t)

	mock.ExpectExec("DELETE FROM translation_cache").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewErrorResult(errors.New("driver gave up")))

	n, err := adapter.DeleteExpired(context.Background(), time.Now().Add(-30*24*time.Hour))

	assert.Equal(t, 0, n)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
}
