package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
	"github.com/heritagecrafts/platform/backend/internal/domain/repositories"
	"github.com/heritagecrafts/platform/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/heritagecrafts/platform/backend/pkg/errors"
)

var translationColumns = []any{
	"id", "source_text", "source_lang", "target_lang", "translated_text",
	"provider", "quality", "created_at", "last_used", "use_count",
}

// TranslationCacheAdapter implements TranslationCacheRepository
type TranslationCacheAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewTranslationCacheAdapter creates a new translation cache adapter
func NewTranslationCacheAdapter(client *postgres.Client) repositories.TranslationCacheRepository {
	return &TranslationCacheAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Get looks up one cached translation
func (a *TranslationCacheAdapter) Get(ctx context.Context, sourceText, sourceLang, targetLang string) (*entities.TranslationCacheEntry, error) {
	query, args, err := a.db.Select(translationColumns...).
		From("translation_cache").
		Where(goqu.Ex{
			"source_text": sourceText,
			"source_lang": sourceLang,
			"target_lang": targetLang,
		}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	entry := &entities.TranslationCacheEntry{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&entry.ID,
		&entry.SourceText,
		&entry.SourceLang,
		&entry.TargetLang,
		&entry.TranslatedText,
		&entry.Provider,
		&entry.Quality,
		&entry.CreatedAt,
		&entry.LastUsed,
		&entry.UseCount,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("translation not cached")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get cached translation", err)
	}
	return entry, nil
}

// Put inserts or replaces one cached translation
func (a *TranslationCacheAdapter) Put(ctx context.Context, entry *entities.TranslationCacheEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	now := time.Now()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	if entry.LastUsed.IsZero() {
		entry.LastUsed = now
	}
	if entry.UseCount == 0 {
		entry.UseCount = 1
	}

	record := goqu.Record{
		"id":              entry.ID,
		"source_text":     entry.SourceText,
		"source_lang":     entry.SourceLang,
		"target_lang":     entry.TargetLang,
		"translated_text": entry.TranslatedText,
		"provider":        entry.Provider,
		"quality":         entry.Quality,
		"created_at":      entry.CreatedAt,
		"last_used":       entry.LastUsed,
		"use_count":       entry.UseCount,
	}

	query, args, err := a.db.Insert("translation_cache").
		Rows(record).
		OnConflict(goqu.DoUpdate("source_text, source_lang, target_lang", goqu.Record{
			"translated_text": entry.TranslatedText,
			"provider":        entry.Provider,
			"quality":         entry.Quality,
			"last_used":       entry.LastUsed,
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to store translation", err)
	}
	return nil
}

// Touch refreshes LastUsed and increments UseCount
func (a *TranslationCacheAdapter) Touch(ctx context.Context, id string) error {
	query := `
		UPDATE translation_cache
		SET last_used = NOW(), use_count = use_count + 1
		WHERE id = $1
	`
	if _, err := a.client.DB().ExecContext(ctx, query, id); err != nil {
		return apperrors.NewInternalError("failed to touch translation entry", err)
	}
	return nil
}

// Count returns the number of cached entries
func (a *TranslationCacheAdapter) Count(ctx context.Context) (int, error) {
	var count int
	err := a.client.DB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM translation_cache`,
	).Scan(&count)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to count translation entries", err)
	}
	return count, nil
}

// EvictLowValue removes up to n entries, lowest use_count first, then
// oldest last_used. Approximate LFU/LRU hybrid, not a strict LRU.
func (a *TranslationCacheAdapter) EvictLowValue(ctx context.Context, n int) (int, error) {
	query := `
		DELETE FROM translation_cache
		WHERE id IN (
			SELECT id FROM translation_cache
			ORDER BY use_count ASC, last_used ASC
			LIMIT $1
		)
	`

	result, err := a.client.DB().ExecContext(ctx, query, n)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to evict translation entries", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to read evicted row count", err)
	}
	return int(affected), nil
}

// DeleteExpired removes entries created before the cutoff
func (a *TranslationCacheAdapter) DeleteExpired(ctx context.Context, before time.Time) (int, error) {
	result, err := a.client.DB().ExecContext(ctx,
		`DELETE FROM translation_cache WHERE created_at < $1`, before,
	)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to delete expired translations", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to read expired row count", err)
	}
	return int(affected), nil
}
