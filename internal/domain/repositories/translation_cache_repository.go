package repositories

import (
	"context"
	"time"

	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
)

// TranslationCacheRepository is the bounded store behind the translation
// cache. Capacity enforcement lives in the translation service; the
// repository only executes the eviction order.
type TranslationCacheRepository interface {
	Get(ctx context.Context, sourceText, sourceLang, targetLang string) (*entities.TranslationCacheEntry, error)
	Put(ctx context.Context, entry *entities.TranslationCacheEntry) error

	// Touch refreshes LastUsed and increments UseCount.
	Touch(ctx context.Context, id string) error

	Count(ctx context.Context) (int, error)

	// EvictLowValue removes up to n entries, lowest UseCount first, then
	// oldest LastUsed, and reports how many were removed.
	EvictLowValue(ctx context.Context, n int) (int, error)

	// DeleteExpired removes entries created before the cutoff.
	DeleteExpired(ctx context.Context, before time.Time) (int, error)
}
