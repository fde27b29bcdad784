package services

import (
	"context"
	"sync"
	"time"

	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
	"github.com/heritagecrafts/platform/backend/internal/domain/providers"
	"github.com/heritagecrafts/platform/backend/internal/domain/repositories"
	"github.com/heritagecrafts/platform/backend/internal/infrastructure/observability"
	"github.com/heritagecrafts/platform/backend/pkg/config"
	apperrors "github.com/heritagecrafts/platform/backend/pkg/errors"
)

// TranslationService translates display text through a bounded,
// persistent cache. Cache hits never touch the provider; misses call it
// and store the result, evicting low-value entries when the store is
// full.
type TranslationService struct {
	repo     repositories.TranslationCacheRepository
	provider providers.TranslationProvider
	capacity int
	ttl      time.Duration
	workers  int
}

// NewTranslationService creates a new translation service. provider may
// be nil; translation requests then fail with an unavailable error
// while cached entries keep being served.
func NewTranslationService(
	repo repositories.TranslationCacheRepository,
	provider providers.TranslationProvider,
	cfg config.TranslationConfig,
) *TranslationService {
	workers := cfg.BatchWorkers
	if workers < 1 {
		workers = 1
	}
	return &TranslationService{
		repo:     repo,
		provider: provider,
		capacity: cfg.CacheCapacity,
		ttl:      time.Duration(cfg.CacheTTLDays) * 24 * time.Hour,
		workers:  workers,
	}
}

// Translate returns text in targetLang, from cache when possible
func (s *TranslationService) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if text == "" || sourceLang == targetLang {
		return text, nil
	}

	entry, err := s.repo.Get(ctx, text, sourceLang, targetLang)
	if err == nil {
		// Usage stats feed eviction; refreshing them must not delay the
		// response.
		go s.touch(entry.ID)
		return entry.TranslatedText, nil
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("translation cache lookup failed")
	}

	if s.provider == nil {
		return "", apperrors.NewUnavailableError("no translation provider configured")
	}

	result, err := s.provider.Translate(ctx, text, sourceLang, targetLang)
	if err != nil {
		return "", apperrors.NewExternalError("translation provider failed", err)
	}

	s.store(ctx, &entities.TranslationCacheEntry{
		SourceText:     text,
		SourceLang:     sourceLang,
		TargetLang:     targetLang,
		TranslatedText: result.Text,
		Provider:       s.provider.Name(),
		Quality:        result.Quality,
	})
	return result.Text, nil
}

// BatchTranslate translates one text into several target languages
// concurrently, bounded by the configured worker count. Failed targets
// are omitted from the result rather than failing the batch.
func (s *TranslationService) BatchTranslate(ctx context.Context, text, sourceLang string, targetLangs []string) (map[string]string, error) {
	if text == "" {
		return map[string]string{}, nil
	}

	translations := make(map[string]string, len(targetLangs))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.workers)

	for _, target := range targetLangs {
		target := target
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			translated, err := s.Translate(ctx, text, sourceLang, target)
			if err != nil {
				observability.LoggerFromContext(ctx).Warn().Err(err).
					Str("target_lang", target).Msg("batch translation target failed")
				return
			}
			mu.Lock()
			translations[target] = translated
			mu.Unlock()
		}()
	}
	wg.Wait()

	return translations, nil
}

// DetectLanguage identifies the language of the given text
func (s *TranslationService) DetectLanguage(ctx context.Context, text string) (string, error) {
	if s.provider == nil {
		return "", apperrors.NewUnavailableError("no translation provider configured")
	}
	lang, err := s.provider.DetectLanguage(ctx, text)
	if err != nil {
		return "", apperrors.NewExternalError("language detection failed", err)
	}
	return lang, nil
}

// store writes a new cache entry, making room first. Storage failures
// only cost future cache hits, so they are logged and swallowed.
func (s *TranslationService) store(ctx context.Context, entry *entities.TranslationCacheEntry) {
	logger := observability.LoggerFromContext(ctx)

	if err := s.ensureCapacity(ctx); err != nil {
		logger.Warn().Err(err).Msg("translation cache eviction failed")
	}
	if err := s.repo.Put(ctx, entry); err != nil {
		logger.Warn().Err(err).Msg("failed to cache translation")
	}
}

// ensureCapacity expires old entries and, when the store is still at
// capacity, evicts the least-used tenth.
func (s *TranslationService) ensureCapacity(ctx context.Context) error {
	if s.ttl > 0 {
		if _, err := s.repo.DeleteExpired(ctx, time.Now().Add(-s.ttl)); err != nil {
			return err
		}
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if count < s.capacity {
		return nil
	}

	evict := s.capacity / 10
	if evict < 1 {
		evict = 1
	}
	_, err = s.repo.EvictLowValue(ctx, evict)
	return err
}

func (s *TranslationService) touch(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), trackingTimeout)
	defer cancel()
	if err := s.repo.Touch(ctx, id); err != nil {
		observability.GetLogger().Warn().Err(err).Str("entry_id", id).Msg("failed to touch translation entry")
	}
}
