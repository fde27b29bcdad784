package translation

import (
	"github.com/heritagecrafts/platform/backend/internal/domain/providers"
	"github.com/heritagecrafts/platform/backend/pkg/config"
)

// NewProvider builds the configured translation provider. Returns nil
// when no provider is configured; the translation service surfaces that
// as a provider-unavailable error only on direct translation requests.
func NewProvider(cfg *config.TranslationConfig) providers.TranslationProvider {
	switch cfg.Provider {
	case "mock":
		return NewMockTranslationProvider()
	default:
		return nil
	}
}
