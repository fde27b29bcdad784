package translation

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/heritagecrafts/platform/backend/internal/domain/providers"
)

// MockTranslationProvider is a deterministic provider for development and
// tests. Known glossary terms translate exactly; everything else is
// echoed with a language tag so callers can see the pipeline worked.
type MockTranslationProvider struct {
	glossary map[string]map[string]string
}

// NewMockTranslationProvider creates a mock provider with a small
// heritage-craft glossary
func NewMockTranslationProvider() *MockTranslationProvider {
	return &MockTranslationProvider{
		glossary: map[string]map[string]string{
			"手雕麻將": {"en": "Hand-carved Mahjong", "zh-CN": "手雕麻将"},
			"霓虹燈牌": {"en": "Neon Signs", "zh-CN": "霓虹灯牌"},
			"竹蒸籠":  {"en": "Bamboo Steamers", "zh-CN": "竹蒸笼"},
			"白鐵器具": {"en": "Galvanised Ironware", "zh-CN": "白铁器具"},
			"廣彩":   {"en": "Canton Porcelain", "zh-CN": "广彩"},
		},
	}
}

// Name identifies the provider in cache entries and logs
func (p *MockTranslationProvider) Name() string {
	return "mock"
}

// Translate translates text from sourceLang to targetLang
func (p *MockTranslationProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (*providers.TranslationResult, error) {
	if targets, ok := p.glossary[text]; ok {
		if translated, ok := targets[targetLang]; ok {
			return &providers.TranslationResult{Text: translated, Quality: 0.95}, nil
		}
	}
	return &providers.TranslationResult{
		Text:    fmt.Sprintf("[%s] %s", targetLang, text),
		Quality: 0.3,
	}, nil
}

// DetectLanguage guesses the language of the given text
func (p *MockTranslationProvider) DetectLanguage(ctx context.Context, text string) (string, error) {
	for _, r := range text {
		if unicode.Is(unicode.Han, r) {
			return "zh-HK", nil
		}
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("cannot detect language of empty text")
	}
	return "en", nil
}
