package providers

import (
	"context"
)

// TranslationResult carries one provider translation and its self-reported
// quality in [0,1].
type TranslationResult struct {
	Text    string
	Quality float64
}

// TranslationProvider defines the external machine-translation service.
// BatchTranslate and DetectLanguage are optional capabilities; adapters
// for providers without them fan out to Translate.
type TranslationProvider interface {
	// Name identifies the provider in cache entries and logs.
	Name() string

	// Translate translates text from sourceLang to targetLang.
	Translate(ctx context.Context, text, sourceLang, targetLang string) (*TranslationResult, error)

	// DetectLanguage guesses the language of the given text.
	DetectLanguage(ctx context.Context, text string) (string, error)
}
