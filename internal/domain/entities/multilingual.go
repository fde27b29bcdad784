package entities

import (
	"sort"
	"strings"
)

// MultilingualText maps a BCP 47 language tag to display text for that
// language, e.g. {"zh-HK": "手雕麻將", "en": "Hand-carved Mahjong"}.
type MultilingualText map[string]string

// Resolve returns the display text for the requested language.
//
// Resolution order:
//  1. exact language tag match
//  2. any key sharing the requested primary subtag (zh-HK resolves zh-CN)
//  3. the first key in sorted order
//
// The boolean is false only when the map is empty.
func (m MultilingualText) Resolve(lang string) (string, bool) {
	if len(m) == 0 {
		return "", false
	}

	if text, ok := m[lang]; ok {
		return text, true
	}

	primary := primarySubtag(lang)

	// Sorted keys keep the subtag and first-key fallbacks deterministic.
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if primary != "" {
		for _, k := range keys {
			if k == primary || strings.HasPrefix(k, primary+"-") {
				return m[k], true
			}
		}
	}

	return m[keys[0]], true
}

// ResolveOrEmpty is Resolve with an empty-string fallback.
func (m MultilingualText) ResolveOrEmpty(lang string) string {
	text, _ := m.Resolve(lang)
	return text
}

func primarySubtag(lang string) string {
	if i := strings.Index(lang, "-"); i > 0 {
		return lang[:i]
	}
	return lang
}
