package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve_ExactMatch(t *testing.T) {
	text := MultilingualText{"zh-HK": "手雕麻將", "en": "Hand-carved Mahjong"}

	got, ok := text.Resolve("zh-HK")

	assert.True(t, ok)
	assert.Equal(t, "手雕麻將", got)
}

func TestResolve_PrimarySubtagFallback(t *testing.T) {
	// No zh-HK text, but zh-CN shares the zh primary subtag.
	text := MultilingualText{"zh-CN": "手雕麻将", "en": "Hand-carved Mahjong"}

	got, ok := text.Resolve("zh-HK")

	assert.True(t, ok)
	assert.Equal(t, "手雕麻将", got)
}

func TestResolve_BareSubtagMatchesRegionalRequest(t *testing.T) {
	text := MultilingualText{"zh": "麻將", "fr": "Mahjong sculpté"}

	got, ok := text.Resolve("zh-HK")

	assert.True(t, ok)
	assert.Equal(t, "麻將", got)
}

func TestResolve_FirstSortedKeyFallback(t *testing.T) {
	text := MultilingualText{"ja": "麻雀", "fr": "Mahjong"}

	got, ok := text.Resolve("en")

	// Deterministic: "fr" sorts before "ja".
	assert.True(t, ok)
	assert.Equal(t, "Mahjong", got)
}

func TestResolve_EmptyMap(t *testing.T) {
	var text MultilingualText

	got, ok := text.Resolve("en")

	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestResolveOrEmpty(t *testing.T) {
	assert.Equal(t, "", MultilingualText{}.ResolveOrEmpty("en"))
	assert.Equal(t, "廣彩", MultilingualText{"zh-HK": "廣彩"}.ResolveOrEmpty("en"))
}
