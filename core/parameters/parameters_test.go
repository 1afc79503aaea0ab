package parameters

import (
	"testing"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestDefaults(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	s := FromConfig(nil)
	assert.Equal(t, 100, s.AutoSizeMaxIterations)
	assert.Equal(t, rune(0x2026), s.EllipsisCharacter)
	assert.Equal(t, float32(0.4), s.WordWrappingRatio)
	assert.False(t, s.WarningsDisabled)
}

func TestFromConfig(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	conf := testconfig.Conf{
		KeyWarnings:      "false",
		KeyMissingGlyph:  "U+25A1",
		KeyMaxIterations: 12,
		KeyModernHangul:  true,
		KeyWordWrapRatio: "0.25",
		KeyLanguage:      "ko-KR",
		KeyEllipsis:      "…",
	}
	s := FromConfig(conf)
	assert.True(t, s.WarningsDisabled)
	assert.Equal(t, rune(0x25A1), s.MissingGlyphCharacter)
	assert.Equal(t, 12, s.AutoSizeMaxIterations)
	assert.True(t, s.ModernHangulLineBreaking)
	assert.Equal(t, float32(0.25), s.WordWrappingRatio)
	assert.True(t, s.IsKorean())
	assert.Equal(t, rune(0x2026), s.EllipsisCharacter)
}

func TestInvalidConfigKeepsDefaults(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	conf := testconfig.Conf{
		KeyMaxIterations: -1,
		KeyWordWrapRatio: "2.5",
		KeyLanguage:      "not a language!",
	}
	s := FromConfig(conf)
	assert.Equal(t, 100, s.AutoSizeMaxIterations)
	assert.Equal(t, float32(0.4), s.WordWrappingRatio)
	assert.Equal(t, language.Und, s.Language)
	assert.False(t, s.IsKorean())
}
