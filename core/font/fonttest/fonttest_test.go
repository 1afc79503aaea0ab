package fonttest

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonoMetrics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.fonts")
	defer teardown()
	//
	f := Mono()
	a, ok := f.Character('A')
	require.True(t, ok)
	assert.Equal(t, float32(10), a.Glyph.Metrics.HorizontalAdvance)
	assert.Equal(t, float32(8), a.Glyph.Metrics.Width)
	sp, ok := f.Character(' ')
	require.True(t, ok)
	assert.Equal(t, float32(0), sp.Glyph.Metrics.Width)
	assert.Equal(t, float32(10), sp.Glyph.Metrics.HorizontalAdvance)
	cjk, ok := f.Character('中')
	require.True(t, ok)
	assert.Equal(t, float32(20), cjk.Glyph.Metrics.HorizontalAdvance)
	acute, ok := f.Character(0x0301)
	require.True(t, ok)
	assert.Equal(t, float32(0), acute.Glyph.Metrics.HorizontalAdvance)
	_, ok = f.Character(0x1F600)
	assert.False(t, ok)
}

func TestMonoFeatures(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.fonts")
	defer teardown()
	//
	f := Mono()
	p, ok := f.Features.Pair(GlyphIndex(f, 'A'), GlyphIndex(f, 'V'))
	require.True(t, ok)
	assert.Equal(t, float32(-2), p.FirstAdjust.XAdvance)
	lig, ok := f.Features.MatchLigature([]uint32{GlyphIndex(f, 'f'), GlyphIndex(f, 'i')})
	require.True(t, ok)
	assert.Equal(t, GlyphIndex(f, 0xFB01), lig.Glyph)
	_, ok = f.Features.MarkToBaseFor(GlyphIndex(f, 0x0301), GlyphIndex(f, 'e'))
	assert.True(t, ok)
	_, ok = f.Features.MarkToMarkFor(GlyphIndex(f, 0x0308), GlyphIndex(f, 0x0301))
	assert.True(t, ok)
}

func TestSprites(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.fonts")
	defer teardown()
	//
	sa := Sprites()
	assert.Equal(t, 3, sa.Len())
	i, ok := sa.SpriteIndex("heart")
	require.True(t, ok)
	assert.Equal(t, 1, i)
}

func TestGlyphWidthClasses(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.fonts")
	defer teardown()
	//
	assert.Equal(t, 1, width('A'))
	assert.Equal(t, 2, width('中'))
	assert.Equal(t, 2, width(0x1F600))
}
