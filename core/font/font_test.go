package font

import (
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textmesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.fonts")
	defer teardown()
	//
	assert.Equal(t, "gill_sans_mt_bold", NormalizeName(" Gill Sans MT Bold.ttf"))
	assert.Equal(t, "mono", NormalizeName("Mono.toml"))
	assert.Equal(t, "a.b", NormalizeName("A.B"))
}

func TestLoadDescriptor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.fonts")
	defer teardown()
	//
	f := loadMono(t)
	assert.Equal(t, "Mono Test", f.Name)
	assert.Equal(t, float32(8), f.Face.AscentLine)
	assert.Equal(t, float32(-2), f.Face.DescentLine)
	assert.Equal(t, 20, f.ItalicStyle)
	c, ok := f.Character('A')
	require.True(t, ok)
	assert.Equal(t, uint32(1), c.Glyph.Index)
	assert.Equal(t, float32(10), c.Glyph.Metrics.HorizontalAdvance)
	c, ok = f.Character(0xFB01)
	require.True(t, ok)
	assert.Equal(t, float32(20), c.Glyph.Metrics.HorizontalAdvance)
	p, ok := f.Features.Pair(1, 2)
	require.True(t, ok)
	assert.Equal(t, float32(-2), p.FirstAdjust.XAdvance)
	_, ok = f.Features.Pair(2, 1)
	assert.False(t, ok)
	lig, ok := f.Features.MatchLigature([]uint32{4, 5, 1})
	require.True(t, ok)
	assert.Equal(t, uint32(6), lig.Glyph)
	m, ok := f.Features.MarkToBaseFor(7, 1)
	require.True(t, ok)
	assert.Equal(t, Anchor{X: 5, Y: 9}, m.BaseAnchor)
}

func TestDescriptorErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.fonts")
	defer teardown()
	//
	_, err := LoadDescriptor(strings.NewReader(`name = "x"`))
	assert.Equal(t, core.EFORMAT, core.Code(err))
	_, err = LoadDescriptor(strings.NewReader("name = \"x\"\nunknown = 1\n"))
	assert.Equal(t, core.EFORMAT, core.Code(err))
	_, err = LoadDescriptor(strings.NewReader(`
name = "x"
[face]
point_size = 10
[[characters]]
char = "A"
glyph = 99
`))
	assert.Equal(t, core.EFORMAT, core.Code(err))
}

func TestSynthesizedCharacters(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.fonts")
	defer teardown()
	//
	f := NewFontAsset("empty", FaceInfo{PointSize: 10, TabWidth: 7}, AtlasInfo{})
	for _, r := range []rune{0x03, '\n', '\r', 0x200B, 0x2028} {
		c, ok := f.Character(r)
		require.True(t, ok, "U+%04X", r)
		assert.True(t, IsSynthesized(c.Glyph))
		assert.Equal(t, float32(0), c.Glyph.Metrics.Width)
	}
	tab, ok := f.Character('\t')
	require.True(t, ok)
	assert.Equal(t, float32(7), tab.Glyph.Metrics.HorizontalAdvance)
	_, ok = f.Character('A')
	assert.False(t, ok)
	_, ok = f.TryAddCharacter('A')
	assert.False(t, ok, "static asset must not add characters")
}

func TestFallbackFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.fonts")
	defer teardown()
	//
	f := FallbackFont()
	require.NotNil(t, f)
	assert.True(t, f.IsDynamic())
	assert.NotEmpty(t, f.Face.FamilyName)
	assert.Greater(t, f.Face.AscentLine, float32(0))
	assert.Less(t, f.Face.DescentLine, float32(0))
	c, ok := f.TryAddCharacter('x')
	require.True(t, ok)
	assert.Greater(t, c.Glyph.Metrics.HorizontalAdvance, float32(0))
	assert.Greater(t, c.Glyph.Rect.Width, 0)
	_, ok = f.TryAddCharacter(0x4E00) // Go Sans has no CJK
	assert.False(t, ok)
}

func TestTryAddCharacterAtMostOnce(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.fonts")
	defer teardown()
	//
	f := FallbackFont()
	var wg sync.WaitGroup
	chars := make([]*Character, 8)
	for i := range chars {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			chars[i], _ = f.TryAddCharacter('Q')
		}(i)
	}
	wg.Wait()
	for _, c := range chars {
		assert.Same(t, chars[0], c)
	}
}

func TestPacker(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.fonts")
	defer teardown()
	//
	p := newPacker(20, 20, 1)
	r, atlas, ok := p.allocate(8, 8)
	require.True(t, ok)
	assert.Equal(t, 0, atlas)
	assert.Equal(t, GlyphRect{X: 1, Y: 1, Width: 8, Height: 8}, r)
	r, _, _ = p.allocate(8, 8)
	assert.Equal(t, 11, r.X)
	r, _, _ = p.allocate(8, 8)
	assert.Equal(t, 11, r.Y, "third glyph starts a new shelf")
	p.allocate(8, 8)
	_, atlas, ok = p.allocate(8, 8)
	require.True(t, ok)
	assert.Equal(t, 1, atlas, "fifth glyph spills into a second atlas")
	_, _, ok = p.allocate(30, 2)
	assert.False(t, ok)
}

func TestSpriteAsset(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.fonts")
	defer teardown()
	//
	icons := NewSpriteAsset("icons", FaceInfo{PointSize: 10}, AtlasInfo{Width: 64, Height: 64})
	icons.AddSprite("heart", 0x2764, Glyph{Metrics: GlyphMetrics{Width: 10, Height: 10, HorizontalAdvance: 10}})
	more := NewSpriteAsset("more", FaceInfo{PointSize: 10}, AtlasInfo{Width: 64, Height: 64})
	more.AddSprite("star", 0x2B50, Glyph{})
	icons.Fallbacks = []*SpriteAsset{more}
	more.Fallbacks = []*SpriteAsset{icons} // cycle must not hang
	a, i, ok := icons.FindByName("Star")
	require.True(t, ok)
	assert.Same(t, more, a)
	assert.Equal(t, 0, i)
	_, _, ok = icons.FindByName("moon")
	assert.False(t, ok)
	a, _, ok = more.FindByUnicode(0x2764)
	require.True(t, ok)
	assert.Same(t, icons, a)
	e := NewSpriteElement(icons, mustSprite(t, icons, 0))
	assert.Equal(t, SpriteElement, e.Kind)
	assert.Equal(t, icons.Material, e.Material())
	assert.True(t, e.IsValid())
}

func TestWeightTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.fonts")
	defer teardown()
	//
	f := NewFontAsset("regular", FaceInfo{PointSize: 10}, AtlasInfo{})
	bold := NewFontAsset("bold", FaceInfo{PointSize: 10}, AtlasInfo{})
	f.SetTypeface(Bold, false, bold)
	assert.Same(t, bold, f.Typeface(Bold, false))
	assert.Nil(t, f.Typeface(Bold, true))
	assert.Equal(t, 9, Weight(1200).Index())
	assert.Equal(t, 1, Weight(0).Index())
	assert.NotEqual(t, f.Material, bold.Material)
}

func loadMono(t *testing.T) *FontAsset {
	fh, err := os.Open("testdata/mono.toml")
	require.NoError(t, err)
	defer fh.Close()
	f, err := LoadDescriptor(fh)
	require.NoError(t, err)
	return f
}

func mustSprite(t *testing.T, sa *SpriteAsset, i int) *Sprite {
	s, ok := sa.SpriteAt(i)
	require.True(t, ok)
	return s
}

func TestImportKerning(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.fonts")
	defer teardown()
	//
	_, err := ImportKerning(FallbackFont(), "AVTWYo.,")
	assert.NoError(t, err)
	assert.Greater(t, UnitsPerEm(FallbackFont()), 0)
	_, err = ImportKerning(NewFontAsset("static", FaceInfo{PointSize: 10}, AtlasInfo{}), "AV")
	assert.Equal(t, core.EINVALID, core.Code(err))
	assert.Equal(t, 0, UnitsPerEm(NewFontAsset("static", FaceInfo{PointSize: 10}, AtlasInfo{})))
}

func TestLigatureLookupWindow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.fonts")
	defer teardown()
	//
	ft := NewFeatureTable()
	ft.AddLigature(Ligature{Components: []uint32{1, 2}, Glyph: 10})
	ft.AddLigature(Ligature{Components: []uint32{1, 2, 3}, Glyph: 11})
	assert.Equal(t, 3, ft.MaxLigatureLength(1))
	assert.Equal(t, 0, ft.MaxLigatureLength(2))
	var none *FeatureTable
	assert.Equal(t, 0, none.MaxLigatureLength(1))
	lig, ok := ft.MatchLigature([]uint32{1, 2, 3})
	require.True(t, ok)
	assert.Equal(t, uint32(11), lig.Glyph)
}
