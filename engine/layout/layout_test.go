package layout

import (
	"image/color"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textmesh/core"
	"github.com/npillmayer/textmesh/core/dimen"
	"github.com/npillmayer/textmesh/core/font/fontregistry"
	"github.com/npillmayer/textmesh/core/font/fonttest"
	"github.com/npillmayer/textmesh/engine/glyphing"
	"github.com/npillmayer/textmesh/engine/textinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monoText creates a text set in the test font at its natural size, where
// every glyph advances by 10 units.
func monoText(s string, width, height float32) *Text {
	t := NewText(s, fonttest.Mono())
	t.FontSize = fonttest.PointSize
	t.Rect = dimen.RectWH(width, height)
	t.Registry = fontregistry.NewRegistry()
	return t
}

func layout(t *testing.T, txt *Text) *textinfo.TextInfo {
	require.NoError(t, txt.GenerateTextMesh())
	return txt.TextInfo()
}

func TestSingleLine(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	ti := layout(t, monoText("Hello", 1000, 100))
	require.Equal(t, 5, ti.CharacterCount)
	require.Equal(t, 1, ti.LineCount)
	line := ti.Lines[0]
	assert.InDelta(t, 50, line.MaxAdvance, 1e-4)
	assert.Equal(t, 0, line.FirstVisibleCharacterIndex)
	assert.Equal(t, 4, line.LastVisibleCharacterIndex)
	assert.InDelta(t, 92, line.Baseline, 1e-4) // top aligned, ascent 8
	for i := 0; i < 5; i++ {
		c := ti.Characters[i]
		assert.InDelta(t, float32(10*i), c.Origin, 1e-4)
		assert.InDelta(t, float32(10*i+1), c.BottomLeft.X, 1e-4)
		assert.InDelta(t, 92, c.BottomLeft.Y, 1e-4)
		assert.InDelta(t, 100, c.TopLeft.Y, 1e-4)
	}
	assert.Equal(t, "Hello", ti.VisibleText())
	assert.Equal(t, 1, ti.WordCount)
}

func TestWrapAtSpace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	ti := layout(t, monoText("AAAA AAAA", 45, 100))
	require.Equal(t, 9, ti.CharacterCount)
	require.Equal(t, 2, ti.LineCount)
	assert.Equal(t, 4, ti.Lines[0].LastCharacterIndex)
	assert.Equal(t, 3, ti.Lines[0].LastVisibleCharacterIndex)
	assert.Equal(t, 5, ti.Lines[1].FirstCharacterIndex)
	assert.Equal(t, 1, ti.Lines[0].SpaceCount)
	assert.InDelta(t, 10, ti.Lines[0].Baseline-ti.Lines[1].Baseline, 1e-4)
	assert.InDelta(t, 0, ti.Characters[5].Origin, 1e-4)
	assert.Equal(t, 2, ti.WordCount)
}

func TestTruncate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	txt := monoText("AAAA AAAA", 45, 10)
	txt.Overflow = Truncate
	ti := layout(t, txt)
	require.Equal(t, 6, ti.CharacterCount)
	assert.Equal(t, 1, ti.LineCount)
	etx := ti.Characters[5]
	assert.True(t, etx.IsInjected)
	assert.False(t, etx.IsVisible)
	assert.Equal(t, rune(0x03), etx.Unicode)
	require.Len(t, ti.Overflows, 1)
	assert.Equal(t, textinfo.TruncateEvent, ti.Overflows[0].Kind)
	assert.Equal(t, 5, ti.Overflows[0].CharacterIndex)
	assert.Equal(t, 5, ti.Overflows[0].SourceIndex)
	assert.Equal(t, "AAAA", ti.VisibleText())
}

func TestColorTags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	ti := layout(t, monoText("<color=#FF0000>te</color>st", 1000, 100))
	require.Equal(t, 4, ti.CharacterCount)
	red := color.RGBA{R: 255, A: 255}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	assert.Equal(t, red, ti.Characters[0].Color)
	assert.Equal(t, red, ti.Characters[1].Color)
	assert.Equal(t, white, ti.Characters[2].Color)
	assert.Equal(t, white, ti.Characters[3].Color)
	assert.Equal(t, 15, ti.Characters[0].Index)
	assert.Equal(t, 25, ti.Characters[2].Index)
	m := ti.Meshes[ti.Characters[0].MaterialIndex]
	assert.Equal(t, red, m.Colors[ti.Characters[0].VertexIndex])
}

func TestAutoSizeConverges(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	txt := monoText("AAAA", 72, 100)
	txt.WordWrapping = false
	txt.AutoSize = true
	txt.FontSizeMin, txt.FontSizeMax = 10, 40
	ti := layout(t, txt)
	assert.InDelta(t, 18, txt.FontSizeUsed(), 0.051)
	assert.InDelta(t, 18, ti.PointSize, 0.051)
	assert.LessOrEqual(t, txt.AutoSizeIterations(), txt.Settings.AutoSizeMaxIterations+1)
	assert.LessOrEqual(t, ti.Lines[0].MaxAdvance, float32(72)+dimen.Epsilon)
	assert.Equal(t, float32(10), txt.FontSize)
}

func TestAutoSizeDegenerateContainer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	txt := monoText("AAAA AAAA", 0, 0)
	txt.AutoSize = true
	txt.FontSizeMin, txt.FontSizeMax = 10, 40
	layout(t, txt)
	assert.InDelta(t, 10, txt.FontSizeUsed(), 1e-4)
	assert.LessOrEqual(t, txt.AutoSizeIterations(), txt.Settings.AutoSizeMaxIterations+1)
}

func TestAutoSizeIterationBound(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	txt := monoText("AAAA", 72, 100)
	txt.WordWrapping = false
	txt.AutoSize = true
	txt.FontSizeMin, txt.FontSizeMax = 10, 40
	txt.Settings.AutoSizeMaxIterations = 3
	layout(t, txt)
	assert.LessOrEqual(t, txt.AutoSizeIterations(), 4)
	assert.InDelta(t, 17.5, txt.FontSizeUsed(), 1e-4) // largest size which fitted
}

func TestLayoutIsIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	txt := monoText("<b>Hello</b> <i>World</i>, <u>again</u>", 60, 100)
	ti := layout(t, txt)
	n := ti.CharacterCount
	first := append([]textinfo.CharacterRecord(nil), ti.Characters[:n]...)
	lines := append([]textinfo.LineRecord(nil), ti.Lines[:ti.LineCount]...)
	ti = layout(t, txt)
	require.Equal(t, n, ti.CharacterCount)
	assert.Equal(t, first, ti.Characters[:n])
	assert.Equal(t, lines, ti.Lines[:ti.LineCount])
}

func TestSourceIndices(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	src := "Hä<b>llo</b> <size=20>Wörld</size>"
	ti := layout(t, monoText(src, 1000, 100))
	var text strings.Builder
	last := -1
	for i := 0; i < ti.CharacterCount; i++ {
		c := ti.Characters[i]
		require.Greater(t, c.Index, last)
		assert.Equal(t, string(c.Unicode), src[c.Index:c.End()])
		text.WriteString(src[c.Index:c.End()])
		last = c.Index
	}
	assert.Equal(t, "Hällo Wörld", text.String())
}

func TestLinesPartitionCharacters(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	ti := layout(t, monoText("the quick brown fox\njumps over the lazy dog", 55, 1000))
	require.Greater(t, ti.LineCount, 2)
	next := 0
	for l := 0; l < ti.LineCount; l++ {
		line := ti.Lines[l]
		assert.Equal(t, next, line.FirstCharacterIndex, "line %d", l)
		assert.Equal(t, line.LastCharacterIndex-line.FirstCharacterIndex+1, line.CharacterCount)
		for i := line.FirstCharacterIndex; i <= line.LastCharacterIndex; i++ {
			assert.Equal(t, l, ti.Characters[i].LineNumber)
		}
		if l > 0 {
			assert.Less(t, line.Baseline, ti.Lines[l-1].Baseline)
		}
		next = line.LastCharacterIndex + 1
	}
	assert.Equal(t, ti.CharacterCount, next)
}

func TestHardBreakEndsParagraph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	ti := layout(t, monoText("AB\nCD", 1000, 100))
	require.Equal(t, 2, ti.LineCount)
	assert.True(t, ti.Lines[0].EndsParagraph)
	assert.True(t, ti.Lines[1].EndsParagraph)
	assert.Equal(t, 1, ti.Lines[0].ControlCharacterCount)
	assert.Equal(t, 0, ti.Lines[0].SpaceCount)
	assert.Equal(t, 0, ti.SpaceCount)
	assert.False(t, ti.Characters[2].IsVisible)
}

func TestJustification(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	txt := monoText("AA AA AA", 55, 100)
	txt.Alignment.H = Justified
	ti := layout(t, txt)
	require.Equal(t, 2, ti.LineCount)
	line := ti.Lines[0]
	assert.InDelta(t, 55, ti.Characters[line.LastVisibleCharacterIndex].XAdvance, 1e-3)
	assert.InDelta(t, 0, ti.Characters[0].Origin, 1e-3)
	last := ti.Lines[1]
	assert.InDelta(t, 20, ti.Characters[last.LastVisibleCharacterIndex].XAdvance, 1e-3)
	//
	txt.Alignment.H = Flush
	ti = layout(t, txt)
	last = ti.Lines[1]
	assert.InDelta(t, 55, ti.Characters[last.LastVisibleCharacterIndex].XAdvance, 1e-3)
}

func TestJustificationRatio(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	txt := monoText("AA AA AA", 55, 100)
	txt.Alignment.H = Justified
	txt.Settings.WordWrappingRatio = 0
	ti := layout(t, txt)
	// all of the gap goes into the space
	assert.InDelta(t, 10, ti.Characters[1].Origin, 1e-3)
	assert.InDelta(t, 35, ti.Characters[3].Origin, 1e-3)
}

func TestHorizontalAlignment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	for _, tc := range []struct {
		align textinfo.HAlign
		x     float32
	}{
		{Left, 0}, {Center, 40}, {Right, 80}, {Geometry, 40},
	} {
		txt := monoText("AB", 100, 100)
		txt.Alignment.H = tc.align
		ti := layout(t, txt)
		assert.InDelta(t, tc.x, ti.Characters[0].Origin, 1e-3, tc.align.String())
	}
	ti := layout(t, monoText("<align=right>AB</align>", 100, 100))
	assert.InDelta(t, 80, ti.Characters[0].Origin, 1e-3)
}

func TestVerticalAlignment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	for _, tc := range []struct {
		align    VAlign
		baseline float32
	}{
		{Top, 92}, {Middle, 47}, {Bottom, 2}, {Baseline, 50}, {VGeometry, 46}, {Capline, 46.5},
	} {
		txt := monoText("AB", 100, 100)
		txt.Alignment.V = tc.align
		ti := layout(t, txt)
		assert.InDelta(t, tc.baseline, ti.Lines[0].Baseline, 1e-3, "alignment %d", tc.align)
		assert.InDelta(t, tc.baseline, ti.Characters[0].Baseline, 1e-3)
	}
}

func TestMargins(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	txt := monoText("AAAA AAAA", 65, 100)
	txt.Margins = dimen.Margins{Left: 10, Top: 5, Right: 10}
	ti := layout(t, txt)
	require.Equal(t, 2, ti.LineCount)
	assert.InDelta(t, 10, ti.Characters[0].Origin, 1e-4)
	assert.InDelta(t, 87, ti.Lines[0].Baseline, 1e-4)
	assert.InDelta(t, 45, ti.Lines[0].Width, 1e-4)
}

func TestRightToLeft(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	txt := monoText("AB", 100, 100)
	txt.Direction = glyphing.RightToLeft
	ti := layout(t, txt)
	require.Equal(t, 2, ti.CharacterCount)
	assert.InDelta(t, 10, ti.Characters[0].Origin, 1e-4)
	assert.InDelta(t, 0, ti.Characters[1].Origin, 1e-4)
	txt.Alignment.H = Right
	ti = layout(t, txt)
	assert.InDelta(t, 90, ti.Characters[0].Origin, 1e-4)
	assert.InDelta(t, 100, ti.Lines[0].Extents.Max.X+1, 1e-4)
	txt.Alignment.H = Center
	ti = layout(t, txt)
	assert.InDelta(t, 50, ti.Characters[0].Origin, 1e-4)
	assert.InDelta(t, 40, ti.Characters[1].Origin, 1e-4)
}

func TestKerningAndLigatures(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	txt := monoText("AV", 100, 100)
	ti := layout(t, txt)
	assert.InDelta(t, 8, ti.Characters[1].Origin, 1e-4)
	txt.Kerning = false
	ti = layout(t, txt)
	assert.InDelta(t, 10, ti.Characters[1].Origin, 1e-4)
	//
	txt = monoText("fix", 100, 100)
	ti = layout(t, txt)
	require.Equal(t, 2, ti.CharacterCount)
	assert.Equal(t, 2, ti.Characters[0].Length)
	assert.Equal(t, fonttest.GlyphIndex(txt.Font, 0xFB01), ti.Characters[0].Element.Glyph.Index)
	assert.Equal(t, 'x', ti.Characters[1].Unicode)
	txt.Ligatures = false
	ti = layout(t, txt)
	assert.Equal(t, 3, ti.CharacterCount)
}

func TestMarkAttachment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	ti := layout(t, monoText("ÁB", 100, 100))
	require.Equal(t, 3, ti.CharacterCount)
	base, mark := ti.Characters[0], ti.Characters[1]
	assert.InDelta(t, 0, mark.Advance, 1e-4)
	assert.InDelta(t, (base.BottomLeft.X+base.BottomRight.X)/2, (mark.BottomLeft.X+mark.BottomRight.X)/2, 1e-4)
	assert.GreaterOrEqual(t, mark.BottomLeft.Y, base.TopLeft.Y)
	assert.InDelta(t, 10, ti.Characters[2].Origin, 1e-4)
	assert.Equal(t, 1, ti.WordCount)
}

func TestStyleTags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	ti := layout(t, monoText("<b>A</b><i>A</i><size=20>A</size><sup>A</sup><sub>A</sub>", 1000, 100))
	require.Equal(t, 5, ti.CharacterCount)
	c := ti.Characters
	assert.True(t, c[0].Style.Has(textinfo.Bold))
	assert.True(t, c[0].IsSyntheticBold)
	assert.InDelta(t, 10.7, c[0].Advance, 1e-4) // bold spacing 7/100 em
	assert.True(t, c[1].Style.Has(textinfo.Italic))
	assert.Greater(t, c[1].TopLeft.X, c[1].BottomLeft.X)
	assert.Equal(t, float32(20), c[2].PointSize)
	assert.InDelta(t, 20, c[2].Advance, 1e-4)
	assert.Equal(t, float32(5), c[3].PointSize)
	assert.Greater(t, c[3].Baseline, c[0].Baseline)
	assert.Less(t, c[4].Baseline, c[0].Baseline)
}

func TestCaseTags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	ti := layout(t, monoText("<uppercase>ab</uppercase><lowercase>CD</lowercase><smallcaps>e</smallcaps>", 1000, 100))
	require.Equal(t, 5, ti.CharacterCount)
	assert.Equal(t, "ABcdE", ti.VisibleText())
	assert.InDelta(t, 8, ti.Characters[4].PointSize, 1e-4)
}

func TestSpacingTags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	ti := layout(t, monoText("A<space=5>B<pos=50>C<cspace=2>DE</cspace>", 1000, 100))
	c := ti.Characters
	assert.InDelta(t, 15, c[1].Origin, 1e-4)
	assert.InDelta(t, 50, c[2].Origin, 1e-4)
	assert.InDelta(t, 72, c[4].Origin, 1e-4)
	//
	ti = layout(t, monoText("<mspace=20>AB</mspace>", 1000, 100))
	assert.InDelta(t, 20, ti.Characters[1].XAdvance-ti.Characters[0].XAdvance, 1e-4)
	assert.InDelta(t, 5, ti.Characters[0].Origin, 1e-4)
}

func TestIndentAndLineHeight(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	ti := layout(t, monoText("<indent=20>AAAA AAAA</indent>", 65, 100))
	require.Equal(t, 2, ti.LineCount)
	assert.InDelta(t, 20, ti.Characters[0].Origin, 1e-4)
	assert.InDelta(t, 20, ti.Characters[5].Origin, 1e-4)
	//
	ti = layout(t, monoText("<line-height=30>A\nB", 100, 100))
	require.Equal(t, 2, ti.LineCount)
	assert.InDelta(t, 30, ti.Lines[0].Baseline-ti.Lines[1].Baseline, 1e-4)
}

func TestNoBreak(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	ti := layout(t, monoText("A <nobr>AA AA</nobr>", 55, 100))
	require.Equal(t, 2, ti.LineCount)
	assert.Equal(t, 2, ti.Lines[1].FirstCharacterIndex)
}

func TestLinks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	ti := layout(t, monoText(`A <link="id1">BC</link> D`, 1000, 100))
	require.Equal(t, 1, ti.LinkCount)
	assert.Equal(t, "id1", ti.Links[0].ID)
	assert.Equal(t, 2, ti.Links[0].FirstCharacterIndex)
	assert.Equal(t, 2, ti.Links[0].CharacterCount)
}

func TestPages(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	txt := monoText("AAAA AAAA", 45, 10)
	txt.Overflow = Page
	ti := layout(t, txt)
	require.Equal(t, 2, ti.PageCount)
	require.Equal(t, 2, ti.LineCount)
	assert.Equal(t, 0, ti.Characters[0].PageNumber)
	assert.Equal(t, 1, ti.Characters[5].PageNumber)
	assert.InDelta(t, ti.Lines[0].Baseline, ti.Lines[1].Baseline, 1e-4)
	assert.Equal(t, "AAAA", ti.VisibleText())
	txt.PageToDisplay = 2
	ti = layout(t, txt)
	assert.Equal(t, "AAAA", ti.VisibleText())
	assert.False(t, ti.Characters[0].IsVisible)
	assert.True(t, ti.Characters[5].IsVisible)
	//
	txt = monoText("AB<page>CD", 1000, 100)
	txt.Overflow = Page
	ti = layout(t, txt)
	assert.Equal(t, 2, ti.PageCount)
	txt.Overflow = Overflow
	ti = layout(t, txt)
	assert.Equal(t, 1, ti.PageCount)
	assert.Equal(t, 1, ti.LineCount)
}

func TestLinkedOverflow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	first := monoText("AAAA BBBB", 45, 10)
	first.Overflow = Linked
	second := monoText("", 45, 10)
	require.NoError(t, first.SetLinkedText(second))
	ti := layout(t, first)
	assert.Equal(t, "AAAA", ti.VisibleText())
	require.Len(t, ti.Overflows, 1)
	assert.Equal(t, textinfo.LinkedEvent, ti.Overflows[0].Kind)
	assert.Equal(t, 5, second.FirstVisibleCharacter)
	ti2 := second.TextInfo()
	assert.Equal(t, "BBBB", ti2.VisibleText())
	assert.Equal(t, 5, ti2.Lines[0].FirstCharacterIndex)
	assert.InDelta(t, 0, ti2.Characters[5].Origin, 1e-4)
	//
	err := second.SetLinkedText(first)
	assert.Equal(t, core.EINVALID, core.Code(err))
	assert.Nil(t, second.Linked())
}

func TestEllipsis(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	txt := monoText("AAAA AAAA", 45, 10)
	txt.Overflow = Ellipsis
	ti := layout(t, txt)
	require.GreaterOrEqual(t, ti.CharacterCount, 4)
	ell := ti.Characters[3]
	assert.Equal(t, rune(0x2026), ell.Unicode)
	assert.True(t, ell.IsInjected)
	assert.True(t, ell.IsVisible)
	assert.Equal(t, 0, ell.Length)
	require.NotEmpty(t, ti.Overflows)
	assert.Equal(t, textinfo.EllipsisEvent, ti.Overflows[0].Kind)
	assert.Equal(t, "AAA…", ti.VisibleText())
}

func TestEllipsisClearsText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	txt := monoText("AAAA", 5, 10)
	txt.Overflow = Ellipsis
	ti := layout(t, txt)
	assert.Equal(t, 0, ti.CharacterCount)
	assert.Equal(t, 0, ti.LineCount)
	require.Len(t, ti.Overflows, 1)
	assert.Equal(t, textinfo.ClearedEvent, ti.Overflows[0].Kind)
	assert.Equal(t, 0, ti.MeshCount())
}

func TestDecorations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	ti := layout(t, monoText("<u>A B</u> <s>C</s>", 1000, 100))
	require.Len(t, ti.Decorations, 2)
	u := ti.Decorations[0]
	assert.Equal(t, textinfo.UnderlineDecoration, u.Kind)
	assert.Equal(t, 0, u.FirstCharacterIndex)
	assert.Equal(t, 2, u.LastCharacterIndex)
	assert.InDelta(t, 0, u.Rect.Min.X, 1e-4)
	assert.InDelta(t, 30, u.Rect.Max.X, 1e-4)
	assert.InDelta(t, 91, u.Rect.Max.Y, 1e-4)
	assert.InDelta(t, 90.5, u.Rect.Min.Y, 1e-4)
	s := ti.Decorations[1]
	assert.Equal(t, textinfo.StrikethroughDecoration, s.Kind)
	assert.InDelta(t, 94, (s.Rect.Min.Y+s.Rect.Max.Y)/2, 1e-4)
	assert.Equal(t, 2, ti.DecorationMesh.QuadCount)
	//
	ti = layout(t, monoText("<u>A</u> <u>B</u><mark=#00FF0080>C</mark>", 1000, 100))
	require.Len(t, ti.Decorations, 3)
	assert.Equal(t, textinfo.HighlightDecoration, ti.Decorations[0].Kind)
	assert.Equal(t, color.RGBA{G: 255, A: 128}, ti.Decorations[0].Color)
	assert.InDelta(t, 90, ti.Decorations[0].Rect.Min.Y, 1e-4)
	assert.InDelta(t, 100, ti.Decorations[0].Rect.Max.Y, 1e-4)
	//
	ti = layout(t, monoText("<u>A<color=#FF0000>B</color></u>", 1000, 100))
	require.Len(t, ti.Decorations, 1)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, ti.Decorations[0].Color)
}

func TestVisibilityLimits(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	txt := monoText("Hello World", 1000, 100)
	txt.MaxVisibleCharacters = 2
	ti := layout(t, txt)
	assert.Equal(t, "He", ti.VisibleText())
	assert.Equal(t, 11, ti.CharacterCount)
	assert.Equal(t, 2, ti.Meshes[0].QuadCount)
	//
	txt = monoText("Hello World", 1000, 100)
	txt.MaxVisibleWords = 1
	ti = layout(t, txt)
	assert.Equal(t, "Hello", ti.VisibleText())
	//
	txt = monoText("AAAA AAAA", 45, 100)
	txt.MaxVisibleLines = 1
	ti = layout(t, txt)
	assert.Equal(t, "AAAA", ti.VisibleText())
	assert.Equal(t, 2, ti.LineCount)
}

func TestMeshes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	txt := monoText("AB C", 1000, 100)
	ti := layout(t, txt)
	require.Equal(t, 1, ti.MeshCount())
	m := ti.Meshes[0]
	require.Equal(t, 3, m.QuadCount)
	c := ti.Characters[3]
	assert.Equal(t, 8, c.VertexIndex)
	assert.Equal(t, c.BottomLeft, m.Vertices[8])
	assert.Equal(t, c.TopRight, m.Vertices[10])
	g := c.Element.Glyph
	assert.InDelta(t, float32(g.Rect.X)/512, m.UV0[8].X, 1e-6)
	assert.InDelta(t, 1, m.UV0[8].W, 1e-6)
	assert.Equal(t, dimen.Vec2{X: 1, Y: 1}, m.UV2[10])
	assert.Equal(t, -1, ti.Characters[2].MaterialIndex)
	assert.Equal(t, []uint16{8, 9, 10, 10, 11, 8}, m.Triangles[12:18])
	assert.InDelta(t, 1, ti.Bounds.Min.X, 1e-4)
	assert.InDelta(t, 39, ti.Bounds.Max.X, 1e-4)
}

func TestMaterialCeiling(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	n := textinfo.MaxQuadsPerMesh + 17
	txt := monoText(strings.Repeat("A", n), 1e6, 100)
	txt.WordWrapping = false
	ti := layout(t, txt)
	require.Equal(t, n, ti.CharacterCount)
	require.Equal(t, 2, ti.MeshCount())
	assert.Equal(t, textinfo.MaxQuadsPerMesh, ti.Meshes[0].QuadCount)
	assert.Equal(t, 17, ti.Meshes[1].QuadCount)
	assert.Equal(t, 1, ti.Materials.At(1).Spill)
	for i := 0; i < ti.MeshCount(); i++ {
		assert.LessOrEqual(t, ti.Meshes[i].QuadCount, textinfo.MaxQuadsPerMesh)
	}
}

func TestLinearColor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	txt := monoText("<color=#808080>A</color>", 100, 100)
	txt.LinearColor = true
	ti := layout(t, txt)
	col := ti.Meshes[0].Colors[0]
	assert.Equal(t, uint8(55), col.R)
	assert.Equal(t, uint8(255), col.A)
	assert.Equal(t, uint8(128), ti.Characters[0].Color.R)
}

func TestTextChangedObservers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	txt := monoText("AAAA", 72, 100)
	txt.AutoSize = true
	txt.FontSizeMin, txt.FontSizeMax = 10, 40
	calls := 0
	txt.OnTextChanged(func(ti *textinfo.TextInfo) {
		calls++
		assert.Equal(t, 4, ti.CharacterCount)
	})
	layout(t, txt)
	assert.Equal(t, 1, calls)
	txt.SetText("BBBB")
	layout(t, txt)
	assert.Equal(t, 2, calls)
}

func TestMissingFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	txt := monoText("AB", 100, 100)
	layout(t, txt)
	require.Equal(t, 2, txt.TextInfo().CharacterCount)
	txt.Font = nil
	err := txt.GenerateTextMesh()
	assert.Equal(t, core.EMISSING, core.Code(err))
	assert.Equal(t, 0, txt.TextInfo().CharacterCount)
	assert.Equal(t, 0, txt.TextInfo().MeshCount())
}

func TestMissingGlyph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	txt := NewText("Aก", fonttest.NewAsset("latin", "A☣"))
	txt.FontSize = fonttest.PointSize
	txt.Registry = fontregistry.NewRegistry()
	ti := layout(t, txt)
	require.Equal(t, 2, ti.CharacterCount)
	assert.Equal(t, rune(0x2623), ti.Characters[1].Element.Unicode)
}

func TestAlignTagPerLine(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	ti := layout(t, monoText("<align=right>AB</align>\nCD", 100, 100))
	require.Equal(t, 2, ti.LineCount)
	assert.Equal(t, textinfo.AlignRight, ti.Lines[0].Alignment)
	assert.Equal(t, textinfo.AlignLeft, ti.Lines[1].Alignment)
	assert.InDelta(t, 80, ti.Characters[0].Origin, 1e-3)
	assert.InDelta(t, 0, ti.Characters[3].Origin, 1e-3)
	// a tag opened inside a line applies to the whole line
	ti = layout(t, monoText("AB<align=center>CD</align>", 100, 100))
	require.Equal(t, 1, ti.LineCount)
	assert.Equal(t, textinfo.AlignCenter, ti.Lines[0].Alignment)
	assert.InDelta(t, 30, ti.Characters[0].Origin, 1e-3)
}

func TestAutoSizeFitsHeight(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	text := strings.Repeat("AAA ", 10)
	var sizes []float32
	for _, mode := range []OverflowMode{Overflow, Masking, Truncate} {
		txt := monoText(text, 100, 60)
		txt.Overflow = mode
		txt.AutoSize = true
		txt.FontSizeMin, txt.FontSizeMax = 1, 40
		ti := layout(t, txt)
		assert.InDelta(t, 12, txt.FontSizeUsed(), 0.1, mode.String())
		assert.Equal(t, 5, ti.LineCount, mode.String())
		assert.Empty(t, ti.Overflows, mode.String())
		for i := 0; i < ti.CharacterCount; i++ {
			c := ti.Characters[i]
			if c.IsVisible {
				assert.GreaterOrEqual(t, c.Descender, float32(-1e-3), mode.String())
				assert.LessOrEqual(t, c.Ascender, float32(60+1e-3), mode.String())
			}
		}
		sizes = append(sizes, txt.FontSizeUsed())
	}
	assert.InDelta(t, sizes[0], sizes[1], 1e-4)
	assert.InDelta(t, sizes[0], sizes[2], 1e-4)
}

func TestOverflowMonotonicity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	texts := []string{"AAAA AAAA", "AAA BBB CCC DDD EEE", "Hello World, again and again"}
	for _, mode := range []OverflowMode{Truncate, Ellipsis} {
		for _, text := range texts {
			for _, width := range []float32{45, 75} {
				shown := -1
				for h := float32(0); h <= 60; h++ {
					txt := monoText(text, width, h)
					txt.Overflow = mode
					ti := layout(t, txt)
					n := 0
					for i := 0; i < ti.CharacterCount; i++ {
						c := ti.Characters[i]
						if !c.IsVisible {
							continue
						}
						assert.GreaterOrEqual(t, c.Descender, float32(-1e-3))
						if !c.IsInjected {
							n++
						}
					}
					assert.GreaterOrEqual(t, n, shown, "%s %q width %.0f height %.0f", mode, text, width, h)
					shown = n
				}
			}
		}
	}
}

func TestLongRunWithLigatures(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	txt := monoText(strings.Repeat("fi", 2000), 1e6, 100)
	txt.WordWrapping = false
	ti := layout(t, txt)
	require.Equal(t, 2000, ti.CharacterCount)
	last := ti.Characters[1999]
	assert.Equal(t, 3998, last.Index)
	assert.Equal(t, 2, last.Length)
	assert.Equal(t, fonttest.GlyphIndex(txt.Font, 0xFB01), last.Element.Glyph.Index)
}

func TestBacktrackLimit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	perItem, least := backtracksPerItem, backtracksMin
	defer func() { backtracksPerItem, backtracksMin = perItem, least }()
	backtracksPerItem, backtracksMin = 0, 0
	txt := monoText("AAAA AAAA", 45, 100)
	changed := 0
	txt.OnTextChanged(func(*textinfo.TextInfo) { changed++ })
	err := txt.GenerateTextMesh()
	require.Error(t, err)
	assert.Equal(t, core.EEXHAUSTED, core.Code(err))
	assert.Equal(t, 1, changed)
	assert.Equal(t, 1, txt.TextInfo().LineCount) // stopped at the first wrap
	backtracksPerItem, backtracksMin = perItem, least
	assert.NoError(t, txt.GenerateTextMesh())
	assert.Equal(t, 2, txt.TextInfo().LineCount)
}
