package font

import (
	"errors"

	"github.com/npillmayer/textmesh/core"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// openTypeSource produces glyphs from an OpenType font. Calls are
// serialized by the owning asset's mutex, so one buffer suffices.
type openTypeSource struct {
	otf  *sfnt.Font
	buf  sfnt.Buffer
	ppem fixed.Int26_6
}

func (src *openTypeSource) Glyph(r rune) (GlyphMetrics, uint32, bool) {
	x, ok := src.glyphIndex(r)
	if !ok {
		return GlyphMetrics{}, 0, false
	}
	m, ok := src.GlyphAt(uint32(x))
	return m, uint32(x), ok
}

func (src *openTypeSource) GlyphAt(index uint32) (GlyphMetrics, bool) {
	x := sfnt.GlyphIndex(index)
	bounds, advance, err := src.otf.GlyphBounds(&src.buf, x, src.ppem, xfont.HintingNone)
	if err != nil {
		if !errors.Is(err, sfnt.ErrColoredGlyph) {
			tracer().Debugf("glyph bounds for glyph %d: %v", index, err)
			return GlyphMetrics{}, false
		}
		// colored glyphs have no outline, keep advance only
		bounds = fixed.Rectangle26_6{}
		advance, _ = src.otf.GlyphAdvance(&src.buf, x, src.ppem, xfont.HintingNone)
	}
	// sfnt bounds are y-down
	return GlyphMetrics{
		Width:              from26_6(bounds.Max.X - bounds.Min.X),
		Height:             from26_6(bounds.Max.Y - bounds.Min.Y),
		HorizontalBearingX: from26_6(bounds.Min.X),
		HorizontalBearingY: -from26_6(bounds.Min.Y),
		HorizontalAdvance:  from26_6(advance),
	}, true
}

func (src *openTypeSource) glyphIndex(r rune) (sfnt.GlyphIndex, bool) {
	x, err := src.otf.GlyphIndex(&src.buf, r)
	return x, err == nil && x != 0
}

// LoadOpenType creates a dynamic font asset from OpenType font data.
// Metrics are taken at pointSize; glyphs are added to atlas textures of
// size atlasSize×atlasSize as they are requested.
func LoadOpenType(name string, data []byte, pointSize float32, atlasSize int) (*FontAsset, error) {
	if pointSize <= 0 {
		return nil, core.Error(core.EINVALID, "point size must be positive, is %.2f", pointSize)
	}
	otf, err := sfnt.Parse(data)
	if err != nil {
		return nil, core.WrapError(err, core.EFORMAT, "cannot parse font %s", name)
	}
	src := &openTypeSource{otf: otf, ppem: fixed.Int26_6(pointSize * 64)}
	m, err := otf.Metrics(&src.buf, src.ppem, xfont.HintingNone)
	if err != nil {
		return nil, core.WrapError(err, core.EFORMAT, "cannot read metrics of font %s", name)
	}
	face := FaceInfo{
		PointSize:   pointSize,
		Scale:       1,
		LineHeight:  from26_6(m.Height),
		AscentLine:  from26_6(m.Ascent),
		CapLine:     from26_6(m.CapHeight),
		MeanLine:    from26_6(m.XHeight),
		DescentLine: -from26_6(m.Descent),
	}
	if family, err := otf.Name(&src.buf, sfnt.NameIDFamily); err == nil {
		face.FamilyName = family
	}
	if sub, err := otf.Name(&src.buf, sfnt.NameIDSubfamily); err == nil {
		face.StyleName = sub
	}
	unitScale := pointSize / float32(otf.UnitsPerEm())
	if post := otf.PostTable(); post != nil && post.UnderlineThickness != 0 {
		face.UnderlineOffset = float32(post.UnderlinePosition) * unitScale
		face.UnderlineThickness = float32(post.UnderlineThickness) * unitScale
	} else {
		face.UnderlineOffset = face.DescentLine / 2
		face.UnderlineThickness = pointSize / 20
	}
	if face.MeanLine == 0 {
		face.MeanLine = face.AscentLine / 2
	}
	if face.CapLine == 0 {
		face.CapLine = face.AscentLine * 0.75
	}
	face.StrikethroughOffset = face.MeanLine / 2.5
	face.StrikethroughThickness = face.UnderlineThickness
	face.SuperscriptOffset = face.AscentLine / 2
	face.SuperscriptSize = 0.5
	face.SubscriptOffset = face.DescentLine / 2
	face.SubscriptSize = 0.5
	if x, ok := src.glyphIndex(' '); ok {
		if adv, err := otf.GlyphAdvance(&src.buf, x, src.ppem, xfont.HintingNone); err == nil {
			face.TabWidth = from26_6(adv)
		}
	}
	atlas := AtlasInfo{Width: atlasSize, Height: atlasSize, Padding: 2, Mode: Bitmap}
	f := NewFontAsset(name, face, atlas)
	f.Data = data
	f.SetGlyphSource(src)
	tracer().Debugf("loaded OpenType font %s (%s) at %.1f", name, face.FamilyName, pointSize)
	return f, nil
}

// ImportKerning reads pair kerning of an OpenType asset (GPOS pair
// positioning or a legacy kern table) for all pairs of characters in
// charset. It returns the number of pairs imported.
func ImportKerning(f *FontAsset, charset string) (int, error) {
	f.mu.RLock()
	src, ok := f.source.(*openTypeSource)
	f.mu.RUnlock()
	if !ok {
		return 0, core.Error(core.EINVALID, "font %s has no OpenType data", f.Name)
	}
	var glyphs []sfnt.GlyphIndex
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range charset {
		if x, ok := src.glyphIndex(r); ok {
			glyphs = append(glyphs, x)
		}
	}
	count := 0
	for _, x0 := range glyphs {
		for _, x1 := range glyphs {
			k, err := src.otf.Kern(&src.buf, x0, x1, src.ppem, xfont.HintingNone)
			if err != nil || k == 0 {
				continue
			}
			f.Features.AddPair(PairAdjustment{
				First:       uint32(x0),
				Second:      uint32(x1),
				FirstAdjust: ValueRecord{XAdvance: from26_6(k)},
			})
			count++
		}
	}
	tracer().Debugf("font %s: imported %d kerning pairs", f.Name, count)
	return count, nil
}

// UnitsPerEm returns the design units per em of an asset loaded from
// OpenType data, or 0.
func UnitsPerEm(f *FontAsset) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if src, ok := f.source.(*openTypeSource); ok {
		return int(src.otf.UnitsPerEm())
	}
	return 0
}

func from26_6(x fixed.Int26_6) float32 {
	return float32(x) / 64
}
