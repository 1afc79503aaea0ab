/*
Package fonttest creates synthetic monospace font assets for tests.

Every glyph of a test asset is a box of 8×8 units with an advance of 10
units at a point size of 10. Characters of East Asian width "wide" get
double-width boxes. Vertical metrics are ascent 8, descent -2, line height
10.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package fonttest

import (
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/textmesh/core/font"
	"github.com/npillmayer/uax/emoji"
	"github.com/npillmayer/uax/uax11"
)

// Metrics of test assets, in layout units at PointSize.
const (
	PointSize   = 10
	Advance     = 10
	GlyphWidth  = 8
	Ascent      = 8
	Descent     = -2
	LineHeight  = 10
	cellSize    = 20
	atlasSize   = 512
	atlasColumn = atlasSize / cellSize
)

// Charset is the default character set of a test asset.
const Charset = "!\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`" +
	"abcdefghijklmnopqrstuvwxyz{|}~" +
	"\u00a0\u00ad¡¢£¤¥¦§¨©ª«¬®¯°±²³´µ¶·¸¹º»¼½¾¿ÀÁÂÃÄÅÆÇÈÉÊËÌÍÎÏÐÑÒÓÔÕÖ×ØÙÚÛÜÝÞß" +
	"àáâãäåæçèéêëìíîïðñòóôõö÷øùúûüýþÿ" +
	"\u2010\u2011\u2013\u2014\u2026\u2623\u25a1\ufb01\u0301\u0308" +
	"中文日本語漢字。、「」（）！？한국어"

// FaceInfo returns the face metrics of test assets.
func FaceInfo() font.FaceInfo {
	return font.FaceInfo{
		FamilyName:             "Mono",
		StyleName:              "Regular",
		PointSize:              PointSize,
		Scale:                  1,
		LineHeight:             LineHeight,
		AscentLine:             Ascent,
		CapLine:                7,
		MeanLine:               5,
		DescentLine:            Descent,
		SuperscriptOffset:      4,
		SuperscriptSize:        0.5,
		SubscriptOffset:        -1,
		SubscriptSize:          0.5,
		UnderlineOffset:        -1,
		UnderlineThickness:     0.5,
		StrikethroughOffset:    2,
		StrikethroughThickness: 0.5,
		TabWidth:               Advance,
	}
}

// builder places glyph boxes in a grid of atlas cells.
type builder struct {
	f    *font.FontAsset
	next uint32
}

// NewAsset creates a test asset with a glyph for every character in
// charset. Whitespace gets an empty glyph; combining marks get a glyph
// with zero advance sitting above the ascent line.
func NewAsset(name, charset string) *font.FontAsset {
	f := font.NewFontAsset(name, FaceInfo(), font.AtlasInfo{
		Width:  atlasSize,
		Height: atlasSize,
		Mode:   font.Bitmap,
	})
	b := &builder{f: f, next: 1}
	b.add(' ')
	for _, r := range charset {
		b.add(r)
	}
	return f
}

// Mono returns a test asset with the default character set plus features:
// kerning "AV" by -2, the ligature "fi" (U+FB01) and mark attachment for
// the combining acute and diaeresis.
func Mono() *font.FontAsset {
	f := NewAsset("mono", Charset)
	AddFeatures(f)
	return f
}

// GlyphIndex returns the glyph index of a character in an asset.
func GlyphIndex(f *font.FontAsset, r rune) uint32 {
	c, ok := f.Character(r)
	if !ok {
		return 0
	}
	return c.Glyph.Index
}

// AddFeatures adds the test features to an asset.
func AddFeatures(f *font.FontAsset) {
	a, v := GlyphIndex(f, 'A'), GlyphIndex(f, 'V')
	if a != 0 && v != 0 {
		f.Features.AddPair(font.PairAdjustment{
			First:       a,
			Second:      v,
			FirstAdjust: font.ValueRecord{XAdvance: -2},
		})
	}
	fi, i, lig := GlyphIndex(f, 'f'), GlyphIndex(f, 'i'), GlyphIndex(f, 0xFB01)
	if fi != 0 && i != 0 && lig != 0 {
		f.Features.AddLigature(font.Ligature{Components: []uint32{fi, i}, Glyph: lig})
	}
	for _, mark := range []rune{0x0301, 0x0308} {
		m := GlyphIndex(f, mark)
		if m == 0 {
			continue
		}
		for r := 'A'; r <= 'z'; r++ {
			if !unicode.IsLetter(r) {
				continue
			}
			if base := GlyphIndex(f, r); base != 0 {
				f.Features.AddMarkToBase(font.MarkAttachment{
					Base:       base,
					Mark:       m,
					BaseAnchor: font.Anchor{X: 5, Y: Ascent + 1},
					MarkAdjust: markAnchor,
				})
			}
		}
		for _, other := range []rune{0x0301, 0x0308} {
			if bm := GlyphIndex(f, other); bm != 0 {
				f.Features.AddMarkToMark(font.MarkAttachment{
					Base:       bm,
					Mark:       m,
					BaseAnchor: font.Anchor{X: -5, Y: Ascent + 2},
					MarkAdjust: markAnchor,
				})
			}
		}
	}
}

// markAnchor is the attachment point of combining marks: bottom center of
// the mark's box.
var markAnchor = font.ValueRecord{XPlacement: -5, YPlacement: Ascent}

func (b *builder) add(r rune) {
	if _, ok := b.f.Character(r); ok {
		return
	}
	g := font.Glyph{Index: b.next, Scale: 1}
	b.next++
	switch {
	case unicode.IsSpace(r) || r == 0x00AD:
		g.Metrics.HorizontalAdvance = Advance
	case unicode.Is(unicode.Mn, r):
		g.Metrics = font.GlyphMetrics{
			Width:              4,
			Height:             2,
			HorizontalBearingX: -7,
			HorizontalBearingY: Ascent + 2,
		}
	default:
		w := width(r)
		g.Metrics = font.GlyphMetrics{
			Width:              float32(w*Advance - 2),
			Height:             GlyphWidth,
			HorizontalBearingX: 1,
			HorizontalBearingY: Ascent,
			HorizontalAdvance:  float32(w * Advance),
		}
	}
	if g.Metrics.Width > 0 {
		cell := int(g.Index)
		g.Rect = font.GlyphRect{
			X:      (cell % atlasColumn) * cellSize,
			Y:      (cell / atlasColumn) * cellSize,
			Width:  int(g.Metrics.Width),
			Height: int(g.Metrics.Height),
		}
	}
	b.f.AddGlyph(g)
	if err := b.f.AddCharacter(r, g.Index); err != nil {
		panic(err) // cannot happen, glyph has just been added
	}
}

// width returns 2 for wide characters, 1 otherwise.
func width(r rune) int {
	emoji.SetupEmojisClasses()
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	if uax11.Width(buf[:n], uax11.LatinContext) > 1 {
		return 2
	}
	return 1
}

// Sprites returns a sprite asset with sprites "smile" (U+1F600), "heart"
// (U+2764) and "star" (U+2B50), each 10×10 units with an advance of 12.
func Sprites() *font.SpriteAsset {
	sa := font.NewSpriteAsset("icons", FaceInfo(), font.AtlasInfo{
		Width:  128,
		Height: 128,
		Mode:   font.Bitmap,
	})
	for i, s := range []struct {
		name string
		r    rune
	}{{"smile", 0x1F600}, {"heart", 0x2764}, {"star", 0x2B50}} {
		sa.AddSprite(s.name, s.r, font.Glyph{
			Index: uint32(i),
			Metrics: font.GlyphMetrics{
				Width:              10,
				Height:             10,
				HorizontalBearingY: Ascent,
				HorizontalAdvance:  12,
			},
			Rect: font.GlyphRect{X: i * 10, Y: 0, Width: 10, Height: 10},
		})
	}
	return sa
}
