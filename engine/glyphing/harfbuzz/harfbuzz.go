/*
Package harfbuzz uses HarfBuzz to derive positioning and substitution
features of OpenType font assets.

Assets loaded from OpenType data resolve glyphs from the font's cmap, but
do not know the font's GPOS and GSUB tables. ImportFeatures shapes pairs
and candidate ligature sequences of a character set with HarfBuzz and
stores the differences to the unshaped glyphs as pair adjustments and
ligatures in the asset's feature table.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package harfbuzz

import (
	"bytes"
	"encoding/binary"
	"unicode"

	hbtt "github.com/benoitkugler/textlayout/fonts/truetype"
	hb "github.com/benoitkugler/textlayout/harfbuzz"
	hblang "github.com/benoitkugler/textlayout/language"
	"github.com/chewxy/math32"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/textmesh/core"
	"github.com/npillmayer/textmesh/core/font"
	"github.com/npillmayer/textmesh/engine/glyphing"
	"golang.org/x/text/language"
)

// tracer traces with key 'textmesh.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("textmesh.glyphs")
}

// --- Type conversion -------------------------------------------------------

// Lang4HB returns a language tag as a HarfBuzz language.
func Lang4HB(l language.Tag) hblang.Language {
	return hblang.NewLanguage(l.String())
}

// Script4HB returns a script as a HarfBuzz script.
func Script4HB(s language.Script) hblang.Script {
	b := []byte(s.String())
	b[0] = byte(unicode.ToLower(rune(b[0])))
	h := binary.BigEndian.Uint32(b)
	return hblang.Script(h)
}

// Direction4HB translates a direction to a HarfBuzz direction.
func Direction4HB(d glyphing.Direction) hb.Direction {
	if d == glyphing.RightToLeft {
		return hb.RightToLeft
	}
	return hb.LeftToRight
}

// Feature4HB creates a HarfBuzz feature switch from a 4-letter feature tag,
// applying to the whole buffer.
func Feature4HB(tag string, on bool) hb.Feature {
	f := hb.Feature{
		Tag:   hbtt.Tag(binary.BigEndian.Uint32([]byte(tag))),
		Start: 0,
		End:   1 << 30,
	}
	if on {
		f.Value = 1
	}
	return f
}

// --- Feature import --------------------------------------------------------

// Ligatures are the character sequences probed for ligatures by default.
var Ligatures = []string{"ffi", "ffl", "ff", "fi", "fl", "ft", "st"}

// Options control a feature import.
type Options struct {
	Language  language.Tag
	Script    language.Script
	Direction glyphing.Direction
	Ligatures []string // candidate sequences, Ligatures if nil
}

// shaper shapes short runs with a HarfBuzz font.
type shaper struct {
	font     *hb.Font
	props    hb.SegmentProperties
	features []hb.Feature
}

func (sh *shaper) shape(runes []rune) ([]hb.GlyphInfo, []hb.GlyphPosition) {
	buf := hb.NewBuffer()
	buf.Props = sh.props
	buf.AddRunes(runes, 0, len(runes))
	buf.Shape(sh.font, sh.features)
	return buf.Info, buf.Pos
}

// ImportFeatures derives pair adjustments for all pairs of characters in
// charset and ligatures for the candidate sequences, and adds them to the
// asset's feature table. The asset must have been loaded from OpenType data.
// It returns the number of pairs and ligatures added.
func ImportFeatures(asset *font.FontAsset, charset string, opts Options) (pairs, ligs int, err error) {
	if len(asset.Data) == 0 {
		return 0, 0, core.Error(core.EINVALID, "font %s has no OpenType data", asset.Name)
	}
	upem := font.UnitsPerEm(asset)
	if upem == 0 {
		return 0, 0, core.Error(core.EINVALID, "font %s has no OpenType glyph source", asset.Name)
	}
	face, err := hbtt.Parse(bytes.NewReader(asset.Data), true)
	if err != nil {
		return 0, 0, core.WrapError(err, core.EFORMAT, "HarfBuzz cannot parse font %s", asset.Name)
	}
	sh := &shaper{font: hb.NewFont(face)}
	if opts.Language != language.Und {
		sh.props.Language = Lang4HB(opts.Language)
	}
	var none language.Script
	if opts.Script == none {
		opts.Script = language.MustParseScript("Latn")
	}
	sh.props.Script = Script4HB(opts.Script)
	sh.props.Direction = Direction4HB(opts.Direction)
	scale := asset.Face.PointSize / float32(upem)
	//
	chars := make([]*font.Character, 0, len(charset))
	for _, r := range charset {
		if c, ok := asset.TryAddCharacter(r); ok && !font.IsSynthesized(c.Glyph) {
			chars = append(chars, c)
		}
	}
	sh.features = []hb.Feature{Feature4HB("liga", false), Feature4HB("kern", true)}
	for _, a := range chars {
		for _, b := range chars {
			info, pos := sh.shape([]rune{a.Unicode, b.Unicode})
			if len(info) != 2 || uint32(info[0].Glyph) != a.Glyph.Index || uint32(info[1].Glyph) != b.Glyph.Index {
				continue
			}
			adjust := float32(pos[0].XAdvance)*scale - a.Glyph.Metrics.HorizontalAdvance
			if math32.Abs(adjust) < 0.01 {
				continue
			}
			asset.Features.AddPair(font.PairAdjustment{
				First:       a.Glyph.Index,
				Second:      b.Glyph.Index,
				FirstAdjust: font.ValueRecord{XAdvance: adjust},
			})
			pairs++
		}
	}
	candidates := opts.Ligatures
	if candidates == nil {
		candidates = Ligatures
	}
	sh.features = []hb.Feature{Feature4HB("liga", true), Feature4HB("kern", false)}
	for _, seq := range candidates {
		runes := []rune(seq)
		components := make([]uint32, 0, len(runes))
		for _, r := range runes {
			if c, ok := asset.TryAddCharacter(r); ok {
				components = append(components, c.Glyph.Index)
			}
		}
		if len(components) != len(runes) || len(components) < 2 {
			continue
		}
		info, _ := sh.shape(runes)
		if len(info) != 1 {
			continue
		}
		lig := uint32(info[0].Glyph)
		if _, ok := asset.TryAddGlyph(lig); !ok {
			tracer().Debugf("font %s: cannot add ligature glyph %d", asset.Name, lig)
			continue
		}
		asset.Features.AddLigature(font.Ligature{Components: components, Glyph: lig})
		ligs++
	}
	tracer().Infof("font %s: imported %d pair adjustments and %d ligatures", asset.Name, pairs, ligs)
	return pairs, ligs, nil
}
