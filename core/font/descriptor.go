package font

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/textmesh/core"
	"github.com/pelletier/go-toml/v2"
)

// Descriptor is the TOML representation of a font asset, as produced by
// atlas generation tooling.
//
//	name = "Mono"
//	[face]
//	point_size = 10
//	ascent = 8
//	descent = -2
//	…
//	[[glyphs]]
//	index = 1
//	advance = 10
//	…
//	[[characters]]
//	char = "A"
//	glyph = 1
type Descriptor struct {
	Name       string                `toml:"name"`
	Face       faceDescriptor        `toml:"face"`
	Atlas      atlasDescriptor       `toml:"atlas"`
	Style      styleDescriptor       `toml:"style"`
	Glyphs     []glyphDescriptor     `toml:"glyphs"`
	Characters []characterDescriptor `toml:"characters"`
	Kerning    []pairDescriptor      `toml:"kerning"`
	Ligatures  []ligatureDescriptor  `toml:"ligatures"`
	MarkToBase []markDescriptor      `toml:"mark_to_base"`
	MarkToMark []markDescriptor      `toml:"mark_to_mark"`
}

type faceDescriptor struct {
	Family                 string  `toml:"family"`
	Style                  string  `toml:"style"`
	PointSize              float32 `toml:"point_size"`
	Scale                  float32 `toml:"scale"`
	LineHeight             float32 `toml:"line_height"`
	Ascent                 float32 `toml:"ascent"`
	CapLine                float32 `toml:"cap_line"`
	MeanLine               float32 `toml:"mean_line"`
	Baseline               float32 `toml:"baseline"`
	Descent                float32 `toml:"descent"`
	SuperscriptOffset      float32 `toml:"superscript_offset"`
	SuperscriptSize        float32 `toml:"superscript_size"`
	SubscriptOffset        float32 `toml:"subscript_offset"`
	SubscriptSize          float32 `toml:"subscript_size"`
	UnderlineOffset        float32 `toml:"underline_offset"`
	UnderlineThickness     float32 `toml:"underline_thickness"`
	StrikethroughOffset    float32 `toml:"strikethrough_offset"`
	StrikethroughThickness float32 `toml:"strikethrough_thickness"`
	TabWidth               float32 `toml:"tab_width"`
}

type atlasDescriptor struct {
	Width   int     `toml:"width"`
	Height  int     `toml:"height"`
	Padding float32 `toml:"padding"`
	Mode    string  `toml:"mode"` // "bitmap" or "sdf"
}

type styleDescriptor struct {
	BoldStyle   *float32 `toml:"bold_style"`
	BoldSpacing *float32 `toml:"bold_spacing"`
	ItalicStyle *int     `toml:"italic_style"`
	TabMultiple *int     `toml:"tab_multiple"`
}

type glyphDescriptor struct {
	Index    uint32  `toml:"index"`
	Width    float32 `toml:"width"`
	Height   float32 `toml:"height"`
	BearingX float32 `toml:"bearing_x"`
	BearingY float32 `toml:"bearing_y"`
	Advance  float32 `toml:"advance"`
	X        int     `toml:"x"`
	Y        int     `toml:"y"`
	W        int     `toml:"w"`
	H        int     `toml:"h"`
	Scale    float32 `toml:"scale"`
	Atlas    int     `toml:"atlas"`
}

type characterDescriptor struct {
	Char    string `toml:"char"`
	Unicode int32  `toml:"unicode"`
	Glyph   uint32 `toml:"glyph"`
}

type valueDescriptor struct {
	XPlacement float32 `toml:"x_placement"`
	YPlacement float32 `toml:"y_placement"`
	XAdvance   float32 `toml:"x_advance"`
	YAdvance   float32 `toml:"y_advance"`
}

func (v valueDescriptor) record() ValueRecord {
	return ValueRecord(v)
}

type pairDescriptor struct {
	First         uint32          `toml:"first"`
	Second        uint32          `toml:"second"`
	FirstAdjust   valueDescriptor `toml:"first_adjust"`
	SecondAdjust  valueDescriptor `toml:"second_adjust"`
	IgnoreSpacing bool            `toml:"ignore_spacing"`
}

type ligatureDescriptor struct {
	Components []uint32 `toml:"components"`
	Glyph      uint32   `toml:"glyph"`
}

type markDescriptor struct {
	Base    uint32          `toml:"base"`
	Mark    uint32          `toml:"mark"`
	AnchorX float32         `toml:"anchor_x"`
	AnchorY float32         `toml:"anchor_y"`
	Adjust  valueDescriptor `toml:"adjust"`
}

// LoadDescriptor reads a TOML font asset descriptor and creates a static
// font asset from it.
func LoadDescriptor(r io.Reader) (*FontAsset, error) {
	var desc Descriptor
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&desc); err != nil {
		return nil, core.WrapError(err, core.EFORMAT, "cannot decode font descriptor")
	}
	return desc.Asset()
}

// Asset creates a font asset from a descriptor.
func (desc *Descriptor) Asset() (*FontAsset, error) {
	if desc.Face.PointSize <= 0 {
		return nil, core.Error(core.EFORMAT, "font descriptor %q: point size missing", desc.Name)
	}
	fd := desc.Face
	face := FaceInfo{
		FamilyName:             fd.Family,
		StyleName:              fd.Style,
		PointSize:              fd.PointSize,
		Scale:                  fd.Scale,
		LineHeight:             fd.LineHeight,
		AscentLine:             fd.Ascent,
		CapLine:                fd.CapLine,
		MeanLine:               fd.MeanLine,
		Baseline:               fd.Baseline,
		DescentLine:            fd.Descent,
		SuperscriptOffset:      fd.SuperscriptOffset,
		SuperscriptSize:        fd.SuperscriptSize,
		SubscriptOffset:        fd.SubscriptOffset,
		SubscriptSize:          fd.SubscriptSize,
		UnderlineOffset:        fd.UnderlineOffset,
		UnderlineThickness:     fd.UnderlineThickness,
		StrikethroughOffset:    fd.StrikethroughOffset,
		StrikethroughThickness: fd.StrikethroughThickness,
		TabWidth:               fd.TabWidth,
	}
	if face.LineHeight == 0 {
		face.LineHeight = face.AscentLine - face.DescentLine
	}
	atlas := AtlasInfo{
		Width:   desc.Atlas.Width,
		Height:  desc.Atlas.Height,
		Padding: desc.Atlas.Padding,
	}
	switch strings.ToLower(desc.Atlas.Mode) {
	case "", "bitmap":
		atlas.Mode = Bitmap
	case "sdf":
		atlas.Mode = SDF
	default:
		return nil, core.Error(core.EFORMAT, "font descriptor %q: unknown render mode %q",
			desc.Name, desc.Atlas.Mode)
	}
	f := NewFontAsset(desc.Name, face, atlas)
	if s := desc.Style.BoldStyle; s != nil {
		f.BoldStyle = *s
	}
	if s := desc.Style.BoldSpacing; s != nil {
		f.BoldSpacing = *s
	}
	if s := desc.Style.ItalicStyle; s != nil {
		f.ItalicStyle = *s
	}
	if s := desc.Style.TabMultiple; s != nil {
		f.TabMultiple = *s
	}
	for _, g := range desc.Glyphs {
		f.AddGlyph(Glyph{
			Index: g.Index,
			Metrics: GlyphMetrics{
				Width:              g.Width,
				Height:             g.Height,
				HorizontalBearingX: g.BearingX,
				HorizontalBearingY: g.BearingY,
				HorizontalAdvance:  g.Advance,
			},
			Rect:       GlyphRect{X: g.X, Y: g.Y, Width: g.W, Height: g.H},
			Scale:      g.Scale,
			AtlasIndex: g.Atlas,
		})
	}
	for _, c := range desc.Characters {
		r := rune(c.Unicode)
		if c.Char != "" {
			var size int
			r, size = utf8.DecodeRuneInString(c.Char)
			if r == utf8.RuneError || size != len(c.Char) {
				return nil, core.Error(core.EFORMAT, "font descriptor %q: invalid character %q",
					desc.Name, c.Char)
			}
		}
		if err := f.AddCharacter(r, c.Glyph); err != nil {
			return nil, core.WrapError(err, core.EFORMAT, "font descriptor %q", desc.Name)
		}
	}
	for _, p := range desc.Kerning {
		f.Features.AddPair(PairAdjustment{
			First:         p.First,
			Second:        p.Second,
			FirstAdjust:   p.FirstAdjust.record(),
			SecondAdjust:  p.SecondAdjust.record(),
			IgnoreSpacing: p.IgnoreSpacing,
		})
	}
	for _, l := range desc.Ligatures {
		f.Features.AddLigature(Ligature{Components: l.Components, Glyph: l.Glyph})
	}
	for _, m := range desc.MarkToBase {
		f.Features.AddMarkToBase(m.attachment())
	}
	for _, m := range desc.MarkToMark {
		f.Features.AddMarkToMark(m.attachment())
	}
	tracer().Debugf("font descriptor %q: %d glyphs, %d characters", desc.Name,
		len(desc.Glyphs), len(desc.Characters))
	return f, nil
}

func (m markDescriptor) attachment() MarkAttachment {
	return MarkAttachment{
		Base:       m.Base,
		Mark:       m.Mark,
		BaseAnchor: Anchor{X: m.AnchorX, Y: m.AnchorY},
		MarkAdjust: m.Adjust.record(),
	}
}
