/*
Package font is for font assets and glyph tables.

We stick to the following definitions:

* A "font asset" is a font prepared for mesh-based rendering: a table of
characters, mapped to glyphs, the glyphs' metrics in layout units at a
reference point size, and the rectangles of the glyphs within an atlas
texture. A font asset carries the face metrics of its font and a table of
positioning and substitution features (kerning, ligatures, mark
attachment).

* A "sprite asset" is a set of images (icons, emoji) placed in an atlas
texture, addressed by name or index from markup.

Assets are loaded from OpenType data (package sfnt of golang.org/x/image),
from TOML descriptors, or are built programmatically. Assets created from
OpenType data are dynamic: characters missing from the character table are
added on demand.

----------------------------------------------------------------------

BSD License

Copyright (c) 2017-21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE. */
package font

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/textmesh/core"
)

// tracer traces with key 'textmesh.fonts'.
func tracer() tracing.Trace {
	return tracing.Select("textmesh.fonts")
}

// MaterialID identifies a shader material bound to an atlas texture.
type MaterialID uint32

var materialCounter uint32

// NewMaterialID returns a material id unique within this process.
func NewMaterialID() MaterialID {
	return MaterialID(atomic.AddUint32(&materialCounter, 1))
}

// FaceInfo holds the metrics of a font face, in layout units at PointSize.
// Vertical metrics are relative to the baseline, descent lines are negative.
type FaceInfo struct {
	FamilyName             string
	StyleName              string
	PointSize              float32
	Scale                  float32
	LineHeight             float32
	AscentLine             float32
	CapLine                float32
	MeanLine               float32
	Baseline               float32
	DescentLine            float32
	SuperscriptOffset      float32
	SuperscriptSize        float32
	SubscriptOffset        float32
	SubscriptSize          float32
	UnderlineOffset        float32
	UnderlineThickness     float32
	StrikethroughOffset    float32
	StrikethroughThickness float32
	TabWidth               float32
}

// LineGap is the extra space between lines recommended by the face.
func (fi FaceInfo) LineGap() float32 {
	return fi.LineHeight - (fi.AscentLine - fi.DescentLine)
}

// RenderMode is the way glyphs are rasterized into an atlas.
type RenderMode uint8

// Render modes
const (
	Bitmap RenderMode = iota
	SDF
)

// AtlasInfo describes the atlas textures of an asset.
type AtlasInfo struct {
	Width, Height int
	Padding       float32
	Mode          RenderMode
	Count         int // number of atlas textures in use
}

// GradientScale is the distance range of an SDF atlas, 0 for bitmaps.
func (a AtlasInfo) GradientScale() float32 {
	if a.Mode == SDF {
		return a.Padding + 1
	}
	return 0
}

// GlyphMetrics are the metrics of a glyph in layout units at the asset's
// point size.
type GlyphMetrics struct {
	Width              float32
	Height             float32
	HorizontalBearingX float32
	HorizontalBearingY float32
	HorizontalAdvance  float32
}

// GlyphRect is the rectangle of a glyph within its atlas texture, in pixels,
// origin at the bottom left.
type GlyphRect struct {
	X, Y, Width, Height int
}

// Glyph is a renderable shape.
type Glyph struct {
	Index      uint32
	Metrics    GlyphMetrics
	Rect       GlyphRect
	Scale      float32
	AtlasIndex int
}

// Character maps a code point to a glyph.
type Character struct {
	Unicode rune
	Glyph   *Glyph
	Scale   float32
}

// Weight is a CSS-style font weight (100…900).
type Weight int

// Common weights
const (
	Thin      Weight = 100
	Light     Weight = 300
	Regular   Weight = 400
	Medium    Weight = 500
	SemiBold  Weight = 600
	Bold      Weight = 700
	Black     Weight = 900
	maxWeight        = 9
)

// Index returns the slot of a weight in a weight table.
func (w Weight) Index() int {
	i := int(w) / 100
	if i < 1 {
		return 1
	}
	if i > maxWeight {
		return maxWeight
	}
	return i
}

// Typefaces are alternative assets for a given weight.
type Typefaces struct {
	Regular *FontAsset
	Italic  *FontAsset
}

// GlyphSource produces glyphs for characters missing in an asset. Glyph
// metrics must be given in layout units at the asset's point size.
type GlyphSource interface {
	Glyph(r rune) (GlyphMetrics, uint32, bool)
}

// IndexedGlyphSource is a glyph source which delivers glyphs by index.
type IndexedGlyphSource interface {
	GlyphSource
	GlyphAt(index uint32) (GlyphMetrics, bool)
}

// FontAsset is a font prepared for rendering glyph quads.
//
// A font asset is read-mostly. Dynamic assets add characters on demand,
// which is serialized by the asset's mutex.
type FontAsset struct {
	Name                string
	Face                FaceInfo
	Atlas               AtlasInfo
	Material            MaterialID
	NormalStyle         float32     // weight of regular text for SDF shaders
	NormalSpacingOffset float32     // extra spacing for regular text
	BoldStyle           float32     // weight offset of synthetic bold
	BoldSpacing         float32     // extra spacing of synthetic bold, in 1/100 em
	ItalicStyle         int         // slant of synthetic italic
	TabMultiple         int         // tab stops are TabMultiple × Face.TabWidth apart
	Features            *FeatureTable
	Fallbacks           []*FontAsset
	Weights             [maxWeight + 1]Typefaces
	Data                []byte // OpenType data, if loaded from a font file
	mu                  sync.RWMutex
	characters          map[rune]*Character
	glyphs              map[uint32]*Glyph
	source              GlyphSource
	packer              *packer
}

// NewFontAsset creates an empty font asset. Control characters which the
// layout engine relies on are synthesized as zero-width glyphs.
func NewFontAsset(name string, face FaceInfo, atlas AtlasInfo) *FontAsset {
	if face.Scale == 0 {
		face.Scale = 1
	}
	if atlas.Count == 0 {
		atlas.Count = 1
	}
	f := &FontAsset{
		Name:        name,
		Face:        face,
		Atlas:       atlas,
		Material:    NewMaterialID(),
		BoldStyle:   0.75,
		BoldSpacing: 7,
		ItalicStyle: 35,
		TabMultiple: 4,
		Features:    NewFeatureTable(),
		characters:  make(map[rune]*Character),
		glyphs:      make(map[uint32]*Glyph),
	}
	f.addSynthesizedCharacters()
	return f
}

// synthesized are control and format characters which get an empty glyph.
var synthesized = []rune{0x03, 0x09, 0x0A, 0x0B, 0x0D, 0x061C, 0x200B, 0x200E,
	0x200F, 0x2028, 0x2029, 0x2060}

// synthesizedGlyphBase is the first glyph index of synthesized glyphs,
// outside the range of real font glyph indices.
const synthesizedGlyphBase uint32 = 0xFF00

func (f *FontAsset) addSynthesizedCharacters() {
	for i, r := range synthesized {
		g := &Glyph{Index: synthesizedGlyphBase + uint32(i), Scale: 1}
		if r == 0x09 {
			g.Metrics.HorizontalAdvance = f.Face.TabWidth
		}
		f.glyphs[g.Index] = g
		f.characters[r] = &Character{Unicode: r, Glyph: g, Scale: 1}
	}
}

// IsSynthesized is true for glyphs the asset created for control characters.
func IsSynthesized(g *Glyph) bool {
	return g != nil && g.Index >= synthesizedGlyphBase && g.Index < synthesizedGlyphBase+uint32(len(synthesized))
}

// SetGlyphSource makes the asset dynamic.
func (f *FontAsset) SetGlyphSource(src GlyphSource) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.source = src
	if f.packer == nil {
		f.packer = newPacker(f.Atlas.Width, f.Atlas.Height, int(f.Atlas.Padding))
	}
}

// IsDynamic is true if the asset adds characters on demand.
func (f *FontAsset) IsDynamic() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.source != nil
}

// AddGlyph stores a glyph, replacing a glyph with the same index.
func (f *FontAsset) AddGlyph(g Glyph) *Glyph {
	if g.Scale == 0 {
		g.Scale = 1
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	gl := &g
	f.glyphs[g.Index] = gl
	if g.AtlasIndex >= f.Atlas.Count {
		f.Atlas.Count = g.AtlasIndex + 1
	}
	return gl
}

// AddCharacter maps a code point to a glyph previously added.
func (f *FontAsset) AddCharacter(r rune, glyphIndex uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.glyphs[glyphIndex]
	if !ok {
		return core.Error(core.EMISSING, "font %s has no glyph %d for U+%04X", f.Name, glyphIndex, r)
	}
	f.characters[r] = &Character{Unicode: r, Glyph: g, Scale: 1}
	return nil
}

// Character looks up the character for a code point.
func (f *FontAsset) Character(r rune) (*Character, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	c, ok := f.characters[r]
	return c, ok
}

// Glyph looks up a glyph by index.
func (f *FontAsset) Glyph(index uint32) (*Glyph, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	g, ok := f.glyphs[index]
	return g, ok
}

// CharacterCount returns the number of characters in the character table.
func (f *FontAsset) CharacterCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.characters)
}

// TryAddCharacter adds a character for r from the asset's glyph source.
// It returns the character if it is present afterwards. A code point is
// inserted at most once, concurrent callers see the same character.
func (f *FontAsset) TryAddCharacter(r rune) (*Character, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.characters[r]; ok {
		return c, true
	}
	if f.source == nil {
		return nil, false
	}
	metrics, index, ok := f.source.Glyph(r)
	if !ok {
		return nil, false
	}
	g, ok := f.glyphs[index]
	if !ok {
		if g, ok = f.placeGlyph(index, metrics); !ok {
			return nil, false
		}
	}
	c := &Character{Unicode: r, Glyph: g, Scale: 1}
	f.characters[r] = c
	tracer().Debugf("font %s: added U+%04X as glyph %d", f.Name, r, index)
	return c, true
}

// TryAddGlyph adds a glyph by index from the asset's glyph source, if the
// source is able to deliver glyphs without a code point (ligatures, for
// example).
func (f *FontAsset) TryAddGlyph(index uint32) (*Glyph, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if g, ok := f.glyphs[index]; ok {
		return g, true
	}
	src, ok := f.source.(IndexedGlyphSource)
	if !ok {
		return nil, false
	}
	metrics, ok := src.GlyphAt(index)
	if !ok {
		return nil, false
	}
	return f.placeGlyph(index, metrics)
}

// placeGlyph allocates atlas space for a new glyph. f.mu must be held.
func (f *FontAsset) placeGlyph(index uint32, metrics GlyphMetrics) (*Glyph, bool) {
	g := &Glyph{Index: index, Metrics: metrics, Scale: 1}
	if metrics.Width > 0 && metrics.Height > 0 {
		rect, atlas, fits := f.packer.allocate(ceil(metrics.Width), ceil(metrics.Height))
		if !fits {
			tracer().Errorf("font %s: glyph %d does not fit into an atlas", f.Name, index)
			return nil, false
		}
		g.Rect, g.AtlasIndex = rect, atlas
		if atlas >= f.Atlas.Count {
			f.Atlas.Count = atlas + 1
		}
	}
	f.glyphs[index] = g
	return g, true
}

// Typeface returns the alternative asset for a weight and slant, if any.
func (f *FontAsset) Typeface(weight Weight, italic bool) *FontAsset {
	tf := f.Weights[weight.Index()]
	if italic {
		return tf.Italic
	}
	return tf.Regular
}

// SetTypeface registers an alternative asset for a weight and slant.
func (f *FontAsset) SetTypeface(weight Weight, italic bool, alt *FontAsset) {
	if italic {
		f.Weights[weight.Index()].Italic = alt
	} else {
		f.Weights[weight.Index()].Regular = alt
	}
}

// Scale returns the factor from the asset's units to a font size.
func (f *FontAsset) Scale(size float32) float32 {
	if f.Face.PointSize == 0 {
		return 0
	}
	return size / f.Face.PointSize * f.Face.Scale
}

// NormalizeName normalizes a font name to be used as a key.
func NormalizeName(fname string) string {
	fname = strings.TrimSpace(fname)
	fname = strings.ReplaceAll(fname, " ", "_")
	if dot := strings.LastIndex(fname, "."); dot > 0 {
		switch strings.ToLower(fname[dot:]) {
		case ".ttf", ".otf", ".ttc", ".toml":
			fname = fname[:dot]
		}
	}
	return strings.ToLower(fname)
}

func ceil(x float32) int {
	n := int(x)
	if float32(n) < x {
		n++
	}
	return n
}
