package layout

import (
	"image/color"
	"math"

	"github.com/npillmayer/textmesh/core"
	"github.com/npillmayer/textmesh/core/dimen"
	"github.com/npillmayer/textmesh/core/font"
	"github.com/npillmayer/textmesh/core/font/fontregistry"
	"github.com/npillmayer/textmesh/core/parameters"
	"github.com/npillmayer/textmesh/engine/glyphing"
	"github.com/npillmayer/textmesh/engine/markup"
	"github.com/npillmayer/textmesh/engine/textinfo"
)

// Text is a piece of rich text together with its layout parameters.
// Spacing values are given in 1/100 em.
type Text struct {
	Font             *font.FontAsset
	FontSize         float32
	FontWeight       font.Weight
	Style            textinfo.Style // styles applied to all of the text
	Color            color.RGBA
	Alignment        Alignment
	Direction        glyphing.Direction
	WordWrapping     bool
	Overflow         OverflowMode
	Rect             dimen.Rect // container, y-axis up
	Margins          dimen.Margins
	CharacterSpacing float32
	WordSpacing      float32
	LineSpacing      float32
	ParagraphSpacing float32
	LineSpacingMax   float32 // lower bound of line spacing reduction by auto-size, ≤ 0
	AutoSize         bool
	FontSizeMin      float32
	FontSizeMax      float32
	CharWidthMaxAdj  float32 // maximum character width reduction by auto-size, in percent
	RichText         bool
	ParseEscapes     bool
	Kerning          bool
	Ligatures        bool
	ExtraPadding     bool
	// Visibility
	MaxVisibleCharacters  int
	MaxVisibleWords       int
	MaxVisibleLines       int
	FirstVisibleCharacter int // set for linked texts
	PageToDisplay         int // 1-based, for Page overflow
	// Rendering
	CanvasMode        CanvasMode
	CanvasScaleFactor float32
	LossyScale        float32
	Orthographic      bool
	HorizontalMapping UVMapping
	VerticalMapping   UVMapping
	UVLineOffset      float32
	LinearColor       bool
	Settings          parameters.Settings
	Registry          *fontregistry.Registry
	//
	text      string
	linked    *Text
	info      *textinfo.TextInfo
	parsed    []markup.Element
	parsedFor parseKey
	observers []func(*textinfo.TextInfo)
	sizeUsed  float32
	passes    int
}

type parseKey struct {
	text     string
	rich     bool
	escapes  bool
	registry *fontregistry.Registry
}

// NewText creates a text with default layout parameters: a 200×50
// container at the origin, white, left/top aligned, word wrapping on,
// overflow allowed.
func NewText(text string, f *font.FontAsset) *Text {
	t := &Text{
		Font:                 f,
		FontSize:             36,
		Color:                color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Alignment:            TopLeft,
		WordWrapping:         true,
		Overflow:             Overflow,
		Rect:                 dimen.RectWH(200, 50),
		FontSizeMin:          18,
		FontSizeMax:          72,
		RichText:             true,
		Kerning:              true,
		Ligatures:            true,
		MaxVisibleCharacters: math.MaxInt32,
		MaxVisibleWords:      math.MaxInt32,
		MaxVisibleLines:      math.MaxInt32,
		PageToDisplay:        1,
		CanvasScaleFactor:    1,
		LossyScale:           1,
		Orthographic:         true,
		Settings:             parameters.Defaults(),
		Registry:             fontregistry.GlobalRegistry(),
		text:                 text,
		info:                 textinfo.New(),
	}
	return t
}

// SetText replaces the text.
func (t *Text) SetText(s string) {
	t.text = s
}

// Text returns the text including markup.
func (t *Text) Text() string {
	return t.text
}

// TextInfo returns the result of the last layout pass.
func (t *Text) TextInfo() *textinfo.TextInfo {
	return t.info
}

// FontSizeUsed returns the point size of the last layout pass, which
// differs from FontSize for auto-sized texts.
func (t *Text) FontSizeUsed() float32 {
	return t.sizeUsed
}

// AutoSizeIterations returns the number of layout passes the last call
// to GenerateTextMesh needed.
func (t *Text) AutoSizeIterations() int {
	return t.passes
}

// Linked returns the text receiving overflow in Linked mode, or nil.
func (t *Text) Linked() *Text {
	return t.linked
}

// SetLinkedText sets the text receiving overflow in Linked mode. Chains
// of linked texts must not contain cycles.
func (t *Text) SetLinkedText(next *Text) error {
	for n := next; n != nil; n = n.linked {
		if n == t {
			return core.Error(core.EINVALID, "linking texts would create a cycle")
		}
	}
	t.linked = next
	return nil
}

// OnTextChanged registers an observer which is called after every
// completed layout.
func (t *Text) OnTextChanged(observer func(*textinfo.TextInfo)) {
	t.observers = append(t.observers, observer)
}

// GenerateTextMesh lays out the text and fills the text info with records
// and vertex buffers. Without a font asset the meshes are cleared and an
// error with code EMISSING is returned. A layout which had to be stopped
// is kept, but reported with code EEXHAUSTED.
func (t *Text) GenerateTextMesh() error {
	if t.info == nil {
		t.info = textinfo.New()
	}
	if t.Font == nil {
		t.info.Clear()
		t.info.ClearMeshes()
		tracer().Errorf("text has no font asset, mesh cleared")
		return core.Error(core.EMISSING, "text has no font asset")
	}
	elems := t.processingArray()
	e := newEngine(t, elems)
	as := newAutoSizer(t)
	t.passes = 0
	for {
		t.passes++
		retry := e.run(as)
		if !retry && !as.grow() {
			break
		}
		as.iterations++
		if as.iterations >= as.maxIterations && !as.locked {
			tracer().Infof("auto-size did not converge after %d iterations, using size %.2f",
				as.iterations, as.bestSize())
			as.lock()
		}
	}
	e.finalize()
	t.sizeUsed = as.fontSize
	if e.linkCut >= 0 && t.linked != nil {
		t.flowIntoLinked(e.linkCut)
	}
	for _, observer := range t.observers {
		observer(t.info)
	}
	if e.exhausted {
		return core.Error(core.EEXHAUSTED, "layout stopped after %d backtracks", e.backtracks)
	}
	return nil
}

// flowIntoLinked lays out the linked text, starting at character cut.
func (t *Text) flowIntoLinked(cut int) {
	next := t.linked
	next.text = t.text
	next.RichText = t.RichText
	next.ParseEscapes = t.ParseEscapes
	next.FirstVisibleCharacter = cut
	if err := next.GenerateTextMesh(); err != nil {
		tracer().Errorf("linked text: %v", err)
	}
}

// processingArray parses the text. The result is cached until the text
// or parse options change.
func (t *Text) processingArray() []markup.Element {
	key := parseKey{text: t.text, rich: t.RichText, escapes: t.ParseEscapes, registry: t.Registry}
	if t.parsed != nil && t.parsedFor == key {
		return t.parsed
	}
	resolver := glyphing.NewResolver(t.Registry, t.Settings)
	opts := markup.Options{
		RichText:     t.RichText,
		ParseEscapes: t.ParseEscapes,
		Sprites: func(asset, name string, index int) bool {
			sa, ok := resolver.SpriteAsset(asset)
			if !ok {
				return false
			}
			_, ok = resolver.ResolveSprite(sa, name, index)
			return ok
		},
	}
	t.parsed = markup.Parse(t.text, opts)
	t.parsedFor = key
	tracer().Debugf("parsed %d bytes into %d elements", len(t.text), len(t.parsed))
	return t.parsed
}
