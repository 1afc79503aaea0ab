package textinfo

import (
	"image/color"

	"github.com/npillmayer/textmesh/core/dimen"
	"github.com/npillmayer/textmesh/core/font"
)

// Style is a set of font styles applied to a character.
type Style uint16

// Styles
const (
	Bold Style = 1 << iota
	Italic
	Underline
	Strikethrough
	Highlight
	Superscript
	Subscript
	UpperCase
	LowerCase
	SmallCaps
)

// Has is true if all styles in t are set in s.
func (s Style) Has(t Style) bool {
	return s&t == t
}

// CharacterRecord describes the placement of a character.
//
// Index and Length locate the character's source in the input string;
// injected characters (end-of-text, ellipsis) have length 0. Vertex
// positions are in layout space after finalization, relative to the
// line's baseline before.
type CharacterRecord struct {
	Unicode            rune
	Kind               font.ElementKind
	Element            font.TextElement
	Font               *font.FontAsset // font in effect, for sprites too
	MaterialIndex      int             // -1 if the character has no quad
	VertexIndex        int             // first vertex in the material's mesh
	Index              int
	Length             int
	PointSize          float32
	Scale              float32 // from glyph units to layout units
	Origin             float32 // x of the glyph origin
	XAdvance           float32 // pen position after the character
	Advance            float32 // distance the pen moved
	Ascender           float32
	Descender          float32
	Baseline           float32
	BottomLeft         dimen.Vec3
	TopLeft            dimen.Vec3
	TopRight           dimen.Vec3
	BottomRight        dimen.Vec3
	LineNumber         int
	PageNumber         int
	Style              Style
	Color              color.RGBA
	HighlightColor     color.RGBA
	UnderlineColor     color.RGBA
	StrikethroughColor color.RGBA
	IsVisible          bool
	IsInjected         bool // end-of-text or ellipsis inserted by overflow handling
	IsSyntheticBold    bool
}

// Quad returns the corners in vertex order.
func (c *CharacterRecord) Quad() [4]dimen.Vec3 {
	return [4]dimen.Vec3{c.BottomLeft, c.TopLeft, c.TopRight, c.BottomRight}
}

// SetQuad sets the corners from vertex order.
func (c *CharacterRecord) SetQuad(q [4]dimen.Vec3) {
	c.BottomLeft, c.TopLeft, c.TopRight, c.BottomRight = q[0], q[1], q[2], q[3]
}

// End returns the byte position behind the character's source.
func (c *CharacterRecord) End() int {
	return c.Index + c.Length
}

// WordRecord is a run of letters, digits and hyphens.
type WordRecord struct {
	FirstCharacterIndex int
	LastCharacterIndex  int
	CharacterCount      int
}

// HAlign is a horizontal alignment.
type HAlign uint8

// Horizontal alignments
const (
	AlignLeft HAlign = iota
	AlignCenter
	AlignRight
	AlignJustified
	AlignFlush
	AlignGeometry
)

func (a HAlign) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustified:
		return "justified"
	case AlignFlush:
		return "flush"
	case AlignGeometry:
		return "geometry"
	}
	return "left"
}

// LineRecord describes a line. Visible indices exclude leading and
// trailing whitespace and control characters; they are -1 for lines
// without visible characters.
type LineRecord struct {
	FirstCharacterIndex        int
	FirstVisibleCharacterIndex int
	LastCharacterIndex         int
	LastVisibleCharacterIndex  int
	CharacterCount             int
	VisibleCharacterCount      int
	SpaceCount                 int
	WordCount                  int
	ControlCharacterCount      int
	Width                      float32 // available width
	MaxAdvance                 float32 // rendered width
	Ascender                   float32
	Descender                  float32
	Baseline                   float32
	LineHeight                 float32
	MarginLeft                 float32
	MarginRight                float32
	Alignment                  HAlign
	EndsParagraph              bool // line ends with a hard break or the end of text
	Extents                    dimen.Extents
}

// PageRecord describes a page of Page overflow mode.
type PageRecord struct {
	FirstCharacterIndex int
	LastCharacterIndex  int
	Ascender            float32
	Descender           float32
}

// LinkInfo is a range of characters enclosed in a <link> tag.
type LinkInfo struct {
	ID                  string
	FirstCharacterIndex int
	CharacterCount      int
}

// OverflowKind tells how an injected character came into being.
type OverflowKind uint8

// Kinds of overflow events
const (
	TruncateEvent OverflowKind = iota
	EllipsisEvent
	LinkedEvent
	ClearedEvent // no ellipsis position existed, all output dropped
)

// OverflowEvent records a character injected by overflow handling.
type OverflowEvent struct {
	Kind           OverflowKind
	CharacterIndex int  // index of the injected character record
	SourceIndex    int  // byte position in the input string
	Unicode        rune // injected code point
}

// DecorationKind is the kind of a decoration run.
type DecorationKind uint8

// Decorations
const (
	UnderlineDecoration DecorationKind = iota
	StrikethroughDecoration
	HighlightDecoration
)

// DecorationRun is a rectangle drawn along a run of characters.
type DecorationRun struct {
	Kind                DecorationKind
	FirstCharacterIndex int
	LastCharacterIndex  int
	Color               color.RGBA
	Rect                dimen.Rect
}
