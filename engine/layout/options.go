package layout

import "github.com/npillmayer/textmesh/engine/textinfo"

// Horizontal alignments, re-exported from textinfo.
const (
	Left      = textinfo.AlignLeft
	Center    = textinfo.AlignCenter
	Right     = textinfo.AlignRight
	Justified = textinfo.AlignJustified
	Flush     = textinfo.AlignFlush
	Geometry  = textinfo.AlignGeometry
)

// VAlign is a vertical alignment.
type VAlign uint8

// Vertical alignments
const (
	Top VAlign = iota
	Middle
	Bottom
	Baseline // first baseline at the middle of the container
	VGeometry
	Capline // cap height of the first line centered
)

// Alignment combines horizontal and vertical alignment.
type Alignment struct {
	H textinfo.HAlign
	V VAlign
}

// TopLeft is the default alignment.
var TopLeft = Alignment{H: Left, V: Top}

// OverflowMode tells what to do with text which does not fit.
type OverflowMode uint8

// Overflow modes
const (
	Overflow OverflowMode = iota // text extends beyond the container
	ScrollRect
	Masking
	Truncate // text is cut at the last fitting word
	Ellipsis // text is cut at the last position an ellipsis fits
	Linked   // the rest of the text flows into a linked text
	Page     // text is split into pages
)

func (m OverflowMode) String() string {
	switch m {
	case ScrollRect:
		return "scroll-rect"
	case Masking:
		return "masking"
	case Truncate:
		return "truncate"
	case Ellipsis:
		return "ellipsis"
	case Linked:
		return "linked"
	case Page:
		return "page"
	}
	return "overflow"
}

// ignoresBounds is true for modes which let text extend beyond the
// container.
func (m OverflowMode) ignoresBounds() bool {
	return m == Overflow || m == ScrollRect || m == Masking
}

// CanvasMode is the render mode of the canvas a text is drawn on. It
// influences the scale packed into vertex UVs for SDF shaders.
type CanvasMode uint8

// Canvas modes
const (
	ScreenSpaceOverlay CanvasMode = iota
	ScreenSpaceCamera
	WorldSpace
)

// UVMapping selects how secondary texture coordinates are spread.
type UVMapping uint8

// UV mappings
const (
	MapCharacter UVMapping = iota
	MapLine
	MapParagraph
	MapMatchAspect
)
