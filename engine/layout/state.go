package layout

import (
	"image/color"

	"github.com/npillmayer/textmesh/core/dimen"
	"github.com/npillmayer/textmesh/core/font"
	"github.com/npillmayer/textmesh/engine/textinfo"
)

// state is the complete state of the layout loop. It is a value: a
// checkpoint is a copy, rewinding is an assignment.
type state struct {
	cursor          int // next item of the processing array
	charCount       int
	lineNumber      int
	pageNumber      int
	firstCharOfLine int
	firstCharOfPage int
	eventCount      int // overflow events recorded
	linkCount       int
	xAdvance        float32 // pen position relative to the line start
	lineTop         float32 // distance of the line's top from the page's top
	forcedBaseline  float32
	hasForcedBase   bool
	maxAscender     float32 // of the current line, baseline relative
	maxDescender    float32
	isFirstWord     bool // no break opportunity on this line yet
	lineAlign       textinfo.HAlign
	hasLineAlign    bool // lineAlign is set by a character of the line
	noBreak         int
	styles          [numStyles]int16
	font            stack[*font.FontAsset]
	size            stack[float32]
	weight          stack[font.Weight]
	color           stack[color.RGBA]
	highlight       stack[color.RGBA]
	underline       stack[color.RGBA]
	strike          stack[color.RGBA]
	align           stack[textinfo.HAlign]
	indent          stack[float32]
	lineIndent      stack[float32]
	marginLeft      stack[float32]
	marginRight     stack[float32]
	cspace          stack[float32]
	mspace          stack[float32]
	voffset         stack[float32]
	lineHeight      stack[float32] // 0 is the font's line height
	width           stack[float32] // 0 is the container's width
	rotate          stack[float32]
	scripts         stack[script]
	links           stack[int]
}

// script is the scale and baseline shift of super- and subscripts.
type script struct {
	scale  float32
	offset float32
}

const numStyles = 10

func (s *state) styleOn(st textinfo.Style) {
	s.styles[styleSlot(st)]++
}

func (s *state) styleOff(st textinfo.Style) {
	if i := styleSlot(st); s.styles[i] > 0 {
		s.styles[i]--
	}
}

func (s *state) flags(base textinfo.Style) textinfo.Style {
	st := base
	for i, n := range s.styles {
		if n > 0 {
			st |= 1 << i
		}
	}
	return st
}

func styleSlot(st textinfo.Style) int {
	i := 0
	for st > 1 {
		st >>= 1
		i++
	}
	return i
}

// resetLineMetrics prepares the running extremes for a new line.
func (s *state) resetLineMetrics() {
	s.maxAscender = dimen.LargeNegative
	s.maxDescender = dimen.LargePositive
}

// lineIsEmpty is true if no character has been placed on the line.
func (s *state) lineIsEmpty() bool {
	return s.charCount == s.firstCharOfLine
}

// checkpoint is a saved state, which may be invalid.
type checkpoint struct {
	s     state
	valid bool
}

func (cp *checkpoint) save(s *state) {
	cp.s = *s
	cp.valid = true
}

// usable is true if the checkpoint lies on the current line and not
// ahead of the current position.
func (cp *checkpoint) usable(s *state) bool {
	return cp.valid && cp.s.lineNumber == s.lineNumber && cp.s.pageNumber == s.pageNumber &&
		cp.s.charCount <= s.charCount
}
