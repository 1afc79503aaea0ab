package layout

import (
	"image/color"

	"github.com/chewxy/math32"
	"github.com/npillmayer/textmesh/core/dimen"
	"github.com/npillmayer/textmesh/core/font"
	"github.com/npillmayer/textmesh/engine/linebreak"
	"github.com/npillmayer/textmesh/engine/textinfo"
)

// minThickness keeps decorations of fonts without line metrics visible.
const minThickness = 0.05

// decoration kinds in the order they are drawn
var decorationOrder = [...]textinfo.DecorationKind{
	textinfo.HighlightDecoration,
	textinfo.UnderlineDecoration,
	textinfo.StrikethroughDecoration,
}

// buildDecorations collects runs of underlined, struck-through and
// highlighted characters and writes their rectangles into the decoration
// mesh. A run ends where the line, the page, the color or the baseline
// changes.
func (e *engine) buildDecorations(gated []bool) {
	ti := e.ti
	ti.Decorations = ti.Decorations[:0]
	for _, kind := range decorationOrder {
		var run textinfo.DecorationRun
		open := false
		for i := 0; i < ti.CharacterCount; i++ {
			c := &ti.Characters[i]
			on := gated[i] && c.Style.Has(decorationStyle(kind)) && e.decorates(i)
			if open && on && continues(ti, &run, c) {
				e.extendRun(&run, c, i)
				continue
			}
			if open {
				ti.Decorations = append(ti.Decorations, run)
				open = false
			}
			if on {
				run = e.startRun(kind, c, i)
				open = true
			}
		}
		if open {
			ti.Decorations = append(ti.Decorations, run)
		}
	}
	m := &ti.DecorationMesh
	m.Reserve(len(ti.Decorations), e.t.Settings.BufferAutoSizeReduction)
	for i, d := range ti.Decorations {
		col := e.meshColor(d.Color)
		m.SetQuad(i, d.Rect.Corners(), [4]dimen.Vec4{}, [4]dimen.Vec2{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}},
			[4]color.RGBA{col, col, col, col})
	}
	m.ClearUnused()
}

func decorationStyle(kind textinfo.DecorationKind) textinfo.Style {
	switch kind {
	case textinfo.UnderlineDecoration:
		return textinfo.Underline
	case textinfo.StrikethroughDecoration:
		return textinfo.Strikethrough
	}
	return textinfo.Highlight
}

// decorates is true for visible characters and for spaces between the
// visible characters of a line.
func (e *engine) decorates(i int) bool {
	c := &e.ti.Characters[i]
	if c.IsVisible {
		return true
	}
	if !linebreak.IsWhitespace(c.Unicode) || c.LineNumber >= e.ti.LineCount {
		return false
	}
	line := &e.ti.Lines[c.LineNumber]
	return line.FirstCharacterIndex <= i && i <= line.LastCharacterIndex &&
		i > line.FirstVisibleCharacterIndex && i < line.LastVisibleCharacterIndex
}

func decorationColor(kind textinfo.DecorationKind, c *textinfo.CharacterRecord) color.RGBA {
	switch kind {
	case textinfo.UnderlineDecoration:
		return c.UnderlineColor
	case textinfo.StrikethroughDecoration:
		return c.StrikethroughColor
	}
	return c.HighlightColor
}

func continues(ti *textinfo.TextInfo, run *textinfo.DecorationRun, c *textinfo.CharacterRecord) bool {
	prev := &ti.Characters[run.LastCharacterIndex]
	return prev.LineNumber == c.LineNumber && prev.PageNumber == c.PageNumber &&
		decorationColor(run.Kind, prev) == decorationColor(run.Kind, c) &&
		math32.Abs(prev.Baseline-c.Baseline) < dimen.Epsilon
}

// span returns the horizontal range the pen covered for a character.
func (e *engine) span(c *textinfo.CharacterRecord) (x0, x1 float32) {
	x0 = c.XAdvance - c.Advance
	if e.rtl {
		x0 = c.XAdvance
	}
	return x0, x0 + c.Advance
}

func (e *engine) startRun(kind textinfo.DecorationKind, c *textinfo.CharacterRecord, i int) textinfo.DecorationRun {
	x0, x1 := e.span(c)
	run := textinfo.DecorationRun{
		Kind:                kind,
		FirstCharacterIndex: i,
		LastCharacterIndex:  i,
		Color:               decorationColor(kind, c),
	}
	var y0, y1 float32
	var face font.FaceInfo
	scale := float32(1)
	if c.Font != nil {
		face, scale = c.Font.Face, c.Font.Scale(c.PointSize)
	}
	switch kind {
	case textinfo.UnderlineDecoration:
		th := math32.Max(face.UnderlineThickness*scale, minThickness)
		y1 = c.Baseline + face.UnderlineOffset*scale
		y0 = y1 - th
	case textinfo.StrikethroughDecoration:
		th := math32.Max(face.StrikethroughThickness*scale, minThickness)
		y := c.Baseline + face.StrikethroughOffset*scale
		y0, y1 = y-th/2, y+th/2
	default:
		y0, y1 = c.Descender, c.Ascender
	}
	run.Rect = dimen.Rect{Min: dimen.Vec2{X: x0, Y: y0}, Max: dimen.Vec2{X: x1, Y: y1}}
	return run
}

func (e *engine) extendRun(run *textinfo.DecorationRun, c *textinfo.CharacterRecord, i int) {
	x0, x1 := e.span(c)
	run.LastCharacterIndex = i
	run.Rect.Min.X = math32.Min(run.Rect.Min.X, x0)
	run.Rect.Max.X = math32.Max(run.Rect.Max.X, x1)
	if run.Kind == textinfo.HighlightDecoration {
		run.Rect.Min.Y = math32.Min(run.Rect.Min.Y, c.Descender)
		run.Rect.Max.Y = math32.Max(run.Rect.Max.Y, c.Ascender)
	}
}
