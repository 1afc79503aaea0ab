package layout

import (
	"image/color"

	"github.com/chewxy/math32"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/npillmayer/textmesh/core/dimen"
	"github.com/npillmayer/textmesh/core/font"
	"github.com/npillmayer/textmesh/engine/textinfo"
)

// buildMeshes assigns materials to visible characters and writes their
// quads into the meshes.
func (e *engine) buildMeshes() {
	t, ti := e.t, e.ti
	ti.Materials.Reset()
	quads := e.quadCounts[:0]
	ti.Bounds = dimen.EmptyExtents()
	for i := 0; i < ti.CharacterCount; i++ {
		c := &ti.Characters[i]
		c.MaterialIndex, c.VertexIndex = -1, 0
		if !c.IsVisible {
			continue
		}
		fallback := c.Kind == font.CharacterElement && c.Element.Font != t.Font
		m := ti.Materials.Add(c.Element, fallback)
		for len(quads) <= m {
			quads = append(quads, 0)
		}
		c.MaterialIndex = m
		c.VertexIndex = 4 * quads[m]
		quads[m]++
		for _, v := range c.Quad() {
			ti.Bounds = ti.Bounds.Include(v.XY())
		}
	}
	e.quadCounts = quads
	ti.ReserveMeshes(quads, t.Settings.BufferAutoSizeReduction)
	for i := 0; i < ti.CharacterCount; i++ {
		c := &ti.Characters[i]
		if c.MaterialIndex < 0 {
			continue
		}
		q := c.Quad()
		col := e.meshColor(c.Color)
		ti.Meshes[c.MaterialIndex].SetQuad(c.VertexIndex/4, q, e.uv0(c),
			e.uv2(c, q), [4]color.RGBA{col, col, col, col})
	}
	for i := range ti.Meshes {
		ti.Meshes[i].ClearUnused()
	}
}

// uv0 returns the atlas coordinates of a character's quad. W carries the
// scale an SDF shader needs, negative for synthetic bold.
func (e *engine) uv0(c *textinfo.CharacterRecord) [4]dimen.Vec4 {
	t := e.t
	w := c.Scale * math32.Abs(t.LossyScale) * (1 - e.as.charWidthAdj)
	if t.CanvasMode == ScreenSpaceOverlay && t.CanvasScaleFactor > 0 {
		w /= t.CanvasScaleFactor
	}
	if c.IsSyntheticBold {
		w = -w
	}
	var uv [4]dimen.Vec4
	atlas := c.Element.Atlas()
	g := c.Element.Glyph
	if g == nil || atlas.Width <= 0 || atlas.Height <= 0 {
		for k := range uv {
			uv[k].W = w
		}
		return uv
	}
	b := glyphBox{elem: c.Element, font: c.Font, syntheticBold: c.IsSyntheticBold}
	pad := e.padding(c.Element) + stylePadding(&b)
	aw, ah := float32(atlas.Width), float32(atlas.Height)
	x0 := (float32(g.Rect.X) - pad) / aw
	y0 := (float32(g.Rect.Y) - pad) / ah
	x1 := (float32(g.Rect.X+g.Rect.Width) + pad) / aw
	y1 := (float32(g.Rect.Y+g.Rect.Height) + pad) / ah
	uv[0] = dimen.Vec4{X: x0, Y: y0, W: w}
	uv[1] = dimen.Vec4{X: x0, Y: y1, W: w}
	uv[2] = dimen.Vec4{X: x1, Y: y1, W: w}
	uv[3] = dimen.Vec4{X: x1, Y: y0, W: w}
	return uv
}

// uv2 returns the secondary texture coordinates of a quad according to
// the mapping modes.
func (e *engine) uv2(c *textinfo.CharacterRecord, q [4]dimen.Vec3) [4]dimen.Vec2 {
	t, ti := e.t, e.ti
	line := &ti.Lines[c.LineNumber]
	lineOffset := t.UVLineOffset * float32(c.LineNumber)
	var uv [4]dimen.Vec2
	switch t.HorizontalMapping {
	case MapLine:
		for k, v := range q {
			uv[k].X = ratio(v.X-line.Extents.Min.X, line.Extents.Width()) + lineOffset
		}
	case MapParagraph, MapMatchAspect:
		for k, v := range q {
			uv[k].X = ratio(v.X-ti.Bounds.Min.X, ti.Bounds.Width()) + lineOffset
		}
	default:
		uv[0].X, uv[1].X, uv[2].X, uv[3].X = 0, 0, 1, 1
	}
	switch t.VerticalMapping {
	case MapLine:
		for k, v := range q {
			uv[k].Y = ratio(v.Y-line.Descender, line.Ascender-line.Descender)
		}
	case MapParagraph:
		for k, v := range q {
			uv[k].Y = ratio(v.Y-ti.Bounds.Min.Y, ti.Bounds.Height())
		}
	case MapMatchAspect:
		span := uv[2].X - uv[0].X
		h := span * ratio(q[1].Y-q[0].Y, q[2].X-q[1].X)
		uv[0].Y, uv[3].Y = 0.5-h/2, 0.5-h/2
		uv[1].Y, uv[2].Y = 0.5+h/2, 0.5+h/2
	default:
		uv[0].Y, uv[1].Y, uv[2].Y, uv[3].Y = 0, 1, 1, 0
	}
	return uv
}

func ratio(a, b float32) float32 {
	if math32.Abs(b) < dimen.Epsilon {
		return 0
	}
	return a / b
}

// meshColor converts a vertex color to linear space if the text asks for
// it.
func (e *engine) meshColor(c color.RGBA) color.RGBA {
	if !e.t.LinearColor {
		return c
	}
	r, g, b := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.LinearRgb()
	return color.RGBA{R: channel(r), G: channel(g), B: channel(b), A: c.A}
}

func channel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
