package layout

import (
	"github.com/npillmayer/textmesh/core/dimen"
	"github.com/npillmayer/textmesh/core/font"
	"github.com/npillmayer/textmesh/engine/markup"
	"github.com/npillmayer/textmesh/engine/textinfo"
)

// applyTag changes the layout state according to a markup tag. Closing
// tags without a matching opening tag leave the state unchanged.
func (e *engine) applyTag(s *state, tag *markup.Tag) {
	closing := tag.Closing
	switch tag.ID {
	case markup.TagBold:
		toggle(s, textinfo.Bold, closing)
	case markup.TagItalic:
		toggle(s, textinfo.Italic, closing)
	case markup.TagUppercase:
		toggle(s, textinfo.UpperCase, closing)
	case markup.TagLowercase:
		toggle(s, textinfo.LowerCase, closing)
	case markup.TagSmallCaps:
		toggle(s, textinfo.SmallCaps, closing)
	case markup.TagUnderline:
		toggle(s, textinfo.Underline, closing)
		s.underline = pushOrPop(s.underline, s.color.peek(), closing)
	case markup.TagStrikethrough:
		toggle(s, textinfo.Strikethrough, closing)
		s.strike = pushOrPop(s.strike, s.color.peek(), closing)
	case markup.TagMark:
		toggle(s, textinfo.Highlight, closing)
		c := defaultHighlight
		if tag.HasColor() {
			c = tag.Color
		}
		s.highlight = pushOrPop(s.highlight, c, closing)
	case markup.TagSuperscript, markup.TagSubscript:
		e.script(s, tag.ID == markup.TagSuperscript, closing)
	case markup.TagColor:
		s.color = pushOrPop(s.color, tag.Color, closing)
	case markup.TagAlpha:
		c := s.color.peek()
		c.A = tag.Color.A
		s.color = pushOrPop(s.color, c, closing)
	case markup.TagSize:
		s.size = pushOrPop(s.size, e.sizeValue(s, tag.Number), closing)
	case markup.TagFont:
		s.font = pushOrPop(s.font, lookupFont(e.t, tag.Value, s.font.peek()), closing)
	case markup.TagFontWeight:
		s.weight = pushOrPop(s.weight, font.Weight(tag.Number.Number), closing)
	case markup.TagAlign:
		s.align = pushOrPop(s.align, alignmentOf(tag.Value), closing)
		if !closing && s.hasLineAlign {
			s.lineAlign = s.align.peek()
		}
	case markup.TagWidth:
		s.width = pushOrPop(s.width, e.horizontal(s, tag.Number), closing)
	case markup.TagIndent:
		s.indent = pushOrPop(s.indent, e.horizontal(s, tag.Number), closing)
		if !closing {
			s.xAdvance = e.directed(s.indent.peek())
		}
	case markup.TagLineIndent:
		v := e.horizontal(s, tag.Number)
		s.lineIndent = pushOrPop(s.lineIndent, v, closing)
		if !closing {
			s.xAdvance += e.directed(v)
		}
	case markup.TagLineHeight:
		s.lineHeight = pushOrPop(s.lineHeight, e.lineHeightValue(s, tag.Number), closing)
	case markup.TagCSpace:
		s.cspace = pushOrPop(s.cspace, e.vertical(s, tag.Number), closing)
	case markup.TagMSpace:
		s.mspace = pushOrPop(s.mspace, e.vertical(s, tag.Number), closing)
	case markup.TagVOffset:
		s.voffset = pushOrPop(s.voffset, e.vertical(s, tag.Number), closing)
	case markup.TagMargin:
		v := e.horizontal(s, tag.Number)
		s.marginLeft = pushOrPop(s.marginLeft, v, closing)
		s.marginRight = pushOrPop(s.marginRight, v, closing)
	case markup.TagMarginLeft:
		s.marginLeft = pushOrPop(s.marginLeft, e.horizontal(s, tag.Number), closing)
	case markup.TagMarginRight:
		s.marginRight = pushOrPop(s.marginRight, e.horizontal(s, tag.Number), closing)
	case markup.TagPos:
		s.xAdvance = e.directed(e.horizontal(s, tag.Number))
	case markup.TagSpace:
		s.xAdvance += e.directed(e.horizontal(s, tag.Number))
	case markup.TagRotate:
		s.rotate = pushOrPop(s.rotate, tag.Number.Number, closing)
	case markup.TagNoBreak:
		if closing {
			if s.noBreak > 0 {
				s.noBreak--
			}
		} else {
			s.noBreak++
		}
	case markup.TagPage:
		e.pageTag(s)
	case markup.TagLink:
		e.linkTag(s, tag)
	}
}

func toggle(s *state, st textinfo.Style, closing bool) {
	if closing {
		s.styleOff(st)
	} else {
		s.styleOn(st)
	}
}

func pushOrPop[T any](st stack[T], v T, closing bool) stack[T] {
	if closing {
		return st.pop()
	}
	return st.push(v)
}

// directed turns a horizontal distance into a pen movement.
func (e *engine) directed(x float32) float32 {
	if e.rtl {
		return -x
	}
	return x
}

// sizeValue resolves a size tag. Signed pixel values are relative to the
// current size.
func (e *engine) sizeValue(s *state, v dimen.Value) float32 {
	cur := s.size.peek()
	if v.Unit == dimen.Pixels && v.Sign != 0 {
		return cur + v.Number
	}
	return v.Resolve(cur, cur)
}

// horizontal resolves a distance; percentages refer to the width of the
// text area.
func (e *engine) horizontal(s *state, v dimen.Value) float32 {
	return v.Resolve(s.size.peek(), e.width)
}

// vertical resolves a distance; percentages refer to the font size.
func (e *engine) vertical(s *state, v dimen.Value) float32 {
	return v.Resolve(s.size.peek(), s.size.peek())
}

// lineHeightValue resolves a line height; percentages refer to the
// font's line height.
func (e *engine) lineHeightValue(s *state, v dimen.Value) float32 {
	f := s.font.peek()
	return v.Resolve(s.size.peek(), f.Face.LineHeight*f.Scale(s.size.peek()))
}

// script enters or leaves super- or subscript.
func (e *engine) script(s *state, super bool, closing bool) {
	st := textinfo.Subscript
	if super {
		st = textinfo.Superscript
	}
	toggle(s, st, closing)
	if closing {
		s.scripts = s.scripts.pop()
		return
	}
	prev := s.scripts.peek()
	f := s.font.peek()
	face := f.Face
	offset, size := face.SubscriptOffset, face.SubscriptSize
	if super {
		offset, size = face.SuperscriptOffset, face.SuperscriptSize
	}
	if size <= 0 {
		size = 0.5
	}
	s.scripts = s.scripts.push(script{
		scale:  prev.scale * size,
		offset: prev.offset + offset*f.Scale(s.size.peek()*prev.scale),
	})
}

func alignmentOf(v string) textinfo.HAlign {
	switch v {
	case "center":
		return textinfo.AlignCenter
	case "right":
		return textinfo.AlignRight
	case "justified":
		return textinfo.AlignJustified
	case "flush":
		return textinfo.AlignFlush
	case "geometry":
		return textinfo.AlignGeometry
	}
	return textinfo.AlignLeft
}

// pageTag starts a new page in Page overflow mode. Other modes ignore it.
func (e *engine) pageTag(s *state) {
	if e.t.Overflow != Page {
		return
	}
	if !s.lineIsEmpty() {
		e.breakLine(s, true)
	}
	if s.charCount > s.firstCharOfPage {
		e.newPage(s)
	}
}

func (e *engine) linkTag(s *state, tag *markup.Tag) {
	if tag.Closing {
		if i := s.links.peek(); i >= 0 {
			e.ti.Links[i].CharacterCount = s.charCount - e.ti.Links[i].FirstCharacterIndex
			s.links = s.links.pop()
		}
		return
	}
	i := s.linkCount
	e.ti.ReserveLinks(i + 1)
	e.ti.Links[i] = textinfo.LinkInfo{ID: tag.Value, FirstCharacterIndex: s.charCount}
	s.links = s.links.push(i)
	s.linkCount++
}
