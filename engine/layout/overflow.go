package layout

import (
	"github.com/chewxy/math32"
	"github.com/npillmayer/textmesh/core/dimen"
	"github.com/npillmayer/textmesh/core/font"
	"github.com/npillmayer/textmesh/engine/glyphing"
	"github.com/npillmayer/textmesh/engine/textinfo"
)

// horizontalOverflow handles a character which does not fit on the
// current line.
func (e *engine) horizontalOverflow(s *state, b *glyphBox) action {
	t := e.t
	if t.WordWrapping && !s.lineIsEmpty() {
		if s.isFirstWord && e.as.canShrink() {
			e.as.shrink(false, 0, 0, 0)
			return restart
		}
		target := e.wrapTarget(s)
		if !t.Overflow.ignoresBounds() || e.as.canShrink() {
			if over := e.nextLineOvershoot(&target.s, b); over > dimen.Epsilon {
				if e.as.canShrink() {
					e.as.shrink(true, over, s.lineNumber+1, e.em(s))
					return restart
				}
				return e.wrapIntoOverflow(s, target)
			}
		}
		e.rewind(s, target.s)
		e.convertSoftHyphen(s)
		e.breakLine(s, false)
		return rewound
	}
	if e.as.canShrink() {
		e.as.shrink(false, 0, 0, 0)
		return restart
	}
	switch t.Overflow {
	case Truncate:
		e.truncate(s, e.cutPosition(s), textinfo.TruncateEvent)
		return rewound
	case Linked:
		e.truncate(s, e.cutPosition(s), textinfo.LinkedEvent)
		return rewound
	case Ellipsis:
		return e.ellipsis(s)
	}
	return proceed
}

// wrapTarget selects the position to break the current line at: the last
// soft break inside an over-long first word, the last break opportunity,
// or the current position.
func (e *engine) wrapTarget(s *state) checkpoint {
	if s.isFirstWord && e.softBreak.usable(s) && e.softBreak.s.charCount > s.firstCharOfLine {
		return e.softBreak
	}
	if e.wordWrap.usable(s) && e.wordWrap.s.charCount > s.firstCharOfLine {
		return e.wordWrap
	}
	return checkpoint{s: *s, valid: true}
}

// cutPosition is where truncated text ends: at the last word break of the
// line, or before the current character.
func (e *engine) cutPosition(s *state) state {
	if e.wordWrap.usable(s) {
		return e.wordWrap.s
	}
	return *s
}

// nextLineOvershoot returns by how much a line following a line ending at
// target would extend below the text area, if it starts with b.
func (e *engine) nextLineOvershoot(target *state, b *glyphBox) float32 {
	top, forced, isForced := e.nextLine(target, false)
	baseline := top + b.ascender
	if isForced {
		baseline = forced
	}
	return baseline - b.descender - e.height
}

// wrapIntoOverflow handles a line break whose next line would not fit.
func (e *engine) wrapIntoOverflow(s *state, target checkpoint) action {
	switch e.t.Overflow {
	case Truncate:
		e.truncate(s, target.s, textinfo.TruncateEvent)
		return rewound
	case Linked:
		e.truncate(s, target.s, textinfo.LinkedEvent)
		return rewound
	case Ellipsis:
		return e.ellipsis(s)
	case Page:
		e.rewind(s, target.s)
		e.convertSoftHyphen(s)
		e.breakLine(s, false)
		e.newPage(s)
		return rewound
	}
	e.rewind(s, target.s)
	e.convertSoftHyphen(s)
	e.breakLine(s, false)
	return rewound
}

// verticalOverflow handles a character which makes the current line
// extend below the text area by over. Auto-sizing shrinks the text in
// every overflow mode.
func (e *engine) verticalOverflow(s *state, over float32) action {
	if e.as.canShrink() {
		e.as.shrink(true, over, s.lineNumber+1, e.em(s))
		return restart
	}
	switch e.t.Overflow {
	case Truncate:
		e.truncate(s, *s, textinfo.TruncateEvent)
		return rewound
	case Linked:
		e.truncate(s, *s, textinfo.LinkedEvent)
		return rewound
	case Ellipsis:
		return e.ellipsis(s)
	case Page:
		if s.firstCharOfLine > s.firstCharOfPage && e.lineStart.valid &&
			e.lineStart.s.lineNumber == s.lineNumber && e.lineStart.s.pageNumber == s.pageNumber {
			e.rewind(s, e.lineStart.s)
			e.newPage(s)
			return rewound
		}
		e.truncate(s, *s, textinfo.TruncateEvent)
		return rewound
	}
	return proceed
}

// truncate ends the text at cut with an end-of-text character.
func (e *engine) truncate(s *state, cut state, kind textinfo.OverflowKind) {
	e.rewind(s, cut)
	e.subst.etxAt = s.cursor
	e.subst.kind = kind
}

// ellipsis replaces the character at the last position an ellipsis fits.
// If there is no such position, all output is dropped.
func (e *engine) ellipsis(s *state) action {
	if !e.candidates.Empty() {
		v, _ := e.candidates.Pop()
		e.rewind(s, v.(state))
		e.subst.at = s.cursor
		e.subst.kind = textinfo.EllipsisEvent
		return rewound
	}
	tracer().Infof("no room for an ellipsis, text cleared")
	e.rewind(s, e.initial)
	e.ti.Overflows = append(e.ti.Overflows[:0], textinfo.OverflowEvent{
		Kind:           textinfo.ClearedEvent,
		CharacterIndex: -1,
	})
	s.eventCount = 1
	e.stopped = true
	return rewound
}

// saveEllipsisCandidate remembers the current position if an ellipsis
// would fit there.
func (e *engine) saveEllipsisCandidate(s *state) {
	res := e.special(e.t.Settings.EllipsisCharacter, s.font.peek())
	if !res.IsValid() {
		return
	}
	b := e.measure(s, e.t.Settings.EllipsisCharacter, res, false)
	e.setAdvance(s, &b, font.ValueRecord{}, false)
	if e.extent(s.xAdvance, b.advance) > e.lineWidth(s)+dimen.Epsilon {
		return
	}
	asc := math32.Max(s.maxAscender, b.ascender)
	desc := math32.Min(s.maxDescender, b.descender)
	if e.baseline(s, asc)-desc > e.height+dimen.Epsilon {
		return
	}
	e.candidates.Push(*s)
}

// injectETX places an end-of-text character and stops the pass.
func (e *engine) injectETX(s *state) {
	res := e.special(glyphing.ETX, s.font.peek())
	source := len(e.t.text)
	if s.cursor < len(e.items) {
		source = e.items[s.cursor].Index
	}
	rec := e.record(s)
	*rec = textinfo.CharacterRecord{
		Unicode:       glyphing.ETX,
		Kind:          res.Element.Kind,
		Element:       res.Element,
		Font:          s.font.peek(),
		MaterialIndex: -1,
		Index:         source,
		PointSize:     s.size.peek(),
		Origin:        s.xAdvance,
		XAdvance:      s.xAdvance,
		LineNumber:    s.lineNumber,
		PageNumber:    s.pageNumber,
		Color:         s.color.peek(),
		IsInjected:    true,
	}
	kind := e.subst.kind
	e.ti.Overflows = append(e.ti.Overflows[:s.eventCount], textinfo.OverflowEvent{
		Kind:           kind,
		CharacterIndex: s.charCount,
		SourceIndex:    source,
		Unicode:        glyphing.ETX,
	})
	s.eventCount++
	if kind == textinfo.LinkedEvent {
		e.linkCut = s.charCount
	}
	s.charCount++
	e.stopped = true
	tracer().Debugf("text ends at character %d (%s)", s.charCount-1, e.t.Overflow)
}

// rewind restores a checkpoint. Ellipsis candidates ahead of it are
// dropped.
func (e *engine) rewind(s *state, to state) {
	*s = to
	for !e.candidates.Empty() {
		v, _ := e.candidates.Peek()
		if v.(state).cursor < s.cursor {
			break
		}
		e.candidates.Pop()
	}
	e.backtracks++
	if e.backtracks > e.backtrackLimit {
		tracer().Errorf("layout does not terminate after %d backtracks, stopped", e.backtracks)
		e.stopped = true
		e.exhausted = true
	}
}
