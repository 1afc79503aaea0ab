package layout

import (
	"image/color"
	"unicode"

	"github.com/chewxy/math32"
	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/textmesh/core/dimen"
	"github.com/npillmayer/textmesh/core/font"
	"github.com/npillmayer/textmesh/engine/glyphing"
	"github.com/npillmayer/textmesh/engine/linebreak"
	"github.com/npillmayer/textmesh/engine/markup"
	"github.com/npillmayer/textmesh/engine/textinfo"
)

// smallCapsScale is the size of small capitals relative to the font size.
const smallCapsScale = 0.8

// A layout pass gives up after backtracksPerItem rewinds per item of the
// processing array, plus backtracksMin.
var backtracksPerItem, backtracksMin = 5, 100

// engine lays out the processing array of a text. One engine serves all
// auto-size passes of a call to GenerateTextMesh.
type engine struct {
	t              *Text
	ti             *textinfo.TextInfo
	items          []item
	rs             *glyphing.Resolver
	rules          *linebreak.Rules
	as             *autoSizer
	rtl            bool
	width, height  float32 // text area inside the margins
	glyphCount     int
	initial        state
	wordWrap       checkpoint
	softBreak      checkpoint
	lineStart      checkpoint
	candidates     *arraystack.Stack // ellipsis positions, of type state
	subst          substitution
	backtracks     int
	backtrackLimit int
	exhausted      bool // backtrack limit reached in the last pass
	stopped        bool
	linkCut        int // first character flowing into a linked text, or -1
	final          state
	specials       map[specialKey]glyphing.Result
	quadCounts     []int // per material reference
}

// substitution describes characters injected by overflow handling.
type substitution struct {
	at    int // item replaced by an ellipsis, or -1
	etxAt int // item before which end-of-text is injected, or -1
	kind  textinfo.OverflowKind
}

type specialKey struct {
	r rune
	f *font.FontAsset
}

// action tells the layout loop how to continue after an overflow check.
type action uint8

const (
	proceed action = iota // go on placing the character
	rewound               // state has been replaced, continue the loop
	restart               // re-run the pass with new auto-size parameters
)

func newEngine(t *Text, elems []markup.Element) *engine {
	rs := glyphing.NewResolver(t.Registry, t.Settings)
	e := &engine{
		t:          t,
		ti:         t.info,
		rs:         rs,
		rules:      linebreak.NewRules(t.Settings),
		candidates: arraystack.New(),
		specials:   make(map[specialKey]glyphing.Result),
		linkCut:    -1,
	}
	e.items = prepare(t, elems, rs)
	for i := range e.items {
		if e.items[i].isGlyph() {
			e.glyphCount++
		}
	}
	switch t.Direction {
	case glyphing.RightToLeft:
		e.rtl = true
	case glyphing.AutoDirection:
		e.rtl = glyphing.DirectionOf([]rune(markup.Text(elems))) == glyphing.RightToLeft
	}
	e.width = math32.Max(t.Rect.Width()-t.Margins.Left-t.Margins.Right, 0)
	e.height = math32.Max(t.Rect.Height()-t.Margins.Top-t.Margins.Bottom, 0)
	e.backtrackLimit = backtracksPerItem*len(e.items) + backtracksMin
	return e
}

// run executes one layout pass. It returns true if auto-sizing requests
// another pass.
func (e *engine) run(as *autoSizer) bool {
	e.as = as
	e.beginPass()
	s := e.initial
	for !e.stopped {
		if s.cursor == e.subst.etxAt {
			e.injectETX(&s)
			break
		}
		if s.cursor >= len(e.items) {
			break
		}
		it := &e.items[s.cursor]
		switch it.Kind {
		case markup.TagElement:
			e.applyTag(&s, it.Tag)
			s.cursor++
			continue
		case markup.ConsumedElement:
			s.cursor++
			continue
		}
		if e.place(&s, it) == restart {
			tracer().Debugf("layout pass at size %.2f overflows, retrying", as.fontSize)
			return true
		}
	}
	e.endPass(&s)
	return false
}

func (e *engine) beginPass() {
	e.ti.Clear()
	e.ti.ReserveCharacters(e.glyphCount+2, e.t.Settings.BufferAutoSizeReduction)
	e.wordWrap.valid, e.softBreak.valid = false, false
	e.candidates.Clear()
	e.subst = substitution{at: -1, etxAt: -1}
	e.backtracks = 0
	e.exhausted = false
	e.stopped = false
	e.linkCut = -1
	e.initial = e.initialState()
	e.lineStart.save(&e.initial)
}

func (e *engine) initialState() state {
	t := e.t
	s := state{
		isFirstWord: true,
		font:        newStack(t.Font),
		size:        newStack(e.as.fontSize),
		weight:      newStack(t.FontWeight),
		color:       newStack(t.Color),
		highlight:   newStack(defaultHighlight),
		underline:   newStack(t.Color),
		strike:      newStack(t.Color),
		align:       newStack(t.Alignment.H),
		indent:      newStack[float32](0),
		lineIndent:  newStack[float32](0),
		marginLeft:  newStack[float32](0),
		marginRight: newStack[float32](0),
		cspace:      newStack[float32](0),
		mspace:      newStack[float32](0),
		voffset:     newStack[float32](0),
		lineHeight:  newStack[float32](0),
		width:       newStack[float32](0),
		rotate:      newStack[float32](0),
		scripts:     newStack(script{scale: 1}),
		links:       newStack(-1),
	}
	s.resetLineMetrics()
	return s
}

// defaultHighlight is the color of <mark> without a value.
var defaultHighlight = color.RGBA{R: 255, G: 255, A: 64}

func (e *engine) endPass(s *state) {
	if !s.lineIsEmpty() {
		e.closeLine(s, true)
		s.lineNumber++
	}
	for l := s.links; !l.isEmpty(); l = l.pop() {
		if i := l.peek(); i >= 0 {
			e.ti.Links[i].CharacterCount = s.charCount - e.ti.Links[i].FirstCharacterIndex
		}
	}
	e.ti.CharacterCount = s.charCount
	e.ti.LineCount = s.lineNumber
	e.ti.LinkCount = s.linkCount
	e.ti.Overflows = e.ti.Overflows[:s.eventCount]
	e.final = *s
}

// --- Placing glyphs --------------------------------------------------------

// glyphBox is a text element measured for the current state.
type glyphBox struct {
	unicode         rune
	elem            font.TextElement
	font            *font.FontAsset // asset providing vertical metrics
	size            float32         // point size
	scale           float32         // glyph units to layout units
	em              float32         // 1/100 em in layout units
	ascender        float32         // relative to the line's baseline
	descender       float32
	shift           float32 // baseline shift of scripts and voffset
	xPlace, yPlace  float32 // glyph placement, in glyph units
	xOffset         float32 // glyph offset inside a monospace cell
	advance         float32
	style           textinfo.Style
	syntheticBold   bool
	syntheticItalic bool
	isMark          bool
	attached        bool // mark positioned by an attachment
}

func (e *engine) measure(s *state, r rune, res glyphing.Result, smallCaps bool) glyphBox {
	cur := s.font.peek()
	sc := s.scripts.peek()
	b := glyphBox{unicode: r, elem: res.Element, style: s.flags(e.t.Style)}
	b.size = s.size.peek() * sc.scale
	if smallCaps {
		b.size *= smallCapsScale
	}
	b.em = e.em(s)
	b.shift = sc.offset + s.voffset.peek()
	g := b.elem.Glyph
	if b.elem.Kind == font.SpriteElement {
		b.font = cur
		fs := cur.Scale(b.size)
		b.ascender, b.descender = cur.Face.AscentLine*fs, cur.Face.DescentLine*fs
		sa := b.elem.Sprite
		switch {
		case sa.Face.PointSize > 0:
			b.scale = b.size / sa.Face.PointSize * sa.Face.Scale
		case g.Metrics.Height > 0:
			b.scale = b.ascender / g.Metrics.Height
		}
		b.scale *= g.Scale * b.elem.Scale
		b.ascender = math32.Max(b.ascender, g.Metrics.HorizontalBearingY*b.scale)
		b.descender = math32.Min(b.descender, (g.Metrics.HorizontalBearingY-g.Metrics.Height)*b.scale)
	} else {
		b.font = b.elem.Font
		fs := b.font.Scale(b.size)
		b.scale = fs * g.Scale * b.elem.Scale
		b.ascender, b.descender = b.font.Face.AscentLine*fs, b.font.Face.DescentLine*fs
		bold := b.style.Has(textinfo.Bold) || s.weight.peek() >= font.Bold
		b.syntheticBold = bold && !res.IsAlternativeTypeface
		b.syntheticItalic = b.style.Has(textinfo.Italic) && !res.IsAlternativeTypeface
		b.isMark = unicode.In(r, unicode.Mn, unicode.Me)
	}
	b.ascender += b.shift
	b.descender += b.shift
	return b
}

// em returns 1/100 em of the current font size.
func (e *engine) em(s *state) float32 {
	em := s.size.peek() * 0.01
	if !e.t.Orthographic {
		em *= 0.1
	}
	return em
}

// setAdvance computes the pen advance of a measured glyph.
func (e *engine) setAdvance(s *state, b *glyphBox, kern font.ValueRecord, ignoreSpacing bool) {
	m := b.elem.Glyph.Metrics
	switch {
	case b.isMark && (b.attached || m.HorizontalAdvance == 0):
		b.advance = 0
		return
	case b.unicode == '\t':
		tab := b.font.Face.TabWidth * float32(b.font.TabMultiple) * b.font.Scale(b.size)
		if tab <= 0 {
			b.advance = m.HorizontalAdvance * b.scale
			return
		}
		pos := math32.Abs(s.xAdvance)
		b.advance = (math32.Floor(pos/tab+dimen.Epsilon)+1)*tab - pos
		return
	case b.unicode == linebreak.SoftHyphen || font.IsSynthesized(b.elem.Glyph):
		b.advance = 0
		return
	}
	spacing := e.t.CharacterSpacing
	if ignoreSpacing {
		spacing = 0
	}
	var normal, bold float32
	if b.elem.Kind == font.CharacterElement {
		normal = b.font.NormalSpacingOffset
		if b.syntheticBold {
			bold = b.font.BoldSpacing
		}
	}
	if ms := s.mspace.peek(); ms != 0 {
		b.xOffset = (ms - m.HorizontalAdvance*b.scale) / 2
		b.advance = ms + (normal+spacing)*b.em + s.cspace.peek()
	} else {
		b.advance = (m.HorizontalAdvance+kern.XAdvance)*b.scale + (normal+spacing+bold)*b.em +
			s.cspace.peek()
	}
	if linebreak.IsWhitespace(b.unicode) {
		b.advance += e.t.WordSpacing * b.em
	}
	b.advance *= 1 - e.as.charWidthAdj
}

// place lays out the character at the cursor. It returns restart if
// auto-sizing requests a new pass.
func (e *engine) place(s *state, it *item) action {
	r, res, injected := it.Unicode, it.res, false
	if s.cursor == e.subst.at {
		r = e.t.Settings.EllipsisCharacter
		res = e.special(r, s.font.peek())
		injected = true
	}
	if !res.IsValid() {
		tracer().Errorf("no glyph for U+%04X at %d", r, it.Index)
		s.cursor++
		return proceed
	}
	if s.charCount < e.t.FirstVisibleCharacter && !injected {
		e.placeHidden(s, it, r, res)
		return proceed
	}
	b := e.measure(s, r, res, it.smallCaps)
	kern, ignoreSpacing := e.kerning(s, &b)
	b.xPlace, b.yPlace = kern.XPlacement, kern.YPlacement
	pen := s.xAdvance
	if b.isMark {
		if x, y, ok := e.attachMark(s, &b); ok {
			b.xPlace, b.yPlace, b.attached = x, y, true
		}
	}
	e.setAdvance(s, &b, kern, ignoreSpacing)
	if e.rtl {
		pen -= b.advance
	}
	if e.t.Overflow == Ellipsis && !injected && !linebreak.IsWhitespace(r) {
		e.saveEllipsisCandidate(s)
	}
	if needsWidthCheck(&b) && e.extent(s.xAdvance, b.advance) > e.lineWidth(s)+dimen.Epsilon {
		if a := e.horizontalOverflow(s, &b); a != proceed {
			return a
		}
	}
	if !e.t.Overflow.ignoresBounds() || e.as.canShrink() {
		asc := math32.Max(s.maxAscender, b.ascender)
		desc := math32.Min(s.maxDescender, b.descender)
		if over := e.baseline(s, asc) - desc - e.height; over > dimen.Epsilon {
			if a := e.verticalOverflow(s, over); a != proceed {
				return a
			}
		}
	}
	e.commit(s, it, &b, pen, injected)
	s.maxAscender = math32.Max(s.maxAscender, b.ascender)
	s.maxDescender = math32.Min(s.maxDescender, b.descender)
	if e.rtl {
		s.xAdvance = pen
	} else {
		s.xAdvance = pen + b.advance
	}
	s.charCount++
	s.cursor++
	if injected {
		e.ti.Overflows = append(e.ti.Overflows[:s.eventCount], textinfo.OverflowEvent{
			Kind:           e.subst.kind,
			CharacterIndex: s.charCount - 1,
			SourceIndex:    it.Index,
			Unicode:        r,
		})
		s.eventCount++
		e.subst.etxAt = s.cursor
		return proceed
	}
	if linebreak.IsHardBreak(r) {
		e.breakLine(s, linebreak.EndsParagraph(r))
		return proceed
	}
	e.markBreaks(s, r)
	return proceed
}

// needsWidthCheck is false for characters which may hang into the margin.
func needsWidthCheck(b *glyphBox) bool {
	return b.advance > 0 && !linebreak.IsWhitespace(b.unicode) && !linebreak.IsControl(b.unicode) &&
		!linebreak.IsHardBreak(b.unicode)
}

// extent returns the distance from the line start after advancing the pen
// at x by adv.
func (e *engine) extent(x, adv float32) float32 {
	if e.rtl {
		return adv - x
	}
	return x + adv
}

// placeHidden creates an invisible zero-width record for characters in
// front of the first visible character of a linked text.
func (e *engine) placeHidden(s *state, it *item, r rune, res glyphing.Result) {
	rec := e.record(s)
	*rec = textinfo.CharacterRecord{
		Unicode:       r,
		Kind:          res.Element.Kind,
		Element:       res.Element,
		Font:          s.font.peek(),
		MaterialIndex: -1,
		Index:         it.Index,
		Length:        it.Length,
		PointSize:     s.size.peek(),
		Origin:        s.xAdvance,
		XAdvance:      s.xAdvance,
		LineNumber:    s.lineNumber,
		PageNumber:    s.pageNumber,
	}
	s.charCount++
	s.cursor++
	s.firstCharOfLine = s.charCount
	s.firstCharOfPage = s.charCount
}

// record returns the record for the next character.
func (e *engine) record(s *state) *textinfo.CharacterRecord {
	if s.charCount >= len(e.ti.Characters) {
		e.ti.ReserveCharacters(s.charCount+1, false)
	}
	return &e.ti.Characters[s.charCount]
}

func (e *engine) commit(s *state, it *item, b *glyphBox, pen float32, injected bool) {
	if !s.hasLineAlign {
		s.lineAlign, s.hasLineAlign = s.align.peek(), true
	}
	rec := e.record(s)
	*rec = textinfo.CharacterRecord{
		Unicode:            b.unicode,
		Kind:               b.elem.Kind,
		Element:            b.elem,
		Font:               b.font,
		MaterialIndex:      -1,
		Index:              it.Index,
		Length:             it.Length,
		PointSize:          b.size,
		Scale:              b.scale,
		Origin:             pen + b.xOffset + b.xPlace*b.scale,
		Advance:            b.advance,
		Ascender:           b.ascender,
		Descender:          b.descender,
		Baseline:           b.shift + b.yPlace*b.scale,
		LineNumber:         s.lineNumber,
		PageNumber:         s.pageNumber,
		Style:              b.style,
		Color:              e.vertexColor(s, it, b),
		HighlightColor:     s.highlight.peek(),
		UnderlineColor:     s.underline.peek(),
		StrikethroughColor: s.strike.peek(),
		IsVisible:          hasQuad(b),
		IsInjected:         injected,
		IsSyntheticBold:    b.syntheticBold,
	}
	if injected {
		rec.Length = 0
	}
	if e.rtl {
		rec.XAdvance = pen
	} else {
		rec.XAdvance = pen + b.advance
	}
	rec.SetQuad(e.quad(b, pen, s.rotate.peek()))
}

// hasQuad is true for glyphs which produce a visible quad.
func hasQuad(b *glyphBox) bool {
	m := b.elem.Glyph.Metrics
	return m.Width > 0 && m.Height > 0 && !linebreak.IsWhitespace(b.unicode) &&
		!linebreak.IsControl(b.unicode) && !linebreak.IsHardBreak(b.unicode) &&
		b.unicode != linebreak.SoftHyphen
}

func (e *engine) vertexColor(s *state, it *item, b *glyphBox) color.RGBA {
	c := s.color.peek()
	if b.elem.Kind != font.SpriteElement || it.Tag == nil {
		return c
	}
	if _, ok := it.Tag.Attr("color"); ok {
		return it.Tag.Color
	}
	if tint, _ := it.Tag.Attr("tint"); tint == "1" {
		return c
	}
	return color.RGBA{R: 255, G: 255, B: 255, A: c.A}
}

// quad computes the corners of a glyph quad, relative to the line's
// baseline.
func (e *engine) quad(b *glyphBox, pen, rotation float32) [4]dimen.Vec3 {
	m := b.elem.Glyph.Metrics
	pad := e.padding(b.elem) + stylePadding(b)
	x := pen + b.xOffset + (m.HorizontalBearingX+b.xPlace-pad)*b.scale
	top := b.shift + (m.HorizontalBearingY+b.yPlace+pad)*b.scale
	w := (m.Width + 2*pad) * b.scale
	h := (m.Height + 2*pad) * b.scale
	q := [4]dimen.Vec3{dimen.V3(x, top-h), dimen.V3(x, top), dimen.V3(x+w, top), dimen.V3(x+w, top-h)}
	if b.syntheticItalic && b.font != nil {
		shear := float32(b.font.ItalicStyle) * 0.01
		topShear := shear * (m.HorizontalBearingY + pad) * b.scale
		bottomShear := shear * (m.HorizontalBearingY - m.Height - pad) * b.scale
		q[0].X += bottomShear
		q[1].X += topShear
		q[2].X += topShear
		q[3].X += bottomShear
	}
	if rotation != 0 {
		center := dimen.V3((q[0].X+q[2].X)/2, (q[0].Y+q[2].Y)/2)
		for i := range q {
			q[i] = q[i].Rotate(center, rotation)
		}
	}
	return q
}

// padding returns the atlas padding around glyphs, in glyph units.
func (e *engine) padding(el font.TextElement) float32 {
	var pad float32
	if atlas := el.Atlas(); atlas.Mode == font.SDF {
		pad = atlas.Padding
	}
	if e.t.ExtraPadding {
		pad++
	}
	return pad
}

// stylePadding is the extra padding SDF shaders need for the weight of
// a glyph.
func stylePadding(b *glyphBox) float32 {
	if b.elem.Kind != font.CharacterElement || b.font == nil {
		return 0
	}
	gs := b.font.Atlas.GradientScale()
	if gs == 0 {
		return 0
	}
	if b.syntheticBold {
		return b.font.BoldStyle / 4 * gs
	}
	return b.font.NormalStyle / 4 * gs
}

// kerning looks up pair adjustments with the neighbours of a glyph.
func (e *engine) kerning(s *state, b *glyphBox) (adj font.ValueRecord, ignoreSpacing bool) {
	if !e.t.Kerning || b.elem.Kind != font.CharacterElement || b.isMark {
		return
	}
	ft, g := b.elem.Font.Features, b.elem.Glyph.Index
	if next := e.nextGlyphItem(s.cursor + 1); next != nil && e.sameFont(next.res.Element, b.elem) {
		if p, ok := ft.Pair(g, next.res.Element.Glyph.Index); ok {
			adj = addValues(adj, p.FirstAdjust)
			ignoreSpacing = p.IgnoreSpacing
		}
	}
	if !s.lineIsEmpty() {
		prev := &e.ti.Characters[s.charCount-1]
		if e.sameFont(prev.Element, b.elem) && !prev.IsInjected {
			if p, ok := ft.Pair(prev.Element.Glyph.Index, g); ok {
				adj = addValues(adj, p.SecondAdjust)
				ignoreSpacing = ignoreSpacing || p.IgnoreSpacing
			}
		}
	}
	return
}

func (e *engine) sameFont(a, b font.TextElement) bool {
	return a.Kind == font.CharacterElement && b.Kind == font.CharacterElement &&
		a.Font == b.Font && a.Glyph != nil && b.Glyph != nil
}

func addValues(a, b font.ValueRecord) font.ValueRecord {
	return font.ValueRecord{
		XPlacement: a.XPlacement + b.XPlacement,
		YPlacement: a.YPlacement + b.YPlacement,
		XAdvance:   a.XAdvance + b.XAdvance,
		YAdvance:   a.YAdvance + b.YAdvance,
	}
}

// nextGlyphItem returns the first item at or after index i producing a
// character record, or nil.
func (e *engine) nextGlyphItem(i int) *item {
	for ; i < len(e.items); i++ {
		switch e.items[i].Kind {
		case markup.TextElement, markup.SpriteElement:
			return &e.items[i]
		case markup.TagElement:
			if e.items[i].Tag.ID == markup.TagPage {
				return nil
			}
		}
	}
	return nil
}

// attachMark positions a combining mark on the preceding mark or base
// glyph. It returns the mark's placement in glyph units.
func (e *engine) attachMark(s *state, b *glyphBox) (x, y float32, ok bool) {
	if s.lineIsEmpty() || b.scale == 0 {
		return
	}
	ft, g := b.elem.Font.Features, b.elem.Glyph.Index
	prev := &e.ti.Characters[s.charCount-1]
	var base *textinfo.CharacterRecord
	var m font.MarkAttachment
	if unicode.In(prev.Unicode, unicode.Mn, unicode.Me) && e.sameFont(prev.Element, b.elem) {
		if m, ok = ft.MarkToMarkFor(g, prev.Element.Glyph.Index); ok {
			base = prev
		}
	}
	if base == nil {
		j := s.charCount - 1
		for j > s.firstCharOfLine && unicode.In(e.ti.Characters[j].Unicode, unicode.Mn, unicode.Me) {
			j--
		}
		cand := &e.ti.Characters[j]
		if !e.sameFont(cand.Element, b.elem) {
			return 0, 0, false
		}
		if m, ok = ft.MarkToBaseFor(g, cand.Element.Glyph.Index); !ok {
			return 0, 0, false
		}
		base = cand
	}
	x = (base.Origin-s.xAdvance)/b.scale + m.BaseAnchor.X - m.MarkAdjust.XPlacement
	y = (base.Baseline-b.shift)/b.scale + m.BaseAnchor.Y - m.MarkAdjust.YPlacement
	return x, y, true
}

// special resolves a character injected by the engine (end-of-text,
// ellipsis, hyphen) in the current font.
func (e *engine) special(r rune, f *font.FontAsset) glyphing.Result {
	k := specialKey{r: r, f: f}
	if res, ok := e.specials[k]; ok {
		return res
	}
	res := e.rs.Resolve(glyphing.Request{Unicode: r, Font: f})
	e.specials[k] = res
	return res
}

// --- Break opportunities ---------------------------------------------------

// markBreaks saves checkpoints after the character just placed, if a line
// may be broken after it. Inside the first word of a line every position
// is a checkpoint, to break over-long words.
func (e *engine) markBreaks(s *state, r rune) {
	var prev, next rune
	if s.charCount-2 >= s.firstCharOfLine {
		prev = e.ti.Characters[s.charCount-2].Unicode
	}
	if n := e.nextGlyphItem(s.cursor); n != nil {
		next = n.Unicode
	}
	op := e.rules.After(prev, r, next)
	if op == linebreak.SoftBreak && !e.hyphenFits(s) {
		op = linebreak.NoBreak
	}
	if op != linebreak.NoBreak && s.noBreak == 0 {
		s.isFirstWord = false
		e.wordWrap.save(s)
		if op.IsSoft() {
			e.softBreak.save(s)
		}
		return
	}
	if s.isFirstWord {
		e.wordWrap.save(s)
		if linebreak.IsWhitespace(r) || r == linebreak.SoftHyphen {
			e.softBreak.save(s)
		}
	}
}

func (e *engine) hyphenFits(s *state) bool {
	res := e.special('-', s.font.peek())
	if !res.IsValid() {
		return false
	}
	b := e.measure(s, '-', res, false)
	e.setAdvance(s, &b, font.ValueRecord{}, false)
	return e.extent(s.xAdvance, b.advance) <= e.lineWidth(s)+dimen.Epsilon
}

// convertSoftHyphen renders a soft hyphen ending a line as a hyphen.
func (e *engine) convertSoftHyphen(s *state) {
	if s.lineIsEmpty() {
		return
	}
	rec := &e.ti.Characters[s.charCount-1]
	if rec.Unicode != linebreak.SoftHyphen {
		return
	}
	res := e.special('-', s.font.peek())
	if !res.IsValid() {
		return
	}
	b := e.measure(s, '-', res, false)
	e.setAdvance(s, &b, font.ValueRecord{}, false)
	pen := s.xAdvance
	if e.rtl {
		pen -= b.advance
	}
	rec.Unicode = '-'
	rec.Element = b.elem
	rec.Scale = b.scale
	rec.Origin = pen + b.xOffset
	rec.Advance = b.advance
	rec.IsVisible = hasQuad(&b)
	rec.SetQuad(e.quad(&b, pen, s.rotate.peek()))
	if e.rtl {
		s.xAdvance = pen
	} else {
		s.xAdvance = pen + b.advance
	}
	rec.XAdvance = s.xAdvance
}

// --- Lines and pages -------------------------------------------------------

// lineWidth is the width available for the current line.
func (e *engine) lineWidth(s *state) float32 {
	w := s.width.peek()
	if w <= 0 || w > e.width {
		w = e.width
	}
	return w - s.marginLeft.peek() - s.marginRight.peek()
}

// lineExtremes returns ascender and descender of the current line. Empty
// lines get the metrics of the current font.
func (e *engine) lineExtremes(s *state) (asc, desc float32) {
	asc, desc = s.maxAscender, s.maxDescender
	if asc == dimen.LargeNegative {
		f := s.font.peek()
		fs := f.Scale(s.size.peek())
		asc, desc = f.Face.AscentLine*fs, f.Face.DescentLine*fs
	}
	return
}

// baseline returns the depth of the current line's baseline below the
// page top, for a line ascender asc.
func (e *engine) baseline(s *state, asc float32) float32 {
	if s.hasForcedBase {
		return s.forcedBaseline
	}
	if asc == dimen.LargeNegative {
		asc, _ = e.lineExtremes(s)
	}
	return s.lineTop + asc
}

// nextLine computes where a line following the current one starts.
func (e *engine) nextLine(s *state, paragraph bool) (top, forced float32, isForced bool) {
	asc, desc := e.lineExtremes(s)
	baseline := e.baseline(s, asc)
	em := e.em(s)
	spacing := (e.t.LineSpacing + e.as.lineSpacingDelta) * em
	if paragraph {
		spacing += e.t.ParagraphSpacing * em
	}
	if lh := s.lineHeight.peek(); lh > 0 {
		forced = baseline + lh + spacing
		return forced, forced, true
	}
	f := s.font.peek()
	return baseline - desc + f.Face.LineGap()*f.Scale(s.size.peek()) + spacing, 0, false
}

// breakLine closes the current line and starts a new one.
func (e *engine) breakLine(s *state, paragraph bool) {
	e.closeLine(s, paragraph)
	s.lineTop, s.forcedBaseline, s.hasForcedBase = e.nextLine(s, paragraph)
	s.lineNumber++
	s.firstCharOfLine = s.charCount
	indent := s.indent.peek()
	if paragraph {
		indent += s.lineIndent.peek()
	}
	if e.rtl {
		indent = -indent
	}
	s.xAdvance = indent
	s.resetLineMetrics()
	s.isFirstWord = true
	s.hasLineAlign = false
	e.wordWrap.valid, e.softBreak.valid = false, false
	e.lineStart.save(s)
}

// newPage moves the current, empty line to the top of a new page.
func (e *engine) newPage(s *state) {
	s.pageNumber++
	s.firstCharOfPage = s.charCount
	s.lineTop = 0
	s.hasForcedBase = false
	e.lineStart.save(s)
	tracer().Debugf("page %d starts at character %d", s.pageNumber+1, s.charCount)
}

func (e *engine) closeLine(s *state, paragraph bool) {
	e.ti.ReserveLines(s.lineNumber + 1)
	asc, desc := e.lineExtremes(s)
	align := s.align.peek()
	if s.hasLineAlign {
		align = s.lineAlign
	}
	e.ti.Lines[s.lineNumber] = textinfo.LineRecord{
		FirstCharacterIndex:        s.firstCharOfLine,
		FirstVisibleCharacterIndex: -1,
		LastCharacterIndex:         s.charCount - 1,
		LastVisibleCharacterIndex:  -1,
		CharacterCount:             s.charCount - s.firstCharOfLine,
		Width:                      e.lineWidth(s),
		Ascender:                   asc,
		Descender:                  desc,
		Baseline:                   e.baseline(s, asc),
		LineHeight:                 asc - desc,
		MarginLeft:                 s.marginLeft.peek(),
		MarginRight:                s.marginRight.peek(),
		Alignment:                  align,
		EndsParagraph:              paragraph,
	}
}
