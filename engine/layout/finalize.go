package layout

import (
	"unicode"

	"github.com/chewxy/math32"
	"github.com/npillmayer/textmesh/core/dimen"
	"github.com/npillmayer/textmesh/engine/glyphing"
	"github.com/npillmayer/textmesh/engine/linebreak"
	"github.com/npillmayer/textmesh/engine/textinfo"
)

// finalize completes the text info after the last pass: line and word
// tables, alignment, visibility, meshes and decorations.
func (e *engine) finalize() {
	ti := e.ti
	ti.PointSize = e.as.fontSize
	e.collectLines()
	words := e.collectWords()
	e.collectPages()
	e.alignPages()
	gated := e.gate(words)
	e.buildMeshes()
	e.buildDecorations(gated)
	tracer().Debugf("layout: %d characters, %d words, %d lines, %d pages, %d materials",
		ti.CharacterCount, ti.WordCount, ti.LineCount, ti.PageCount, ti.Materials.Len())
}

// collectLines fills in the statistics of each line.
func (e *engine) collectLines() {
	ti := e.ti
	ti.SpaceCount = 0
	for l := 0; l < ti.LineCount; l++ {
		line := &ti.Lines[l]
		line.FirstVisibleCharacterIndex, line.LastVisibleCharacterIndex = -1, -1
		line.VisibleCharacterCount, line.SpaceCount, line.ControlCharacterCount = 0, 0, 0
		line.WordCount = 0
		for i := line.FirstCharacterIndex; i <= line.LastCharacterIndex; i++ {
			c := &ti.Characters[i]
			c.LineNumber = l
			switch {
			case linebreak.IsControl(c.Unicode) || linebreak.IsHardBreak(c.Unicode):
				line.ControlCharacterCount++
			case linebreak.IsWhitespace(c.Unicode):
				line.SpaceCount++
			}
			if c.IsVisible {
				line.VisibleCharacterCount++
				if line.FirstVisibleCharacterIndex < 0 {
					line.FirstVisibleCharacterIndex = i
				}
				line.LastVisibleCharacterIndex = i
			}
		}
		line.MaxAdvance = 0
		if v := line.LastVisibleCharacterIndex; v >= 0 {
			line.MaxAdvance = math32.Abs(ti.Characters[v].XAdvance)
		}
		ti.SpaceCount += line.SpaceCount
	}
}

// isWordCharacter is true for characters words consist of.
func isWordCharacter(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Me) ||
		r == '-' || r == linebreak.SoftHyphen || r == '\'' || r == '’'
}

// collectWords builds the word table. It returns the word index of each
// character, -1 for characters outside words.
func (e *engine) collectWords() []int {
	ti := e.ti
	n := ti.CharacterCount
	words := make([]int, n)
	ti.WordCount = 0
	inWord := false
	for i := 0; i < n; i++ {
		c := &ti.Characters[i]
		isWord := isWordCharacter(c.Unicode) && !c.IsInjected
		if inWord && (!isWord || c.LineNumber != ti.Characters[i-1].LineNumber) {
			inWord = false
		}
		if !isWord {
			words[i] = -1
			continue
		}
		if !inWord {
			ti.ReserveWords(ti.WordCount + 1)
			ti.Words[ti.WordCount] = textinfo.WordRecord{FirstCharacterIndex: i}
			if l := ti.LineOf(i); l >= 0 {
				ti.Lines[l].WordCount++
			}
			ti.WordCount++
			inWord = true
		}
		w := &ti.Words[ti.WordCount-1]
		w.LastCharacterIndex = i
		w.CharacterCount++
		words[i] = ti.WordCount - 1
	}
	return words
}

func (e *engine) collectPages() {
	ti := e.ti
	ti.PageCount = 0
	for l := 0; l < ti.LineCount; l++ {
		line := &ti.Lines[l]
		p := ti.Characters[line.FirstCharacterIndex].PageNumber
		for i := line.FirstCharacterIndex; i <= line.LastCharacterIndex; i++ {
			ti.Characters[i].PageNumber = p
		}
		if p >= ti.PageCount {
			ti.ReservePages(p + 1)
			for q := ti.PageCount; q <= p; q++ {
				ti.Pages[q] = textinfo.PageRecord{FirstCharacterIndex: line.FirstCharacterIndex}
			}
			ti.PageCount = p + 1
		}
		ti.Pages[p].LastCharacterIndex = line.LastCharacterIndex
	}
}

// alignPages moves lines from page-relative depths to their final
// position in the container, page by page.
func (e *engine) alignPages() {
	ti := e.ti
	ti.Bounds = dimen.EmptyExtents()
	for l := 0; l < ti.LineCount; {
		page := ti.Characters[ti.Lines[l].FirstCharacterIndex].PageNumber
		last := l
		for last+1 < ti.LineCount && ti.Characters[ti.Lines[last+1].FirstCharacterIndex].PageNumber == page {
			last++
		}
		oy := e.verticalOrigin(l, last)
		for k := l; k <= last; k++ {
			e.alignLine(k, oy)
		}
		p := &ti.Pages[page]
		p.Ascender = ti.Lines[l].Ascender
		p.Descender = ti.Lines[last].Descender
		l = last + 1
	}
}

// isETXLine is true for a line holding nothing but an end-of-text marker.
func (e *engine) isETXLine(l int) bool {
	line := &e.ti.Lines[l]
	return line.CharacterCount == 1 && e.ti.Characters[line.FirstCharacterIndex].Unicode == glyphing.ETX
}

// verticalOrigin returns the y coordinate page depths are measured from,
// for the page consisting of lines first…last.
func (e *engine) verticalOrigin(first, last int) float32 {
	t, ti := e.t, e.ti
	top := t.Rect.Max.Y - t.Margins.Top
	bottom := t.Rect.Min.Y + t.Margins.Bottom
	mid := (top + bottom) / 2
	if last > first && e.isETXLine(last) {
		last--
	}
	var depth float32
	for l := first; l <= last; l++ {
		line := &ti.Lines[l]
		depth = math32.Max(depth, line.Baseline-line.Descender)
	}
	firstLine := &ti.Lines[first]
	switch t.Alignment.V {
	case Middle:
		return mid + depth/2
	case Bottom:
		return bottom + depth
	case Baseline:
		return mid + firstLine.Baseline
	case VGeometry:
		ext := dimen.EmptyExtents()
		for l := first; l <= last; l++ {
			line := &ti.Lines[l]
			for i := line.FirstCharacterIndex; i <= line.LastCharacterIndex; i++ {
				if c := &ti.Characters[i]; c.IsVisible {
					for _, v := range c.Quad() {
						ext = ext.Include(dimen.Vec2{X: v.X, Y: v.Y - line.Baseline})
					}
				}
			}
		}
		if ext.IsEmpty() {
			return mid + depth/2
		}
		return mid - (ext.Min.Y+ext.Max.Y)/2
	case Capline:
		var capHeight float32
		if v := firstLine.FirstVisibleCharacterIndex; v >= 0 {
			c := &ti.Characters[v]
			capHeight = c.Font.Face.CapLine * c.Font.Scale(c.PointSize)
		}
		return mid + firstLine.Baseline - capHeight/2
	}
	return top
}

// alignLine moves the characters of line l to their final position. oy
// is the origin of the line's page.
func (e *engine) alignLine(l int, oy float32) {
	t, ti := e.t, e.ti
	line := &ti.Lines[l]
	left := t.Rect.Min.X + t.Margins.Left + line.MarginLeft
	avail := line.Width
	adv := line.MaxAdvance
	var dx float32
	justify := false
	switch line.Alignment {
	case textinfo.AlignCenter:
		dx = left + (avail-adv)/2
		if e.rtl {
			dx = left + (avail+adv)/2
		}
	case textinfo.AlignRight:
		dx = left + avail - adv
		if e.rtl {
			dx = left + avail
		}
	case textinfo.AlignGeometry:
		ext := dimen.EmptyExtents()
		for i := line.FirstCharacterIndex; i <= line.LastCharacterIndex; i++ {
			if c := &ti.Characters[i]; c.IsVisible {
				for _, v := range c.Quad() {
					ext = ext.Include(v.XY())
				}
			}
		}
		dx = left
		if !ext.IsEmpty() {
			dx = left + avail/2 - (ext.Min.X+ext.Max.X)/2
		}
	case textinfo.AlignJustified, textinfo.AlignFlush:
		justify = avail > adv && line.LastVisibleCharacterIndex > line.FirstVisibleCharacterIndex &&
			!(line.Alignment == textinfo.AlignJustified && line.EndsParagraph)
		fallthrough
	default:
		dx = left
		if e.rtl {
			dx = left + adv // the pen runs leftwards from 0
			if justify {
				dx = left + avail
			}
		}
	}
	var perChar, perSpace float32
	if justify {
		perChar, perSpace = e.justification(line)
	}
	baseY := oy - line.Baseline
	var cum float32
	line.Extents = dimen.EmptyExtents()
	for i := line.FirstCharacterIndex; i <= line.LastCharacterIndex; i++ {
		c := &ti.Characters[i]
		if justify && i > line.FirstVisibleCharacterIndex && i <= line.LastVisibleCharacterIndex {
			if linebreak.IsWhitespace(c.Unicode) {
				cum += perSpace
			} else {
				cum += perChar
			}
		}
		x := dx + e.directed(cum)
		shift := dimen.V3(x, baseY)
		q := c.Quad()
		for k := range q {
			q[k] = q[k].Add(shift)
		}
		c.SetQuad(q)
		c.Origin += x
		c.XAdvance += x
		c.Baseline += baseY
		c.Ascender += baseY
		c.Descender += baseY
		if c.IsVisible {
			for _, v := range q {
				line.Extents = line.Extents.Include(v.XY())
			}
		}
	}
	line.Ascender += baseY
	line.Descender += baseY
	line.Baseline = baseY
}

// justification distributes the gap of a line over characters and
// spaces between its first and last visible character. The share of
// characters is the word wrapping ratio.
func (e *engine) justification(line *textinfo.LineRecord) (perChar, perSpace float32) {
	var chars, spaces int
	for i := line.FirstVisibleCharacterIndex + 1; i <= line.LastVisibleCharacterIndex; i++ {
		if linebreak.IsWhitespace(e.ti.Characters[i].Unicode) {
			spaces++
		} else {
			chars++
		}
	}
	ratio := e.t.Settings.WordWrappingRatio
	if spaces == 0 {
		ratio = 1
	}
	if chars == 0 {
		ratio = 0
	}
	gap := line.Width - line.MaxAdvance
	if chars > 0 {
		perChar = gap * ratio / float32(chars)
	}
	if spaces > 0 {
		perSpace = gap * (1 - ratio) / float32(spaces)
	}
	return
}

// gate applies the visibility limits. It returns for each character if
// it passed the limits.
func (e *engine) gate(words []int) []bool {
	t, ti := e.t, e.ti
	n := ti.CharacterCount
	gated := make([]bool, n)
	page := t.PageToDisplay - 1
	if page >= ti.PageCount {
		page = ti.PageCount - 1
	}
	if page < 0 {
		page = 0
	}
	wordsSeen := 0
	for i := 0; i < n; i++ {
		c := &ti.Characters[i]
		inWords := wordsSeen < t.MaxVisibleWords
		if words[i] >= 0 {
			wordsSeen = words[i] + 1
			inWords = words[i] < t.MaxVisibleWords
		}
		ok := i < t.MaxVisibleCharacters && c.LineNumber < t.MaxVisibleLines &&
			i >= t.FirstVisibleCharacter && inWords &&
			(t.Overflow != Page || c.PageNumber == page)
		if c.Unicode == glyphing.ETX && c.IsInjected {
			ok = false
		}
		gated[i] = ok
		if !ok {
			c.IsVisible = false
		}
	}
	return gated
}
