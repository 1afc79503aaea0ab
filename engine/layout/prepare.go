package layout

import (
	"unicode/utf8"

	"github.com/npillmayer/textmesh/core/font"
	"github.com/npillmayer/textmesh/engine/glyphing"
	"github.com/npillmayer/textmesh/engine/markup"
	"github.com/npillmayer/textmesh/engine/textinfo"
	"golang.org/x/text/cases"
)

// item is an element of the processing array together with the text
// element it resolved to.
type item struct {
	markup.Element
	res       glyphing.Result
	smallCaps bool // lower case letter set in small capitals
}

// isGlyph is true for items which produce a character record.
func (it *item) isGlyph() bool {
	return it.Kind == markup.TextElement || it.Kind == markup.SpriteElement
}

type caseMode uint8

const (
	noCase caseMode = iota
	upperCase
	lowerCase
	smallCaps
)

// prepare resolves the characters and sprites of the processing array to
// text elements. Tags selecting fonts, weights, slant and letter case are
// tracked here, as they influence glyph selection; all other tags are
// interpreted by the layout loop.
func prepare(t *Text, elems []markup.Element, rs *glyphing.Resolver) []item {
	items := make([]item, len(elems))
	fonts := newStack(t.Font)
	weights := newStack(t.FontWeight)
	letterCase := newStack(caseOf(t.Style))
	var bold, italic int
	if t.Style.Has(textinfo.Bold) {
		bold++
	}
	if t.Style.Has(textinfo.Italic) {
		italic++
	}
	upper := cases.Upper(t.Settings.Language)
	lower := cases.Lower(t.Settings.Language)
	for i, el := range elems {
		it := &items[i]
		it.Element = el
		switch el.Kind {
		case markup.TagElement:
			tag := el.Tag
			switch tag.ID {
			case markup.TagBold:
				bold = count(bold, tag.Closing)
			case markup.TagItalic:
				italic = count(italic, tag.Closing)
			case markup.TagFont:
				if tag.Closing {
					fonts = fonts.pop()
				} else {
					fonts = fonts.push(lookupFont(t, tag.Value, fonts.peek()))
				}
			case markup.TagFontWeight:
				if tag.Closing {
					weights = weights.pop()
				} else {
					weights = weights.push(font.Weight(tag.Number.Number))
				}
			case markup.TagUppercase, markup.TagLowercase, markup.TagSmallCaps:
				if tag.Closing {
					letterCase = letterCase.pop()
				} else {
					letterCase = letterCase.push(caseOfTag(tag.ID))
				}
			}
		case markup.SpriteElement:
			it.res = resolveSprite(rs, el.Tag)
		case markup.TextElement:
			r := el.Unicode
			switch letterCase.peek() {
			case upperCase:
				r = mapRune(upper, r)
			case lowerCase:
				r = mapRune(lower, r)
			case smallCaps:
				if u := mapRune(upper, r); u != r {
					r, it.smallCaps = u, true
				}
			}
			it.Unicode = r
			weight := weights.peek()
			if bold > 0 && weight < font.Bold {
				weight = font.Bold
			}
			it.res = rs.Resolve(glyphing.Request{
				Unicode:      r,
				Font:         fonts.peek(),
				Italic:       italic > 0,
				Weight:       weight,
				Presentation: glyphing.PresentationOf(el.Variation),
			})
		}
	}
	if t.Ligatures {
		substituteLigatures(items)
	}
	return items
}

func count(n int, closing bool) int {
	if closing {
		if n > 0 {
			return n - 1
		}
		return 0
	}
	return n + 1
}

func caseOf(st textinfo.Style) caseMode {
	switch {
	case st.Has(textinfo.UpperCase):
		return upperCase
	case st.Has(textinfo.LowerCase):
		return lowerCase
	case st.Has(textinfo.SmallCaps):
		return smallCaps
	}
	return noCase
}

func caseOfTag(id markup.TagID) caseMode {
	switch id {
	case markup.TagUppercase:
		return upperCase
	case markup.TagLowercase:
		return lowerCase
	}
	return smallCaps
}

// mapRune applies a case mapping to a single code point. Mappings which
// produce more than one code point leave the code point unchanged.
func mapRune(c cases.Caser, r rune) rune {
	s := c.String(string(r))
	m, size := utf8.DecodeRuneInString(s)
	if m == utf8.RuneError || size != len(s) {
		return r
	}
	return m
}

// lookupFont finds a font asset by name in the text's registry. Unknown
// names keep the current font.
func lookupFont(t *Text, name string, current *font.FontAsset) *font.FontAsset {
	if t.Registry != nil {
		if f, ok := t.Registry.Asset(name); ok {
			return f
		}
	}
	if current != nil && font.NormalizeName(current.Name) == font.NormalizeName(name) {
		return current
	}
	tracer().Infof("font %q not found, tag ignored", name)
	return current
}

func resolveSprite(rs *glyphing.Resolver, tag *markup.Tag) glyphing.Result {
	if sa, ok := rs.SpriteAsset(tag.SpriteAsset()); ok {
		name, _ := tag.Attr("name")
		if el, ok := rs.ResolveSprite(sa, name, tag.SpriteIndex()); ok {
			return glyphing.Result{Element: el}
		}
	}
	tracer().Infof("sprite %q not found", tag.Value)
	return rs.Resolve(glyphing.Request{Unicode: glyphing.MissingBox})
}

// substituteLigatures replaces runs of characters by ligature glyphs of
// their font. The first item of a run receives the ligature and the
// source span of the run, the others are marked as consumed. Only as many
// items as the longest ligature of the first glyph are inspected.
func substituteLigatures(items []item) {
	var glyphs []uint32
	for i := 0; i < len(items); i++ {
		f := ligatureFont(&items[i])
		if f == nil {
			continue
		}
		n := f.Features.MaxLigatureLength(items[i].res.Element.Glyph.Index)
		if n < 2 {
			continue
		}
		glyphs = glyphs[:0]
		for j := i; j < len(items) && j < i+n && ligatureFont(&items[j]) == f; j++ {
			glyphs = append(glyphs, items[j].res.Element.Glyph.Index)
		}
		if len(glyphs) < 2 {
			continue
		}
		lig, ok := f.Features.MatchLigature(glyphs)
		if !ok {
			continue
		}
		g, ok := f.Glyph(lig.Glyph)
		if !ok {
			if g, ok = f.TryAddGlyph(lig.Glyph); !ok {
				continue
			}
		}
		last := i + len(lig.Components) - 1
		items[i].res.Element.Glyph = g
		items[i].Length = items[last].End() - items[i].Index
		for j := i + 1; j <= last; j++ {
			items[j].Kind = markup.ConsumedElement
			items[j].Unicode = markup.Consumed
		}
		tracer().Debugf("ligature glyph %d for %d characters at %d", lig.Glyph, len(lig.Components), items[i].Index)
		i = last
	}
}

// ligatureFont returns the font of a character item which may take part
// in a ligature, or nil.
func ligatureFont(it *item) *font.FontAsset {
	if it.Kind != markup.TextElement || it.res.Substitute != 0 || it.smallCaps {
		return nil
	}
	el := it.res.Element
	if el.Kind != font.CharacterElement || el.Font == nil || el.Glyph == nil || el.Font.Features == nil {
		return nil
	}
	return el.Font
}
