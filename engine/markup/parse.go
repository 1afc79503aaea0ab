package markup

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/textmesh/core/dimen"
)

// ElementKind discriminates elements of the processing array.
type ElementKind uint8

// Kinds of processing array elements
const (
	TextElement ElementKind = iota
	TagElement
	SpriteElement
	ConsumedElement // merged into a preceding element, e.g. a ligature component
)

// Consumed is the code point of elements merged into a preceding element.
const Consumed rune = 0x1A

// Element is an entry of the processing array.
type Element struct {
	Unicode   rune
	Kind      ElementKind
	Index     int  // byte position of the source in the input string
	Length    int  // byte length of the source in the input string
	Tag       *Tag // for tag and sprite elements, and character tags
	Variation rune // variation selector following the character, or 0
}

// End returns the byte position behind the element's source.
func (e Element) End() int {
	return e.Index + e.Length
}

// IsCharacter is true for elements which produce a character record.
func (e Element) IsCharacter() bool {
	return e.Kind == TextElement || e.Kind == SpriteElement
}

// SpriteLookup reports whether a sprite exists. asset is empty for the
// default sprite asset; name is empty for lookup by index.
type SpriteLookup func(asset, name string, index int) bool

// Options control parsing.
type Options struct {
	RichText     bool         // interpret tags
	ParseEscapes bool         // interpret \n, \t, \uXXXX, …
	Sprites      SpriteLookup // reject tags for unknown sprites, if set
}

// Parse creates the processing array for a text.
func Parse(text string, opts Options) []Element {
	elems := make([]Element, 0, len(text))
	noparse := false
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == '<' && opts.RichText {
			if noparse {
				if end, ok := matchNoParseEnd(text, i); ok {
					elems = append(elems, Element{
						Kind: TagElement, Index: i, Length: end - i,
						Tag: &Tag{ID: TagNoParse, Name: "noparse", Closing: true},
					})
					noparse = false
					i = end
					continue
				}
			} else if e, ok := scanTag(text, i, opts); ok {
				if e.Tag.ID == TagNoParse && !e.Tag.Closing {
					noparse = true
				}
				elems = append(elems, e)
				i = e.End()
				continue
			}
		}
		if r == '\\' && opts.ParseEscapes {
			if u, n, ok := scanEscape(text[i:]); ok {
				elems = append(elems, Element{Unicode: u, Index: i, Length: n})
				i += n
				continue
			}
		}
		if (r == 0xFE0E || r == 0xFE0F) && len(elems) > 0 {
			if last := &elems[len(elems)-1]; last.IsCharacter() && last.End() == i {
				last.Length += size
				last.Variation = r
				i += size
				continue
			}
		}
		elems = append(elems, Element{Unicode: r, Index: i, Length: size})
		i += size
	}
	tracer().Debugf("parsed %d bytes into %d elements", len(text), len(elems))
	return elems
}

// Text reconstructs the character content of a processing array, i.e. all
// characters which are not tags, in source order.
func Text(elems []Element) string {
	var b strings.Builder
	for _, e := range elems {
		if e.Kind == TextElement {
			b.WriteRune(e.Unicode)
		}
	}
	return b.String()
}

func matchNoParseEnd(text string, i int) (int, bool) {
	const end = "</noparse>"
	if len(text)-i >= len(end) && strings.EqualFold(text[i:i+len(end)], end) {
		return i + len(end), true
	}
	return 0, false
}

// scanEscape interprets an escape sequence at the start of s.
func scanEscape(s string) (rune, int, bool) {
	if len(s) < 2 {
		return 0, 0, false
	}
	switch s[1] {
	case 'n':
		return '\n', 2, true
	case 'r':
		return '\r', 2, true
	case 't':
		return '\t', 2, true
	case '\\':
		return '\\', 2, true
	case 'u':
		return scanHexEscape(s, 4)
	case 'U':
		return scanHexEscape(s, 8)
	}
	return 0, 0, false
}

func scanHexEscape(s string, digits int) (rune, int, bool) {
	if len(s) < 2+digits {
		return 0, 0, false
	}
	n, err := strconv.ParseUint(s[2:2+digits], 16, 32)
	if err != nil || n > utf8.MaxRune {
		return 0, 0, false
	}
	return rune(n), 2 + digits, true
}

// scanTag tries to read a tag starting at text[start] == '<'.
func scanTag(text string, start int, opts Options) (Element, bool) {
	end := -1
	for j := start + 1; j < len(text) && j-start < MaxTagLength; j++ {
		if text[j] == '<' {
			return Element{}, false
		}
		if text[j] == '>' {
			end = j
			break
		}
	}
	if end < 0 {
		return Element{}, false
	}
	content := text[start+1 : end]
	tag, ok := parseTag(content)
	if !ok {
		return Element{}, false
	}
	e := Element{Kind: TagElement, Index: start, Length: end + 1 - start, Tag: tag}
	def, _ := lookupTag(tag.Name)
	switch {
	case def.char != 0:
		e.Kind = TextElement
		e.Unicode = def.char
	case tag.ID == TagSprite:
		if opts.Sprites != nil && !opts.Sprites(tag.SpriteAsset(), tag.Attrs["name"], spriteIndex(tag)) {
			tracer().Debugf("sprite tag <%s> names unknown sprite", content)
			return Element{}, false
		}
		e.Kind = SpriteElement
	}
	return e, true
}

// spriteIndex returns the index of a sprite tag, -1 if the tag names a
// sprite.
func spriteIndex(tag *Tag) int {
	if _, ok := tag.Attrs["name"]; ok {
		return -1
	}
	if idx, ok := tag.Attrs["index"]; ok {
		n, _ := strconv.Atoi(idx)
		return n
	}
	n, err := strconv.Atoi(tag.Value)
	if err != nil {
		return -1
	}
	return n
}

// SpriteIndex returns the index a sprite tag selects, -1 if it selects by
// name.
func (t *Tag) SpriteIndex() int {
	return spriteIndex(t)
}

// SpriteAsset returns the sprite asset a sprite tag names, empty for the
// default asset.
func (t *Tag) SpriteAsset() string {
	if _, err := strconv.Atoi(t.Value); err == nil {
		return ""
	}
	return t.Value
}

// parseTag validates the content between '<' and '>'.
func parseTag(content string) (*Tag, bool) {
	if content == "" {
		return nil, false
	}
	tag := &Tag{}
	if content[0] == '/' {
		tag.Closing = true
		content = content[1:]
		if content == "" {
			return nil, false
		}
	}
	if !tag.Closing && content[0] == '#' { // <#RRGGBB> shorthand
		c, ok := ParseColor(content)
		if !ok {
			return nil, false
		}
		tag.ID, tag.Name, tag.Value, tag.Color = TagColor, "color", content, c
		return tag, true
	}
	// tag name
	n := 0
	for n < len(content) && content[n] != '=' && content[n] != ' ' {
		n++
		if !isTagPrefix(strings.ToLower(content[:n])) {
			return nil, false
		}
	}
	tag.Name = strings.ToLower(content[:n])
	def, ok := lookupTag(tag.Name)
	if !ok {
		return nil, false
	}
	tag.ID = def.id
	rest := content[n:]
	if tag.Closing {
		return tag, def.closeable && strings.TrimSpace(rest) == ""
	}
	if strings.HasPrefix(rest, "=") {
		v, r, ok := scanValue(rest[1:])
		if !ok {
			return nil, false
		}
		tag.Value, rest = v, r
	}
	if attrs, ok := scanAttributes(rest); ok {
		tag.Attrs = attrs
	} else {
		return nil, false
	}
	return tag, validateValue(tag, def)
}

// scanValue reads a quoted or bare value.
func scanValue(s string) (value, rest string, ok bool) {
	if s == "" {
		return "", "", false
	}
	if s[0] == '"' || s[0] == '\'' {
		q := strings.IndexByte(s[1:], s[0])
		if q < 0 {
			return "", "", false
		}
		return s[1 : q+1], s[q+2:], true
	}
	sp := strings.IndexByte(s, ' ')
	if sp < 0 {
		return s, "", true
	}
	return s[:sp], s[sp:], true
}

// scanAttributes reads space separated name=value pairs.
func scanAttributes(s string) (map[string]string, bool) {
	var attrs map[string]string
	for {
		s = strings.TrimLeft(s, " ")
		if s == "" {
			return attrs, true
		}
		eq := strings.IndexByte(s, '=')
		if eq <= 0 {
			return nil, false
		}
		name := strings.ToLower(s[:eq])
		if strings.ContainsRune(name, ' ') {
			return nil, false
		}
		v, rest, ok := scanValue(s[eq+1:])
		if !ok {
			return nil, false
		}
		if attrs == nil {
			attrs = make(map[string]string)
		}
		attrs[name] = v
		s = rest
	}
}

// validateValue checks a tag's value against the form the tag accepts and
// stores the parsed value.
func validateValue(tag *Tag, def tagDef) bool {
	switch def.value {
	case noValue:
		return tag.Value == ""
	case optionalColor:
		if tag.Value == "" {
			return true
		}
		c, ok := ParseColor(tag.Value)
		tag.Color = c
		return ok
	case colorValue:
		c, ok := ParseColor(tag.Value)
		tag.Color = c
		return ok
	case alphaValue:
		a, ok := parseAlpha(tag.Value)
		tag.Color.A = a
		return ok
	case numberValue:
		v, err := dimen.ParseValue(tag.Value)
		tag.Number = v
		return err == nil
	case stringValue:
		return tag.Value != ""
	case alignValue:
		tag.Value = strings.ToLower(tag.Value)
		return alignments[tag.Value]
	case weightValue:
		w, err := strconv.Atoi(tag.Value)
		tag.Number = dimen.Value{Number: float32(w)}
		return err == nil && w >= 100 && w <= 900
	case spriteValue:
		if tag.Value == "" && tag.Attrs["name"] == "" {
			return false
		}
		if tint, ok := tag.Attrs["color"]; ok {
			c, ok := ParseColor(tint)
			if !ok {
				return false
			}
			tag.Color = c
		}
		return true
	}
	return false
}
