package markup

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/npillmayer/textmesh/core/dimen"
	"golang.org/x/image/colornames"
)

// Tag is a validated markup tag.
type Tag struct {
	ID      TagID
	Name    string // lower-case name as written
	Closing bool
	Value   string            // raw value, unquoted
	Number  dimen.Value       // for numeric tags
	Color   color.RGBA        // for color, alpha and mark tags
	Attrs   map[string]string // attributes, names in lower-case
}

// HasColor is true for tags carrying a color value.
func (t *Tag) HasColor() bool {
	return t.Value != "" && (t.ID == TagColor || t.ID == TagMark || t.ID == TagAlpha)
}

// Attr returns an attribute value.
func (t *Tag) Attr(name string) (string, bool) {
	if t.Attrs == nil {
		return "", false
	}
	v, ok := t.Attrs[name]
	return v, ok
}

// ParseColor parses a color in one of the forms #RGB, #RGBA, #RRGGBB,
// #RRGGBBAA or a CSS color name.
func ParseColor(s string) (color.RGBA, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		c, ok := colornames.Map[strings.ToLower(s)]
		return c, ok
	}
	var alpha uint8 = 0xFF
	switch len(s) {
	case 4, 7:
	case 5:
		a, ok := parseHex(s[4:5] + s[4:5])
		if !ok {
			return color.RGBA{}, false
		}
		alpha, s = a, s[:4]
	case 9:
		a, ok := parseHex(s[7:9])
		if !ok {
			return color.RGBA{}, false
		}
		alpha, s = a, s[:7]
	default:
		return color.RGBA{}, false
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, false
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: alpha}, true
}

// parseAlpha parses #AA.
func parseAlpha(s string) (uint8, bool) {
	if len(s) != 3 || s[0] != '#' {
		return 0, false
	}
	return parseHex(s[1:])
}

func parseHex(s string) (uint8, bool) {
	n, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, false
	}
	return uint8(n), true
}

var alignments = map[string]bool{
	"left": true, "center": true, "right": true,
	"justified": true, "flush": true, "geometry": true,
}
