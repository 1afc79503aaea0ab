package glyphing

import (
	"golang.org/x/text/unicode/bidi"
)

// Direction is the direction to set text in.
type Direction int

// Direction to set text in.
const (
	LeftToRight Direction = iota
	RightToLeft
	AutoDirection // from the first strong character
)

func (d Direction) String() string {
	switch d {
	case RightToLeft:
		return "RTL"
	case AutoDirection:
		return "auto"
	}
	return "LTR"
}

// DirectionOf returns the direction of the first character with a strong
// bidi class in runes, or LeftToRight if there is none.
func DirectionOf(runes []rune) Direction {
	for _, r := range runes {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.L:
			return LeftToRight
		case bidi.R, bidi.AL:
			return RightToLeft
		}
	}
	return LeftToRight
}
