package linebreak

import (
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/uax/emoji"
	"github.com/npillmayer/uax/uax11"
)

// uax11 classifies emoji presentation from tables which have to be set up
// once.
func init() {
	emoji.SetupEmojisClasses()
}

// Characters with special treatment
const (
	NoBreakSpace       rune = 0x00A0
	SoftHyphen         rune = 0x00AD
	FigureSpace        rune = 0x2007
	ZeroWidthSpace     rune = 0x200B
	NarrowNoBreakSpace rune = 0x202F
	WordJoiner         rune = 0x2060
	Hyphen             rune = 0x2010
	EnDash             rune = 0x2013
	LineSeparator      rune = 0x2028
	ParagraphSeparator rune = 0x2029
	ETX                rune = 0x0003
)

// IsWhitespace is true for white space characters, including non-breaking
// ones.
func IsWhitespace(r rune) bool {
	return unicode.IsSpace(r) || r == ZeroWidthSpace || r == FigureSpace ||
		r == NarrowNoBreakSpace || r == WordJoiner
}

// IsNonBreaking is true for spaces which glue their neighbours.
func IsNonBreaking(r rune) bool {
	return r == NoBreakSpace || r == FigureSpace || r == NarrowNoBreakSpace || r == WordJoiner
}

// IsBreakingSpace is true for white space after which a line may break.
func IsBreakingSpace(r rune) bool {
	return IsWhitespace(r) && !IsNonBreaking(r)
}

// IsHardBreak is true for characters which end a line.
func IsHardBreak(r rune) bool {
	return r == '\n' || r == 0x0B || r == LineSeparator || r == ParagraphSeparator
}

// EndsParagraph is true for hard breaks which end a paragraph.
func EndsParagraph(r rune) bool {
	return r == '\n' || r == ParagraphSeparator
}

// IsControl is true for characters with no visual representation which are
// not white space.
func IsControl(r rune) bool {
	return r == ETX || r == SoftHyphen || r == 0x200C || r == 0x200D ||
		r == 0x200E || r == 0x200F || r == 0x061C || unicode.Is(unicode.Cc, r) && !IsWhitespace(r)
}

// IsHyphen is true for hyphens after which a line may break.
func IsHyphen(r rune) bool {
	return r == '-' || r == Hyphen || r == EnDash
}

// IsHangul is true for Hangul jamo and syllables.
func IsHangul(r rune) bool {
	return r >= 0x1100 && r <= 0x11FF ||
		r >= 0x3130 && r <= 0x318F ||
		r >= 0xA960 && r <= 0xA97F ||
		r >= 0xAC00 && r <= 0xD7AF ||
		r >= 0xD7B0 && r <= 0xD7FF
}

// IsIdeographic is true for CJK ideographs, kana and CJK punctuation and
// forms, and for other characters of East Asian width "wide" or
// "fullwidth" (except Hangul).
func IsIdeographic(r rune) bool {
	switch {
	case r >= 0x2E80 && r <= 0x9FFF,
		r >= 0xF900 && r <= 0xFAFF,
		r >= 0xFE30 && r <= 0xFE4F,
		r >= 0xFF00 && r <= 0xFFEF,
		r >= 0x20000 && r <= 0x2FA1F:
		return !IsHangul(r)
	case r < 0x1100:
		return false
	}
	return IsWide(r) && !IsHangul(r)
}

// IsWide is true for characters of East Asian width "wide" or "fullwidth".
func IsWide(r rune) bool {
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	return uax11.Width(buf[:n], uax11.LatinContext) == 2
}
