package linebreak

import (
	"github.com/emirpasic/gods/sets/hashset"
	"github.com/npillmayer/textmesh/core/parameters"
)

// DefaultLeadingCharacters must not start a line.
const DefaultLeadingCharacters = "!%),.:;?]}¢°·’\"†‡›℃∶、。〃〆〕〗〞﹚﹜！＂％＇），．：；？］｝～" +
	"ゝゞヽヾーァィゥェォッャュョヮヵヶぁぃぅぇぉっゃゅょゎゕゖㇰㇱㇲㇳㇴㇵㇶㇷㇸㇹㇺㇻㇼㇽㇾㇿ々〻」』】〉》〙〛"

// DefaultFollowingCharacters must not end a line.
const DefaultFollowingCharacters = "$(£¥·‘\"〈《「『【〔〖〝﹙﹛＄（．［｛￡￥〘〚"

// Opportunity is the kind of line break possible after a character.
type Opportunity uint8

// Kinds of break opportunities
const (
	NoBreak     Opportunity = iota
	SpaceBreak              // after breaking white space
	HyphenBreak             // after a hyphen
	SoftBreak               // at a soft hyphen; the hyphen is rendered if the line breaks
	Ideographic             // between East Asian characters
)

func (o Opportunity) String() string {
	switch o {
	case SpaceBreak:
		return "space"
	case HyphenBreak:
		return "hyphen"
	case SoftBreak:
		return "soft-hyphen"
	case Ideographic:
		return "ideographic"
	}
	return "none"
}

// IsSoft is true for opportunities at white space or soft hyphens, which
// are preferred over breaks between characters inside an over-long word.
func (o Opportunity) IsSoft() bool {
	return o == SpaceBreak || o == SoftBreak
}

// Rules decide on break opportunities.
type Rules struct {
	leading      *hashset.Set
	following    *hashset.Set
	modernHangul bool
}

// NewRules creates rules from settings. Modern Hangul line breaking is
// selected by the settings flag or by a Korean language tag.
func NewRules(settings parameters.Settings) *Rules {
	leading, following := settings.LeadingCharacters, settings.FollowingCharacters
	if leading == "" {
		leading = DefaultLeadingCharacters
	}
	if following == "" {
		following = DefaultFollowingCharacters
	}
	r := &Rules{
		leading:      runeSet(leading),
		following:    runeSet(following),
		modernHangul: settings.ModernHangulLineBreaking || settings.IsKorean(),
	}
	tracer().Debugf("line breaking: %d leading, %d following characters, modern Hangul=%v",
		r.leading.Size(), r.following.Size(), r.modernHangul)
	return r
}

func runeSet(s string) *hashset.Set {
	set := hashset.New()
	for _, r := range s {
		set.Add(r)
	}
	return set
}

// IsLeading is true for characters which must not start a line.
func (rules *Rules) IsLeading(r rune) bool {
	return rules.leading.Contains(r)
}

// IsFollowing is true for characters which must not end a line.
func (rules *Rules) IsFollowing(r rune) bool {
	return rules.following.Contains(r)
}

// IsCJK is true for characters which are broken by East Asian rules.
func (rules *Rules) IsCJK(r rune) bool {
	if IsHangul(r) {
		return !rules.modernHangul
	}
	return IsIdeographic(r)
}

// After returns the break opportunity after cur. prev is the character
// before cur, next the one after it (0 at the start or end of text).
func (rules *Rules) After(prev, cur, next rune) Opportunity {
	switch {
	case IsBreakingSpace(cur) && !IsHardBreak(cur):
		return SpaceBreak
	case cur == SoftHyphen:
		return SoftBreak
	case IsHyphen(cur):
		if prev == 0 || IsWhitespace(prev) {
			return NoBreak
		}
		if next != 0 && IsWhitespace(next) {
			return NoBreak // the following space is the better break
		}
		return HyphenBreak
	}
	if next == 0 || IsWhitespace(next) || IsHardBreak(next) {
		return NoBreak
	}
	if rules.IsCJK(cur) || rules.IsCJK(next) {
		if rules.IsLeading(next) || rules.IsFollowing(cur) {
			return NoBreak
		}
		return Ideographic
	}
	return NoBreak
}
