/*
Package parameters holds engine-wide settings for text layout.

Settings are read from a schuko configuration. Keys which are not set
keep their defaults.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parameters

import (
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/language"
)

// tracer traces with key 'textmesh.layout'.
func tracer() tracing.Trace {
	return tracing.Select("textmesh.layout")
}

// Configuration keys.
const (
	KeyWarnings          = "textmesh.warnings"
	KeyMissingGlyph      = "textmesh.missingglyph"
	KeyEmojiFallback     = "textmesh.emojifallback"
	KeyMaxIterations     = "textmesh.autosize.maxiterations"
	KeyBufferReduction   = "textmesh.autosize.reduction"
	KeyModernHangul      = "textmesh.hangul.modern"
	KeyEllipsis          = "textmesh.ellipsis"
	KeyWordWrapRatio     = "textmesh.wordwrapratio"
	KeyLanguage          = "textmesh.language"
	KeyLeadingCharacters = "textmesh.linebreak.leading"
	KeyFollowingChars    = "textmesh.linebreak.following"
)

// Config is the part of a schuko.Configuration settings are read from.
type Config interface {
	IsSet(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
}

// Settings are engine-wide layout settings, shared by all text objects
// unless overridden.
type Settings struct {
	WarningsDisabled         bool         // suppress missing-glyph diagnostics
	MissingGlyphCharacter    rune         // first substitute for missing glyphs, 0 = none
	EmojiFallbackSupport     bool         // search emoji fallbacks first
	AutoSizeMaxIterations    int          // bound for the auto-size loop
	BufferAutoSizeReduction  bool         // shrink over-sized buffers
	ModernHangulLineBreaking bool         // break Hangul at spaces only
	EllipsisCharacter        rune         // substitute for Ellipsis overflow
	WordWrappingRatio        float32      // share of justification gap given to characters
	Language                 language.Tag // language of text, selects casing and breaking rules
	LeadingCharacters        string       // characters which may not start a line
	FollowingCharacters      string       // characters which may not end a line
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		EmojiFallbackSupport:    true,
		AutoSizeMaxIterations:   100,
		BufferAutoSizeReduction: true,
		EllipsisCharacter:       0x2026,
		WordWrappingRatio:       0.4,
		Language:                language.Und,
	}
}

// FromConfig overlays the defaults with values found in conf.
func FromConfig(conf Config) Settings {
	s := Defaults()
	if conf == nil {
		return s
	}
	if conf.IsSet(KeyWarnings) {
		s.WarningsDisabled = !conf.GetBool(KeyWarnings)
	}
	if conf.IsSet(KeyMissingGlyph) {
		s.MissingGlyphCharacter = parseCodePoint(conf.GetString(KeyMissingGlyph))
	}
	if conf.IsSet(KeyEmojiFallback) {
		s.EmojiFallbackSupport = conf.GetBool(KeyEmojiFallback)
	}
	if conf.IsSet(KeyMaxIterations) {
		if n := conf.GetInt(KeyMaxIterations); n > 0 {
			s.AutoSizeMaxIterations = n
		} else {
			tracer().Errorf("configuration %s must be positive, ignored", KeyMaxIterations)
		}
	}
	if conf.IsSet(KeyBufferReduction) {
		s.BufferAutoSizeReduction = conf.GetBool(KeyBufferReduction)
	}
	if conf.IsSet(KeyModernHangul) {
		s.ModernHangulLineBreaking = conf.GetBool(KeyModernHangul)
	}
	if conf.IsSet(KeyEllipsis) {
		if r := parseCodePoint(conf.GetString(KeyEllipsis)); r != 0 {
			s.EllipsisCharacter = r
		}
	}
	if conf.IsSet(KeyWordWrapRatio) {
		if f, err := strconv.ParseFloat(conf.GetString(KeyWordWrapRatio), 32); err == nil && f >= 0 && f <= 1 {
			s.WordWrappingRatio = float32(f)
		} else {
			tracer().Errorf("configuration %s must be in [0…1], ignored", KeyWordWrapRatio)
		}
	}
	if conf.IsSet(KeyLanguage) {
		if tag, err := language.Parse(conf.GetString(KeyLanguage)); err == nil {
			s.Language = tag
		} else {
			tracer().Errorf("configuration %s: %v", KeyLanguage, err)
		}
	}
	if conf.IsSet(KeyLeadingCharacters) {
		s.LeadingCharacters = conf.GetString(KeyLeadingCharacters)
	}
	if conf.IsSet(KeyFollowingChars) {
		s.FollowingCharacters = conf.GetString(KeyFollowingChars)
	}
	return s
}

// Global returns settings read from the application-wide configuration
// (package gconf).
func Global() Settings {
	return FromConfig(globalConfig{})
}

// IsKorean is true if the settings' language is Korean, which switches
// Hangul to space-separated line breaking.
func (s Settings) IsKorean() bool {
	base, _ := s.Language.Base()
	return base.String() == "ko"
}

// globalConfig routes lookups to gconf.
type globalConfig struct{}

func (globalConfig) IsSet(key string) bool       { return gconf.IsSet(key) }
func (globalConfig) GetString(key string) string { return gconf.GetString(key) }
func (globalConfig) GetInt(key string) int       { return gconf.GetInt(key) }
func (globalConfig) GetBool(key string) bool     { return gconf.GetBool(key) }

// parseCodePoint accepts "U+25A1", "0x25A1" or a literal character.
func parseCodePoint(s string) rune {
	s = strings.TrimSpace(s)
	upper := strings.ToUpper(s)
	for _, prefix := range []string{"U+", "0X"} {
		if strings.HasPrefix(upper, prefix) {
			n, err := strconv.ParseUint(s[len(prefix):], 16, 32)
			if err != nil {
				tracer().Errorf("cannot parse code point %q", s)
				return 0
			}
			return rune(n)
		}
	}
	for _, r := range s {
		return r
	}
	return 0
}
