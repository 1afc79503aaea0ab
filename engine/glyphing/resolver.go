package glyphing

import (
	"github.com/emirpasic/gods/sets/hashset"
	"github.com/npillmayer/textmesh/core/font"
	"github.com/npillmayer/textmesh/core/font/fontregistry"
	"github.com/npillmayer/textmesh/core/parameters"
)

// MissingBox is the substitute of last resort which is not a control
// character.
const MissingBox rune = 0x2623

// ETX (end of text) is synthesized by every font asset.
const ETX rune = 0x03

// Request is a code point to resolve, together with the font and style
// requested for it.
type Request struct {
	Unicode      rune
	Font         *font.FontAsset
	Italic       bool
	Weight       font.Weight // 0 is regular
	Presentation Presentation
}

// Result is the outcome of a resolution.
type Result struct {
	Element               font.TextElement
	Font                  *font.FontAsset // asset the element has been found in, nil for sprites
	UsedFallback          bool            // found in an asset other than the requested one
	IsAlternativeTypeface bool            // found in a weight/slant alternative of the requested font
	Substitute            rune            // code point used in place of a missing one, or 0
}

// IsValid is true if the result holds a text element.
func (res Result) IsValid() bool {
	return res.Element.IsValid()
}

// Resolver resolves code points to text elements. A nil registry makes
// the resolver search the requested font and the built-in fallback font
// only. A Resolver is not safe for concurrent use.
type Resolver struct {
	Registry *fontregistry.Registry
	Settings parameters.Settings
	visited  *hashset.Set // assets searched by the current lookup
}

// NewResolver creates a resolver.
func NewResolver(reg *fontregistry.Registry, settings parameters.Settings) *Resolver {
	return &Resolver{Registry: reg, Settings: settings}
}

// Resolve finds a text element for a code point. If the code point is not
// present in any asset of the fallback chain, a substitute is resolved and
// a diagnostic is logged, unless warnings are disabled.
func (rs *Resolver) Resolve(req Request) Result {
	if res, ok := rs.lookup(req.Unicode, req, wantsEmoji(req.Unicode, req.Presentation)); ok {
		return res
	}
	for _, sub := range rs.substitutes() {
		if res, ok := rs.lookup(sub, req, false); ok {
			res.Substitute = sub
			if !rs.Settings.WarningsDisabled {
				tracer().Infof("character U+%04X not found in font %s or its fallbacks, replaced by U+%04X",
					req.Unicode, assetName(req.Font), sub)
			}
			return res
		}
	}
	tracer().Errorf("no substitute found for U+%04X", req.Unicode)
	return Result{}
}

func (rs *Resolver) substitutes() []rune {
	subs := make([]rune, 0, 4)
	if rs.Settings.MissingGlyphCharacter != 0 {
		subs = append(subs, rs.Settings.MissingGlyphCharacter)
	}
	return append(subs, MissingBox, ' ', ETX)
}

// lookup walks the fallback chain for r.
func (rs *Resolver) lookup(r rune, req Request, emoji bool) (Result, bool) {
	if rs.visited == nil {
		rs.visited = hashset.New()
	}
	visited := rs.visited
	visited.Clear()
	if emoji && rs.Settings.EmojiFallbackSupport && rs.Registry != nil {
		for _, f := range rs.Registry.EmojiFallbacks() {
			if res, ok := rs.search(f, r, visited); ok {
				res.UsedFallback = f != req.Font
				return res, true
			}
		}
	}
	if req.Font != nil {
		if req.Italic || (req.Weight != 0 && req.Weight != font.Regular) {
			weight := req.Weight
			if weight == 0 {
				weight = font.Regular
			}
			if alt := req.Font.Typeface(weight, req.Italic); alt != nil {
				if c, ok := find(alt, r); ok {
					return Result{
						Element:               font.NewCharacterElement(alt, c),
						Font:                  alt,
						IsAlternativeTypeface: true,
					}, true
				}
			}
		}
		if res, ok := rs.search(req.Font, r, visited); ok {
			res.UsedFallback = res.Font != req.Font
			return res, true
		}
	}
	if rs.Registry != nil {
		for _, f := range rs.Registry.Fallbacks() {
			if res, ok := rs.search(f, r, visited); ok {
				res.UsedFallback = true
				return res, true
			}
		}
		if sa := rs.Registry.DefaultSpriteAsset(); sa != nil {
			if a, i, ok := sa.FindByUnicode(r); ok {
				s, _ := a.SpriteAt(i)
				return Result{Element: font.NewSpriteElement(a, s), UsedFallback: true}, true
			}
		}
	}
	var deflt *font.FontAsset
	if rs.Registry != nil {
		deflt = rs.Registry.Default()
	} else {
		deflt = font.FallbackFont()
	}
	if res, ok := rs.search(deflt, r, visited); ok {
		res.UsedFallback = res.Font != req.Font
		return res, true
	}
	return Result{}, false
}

// search looks for r in f and, depth first, in f's fallbacks. Each asset
// is searched at most once per lookup.
func (rs *Resolver) search(f *font.FontAsset, r rune, visited *hashset.Set) (Result, bool) {
	if f == nil || visited.Contains(f) {
		return Result{}, false
	}
	visited.Add(f)
	if c, ok := find(f, r); ok {
		return Result{Element: font.NewCharacterElement(f, c), Font: f}, true
	}
	for _, fb := range f.Fallbacks {
		if res, ok := rs.search(fb, r, visited); ok {
			return res, true
		}
	}
	return Result{}, false
}

// find looks up a character, adding it to dynamic assets on demand.
func find(f *font.FontAsset, r rune) (*font.Character, bool) {
	if c, ok := f.Character(r); ok {
		return c, true
	}
	if f.IsDynamic() {
		return f.TryAddCharacter(r)
	}
	return nil, false
}

// ResolveSprite finds a sprite by name in a sprite asset or its fallbacks,
// or by index in the asset itself. An empty name selects by index.
func (rs *Resolver) ResolveSprite(sa *font.SpriteAsset, name string, index int) (font.TextElement, bool) {
	if sa == nil && rs.Registry != nil {
		sa = rs.Registry.DefaultSpriteAsset()
	}
	if sa == nil {
		return font.TextElement{}, false
	}
	if name != "" {
		a, i, ok := sa.FindByName(name)
		if !ok {
			return font.TextElement{}, false
		}
		s, _ := a.SpriteAt(i)
		return font.NewSpriteElement(a, s), true
	}
	s, ok := sa.SpriteAt(index)
	if !ok {
		return font.TextElement{}, false
	}
	return font.NewSpriteElement(sa, s), true
}

// SpriteAsset returns a sprite asset by name from the registry, or the
// default sprite asset for an empty name.
func (rs *Resolver) SpriteAsset(name string) (*font.SpriteAsset, bool) {
	if rs.Registry == nil {
		return nil, false
	}
	if name == "" {
		sa := rs.Registry.DefaultSpriteAsset()
		return sa, sa != nil
	}
	return rs.Registry.SpriteAsset(name)
}

func assetName(f *font.FontAsset) string {
	if f == nil {
		return "<none>"
	}
	return f.Name
}
