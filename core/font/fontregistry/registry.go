package fontregistry

import (
	"path"
	"strings"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/textmesh/core/font"
)

// Registry is a type for holding loaded font and sprite assets.
type Registry struct {
	sync.RWMutex
	assets    map[string]*font.FontAsset
	sprites   map[string]*font.SpriteAsset
	fallbacks []*font.FontAsset
	emoji     []*font.FontAsset
	spriteDef *font.SpriteAsset
	deflt     *font.FontAsset
}

var globalRegistry *Registry

var globalRegistryCreation sync.Once

// GlobalRegistry is an application-wide singleton to hold information about
// loaded assets.
func GlobalRegistry() *Registry {
	globalRegistryCreation.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// NewRegistry creates an empty registry. Its default asset is the fallback
// font of package font, unless replaced with SetDefault.
func NewRegistry() *Registry {
	return &Registry{
		assets:  make(map[string]*font.FontAsset),
		sprites: make(map[string]*font.SpriteAsset),
	}
}

// StoreAsset pushes a font asset into the registry if it isn't contained yet.
//
// The asset will be stored using the normalized asset name as a key. If this
// key is already associated with an asset, that asset will not be overridden.
func (fr *Registry) StoreAsset(f *font.FontAsset) {
	if f == nil {
		tracer().Errorf("registry cannot store null font asset")
		return
	}
	key := font.NormalizeName(f.Name)
	fr.Lock()
	defer fr.Unlock()
	if _, ok := fr.assets[key]; !ok {
		tracer().Debugf("registry stores font %s as %s", f.Name, key)
		fr.assets[key] = f
	}
}

// Asset returns a font asset by name.
func (fr *Registry) Asset(name string) (*font.FontAsset, bool) {
	fr.RLock()
	defer fr.RUnlock()
	f, ok := fr.assets[font.NormalizeName(name)]
	return f, ok
}

// StoreSpriteAsset registers a sprite asset. The first sprite asset stored
// becomes the default sprite asset.
func (fr *Registry) StoreSpriteAsset(sa *font.SpriteAsset) {
	if sa == nil {
		return
	}
	fr.Lock()
	defer fr.Unlock()
	fr.sprites[font.NormalizeName(sa.Name)] = sa
	if fr.spriteDef == nil {
		fr.spriteDef = sa
	}
}

// SpriteAsset returns a sprite asset by name.
func (fr *Registry) SpriteAsset(name string) (*font.SpriteAsset, bool) {
	fr.RLock()
	defer fr.RUnlock()
	sa, ok := fr.sprites[font.NormalizeName(name)]
	return sa, ok
}

// DefaultSpriteAsset returns the default sprite asset, or nil.
func (fr *Registry) DefaultSpriteAsset() *font.SpriteAsset {
	fr.RLock()
	defer fr.RUnlock()
	return fr.spriteDef
}

// SetDefaultSpriteAsset replaces the default sprite asset.
func (fr *Registry) SetDefaultSpriteAsset(sa *font.SpriteAsset) {
	fr.Lock()
	defer fr.Unlock()
	fr.spriteDef = sa
}

// AddFallback appends an asset to the global fallback list.
func (fr *Registry) AddFallback(f *font.FontAsset) {
	fr.Lock()
	defer fr.Unlock()
	fr.fallbacks = append(fr.fallbacks, f)
}

// Fallbacks returns a copy of the global fallback list.
func (fr *Registry) Fallbacks() []*font.FontAsset {
	fr.RLock()
	defer fr.RUnlock()
	return append([]*font.FontAsset(nil), fr.fallbacks...)
}

// AddEmojiFallback appends an asset to the emoji fallback list.
func (fr *Registry) AddEmojiFallback(f *font.FontAsset) {
	fr.Lock()
	defer fr.Unlock()
	fr.emoji = append(fr.emoji, f)
}

// EmojiFallbacks returns a copy of the emoji fallback list.
func (fr *Registry) EmojiFallbacks() []*font.FontAsset {
	fr.RLock()
	defer fr.RUnlock()
	return append([]*font.FontAsset(nil), fr.emoji...)
}

// SetDefault replaces the default asset. A nil asset restores the built-in
// fallback font.
func (fr *Registry) SetDefault(f *font.FontAsset) {
	fr.Lock()
	defer fr.Unlock()
	fr.deflt = f
}

// Default returns the default asset, which is always present.
func (fr *Registry) Default() *font.FontAsset {
	fr.RLock()
	f := fr.deflt
	fr.RUnlock()
	if f == nil {
		return font.FallbackFont()
	}
	return f
}

// BindTypefaces scans the registry for assets whose names start with
// family and registers them as weight/italic alternatives of base. The
// weight and slant of each asset is guessed from its name.
// It returns the number of typefaces bound.
func (fr *Registry) BindTypefaces(base *font.FontAsset, family string) int {
	prefix := font.NormalizeName(family)
	fr.RLock()
	defer fr.RUnlock()
	n := 0
	for key, f := range fr.assets {
		if f == base || !strings.HasPrefix(key, prefix) {
			continue
		}
		italic, weight := GuessStyleAndWeight(f.Name)
		if !italic && weight == font.Regular {
			continue
		}
		tracer().Debugf("font %s is typeface %d/%v of %s", f.Name, weight, italic, base.Name)
		base.SetTypeface(weight, italic, f)
		n++
	}
	return n
}

// LogAssetList is a helper function to dump the list of known assets in a
// registry to the trace-file (log-level Info).
func (fr *Registry) LogAssetList() {
	level := tracer().GetTraceLevel()
	tracer().SetTraceLevel(tracing.LevelInfo)
	defer tracer().SetTraceLevel(level)
	fr.RLock()
	defer fr.RUnlock()
	tracer().Infof("--- registered fonts ---")
	for k, v := range fr.assets {
		tracer().Infof("font [%s] = %v, %d characters", k, v.Name, v.CharacterCount())
	}
	for k, v := range fr.sprites {
		tracer().Infof("sprites [%s] = %v, %d sprites", k, v.Name, v.Len())
	}
	tracer().Infof("%d fallbacks, %d emoji fallbacks", len(fr.fallbacks), len(fr.emoji))
	tracer().Infof("------------------------")
}

// GuessStyleAndWeight trys to guess a font's slant and weight from the
// font's file name.
func GuessStyleAndWeight(fontfilename string) (italic bool, weight font.Weight) {
	fontfilename = path.Base(fontfilename)
	ext := path.Ext(fontfilename)
	fontfilename = strings.ToLower(fontfilename[:len(fontfilename)-len(ext)])
	fontfilename = strings.ReplaceAll(fontfilename, " ", "-")
	fontfilename = strings.ReplaceAll(fontfilename, "_", "-")
	italic = strings.Contains(fontfilename, "italic") || strings.Contains(fontfilename, "oblique")
	s := strings.Split(fontfilename, "-")
	for i := len(s) - 1; i > 0; i-- {
		switch s[i] {
		case "thin", "hairline":
			return italic, font.Thin
		case "light", "xlight", "extralight":
			return italic, font.Light
		case "normal", "regular", "r", "book":
			return italic, font.Regular
		case "medium":
			return italic, font.Medium
		case "semibold", "demibold":
			return italic, font.SemiBold
		case "bold", "b", "bolditalic":
			return italic, font.Bold
		case "xbold", "extrabold", "black", "heavy":
			return italic, font.Black
		}
	}
	weight = font.Regular
	if strings.Contains(fontfilename, "light") {
		weight = font.Light
	}
	if strings.Contains(fontfilename, "bold") {
		weight = font.Bold
	}
	return italic, weight
}
