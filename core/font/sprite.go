package font

import (
	"strings"
	"sync"
)

// Sprite is an image of a sprite asset, addressable by name, index or
// code point.
type Sprite struct {
	Name    string
	Unicode rune
	Glyph   *Glyph
	Scale   float32
}

// SpriteAsset is a set of sprites sharing an atlas texture.
//
// Sprites are positioned relative to a face: the ascent line is the top
// of a sprite, a sprite's height is taken from its glyph metrics. Assets
// without face info use the glyph metrics of each sprite.
type SpriteAsset struct {
	Name      string
	Face      FaceInfo
	Atlas     AtlasInfo
	Material  MaterialID
	Fallbacks []*SpriteAsset
	mu        sync.RWMutex
	sprites   []*Sprite
	byName    map[string]int
	byUnicode map[rune]int
}

// NewSpriteAsset creates an empty sprite asset.
func NewSpriteAsset(name string, face FaceInfo, atlas AtlasInfo) *SpriteAsset {
	if face.Scale == 0 {
		face.Scale = 1
	}
	return &SpriteAsset{
		Name:      name,
		Face:      face,
		Atlas:     atlas,
		Material:  NewMaterialID(),
		byName:    make(map[string]int),
		byUnicode: make(map[rune]int),
	}
}

// AddSprite appends a sprite and returns its index.
func (sa *SpriteAsset) AddSprite(name string, unicode rune, g Glyph) int {
	if g.Scale == 0 {
		g.Scale = 1
	}
	sa.mu.Lock()
	defer sa.mu.Unlock()
	s := &Sprite{Name: name, Unicode: unicode, Glyph: &g, Scale: 1}
	sa.sprites = append(sa.sprites, s)
	i := len(sa.sprites) - 1
	if name != "" {
		sa.byName[strings.ToLower(name)] = i
	}
	if unicode != 0 {
		sa.byUnicode[unicode] = i
	}
	return i
}

// Len returns the number of sprites.
func (sa *SpriteAsset) Len() int {
	sa.mu.RLock()
	defer sa.mu.RUnlock()
	return len(sa.sprites)
}

// SpriteAt returns a sprite by index.
func (sa *SpriteAsset) SpriteAt(index int) (*Sprite, bool) {
	sa.mu.RLock()
	defer sa.mu.RUnlock()
	if index < 0 || index >= len(sa.sprites) {
		return nil, false
	}
	return sa.sprites[index], true
}

// SpriteIndex returns the index of a sprite by name (case-insensitive).
func (sa *SpriteAsset) SpriteIndex(name string) (int, bool) {
	sa.mu.RLock()
	defer sa.mu.RUnlock()
	i, ok := sa.byName[strings.ToLower(name)]
	return i, ok
}

// SpriteFor returns the sprite for a code point.
func (sa *SpriteAsset) SpriteFor(r rune) (*Sprite, bool) {
	sa.mu.RLock()
	defer sa.mu.RUnlock()
	i, ok := sa.byUnicode[r]
	if !ok {
		return nil, false
	}
	return sa.sprites[i], true
}

// FindByName searches the asset and then its fallbacks, depth first, for a
// sprite by name. It returns the asset containing the sprite.
func (sa *SpriteAsset) FindByName(name string) (*SpriteAsset, int, bool) {
	return sa.find(func(a *SpriteAsset) (int, bool) {
		return a.SpriteIndex(name)
	}, map[*SpriteAsset]bool{})
}

// FindByUnicode searches the asset and its fallbacks for a code point.
func (sa *SpriteAsset) FindByUnicode(r rune) (*SpriteAsset, int, bool) {
	return sa.find(func(a *SpriteAsset) (int, bool) {
		a.mu.RLock()
		defer a.mu.RUnlock()
		i, ok := a.byUnicode[r]
		return i, ok
	}, map[*SpriteAsset]bool{})
}

func (sa *SpriteAsset) find(lookup func(*SpriteAsset) (int, bool), visited map[*SpriteAsset]bool) (*SpriteAsset, int, bool) {
	if sa == nil || visited[sa] {
		return nil, 0, false
	}
	visited[sa] = true
	if i, ok := lookup(sa); ok {
		return sa, i, true
	}
	for _, fb := range sa.Fallbacks {
		if a, i, ok := fb.find(lookup, visited); ok {
			return a, i, true
		}
	}
	return nil, 0, false
}
