package font

// ElementKind discriminates text elements.
type ElementKind uint8

// Kinds of text elements
const (
	CharacterElement ElementKind = iota
	SpriteElement
)

func (k ElementKind) String() string {
	if k == SpriteElement {
		return "sprite"
	}
	return "character"
}

// TextElement is a renderable element: either a character of a font asset
// or a sprite of a sprite asset. Consumers switch on Kind; exactly one of
// Font and Sprite is set.
type TextElement struct {
	Kind    ElementKind
	Unicode rune
	Glyph   *Glyph
	Scale   float32
	Font    *FontAsset
	Sprite  *SpriteAsset
}

// NewCharacterElement wraps a character of a font asset.
func NewCharacterElement(f *FontAsset, c *Character) TextElement {
	return TextElement{
		Kind:    CharacterElement,
		Unicode: c.Unicode,
		Glyph:   c.Glyph,
		Scale:   c.Scale,
		Font:    f,
	}
}

// NewSpriteElement wraps a sprite of a sprite asset.
func NewSpriteElement(a *SpriteAsset, s *Sprite) TextElement {
	return TextElement{
		Kind:    SpriteElement,
		Unicode: s.Unicode,
		Glyph:   s.Glyph,
		Scale:   s.Scale,
		Sprite:  a,
	}
}

// IsValid is true if the element references a glyph.
func (e TextElement) IsValid() bool {
	return e.Glyph != nil && (e.Font != nil || e.Sprite != nil)
}

// Material returns the material of the element's asset.
func (e TextElement) Material() MaterialID {
	switch e.Kind {
	case SpriteElement:
		if e.Sprite != nil {
			return e.Sprite.Material
		}
	default:
		if e.Font != nil {
			return e.Font.Material
		}
	}
	return 0
}

// Atlas returns the atlas description of the element's asset.
func (e TextElement) Atlas() AtlasInfo {
	switch e.Kind {
	case SpriteElement:
		if e.Sprite != nil {
			return e.Sprite.Atlas
		}
	default:
		if e.Font != nil {
			return e.Font.Atlas
		}
	}
	return AtlasInfo{}
}

// AssetName returns the name of the element's asset.
func (e TextElement) AssetName() string {
	switch e.Kind {
	case SpriteElement:
		if e.Sprite != nil {
			return e.Sprite.Name
		}
	default:
		if e.Font != nil {
			return e.Font.Name
		}
	}
	return ""
}
