package textinfo

import (
	"github.com/npillmayer/textmesh/core/font"
)

// MaxQuadsPerMesh is the number of glyphs a mesh with 16-bit vertex
// indices can hold.
const MaxQuadsPerMesh = 16383

// MaterialKey identifies an atlas texture with its material.
type MaterialKey struct {
	Material   font.MaterialID
	AtlasIndex int
}

// MaterialReference is a material used by a text. References with the
// same key are spills of one another, created when a mesh is full.
type MaterialReference struct {
	Key            MaterialKey
	AssetName      string
	Font           *font.FontAsset
	Sprite         *font.SpriteAsset
	IsFallback     bool
	Spill          int // 0 for the first reference of a key
	ReferenceCount int
}

// MaterialTable collects the material references of a layout pass.
type MaterialTable struct {
	refs    []MaterialReference
	current map[MaterialKey]int // reference receiving new quads, per key
}

// Reset empties the table.
func (mt *MaterialTable) Reset() {
	mt.refs = mt.refs[:0]
	if mt.current == nil {
		mt.current = make(map[MaterialKey]int)
	}
	for k := range mt.current {
		delete(mt.current, k)
	}
}

// Add counts a quad for the material of e and returns the index of the
// reference it belongs to. If the reference of the material is full, a
// spill reference is created.
func (mt *MaterialTable) Add(e font.TextElement, fallback bool) int {
	if mt.current == nil {
		mt.current = make(map[MaterialKey]int)
	}
	key := MaterialKey{Material: e.Material()}
	if e.Glyph != nil {
		key.AtlasIndex = e.Glyph.AtlasIndex
	}
	i, ok := mt.current[key]
	if ok && mt.refs[i].ReferenceCount >= MaxQuadsPerMesh {
		tracer().Debugf("material %d/%d is full, spill %d", key.Material, key.AtlasIndex,
			mt.refs[i].Spill+1)
		i = mt.create(key, e, fallback, mt.refs[i].Spill+1)
	} else if !ok {
		i = mt.create(key, e, fallback, 0)
	}
	mt.refs[i].ReferenceCount++
	return i
}

func (mt *MaterialTable) create(key MaterialKey, e font.TextElement, fallback bool, spill int) int {
	mt.refs = append(mt.refs, MaterialReference{
		Key:        key,
		AssetName:  e.AssetName(),
		Font:       e.Font,
		Sprite:     e.Sprite,
		IsFallback: fallback,
		Spill:      spill,
	})
	i := len(mt.refs) - 1
	mt.current[key] = i
	return i
}

// Len returns the number of references.
func (mt *MaterialTable) Len() int {
	return len(mt.refs)
}

// At returns a reference.
func (mt *MaterialTable) At(i int) MaterialReference {
	return mt.refs[i]
}

// References returns all references. The slice must not be modified.
func (mt *MaterialTable) References() []MaterialReference {
	return mt.refs
}
