package font

import "sort"

// ValueRecord is a positioning adjustment in layout units at the asset's
// point size.
type ValueRecord struct {
	XPlacement float32
	YPlacement float32
	XAdvance   float32
	YAdvance   float32
}

// IsZero is true if the record does not adjust anything.
func (v ValueRecord) IsZero() bool {
	return v == ValueRecord{}
}

// PairAdjustment adjusts the positions of two adjacent glyphs.
type PairAdjustment struct {
	First         uint32 // glyph index of the first glyph
	Second        uint32 // glyph index of the second glyph
	FirstAdjust   ValueRecord
	SecondAdjust  ValueRecord
	IgnoreSpacing bool // suppress character spacing between the pair
}

// PairKey is the lookup key of a glyph pair: the second glyph's index in the
// upper 16 bits, the first glyph's in the lower.
func PairKey(first, second uint32) uint32 {
	return second<<16 | first&0xFFFF
}

// Ligature replaces a sequence of glyphs by a single glyph.
type Ligature struct {
	Components []uint32
	Glyph      uint32
}

// Anchor is an attachment point relative to a glyph's origin.
type Anchor struct {
	X, Y float32
}

// MarkAttachment positions a mark glyph relative to a base glyph (or a
// preceding mark). MarkAdjust holds the mark's own anchor, which is moved
// onto BaseAnchor.
type MarkAttachment struct {
	Base       uint32
	Mark       uint32
	BaseAnchor Anchor
	MarkAdjust ValueRecord
}

// MarkKey is the lookup key of a mark attachment.
func MarkKey(mark, base uint32) uint32 {
	return mark<<16 | base&0xFFFF
}

// FeatureTable holds the positioning and substitution features of an asset.
// It is populated while loading the asset and read-only afterwards.
type FeatureTable struct {
	Pairs      map[uint32]PairAdjustment
	Ligatures  map[uint32][]Ligature // by first component, longest first
	MarkToBase map[uint32]MarkAttachment
	MarkToMark map[uint32]MarkAttachment
}

// NewFeatureTable creates an empty feature table.
func NewFeatureTable() *FeatureTable {
	return &FeatureTable{
		Pairs:      make(map[uint32]PairAdjustment),
		Ligatures:  make(map[uint32][]Ligature),
		MarkToBase: make(map[uint32]MarkAttachment),
		MarkToMark: make(map[uint32]MarkAttachment),
	}
}

// AddPair stores a pair adjustment, replacing an existing one.
func (ft *FeatureTable) AddPair(p PairAdjustment) {
	ft.Pairs[PairKey(p.First, p.Second)] = p
}

// Pair looks up the adjustment for a glyph pair.
func (ft *FeatureTable) Pair(first, second uint32) (PairAdjustment, bool) {
	if ft == nil {
		return PairAdjustment{}, false
	}
	p, ok := ft.Pairs[PairKey(first, second)]
	return p, ok
}

// AddLigature stores a ligature. Ligatures with fewer than two components
// are ignored.
func (ft *FeatureTable) AddLigature(lig Ligature) {
	if len(lig.Components) < 2 {
		return
	}
	first := lig.Components[0]
	ligs := ft.Ligatures[first]
	for i, l := range ligs {
		if equalComponents(l.Components, lig.Components) {
			ligs[i] = lig
			return
		}
	}
	ligs = append(ligs, lig)
	sort.SliceStable(ligs, func(i, j int) bool {
		return len(ligs[i].Components) > len(ligs[j].Components)
	})
	ft.Ligatures[first] = ligs
}

// MatchLigature finds the longest ligature whose components are a prefix
// of glyphs.
func (ft *FeatureTable) MatchLigature(glyphs []uint32) (Ligature, bool) {
	if ft == nil || len(glyphs) < 2 {
		return Ligature{}, false
	}
	for _, lig := range ft.Ligatures[glyphs[0]] {
		if len(lig.Components) > len(glyphs) {
			continue
		}
		if equalComponents(lig.Components, glyphs[:len(lig.Components)]) {
			return lig, true
		}
	}
	return Ligature{}, false
}

// MaxLigatureLength returns the number of components of the longest
// ligature starting with glyph first, or 0.
func (ft *FeatureTable) MaxLigatureLength(first uint32) int {
	if ft == nil {
		return 0
	}
	if ligs := ft.Ligatures[first]; len(ligs) > 0 {
		return len(ligs[0].Components)
	}
	return 0
}

// AddMarkToBase stores a mark-to-base attachment.
func (ft *FeatureTable) AddMarkToBase(m MarkAttachment) {
	ft.MarkToBase[MarkKey(m.Mark, m.Base)] = m
}

// AddMarkToMark stores a mark-to-mark attachment, Base being the
// preceding mark.
func (ft *FeatureTable) AddMarkToMark(m MarkAttachment) {
	ft.MarkToMark[MarkKey(m.Mark, m.Base)] = m
}

// MarkToBaseFor looks up the attachment of a mark to a base glyph.
func (ft *FeatureTable) MarkToBaseFor(mark, base uint32) (MarkAttachment, bool) {
	if ft == nil {
		return MarkAttachment{}, false
	}
	m, ok := ft.MarkToBase[MarkKey(mark, base)]
	return m, ok
}

// MarkToMarkFor looks up the attachment of a mark to a preceding mark.
func (ft *FeatureTable) MarkToMarkFor(mark, baseMark uint32) (MarkAttachment, bool) {
	if ft == nil {
		return MarkAttachment{}, false
	}
	m, ok := ft.MarkToMark[MarkKey(mark, baseMark)]
	return m, ok
}

func equalComponents(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
