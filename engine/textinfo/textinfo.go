package textinfo

import (
	"github.com/npillmayer/textmesh/core/dimen"
)

// TextInfo is the result of a layout pass. Slices are allocated by the
// growth policy, the counts tell how many entries are in use.
type TextInfo struct {
	Characters     []CharacterRecord
	Words          []WordRecord
	Lines          []LineRecord
	Pages          []PageRecord
	Links          []LinkInfo
	Overflows      []OverflowEvent
	Decorations    []DecorationRun
	Materials      MaterialTable
	Meshes         []MeshInfo // one per material reference
	DecorationMesh MeshInfo
	CharacterCount int
	SpaceCount     int
	WordCount      int
	LineCount      int
	PageCount      int
	LinkCount      int
	Bounds         dimen.Extents // of visible glyph quads
	PointSize      float32       // size used, after auto-sizing
}

// New creates an empty text info.
func New() *TextInfo {
	ti := &TextInfo{}
	ti.Clear()
	return ti
}

// Clear resets all counts without releasing buffers.
func (ti *TextInfo) Clear() {
	ti.CharacterCount = 0
	ti.SpaceCount = 0
	ti.WordCount = 0
	ti.LineCount = 0
	ti.PageCount = 0
	ti.LinkCount = 0
	ti.Overflows = ti.Overflows[:0]
	ti.Decorations = ti.Decorations[:0]
	ti.Materials.Reset()
	for i := range ti.Meshes {
		ti.Meshes[i].QuadCount = 0
	}
	ti.DecorationMesh.QuadCount = 0
	ti.Bounds = dimen.EmptyExtents()
}

// ClearMeshes zeroes all vertices, leaving the tables intact.
func (ti *TextInfo) ClearMeshes() {
	for i := range ti.Meshes {
		ti.Meshes[i].QuadCount = 0
		ti.Meshes[i].ClearUnused()
	}
	ti.DecorationMesh.QuadCount = 0
	ti.DecorationMesh.ClearUnused()
}

// ReserveCharacters makes room for n character records.
func (ti *TextInfo) ReserveCharacters(n int, shrink bool) {
	ti.Characters = Reserve(ti.Characters, n, shrink)
}

// ReserveLines makes room for n line records.
func (ti *TextInfo) ReserveLines(n int) {
	ti.Lines = Reserve(ti.Lines, n, false)
}

// ReservePages makes room for n page records.
func (ti *TextInfo) ReservePages(n int) {
	ti.Pages = Reserve(ti.Pages, n, false)
}

// ReserveWords makes room for n word records.
func (ti *TextInfo) ReserveWords(n int) {
	ti.Words = Reserve(ti.Words, n, false)
}

// ReserveLinks makes room for n links.
func (ti *TextInfo) ReserveLinks(n int) {
	ti.Links = Reserve(ti.Links, n, false)
}

// ReserveMeshes sizes one mesh per material reference; mesh i gets
// quads[i] quads.
func (ti *TextInfo) ReserveMeshes(quads []int, shrink bool) {
	if len(ti.Meshes) < len(quads) {
		m := make([]MeshInfo, len(quads))
		copy(m, ti.Meshes)
		ti.Meshes = m
	}
	for i := range ti.Meshes {
		n := 0
		if i < len(quads) {
			n = quads[i]
		}
		ti.Meshes[i].Reserve(n, shrink)
	}
	if shrink && len(ti.Meshes) > len(quads) {
		ti.Meshes = ti.Meshes[:len(quads)]
	}
}

// MeshCount returns the number of meshes in use.
func (ti *TextInfo) MeshCount() int {
	return ti.Materials.Len()
}

// VisibleText returns the visible characters in order.
func (ti *TextInfo) VisibleText() string {
	runes := make([]rune, 0, ti.CharacterCount)
	for i := 0; i < ti.CharacterCount; i++ {
		if ti.Characters[i].IsVisible {
			runes = append(runes, ti.Characters[i].Unicode)
		}
	}
	return string(runes)
}

// LineOf returns the line containing character i, or -1.
func (ti *TextInfo) LineOf(i int) int {
	for l := 0; l < ti.LineCount; l++ {
		if ti.Lines[l].FirstCharacterIndex <= i && i <= ti.Lines[l].LastCharacterIndex {
			return l
		}
	}
	return -1
}
