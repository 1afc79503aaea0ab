package textinfo

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textmesh/core/font"
	"github.com/npillmayer/textmesh/core/font/fonttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapacity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	assert.Equal(t, 0, Capacity(0))
	assert.Equal(t, 1, Capacity(1))
	assert.Equal(t, 8, Capacity(5))
	assert.Equal(t, 1024, Capacity(1000))
	assert.Equal(t, 1024, Capacity(1024))
	assert.Equal(t, 1280, Capacity(1025))
	assert.Equal(t, 1536, Capacity(1281))
}

func TestReserve(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	buf := Reserve([]int(nil), 3, false)
	assert.Len(t, buf, 4)
	buf[2] = 7
	buf = Reserve(buf, 100, false)
	assert.Len(t, buf, 128)
	assert.Equal(t, 7, buf[2])
	same := Reserve(buf, 10, false)
	assert.Len(t, same, 128, "no shrinking unless requested")
	same = Reserve(buf, 10, true)
	assert.Len(t, same, 128, "slack below threshold")
	big := Reserve([]int(nil), 2000, false)
	assert.Len(t, big, 2048)
	small := Reserve(big, 10, true)
	assert.Len(t, small, 16)
}

func TestMaterialSpills(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	f := fonttest.NewAsset("mono", "AB")
	c, ok := f.Character('A')
	require.True(t, ok)
	e := font.NewCharacterElement(f, c)
	var mt MaterialTable
	mt.Reset()
	for i := 0; i < 2*MaxQuadsPerMesh+1; i++ {
		mt.Add(e, false)
	}
	require.Equal(t, 3, mt.Len())
	for i, ref := range mt.References() {
		assert.Equal(t, i, ref.Spill)
		assert.Equal(t, f.Material, ref.Key.Material)
		assert.LessOrEqual(t, ref.ReferenceCount, MaxQuadsPerMesh)
	}
	assert.Equal(t, 1, mt.At(2).ReferenceCount)
	icons := fonttest.Sprites()
	s, _ := icons.SpriteAt(0)
	assert.Equal(t, 3, mt.Add(font.NewSpriteElement(icons, s), true))
	assert.True(t, mt.At(3).IsFallback)
	mt.Reset()
	assert.Equal(t, 0, mt.Len())
	assert.Equal(t, 0, mt.Add(e, false))
}

func TestMeshBuffers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	var m MeshInfo
	m.Reserve(3, false)
	assert.Equal(t, 4, m.Capacity())
	assert.Len(t, m.Vertices, 16)
	assert.Equal(t, []uint16{4, 5, 6, 6, 7, 4}, m.Triangles[6:12])
	assert.Equal(t, 12, m.VertexCount())
	m.Reserve(MaxQuadsPerMesh, false)
	assert.Equal(t, MaxQuadsPerMesh, m.Capacity())
	last := m.Triangles[len(m.Triangles)-6:]
	assert.Equal(t, uint16(4*(MaxQuadsPerMesh-1)+3), last[4])
	m.Reserve(2, true)
	assert.Equal(t, 2, m.Capacity())
	assert.Panics(t, func() { m.Reserve(MaxQuadsPerMesh+1, false) })
}

func TestClearKeepsBuffers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.layout")
	defer teardown()
	//
	ti := New()
	ti.ReserveCharacters(10, false)
	ti.CharacterCount = 10
	ti.LineCount = 2
	ti.Characters[3].Unicode = 'x'
	ti.Characters[3].IsVisible = true
	assert.Equal(t, "x", ti.VisibleText())
	ti.Clear()
	assert.Equal(t, 0, ti.CharacterCount)
	assert.Equal(t, 0, ti.LineCount)
	assert.Len(t, ti.Characters, 16)
	assert.True(t, ti.Bounds.IsEmpty())
}
