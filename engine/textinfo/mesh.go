package textinfo

import (
	"image/color"

	"github.com/npillmayer/textmesh/core/dimen"
)

// MeshInfo holds the vertex buffers of one material. Every quad has four
// vertices (bottom-left, top-left, top-right, bottom-right) and two
// triangles.
type MeshInfo struct {
	Vertices  []dimen.Vec3
	UV0       []dimen.Vec4 // atlas coordinates, W holds the SDF scale
	UV2       []dimen.Vec2
	Colors    []color.RGBA
	Triangles []uint16
	QuadCount int
	capacity  int // quads
}

// Reserve sizes the buffers for n quads by the allocation policy and
// sets the quad count to n. Buffer contents are not preserved.
func (m *MeshInfo) Reserve(n int, shrink bool) {
	if n > MaxQuadsPerMesh {
		panic("mesh quad count exceeds 16-bit vertex index range") // material table spills before
	}
	c := m.capacity
	if n > c || (shrink && c-n > maxSlack) {
		c = Capacity(n)
		if c > MaxQuadsPerMesh {
			c = MaxQuadsPerMesh
		}
	}
	if c != m.capacity {
		m.Vertices = make([]dimen.Vec3, 4*c)
		m.UV0 = make([]dimen.Vec4, 4*c)
		m.UV2 = make([]dimen.Vec2, 4*c)
		m.Colors = make([]color.RGBA, 4*c)
		m.Triangles = make([]uint16, 6*c)
		for q := 0; q < c; q++ {
			v := uint16(4 * q)
			copy(m.Triangles[6*q:], []uint16{v, v + 1, v + 2, v + 2, v + 3, v})
		}
		m.capacity = c
	}
	m.QuadCount = n
}

// Capacity returns the number of quads the buffers can hold.
func (m *MeshInfo) Capacity() int {
	return m.capacity
}

// VertexCount returns the number of vertices in use.
func (m *MeshInfo) VertexCount() int {
	return 4 * m.QuadCount
}

// ClearUnused zeroes the vertices behind the quads in use.
func (m *MeshInfo) ClearUnused() {
	for i := 4 * m.QuadCount; i < len(m.Vertices); i++ {
		m.Vertices[i] = dimen.Vec3{}
	}
}

// SetQuad writes quad q.
func (m *MeshInfo) SetQuad(q int, pos [4]dimen.Vec3, uv0 [4]dimen.Vec4, uv2 [4]dimen.Vec2, c [4]color.RGBA) {
	v := 4 * q
	copy(m.Vertices[v:v+4], pos[:])
	copy(m.UV0[v:v+4], uv0[:])
	copy(m.UV2[v:v+4], uv2[:])
	copy(m.Colors[v:v+4], c[:])
}
