package course

import "github.com/go-gl/mathgl/mgl64"

// Mesh is a triangulated heightfield with one vertex per cell.
type Mesh struct {
	Vertices []mgl64.Vec3
	Normals  []mgl64.Vec3
	Surfaces []Zone
	Indices  []uint32
}

func buildMesh(cells []Cell, width, depth int, cellSize float64) *Mesh {
	stride := width + 1
	mesh := &Mesh{
		Vertices: make([]mgl64.Vec3, len(cells)),
		Normals:  make([]mgl64.Vec3, len(cells)),
		Surfaces: make([]Zone, len(cells)),
		Indices:  make([]uint32, 0, width*depth*6),
	}

	for row := 0; row <= depth; row++ {
		for col := 0; col <= width; col++ {
			idx := row*stride + col
			cell := cells[idx]
			mesh.Vertices[idx] = mgl64.Vec3{float64(col) * cellSize, cell.Height, float64(row) * cellSize}
			mesh.Surfaces[idx] = cell.Zone.Surface()
		}
	}

	for row := 0; row < depth; row++ {
		for col := 0; col < width; col++ {
			i0 := uint32(row*stride + col)
			i1 := i0 + 1
			i2 := i0 + uint32(stride)
			i3 := i2 + 1
			mesh.addTriangle(i0, i2, i1)
			mesh.addTriangle(i1, i2, i3)
		}
	}

	for i, n := range mesh.Normals {
		if n.Len() == 0 {
			mesh.Normals[i] = mgl64.Vec3{0, 1, 0}
			continue
		}
		mesh.Normals[i] = n.Normalize()
	}
	return mesh
}

// addTriangle appends indices and accumulates the face normal, wound so a
// flat field faces +Y.
func (m *Mesh) addTriangle(a, b, c uint32) {
	m.Indices = append(m.Indices, a, b, c)
	va, vb, vc := m.Vertices[a], m.Vertices[b], m.Vertices[c]
	face := vb.Sub(va).Cross(vc.Sub(va))
	m.Normals[a] = m.Normals[a].Add(face)
	m.Normals[b] = m.Normals[b].Add(face)
	m.Normals[c] = m.Normals[c].Add(face)
}

// TriangleCount is the number of triangles in the mesh. A nil mesh has none.
func (m *Mesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Indices) / 3
}
