package mesh

// Buffers is a flat triangle mesh suitable for a renderer or JSON export.
// Vertices and Normals hold 3 floats per vertex, Indices 3 per triangle.
// Every facet gets its own three vertices so normals stay flat.
type Buffers struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
}

// VertexCount returns the number of vertices.
func (b *Buffers) VertexCount() int {
	return len(b.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (b *Buffers) TriangleCount() int {
	return len(b.Indices) / 3
}

// IsEmpty returns true if the buffers hold no geometry.
func (b *Buffers) IsEmpty() bool {
	return len(b.Vertices) == 0
}

// Buffers flattens the facets of m into render buffers tagged with name.
func (m *Mesh) Buffers(name string) (*Buffers, error) {
	facets, err := m.Facets()
	if err != nil {
		return nil, err
	}

	numVerts := len(facets) * 3
	b := &Buffers{
		Vertices: make([]float32, 0, numVerts*3),
		Normals:  make([]float32, 0, numVerts*3),
		Indices:  make([]uint32, 0, numVerts),
		PartName: name,
	}
	for i, f := range facets {
		nx, ny, nz := float32(f.Normal.X), float32(f.Normal.Y), float32(f.Normal.Z)
		for j, v := range f.Vertices {
			b.Vertices = append(b.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			b.Normals = append(b.Normals, nx, ny, nz)
			b.Indices = append(b.Indices, uint32(i*3+j))
		}
	}
	return b, nil
}
