package mesh

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
)

// Triangles returns the facets as sdfx triangles in output units.
func (m *Mesh) Triangles() ([]*sdf.Triangle3, error) {
	facets, err := m.Facets()
	if err != nil {
		return nil, err
	}
	tris := make([]*sdf.Triangle3, len(facets))
	for i, f := range facets {
		tris[i] = &sdf.Triangle3{f.Vertices[0], f.Vertices[1], f.Vertices[2]}
	}
	return tris, nil
}

// SaveBinary writes the mesh to path as a binary STL file using the sdfx
// writer. The writer derives each normal from the triangle winding, which
// matches the face normal for consistently wound faces.
func (m *Mesh) SaveBinary(path string) error {
	tris, err := m.Triangles()
	if err != nil {
		return err
	}
	if err := render.SaveSTL(path, tris); err != nil {
		return fmt.Errorf("mesh: save binary stl %s: %w", path, err)
	}
	return nil
}
