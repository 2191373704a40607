// Package mesh builds closed polyhedral surfaces from a vertex list and
// convex face loops, and serializes them as triangulated STL.
//
// Vertices are shifted at construction so that no coordinate is negative.
// Faces are fan-triangulated from their first vertex and flat shaded with
// the normal of their first three vertices. Coordinates are scaled from
// inches to millimeters only when facets are emitted.
package mesh

import (
	"errors"
	"fmt"

	"github.com/chazu/facet/pkg/vecmath"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// InchesToMillimeters is the scale applied to every emitted coordinate.
const InchesToMillimeters = 25.4

// Mesh is an immutable set of vertices and face loops.
type Mesh struct {
	vertices []v3.Vec
	faces    [][]int
	offset   v3.Vec
	warnings []ValidationError
}

// Facet is one emitted triangle in output units.
type Facet struct {
	Normal   v3.Vec
	Vertices [3]v3.Vec
}

// New copies vertices and faces into a Mesh. Each face is an ordered loop
// of at least three indices into vertices describing a planar convex
// polygon. Any axis whose minimum coordinate is negative is shifted so
// that minimum becomes 0; other axes are left alone.
//
// Structural problems (short faces, out-of-range indices, collinear
// leading vertices) fail construction. Non-blocking findings are kept and
// returned by Warnings.
func New(vertices []v3.Vec, faces [][]int) (*Mesh, error) {
	var errs []error
	var warnings []ValidationError
	for _, f := range Validate(vertices, faces) {
		if f.Severity == SeverityError {
			errs = append(errs, f)
			continue
		}
		warnings = append(warnings, f)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("mesh: %w", errors.Join(errs...))
	}

	var lo v3.Vec
	for _, v := range vertices {
		lo.X = min(lo.X, v.X)
		lo.Y = min(lo.Y, v.Y)
		lo.Z = min(lo.Z, v.Z)
	}
	offset := v3.Vec{}.Sub(lo)

	m := &Mesh{
		vertices: make([]v3.Vec, len(vertices)),
		faces:    make([][]int, len(faces)),
		offset:   offset,
		warnings: warnings,
	}
	for i, v := range vertices {
		m.vertices[i] = v.Add(offset)
	}
	for i, f := range faces {
		m.faces[i] = append([]int(nil), f...)
	}
	return m, nil
}

// Vertices returns a copy of the shifted vertices.
func (m *Mesh) Vertices() []v3.Vec {
	return append([]v3.Vec(nil), m.vertices...)
}

// Faces returns a copy of the face loops.
func (m *Mesh) Faces() [][]int {
	out := make([][]int, len(m.faces))
	for i, f := range m.faces {
		out[i] = append([]int(nil), f...)
	}
	return out
}

// Offset returns the translation that was added to every input vertex.
func (m *Mesh) Offset() v3.Vec { return m.offset }

// Warnings returns the non-blocking validation findings from New.
func (m *Mesh) Warnings() []ValidationError { return m.warnings }

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.vertices) }

// FaceCount returns the number of face loops.
func (m *Mesh) FaceCount() int { return len(m.faces) }

// TriangleCount returns the number of facets the mesh emits, the sum of
// len(face)-2 over all faces.
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, f := range m.faces {
		n += len(f) - 2
	}
	return n
}

// BoundingBox returns the axis-aligned bounds of the shifted vertices in
// model units.
func (m *Mesh) BoundingBox() (lo, hi v3.Vec) {
	if len(m.vertices) == 0 {
		return lo, hi
	}
	lo, hi = m.vertices[0], m.vertices[0]
	for _, v := range m.vertices[1:] {
		lo = v3.Vec{X: min(lo.X, v.X), Y: min(lo.Y, v.Y), Z: min(lo.Z, v.Z)}
		hi = v3.Vec{X: max(hi.X, v.X), Y: max(hi.Y, v.Y), Z: max(hi.Z, v.Z)}
	}
	return lo, hi
}

// FaceNormal returns normalize((p1-p0) × (p2-p1)) for the first three
// vertices of face i.
func (m *Mesh) FaceNormal(i int) (v3.Vec, error) {
	f := m.faces[i]
	p0, p1, p2 := m.vertices[f[0]], m.vertices[f[1]], m.vertices[f[2]]
	n, err := vecmath.Normalize(p1.Sub(p0).Cross(p2.Sub(p1)))
	if err != nil {
		return v3.Vec{}, fmt.Errorf("face %d normal: %w", i, err)
	}
	return n, nil
}

// Facets fan-triangulates every face into (0, i, i+1) triangles scaled by
// InchesToMillimeters. All triangles of a face share its normal. Either
// every facet is returned or none is.
func (m *Mesh) Facets() ([]Facet, error) {
	facets := make([]Facet, 0, m.TriangleCount())
	for i, f := range m.faces {
		n, err := m.FaceNormal(i)
		if err != nil {
			return nil, fmt.Errorf("mesh: %w", err)
		}
		v0 := m.vertices[f[0]].MulScalar(InchesToMillimeters)
		for j := 1; j < len(f)-1; j++ {
			facets = append(facets, Facet{
				Normal: n,
				Vertices: [3]v3.Vec{
					v0,
					m.vertices[f[j]].MulScalar(InchesToMillimeters),
					m.vertices[f[j+1]].MulScalar(InchesToMillimeters),
				},
			})
		}
	}
	return facets, nil
}
