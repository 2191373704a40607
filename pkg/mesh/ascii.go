package mesh

import (
	"bufio"
	"fmt"
	"io"
)

// DefaultSolidName is used by WriteASCII when name is empty.
const DefaultSolidName = "facet"

// WriteASCII writes the mesh as one ASCII STL solid. Numbers use %e
// notation. Nothing is written if a facet normal cannot be computed.
func (m *Mesh) WriteASCII(w io.Writer, name string) error {
	facets, err := m.Facets()
	if err != nil {
		return err
	}
	return WriteFacetsASCII(w, name, facets)
}

// WriteFacetsASCII writes facets as one ASCII STL solid.
func WriteFacetsASCII(w io.Writer, name string, facets []Facet) error {
	if name == "" {
		name = DefaultSolidName
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", name)
	for _, f := range facets {
		fmt.Fprintf(bw, "    facet normal %e %e %e\n", f.Normal.X, f.Normal.Y, f.Normal.Z)
		fmt.Fprintf(bw, "        outer loop\n")
		for _, v := range f.Vertices {
			fmt.Fprintf(bw, "            vertex %e %e %e\n", v.X, v.Y, v.Z)
		}
		fmt.Fprintf(bw, "        endloop\n")
		fmt.Fprintf(bw, "    endfacet\n")
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("mesh: write ascii stl: %w", err)
	}
	return nil
}
