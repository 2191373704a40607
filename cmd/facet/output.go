package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/facet/internal/config"
	"github.com/chazu/facet/pkg/engine"
	"gopkg.in/yaml.v3"
)

// colorPalette assigns distinct display colors to solids in JSON output.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// MeshData is one solid's render buffers in JSON output.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// WarningData is a JSON-serializable solid warning.
type WarningData struct {
	Solid   string `json:"solid"`
	Message string `json:"message"`
}

// Document is the JSON output format.
type Document struct {
	Meshes   []MeshData    `json:"meshes"`
	Warnings []WarningData `json:"warnings"`
}

func logWarning(solid, msg string) {
	log.Printf("warning: solid %q: %s", solid, msg)
}

// writeSolids writes solids in the configured format. stdout is used when
// the output path is empty or "-".
func writeSolids(stdout io.Writer, out config.OutputConfig, solids []engine.Solid, warnings []engine.EvalWarning) error {
	switch out.Format {
	case config.FormatBinary:
		return writeBinary(out.Path, solids)
	case config.FormatJSON:
		doc, err := newDocument(solids, warnings)
		if err != nil {
			return err
		}
		return withOutput(stdout, out.Path, func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		})
	case config.FormatASCII:
		return withOutput(stdout, out.Path, func(w io.Writer) error {
			for _, s := range solids {
				if err := s.Mesh.WriteASCII(w, s.Name); err != nil {
					return fmt.Errorf("solid %q: %w", s.Name, err)
				}
			}
			return nil
		})
	}
	return fmt.Errorf("unknown output format %q", out.Format)
}

// writeBinary saves one binary STL per solid. With several solids each
// file name gets the solid name appended.
func writeBinary(path string, solids []engine.Solid) error {
	if path == "" || path == "-" {
		return fmt.Errorf("binary output needs a file path")
	}
	for _, s := range solids {
		p := path
		if len(solids) > 1 {
			ext := filepath.Ext(path)
			p = strings.TrimSuffix(path, ext) + "-" + s.Name + ext
		}
		if err := s.Mesh.SaveBinary(p); err != nil {
			return fmt.Errorf("solid %q: %w", s.Name, err)
		}
	}
	return nil
}

func newDocument(solids []engine.Solid, warnings []engine.EvalWarning) (*Document, error) {
	doc := &Document{
		Meshes:   []MeshData{},
		Warnings: []WarningData{},
	}
	for i, s := range solids {
		b, err := s.Mesh.Buffers(s.Name)
		if err != nil {
			return nil, fmt.Errorf("solid %q: %w", s.Name, err)
		}
		doc.Meshes = append(doc.Meshes, MeshData{
			Vertices: b.Vertices,
			Normals:  b.Normals,
			Indices:  b.Indices,
			PartName: b.PartName,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}
	for _, w := range warnings {
		doc.Warnings = append(doc.Warnings, WarningData{Solid: w.Solid, Message: w.Message})
	}
	return doc, nil
}

func withOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
