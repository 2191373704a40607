// Package scene builds complete parts from symbolic construction
// parameters using the geom and mesh packages.
package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/mesh"
	"github.com/chazu/facet/pkg/vecmath"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrInvalidParameter is returned for enclosure parameters that cannot
// produce a closed solid.
var ErrInvalidParameter = errors.New("invalid enclosure parameter")

// Enclosure describes a faceted enclosure: a parallelogram front face in
// the z=0 plane, four side planes hinged on its edges, and a floor plane
// Depth below the front. Lengths are in inches.
type Enclosure struct {
	Width  float64 `mapstructure:"width" yaml:"width"`   // bottom and top edge of the front
	Height float64 `mapstructure:"height" yaml:"height"` // front height along Y
	Depth  float64 `mapstructure:"depth" yaml:"depth"`   // distance from front to floor
	Lean   float64 `mapstructure:"lean" yaml:"lean"`     // angle of the slanted front edges, radians
	Tilt   float64 `mapstructure:"tilt" yaml:"tilt"`     // rotation of each side normal about its edge, radians
}

// Vertex order of Enclosure meshes: the front corners w, x, y, z, then the
// floor corners s, t, u, v below them.
const (
	CornerW = iota
	CornerX
	CornerY
	CornerZ
	CornerS
	CornerT
	CornerU
	CornerV
)

// EnclosureFaces are the six face loops of an enclosure, wound so their
// normals point outward.
var EnclosureFaces = [][]int{
	{CornerZ, CornerY, CornerX, CornerW}, // front
	{CornerS, CornerT, CornerU, CornerV}, // floor
	{CornerX, CornerT, CornerS, CornerW},
	{CornerY, CornerU, CornerT, CornerX},
	{CornerZ, CornerV, CornerU, CornerY},
	{CornerW, CornerS, CornerV, CornerZ},
}

// DefaultEnclosure returns the reference part: a 22 x 14 front leaning at
// 60 degrees, 5 deep, with sides tilted by -120 degrees.
func DefaultEnclosure() Enclosure {
	return Enclosure{
		Width:  22,
		Height: 14,
		Depth:  5,
		Lean:   math.Pi / 3,
		Tilt:   -2 * math.Pi / 3,
	}
}

// Validate reports parameters that cannot describe a closed enclosure.
func (e Enclosure) Validate() error {
	switch {
	case !(e.Width > 0):
		return fmt.Errorf("%w: width %g must be positive", ErrInvalidParameter, e.Width)
	case !(e.Height > 0):
		return fmt.Errorf("%w: height %g must be positive", ErrInvalidParameter, e.Height)
	case !(e.Depth > 0):
		return fmt.Errorf("%w: depth %g must be positive", ErrInvalidParameter, e.Depth)
	case !(e.Lean > 0 && e.Lean < math.Pi):
		return fmt.Errorf("%w: lean %g must be in (0, pi)", ErrInvalidParameter, e.Lean)
	case math.Abs(math.Sin(e.Tilt)) <= geom.ParallelTolerance:
		return fmt.Errorf("%w: tilt %g leaves the sides parallel to the front", ErrInvalidParameter, e.Tilt)
	}
	return nil
}

// Front returns the four front corners w, x, y, z.
func (e Enclosure) Front() [4]v3.Vec {
	dx := e.Height / math.Tan(e.Lean)
	return [4]v3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: dx, Y: e.Height, Z: 0},
		{X: e.Width + dx, Y: e.Height, Z: 0},
		{X: e.Width, Y: 0, Z: 0},
	}
}

// Corners returns all eight corners in Corner* order. The floor corners
// are found by intersecting adjacent side planes and then the floor.
func (e Enclosure) Corners() ([]v3.Vec, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	front := e.Front()
	w, x, y, z := front[0], front[1], front[2], front[3]

	frontNormal, err := vecmath.Normalize(w.Sub(x).Cross(y.Sub(x)))
	if err != nil {
		return nil, fmt.Errorf("front normal: %w", err)
	}

	// Each side plane contains one front edge.
	edges := []struct {
		from, to v3.Vec
	}{
		{x, y}, // xy
		{y, z}, // yz
		{z, w}, // zw
		{w, x}, // wx
	}
	sides := make([]geom.Plane, len(edges))
	for i, edge := range edges {
		n, err := vecmath.Rotate(frontNormal, edge.to.Sub(edge.from), e.Tilt)
		if err != nil {
			return nil, fmt.Errorf("side %d normal: %w", i, err)
		}
		sides[i], err = geom.NewPlane(edge.from, n)
		if err != nil {
			return nil, fmt.Errorf("side %d: %w", i, err)
		}
	}
	xy, yz, zw, wx := sides[0], sides[1], sides[2], sides[3]

	floor, err := geom.NewPlane(v3.Vec{Z: -e.Depth}, v3.Vec{Z: 1})
	if err != nil {
		return nil, err
	}

	s, err := corner(zw, wx, floor)
	if err != nil {
		return nil, fmt.Errorf("corner s: %w", err)
	}
	t, err := corner(wx, xy, floor)
	if err != nil {
		return nil, fmt.Errorf("corner t: %w", err)
	}
	u, err := corner(xy, yz, floor)
	if err != nil {
		return nil, fmt.Errorf("corner u: %w", err)
	}
	v, err := corner(yz, zw, floor)
	if err != nil {
		return nil, fmt.Errorf("corner v: %w", err)
	}
	return []v3.Vec{w, x, y, z, s, t, u, v}, nil
}

// corner intersects two planes and the resulting edge with the floor.
func corner(a, b, floor geom.Plane) (v3.Vec, error) {
	edge, err := geom.Intersect(a, b)
	if err != nil {
		return v3.Vec{}, err
	}
	pt, err := geom.Intersect(edge, floor)
	if err != nil {
		return v3.Vec{}, err
	}
	return pt.(geom.Point).Pos, nil
}

// Build returns the enclosure mesh.
func (e Enclosure) Build() (*mesh.Mesh, error) {
	corners, err := e.Corners()
	if err != nil {
		return nil, fmt.Errorf("scene: enclosure: %w", err)
	}
	m, err := mesh.New(corners, EnclosureFaces)
	if err != nil {
		return nil, fmt.Errorf("scene: enclosure: %w", err)
	}
	return m, nil
}
