package geom

import (
	"fmt"
	"math"

	"github.com/chazu/facet/pkg/vecmath"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Plane is an infinite plane through a member point. The normal is always
// unit length; the zero Plane is not usable, build planes with NewPlane or
// PlaneThrough.
type Plane struct {
	member v3.Vec
	normal v3.Vec
}

// NewPlane returns the plane through member perpendicular to normal. The
// normal is normalized; a near-zero normal fails with a
// vecmath.DegenerateVectorError.
func NewPlane(member, normal v3.Vec) (Plane, error) {
	n, err := vecmath.Normalize(normal)
	if err != nil {
		return Plane{}, fmt.Errorf("plane normal: %w", err)
	}
	return Plane{member: member, normal: n}, nil
}

// PlaneThrough returns the plane containing l and member. The normal is
// (member - l.Member()) × l.Direction(), so it fails when member lies on l.
func PlaneThrough(l Line, member v3.Vec) (Plane, error) {
	n, err := vecmath.Normalize(member.Sub(l.member).Cross(l.direction))
	if err != nil {
		return Plane{}, fmt.Errorf("plane through line: point lies on the line: %w", err)
	}
	return Plane{member: member, normal: n}, nil
}

// Member returns the point the plane was built from.
func (p Plane) Member() v3.Vec { return p.member }

// Normal returns the unit normal.
func (p Plane) Normal() v3.Vec { return p.normal }

// SignedDistance returns the distance of x from the plane, positive on the
// side the normal points to.
func (p Plane) SignedDistance(x v3.Vec) float64 {
	return x.Sub(p.member).Dot(p.normal)
}

// IntersectLine returns the point where l crosses p.
//
// With x1 = l.Member(), x2 = x1 + l.Direction() and the plane's x0, n the
// parameter is m = (x0-x1)·n / (x2-x1)·n.
func (p Plane) IntersectLine(l Line) (v3.Vec, error) {
	d := l.direction
	denom := d.Dot(p.normal)
	if math.Abs(denom) <= ParallelTolerance*d.Length() {
		return v3.Vec{}, &IllConditionedError{Op: "plane/line", Denominator: denom}
	}
	m := p.member.Sub(l.member).Dot(p.normal) / denom
	return l.At(m), nil
}

// IntersectPlane returns the line shared by p and q. The direction is the
// unit vector n1 × n2.
func (p Plane) IntersectPlane(q Plane) (Line, error) {
	n1, n2 := p.normal, q.normal
	c := n1.Cross(n2)
	if c.Length() <= ParallelTolerance {
		return Line{}, &IllConditionedError{Op: "plane/plane", Denominator: c.Length()}
	}
	direction, err := vecmath.Normalize(c)
	if err != nil {
		return Line{}, fmt.Errorf("plane/plane direction: %w", err)
	}
	// n1n2n1 lies in p and is perpendicular to the intersection line.
	n1n2n1 := direction.Cross(n1)
	denom := n1n2n1.Dot(n2)
	if math.Abs(denom) <= ParallelTolerance {
		return Line{}, &IllConditionedError{Op: "plane/plane", Denominator: denom}
	}
	m := q.member.Sub(p.member).Dot(n2) / denom
	return NewLine(p.member.Add(n1n2n1.MulScalar(m)), direction), nil
}

func (p Plane) String() string {
	return fmt.Sprintf("<Plane %v %v>", p.member, p.normal)
}

// Kind implements Entity.
func (Plane) Kind() Kind { return KindPlane }

func (Plane) entity() {}
