package geom

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Line is an infinite line through a member point. The direction is not
// normalized; only its orientation is meaningful.
type Line struct {
	member    v3.Vec
	direction v3.Vec
}

// NewLine returns the line through member along direction.
func NewLine(member, direction v3.Vec) Line {
	return Line{member: member, direction: direction}
}

// LineThrough returns the line through a and b, directed from a to b.
func LineThrough(a, b v3.Vec) Line {
	return Line{member: a, direction: b.Sub(a)}
}

// Member returns the point the line was built from.
func (l Line) Member() v3.Vec { return l.member }

// Direction returns the unnormalized direction vector.
func (l Line) Direction() v3.Vec { return l.direction }

// At returns member + m*direction.
func (l Line) At(m float64) v3.Vec {
	return l.member.Add(l.direction.MulScalar(m))
}

// IntersectPlane returns the point where l meets p.
func (l Line) IntersectPlane(p Plane) (v3.Vec, error) {
	return p.IntersectLine(l)
}

// IntersectLine always fails. Intersecting two lines needs coplanarity and
// parallel/coincident handling that this package does not provide.
func (l Line) IntersectLine(Line) (v3.Vec, error) {
	return v3.Vec{}, &UnsupportedIntersectionError{
		A:      KindLine,
		B:      KindLine,
		Reason: "line-line intersection requires coplanarity and parallelism handling, not implemented",
	}
}

func (l Line) String() string {
	return fmt.Sprintf("<Line %v %v>", l.member, l.direction)
}

// Kind implements Entity.
func (Line) Kind() Kind { return KindLine }

func (Line) entity() {}
