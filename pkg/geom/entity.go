package geom

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Kind enumerates the entity types that take part in intersections.
type Kind int

const (
	KindPoint Kind = iota
	KindLine
	KindPlane
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindLine:
		return "line"
	case KindPlane:
		return "plane"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Entity is the closed set of geometric values: Point, Line and Plane.
type Entity interface {
	Kind() Kind
	entity() // marker method restricting implementations to this package
}

// Point is a position produced by a plane/line intersection.
type Point struct {
	Pos v3.Vec
}

// Kind implements Entity.
func (Point) Kind() Kind { return KindPoint }

func (Point) entity() {}

func (p Point) String() string {
	return fmt.Sprintf("<Point %v>", p.Pos)
}

type intersectFunc func(a, b Entity) (Entity, error)

// intersectTable lists every pairing Intersect knows about. Pairs that are
// absent fail with an UnsupportedIntersectionError.
var intersectTable = map[[2]Kind]intersectFunc{
	{KindPlane, KindLine}: func(a, b Entity) (Entity, error) {
		p, err := a.(Plane).IntersectLine(b.(Line))
		if err != nil {
			return nil, err
		}
		return Point{Pos: p}, nil
	},
	{KindLine, KindPlane}: func(a, b Entity) (Entity, error) {
		p, err := a.(Line).IntersectPlane(b.(Plane))
		if err != nil {
			return nil, err
		}
		return Point{Pos: p}, nil
	},
	{KindPlane, KindPlane}: func(a, b Entity) (Entity, error) {
		l, err := a.(Plane).IntersectPlane(b.(Plane))
		if err != nil {
			return nil, err
		}
		return l, nil
	},
	{KindLine, KindLine}: func(a, b Entity) (Entity, error) {
		_, err := a.(Line).IntersectLine(b.(Line))
		return nil, err
	},
}

// Intersect dispatches on the kinds of a and b. Plane/line in either order
// yields a Point, plane/plane yields a Line. Line/line and any pairing that
// involves a Point fail with ErrUnsupportedIntersection.
func Intersect(a, b Entity) (Entity, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("intersect: nil entity: %w", ErrUnsupportedIntersection)
	}
	fn, ok := intersectTable[[2]Kind{a.Kind(), b.Kind()}]
	if !ok {
		return nil, &UnsupportedIntersectionError{A: a.Kind(), B: b.Kind(), Reason: "no intersection defined for these types"}
	}
	return fn(a, b)
}
