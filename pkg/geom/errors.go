package geom

import (
	"errors"
	"fmt"
)

// ParallelTolerance is the smallest |sin| of the angle between a line and
// a plane, or between two plane normals, that is still intersected.
const ParallelTolerance = 1e-10

var (
	// ErrUnsupportedIntersection is matched by every UnsupportedIntersectionError.
	ErrUnsupportedIntersection = errors.New("unsupported intersection")

	// ErrIllConditioned is matched by every IllConditionedError.
	ErrIllConditioned = errors.New("ill-conditioned intersection")

	// ErrConstruction is matched by every ConstructionError.
	ErrConstruction = errors.New("invalid construction")
)

// ConstructionError reports a Line or Plane described with zero or both of
// its mutually exclusive alternatives.
type ConstructionError struct {
	Type    string // "line" or "plane"
	Message string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *ConstructionError) Is(target error) bool { return target == ErrConstruction }

// UnsupportedIntersectionError reports a pair of entities the intersection
// table has no operation for.
type UnsupportedIntersectionError struct {
	A, B   Kind
	Reason string
}

func (e *UnsupportedIntersectionError) Error() string {
	return fmt.Sprintf("cannot intersect %s with %s: %s", e.A, e.B, e.Reason)
}

func (e *UnsupportedIntersectionError) Is(target error) bool {
	return target == ErrUnsupportedIntersection
}

// IllConditionedError reports an intersection between a near-parallel
// pair, where the solve would divide by Denominator.
type IllConditionedError struct {
	Op          string
	Denominator float64
}

func (e *IllConditionedError) Error() string {
	return fmt.Sprintf("%s intersection is ill-conditioned: denominator %g (near-parallel)", e.Op, e.Denominator)
}

func (e *IllConditionedError) Is(target error) bool { return target == ErrIllConditioned }
