// Package vecmath provides the vector algebra used by the geometry layer:
// normalization and axis-angle rotation of sdfx 3-vectors.
package vecmath

import (
	"errors"
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// MinLength is the smallest magnitude a vector may have and still be
// normalized.
const MinLength = 1e-10

// ErrDegenerateVector is matched by every DegenerateVectorError.
var ErrDegenerateVector = errors.New("degenerate vector")

// DegenerateVectorError reports an attempt to normalize a vector whose
// magnitude is at or below MinLength.
type DegenerateVectorError struct {
	Vec    v3.Vec
	Length float64
}

func (e *DegenerateVectorError) Error() string {
	return fmt.Sprintf("degenerate vector (%g, %g, %g): length %g <= %g",
		e.Vec.X, e.Vec.Y, e.Vec.Z, e.Length, MinLength)
}

// Is reports whether target is ErrDegenerateVector.
func (e *DegenerateVectorError) Is(target error) bool {
	return target == ErrDegenerateVector
}

// Normalize returns v scaled to unit length.
func Normalize(v v3.Vec) (v3.Vec, error) {
	length := v.Length()
	if !(length > MinLength) {
		return v3.Vec{}, &DegenerateVectorError{Vec: v, Length: length}
	}
	return v.MulScalar(1 / length), nil
}

// MustNormalize is like Normalize but panics on a degenerate vector.
// Use it only for vectors known to be non-zero, such as literal axes.
func MustNormalize(v v3.Vec) v3.Vec {
	n, err := Normalize(v)
	if err != nil {
		panic(fmt.Sprintf("vecmath: %v", err))
	}
	return n
}

// Rotate rotates v by theta radians about axis, right-handed.
//
// v is split into a component along the axis and a perpendicular
// component u. The perpendicular part is rotated inside the plane spanned
// by û and axis×û. Rotating a vector parallel to axis fails with a
// DegenerateVectorError because û is undefined.
func Rotate(v, axis v3.Vec, theta float64) (v3.Vec, error) {
	a, err := Normalize(axis)
	if err != nil {
		return v3.Vec{}, fmt.Errorf("rotate: axis: %w", err)
	}
	vpar := a.MulScalar(v.Dot(a))
	u := v.Sub(vpar)
	uhat, err := Normalize(u)
	if err != nil {
		return v3.Vec{}, fmt.Errorf("rotate: vector is parallel to axis: %w", err)
	}
	um := u.Length()
	vhat := a.Cross(uhat)
	perp := uhat.MulScalar(um * math.Cos(theta)).Add(vhat.MulScalar(um * math.Sin(theta)))
	return vpar.Add(perp), nil
}

// ApproxEqual reports whether a and b differ by at most tol in every
// component.
func ApproxEqual(a, b v3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

// IsFinite reports whether every component of v is a finite number.
func IsFinite(v v3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
