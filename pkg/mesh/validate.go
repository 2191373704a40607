package mesh

import (
	"fmt"
	"math"

	"github.com/chazu/facet/pkg/vecmath"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// PlanarityTolerance is the largest distance, relative to the face's
// extent, that a vertex may sit off the plane of its face's first three
// vertices before a warning is raised.
const PlanarityTolerance = 1e-6

// ValidationSeverity indicates whether a finding blocks construction.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks construction
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding. Face is -1 for
// findings about the mesh as a whole.
type ValidationError struct {
	Face     int
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.Face < 0 {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] face %d: %s", e.Severity, e.Face, e.Message)
}

// Validate checks a vertex list and face loops. It never mutates its
// arguments. Convexity is a caller contract and is not checked.
func Validate(vertices []v3.Vec, faces [][]int) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateVertices(vertices)...)

	used := make([]bool, len(vertices))
	for i, f := range faces {
		faceErrs := validateIndices(i, f, len(vertices))
		errs = append(errs, faceErrs...)
		if hasErrors(faceErrs) {
			continue
		}
		for _, idx := range f {
			used[idx] = true
		}
		errs = append(errs, validatePlanarity(i, f, vertices)...)
	}

	for i, u := range used {
		if !u && len(faces) > 0 {
			errs = append(errs, ValidationError{
				Face:     -1,
				Message:  fmt.Sprintf("vertex %d is not referenced by any face", i),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

func hasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

func validateVertices(vertices []v3.Vec) []ValidationError {
	var errs []ValidationError
	for i, v := range vertices {
		if !vecmath.IsFinite(v) {
			errs = append(errs, ValidationError{
				Face:     -1,
				Message:  fmt.Sprintf("vertex %d has a non-finite coordinate %v", i, v),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateIndices checks that a face has at least three in-range indices.
func validateIndices(face int, f []int, n int) []ValidationError {
	var errs []ValidationError
	if len(f) < 3 {
		errs = append(errs, ValidationError{
			Face:     face,
			Message:  fmt.Sprintf("face has %d vertices, need at least 3", len(f)),
			Severity: SeverityError,
		})
	}
	seen := make(map[int]bool, len(f))
	for _, idx := range f {
		if idx < 0 || idx >= n {
			errs = append(errs, ValidationError{
				Face:     face,
				Message:  fmt.Sprintf("vertex index %d out of range [0, %d)", idx, n),
				Severity: SeverityError,
			})
			continue
		}
		if seen[idx] {
			errs = append(errs, ValidationError{
				Face:     face,
				Message:  fmt.Sprintf("vertex index %d repeated", idx),
				Severity: SeverityWarning,
			})
		}
		seen[idx] = true
	}
	return errs
}

// validatePlanarity requires a usable normal from the first three vertices
// and warns about vertices that sit off that plane.
func validatePlanarity(face int, f []int, vertices []v3.Vec) []ValidationError {
	p0, p1, p2 := vertices[f[0]], vertices[f[1]], vertices[f[2]]
	n, err := vecmath.Normalize(p1.Sub(p0).Cross(p2.Sub(p1)))
	if err != nil {
		return []ValidationError{{
			Face:     face,
			Message:  fmt.Sprintf("first three vertices are collinear: %v", err),
			Severity: SeverityError,
		}}
	}

	extent := 0.0
	for _, idx := range f {
		extent = math.Max(extent, vertices[idx].Sub(p0).Length())
	}
	var errs []ValidationError
	for _, idx := range f[3:] {
		d := math.Abs(vertices[idx].Sub(p0).Dot(n))
		if d > PlanarityTolerance*math.Max(extent, 1) {
			errs = append(errs, ValidationError{
				Face:     face,
				Message:  fmt.Sprintf("vertex %d is %.3g off the face plane", idx, d),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}
