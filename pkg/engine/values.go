package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/facet/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// Wrappers that carry Go values through the zygomys environment.

type sexpVec struct {
	vec v3.Vec
}

func (v *sexpVec) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec) Type() *zygo.RegisteredType { return nil }

type sexpLine struct {
	line geom.Line
}

func (l *sexpLine) SexpString(ps *zygo.PrintState) string { return "(" + l.line.String() + ")" }
func (l *sexpLine) Type() *zygo.RegisteredType            { return nil }

type sexpPlane struct {
	plane geom.Plane
}

func (p *sexpPlane) SexpString(ps *zygo.PrintState) string { return "(" + p.plane.String() + ")" }
func (p *sexpPlane) Type() *zygo.RegisteredType            { return nil }

// sexpSolidRef is returned by solid and enclosure.
type sexpSolidRef struct {
	name string
}

func (s *sexpSolidRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(solid %q)", s.name)
}
func (s *sexpSolidRef) Type() *zygo.RegisteredType { return nil }

// toSexp wraps an intersection result. Points come back as plain vectors.
func toSexp(e geom.Entity) (zygo.Sexp, error) {
	switch v := e.(type) {
	case geom.Point:
		return &sexpVec{vec: v.Pos}, nil
	case geom.Line:
		return &sexpLine{line: v}, nil
	case geom.Plane:
		return &sexpPlane{plane: v}, nil
	}
	return zygo.SexpNull, fmt.Errorf("unexpected entity %T", e)
}

// toEntity unwraps an argument of intersect.
func toEntity(s zygo.Sexp) (geom.Entity, error) {
	switch v := s.(type) {
	case *sexpLine:
		return v.line, nil
	case *sexpPlane:
		return v.plane, nil
	case *sexpVec:
		return geom.Point{Pos: v.vec}, nil
	}
	return nil, fmt.Errorf("expected a line, plane or point, got %T (%s)", s, s.SexpString(nil))
}

// isKW checks if a Sexp is a preprocessed keyword string and returns the
// keyword name without its prefix.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// only returns the one keyword of names present in the call. Zero or
// several present is an error.
func (a kwArgs) only(names ...string) (string, zygo.Sexp, error) {
	var found []string
	for _, n := range names {
		if _, ok := a.kw[n]; ok {
			found = append(found, n)
		}
	}
	if len(found) != 1 {
		return "", nil, fmt.Errorf("exactly one of :%s is required, got %d",
			strings.Join(names, " :"), len(found))
	}
	return found[0], a.kw[found[0]], nil
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toVec(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

func toLine(s zygo.Sexp) (geom.Line, error) {
	if l, ok := s.(*sexpLine); ok {
		return l.line, nil
	}
	return geom.Line{}, fmt.Errorf("expected line, got %T (%s)", s, s.SexpString(nil))
}

func toPlane(s zygo.Sexp) (geom.Plane, error) {
	if p, ok := s.(*sexpPlane); ok {
		return p.plane, nil
	}
	return geom.Plane{}, fmt.Errorf("expected plane, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

func toVecList(s zygo.Sexp) ([]v3.Vec, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]v3.Vec, len(items))
	for i, item := range items {
		if out[i], err = toVec(item); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return out, nil
}

func toFaceList(s zygo.Sexp) ([][]int, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([][]int, len(items))
	for i, item := range items {
		idx, err := sexpListToSlice(item)
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		face := make([]int, len(idx))
		for j, x := range idx {
			if face[j], err = toInt(x); err != nil {
				return nil, fmt.Errorf("face %d: index %d: %w", i, j, err)
			}
		}
		out[i] = face
	}
	return out, nil
}
