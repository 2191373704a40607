package engine

import (
	"fmt"
	"math"

	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/mesh"
	"github.com/chazu/facet/pkg/scene"
	"github.com/chazu/facet/pkg/vecmath"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

type builtin = func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error)

// registerBuiltins installs the construction builtins into env. Solids
// declared by the script are added to res.
//
// Source must go through preprocessSource first so that :keyword tokens
// arrive as recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, res *Result) {
	for name, fn := range vectorBuiltins() {
		env.AddFunction(name, fn)
	}
	for name, fn := range geometryBuiltins() {
		env.AddFunction(name, fn)
	}
	env.AddFunction("solid", solidBuiltin(res))
	env.AddFunction("enclosure", enclosureBuiltin(res))
}

// ---------------------------------------------------------------------------
// Vectors and scalars
// ---------------------------------------------------------------------------

func vectorBuiltins() map[string]builtin {
	return map[string]builtin{
		// (vec3 1 2 3)
		"vec3": func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 3 {
				return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
			}
			var c [3]float64
			for i, axis := range []string{"x", "y", "z"} {
				f, err := toFloat64(args[i])
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
				}
				c[i] = f
			}
			return &sexpVec{vec: v3.Vec{X: c[0], Y: c[1], Z: c[2]}}, nil
		},
		"vadd": vecBinary("vadd", func(a, b v3.Vec) zygo.Sexp { return &sexpVec{vec: a.Add(b)} }),
		"vsub": vecBinary("vsub", func(a, b v3.Vec) zygo.Sexp { return &sexpVec{vec: a.Sub(b)} }),
		"cross": vecBinary("cross", func(a, b v3.Vec) zygo.Sexp { return &sexpVec{vec: a.Cross(b)} }),
		"dot": vecBinary("dot", func(a, b v3.Vec) zygo.Sexp { return &zygo.SexpFloat{Val: a.Dot(b)} }),

		// (vscale v 25.4)
		"vscale": func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 2 {
				return zygo.SexpNull, fmt.Errorf("vscale requires a vector and a scalar")
			}
			v, err := toVec(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vscale: %w", err)
			}
			k, err := toFloat64(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vscale: %w", err)
			}
			return &sexpVec{vec: v.MulScalar(k)}, nil
		},

		"normalize": func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 1 {
				return zygo.SexpNull, fmt.Errorf("normalize requires exactly 1 argument, got %d", len(args))
			}
			v, err := toVec(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("normalize: %w", err)
			}
			n, err := vecmath.Normalize(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("normalize: %w", err)
			}
			return &sexpVec{vec: n}, nil
		},

		// (rotate v :axis a :angle theta)
		"rotate": func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			if len(pa.positional) != 1 {
				return zygo.SexpNull, fmt.Errorf("rotate requires the vector to rotate as its first argument")
			}
			v, err := toVec(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
			}
			axisArg, ok := pa.kw["axis"]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("rotate: :axis is required")
			}
			axis, err := toVec(axisArg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rotate: axis: %w", err)
			}
			var theta float64
			if a, ok := pa.kw["angle"]; ok {
				if theta, err = toFloat64(a); err != nil {
					return zygo.SexpNull, fmt.Errorf("rotate: angle: %w", err)
				}
			}
			r, err := vecmath.Rotate(v, axis, theta)
			if err != nil {
				return zygo.SexpNull, err
			}
			return &sexpVec{vec: r}, nil
		},

		"pi": func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			return &zygo.SexpFloat{Val: math.Pi}, nil
		},
		"sin": scalarFunc("sin", math.Sin),
		"cos": scalarFunc("cos", math.Cos),
		"tan": scalarFunc("tan", math.Tan),
	}
}

func vecBinary(op string, fn func(a, b v3.Vec) zygo.Sexp) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("%s requires exactly 2 arguments, got %d", op, len(args))
		}
		a, err := toVec(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
		}
		b, err := toVec(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
		}
		return fn(a, b), nil
	}
}

func scalarFunc(op string, fn func(float64) float64) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("%s requires exactly 1 argument, got %d", op, len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
		}
		return &zygo.SexpFloat{Val: fn(x)}, nil
	}
}

// ---------------------------------------------------------------------------
// Lines, planes and intersections
// ---------------------------------------------------------------------------

func geometryBuiltins() map[string]builtin {
	return map[string]builtin{
		// (line :at p :direction d) or (line :at p :through q)
		"line": func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			at, err := requireVec(pa, "line", "at")
			if err != nil {
				return zygo.SexpNull, err
			}
			kw, v, err := pa.only("direction", "through")
			if err != nil {
				return zygo.SexpNull, &geom.ConstructionError{Type: "line", Message: err.Error()}
			}
			other, err := toVec(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("line: %s: %w", kw, err)
			}
			if kw == "through" {
				return &sexpLine{line: geom.LineThrough(at, other)}, nil
			}
			return &sexpLine{line: geom.NewLine(at, other)}, nil
		},

		// (plane :at p :normal n) or (plane :at p :line l)
		"plane": func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			at, err := requireVec(pa, "plane", "at")
			if err != nil {
				return zygo.SexpNull, err
			}
			kw, v, err := pa.only("normal", "line")
			if err != nil {
				return zygo.SexpNull, &geom.ConstructionError{Type: "plane", Message: err.Error()}
			}
			var p geom.Plane
			if kw == "line" {
				l, err := toLine(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("plane: line: %w", err)
				}
				p, err = geom.PlaneThrough(l, at)
				if err != nil {
					return zygo.SexpNull, err
				}
			} else {
				n, err := toVec(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("plane: normal: %w", err)
				}
				p, err = geom.NewPlane(at, n)
				if err != nil {
					return zygo.SexpNull, err
				}
			}
			return &sexpPlane{plane: p}, nil
		},

		// (intersect a b)
		"intersect": func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 2 {
				return zygo.SexpNull, fmt.Errorf("intersect requires exactly 2 arguments, got %d", len(args))
			}
			a, err := toEntity(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("intersect: %w", err)
			}
			b, err := toEntity(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("intersect: %w", err)
			}
			e, err := geom.Intersect(a, b)
			if err != nil {
				return zygo.SexpNull, err
			}
			return toSexp(e)
		},

		"member": func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 1 {
				return zygo.SexpNull, fmt.Errorf("member requires exactly 1 argument, got %d", len(args))
			}
			switch v := args[0].(type) {
			case *sexpLine:
				return &sexpVec{vec: v.line.Member()}, nil
			case *sexpPlane:
				return &sexpVec{vec: v.plane.Member()}, nil
			}
			return zygo.SexpNull, fmt.Errorf("member: expected line or plane, got %T", args[0])
		},

		"direction": func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 1 {
				return zygo.SexpNull, fmt.Errorf("direction requires exactly 1 argument, got %d", len(args))
			}
			l, err := toLine(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("direction: %w", err)
			}
			return &sexpVec{vec: l.Direction()}, nil
		},

		"normal": func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 1 {
				return zygo.SexpNull, fmt.Errorf("normal requires exactly 1 argument, got %d", len(args))
			}
			p, err := toPlane(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("normal: %w", err)
			}
			return &sexpVec{vec: p.Normal()}, nil
		},
	}
}

func requireVec(pa kwArgs, op, kw string) (v3.Vec, error) {
	s, ok := pa.kw[kw]
	if !ok {
		return v3.Vec{}, &geom.ConstructionError{Type: op, Message: ":" + kw + " is required"}
	}
	v, err := toVec(s)
	if err != nil {
		return v3.Vec{}, fmt.Errorf("%s: %s: %w", op, kw, err)
	}
	return v, nil
}

// ---------------------------------------------------------------------------
// Solids
// ---------------------------------------------------------------------------

// (solid "name" :vertices (list (vec3 ...) ...) :faces (list (list 0 1 2) ...))
func solidBuiltin(res *Result) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("solid requires a name argument")
		}
		solidName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("solid: name: %w", err)
		}

		vs, ok := pa.kw["vertices"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("solid %q: :vertices is required", solidName)
		}
		vertices, err := toVecList(vs)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("solid %q: vertices: %w", solidName, err)
		}
		fs, ok := pa.kw["faces"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("solid %q: :faces is required", solidName)
		}
		faces, err := toFaceList(fs)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("solid %q: faces: %w", solidName, err)
		}

		m, err := mesh.New(vertices, faces)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("solid %q: %w", solidName, err)
		}
		if err := res.addSolid(solidName, m); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolidRef{name: solidName}, nil
	}
}

// (enclosure "name" :width 22 :height 14 :depth 5 :lean (/ (pi) 3) :tilt ...)
// Omitted parameters take their DefaultEnclosure values.
func enclosureBuiltin(res *Result) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		solidName := "enclosure"
		if len(pa.positional) > 0 {
			s, err := toString(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("enclosure: name: %w", err)
			}
			solidName = s
		}

		e := scene.DefaultEnclosure()
		params := []struct {
			kw  string
			dst *float64
		}{
			{"width", &e.Width},
			{"height", &e.Height},
			{"depth", &e.Depth},
			{"lean", &e.Lean},
			{"tilt", &e.Tilt},
		}
		for _, p := range params {
			v, ok := pa.kw[p.kw]
			if !ok {
				continue
			}
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("enclosure: %s: %w", p.kw, err)
			}
			*p.dst = f
		}

		m, err := e.Build()
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := res.addSolid(solidName, m); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolidRef{name: solidName}, nil
	}
}
