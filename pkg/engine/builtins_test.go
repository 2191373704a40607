package engine

import (
	"math"
	"os"
	"strings"
	"testing"

	"github.com/chazu/facet/pkg/scene"
	"github.com/chazu/facet/pkg/vecmath"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/floats/scalar"
)

const tol = 1e-9

// evalOK evaluates source and fails the test on any error.
func evalOK(t *testing.T, source string) *Result {
	t.Helper()
	res, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if res == nil {
		t.Fatal("expected non-nil result")
	}
	return res
}

// evalFails evaluates source and returns the joined eval error messages.
func evalFails(t *testing.T, source string) string {
	t.Helper()
	res, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if res != nil {
		t.Fatal("expected nil result")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors")
	}
	msgs := make([]string, len(evalErrs))
	for i, e := range evalErrs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// vertexOf returns vertex i of the first solid, with the mesh offset undone.
func vertexOf(t *testing.T, res *Result, i int) v3.Vec {
	t.Helper()
	if len(res.Solids) == 0 {
		t.Fatal("no solids")
	}
	m := res.Solids[0].Mesh
	return m.Vertices()[i].Sub(m.Offset())
}

// ---------------------------------------------------------------------------
// Vector builtins
// ---------------------------------------------------------------------------

func TestVectorBuiltins(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want v3.Vec
	}{
		{"vec3", `(vec3 1 2.5 -3)`, v3.Vec{X: 1, Y: 2.5, Z: -3}},
		{"vadd", `(vadd (vec3 1 2 3) (vec3 1 1 1))`, v3.Vec{X: 2, Y: 3, Z: 4}},
		{"vsub", `(vsub (vec3 1 2 3) (vec3 1 1 1))`, v3.Vec{X: 0, Y: 1, Z: 2}},
		{"vscale", `(vscale (vec3 1 2 3) 2)`, v3.Vec{X: 2, Y: 4, Z: 6}},
		{"cross", `(cross (vec3 1 0 0) (vec3 0 1 0))`, v3.Vec{Z: 1}},
		{"normalize", `(normalize (vec3 0 0 7))`, v3.Vec{Z: 1}},
		{"rotate", `(rotate (vec3 1 0 0) :axis (vec3 0 0 1) :angle (/ (pi) 2))`, v3.Vec{Y: 1}},
		{"vscale by dot", `(vscale (vec3 1 0 0) (dot (vec3 1 2 3) (vec3 4 5 6)))`, v3.Vec{X: 32}},
		{"trig", `(vec3 (sin 0) (cos 0) (tan 0))`, v3.Vec{Y: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Wrap the expression as the single vertex of a degenerate
			// solid so the value can be read back.
			src := `(def p ` + tt.expr + `)
(solid "probe" :vertices (list p (vadd p (vec3 1 0 0)) (vadd p (vec3 0 1 0))) :faces (list (list 0 1 2)))`
			got := vertexOf(t, evalOK(t, src), 0)
			if !vecmath.ApproxEqual(got, tt.want, tol) {
				t.Errorf("%s = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestVectorBuiltinErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{"vec3 arity", `(vec3 1 2)`, "exactly 3 arguments"},
		{"vec3 type", `(vec3 1 "a" 3)`, "expected number"},
		{"normalize zero", `(normalize (vec3 0 0 0))`, "degenerate"},
		{"rotate parallel", `(rotate (vec3 0 0 2) :axis (vec3 0 0 1) :angle 1)`, "parallel"},
		{"rotate no axis", `(rotate (vec3 1 0 0) :angle 1)`, ":axis is required"},
		{"vadd not a vector", `(vadd 1 (vec3 1 1 1))`, "expected vec3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := evalFails(t, tt.src)
			if !strings.Contains(msg, tt.wantMsg) {
				t.Errorf("error %q does not mention %q", msg, tt.wantMsg)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Lines, planes and intersections
// ---------------------------------------------------------------------------

func TestLinePlaneIntersection(t *testing.T) {
	src := `
(def floor-plane (plane :at (vec3 0 0 -5) :normal (vec3 0 0 1)))
(def l (line :at (vec3 1 2 3) :direction (vec3 0 0 1)))
(def m (line :at (vec3 1 2 3) :through (vec3 2 2 2)))
(def p (intersect floor-plane l))
(def q (intersect m floor-plane))
(solid "probe" :vertices (list p q (vec3 0 0 -5)) :faces (list (list 0 1 2)))
`
	res := evalOK(t, src)
	if got, want := vertexOf(t, res, 0), (v3.Vec{X: 1, Y: 2, Z: -5}); !vecmath.ApproxEqual(got, want, tol) {
		t.Errorf("plane/line = %v, want %v", got, want)
	}
	if got, want := vertexOf(t, res, 1), (v3.Vec{X: 9, Y: 2, Z: -5}); !vecmath.ApproxEqual(got, want, tol) {
		t.Errorf("line/plane = %v, want %v", got, want)
	}
}

func TestPlanePlaneIntersection(t *testing.T) {
	src := `
(def a (plane :at (vec3 0 0 0) :normal (vec3 1 0 0)))
(def b (plane :at (vec3 0 0 0) :normal (vec3 0 1 0)))
(def edge (intersect a b))
(def base (plane :at (vec3 0 0 4) :normal (vec3 0 0 1)))
(def p (intersect edge base))
(solid "probe"
  :vertices (list p (member edge) (vadd p (direction edge)) (normal base) (vec3 1 0 0))
  :faces (list (list 0 1 4)))
`
	res := evalOK(t, src)
	if got, want := vertexOf(t, res, 0), (v3.Vec{Z: 4}); !vecmath.ApproxEqual(got, want, tol) {
		t.Errorf("corner = %v, want %v", got, want)
	}
	if got := vertexOf(t, res, 1); !scalar.EqualWithinAbs(got.X, 0, tol) || !scalar.EqualWithinAbs(got.Y, 0, tol) {
		t.Errorf("edge member %v is off the z axis", got)
	}
	if got := vertexOf(t, res, 2).Sub(vertexOf(t, res, 0)); got.Cross(v3.Vec{Z: 1}).Length() > tol || got.Length() < tol {
		t.Errorf("edge direction %v is not along z", got)
	}
	if got, want := vertexOf(t, res, 3), (v3.Vec{Z: 1}); !vecmath.ApproxEqual(got, want, tol) {
		t.Errorf("normal = %v, want %v", got, want)
	}
}

func TestPlaneThroughLine(t *testing.T) {
	src := `
(def l (line :at (vec3 0 0 0) :direction (vec3 1 0 0)))
(def p (plane :at (vec3 0 1 0) :line l))
(def n (normal p))
(solid "probe" :vertices (list n (vec3 0 0 0) (vec3 1 0 0)) :faces (list (list 0 1 2)))
`
	got := vertexOf(t, evalOK(t, src), 0)
	// (member - l.member) x direction = (0,1,0) x (1,0,0) = (0,0,-1)
	if want := (v3.Vec{Z: -1}); !vecmath.ApproxEqual(got, want, tol) {
		t.Errorf("normal = %v, want %v", got, want)
	}
}

func TestGeometryErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{
			name:    "line with both alternatives",
			src:     `(line :at (vec3 0 0 0) :direction (vec3 1 0 0) :through (vec3 1 1 1))`,
			wantMsg: "exactly one of :direction :through",
		},
		{
			name:    "line with neither alternative",
			src:     `(line :at (vec3 0 0 0))`,
			wantMsg: "exactly one of",
		},
		{
			name:    "line without member",
			src:     `(line :direction (vec3 1 0 0))`,
			wantMsg: ":at is required",
		},
		{
			name:    "plane with both alternatives",
			src:     `(plane :at (vec3 0 0 0) :normal (vec3 0 0 1) :line (line :at (vec3 0 0 0) :direction (vec3 1 0 0)))`,
			wantMsg: "exactly one of :normal :line",
		},
		{
			name:    "plane with zero normal",
			src:     `(plane :at (vec3 0 0 0) :normal (vec3 0 0 0))`,
			wantMsg: "degenerate",
		},
		{
			name:    "line-line intersection",
			src:     `(intersect (line :at (vec3 0 0 0) :direction (vec3 1 0 0)) (line :at (vec3 0 0 0) :direction (vec3 0 1 0)))`,
			wantMsg: "cannot intersect",
		},
		{
			name:    "parallel planes",
			src:     `(intersect (plane :at (vec3 0 0 0) :normal (vec3 0 0 1)) (plane :at (vec3 0 0 1) :normal (vec3 0 0 2)))`,
			wantMsg: "ill-conditioned",
		},
		{
			name:    "line parallel to plane",
			src:     `(intersect (plane :at (vec3 0 0 0) :normal (vec3 0 0 1)) (line :at (vec3 0 0 1) :direction (vec3 1 0 0)))`,
			wantMsg: "ill-conditioned",
		},
		{
			name:    "intersect a number",
			src:     `(intersect 1 2)`,
			wantMsg: "expected a line",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := evalFails(t, tt.src)
			if !strings.Contains(msg, tt.wantMsg) {
				t.Errorf("error %q does not mention %q", msg, tt.wantMsg)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Solids
// ---------------------------------------------------------------------------

func TestSolidTetrahedron(t *testing.T) {
	src := `
(solid "tet"
  :vertices (list (vec3 0 0 0) (vec3 1 0 0) (vec3 0 1 0) (vec3 0 0 -1))
  :faces (list (list 0 2 1) (list 0 1 3) (list 1 2 3) (list 2 0 3)))
`
	res := evalOK(t, src)
	s := res.Lookup("tet")
	if s == nil {
		t.Fatal("expected solid named 'tet'")
	}
	if s.Mesh.TriangleCount() != 4 {
		t.Errorf("TriangleCount = %d, want 4", s.Mesh.TriangleCount())
	}
	if got, want := s.Mesh.Offset(), (v3.Vec{Z: 1}); got != want {
		t.Errorf("Offset = %v, want %v", got, want)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestSolidArraySyntax(t *testing.T) {
	src := `(solid "tri" :vertices [(vec3 0 0 0) (vec3 1 0 0) (vec3 0 1 0)] :faces [[0 1 2]])`
	res := evalOK(t, src)
	if res.Lookup("tri") == nil {
		t.Fatal("expected solid named 'tri'")
	}
}

func TestSolidWarningsSurface(t *testing.T) {
	// Vertex 3 is never referenced.
	src := `
(solid "loose"
  :vertices (list (vec3 0 0 0) (vec3 1 0 0) (vec3 0 1 0) (vec3 5 5 5))
  :faces (list (list 0 1 2)))
`
	res := evalOK(t, src)
	if len(res.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", res.Warnings)
	}
	w := res.Warnings[0]
	if w.Solid != "loose" {
		t.Errorf("warning solid = %q, want loose", w.Solid)
	}
	if !strings.Contains(w.String(), "loose") {
		t.Errorf("warning string %q does not name the solid", w.String())
	}
}

func TestSolidErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{
			name:    "missing name",
			src:     `(solid :vertices (list) :faces (list))`,
			wantMsg: "requires a name",
		},
		{
			name:    "missing faces",
			src:     `(solid "a" :vertices (list (vec3 0 0 0)))`,
			wantMsg: ":faces is required",
		},
		{
			name:    "index out of range",
			src:     `(solid "a" :vertices (list (vec3 0 0 0) (vec3 1 0 0) (vec3 0 1 0)) :faces (list (list 0 1 9)))`,
			wantMsg: "out of range",
		},
		{
			name:    "non-integer index",
			src:     `(solid "a" :vertices (list (vec3 0 0 0) (vec3 1 0 0) (vec3 0 1 0)) :faces (list (list 0 1 2.5)))`,
			wantMsg: "expected integer",
		},
		{
			name: "duplicate name",
			src: `
(solid "a" :vertices (list (vec3 0 0 0) (vec3 1 0 0) (vec3 0 1 0)) :faces (list (list 0 1 2)))
(solid "a" :vertices (list (vec3 0 0 0) (vec3 1 0 0) (vec3 0 1 0)) :faces (list (list 0 1 2)))`,
			wantMsg: "already defined",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := evalFails(t, tt.src)
			if !strings.Contains(msg, tt.wantMsg) {
				t.Errorf("error %q does not mention %q", msg, tt.wantMsg)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Enclosures
// ---------------------------------------------------------------------------

func TestEnclosureBuiltinDefaults(t *testing.T) {
	res := evalOK(t, `(enclosure)`)
	s := res.Lookup("enclosure")
	if s == nil {
		t.Fatal("expected solid named 'enclosure'")
	}
	want, err := scene.DefaultEnclosure().Build()
	if err != nil {
		t.Fatal(err)
	}
	got := s.Mesh.Vertices()
	for i, w := range want.Vertices() {
		if !vecmath.ApproxEqual(got[i], w, tol) {
			t.Errorf("vertex %d = %v, want %v", i, got[i], w)
		}
	}
}

func TestEnclosureBuiltinParameters(t *testing.T) {
	res := evalOK(t, `(enclosure "tall" :height 20 :depth 8 :tilt (* -1 (/ (pi) 2)))`)
	s := res.Lookup("tall")
	if s == nil {
		t.Fatal("expected solid named 'tall'")
	}
	e := scene.DefaultEnclosure()
	e.Height, e.Depth, e.Tilt = 20, 8, -math.Pi/2
	want, err := e.Build()
	if err != nil {
		t.Fatal(err)
	}
	_, hi := s.Mesh.BoundingBox()
	_, wantHi := want.BoundingBox()
	if !vecmath.ApproxEqual(hi, wantHi, tol) {
		t.Errorf("bounding box hi = %v, want %v", hi, wantHi)
	}
}

func TestEnclosureBuiltinInvalid(t *testing.T) {
	msg := evalFails(t, `(enclosure :width -1)`)
	if !strings.Contains(msg, "width") {
		t.Errorf("error %q does not mention width", msg)
	}
}

// The script in testdata rebuilds the enclosure from vectors, planes and
// intersections alone. It must agree with the scene package.
func TestEnclosureScript(t *testing.T) {
	src, err := os.ReadFile("testdata/enclosure.lisp")
	if err != nil {
		t.Fatal(err)
	}
	res := evalOK(t, string(src))
	s := res.Lookup("enclosure")
	if s == nil {
		t.Fatal("expected solid named 'enclosure'")
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}

	corners, err := scene.DefaultEnclosure().Corners()
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range corners {
		if got := vertexOf(t, res, i); !vecmath.ApproxEqual(got, want, 1e-9) {
			t.Errorf("corner %d = %v, want %v", i, got, want)
		}
	}
	if s.Mesh.TriangleCount() != 12 {
		t.Errorf("TriangleCount = %d, want 12", s.Mesh.TriangleCount())
	}
}
