// Package engine evaluates construction scripts written in zygomys Lisp.
// A script builds vectors, lines and planes, intersects them, and declares
// named solids from the resulting corners. Each evaluation runs in a fresh
// sandbox and produces a new Result.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/facet/pkg/mesh"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a failed geometric construction.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning is a non-blocking finding about a solid, such as a face
// that is not quite planar.
type EvalWarning struct {
	Solid   string
	Message string
}

func (w EvalWarning) String() string {
	return fmt.Sprintf("solid %q: %s", w.Solid, w.Message)
}

// Solid is a named mesh declared by a script.
type Solid struct {
	Name string
	Mesh *mesh.Mesh
}

// Result is the output of one evaluation.
type Result struct {
	Solids   []Solid
	Warnings []EvalWarning
}

// Lookup returns the solid with the given name, or nil.
func (r *Result) Lookup(name string) *Solid {
	for i := range r.Solids {
		if r.Solids[i].Name == name {
			return &r.Solids[i]
		}
	}
	return nil
}

func (r *Result) addSolid(name string, m *mesh.Mesh) error {
	if r.Lookup(name) != nil {
		return fmt.Errorf("solid %q already defined", name)
	}
	r.Solids = append(r.Solids, Solid{Name: name, Mesh: m})
	for _, w := range m.Warnings() {
		r.Warnings = append(r.Warnings, EvalWarning{Solid: name, Message: w.Error()})
	}
	return nil
}

// Engine runs construction scripts. It is safe for concurrent use; only
// the most recent evaluation's result is returned.
type Engine struct {
	// Timeout bounds a single evaluation. Zero means EvalTimeout.
	Timeout time.Duration

	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{Timeout: EvalTimeout}
}

// Evaluate runs source and collects the solids it declares.
//
// Return semantics:
//   - On success: returns result + nil errors + nil error
//   - On parse/eval failure: returns nil result + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*Result, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		res, evalErrs, err := evaluate(source)
		ch <- evalResult{result: res, errors: evalErrs, err: err}
	}()

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = EvalTimeout
	}
	return waitWithTimeout(ch, timeout, gen, &e.mu, &e.generation)
}

// evaluate performs one zygomys evaluation in a fresh sandbox.
func evaluate(source string) (*Result, []EvalError, error) {
	res := &Result{}
	if strings.TrimSpace(source) == "" {
		return res, nil, nil
	}

	// The sandbox keeps scripts away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, res)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return res, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalErrors, extracting a
// line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
