// Package engine runs part scripts: small Lisp programs, evaluated by
// zygomys in a sandbox, whose builtins build csg solid trees. A script
// names its outputs with (part "name" solid); the value of its last
// expression is kept as well when it is a solid.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/kerf/pkg/csg"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError is a parse or runtime error in a script.
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

// Part is a solid registered by name.
type Part struct {
	Name  string
	Solid *csg.Node
}

// Result is the output of one script.
type Result struct {
	// Parts lists named parts in registration order.
	Parts []Part
	// Last is the value of the final expression when it is a solid.
	Last *csg.Node
}

// Lookup returns the part named name, or nil.
func (r *Result) Lookup(name string) *csg.Node {
	for _, p := range r.Parts {
		if p.Name == name {
			return p.Solid
		}
	}
	return nil
}

// Names returns the part names in registration order.
func (r *Result) Names() []string {
	names := make([]string, len(r.Parts))
	for i, p := range r.Parts {
		names[i] = p.Name
	}
	return names
}

// Root picks the solid to render: the named part when name is set,
// otherwise the single registered part, otherwise the final expression.
func (r *Result) Root(name string) (*csg.Node, error) {
	if name != "" {
		if n := r.Lookup(name); n != nil {
			return n, nil
		}
		return nil, fmt.Errorf("engine: no part named %q (have %s)", name, strings.Join(r.Names(), ", "))
	}
	switch {
	case len(r.Parts) == 1:
		return r.Parts[0].Solid, nil
	case len(r.Parts) > 1:
		return nil, fmt.Errorf("engine: script defines %d parts (%s); choose one", len(r.Parts), strings.Join(r.Names(), ", "))
	case r.Last != nil:
		return r.Last, nil
	}
	return nil, fmt.Errorf("engine: script produced no solid")
}

// registry records named parts during one evaluation.
type registry struct {
	mu    sync.Mutex
	parts []Part
}

func (r *registry) add(name string, s *csg.Node) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name == "" {
		return fmt.Errorf("part name is empty")
	}
	for _, p := range r.parts {
		if p.Name == name {
			return fmt.Errorf("part %q already defined", name)
		}
	}
	r.parts = append(r.parts, Part{Name: name, Solid: s})
	return nil
}

func (r *registry) lookup(name string) *csg.Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.parts {
		if p.Name == name {
			return p.Solid
		}
	}
	return nil
}

// Engine evaluates part scripts. It is safe for concurrent use; every
// call to Evaluate runs in a fresh sandbox.
type Engine struct {
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout overrides EvalTimeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates a new Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		timeout: EvalTimeout,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Evaluate runs source and returns the solids it built.
//
// Return semantics:
//   - On success: result + nil errors + nil error
//   - On parse/runtime failure in the script: nil + eval errors + nil error
//   - On fatal failure (timeout, cancellation, panic): nil + nil + error
//
// A timeout abandons the script rather than stopping it; see
// waitWithTimeout.
func (e *Engine) Evaluate(ctx context.Context, source string) (*Result, []EvalError, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	ch := make(chan evalResult, 1)
	start := time.Now()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("engine: panic during evaluation: %v", r)}
			}
		}()
		res, evalErrs := e.evaluate(source)
		ch <- evalResult{result: res, errors: evalErrs}
	}()

	res, evalErrs, err := waitWithTimeout(ctx, ch, e.timeout)
	switch {
	case err != nil:
		e.logger.Debug("script failed", "err", err)
	case len(evalErrs) > 0:
		e.logger.Debug("script errors", "count", len(evalErrs), "first", evalErrs[0].Error())
	default:
		e.logger.Debug("script evaluated", "parts", len(res.Parts), "elapsed", time.Since(start))
	}
	return res, evalErrs, err
}

// evaluate runs source in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Result, []EvalError) {
	if strings.TrimSpace(source) == "" {
		return &Result{}, nil
	}

	// The sandbox keeps scripts away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	reg := &registry{}
	registerBuiltins(env, reg)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err)
	}
	last, err := env.Run()
	if err != nil {
		return nil, parseZygomysError(err)
	}

	res := &Result{Parts: reg.parts}
	if s, ok := last.(*sexpSolid); ok {
		res.Last = s.n
	}
	return res, nil
}

// linePattern matches zygomys messages of the form "Error on line N: ...".
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches "line N: ...".
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalErrors, extracting
// the line number when the message carries one.
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
