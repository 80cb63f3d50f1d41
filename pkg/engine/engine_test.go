package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chazu/kerf/pkg/csg"
)

func evaluate(t *testing.T, source string) *Result {
	t.Helper()
	res, evalErrs, err := NewEngine().Evaluate(context.Background(), source)
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

func TestEvaluateEmptyString(t *testing.T) {
	for _, src := range []string{"", "   \n\t  \n  "} {
		res := evaluate(t, src)
		if len(res.Parts) != 0 || res.Last != nil {
			t.Errorf("source %q produced %d parts", src, len(res.Parts))
		}
	}
}

func TestEvaluatePlainExpression(t *testing.T) {
	res := evaluate(t, "(def x 10)\n(def y 20)\n(+ x y)")
	if res.Last != nil {
		t.Error("a numeric result should not be kept as a solid")
	}
	if _, err := res.Root(""); err == nil {
		t.Error("Root should fail when the script built nothing")
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	res, evalErrs, err := NewEngine().Evaluate(context.Background(), "(box 1 2 3)\n(+ 3")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if res != nil {
		t.Fatal("expected nil result on syntax error")
	}
	if len(evalErrs) == 0 || evalErrs[0].Message == "" {
		t.Fatalf("expected a populated eval error, got %v", evalErrs)
	}
	if evalErrs[0].Line > 0 {
		t.Logf("extracted line info: line=%d, message=%q", evalErrs[0].Line, evalErrs[0].Message)
	}
}

func TestEvaluateUndefinedSymbol(t *testing.T) {
	res, evalErrs, err := NewEngine().Evaluate(context.Background(), "(box 1 2 undefined-size)")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if res != nil || len(evalErrs) == 0 {
		t.Fatalf("expected eval errors, got result %v", res)
	}
}

func TestConstructionErrorIsEvalError(t *testing.T) {
	_, evalErrs, err := NewEngine().Evaluate(context.Background(), `(part "bad" (box 1 -2 3))`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected an eval error for a negative box size")
	}
	if !strings.Contains(evalErrs[0].Message, "invalid dimension") {
		t.Errorf("message = %q, want it to mention the invalid dimension", evalErrs[0].Message)
	}
}

func TestEvalErrorImplementsError(t *testing.T) {
	e := EvalError{Line: 5, Message: "something went wrong"}
	if s := e.Error(); !strings.Contains(s, "line 5") || !strings.Contains(s, "something went wrong") {
		t.Errorf("Error() = %q", s)
	}
	e2 := EvalError{Message: "no location"}
	if s := e2.Error(); strings.Contains(s, "line") {
		t.Errorf("Error() with no line should not mention a line, got %q", s)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	src := `(part "plate" (difference (box 20 10 2) (translate (cylinder 4 1.5) 5 5 -1)))`
	var first csg.NodeID
	for i := range 5 {
		res := evaluate(t, src)
		id := res.Lookup("plate").ID()
		if i == 0 {
			first = id
		} else if id != first {
			t.Fatalf("iteration %d: node ID changed", i)
		}
	}
}

func TestEvaluateConcurrent(t *testing.T) {
	eng := NewEngine()
	var wg sync.WaitGroup
	ids := make([]csg.NodeID, 8)
	for i := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, evalErrs, err := eng.Evaluate(context.Background(), `(part "p" (sphere 2))`)
			if err != nil || len(evalErrs) > 0 {
				t.Errorf("evaluation %d failed: %v %v", i, err, evalErrs)
				return
			}
			ids[i] = res.Lookup("p").ID()
		}()
	}
	wg.Wait()
	for i := range ids {
		if ids[i] != csg.Sphere(2).ID() {
			t.Errorf("evaluation %d built a different sphere", i)
		}
	}
}

func TestWaitTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	ch := make(chan evalResult) // never sends
	_, _, err := waitWithTimeout(ctx, ch, 20*time.Millisecond)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("error = %v, want ErrTimeout", err)
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("error message = %q", err)
	}
}

func TestWaitTimeoutDropsLateResult(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	ch := make(chan evalResult, 1)
	if _, _, err := waitWithTimeout(ctx, ch, 10*time.Millisecond); !errors.Is(err, ErrTimeout) {
		t.Fatalf("error = %v, want ErrTimeout", err)
	}
	// A script that finishes after the deadline must not block on send.
	sent := make(chan struct{})
	go func() {
		ch <- evalResult{result: &Result{Last: csg.Box(1, 1, 1)}}
		close(sent)
	}()
	select {
	case <-sent:
	case <-time.After(time.Second):
		t.Fatal("late result blocked its sender")
	}
}

func TestWaitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := waitWithTimeout(ctx, make(chan evalResult), time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestWaitDeliversResult(t *testing.T) {
	ch := make(chan evalResult, 1)
	want := &Result{Last: csg.Box(1, 1, 1)}
	ch <- evalResult{result: want}
	got, _, err := waitWithTimeout(context.Background(), ch, time.Second)
	if err != nil || got != want {
		t.Fatalf("got %v, %v", got, err)
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{"error on line format", "Error on line 5: unexpected token\n", 5, "unexpected token"},
		{"no line info", "some generic error", 0, "some generic error"},
		{"line format lowercase", "error on line 12: missing paren", 12, "missing paren"},
		{"short form", "line 3: box: expected number", 3, "expected number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errors.New(tt.msg))
			if len(errs) == 0 {
				t.Fatal("expected at least one error")
			}
			if errs[0].Line != tt.wantLine {
				t.Errorf("line = %d, want %d", errs[0].Line, tt.wantLine)
			}
			if !strings.Contains(errs[0].Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", errs[0].Message, tt.wantMsg)
			}
		})
	}
}

func TestResultRoot(t *testing.T) {
	a, b := csg.Box(1, 1, 1), csg.Sphere(1)
	tests := []struct {
		name    string
		res     Result
		part    string
		want    *csg.Node
		wantErr bool
	}{
		{"single part", Result{Parts: []Part{{"a", a}}}, "", a, false},
		{"named part", Result{Parts: []Part{{"a", a}, {"b", b}}}, "b", b, false},
		{"ambiguous", Result{Parts: []Part{{"a", a}, {"b", b}}}, "", nil, true},
		{"unknown name", Result{Parts: []Part{{"a", a}}}, "c", nil, true},
		{"last expression", Result{Last: b}, "", b, false},
		{"nothing", Result{}, "", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.res.Root(tt.part)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExampleScripts(t *testing.T) {
	scripts, err := filepath.Glob(filepath.Join("..", "..", "examples", "*.kerf"))
	if err != nil {
		t.Fatal(err)
	}
	if len(scripts) == 0 {
		t.Fatal("no example scripts found")
	}
	for _, path := range scripts {
		t.Run(filepath.Base(path), func(t *testing.T) {
			src, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			res := evaluate(t, string(src))
			if len(res.Parts) == 0 {
				t.Fatal("script registered no parts")
			}
			for _, p := range res.Parts {
				if err := p.Solid.Err(); err != nil {
					t.Errorf("part %s: %v", p.Name, err)
				}
			}
		})
	}
}
