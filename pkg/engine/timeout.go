package engine

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// EvalTimeout is the default hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// ErrTimeout reports a script that ran past its time limit.
var ErrTimeout = errors.New("evaluation timed out")

// evalResult carries one evaluation's output through a channel.
type evalResult struct {
	result *Result
	errors []EvalError
	err    error
}

// waitWithTimeout waits for a result from ch until ctx is done. On timeout
// the interpreter goroutine may still be running; ch is buffered so it
// finishes without blocking and its result is dropped. The interpreter has
// no preemption point, so a script that never terminates keeps its
// goroutine running for the life of the process.
func waitWithTimeout(ctx context.Context, ch <-chan evalResult, limit time.Duration) (*Result, []EvalError, error) {
	select {
	case res := <-ch:
		return res.result, res.errors, res.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, nil, fmt.Errorf("engine: %w after %s", ErrTimeout, limit)
		}
		return nil, nil, fmt.Errorf("engine: %w", ctx.Err())
	}
}
