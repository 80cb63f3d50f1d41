// Package tessellate walks a solid tree and produces a boundary mesh using
// a geometry kernel. Results are memoized per node and resolution, so a
// subtree shared by several parents is tessellated once, and sibling
// subtrees are evaluated concurrently.
package tessellate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/chazu/kerf/pkg/csg"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/mesh"
)

// DefaultResolution is the segment count for circular features when the
// caller passes zero.
const DefaultResolution = 32

// cacheKey identifies one evaluated node.
type cacheKey struct {
	id  csg.NodeID
	res int
}

func (k cacheKey) String() string {
	return k.id.String() + "@" + strconv.Itoa(k.res)
}

// Stats reports cache behaviour since the evaluator was created or reset.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// Evaluator turns solid trees into meshes. It is safe for concurrent use;
// its cache is shared by every Evaluate call.
type Evaluator struct {
	k      kernel.Kernel
	logger *slog.Logger
	sem    *semaphore.Weighted

	flight singleflight.Group
	mu     sync.RWMutex
	cache  map[cacheKey]kernel.Solid

	hits, misses atomic.Int64
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger for per-node debug records.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithWorkers bounds the number of kernel operations running at once.
// The default is GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

// New returns an evaluator over k.
func New(k kernel.Kernel, opts ...Option) *Evaluator {
	e := &Evaluator{
		k:      k,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		sem:    semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
		cache:  make(map[cacheKey]kernel.Solid),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Kernel returns the evaluator's geometry kernel.
func (e *Evaluator) Kernel() kernel.Kernel { return e.k }

// Stats returns cache statistics.
func (e *Evaluator) Stats() Stats {
	e.mu.RLock()
	n := len(e.cache)
	e.mu.RUnlock()
	return Stats{Hits: e.hits.Load(), Misses: e.misses.Load(), Entries: n}
}

// Reset drops every cached solid and zeroes the statistics.
func (e *Evaluator) Reset() {
	e.mu.Lock()
	e.cache = make(map[cacheKey]kernel.Solid)
	e.mu.Unlock()
	e.hits.Store(0)
	e.misses.Store(0)
}

// Evaluate tessellates root at resolution res (DefaultResolution when zero)
// and returns a closed manifold mesh. Failures are *csg.NodeError values
// naming the node that failed; construction errors are reported before any
// kernel work. Cancelling ctx abandons the walk without caching anything
// for the unfinished nodes.
func (e *Evaluator) Evaluate(ctx context.Context, root *csg.Node, res int) (*mesh.Mesh, error) {
	if res == 0 {
		res = DefaultResolution
	}
	if root == nil {
		return nil, fmt.Errorf("tessellate: %w", root.Err())
	}
	path := root.Label()
	if err := root.Err(); err != nil {
		return nil, &csg.NodeError{Path: path, ID: root.ID(), Kind: root.Kind(), Err: err}
	}
	if res < 3 {
		return nil, &csg.NodeError{Path: path, ID: root.ID(), Kind: root.Kind(),
			Err: fmt.Errorf("tessellate: %w: resolution %d", csg.ErrInvalidDimension, res)}
	}

	start := time.Now()
	s, err := e.eval(ctx, root, path, res)
	if err != nil {
		return nil, err
	}
	m, err := e.k.ToMesh(s)
	if err != nil {
		return nil, &csg.NodeError{Path: path, ID: root.ID(), Kind: root.Kind(),
			Err: fmt.Errorf("tessellate: ToMesh: %w", err)}
	}
	if err := mesh.Validate(m); err != nil {
		return nil, &csg.NodeError{Path: path, ID: root.ID(), Kind: root.Kind(),
			Err: fmt.Errorf("%w: %v", csg.ErrNonManifoldResult, err)}
	}
	st := e.Stats()
	e.logger.Debug("evaluated tree",
		"root", root.ID().Short(), "res", res, "kernel", e.k.Name(),
		"faces", m.FaceCount(), "hits", st.Hits, "misses", st.Misses,
		"elapsed", time.Since(start))
	return m, nil
}

// eval returns the kernel solid for n, from the cache when possible. Only
// one goroutine builds any given key at a time.
func (e *Evaluator) eval(ctx context.Context, n *csg.Node, path string, res int) (kernel.Solid, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("tessellate: %s: %w", path, err)
	}
	key := cacheKey{id: n.ID(), res: res}
	if s, ok := e.lookup(key); ok {
		e.hits.Add(1)
		e.logger.Debug("cache hit", "path", path, "id", n.ID().Short(), "res", res)
		return s, nil
	}
	for {
		v, err, shared := e.flight.Do(key.String(), func() (any, error) {
			if s, ok := e.lookup(key); ok {
				e.hits.Add(1)
				return s, nil
			}
			e.misses.Add(1)
			s, err := e.build(ctx, n, path, res)
			if err != nil {
				return nil, &flightError{path: path, err: err}
			}
			e.mu.Lock()
			e.cache[key] = s
			e.mu.Unlock()
			return s, nil
		})
		if err == nil {
			return v.(kernel.Solid), nil
		}
		var fe *flightError
		if errors.As(err, &fe) {
			err = fe.rebase(path)
		}
		// A build shared with a caller whose context ended says nothing
		// about this caller; build again under our own context.
		if shared && cancelled(err) && ctx.Err() == nil {
			e.logger.Debug("shared build cancelled, retrying", "path", path, "id", n.ID().Short())
			continue
		}
		return nil, err
	}
}

// flightError remembers the path of the caller that ran a shared build so
// waiters reaching the same node by another path can report their own.
type flightError struct {
	path string
	err  error
}

func (e *flightError) Error() string { return e.err.Error() }

func (e *flightError) Unwrap() error { return e.err }

func (e *flightError) rebase(path string) error {
	var ne *csg.NodeError
	if path == e.path || !errors.As(e.err, &ne) {
		return e.err
	}
	rest, ok := strings.CutPrefix(ne.Path, e.path)
	if !ok || (rest != "" && rest[0] != '/' && rest[0] != '[') {
		return e.err
	}
	moved := *ne
	moved.Path = path + rest
	return &moved
}

func cancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (e *Evaluator) lookup(key cacheKey) (kernel.Solid, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.cache[key]
	return s, ok
}

// build evaluates the children of n concurrently, then applies n's own
// operation.
func (e *Evaluator) build(ctx context.Context, n *csg.Node, path string, res int) (kernel.Solid, error) {
	children := n.Children()
	solids := make([]kernel.Solid, len(children))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range children {
		g.Go(func() error {
			s, err := e.eval(gctx, c, csg.ChildPath(path, n, i, c), res)
			solids[i] = s
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := e.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("tessellate: %s: %w", path, err)
	}
	defer e.sem.Release(1)

	start := time.Now()
	s, err := e.apply(n, solids, res)
	if err != nil {
		return nil, &csg.NodeError{Path: path, ID: n.ID(), Kind: n.Kind(), Err: err}
	}
	e.logger.Debug("evaluated node",
		"path", path, "id", n.ID().Short(), "res", res, "elapsed", time.Since(start))
	return s, nil
}

// apply runs the kernel operation for one node over its evaluated children.
func (e *Evaluator) apply(n *csg.Node, solids []kernel.Solid, res int) (kernel.Solid, error) {
	switch d := n.Data().(type) {
	case csg.PrimitiveData:
		return e.primitive(d, res)

	case csg.TransformData:
		return e.k.Transform(solids[0], d.Matrix)

	case csg.BooleanData:
		switch d.Op {
		case csg.OpUnion:
			return e.k.Union(solids...)
		case csg.OpDifference:
			return e.k.Difference(solids[0], solids[1:]...)
		case csg.OpIntersection:
			return e.k.Intersection(solids...)
		}
		return nil, fmt.Errorf("tessellate: unknown boolean op %v", d.Op)

	case csg.HullData:
		return e.k.Hull(solids...)

	case csg.SweepData:
		profile, err := d.Profile.Points(res)
		if err != nil {
			return nil, err
		}
		return e.k.Sweep(profile, d.Path, d.Up, SweepSteps(res))

	case csg.RoundData:
		return e.k.Round(solids[0], d.Selector, d.Radius, d.Mode, res)

	default:
		return nil, fmt.Errorf("tessellate: node %s has unsupported data type %T", n.ID().Short(), n.Data())
	}
}

// primitive creates geometry for a primitive node.
func (e *Evaluator) primitive(d csg.PrimitiveData, res int) (kernel.Solid, error) {
	switch d.Prim {
	case csg.PrimBox:
		return e.k.Box(d.Size, d.Centered)
	case csg.PrimCylinder:
		n, err := csg.ResolveSegments(d.Segments, res)
		if err != nil {
			return nil, err
		}
		return e.k.Cylinder(d.Height, d.R1, d.R2, n, d.Centered)
	case csg.PrimSphere:
		n, err := csg.ResolveSegments(d.Segments, res)
		if err != nil {
			return nil, err
		}
		return e.k.Sphere(d.Radius, n)
	}
	return nil, fmt.Errorf("tessellate: unknown primitive %v", d.Prim)
}

// SweepSteps returns the number of samples per spline span at resolution
// res.
func SweepSteps(res int) int {
	return max(2, res/2)
}
