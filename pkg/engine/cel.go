package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/rtool/pkg/expr"
	"github.com/macropower/rtool/pkg/log"
)

// DefaultProgramCacheSize is the number of compiled programs a [CEL] engine
// keeps by default.
const DefaultProgramCacheSize = 1024

// CEL is an [Engine] for Common Expression Language expressions.
//
// Every variable passed to [CEL.Execute] is declared with type `dyn`, so
// expressions can reference them directly, e.g. `order.amount < 1000`.
// Compiled programs are cached per expression and variable set. Once the
// cache is full, an arbitrary entry is evicted for each new program.
type CEL struct {
	tracer    trace.Tracer
	env       *expr.Environment
	programs  map[string]*celProgram
	id        string
	cacheSize int
	mu        sync.RWMutex
}

// CELOpt configures a [CEL] engine.
type CELOpt func(*CEL)

// WithProgramCacheSize bounds the number of cached programs. Zero or less
// disables caching.
func WithProgramCacheSize(n int) CELOpt {
	return func(c *CEL) {
		c.cacheSize = n
	}
}

// NewCEL creates a new [CEL] engine. Most callers should use [Get] or
// [Default] instead, which share a single instance.
func NewCEL(opts ...CELOpt) (*CEL, error) {
	env, err := expr.NewEnvironment()
	if err != nil {
		return nil, err //nolint:wrapcheck // Already wrapped.
	}

	c := &CEL{
		tracer:    otel.Tracer("engine"),
		env:       env,
		programs:  map[string]*celProgram{},
		id:        uuid.NewString(),
		cacheSize: DefaultProgramCacheSize,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// CachedPrograms returns the number of cached programs.
func (c *CEL) CachedPrograms() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.programs)
}

// Name returns [VariantCEL].
func (c *CEL) Name() string {
	return VariantCEL
}

// ID returns the unique ID of this instance.
func (c *CEL) ID() string {
	return c.id
}

// Compile compiles expression with vars declared as `dyn` variables.
//
//nolint:ireturn // Satisfies the Engine interface.
func (c *CEL) Compile(expression string, vars ...string) (Program, error) {
	key := cacheKey(expression, vars)

	c.mu.RLock()
	p, ok := c.programs[key]
	c.mu.RUnlock()

	if ok {
		return p, nil
	}

	env, err := c.env.Extend(expr.Variables(vars...)...)
	if err != nil {
		return nil, err //nolint:wrapcheck // Already wrapped.
	}

	program, err := env.Compile(expression)
	if err != nil {
		return nil, err //nolint:wrapcheck // Already wrapped.
	}

	p = &celProgram{
		tracer:     c.tracer,
		program:    program,
		expression: expression,
	}

	if c.cacheSize <= 0 {
		return p, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Keep the first program if another caller compiled concurrently.
	if existing, ok := c.programs[key]; ok {
		return existing, nil
	}

	for k := range c.programs {
		if len(c.programs) < c.cacheSize {
			break
		}

		delete(c.programs, k)
	}

	c.programs[key] = p

	return p, nil
}

// Execute compiles expression with every key of vars declared, and runs it.
func (c *CEL) Execute(ctx context.Context, expression string, vars map[string]any) (any, error) {
	p, err := c.Compile(expression, sortedKeys(vars)...)
	if err != nil {
		return nil, err
	}

	return p.Run(ctx, vars)
}

type celProgram struct {
	tracer     trace.Tracer
	program    cel.Program
	expression string
}

func (p *celProgram) Run(ctx context.Context, vars map[string]any) (any, error) {
	ctx, span := p.tracer.Start(ctx, "engine.execute", trace.WithAttributes(
		attribute.String("engine", VariantCEL),
		attribute.String("expression", p.expression),
	))
	defer span.End()

	err := ctx.Err()
	if err != nil {
		return nil, fmt.Errorf("evaluate expression: %w", err)
	}

	if vars == nil {
		vars = map[string]any{}
	}

	result, _, err := p.program.ContextEval(ctx, vars)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.WithContext(ctx).Debug("evaluation failed",
			slog.String("expression", p.expression),
			slog.Any("error", err),
		)

		return nil, fmt.Errorf("evaluate expression: %w", err)
	}

	return nativeValue(result), nil
}

// nativeValue converts a CEL value into plain Go values, recursing into
// lists and maps.
func nativeValue(v ref.Val) any {
	if v == types.NullValue {
		return nil
	}

	switch val := v.(type) {
	case traits.Mapper:
		out := map[string]any{}

		it := val.Iterator()
		for it.HasNext() == types.True {
			k := it.Next()
			out[fmt.Sprint(k.Value())] = nativeValue(val.Get(k))
		}

		return out

	case traits.Lister:
		out := []any{}

		it := val.Iterator()
		for it.HasNext() == types.True {
			out = append(out, nativeValue(it.Next()))
		}

		return out
	}

	return v.Value()
}
