package decision

import (
	"context"
	"errors"
	"fmt"

	"github.com/macropower/rtool/pkg/engine"
)

// ErrNotBoolean is returned by [Expr.Decide] when the expression does not
// evaluate to a boolean.
var ErrNotBoolean = errors.New("expression did not return a boolean")

// Evaluator is an [Item] that produces a value from a set of variables.
type Evaluator interface {
	Item
	Evaluate(ctx context.Context, vars map[string]any) (any, error)
}

// Expr is an [Item] that evaluates one expression with an [engine.Engine].
//
// The expression is compiled once, by [NewExpr]. Variables referenced by
// the expression must be declared with [WithVariables] for engines that
// type-check, such as CEL:
//
//	e, err := decision.NewExpr(`order.amount < 1000`,
//		decision.WithName("orderApproval"),
//		decision.WithVariables("order"),
//	)
//	ok, err := e.Decide(ctx, map[string]any{"order": map[string]any{"amount": 250}})
type Expr struct {
	program engine.Program
	engine  engine.Engine
	Base

	// Expression is the source of the compiled program.
	Expression string
	// Variables are the declared variable names.
	Variables []string
}

type exprOptions struct {
	registry  *engine.Registry
	name      string
	variant   string
	variables []string
}

// ExprOpt configures an [Expr].
type ExprOpt func(*exprOptions)

// WithName overrides the item name, which is otherwise derived from the
// [Expr] type. The name is normalized with the same camel-name rule.
func WithName(name string) ExprOpt {
	return func(o *exprOptions) {
		o.name = name
	}
}

// WithEngine selects the engine variant. The default is
// [engine.DefaultVariant].
func WithEngine(variant string) ExprOpt {
	return func(o *exprOptions) {
		o.variant = variant
	}
}

// WithVariables declares the variables the expression may reference.
func WithVariables(names ...string) ExprOpt {
	return func(o *exprOptions) {
		o.variables = append(o.variables, names...)
	}
}

// WithRegistry resolves engines from reg instead of the process-wide
// registry.
func WithRegistry(reg *engine.Registry) ExprOpt {
	return func(o *exprOptions) {
		o.registry = reg
	}
}

// NewExpr creates and compiles a new [Expr].
func NewExpr(expression string, opts ...ExprOpt) (*Expr, error) {
	options := &exprOptions{}
	for _, opt := range opts {
		opt(options)
	}

	e := &Expr{
		Expression: expression,
		Variables:  options.variables,
	}
	if options.name != "" {
		e.Base = NewBase(options.name)
	} else {
		e.Base = NewBaseFor(e)
	}

	eng, err := resolveEngine(options)
	if err != nil {
		return nil, fmt.Errorf("decision %q: %w", e.Name(), err)
	}

	program, err := eng.Compile(expression, options.variables...)
	if err != nil {
		return nil, fmt.Errorf("decision %q: %w", e.Name(), err)
	}

	e.engine = eng
	e.program = program

	return e, nil
}

// MustNewExpr creates a new [Expr] and panics if there's an error.
func MustNewExpr(expression string, opts ...ExprOpt) *Expr {
	e, err := NewExpr(expression, opts...)
	if err != nil {
		panic(err)
	}

	return e
}

//nolint:ireturn // Engines are pluggable.
func resolveEngine(o *exprOptions) (engine.Engine, error) {
	switch {
	case o.registry != nil && o.variant != "":
		return o.registry.Get(o.variant) //nolint:wrapcheck // Already wrapped.
	case o.registry != nil:
		return o.registry.Default() //nolint:wrapcheck // Already wrapped.
	case o.variant != "":
		return engine.Get(o.variant) //nolint:wrapcheck // Already wrapped.
	}

	return engine.Default() //nolint:wrapcheck // Already wrapped.
}

// Engine returns the variant name of the engine evaluating the expression.
func (e *Expr) Engine() string {
	return e.engine.Name()
}

// Evaluate runs the expression against vars.
func (e *Expr) Evaluate(ctx context.Context, vars map[string]any) (any, error) {
	v, err := e.program.Run(ctx, vars)
	if err != nil {
		return nil, fmt.Errorf("decision %q: %w", e.Name(), err)
	}

	return v, nil
}

// Decide runs the expression against vars, which must produce a boolean.
func (e *Expr) Decide(ctx context.Context, vars map[string]any) (bool, error) {
	v, err := e.Evaluate(ctx, vars)
	if err != nil {
		return false, err
	}

	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("decision %q: %w: got %T", e.Name(), ErrNotBoolean, v)
	}

	return b, nil
}

func (e *Expr) String() string {
	return fmt.Sprintf("%s: %s", e.Name(), e.Expression)
}
