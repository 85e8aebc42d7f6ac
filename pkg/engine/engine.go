package engine

import (
	"context"
	"errors"
	"slices"
	"strings"
)

const (
	// VariantCEL evaluates Common Expression Language expressions.
	VariantCEL = "cel"
	// VariantYAMLPath queries the variables with YAML paths, e.g. `$.order.amount`.
	VariantYAMLPath = "yamlpath"

	// DefaultVariant is the variant returned by [Default].
	DefaultVariant = VariantCEL
)

var (
	// ErrUnknownVariant is returned by [Get] for variants that were never registered.
	ErrUnknownVariant = errors.New("unknown engine variant")
	// ErrDuplicateVariant is returned by [Register] when the variant name is taken.
	ErrDuplicateVariant = errors.New("engine variant already registered")
	// ErrNoResult is returned when an expression selects nothing, such as a
	// YAML path to a missing key.
	ErrNoResult = errors.New("expression produced no result")
)

// Engine executes rule expressions.
type Engine interface {
	// Name returns the variant name of the engine.
	Name() string
	// Compile prepares an expression for repeated execution. Vars names the
	// variables the expression may reference.
	Compile(expression string, vars ...string) (Program, error)
	// Execute compiles and runs an expression against vars.
	Execute(ctx context.Context, expression string, vars map[string]any) (any, error)
}

// Program is a compiled expression.
type Program interface {
	Run(ctx context.Context, vars map[string]any) (any, error)
}

// Factory constructs an [Engine]. It is called at most once per variant.
type Factory func() (Engine, error)

func sortedKeys(vars map[string]any) []string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

// cacheKey identifies an expression compiled with a set of variable names.
func cacheKey(expression string, vars []string) string {
	names := slices.Clone(vars)
	slices.Sort(names)
	names = slices.Compact(names)

	return expression + "\x00" + strings.Join(names, "\x00")
}
