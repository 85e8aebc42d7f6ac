package engine

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// YAMLPath is an [Engine] for YAML path queries. The variables are treated
// as a YAML document, so `$.order.amount` selects vars["order"]["amount"].
type YAMLPath struct {
	tracer trace.Tracer
	id     string
}

// NewYAMLPath creates a new [YAMLPath] engine.
func NewYAMLPath() *YAMLPath {
	return &YAMLPath{
		tracer: otel.Tracer("engine"),
		id:     uuid.NewString(),
	}
}

// Name returns [VariantYAMLPath].
func (y *YAMLPath) Name() string {
	return VariantYAMLPath
}

// ID returns the unique ID of this instance.
func (y *YAMLPath) ID() string {
	return y.id
}

// Compile parses a YAML path. Variable names are not needed by this engine.
//
//nolint:ireturn // Satisfies the Engine interface.
func (y *YAMLPath) Compile(expression string, _ ...string) (Program, error) {
	path, err := yaml.PathString(expression)
	if err != nil {
		return nil, fmt.Errorf("compile expression: %w", err)
	}

	return &yamlProgram{tracer: y.tracer, path: path, expression: expression}, nil
}

// Execute parses and runs a YAML path against vars.
func (y *YAMLPath) Execute(ctx context.Context, expression string, vars map[string]any) (any, error) {
	p, err := y.Compile(expression)
	if err != nil {
		return nil, err
	}

	return p.Run(ctx, vars)
}

type yamlProgram struct {
	tracer     trace.Tracer
	path       *yaml.Path
	expression string
}

func (p *yamlProgram) Run(ctx context.Context, vars map[string]any) (any, error) {
	ctx, span := p.tracer.Start(ctx, "engine.execute", trace.WithAttributes(
		attribute.String("engine", VariantYAMLPath),
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

	doc, err := yaml.Marshal(vars)
	if err != nil {
		return nil, fmt.Errorf("marshal variables: %w", err)
	}

	var value any

	err = p.path.Read(bytes.NewReader(doc), &value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNoResult, p.expression, err)
	}

	return value, nil
}
