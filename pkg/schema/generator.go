package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Generator reflects a JSON schema from a Go value.
type Generator struct {
	reflector *jsonschema.Reflector
	value     any
	id        string
}

// GeneratorOpt configures a [Generator].
type GeneratorOpt func(*Generator)

// WithID sets the schema's $id.
func WithID(id string) GeneratorOpt {
	return func(g *Generator) {
		g.id = id
	}
}

// WithAdditionalProperties allows properties that are not declared on the
// reflected types. By default they are rejected.
func WithAdditionalProperties() GeneratorOpt {
	return func(g *Generator) {
		g.reflector.AllowAdditionalProperties = true
	}
}

// NewGenerator creates a new [Generator] for v, which is usually a pointer
// to a zero or default config value.
func NewGenerator(v any, opts ...GeneratorOpt) *Generator {
	g := &Generator{
		value: v,
		reflector: &jsonschema.Reflector{
			Anonymous:                  true,
			ExpandedStruct:             true,
			DoNotReference:             true,
			RequiredFromJSONSchemaTags: true,
		},
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Reflect returns the reflected schema.
func (g *Generator) Reflect() *jsonschema.Schema {
	s := g.reflector.Reflect(g.value)
	if g.id != "" {
		s.ID = jsonschema.ID(g.id)
	}

	return s
}

// Generate returns the reflected schema as indented JSON.
func (g *Generator) Generate() ([]byte, error) {
	b, err := json.MarshalIndent(g.Reflect(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return b, nil
}

// MustGenerate is like [Generator.Generate] but panics on error.
func (g *Generator) MustGenerate() []byte {
	b, err := g.Generate()
	if err != nil {
		panic(err)
	}

	return b
}
