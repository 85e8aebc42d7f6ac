// Package configs provides the Configuration kind, which declares the
// decision items rtool evaluates.
package configs

import (
	"errors"
	"fmt"
	"slices"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/macropower/rtool/api"
	"github.com/macropower/rtool/api/v1beta1"
	"github.com/macropower/rtool/pkg/decision"
	"github.com/macropower/rtool/pkg/engine"
	"github.com/macropower/rtool/pkg/naming"
	"github.com/macropower/rtool/pkg/schema"
	"github.com/macropower/rtool/pkg/yaml"
)

// Kind is the kind of the global configuration.
const Kind = "Configuration"

const schemaID = "https://rtool.macropower.dev/schemas/configs.v1beta1.json"

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	// ValidKinds contains the valid kind values for global configurations.
	ValidKinds = []string{Kind}

	// SchemaJSON is the JSON schema of [Config].
	SchemaJSON = schema.NewGenerator(&Config{}, schema.WithID(schemaID)).MustGenerate()

	// DefaultValidator validates configuration against [SchemaJSON].
	DefaultValidator = yaml.MustNewValidator(schemaID, SchemaJSON)

	// ErrNoDecisions is returned by [Config.Validate] when no decision is declared.
	ErrNoDecisions = errors.New("no decisions configured")

	// ErrEmptyDecision is returned for null entries in [Config.Decisions].
	ErrEmptyDecision = errors.New("empty decision")

	// Compile-time interface checks.
	_ v1beta1.Object = (*Config)(nil)
)

// Config represents the global rtool configuration.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	v1beta1.TypeMeta `json:",inline"`

	// Engine is the default engine variant for decisions that do not set one.
	Engine string `json:"engine,omitempty" jsonschema:"title=Engine,enum=cel,enum=yamlpath"`
	// Variables are declared for every decision, in addition to the keys of
	// the variables passed at evaluation time.
	Variables []string `json:"variables,omitempty" jsonschema:"title=Variables"`
	// Decisions are evaluated in order.
	Decisions []*Decision `json:"decisions" jsonschema:"required,title=Decisions"`
}

// Decision declares one expression decision item.
type Decision struct {
	// Name identifies the decision. It is normalized to a camel name.
	Name string `json:"name" jsonschema:"required,title=Name,minLength=1"`
	// Expression is compiled by the decision's engine.
	Expression string `json:"expression" jsonschema:"required,title=Expression,minLength=1"`
	// Engine overrides [Config.Engine].
	Engine string `json:"engine,omitempty" jsonschema:"title=Engine,enum=cel,enum=yamlpath"`
}

// New creates a new global [Config] with default values.
func New() *Config {
	c := &Config{
		TypeMeta: v1beta1.TypeMeta{
			APIVersion: v1beta1.APIVersion,
			Kind:       Kind,
		},
	}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes empty fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.Engine == "" {
		c.Engine = engine.DefaultVariant
	}

	for _, d := range c.Decisions {
		if d != nil && d.Engine == "" {
			d.Engine = c.Engine
		}
	}
}

// Validate checks the requirements that the schema cannot express.
func (c *Config) Validate() error {
	err := v1beta1.CheckTypeMeta(c, ValidKinds)
	if err != nil {
		return err //nolint:wrapcheck // Already wrapped.
	}

	if len(c.Decisions) == 0 {
		return ErrNoDecisions
	}

	names := map[string]int{}
	for i, d := range c.Decisions {
		if d == nil {
			return fmt.Errorf("decisions[%d]: %w", i, ErrEmptyDecision)
		}

		name := naming.CamelName(d.Name)
		if j, ok := names[name]; ok {
			return fmt.Errorf("decisions[%d]: %w: %q also used by decisions[%d]",
				i, decision.ErrDuplicateName, name, j)
		}

		names[name] = i

		if d.Engine != "" && !slices.Contains(engine.Variants(), d.Engine) {
			return fmt.Errorf("decisions[%d]: %w: %q", i, engine.ErrUnknownVariant, d.Engine)
		}
	}

	return nil
}

// DecisionSet compiles every decision into a [decision.Set]. vars are
// declared in addition to [Config.Variables].
func (c *Config) DecisionSet(vars []string, opts ...decision.ExprOpt) (*decision.Set, error) {
	declared := append(append([]string{}, c.Variables...), vars...)

	set, err := decision.NewSet()
	if err != nil {
		return nil, fmt.Errorf("create decision set: %w", err)
	}

	for i, d := range c.Decisions {
		if d == nil {
			return nil, fmt.Errorf("decisions[%d]: %w", i, ErrEmptyDecision)
		}

		exprOpts := append([]decision.ExprOpt{
			decision.WithName(d.Name),
			decision.WithEngine(d.Engine),
			decision.WithVariables(declared...),
		}, opts...)

		e, err := decision.NewExpr(d.Expression, exprOpts...)
		if err != nil {
			return nil, fmt.Errorf("decisions[%d]: %w", i, err)
		}

		err = set.Add(e)
		if err != nil {
			return nil, fmt.Errorf("decisions[%d]: %w", i, err)
		}
	}

	return set, nil
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, ValidKinds)
}

// MarshalYAML serializes the config to YAML.
func (c Config) MarshalYAML() ([]byte, error) {
	type alias Config

	b, err := api.MarshalYAML(alias(c))
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	return b, nil
}

// Write writes the config to the specified path if it doesn't already exist.
func (c Config) Write(path string) error {
	b, err := c.MarshalYAML()
	if err != nil {
		return err
	}

	err = api.WriteIfNotExists(path, b)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// WriteDefault writes the embedded default config.yaml to the specified path.
func WriteDefault(path string, force bool) error {
	err := api.WriteDefaultFile(path, defaultConfigYAML, force, "configuration")
	if err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	return nil
}

// DefaultYAML returns the embedded default configuration.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultConfigYAML...)
}

// GetPath returns the path to the global configuration file.
func GetPath() string {
	return api.GetConfigPath("config.yaml")
}
