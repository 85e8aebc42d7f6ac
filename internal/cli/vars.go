package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	goccyyaml "github.com/goccy/go-yaml"

	"github.com/macropower/rtool/api"
	"github.com/macropower/rtool/pkg/iox"
	"github.com/macropower/rtool/pkg/yaml"
)

// ErrInvalidVar is returned for --var values that are not key=value pairs.
var ErrInvalidVar = errors.New("invalid variable, expected key=value")

// VarsArgs are the flags shared by commands that evaluate expressions.
type VarsArgs struct {
	VarsFile string
	Charset  string
	Vars     []string
}

func (va *VarsArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&va.VarsFile, "vars", "", "YAML file with the variables to evaluate against")
	cmd.Flags().StringVar(&va.Charset, "vars-charset", "", "Character set of the variables file, default UTF-8")
	cmd.Flags().StringArrayVar(&va.Vars, "var", nil, "Set a variable, as key=value; the value is parsed as YAML")

	must(cmd.MarkFlagFilename("vars", "yaml", "yml"))
}

// Load reads the variables file, if any, and applies each --var on top.
func (va *VarsArgs) Load() (map[string]any, error) {
	overrides, err := parseVars(va.Vars)
	if err != nil {
		return nil, err
	}

	data, err := va.read()
	if err != nil {
		return nil, err
	}

	data, err = yaml.MergeVariables(data, overrides)
	if err != nil {
		return nil, fmt.Errorf("merge variables: %w", err)
	}

	vars, err := yaml.DecodeVariables(data)
	if err != nil {
		return nil, fmt.Errorf("decode variables: %w", err)
	}

	return vars, nil
}

func (va *VarsArgs) read() ([]byte, error) {
	if va.VarsFile == "" {
		return nil, nil
	}

	if va.Charset == "" {
		data, err := api.ReadFile(va.VarsFile)
		if err != nil {
			return nil, fmt.Errorf("read variables: %w", err)
		}

		return data, nil
	}

	f, err := os.Open(va.VarsFile)
	if err != nil {
		return nil, fmt.Errorf("read variables: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read-only.

	s, err := iox.ReadStringCharset(f, va.Charset)
	if err != nil {
		return nil, fmt.Errorf("read variables: %w", err)
	}

	return []byte(s), nil
}

func parseVars(pairs []string) (map[string]any, error) {
	vars := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidVar, pair)
		}

		var value any

		err := goccyyaml.Unmarshal([]byte(raw), &value)
		if err != nil {
			return nil, fmt.Errorf("parse variable %q: %w", key, err)
		}

		vars[key] = value
	}

	return vars, nil
}
