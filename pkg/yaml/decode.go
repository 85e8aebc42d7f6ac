package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// ErrNotMapping is returned by [DecodeVariables] when the document root is
// not a mapping.
var ErrNotMapping = errors.New("variables must be a mapping")

// Decoder reads rtool documents: configuration files and the variables that
// decisions are evaluated against. Syntax errors are returned as [*Error]
// pointing at the offending token.
type Decoder struct {
	d *yaml.Decoder
}

type decoderOptions struct {
	strictKeys bool
}

// DecoderOpt configures a [Decoder].
type DecoderOpt func(*decoderOptions)

// WithStrictKeys rejects mappings that define the same key twice. By
// default the last value wins.
func WithStrictKeys() DecoderOpt {
	return func(o *decoderOptions) {
		o.strictKeys = true
	}
}

// NewDecoder creates a [Decoder] reading from r.
func NewDecoder(r io.Reader, opts ...DecoderOpt) *Decoder {
	o := &decoderOptions{}
	for _, opt := range opts {
		opt(o)
	}

	var yamlOpts []yaml.DecodeOption
	if !o.strictKeys {
		yamlOpts = append(yamlOpts, yaml.AllowDuplicateMapKey())
	}

	return &Decoder{
		d: yaml.NewDecoder(r, yamlOpts...),
	}
}

// Decode reads the next document into v.
func (d *Decoder) Decode(v any) error {
	err := d.d.Decode(v)
	if err == nil {
		return nil
	}

	var yamlErr yaml.Error
	if errors.As(err, &yamlErr) {
		return &Error{
			Err:   errors.New(yamlErr.GetMessage()),
			Token: yamlErr.GetToken(),
		}
	}

	//nolint:wrapcheck // Return the original error if it's not a [yaml.Error].
	return err
}

// DecodeVariables decodes a variables document into the map passed to
// engines. An empty or null document yields an empty map. Duplicate keys
// are rejected, and errors are annotated with data.
func DecodeVariables(data []byte) (map[string]any, error) {
	vars := map[string]any{}
	if len(bytes.TrimSpace(data)) == 0 {
		return vars, nil
	}

	var doc any

	err := NewDecoder(bytes.NewReader(data), WithStrictKeys()).Decode(&doc)
	if errors.Is(err, io.EOF) {
		return vars, nil
	}
	if err != nil {
		return nil, NewErrorWrapper(WithSource(data)).Wrap(err)
	}

	switch root := doc.(type) {
	case nil:
		return vars, nil
	case map[string]any:
		return root, nil
	default:
		return nil, fmt.Errorf("%w, got %T", ErrNotMapping, doc)
	}
}
