package yaml

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
)

// MergeVariables applies overrides to the root mapping of a variables
// document. A key in overrides replaces the whole value of the same key in
// data; other keys and comments in data are kept. When data holds no
// document, the result is overrides alone.
func MergeVariables(data []byte, overrides map[string]any) ([]byte, error) {
	if len(overrides) == 0 {
		return data, nil
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return marshalOverrides(overrides)
	}

	file, err := parser.ParseBytes(data, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if len(file.Docs) == 0 || isEmptyBody(file.Docs[0].Body) {
		return marshalOverrides(overrides)
	}

	node, err := yaml.ValueToNode(overrides, DefaultEncoderOptions...)
	if err != nil {
		return nil, fmt.Errorf("convert value to node: %w", err)
	}

	rootPath := NewPathBuilder().Root().Build()

	err = rootPath.MergeFromNode(file, node)
	if err != nil {
		return nil, fmt.Errorf("merge yaml: %w", err)
	}

	return []byte(file.String()), nil
}

func isEmptyBody(n ast.Node) bool {
	if n == nil {
		return true
	}

	_, ok := n.(*ast.CommentGroupNode)

	return ok
}

func marshalOverrides(overrides map[string]any) ([]byte, error) {
	b, err := Marshal(overrides)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}

	return b, nil
}
