// Package expr provides CEL (Common Expression Language) functionality
// for evaluating decision expressions.
//
// It creates CEL environments with custom functions for:
//   - Identifier operations (camelName, isBlank)
//   - File path operations (pathBase, pathDir, pathExt)
//   - YAML content extraction (yamlPath)
//
// Variables are declared by the caller, typically the CEL engine in
// [github.com/macropower/rtool/pkg/engine], which declares one `dyn`
// variable per key of the evaluation context.
package expr
