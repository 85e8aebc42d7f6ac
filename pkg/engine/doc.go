// Package engine provides process-wide access to named expression engines.
//
// An [Engine] executes rule expressions against a set of variables. Engines
// are identified by a variant name, and each variant is constructed at most
// once, the first time it is requested. Every later caller receives the same
// instance for the lifetime of the process, including callers that race on
// the first request.
//
// Two variants are registered by default:
//   - "cel" ([VariantCEL], the default): Common Expression Language, see
//     [github.com/macropower/rtool/pkg/expr].
//   - "yamlpath" ([VariantYAMLPath]): YAML path queries such as
//     `$.order.amount`, evaluated against the variables.
//
// Additional variants can be added with [Register]. Registrations are
// append-only; there is no way to remove or reset a variant.
package engine
