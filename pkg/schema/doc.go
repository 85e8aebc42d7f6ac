// Package schema reflects JSON schemas from rtool's configuration types
// using [github.com/invopop/jsonschema].
package schema
