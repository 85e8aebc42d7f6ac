// Package yaml wraps [github.com/goccy/go-yaml] with the encoder settings,
// schema validation and source-annotated errors used across rtool.
package yaml
