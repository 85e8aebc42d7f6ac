// Package config loads rtool configuration files.
//
// Files are decoded with [github.com/goccy/go-yaml], validated against the
// JSON schema of their kind, and checked again after defaults are applied.
// Errors point at the offending lines of the source file.
package config
