// Package naming derives camel-case identifiers from Go type names and
// arbitrary strings.
//
// The conversion is deliberately narrow: only an ASCII uppercase first
// character (A-Z) is lowercased, and the remainder of the name is kept as-is.
// Non-ASCII capitals, digits and lowercase letters are never changed, so the
// result is locale independent.
//
// Identifiers produced here are used to auto-name decision items, see
// [github.com/macropower/rtool/pkg/decision].
package naming
