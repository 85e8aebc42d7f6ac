// Package iox provides buffered copy and read helpers for files and streams.
//
// Every stream opened by this package is closed on all exit paths. An error
// from closing a stream is only reported when the primary operation
// succeeded, so it never masks the read, write or copy error that caused the
// failure.
package iox
