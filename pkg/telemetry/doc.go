// Package telemetry configures OpenTelemetry tracing for rtool.
//
// Spans are exported over OTLP/gRPC. When no endpoint is configured the
// global no-op provider is left in place, so instrumented code such as
// [github.com/macropower/rtool/pkg/engine] costs almost nothing.
package telemetry
