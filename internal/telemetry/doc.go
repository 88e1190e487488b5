// Package telemetry provides OpenTelemetry initialization and helpers
// for the recipe service and its generation worker.
//
// Traces, logs and metrics are exported over OTLP HTTP. When no endpoint
// is configured nothing is installed and the global no-op providers stay
// in place.
package telemetry
