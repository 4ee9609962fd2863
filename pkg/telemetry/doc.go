// Package telemetry provides Prometheus metrics and OpenTelemetry tracing
// for template compilation, component creation and view flattening.
//
// Metrics collected (namespace "vtree" by default):
//   - vtree_compilations_total: compilations by component and status
//   - vtree_compile_duration_seconds: compilation duration by component
//   - vtree_schema_diagnostics_total: unknown schema members by code
//   - vtree_components_created_total: component instantiations by status
//   - vtree_flatten_total: root node computations by strategy
//   - vtree_root_nodes: root node count per computation
//   - vtree_live_views: embedded views currently alive
//   - vtree_preview_sessions: open websocket preview sessions
//
// All recording methods are safe on a nil *Metrics, so callers never need
// to check whether metrics are enabled.
//
// Example:
//
//	m := telemetry.NewMetrics(telemetry.WithNamespace("myapp"))
//	env := runtime.New(runtime.WithMetrics(m))
//	http.Handle("/metrics", promhttp.Handler())
package telemetry
