// Package middleware provides HTTP middleware for the inspection server.
//
// This package includes:
//   - OpenTelemetry tracing middleware
//   - Prometheus request metrics middleware
//
// Both label requests by their chi route pattern, such as
// "/components/{name}/render", so that metric cardinality stays bounded.
//
// # OpenTelemetry Middleware
//
//	srv := server.New(env, set, server.WithMiddleware(
//	    middleware.OpenTelemetry(middleware.WithTracerName("vtree")),
//	))
//
// The tracer uses the global OpenTelemetry tracer provider. Configure it
// in main() before starting the server:
//
//	otel.SetTracerProvider(tp)
//
// # Prometheus Metrics
//
// The Prometheus middleware collects:
//
//   - vtree_http_requests_total: requests by route, method and status
//
//   - vtree_http_request_duration_seconds: request duration by route
//
//   - vtree_http_request_errors_total: failed requests by route and class
//
//     reg := prometheus.NewRegistry()
//     srv := server.New(env, set,
//     server.WithMiddleware(middleware.Prometheus(middleware.WithRegistry(reg))),
//     server.WithMetrics(metrics, reg),
//     )
package middleware
