// Package server exposes components over HTTP for inspection and live
// preview.
//
// # Routes
//
//	GET  /healthz
//	GET  /components
//	POST /components/{name}/render                 {"state": {...}}
//	POST /components/{name}/templates/{ref}/roots  {"state": {...}, "context": {...}}
//	GET  /ws/{name}
//	GET  /metrics
//
// Render and template requests create a fresh component for every request,
// apply the posted state, run change detection and respond with the HTML
// and a description of the root nodes:
//
//	{
//	  "component": "Greeting",
//	  "html": "<h1>Hello World</h1><!--container-->",
//	  "rootNodes": [{"type": "element", "tag": "h1", "text": "Hello World"}, {"type": "comment", "text": "container"}]
//	}
//
// A websocket session keeps one component alive. The server sends a render
// when the session opens and after every {"state": {...}} message.
//
// # Errors
//
// Failures are JSON {"error": ..., "code": ...}. Unknown components and
// template references are 404; undeclared components, schema violations
// and template parse errors are 422.
//
// # Example Usage
//
//	env := runtime.New(runtime.WithConfig(cfg))
//	if err := env.Configure(set.Root); err != nil {
//	    return err
//	}
//	srv := server.New(env, set,
//	    server.WithConfig(&server.Config{Address: cfg.Address()}),
//	    server.WithMiddleware(middleware.OpenTelemetry()),
//	)
//	return srv.Run()
//
// # Thread Safety
//
// Handlers run concurrently; every request and session owns its component
// instance exclusively.
package server
