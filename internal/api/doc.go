// Package api serves the dock controller's operator HTTP API and WebSocket
// event stream.
//
// Routes:
//
//	GET  /api/v1/health            liveness plus dependency checks
//	GET  /api/v1/status            controller snapshot
//	POST /api/v1/invoke            run the controller ({"argument": "..."})
//	GET  /api/v1/transitions       transition history, newest first
//	GET  /api/v1/transitions/{id}  one transition
//	GET  /api/v1/grids             grids from the site file
//	GET  /api/v1/blocks            inventory view, ?grid= filters
//	GET  /api/v1/system            runtime and scheduler statistics
//	GET  /api/v1/ws                event stream
//	GET  /metrics                  Prometheus exposition
//
// WebSocket clients subscribe to the channels dock.status, dock.transition
// and dock.diagnostic. The Hub implements the controller's Publisher hook so
// events reach clients as they happen.
//
// Lifecycle:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
package api
