// Package observability exposes the dock controller's Prometheus metrics.
//
// Collector implements the controller's Metrics hook and adds an HTTP
// middleware for the operator API. Handler serves the registry in the
// Prometheus text format.
package observability
