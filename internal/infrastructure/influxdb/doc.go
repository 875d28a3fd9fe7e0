// Package influxdb writes controller telemetry to InfluxDB 2.x.
//
// The dock controller records connector status samples and applied
// transitions as time-series points so operators can chart docking
// activity next to the rest of the site's telemetry. The dock package
// shapes the points; this package only owns the connection and the
// non-blocking, batched write API of influxdb-client-go.
//
// Writes never block the controller. Batch failures are delivered
// asynchronously to the callback registered with SetOnError.
package influxdb
