// Package logging provides structured logging for the dock controller.
//
// It wraps log/slog with the controller's defaults: JSON or text output,
// level filtering, and the service and version fields on every entry.
//
// Configuration comes from the logging section of config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Usage:
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Info("controller started", "controller_id", cfg.Controller.ID)
//	dockLog := logger.Component("dock")
//
// Never log broker passwords or InfluxDB tokens.
package logging
