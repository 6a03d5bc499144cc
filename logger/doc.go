// Package logger provides structured logging for typedhttp using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields. The request layer logs
// decode diagnostics through the "rest" component logger and the transport
// adapter logs retries through the "httpclient" component logger.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("rest")
//	log.Error("decode failed", logger.Fields(logger.FieldMethod, "GET", logger.FieldURL, "/users"))
package logger
