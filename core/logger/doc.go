// Package logger provides a structured logging facility based on Zap.
//
// New builds a production (json) or development (console) logger from Config.
// WithJob attaches the synchronization job id and group path, and WithRayID
// attaches the request id set by the rayid middleware, so that every line of a
// job or request can be correlated.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
