// Package server holds the HTTP server configuration.
//
// The start command owns the Fiber application; this package only defines the
// listen port, the API key checked by the auth middleware and the graceful
// shutdown budget granted to running synchronization jobs.
package server
