// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key) protecting the job endpoints.
//   - rayid: assigns a request id (RayID), stores it in the context for
//     logger.WithRayID and echoes it in the response headers.
package middleware
