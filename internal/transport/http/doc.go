// Package http implements the HTTP handlers of the heatmap server.
//
// Handlers are thin: they call a service, copy or render the result, and
// hand any error to the shared RFC 7807 error handler.
//
// # Routes
//
//	GET /api/sales-data         the processor's result file, byte for byte
//	GET /api/sales-data/hourly  the same data folded into 24 hourly rows
//	GET /api/health             liveness plus result file status
//	GET /*                      static files from the web directory
package http
