// Package server exposes the song catalog over HTTP.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support. [BasicRouter] registers
// method-qualified [http.ServeMux] patterns such as "GET /songs", so requests with the wrong method
// receive 405 from the mux itself.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// # Handlers
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
// [SongsHandler] serves the catalog:
//
//	GET /songs?page=&limit=   → page of songs, or out-of-bounds metadata
//	GET /songs/title/{title}  → songs whose title matches case-insensitively
//	PUT /songs/{id}/rating    → set a song's star rating
//
// [HealthHandler] serves GET /health.
//
// Errors are written as {"error": "..."} with fixed messages. Each handler writes exactly one log
// line per request through the request-scoped logger installed by [RequestLogger].
//
// # Lifecycle
//
// [Server] wraps [http.Server] with configured timeouts and shuts down gracefully when its context is cancelled.
package server
