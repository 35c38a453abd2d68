// Package server serves public playlists over HTTP.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering. Paths may contain
// wildcards ("/shared-playlist/{id}") which handlers read with [http.Request.PathValue].
//
// # Sharing
//
// [ShareHandler] answers GET /shared-playlist/{id} with a JSON document holding the playlist and its tracks.
// Private and missing playlists are both reported as 404 so a link never reveals that a private playlist exists.
//
// The server is started by "spin share serve"; "spin share link" prints the matching URL built by [ShareURL].
package server
