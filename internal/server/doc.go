// Package server provides HTTP routing, middleware, the OAuth callback and the JSON API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation registers method+path patterns on [http.ServeMux], so
// path values such as {id} are available through [http.Request.PathValue].
//
// # OAuth Handler
//
// [OAuthHandler] serves GET /login, GET /api/auth/callback/token and POST /logout.
//
// Login stores a random state in a cookie scoped to the callback path and redirects to the provider.
// The callback checks that state, exchanges the code, persists the token under the fixed key, and
// redirects to "/". A missing code redirects to "/"; any other failure redirects to
// "/?error=authentication_failed". The first outcome is published on [OAuthHandler.Result], which
// the CLI login command waits on.
//
// # API
//
// [API] exposes playlists, search and the chart over JSON. Errors are written as {"error": message}
// with the status from [StatusFor]:
//
//	shared.ErrMissingToken         401
//	*shared.APIRequestError        its status
//	*shared.AuthError              502
//	*shared.UpstreamLookupError    404
//	invalid input                  400
//	anything else                  500
//
// GET /api/deezer/top-tracks relays the chart body unchanged, answering 500 when the feed fails.
package server
