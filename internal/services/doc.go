// Package services is the authenticated access layer for the Spotify Web API and the Deezer chart feed.
//
// # Token Store
//
// [TokenContext] holds the user bearer token. It starts empty, is filled by
// [TokenContext.Authenticate] after the OAuth redirect completes and is emptied by
// [TokenContext.Clear] on logout. Each context is independent; nothing is process-wide.
//
// # Client Credentials
//
// [ClientCredentials] lazily exchanges the app's client id and secret for an app-level token
// and caches it until its expiry. A cached token is valid while now < expiry, so a token
// expiring exactly now is refreshed.
//
// # Gateway
//
// [Gateway] is the single entry point for user-scoped calls. It refuses to touch the network
// without a user token, always sets its own Authorization header, reports non-2xx responses as
// [shared.APIRequestError], and shapes bodies through a (status, method) policy table:
//
//	204 No Content  any method  -> empty
//	any 2xx         PUT         -> empty
//	any 2xx         DELETE      -> empty
//	any 2xx         other       -> JSON body
//
// # Public Search
//
// [Searcher] uses the client-credentials token for non-personalized track search and returns the
// same [Result] type as the gateway. [Resolver] builds on it to join chart entries to Spotify tracks.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrMissingToken] : user-scoped call without a token
//   - [shared.AuthError] : token exchange rejected
//   - [shared.APIRequestError] : provider returned non-2xx
//   - [shared.UpstreamLookupError] : chart entry has no provider match
package services
