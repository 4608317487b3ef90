// Package server provides the short-lived loopback HTTP server used during sign-in.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback with PKCE.
//
// The handler validates the state parameter (CSRF protection), exchanges the authorization code for tokens
// using the code verifier, and sends the result through a channel.
// A callback carrying error=access_denied is reported as a denial so callers can tell a user who closed
// the consent screen apart from a failed exchange.
//
// It only processes one callback to prevent replay attacks.
//
// # Loopback Server
//
// [Listen] binds the callback address before returning so the authorization URL is never opened
// against a port that is not yet accepting connections. The caller shuts the server down once a result
// arrives or the sign-in deadline passes.
package server
