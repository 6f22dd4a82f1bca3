// Package server provides HTTP routing, middleware, and the local sign-in
// callback used by the CLI.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Sign-In Callback Handler
//
// [SignInHandler] completes the browser-based sign-in flow. The CLI opens
// the mixtape service's sign-in page with a redirect pointing at a temporary
// server on localhost; after the user authenticates, the service redirects
// back with an API token. The handler validates the state parameter (CSRF
// protection) and sends the token through a channel.
//
// It only processes one callback to prevent replay attacks.
package server
