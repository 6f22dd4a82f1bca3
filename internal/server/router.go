package server

import (
	"net/http"
)

// BasicRouter is a minimal [Router] backed by an [http.ServeMux]; the
// callback server registers a couple of routes and nothing more.
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware
}

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{mux: http.NewServeMux()}
}

// Use adds [Middleware] to the stack, applied in the order it's added.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers a handler for a method-qualified pattern
// (e.g. "GET /callback"), wrapped with all registered middleware.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	r.mux.Handle(method+" "+path, r.Apply(handler))
}

// Handler registers a custom Handler implementation under every route it
// returns from [Handler.Routes].
func (r *BasicRouter) Handler(handler Handler) {
	wrapped := r.Apply(handler)
	for _, route := range handler.Routes() {
		r.mux.Handle(route, wrapped)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps a handler with the middleware stack in reverse order (last
// added wraps first).
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	wrapped := handler
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}
	return wrapped
}
