package route

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"sort"
	"strings"
	"sync"
)

// Handler produces a result value from a payload and request metadata. A nil
// result is sent as an empty success.
type Handler func(ctx context.Context, payload Payload, meta Meta) (any, error)

// Route binds a path to a handler and the methods it accepts.
type Route struct {
	Path    string
	Handler Handler
	Methods []string
}

// Allows reports whether method may be dispatched to the route. OPTIONS is
// always accepted for preflight.
func (r Route) Allows(method string) bool {
	method = strings.ToUpper(method)
	if method == http.MethodOptions {
		return true
	}
	return slices.Contains(r.Methods, method)
}

// Registry maps paths to routes. Registering a path twice replaces the first
// route.
type Registry struct {
	mu     sync.RWMutex
	routes map[string]Route
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{routes: make(map[string]Route)}
}

// Register adds or replaces the route for path. Methods default to POST.
func (r *Registry) Register(path string, handler Handler, methods ...string) error {
	normalized, err := NormalizePath(path)
	if err != nil {
		return err
	}
	if handler == nil {
		return fmt.Errorf("%w: %s", ErrNilHandler, normalized)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[normalized] = Route{
		Path:    normalized,
		Handler: handler,
		Methods: normalizeMethods(methods),
	}
	return nil
}

// MustRegister is Register for static wiring; it panics on an invalid route.
func (r *Registry) MustRegister(path string, handler Handler, methods ...string) {
	if err := r.Register(path, handler, methods...); err != nil {
		panic(err)
	}
}

// Unregister removes a route
func (r *Registry) Unregister(path string) {
	normalized, err := NormalizePath(path)
	if err != nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.routes, normalized)
}

// Lookup retrieves the route registered for path
func (r *Registry) Lookup(path string) (Route, bool) {
	normalized, err := NormalizePath(path)
	if err != nil {
		return Route{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	route, ok := r.routes[normalized]
	return route, ok
}

// Routes returns all routes sorted by path
func (r *Registry) Routes() []Route {
	r.mu.RLock()
	routes := make([]Route, 0, len(r.routes))
	for _, route := range r.routes {
		routes = append(routes, route)
	}
	r.mu.RUnlock()

	sort.Slice(routes, func(i, j int) bool {
		return routes[i].Path < routes[j].Path
	})
	return routes
}

// Len returns the number of registered routes
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.routes)
}

// NormalizePath validates a route path and strips a trailing slash.
func NormalizePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path, nil
}

func normalizeMethods(methods []string) []string {
	if len(methods) == 0 {
		return []string{http.MethodPost}
	}
	out := make([]string, 0, len(methods))
	for _, m := range methods {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m == "" || slices.Contains(out, m) {
			continue
		}
		out = append(out, m)
	}
	if len(out) == 0 {
		return []string{http.MethodPost}
	}
	sort.Strings(out)
	return out
}
