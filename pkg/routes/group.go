// Package routes declares HTTP endpoints as nested groups and registers
// them on a ServeMux using Go 1.22 method patterns.
package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Group organizes routes under a common prefix. Children inherit the
// accumulated prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Patterns returns the full mux pattern of every route in g, parents first.
func (g Group) Patterns() []string {
	var out []string
	g.walk("", func(pattern string, _ http.HandlerFunc) {
		out = append(out, pattern)
	})
	return out
}

func (g Group) walk(parent string, visit func(pattern string, h http.HandlerFunc)) {
	prefix := parent + g.Prefix
	for _, r := range g.Routes {
		visit(r.Method+" "+prefix+r.Pattern, r.Handler)
	}
	for _, child := range g.Children {
		child.walk(prefix, visit)
	}
}

// Register adds all routes from groups to mux and returns the registered
// patterns. Conflicting patterns panic, as with ServeMux.HandleFunc.
func Register(mux *http.ServeMux, groups ...Group) []string {
	var registered []string
	for _, g := range groups {
		g.walk("", func(pattern string, h http.HandlerFunc) {
			mux.HandleFunc(pattern, h)
			registered = append(registered, pattern)
		})
	}
	return registered
}
