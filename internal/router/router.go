// Package router maps route paths to command handlers guarded by access
// checks. A guard that rejects a route navigates elsewhere and the router
// follows that redirect.
package router

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DefaultMaxRedirects = 5

var (
	ErrRouteNotFound = errors.New("route not found")
	ErrRouteBlocked  = errors.New("route blocked")
	ErrRedirectLoop  = errors.New("too many redirects")
)

// Handler runs a route. args are whatever the caller dispatched with; a route
// reached through a redirect gets none.
type Handler func(ctx context.Context, args []string) error

// Guard decides whether a route may be entered. A guard that says no is
// expected to call Navigate with the route to go to instead.
type Guard interface {
	CanActivate(path string) bool
}

type route struct {
	handler Handler
	guards  []Guard
}

type Router struct {
	mu           sync.Mutex
	routes       map[string]route
	current      string
	pending      string
	hasPending   bool
	maxRedirects int
	log          zerolog.Logger
}

type Option func(*Router)

func WithMaxRedirects(n int) Option {
	return func(r *Router) {
		r.maxRedirects = n
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(r *Router) {
		r.log = logger
	}
}

func New(options ...Option) *Router {
	r := &Router{
		routes:       make(map[string]route),
		maxRedirects: DefaultMaxRedirects,
		log:          log.Logger,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Register adds or replaces the handler for path.
func (r *Router) Register(path string, handler Handler, guards ...Guard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[path] = route{handler: handler, guards: guards}
}

// Navigate asks the router to move to path. Within a dispatch the move happens
// once the current guard or handler returns.
func (r *Router) Navigate(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.routes[path]; !ok {
		return fmt.Errorf("[Router Navigate] %w: %s", ErrRouteNotFound, path)
	}
	r.pending = path
	r.hasPending = true
	return nil
}

// Dispatch enters path: its guards run in order, the first to refuse stops the
// route and its redirect is followed instead. Once a route is entered its
// handler runs, and a navigation requested by the handler is followed too.
func (r *Router) Dispatch(ctx context.Context, path string, args []string) error {
	r.takePending()

	for hops := 0; ; hops++ {
		if hops > r.maxRedirects {
			return fmt.Errorf("[Router Dispatch] %w: stopped at %s", ErrRedirectLoop, path)
		}

		rt, ok := r.lookup(path)
		if !ok {
			return fmt.Errorf("[Router Dispatch] %w: %s", ErrRouteNotFound, path)
		}

		if allowed := r.activate(path, rt.guards); !allowed {
			next, ok := r.takePending()
			if !ok {
				return fmt.Errorf("[Router Dispatch] %w: %s", ErrRouteBlocked, path)
			}
			r.log.Debug().Str("from", path).Str("to", next).Msg("Redirected")
			path, args = next, nil
			continue
		}

		r.setCurrent(path)
		r.log.Debug().Str("route", path).Strs("args", args).Msg("Entering route")
		if err := rt.handler(ctx, args); err != nil {
			r.takePending()
			return err
		}

		next, ok := r.takePending()
		if !ok {
			return nil
		}
		path, args = next, nil
	}
}

// Current is the last route entered.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Routes lists the registered paths in order.
func (r *Router) Routes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	paths := make([]string, 0, len(r.routes))
	for path := range r.routes {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func (r *Router) activate(path string, guards []Guard) bool {
	for _, g := range guards {
		if !g.CanActivate(path) {
			return false
		}
	}
	return true
}

func (r *Router) lookup(path string) (route, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.routes[path]
	return rt, ok
}

func (r *Router) setCurrent(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = path
}

func (r *Router) takePending() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	path, ok := r.pending, r.hasPending
	r.pending, r.hasPending = "", false
	return path, ok
}
