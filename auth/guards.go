package auth

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	LoginRoute = "/auth/login"
	RootRoute  = "/"
)

// Navigator moves the application to another route.
type Navigator interface {
	Navigate(path string) error
}

// AuthState is the synchronous read side of the session holder.
type AuthState interface {
	IsAuthenticated() bool
}

type GuardOption func(*guard)

// WithRedirect overrides the route a rejected navigation is sent to.
func WithRedirect(path string) GuardOption {
	return func(g *guard) {
		g.redirect = path
	}
}

func WithGuardLogger(logger zerolog.Logger) GuardOption {
	return func(g *guard) {
		g.log = logger
	}
}

type guard struct {
	state     AuthState
	navigator Navigator
	redirect  string
	log       zerolog.Logger
}

func newGuard(state AuthState, navigator Navigator, redirect string, options []GuardOption) guard {
	g := guard{
		state:     state,
		navigator: navigator,
		redirect:  redirect,
		log:       log.Logger,
	}
	for _, opt := range options {
		opt(&g)
	}
	return g
}

func (g guard) reject(path string) bool {
	g.log.Debug().Str("route", path).Str("redirect", g.redirect).Msg("Route blocked")
	if err := g.navigator.Navigate(g.redirect); err != nil {
		g.log.Err(err).Str("redirect", g.redirect).Msg("Redirect failed")
	}
	return false
}

// AuthGuard admits authenticated users only. Anyone else is sent to the login route.
type AuthGuard struct {
	guard
}

func NewAuthGuard(state AuthState, navigator Navigator, options ...GuardOption) *AuthGuard {
	return &AuthGuard{guard: newGuard(state, navigator, LoginRoute, options)}
}

func (g *AuthGuard) CanActivate(path string) bool {
	if g.state.IsAuthenticated() {
		return true
	}
	return g.reject(path)
}

// NonAuthGuard keeps authenticated users away from the login and register
// routes by sending them to the root route.
type NonAuthGuard struct {
	guard
}

func NewNonAuthGuard(state AuthState, navigator Navigator, options ...GuardOption) *NonAuthGuard {
	return &NonAuthGuard{guard: newGuard(state, navigator, RootRoute, options)}
}

func (g *NonAuthGuard) CanActivate(path string) bool {
	if !g.state.IsAuthenticated() {
		return true
	}
	return g.reject(path)
}
