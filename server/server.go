// Package server is a development implementation of the calendar REST API.
// It keeps users and events in memory, hashes passwords with bcrypt and
// issues HS256 bearer tokens, so the client can be exercised end to end.
package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-calendar-client/events"
	"github.com/jrsteele09/go-calendar-client/internal/config"
	"github.com/jrsteele09/go-calendar-client/token/jwt"
	"github.com/jrsteele09/go-calendar-client/users"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config is the part of the configuration the API server reads.
type Config interface {
	config.EnvConfig
	config.ServerConfig
	config.CorsConfig
}

// Repos holds all repository dependencies for the Server
type Repos struct {
	Users  users.UserRepo   // Repository for user accounts
	Events events.EventRepo // Repository for calendar events
}

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	handler  http.Handler
	routes   []string
	config   Config
	repos    Repos
	tokens   *jwt.Creator
	verifier *jwt.Verifier
	log      zerolog.Logger
	nowFunc  func() time.Time
}

// ServerOption defines a function type to modify the Server instance.
type ServerOption func(*Server)

// WithNowFunc sets the clock used for tokens and timestamps (primarily for testing)
func WithNowFunc(now func() time.Time) ServerOption {
	return func(s *Server) {
		s.nowFunc = now
	}
}

func WithLogger(logger zerolog.Logger) ServerOption {
	return func(s *Server) {
		s.log = logger
	}
}

func New(config Config, repos Repos, options ...ServerOption) (*Server, error) {
	if repos.Users == nil {
		return nil, fmt.Errorf("[Server New] Users repo is required")
	}
	if repos.Events == nil {
		return nil, fmt.Errorf("[Server New] Events repo is required")
	}

	s := &Server{
		env:     config.GetEnv(),
		mux:     http.NewServeMux(),
		config:  config,
		repos:   repos,
		log:     log.Logger,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}

	s.tokens = jwt.NewCreator(config.GetSigningSecret(),
		jwt.WithExpiry(config.GetAccessTokenExpiry()),
		jwt.WithNowFunc(s.nowFunc),
	)
	s.verifier = jwt.NewVerifier(config.GetSigningSecret(), s.nowFunc)

	if err := s.InitialiseSystem(); err != nil {
		return nil, fmt.Errorf("[Server New] Failed to initialise the system: %w", err)
	}

	s.initRoutes()
	s.handler = ChainMiddleware(s.mux.ServeHTTP, s.APIMiddleware()...)
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			s.logRoute(parts[0], parts[1])
		} else {
			s.logRoute("", parts[0])
		}
	}
}

func (s *Server) logRoute(method, path string) {
	s.log.Info().Msgf("[%-19s] %s", colouredMethod(method), path)
}

func colouredMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}
