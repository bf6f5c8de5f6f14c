package main

import (
	"fmt"

	"github.com/jrsteele09/go-calendar-client/auth"
)

const (
	routeLogin    = auth.LoginRoute
	routeRegister = "/auth/register"
	routeLogout   = "/auth/logout"
	routeRoot     = auth.RootRoute
	routeWhoami   = "/whoami"
	routeMonth    = "/month"
	routeEvents   = "/events"
)

var commandRoutes = map[string]string{
	"login":    routeLogin,
	"register": routeRegister,
	"logout":   routeLogout,
	"whoami":   routeWhoami,
	"month":    routeMonth,
	"events":   routeEvents,
}

// routeFor maps the command line to a route and the arguments left for it.
func routeFor(args []string) (string, []string, error) {
	path, ok := commandRoutes[args[0]]
	if !ok {
		return "", nil, fmt.Errorf("unknown command %q", args[0])
	}
	return path, args[1:], nil
}

func (a *app) registerRoutes() {
	authGuard := auth.NewAuthGuard(a.holder, a.router, auth.WithGuardLogger(a.log))
	nonAuthGuard := auth.NewNonAuthGuard(a.holder, a.router, auth.WithGuardLogger(a.log))

	a.router.Register(routeLogin, a.login, nonAuthGuard)
	a.router.Register(routeRegister, a.register, nonAuthGuard)
	a.router.Register(routeLogout, a.logout, authGuard)
	a.router.Register(routeRoot, a.month, authGuard)
	a.router.Register(routeWhoami, a.whoami, authGuard)
	a.router.Register(routeMonth, a.month, authGuard)
	a.router.Register(routeEvents, a.eventCommands, authGuard)
}
