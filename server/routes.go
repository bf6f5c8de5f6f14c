package server

func (s *Server) initRoutes() {
	// AUTH
	s.RegisterRouteFunc("POST "+RouteLogin, s.LoginHandler())
	s.RegisterRouteFunc("POST "+RouteRegister, s.RegisterHandler())

	// USERS
	s.RegisterRouteFunc("GET "+RouteUsers, s.ListUsersHandler())
	s.RegisterRouteHandler("PATCH "+RouteUser, ChainMiddleware(s.PatchUserHandler(), s.RequireAuth()))

	// EVENTS (bearer token required)
	s.RegisterRouteHandler("GET "+RouteEvents, ChainMiddleware(s.ListEventsHandler(), s.RequireAuth()))
	s.RegisterRouteHandler("POST "+RouteEvents, ChainMiddleware(s.CreateEventHandler(), s.RequireAuth()))
	s.RegisterRouteHandler("PUT "+RouteEvents, ChainMiddleware(s.UpdateEventHandler(), s.RequireAuth()))
	s.RegisterRouteHandler("DELETE "+RouteEvents, ChainMiddleware(s.DeleteEventHandler(), s.RequireAuth()))
}
