package server

// Route path constants
// All API routes are defined here to ensure consistency and prevent typos
const (
	RouteLogin    = "/login"
	RouteRegister = "/register"
	RouteUsers    = "/users"
	RouteUser     = "/users/{id}"
	RouteEvents   = "/events"
)
