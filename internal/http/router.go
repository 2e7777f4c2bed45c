package httpserver

import (
	"net/http"

	"voltpoint/internal/http/handlers"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	AuthHandlers     *handlers.AuthHandlers
	StationsHandlers *handlers.StationsHandlers
	StationEvents    http.HandlerFunc
	HealthHandler    http.HandlerFunc
}

// NewRouter wires HTTP routes. Every station route sits behind the auth
// middleware so unauthenticated requests never reach the service.
func NewRouter(deps RouterDeps, auth func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /health", deps.HealthHandler)

	mux.Handle("POST /api/auth/signup", http.HandlerFunc(deps.AuthHandlers.Signup))
	mux.Handle("POST /api/auth/login", http.HandlerFunc(deps.AuthHandlers.Login))

	mux.Handle("GET /api/stations", auth(http.HandlerFunc(deps.StationsHandlers.List)))
	mux.Handle("POST /api/stations", auth(http.HandlerFunc(deps.StationsHandlers.Create)))
	mux.Handle("GET /api/stations/events", auth(deps.StationEvents))
	mux.Handle("GET /api/stations/{id}", auth(http.HandlerFunc(deps.StationsHandlers.Get)))
	mux.Handle("PUT /api/stations/{id}", auth(http.HandlerFunc(deps.StationsHandlers.Update)))
	mux.Handle("DELETE /api/stations/{id}", auth(http.HandlerFunc(deps.StationsHandlers.Delete)))

	return mux
}
