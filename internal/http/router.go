package httpserver

import "net/http"

// Routes groups handlers.
type Routes struct {
	SessionStart  http.HandlerFunc
	SessionStop   http.HandlerFunc
	SessionList   http.HandlerFunc
	BillingOwn    http.HandlerFunc
	BillingByUser http.HandlerFunc
	Events        http.HandlerFunc
	Health        http.HandlerFunc
}

// NewRouter registers endpoints. The middleware chain wraps every route.
func NewRouter(routes Routes, middleware func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()
	if routes.SessionStart != nil {
		mux.Handle("POST /parking-sessions/start/{lotID}/{plate}", routes.SessionStart)
	}
	if routes.SessionStop != nil {
		mux.Handle("POST /parking-sessions/stop/{plate}", routes.SessionStop)
	}
	if routes.SessionList != nil {
		mux.Handle("GET /parking-sessions", routes.SessionList)
	}
	if routes.BillingOwn != nil {
		mux.Handle("GET /billing", routes.BillingOwn)
	}
	if routes.BillingByUser != nil {
		mux.Handle("GET /billing/{username}", routes.BillingByUser)
	}
	if routes.Events != nil {
		mux.Handle("GET /events", routes.Events)
	}
	if routes.Health != nil {
		mux.Handle("GET /health", routes.Health)
	}

	var handler http.Handler = mux
	if middleware != nil {
		handler = middleware(mux)
	}
	return handler
}
