package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/venysssssssssss/data-intake-selic-bc/internal/api/handlers"
	"github.com/venysssssssssss/data-intake-selic-bc/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: routes are declared in this function only
func NewRouter(selicHandler *handlers.SelicHandler, healthHandler *handlers.HealthHandler, allowedOrigins []string, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", healthHandler.Root).Methods("GET")

	// Registered on the root router so a method mismatch reaches MethodNotAllowedHandler
	r.HandleFunc("/v1/health", healthHandler.Health).Methods("GET")
	r.HandleFunc("/v1/ingest", selicHandler.Ingest).Methods("POST")
	r.HandleFunc("/v1/fetch-bcb", selicHandler.FetchBCB).Methods("POST")
	r.HandleFunc("/v1/raw-data", selicHandler.RawData).Methods("GET")
	r.HandleFunc("/v1/meta-selic", selicHandler.MetaSelic).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(handlers.RespondNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handlers.RespondMethodNotAllowed)

	r.Use(recoveryMiddleware(log))

	// Outside the router: preflight requests never match a route method,
	// and unmatched requests still need an id and a log line.
	var h http.Handler = r
	h = corsMiddleware(allowedOrigins)(h)
	h = loggingMiddleware(log)(h)
	h = requestIDMiddleware(h)
	return h
}
