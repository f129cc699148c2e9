package main

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/pdiazg46-design/app-finanza-Facil/internal/api/middleware"
)

// newRouter wires every endpoint and wraps the stack in CORS, rate
// limiting, logging and panic recovery.
func newRouter(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/voice/commands", deps.VoiceHandler.ProcessCommand)
	mux.HandleFunc("POST /v1/voice/parse", deps.VoiceHandler.Parse)

	mux.HandleFunc("GET /v1/funds/{fundID}/budget", deps.BudgetHandler.ListItems)
	mux.HandleFunc("GET /v1/funds/{fundID}/budget/candidates", deps.BudgetHandler.Candidates)
	mux.HandleFunc("POST /v1/funds/{fundID}/budget/refresh", deps.BudgetHandler.Refresh)
	mux.HandleFunc("GET /v1/funds/{fundID}/metrics", deps.FundHandler.Metrics)
	mux.HandleFunc("DELETE /v1/movements/{movementID}", deps.BudgetHandler.DeleteMovement)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	c := cors.New(cors.Options{
		AllowedOrigins: deps.Config.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         3600,
	})

	var handler http.Handler = mux
	handler = middleware.RateLimit(deps.Config.Server.RateLimitPerSecond, deps.Config.Server.RateLimitBurst)(handler)
	handler = c.Handler(handler)
	handler = middleware.Logger(deps.Logger)(handler)
	handler = middleware.Recovery(deps.Logger)(handler)
	return handler
}
