package handler

import (
	"net/http"

	"github.com/segyhp/auction-billing/pkg/response"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter wires health checks and the /api/v1 routes behind the CORS and logging middleware
func NewRouter(obligations *ObligationHandler, health *HealthHandler, logger *zap.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.CORSMiddleware, response.LoggingMiddleware(logger))

	// Health check
	router.HandleFunc("/health", health.Health).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", health.Ready).Methods(http.MethodGet)

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()
	obligations.RegisterRoutes(api)

	return router
}
