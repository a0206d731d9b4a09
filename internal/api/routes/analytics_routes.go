package routes

import (
	"github.com/gorilla/mux"

	analyticsHandler "github.com/petergfitz2/athena-ai-sub000/internal/api/handlers/analytics"
)

// RegisterAnalyticsRoutes registers all analytics routes
func RegisterAnalyticsRoutes(router *mux.Router, handler *analyticsHandler.Handler) {
	v1 := router.PathPrefix("/api/v1/analytics").Subrouter()

	// Performance
	v1.HandleFunc("/performance", handler.GetPerformance).Methods("GET")
	v1.HandleFunc("/performance", handler.PostPerformance).Methods("POST")

	// Correlation
	v1.HandleFunc("/correlation", handler.GetCorrelation).Methods("GET")
	v1.HandleFunc("/correlation", handler.PostCorrelation).Methods("POST")

	// Risk
	v1.HandleFunc("/risk", handler.GetRisk).Methods("GET")
	v1.HandleFunc("/risk", handler.PostRisk).Methods("POST")
}
