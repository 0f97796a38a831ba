package routes

import (
	"net/http"

	"SmartSensor.dynamoDB/internal/controller"
	"SmartSensor.dynamoDB/internal/utils"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(router *mux.Router, controller *controller.ReadingController, metricsHandler http.Handler) {
	// Sensor readings (GET only, the API is read-only)
	router.HandleFunc("/readings", controller.HandleQueryReadings).Methods(http.MethodGet)

	// Health check
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	if metricsHandler != nil {
		router.Handle("/metrics", metricsHandler).Methods(http.MethodGet)
	}
}
