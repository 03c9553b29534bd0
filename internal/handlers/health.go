package handlers

import (
	"log/slog"
	"net/http"
	"time"
)

// HealthHandler provides health check endpoint
type HealthHandler struct {
	logger  *slog.Logger
	version string
	storage string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(logger *slog.Logger, version, storage string) *HealthHandler {
	return &HealthHandler{
		logger:  logger,
		version: version,
		storage: storage,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Version     string    `json:"version"`
	CartStorage string    `json:"cartStorage"`
}

// ServeHTTP handles health check requests
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Version:     h.version,
		CartStorage: h.storage,
	}, h.logger)
}
