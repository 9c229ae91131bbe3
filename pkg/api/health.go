package api

import (
	"net/http"

	"github.com/adfharrison1/go-docstore/pkg/wire"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message"`
	Stats   map[string]interface{} `json:"stats,omitempty"`
}

// HandleHealth handles GET requests to the health check endpoint
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	body, _ := wire.JSON.Marshal(HealthResponse{
		Status:  "healthy",
		Message: "docstore is running",
		Stats:   h.evaluator.Store().GetMemoryStats(),
	})

	w.Header().Set("Content-Type", wire.ContentTypeJSON)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
