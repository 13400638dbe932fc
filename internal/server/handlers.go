// Package server provides the HTTP server and routing for the frontier service.
package server

import (
	"net/http"
)

// Version is reported by /health.
const Version = "1.0.0"

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"version": Version,
		"service": "frontier",
	}

	writeJSON(w, http.StatusOK, response, s.log)
}
