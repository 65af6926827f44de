package api

import "github.com/arcticroofing/arctic-portal/internal/models"

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`             // A high-level error message or code
	Details string `json:"details,omitempty"` // More specific details about the error, if available
}

// SessionResponse is returned by GET /api/v1/session. Session is null when signed out.
type SessionResponse struct {
	Mode    string          `json:"mode"`
	Session *models.Session `json:"session"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Mode   string `json:"mode"`
}
