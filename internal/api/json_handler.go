package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arcticroofing/arctic-portal/internal/core"
	"github.com/arcticroofing/arctic-portal/internal/middleware"
)

// JSONHandler serves the read-only /api/v1 endpoints.
type JSONHandler struct {
	gate  *core.SessionGate
	views core.ViewService
}

// NewJSONHandler creates a new JSONHandler.
func NewJSONHandler(gate *core.SessionGate, vs core.ViewService) *JSONHandler {
	return &JSONHandler{gate: gate, views: vs}
}

// GetSession handles GET /api/v1/session
func (h *JSONHandler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, SessionResponse{Mode: string(h.gate.Mode()), Session: middleware.SessionFrom(c)})
}

// GetProject handles GET /api/v1/project
func (h *JSONHandler) GetProject(c *gin.Context) {
	c.JSON(http.StatusOK, h.views.Build(c.Request.Context(), middleware.SessionFrom(c)))
}
