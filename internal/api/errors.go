package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arcticroofing/arctic-portal/internal/backend"
	"github.com/arcticroofing/arctic-portal/internal/core"
	"github.com/arcticroofing/arctic-portal/internal/models"
)

// mapErrorToStatus maps service and backend errors to an HTTP status and an
// ErrorResponse. Provider errors keep the provider's message in Details.
func mapErrorToStatus(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, core.ErrEmptyMessage),
		errors.Is(err, core.ErrAddressRequired),
		errors.Is(err, core.ErrHomeownerFieldsRequired),
		errors.Is(err, core.ErrInvalidInviteToken),
		errors.Is(err, models.ErrMalformedFileRef):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error()}
	case errors.Is(err, backend.ErrNoSession):
		return http.StatusUnauthorized, ErrorResponse{Error: "Not signed in"}
	case errors.Is(err, core.ErrAdminForbidden), errors.Is(err, core.ErrMessagingDisabled):
		return http.StatusForbidden, ErrorResponse{Error: err.Error()}
	case errors.Is(err, core.ErrDocumentNotFound):
		return http.StatusNotFound, ErrorResponse{Error: core.ErrDocumentNotFound.Error()}
	case errors.Is(err, backend.ErrNotConnected):
		return http.StatusServiceUnavailable, ErrorResponse{Error: backend.ErrNotConnected.Error()}
	case errors.Is(err, backend.ErrUnsupported):
		return http.StatusNotImplemented, ErrorResponse{Error: backend.ErrUnsupported.Error()}
	case backend.IsProviderError(err):
		return http.StatusBadGateway, ErrorResponse{Error: "Backend request failed", Details: err.Error()}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
}

// abortWithError writes err as JSON and records it on the context for the request logger.
func abortWithError(c *gin.Context, err error) {
	status, resp := mapErrorToStatus(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}
