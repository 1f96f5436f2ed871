// Package v1 provides the HTTP handlers for the chat backend.
package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medassist/orchestrator/internal/domain"
	"github.com/medassist/orchestrator/internal/service"
)

// genericError is the only failure text returned to callers; vendor error
// detail stays in the logs.
const genericError = "An internal server error occurred."

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/chat", h.PostChat)
	e.POST("/case-studies", h.PostCaseStudies)

	e.GET("/v1/sessions/:owner_id/messages", h.GetSessionMessages)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// ownerID resolves the opaque user id supplied by the identity layer.
func ownerID(c echo.Context) string {
	if id := c.Request().Header.Get("X-User-ID"); id != "" {
		return id
	}
	return "anonymous"
}

// errorStatus maps a classified orchestrator error to an HTTP status.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrPolicyBlocked):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrProviderUnavailable),
		errors.Is(err, domain.ErrProviderRejected),
		errors.Is(err, domain.ErrMalformedResponse),
		errors.Is(err, domain.ErrParseError),
		errors.Is(err, domain.ErrSchemaViolation):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
