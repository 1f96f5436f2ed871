package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/medassist/orchestrator/internal/domain"
)

// GetSessionMessages retrieves an owner's conversation history.
// GET /v1/sessions/:owner_id/messages
func (h *Handler) GetSessionMessages(c echo.Context) error {
	owner := c.Param("owner_id")
	limit := 50
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			limit = val
		}
	}

	ctx := c.Request().Context()

	messages, err := h.service.Messages(ctx, owner, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if messages == nil {
		messages = []domain.Message{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages": messages,
	})
}
