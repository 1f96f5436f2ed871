package v1

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medassist/orchestrator/internal/domain"
)

// ChatRequest is the POST /chat body.
type ChatRequest struct {
	Body string `json:"body"`
	Type string `json:"type"`
}

// ChatResponse is the POST /chat success body.
type ChatResponse struct {
	Output string `json:"output"`
}

// CaseStudiesRequest is the POST /case-studies body.
type CaseStudiesRequest struct {
	Role       string `json:"role"`
	Specialty  string `json:"specialty"`
	Department string `json:"department"`
}

// CaseStudiesResponse is the POST /case-studies success body.
type CaseStudiesResponse struct {
	CaseStudies []domain.CaseStudy `json:"caseStudies"`
}

// PostChat handles one chat turn.
// POST /chat
func (h *Handler) PostChat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	owner := ownerID(c)

	reply, err := h.service.Handle(ctx, owner, req.Body, domain.ProviderKind(req.Type))
	if err != nil {
		log.Printf("chat request failed: owner=%s provider=%s error_kind=%s", owner, req.Type, domain.ErrorKind(err))
		return c.JSON(errorStatus(err), map[string]string{"error": genericError})
	}

	return c.JSON(http.StatusOK, ChatResponse{Output: reply.Content})
}

// PostCaseStudies handles a knowledge-base assessment request.
// POST /case-studies
func (h *Handler) PostCaseStudies(c echo.Context) error {
	var req CaseStudiesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Role == "" || req.Specialty == "" || req.Department == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "role, specialty and department are required"})
	}

	ctx := c.Request().Context()
	owner := ownerID(c)

	items, err := h.service.CaseStudies(ctx, owner, req.Role, req.Specialty, req.Department)
	if err != nil {
		log.Printf("case-studies request failed: owner=%s error_kind=%s", owner, domain.ErrorKind(err))
		return c.JSON(errorStatus(err), map[string]string{"error": genericError})
	}

	return c.JSON(http.StatusOK, CaseStudiesResponse{CaseStudies: items})
}
