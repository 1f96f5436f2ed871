package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/medassist/orchestrator/internal/adapter/provider"
	"github.com/medassist/orchestrator/internal/config"
	"github.com/medassist/orchestrator/internal/domain"
	store "github.com/medassist/orchestrator/internal/repository"
	"github.com/medassist/orchestrator/internal/service"
	"github.com/medassist/orchestrator/policy"
	"github.com/medassist/orchestrator/tests/helpers"
)

type failingAdapter struct{ err error }

func (a *failingAdapter) Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.GenerationResult, error) {
	return nil, a.err
}

func newTestHandler(t *testing.T, registry provider.Registry) (*Handler, store.Store) {
	t.Helper()

	db := helpers.NewTestSQLiteStore(t)
	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("failed to create policy engine: %v", err)
	}
	cfg := &config.Config{ProviderTimeout: time.Second}
	svc := service.New(db, registry, engine, cfg)
	return NewHandler(svc), db
}

func postJSON(e *echo.Echo, path string, body interface{}, userID string) (*httptest.ResponseRecorder, echo.Context) {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	return rec, e.NewContext(req, rec)
}

func TestPostChat(t *testing.T) {
	e := echo.New()
	h, db := newTestHandler(t, provider.Registry{
		domain.ProviderGemini: provider.NewMockAdapter(domain.ProviderGemini),
	})

	rec, c := postJSON(e, "/chat", ChatRequest{Body: "What is your return policy?", Type: "gemini"}, "u1")
	err := h.PostChat(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ChatResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Output, "What is your return policy?")

	messages, err := db.GetMessages(context.Background(), "u1", 0)
	assert.NoError(t, err)
	assert.Len(t, messages, 3)
}

func TestPostChatProviderFailure(t *testing.T) {
	e := echo.New()
	h, db := newTestHandler(t, provider.Registry{
		domain.ProviderGemini: &failingAdapter{
			err: fmt.Errorf("connection refused: %w", domain.ErrProviderUnavailable),
		},
	})

	rec, c := postJSON(e, "/chat", ChatRequest{Body: "hello", Type: "gemini"}, "u1")
	err := h.PostChat(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, genericError, resp["error"])
	// Vendor error text never reaches the caller.
	assert.NotContains(t, rec.Body.String(), "connection refused")

	// History still reflects what the user saw.
	messages, err := db.GetMessages(context.Background(), "u1", 0)
	assert.NoError(t, err)
	assert.Len(t, messages, 3)
	assert.Equal(t, service.Apology, messages[2].Content)
}

func TestPostChatUnknownProvider(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t, provider.Registry{})

	rec, c := postJSON(e, "/chat", ChatRequest{Body: "hello", Type: "openai"}, "u1")
	err := h.PostChat(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPostCaseStudies(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t, provider.Registry{
		domain.ProviderBedrockKB: provider.NewMockAdapter(domain.ProviderBedrockKB),
	})

	rec, c := postJSON(e, "/case-studies", CaseStudiesRequest{
		Role:       "Doctor",
		Specialty:  "Cardiology",
		Department: "Cardiology Department",
	}, "u2")
	err := h.PostCaseStudies(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp CaseStudiesResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.CaseStudies)
	for _, cs := range resp.CaseStudies {
		assert.NotEmpty(t, cs.Summary)
		assert.Len(t, cs.Questions, 3)
	}
}

func TestPostCaseStudiesMissingFields(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t, provider.Registry{
		domain.ProviderBedrockKB: provider.NewMockAdapter(domain.ProviderBedrockKB),
	})

	rec, c := postJSON(e, "/case-studies", CaseStudiesRequest{Role: "Doctor"}, "u2")
	err := h.PostCaseStudies(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSessionMessages(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t, provider.Registry{
		domain.ProviderGemini: provider.NewMockAdapter(domain.ProviderGemini),
	})

	rec, c := postJSON(e, "/chat", ChatRequest{Body: "hi", Type: "gemini"}, "u3")
	assert.NoError(t, h.PostChat(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/u3/messages", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("owner_id")
	c.SetParamValues("u3")

	assert.NoError(t, h.GetSessionMessages(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Messages []domain.Message `json:"messages"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Messages, 3)
	assert.Equal(t, store.Greeting, resp.Messages[0].Content)
}
