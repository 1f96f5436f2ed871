package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/medassist/orchestrator/internal/domain"
	"github.com/medassist/orchestrator/internal/normalize"
)

// GeminiAdapter wraps the Generative Language generateContent call. It
// applies a fixed system instruction and returns plain text.
type GeminiAdapter struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGeminiAdapter creates a Gemini adapter. Configuration is injected
// once at construction; the adapter does no environment lookups.
func NewGeminiAdapter(baseURL, apiKey, model string, timeout time.Duration) *GeminiAdapter {
	return &GeminiAdapter{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

var _ Adapter = (*GeminiAdapter)(nil)

// geminiRequest is the generateContent request body.
type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// geminiResponse is the generateContent response body.
type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate sends one generateContent request and extracts the candidate text.
func (a *GeminiAdapter) Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.GenerationResult, error) {
	body := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}},
		},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     req.Sampling.Temperature,
			TopP:            req.Sampling.TopP,
			MaxOutputTokens: req.Sampling.MaxTokens,
		},
	}
	if req.SystemInstruction != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.SystemInstruction}}}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", a.baseURL, a.model, a.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, fmt.Errorf("gemini call timed out: %w", domain.ErrProviderUnavailable)
		}
		return nil, fmt.Errorf("gemini call failed: %v: %w", err, domain.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v: %w", err, domain.ErrProviderUnavailable)
	}

	if resp.StatusCode != http.StatusOK {
		var parsed geminiResponse
		if err := json.Unmarshal(respBody, &parsed); err == nil && parsed.Error != nil {
			return nil, fmt.Errorf("gemini rejected request [%d %s]: %w", parsed.Error.Code, parsed.Error.Status, domain.ErrProviderRejected)
		}
		return nil, fmt.Errorf("gemini returned status %d: %w", resp.StatusCode, domain.ErrProviderRejected)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %v: %w", err, domain.ErrMalformedResponse)
	}
	if len(parsed.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates in response: %w", domain.ErrMalformedResponse)
	}

	var text strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return normalize.PlainText(text.String())
}

// isTimeout reports whether a transport error was a timeout.
func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
