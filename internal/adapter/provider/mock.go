package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/medassist/orchestrator/internal/domain"
)

// MockAdapter is a stub backend for local development and tests.
type MockAdapter struct {
	kind domain.ProviderKind
}

// NewMockAdapter creates a mock adapter producing results of the shape the
// given provider kind would return.
func NewMockAdapter(kind domain.ProviderKind) *MockAdapter {
	return &MockAdapter{kind: kind}
}

var _ Adapter = (*MockAdapter)(nil)

// Generate returns a canned result matching the provider's shape.
func (m *MockAdapter) Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.GenerationResult, error) {
	if req.Prompt == "" {
		return nil, fmt.Errorf("mock provider rejects empty input: %w", domain.ErrProviderRejected)
	}

	if domain.ShapeFor(m.kind) == domain.ShapeCaseStudies {
		result := &domain.GenerationResult{Shape: domain.ShapeCaseStudies}
		for i := 1; i <= 3; i++ {
			result.CaseStudies = append(result.CaseStudies, domain.CaseStudy{
				Summary: fmt.Sprintf("[MOCK] Case study %d for input %q.", i, truncate(req.Prompt, 60)),
				Questions: []string{
					fmt.Sprintf("[MOCK] Question %d.1?", i),
					fmt.Sprintf("[MOCK] Question %d.2?", i),
					fmt.Sprintf("[MOCK] Question %d.3?", i),
				},
			})
		}
		return result, nil
	}

	return &domain.GenerationResult{
		Shape: domain.ShapePlainText,
		Text:  fmt.Sprintf("[MOCK] Received your message: %q. This is a mock response.", truncate(req.Prompt, 100)),
	}, nil
}

// truncate truncates a string to the given length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return strings.TrimSpace(s[:maxLen]) + "..."
}
