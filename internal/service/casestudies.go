package service

import (
	"context"
	"fmt"

	"github.com/medassist/orchestrator/internal/domain"
)

// CaseStudies runs a knowledge-base assessment turn. The prompt is built
// from the caller's role, specialty and department; the reply is recorded
// in the owner's session like any other chat turn, and the structured
// items are returned for the JSON response body.
func (s *Service) CaseStudies(ctx context.Context, ownerID, role, specialty, department string) ([]domain.CaseStudy, error) {
	prompt := fmt.Sprintf("Role: %s, Specialty: %s, Department: %s", role, specialty, department)

	_, result, err := s.handle(ctx, ownerID, prompt, domain.ProviderBedrockKB)
	if err != nil {
		return nil, err
	}
	return result.CaseStudies, nil
}
