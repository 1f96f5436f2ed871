// Package normalize converts raw provider output into the canonical
// GenerationResult shapes. It isolates JSON-shape fragility from the rest
// of the system: a structured result is accepted whole or rejected whole,
// never partially.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/medassist/orchestrator/internal/domain"
)

// caseStudiesDocument mirrors the JSON contract the knowledge-base prompt
// template demands from the vendor. Pointer fields distinguish a missing
// key from a present-but-empty value.
type caseStudiesDocument struct {
	CaseStudies *[]caseStudyEntry `json:"caseStudies"`
}

type caseStudyEntry struct {
	Summary   *string   `json:"summary"`
	Questions *[]string `json:"questions"`
}

// PlainText wraps direct-model output into a plain-text result.
func PlainText(raw string) (*domain.GenerationResult, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty text output: %w", domain.ErrMalformedResponse)
	}
	return &domain.GenerationResult{
		Shape: domain.ShapePlainText,
		Text:  raw,
	}, nil
}

// CaseStudies parses the strict case-study JSON document. Invalid JSON
// fails with ErrParseError; valid JSON with missing or wrong-shape required
// fields fails with ErrSchemaViolation. Item ordering is preserved verbatim.
func CaseStudies(raw string) (*domain.GenerationResult, error) {
	var doc caseStudiesDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: %v", domain.ErrSchemaViolation, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrParseError, err)
	}
	if doc.CaseStudies == nil {
		return nil, fmt.Errorf("missing caseStudies array: %w", domain.ErrSchemaViolation)
	}

	items := make([]domain.CaseStudy, 0, len(*doc.CaseStudies))
	for i, entry := range *doc.CaseStudies {
		if entry.Summary == nil || *entry.Summary == "" {
			return nil, fmt.Errorf("case study %d missing summary: %w", i, domain.ErrSchemaViolation)
		}
		if entry.Questions == nil || len(*entry.Questions) == 0 {
			return nil, fmt.Errorf("case study %d missing questions: %w", i, domain.ErrSchemaViolation)
		}
		for j, q := range *entry.Questions {
			if q == "" {
				return nil, fmt.Errorf("case study %d question %d is empty: %w", i, j, domain.ErrSchemaViolation)
			}
		}
		items = append(items, domain.CaseStudy{
			Summary:   *entry.Summary,
			Questions: *entry.Questions,
		})
	}

	return &domain.GenerationResult{
		Shape:       domain.ShapeCaseStudies,
		CaseStudies: items,
	}, nil
}
