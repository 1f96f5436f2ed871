package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/medassist/orchestrator/internal/domain"
)

func TestCaseStudiesWellFormed(t *testing.T) {
	type entry struct {
		Summary   string   `json:"summary"`
		Questions []string `json:"questions"`
	}
	var entries []entry
	for i := 0; i < 10; i++ {
		e := entry{Summary: fmt.Sprintf("case %d", i)}
		for j := 0; j <= i%3; j++ {
			e.Questions = append(e.Questions, fmt.Sprintf("question %d-%d", i, j))
		}
		entries = append(entries, e)
	}
	raw, err := json.Marshal(map[string]interface{}{"caseStudies": entries})
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}

	result, err := CaseStudies(string(raw))
	if err != nil {
		t.Fatalf("CaseStudies failed: %v", err)
	}
	if result.Shape != domain.ShapeCaseStudies {
		t.Fatalf("unexpected shape: %s", result.Shape)
	}
	if len(result.CaseStudies) != 10 {
		t.Fatalf("expected 10 case studies, got %d", len(result.CaseStudies))
	}
	for i, cs := range result.CaseStudies {
		if cs.Summary != entries[i].Summary {
			t.Fatalf("ordering broken at %d: got %q", i, cs.Summary)
		}
		if len(cs.Questions) != len(entries[i].Questions) {
			t.Fatalf("question count mismatch at %d", i)
		}
	}
}

func TestCaseStudiesMissingQuestions(t *testing.T) {
	raw := `{"caseStudies":[{"summary":"ok","questions":["q1"]},{"summary":"no questions"}]}`

	_, err := CaseStudies(raw)
	if !errors.Is(err, domain.ErrSchemaViolation) {
		t.Fatalf("expected schema violation, got %v", err)
	}
}

func TestCaseStudiesMissingSummary(t *testing.T) {
	raw := `{"caseStudies":[{"questions":["q1","q2"]}]}`

	_, err := CaseStudies(raw)
	if !errors.Is(err, domain.ErrSchemaViolation) {
		t.Fatalf("expected schema violation, got %v", err)
	}
}

func TestCaseStudiesWrongShape(t *testing.T) {
	// questions is a string, not an array
	raw := `{"caseStudies":[{"summary":"ok","questions":"q1"}]}`

	_, err := CaseStudies(raw)
	if !errors.Is(err, domain.ErrSchemaViolation) {
		t.Fatalf("expected schema violation on type mismatch, got %v", err)
	}
}

func TestCaseStudiesInvalidJSON(t *testing.T) {
	_, err := CaseStudies("I am sorry, I cannot produce JSON today.")
	if !errors.Is(err, domain.ErrParseError) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestCaseStudiesMissingTopLevelKey(t *testing.T) {
	_, err := CaseStudies(`{"results":[]}`)
	if !errors.Is(err, domain.ErrSchemaViolation) {
		t.Fatalf("expected schema violation, got %v", err)
	}
}

func TestPlainText(t *testing.T) {
	result, err := PlainText("30 days")
	if err != nil {
		t.Fatalf("PlainText failed: %v", err)
	}
	if result.Shape != domain.ShapePlainText || result.Text != "30 days" {
		t.Fatalf("unexpected result: %+v", result)
	}

	if _, err := PlainText(""); !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected malformed response for empty text, got %v", err)
	}
}
