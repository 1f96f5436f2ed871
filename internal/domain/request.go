package domain

// SamplingConfig holds the generation parameters for a provider call.
// Values are fixed per provider kind at construction time, never
// user-supplied.
type SamplingConfig struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	MaxTokens   int     `json:"max_tokens"`
}

// GenerationRequest is the normalized request handed to a provider adapter.
// It is ephemeral, scoped to one orchestrator call.
type GenerationRequest struct {
	Provider          ProviderKind   `json:"provider"`
	Prompt            string         `json:"prompt"`
	SystemInstruction string         `json:"system_instruction"`
	Sampling          SamplingConfig `json:"sampling"`
}

// CaseStudy is one item of a structured knowledge-base result.
type CaseStudy struct {
	Summary   string   `json:"summary"`
	Questions []string `json:"questions"`
}

// GenerationResult is the canonical provider output. Shape decides which
// field carries the payload: ShapePlainText uses Text, ShapeCaseStudies
// uses CaseStudies with vendor ordering preserved.
type GenerationResult struct {
	Shape       ResultShape `json:"shape"`
	Text        string      `json:"text,omitempty"`
	CaseStudies []CaseStudy `json:"case_studies,omitempty"`
}
