// Package domain defines the core domain models for the chat backend.
package domain

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ProviderKind selects which generation backend handles a request.
type ProviderKind string

const (
	// ProviderGemini is the direct single-turn text-generation backend.
	ProviderGemini ProviderKind = "gemini"
	// ProviderBedrockKB is the retrieval-augmented knowledge-base backend.
	ProviderBedrockKB ProviderKind = "aws"
)

// Valid reports whether the kind names a known provider.
func (k ProviderKind) Valid() bool {
	return k == ProviderGemini || k == ProviderBedrockKB
}

// ResultShape tags the shape of a GenerationResult. The shape is fixed by
// the provider kind, never inferred from response content.
type ResultShape string

const (
	ShapePlainText   ResultShape = "plain_text"
	ShapeCaseStudies ResultShape = "case_studies"
)

// ShapeFor returns the result shape a provider kind produces.
func ShapeFor(kind ProviderKind) ResultShape {
	if kind == ProviderBedrockKB {
		return ShapeCaseStudies
	}
	return ShapePlainText
}

// ExchangeStatus represents the status of one orchestrated provider call.
type ExchangeStatus string

const (
	ExchangeStatusDispatching ExchangeStatus = "DISPATCHING"
	ExchangeStatusDone        ExchangeStatus = "DONE"
	ExchangeStatusFailed      ExchangeStatus = "FAILED"
)
