package provider

import "github.com/medassist/orchestrator/internal/domain"

// geminiSystemInstruction is the fixed instruction for the direct text
// backend.
const geminiSystemInstruction = "You are a customer service chat bot."

var defaultSampling = domain.SamplingConfig{
	Temperature: 0.7,
	TopP:        0.9,
	MaxTokens:   2048,
}

// NewRequest builds a GenerationRequest from the user prompt and the fixed
// per-provider configuration. System instruction and sampling are never
// user-supplied, keeping behavior deterministic and auditable.
func NewRequest(kind domain.ProviderKind, prompt string) *domain.GenerationRequest {
	req := &domain.GenerationRequest{
		Provider: kind,
		Prompt:   prompt,
		Sampling: defaultSampling,
	}
	switch kind {
	case domain.ProviderBedrockKB:
		req.SystemInstruction = kbPromptTemplate
	default:
		req.SystemInstruction = geminiSystemInstruction
	}
	return req
}
