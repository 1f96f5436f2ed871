// Package provider contains the generation-backend adapters. Each adapter
// translates a normalized GenerationRequest into one vendor call and the
// vendor response back into a canonical GenerationResult. Adapters are
// stateless and never touch session state.
package provider

import (
	"context"

	"github.com/medassist/orchestrator/internal/domain"
)

// Adapter is the capability interface every generation backend implements.
type Adapter interface {
	// Generate performs a single vendor call. It fails with
	// domain.ErrProviderUnavailable when the network/auth call cannot be
	// completed, domain.ErrProviderRejected on a non-success vendor status,
	// and domain.ErrMalformedResponse (or the normalizer's parse/schema
	// errors) when the response cannot be trusted.
	Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.GenerationResult, error)
}

// Registry maps provider kinds to adapters. Adding a backend is additive:
// register one more adapter under its kind.
type Registry map[domain.ProviderKind]Adapter

// For returns the adapter registered for the kind.
func (r Registry) For(kind domain.ProviderKind) (Adapter, bool) {
	a, ok := r[kind]
	return a, ok
}
