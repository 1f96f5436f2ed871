package provider

import (
	"context"
	"fmt"
	"log"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"

	"github.com/medassist/orchestrator/internal/config"
	"github.com/medassist/orchestrator/internal/domain"
)

const (
	// ModeMock indicates stub providers should be used.
	ModeMock = "MOCK"
)

// NewRegistry builds the provider registry from configuration. With
// Mode=MOCK every backend is a stub; otherwise the real vendor clients are
// constructed once and reused for the process lifetime.
func NewRegistry(ctx context.Context, cfg *config.Config) (Registry, error) {
	if cfg.Mode == ModeMock {
		log.Println("CHAT_MODE=MOCK detected, using mock providers")
		return Registry{
			domain.ProviderGemini:    NewMockAdapter(domain.ProviderGemini),
			domain.ProviderBedrockKB: NewMockAdapter(domain.ProviderBedrockKB),
		}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	bedrockClient := bedrockagentruntime.NewFromConfig(awsCfg)

	return Registry{
		domain.ProviderGemini:    NewGeminiAdapter(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.ProviderTimeout),
		domain.ProviderBedrockKB: NewBedrockKBAdapter(bedrockClient, cfg.KnowledgeBaseID, cfg.KBModelARN),
	}, nil
}
