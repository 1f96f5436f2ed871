package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"

	"github.com/medassist/orchestrator/internal/domain"
	"github.com/medassist/orchestrator/internal/normalize"
)

// kbPromptTemplate instructs the model to emit the strict case-study JSON
// document. $search_results$ is substituted by Bedrock with the retrieved
// passages.
const kbPromptTemplate = `You are an AI tasked with providing summarized case studies based on the user's input.
Your task is as follows:
1. Summarize 10 case studies, each in about 100 words, based on the user's role, specialty, and department.
2. After each case study, generate 3 relevant and thought-provoking questions based on the core principles of the case study.
3. Ensure the summaries and questions are clear and concise, and tailored to the user's specific role and specialty.

Return the output in the following JSON format:
{
    "caseStudies": [
        {
            "summary": str,
            "questions": [
                str, str, str
            ]
        }
    ]
}
$search_results$`

const kbSearchResults = 10

// retrieveAndGenerateAPI is the slice of the Bedrock agent runtime client
// the adapter uses. Tests substitute a stub.
type retrieveAndGenerateAPI interface {
	RetrieveAndGenerate(ctx context.Context, params *bedrockagentruntime.RetrieveAndGenerateInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.RetrieveAndGenerateOutput, error)
}

// BedrockKBAdapter wraps a retrieval-augmented call against a fixed
// knowledge base. On success it parses the vendor's JSON document into a
// structured case-study result.
type BedrockKBAdapter struct {
	client          retrieveAndGenerateAPI
	knowledgeBaseID string
	modelARN        string
}

// NewBedrockKBAdapter creates a knowledge-base adapter bound to one
// knowledge base and model ARN.
func NewBedrockKBAdapter(client retrieveAndGenerateAPI, knowledgeBaseID, modelARN string) *BedrockKBAdapter {
	return &BedrockKBAdapter{
		client:          client,
		knowledgeBaseID: knowledgeBaseID,
		modelARN:        modelARN,
	}
}

var _ Adapter = (*BedrockKBAdapter)(nil)

// Generate runs one RetrieveAndGenerate call and normalizes the output.
func (a *BedrockKBAdapter) Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.GenerationResult, error) {
	if req.Prompt == "" {
		return nil, fmt.Errorf("knowledge base rejects empty input: %w", domain.ErrProviderRejected)
	}

	input := &bedrockagentruntime.RetrieveAndGenerateInput{
		Input: &types.RetrieveAndGenerateInput{
			Text: aws.String(req.Prompt),
		},
		RetrieveAndGenerateConfiguration: &types.RetrieveAndGenerateConfiguration{
			Type: types.RetrieveAndGenerateTypeKnowledgeBase,
			KnowledgeBaseConfiguration: &types.KnowledgeBaseRetrieveAndGenerateConfiguration{
				KnowledgeBaseId: aws.String(a.knowledgeBaseID),
				ModelArn:        aws.String(a.modelARN),
				RetrievalConfiguration: &types.KnowledgeBaseRetrievalConfiguration{
					VectorSearchConfiguration: &types.KnowledgeBaseVectorSearchConfiguration{
						NumberOfResults:    aws.Int32(kbSearchResults),
						OverrideSearchType: types.SearchTypeSemantic,
					},
				},
				GenerationConfiguration: &types.GenerationConfiguration{
					PromptTemplate: &types.PromptTemplate{
						TextPromptTemplate: aws.String(req.SystemInstruction),
					},
					InferenceConfig: &types.InferenceConfig{
						TextInferenceConfig: &types.TextInferenceConfig{
							Temperature: aws.Float32(float32(req.Sampling.Temperature)),
							TopP:        aws.Float32(float32(req.Sampling.TopP)),
							MaxTokens:   aws.Int32(int32(req.Sampling.MaxTokens)),
						},
					},
				},
				OrchestrationConfiguration: &types.OrchestrationConfiguration{
					QueryTransformationConfiguration: &types.QueryTransformationConfiguration{
						Type: types.QueryTransformationTypeQueryDecomposition,
					},
				},
			},
		},
	}

	out, err := a.client.RetrieveAndGenerate(ctx, input)
	if err != nil {
		return nil, classifyBedrockError(err)
	}

	if out.Output == nil || out.Output.Text == nil || *out.Output.Text == "" {
		return nil, fmt.Errorf("no output text from knowledge base: %w", domain.ErrMalformedResponse)
	}

	return normalize.CaseStudies(*out.Output.Text)
}

// classifyBedrockError maps vendor errors onto the core taxonomy without
// leaking vendor error text past the adapter boundary.
func classifyBedrockError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("knowledge base call timed out: %w", domain.ErrProviderUnavailable)
	}

	var (
		validationErr   *types.ValidationException
		accessDeniedErr *types.AccessDeniedException
		notFoundErr     *types.ResourceNotFoundException
		throttlingErr   *types.ThrottlingException
	)
	switch {
	case errors.As(err, &validationErr),
		errors.As(err, &accessDeniedErr),
		errors.As(err, &notFoundErr),
		errors.As(err, &throttlingErr):
		return fmt.Errorf("knowledge base rejected request: %w", domain.ErrProviderRejected)
	}

	return fmt.Errorf("knowledge base call failed: %v: %w", err, domain.ErrProviderUnavailable)
}
