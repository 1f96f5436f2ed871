package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"

	"github.com/medassist/orchestrator/internal/domain"
)

type stubRetrieveAndGenerate struct {
	gotInput *bedrockagentruntime.RetrieveAndGenerateInput
	output   *bedrockagentruntime.RetrieveAndGenerateOutput
	err      error
}

func (s *stubRetrieveAndGenerate) RetrieveAndGenerate(ctx context.Context, params *bedrockagentruntime.RetrieveAndGenerateInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.RetrieveAndGenerateOutput, error) {
	s.gotInput = params
	return s.output, s.err
}

func TestBedrockKBGenerate(t *testing.T) {
	raw := `{"caseStudies":[{"summary":"A cardiology case.","questions":["q1","q2","q3"]}]}`
	stub := &stubRetrieveAndGenerate{
		output: &bedrockagentruntime.RetrieveAndGenerateOutput{
			Output: &types.RetrieveAndGenerateOutput{Text: aws.String(raw)},
		},
	}

	adapter := NewBedrockKBAdapter(stub, "KB123", "model-arn")
	req := NewRequest(domain.ProviderBedrockKB, "Role: Doctor, Specialty: Cardiology, Department: Cardiology Department")
	result, err := adapter.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if result.Shape != domain.ShapeCaseStudies || len(result.CaseStudies) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(result.CaseStudies[0].Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(result.CaseStudies[0].Questions))
	}

	kbCfg := stub.gotInput.RetrieveAndGenerateConfiguration.KnowledgeBaseConfiguration
	if *kbCfg.KnowledgeBaseId != "KB123" || *kbCfg.ModelArn != "model-arn" {
		t.Fatalf("knowledge base config not forwarded: %+v", kbCfg)
	}
	if *kbCfg.RetrievalConfiguration.VectorSearchConfiguration.NumberOfResults != kbSearchResults {
		t.Fatalf("unexpected search result count")
	}
}

func TestBedrockKBEmptyPrompt(t *testing.T) {
	adapter := NewBedrockKBAdapter(&stubRetrieveAndGenerate{}, "KB123", "model-arn")
	_, err := adapter.Generate(context.Background(), NewRequest(domain.ProviderBedrockKB, ""))
	if !errors.Is(err, domain.ErrProviderRejected) {
		t.Fatalf("expected provider rejected on empty prompt, got %v", err)
	}
}

func TestBedrockKBVendorRefusal(t *testing.T) {
	stub := &stubRetrieveAndGenerate{
		err: &types.ValidationException{Message: aws.String("invalid model arn")},
	}
	adapter := NewBedrockKBAdapter(stub, "KB123", "bad-arn")
	_, err := adapter.Generate(context.Background(), NewRequest(domain.ProviderBedrockKB, "hi"))
	if !errors.Is(err, domain.ErrProviderRejected) {
		t.Fatalf("expected provider rejected, got %v", err)
	}
}

func TestBedrockKBTimeout(t *testing.T) {
	stub := &stubRetrieveAndGenerate{err: context.DeadlineExceeded}
	adapter := NewBedrockKBAdapter(stub, "KB123", "model-arn")
	_, err := adapter.Generate(context.Background(), NewRequest(domain.ProviderBedrockKB, "hi"))
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Fatalf("expected provider unavailable, got %v", err)
	}
}

func TestBedrockKBNoOutput(t *testing.T) {
	stub := &stubRetrieveAndGenerate{
		output: &bedrockagentruntime.RetrieveAndGenerateOutput{},
	}
	adapter := NewBedrockKBAdapter(stub, "KB123", "model-arn")
	_, err := adapter.Generate(context.Background(), NewRequest(domain.ProviderBedrockKB, "hi"))
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected malformed response, got %v", err)
	}
}

func TestBedrockKBSchemaViolation(t *testing.T) {
	raw := `{"caseStudies":[{"summary":"no questions here"}]}`
	stub := &stubRetrieveAndGenerate{
		output: &bedrockagentruntime.RetrieveAndGenerateOutput{
			Output: &types.RetrieveAndGenerateOutput{Text: aws.String(raw)},
		},
	}
	adapter := NewBedrockKBAdapter(stub, "KB123", "model-arn")
	_, err := adapter.Generate(context.Background(), NewRequest(domain.ProviderBedrockKB, "hi"))
	if !errors.Is(err, domain.ErrSchemaViolation) {
		t.Fatalf("expected schema violation, got %v", err)
	}
}
