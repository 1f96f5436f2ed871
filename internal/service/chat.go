package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medassist/orchestrator/internal/adapter/provider"
	"github.com/medassist/orchestrator/internal/domain"
)

// Apology is the fixed assistant reply persisted when generation fails.
// History must always reflect what the user was shown.
const Apology = "Sorry, something went wrong while generating a response. Please try again."

// saveAttempts bounds the reload-and-replay loop on version conflicts.
const saveAttempts = 3

// Handle runs one orchestrated chat turn: load the owner's session,
// dispatch to the selected provider, append both the user message and the
// assistant reply, and persist the session.
//
// On provider or normalizer failure the fixed apology is appended and
// persisted exactly like a success, and the classified error is returned
// alongside it so the transport layer can log the kind and choose the
// status code. Raw vendor error text never crosses this boundary.
func (s *Service) Handle(ctx context.Context, ownerID, userText string, kind domain.ProviderKind) (*domain.Message, error) {
	msg, _, err := s.handle(ctx, ownerID, userText, kind)
	return msg, err
}

func (s *Service) handle(ctx context.Context, ownerID, userText string, kind domain.ProviderKind) (*domain.Message, *domain.GenerationResult, error) {
	decision, err := s.policyEngine.Evaluate(ctx, map[string]interface{}{
		"provider": string(kind),
		"owner_id": ownerID,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("policy evaluation failed: %w", err)
	}
	if decision != "allow" {
		return nil, nil, fmt.Errorf("provider %q for owner %s: %w", kind, ownerID, domain.ErrPolicyBlocked)
	}

	adapter, ok := s.providers.For(kind)
	if !ok {
		return nil, nil, fmt.Errorf("no adapter registered for provider %q: %w", kind, domain.ErrProviderUnavailable)
	}

	exchange := &domain.Exchange{
		ExchangeID: uuid.New().String(),
		OwnerID:    ownerID,
		Provider:   kind,
		Status:     domain.ExchangeStatusDispatching,
		StartedAt:  time.Now().UTC(),
	}
	if err := s.store.CreateExchange(ctx, exchange); err != nil {
		log.Printf("WARN: failed to record exchange: %v", err)
	}

	session, err := s.store.LoadSession(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}

	userMsg := domain.Message{
		MessageID: uuid.New().String(),
		SessionID: session.SessionID,
		Role:      domain.RoleUser,
		Content:   userText,
		CreatedAt: time.Now().UTC(),
	}
	session.Append(userMsg)

	req := provider.NewRequest(kind, userText)

	callCtx, cancel := context.WithTimeout(ctx, s.config.ProviderTimeout)
	result, genErr := adapter.Generate(callCtx, req)
	cancel()
	latencyMs := time.Since(exchange.StartedAt).Milliseconds()

	content := Apology
	if genErr == nil {
		content = renderResult(result)
	}
	assistantMsg := domain.Message{
		MessageID: uuid.New().String(),
		SessionID: session.SessionID,
		Role:      domain.RoleAssistant,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	session.Append(assistantMsg)

	persistErr := s.persist(ctx, ownerID, session, userMsg, assistantMsg)

	status := domain.ExchangeStatusDone
	callErr := genErr
	if callErr == nil && persistErr != nil {
		callErr = persistErr
	}
	if callErr != nil {
		status = domain.ExchangeStatusFailed
		log.Printf("chat exchange %s failed: owner=%s provider=%s error_kind=%s latency_ms=%d",
			exchange.ExchangeID, ownerID, kind, domain.ErrorKind(callErr), latencyMs)
	}
	if err := s.store.CompleteExchange(ctx, exchange.ExchangeID, status, latencyMs, domain.ErrorKind(callErr)); err != nil {
		log.Printf("WARN: failed to complete exchange: %v", err)
	}

	// A failed save is surfaced but the reply the user saw is still returned.
	if persistErr != nil {
		log.Printf("WARN: session for owner %s not persisted: %v", ownerID, persistErr)
	}

	return &assistantMsg, result, callErr
}

// persist saves the session, reloading and replaying the two appended
// messages when a concurrent writer bumped the version first.
func (s *Service) persist(ctx context.Context, ownerID string, session *domain.Session, userMsg, assistantMsg domain.Message) error {
	var err error
	for attempt := 0; attempt < saveAttempts; attempt++ {
		err = s.store.SaveSession(ctx, session)
		if err == nil || !errors.Is(err, domain.ErrVersionConflict) {
			return err
		}

		session, err = s.store.LoadSession(ctx, ownerID)
		if err != nil {
			return err
		}
		session.Append(userMsg)
		session.Append(assistantMsg)
	}
	return fmt.Errorf("gave up after %d attempts: %w", saveAttempts, domain.ErrPersistence)
}

// renderResult converts a generation result into one displayable message
// body. Structured case studies become a single text block with the
// vendor's ordering preserved verbatim.
func renderResult(result *domain.GenerationResult) string {
	if result.Shape != domain.ShapeCaseStudies {
		return result.Text
	}

	var b strings.Builder
	for i, cs := range result.CaseStudies {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Case Study %d: %s", i+1, cs.Summary)
		for j, q := range cs.Questions {
			fmt.Fprintf(&b, "\n  %d. %s", j+1, q)
		}
	}
	return b.String()
}

// Messages returns the owner's conversation history in insertion order.
func (s *Service) Messages(ctx context.Context, ownerID string, limit int) ([]domain.Message, error) {
	messages, err := s.store.GetMessages(ctx, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	return messages, nil
}
