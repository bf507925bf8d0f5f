package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"

	"github.com/j0lvera/modebot/internal/errs"
)

const providerName = "ai"

// Completer generates text for a prompt, optionally continuing a conversation.
type Completer interface {
	Complete(ctx context.Context, prompt string, history []Message) (string, error)
}

// Service implements Completer using langchain-go
type Service struct {
	client  llms.Model
	system  string
	limiter *rate.Limiter
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithRateLimit throttles requests to r per second with the given burst.
// A zero rate disables throttling.
func WithRateLimit(r float64, burst int) ServiceOption {
	return func(s *Service) {
		if r <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(r), burst)
	}
}

// NewOpenAIService creates a Service backed by an OpenAI-compatible API.
func NewOpenAIService(apiKey, baseURL, model, system string, opts ...ServiceOption) (*Service, error) {
	client, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(baseURL),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return NewService(client, system, opts...), nil
}

func NewService(client llms.Model, system string, opts ...ServiceOption) *Service {
	s := &Service{
		client: client,
		system: system,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Complete implements Completer. Failures are reported as errs.ErrProviderUnavailable.
func (s *Service) Complete(ctx context.Context, prompt string, history []Message) (string, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", errs.Unavailable(providerName, fmt.Errorf("rate limit wait: %w", err))
		}
	}

	msgs := make([]llms.MessageContent, 0, len(history)+2)
	if s.system != "" {
		msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeSystem, s.system))
	}

	for _, msg := range history {
		var msgType llms.ChatMessageType
		switch msg.Role {
		case RoleUser:
			msgType = llms.ChatMessageTypeHuman
		case RoleAssistant:
			msgType = llms.ChatMessageTypeAI
		default:
			continue
		}
		msgs = append(msgs, llms.TextParts(msgType, msg.Content))
	}

	msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeHuman, prompt))

	resp, err := s.client.GenerateContent(ctx, msgs)
	if err != nil {
		return "", errs.Unavailable(providerName, fmt.Errorf("failed to generate content: %w", err))
	}

	if len(resp.Choices) == 0 {
		return "", errs.Unavailable(providerName, errors.New("no choices returned from model"))
	}

	return resp.Choices[0].Content, nil
}
