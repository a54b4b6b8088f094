package quizgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"tubequiz/internal/config"
	"tubequiz/internal/domain"
	"tubequiz/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// OpenAIClient sends quiz-generation prompts to an OpenAI-compatible
// endpoint through langchaingo. It performs no retries; rate limiting and
// backpressure are surfaced verbatim to the orchestrator.
type OpenAIClient struct {
	llm   *openai.LLM
	model string
}

// NewOpenAIClient builds the completion client from configuration. The
// endpoint may be any OpenAI-compatible server, including a local
// inference gateway.
func NewOpenAIClient(cfg config.OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is not configured")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("openai model name is not configured")
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
		openai.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, openai.WithBaseURL(cfg.Endpoint))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create completion client: %w", err)
	}
	return &OpenAIClient{llm: llm, model: cfg.Model}, nil
}

var _ domain.CompletionClient = (*OpenAIClient)(nil)

// Complete sends the rendered instruction and returns the raw completion
// text. Provider failures are mapped onto the domain's sentinel errors.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	resp, err := c.llm.GenerateContent(ctx, messages)
	if err != nil {
		logger.Get().Error("Completion request failed", zap.String("model", c.model), zap.Error(err))
		return "", classifyProviderError(ctx, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrProviderError)
	}
	return resp.Choices[0].Content, nil
}

// classifyProviderError maps transport and API failures onto the sentinel
// errors the pipeline understands. The provider SDK does not expose typed
// errors for these cases, so status markers in the message are matched.
func classifyProviderError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrCompletionTimeout, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "401") || strings.Contains(msg, "unauthorized") || strings.Contains(msg, "invalid api key"):
		return fmt.Errorf("%w: %v", domain.ErrCompletionAuth, err)
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit"):
		return fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
	default:
		return fmt.Errorf("%w: %v", domain.ErrProviderError, err)
	}
}
