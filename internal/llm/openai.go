package llm

import (
	"context"
	"fmt"

	"kitchen-assistant/internal/config"
	"kitchen-assistant/internal/shared"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	localModel     = "local-model"
	localToken     = "not-needed"
	localMaxTokens = 1500
)

// chatClient talks to any OpenAI-compatible chat completions endpoint.
type chatClient struct {
	llm      *openai.LLM
	model    string
	callOpts []llms.CallOption
}

// NewOpenAIClient creates a client for the hosted OpenAI API. The response
// is requested in JSON mode.
func NewOpenAIClient(cfg *config.Config) (TextGenerator, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	client, err := openai.New(
		openai.WithToken(cfg.OpenAIAPIKey),
		openai.WithBaseURL(cfg.OpenAIBaseURL),
		openai.WithModel(cfg.OpenAITextModel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}
	return &chatClient{
		llm:      client,
		model:    cfg.OpenAITextModel,
		callOpts: []llms.CallOption{llms.WithJSONMode()},
	}, nil
}

// NewLocalClient creates a client for a local OpenAI-compatible server such
// as LM Studio. No credentials are sent.
func NewLocalClient(cfg *config.Config) (TextGenerator, error) {
	client, err := openai.New(
		openai.WithToken(localToken),
		openai.WithBaseURL(cfg.LocalLLMURL),
		openai.WithModel(localModel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create local LLM client: %w", err)
	}
	return &chatClient{
		llm:      client,
		model:    localModel,
		callOpts: []llms.CallOption{llms.WithMaxTokens(localMaxTokens)},
	}, nil
}

// GenerateContent sends the system and user messages and returns the first choice.
func (c *chatClient) GenerateContent(ctx context.Context, prompt Prompt) (ContentResponse, error) {
	messages := make([]llms.MessageContent, 0, 2)
	if prompt.System != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, prompt.System))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, prompt.User))

	resp, err := c.llm.GenerateContent(ctx, messages, c.callOpts...)
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return ContentResponse{}, fmt.Errorf("no content generated")
	}

	choice := resp.Choices[0]
	usage := shared.TokenUsage{
		PromptTokens:     intFromInfo(choice.GenerationInfo, "PromptTokens"),
		CompletionTokens: intFromInfo(choice.GenerationInfo, "CompletionTokens"),
		TotalTokens:      intFromInfo(choice.GenerationInfo, "TotalTokens"),
		Model:            c.model,
	}

	return ContentResponse{Content: choice.Content, Usage: usage}, nil
}

func intFromInfo(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
