package quote

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider generates quotes with a chat-completion model instead of
// fetching them from DummyJSON. Selected with QUOTE_PROVIDER=openai.
type OpenAIProvider struct {
	config *Config
	client *openai.Client
}

const quotePrompt = "Reply with a single short inspirational quote and its author, " +
	"formatted exactly as: quote - author. No surrounding quotation marks."

func NewOpenAIProvider(config *Config) *OpenAIProvider {
	clientConfig := openai.DefaultConfig(config.OpenAIKey)
	if config.OpenAIBaseURL != "" {
		clientConfig.BaseURL = config.OpenAIBaseURL
	}

	return &OpenAIProvider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

func (p *OpenAIProvider) RandomQuote(ctx context.Context) (string, error) {
	if p.config.OpenAIKey == "" {
		return "", &QuoteError{Type: ErrTypeConfig, Message: "OPENAI_API_KEY is required for the openai quote provider"}
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.config.OpenAIModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: quotePrompt,
			},
		},
		Temperature: 0.9,
	})
	if err != nil {
		return "", NewNetworkError("completion request failed", err)
	}

	if len(resp.Choices) == 0 {
		return "", &QuoteError{Type: ErrTypeProvider, Message: "empty completion response"}
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", &QuoteError{Type: ErrTypeProvider, Message: "empty completion response"}
	}

	return text, nil
}
