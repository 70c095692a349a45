package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/alnah/go-govdraft/internal/config"
)

// anthropicDefaultMaxTokens is used when a request leaves MaxTokens unset;
// the messages API requires a value.
const anthropicDefaultMaxTokens = 1024

// AnthropicProvider calls the Anthropic messages API.
type AnthropicProvider struct {
	client anthropic.Client
	model  string
}

var _ Provider = (*AnthropicProvider)(nil)

// NewAnthropic creates the Anthropic provider with SDK retries disabled.
func NewAnthropic(cfg config.AnthropicConfig, opts ...option.RequestOption) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingCredentials, config.ProviderAnthropic)
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultAnthropicModel
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}
	reqOpts = append(reqOpts, opts...)

	return &AnthropicProvider{
		client: anthropic.NewClient(reqOpts...),
		model:  model,
	}, nil
}

func (p *AnthropicProvider) Name() string { return config.ProviderAnthropic }

// Complete sends one messages request.
func (p *AnthropicProvider) Complete(ctx context.Context, req Request) (GeneratedText, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserPrompt)),
		},
	}
	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemPrompt}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return GeneratedText{}, classifyAnthropicError(err)
	}

	text, err := normalizeAnthropicMessage(msg)
	if err != nil {
		return GeneratedText{}, fmt.Errorf("%s: %w", config.ProviderAnthropic, err)
	}
	return GeneratedText{Text: text, Provider: config.ProviderAnthropic}, nil
}

// normalizeAnthropicMessage joins the text blocks of a message.
func normalizeAnthropicMessage(msg *anthropic.Message) (string, error) {
	if msg == nil {
		return "", fmt.Errorf("%w: nil message", ErrMalformedResponse)
	}
	var parts []string
	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	text := strings.TrimSpace(strings.Join(parts, "\n"))
	if text == "" {
		return "", fmt.Errorf("%w: no text content", ErrMalformedResponse)
	}
	return text, nil
}

func classifyAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return classifyStatus(config.ProviderAnthropic, apiErr.StatusCode, err)
	}
	return classifyTransport(config.ProviderAnthropic, err)
}
