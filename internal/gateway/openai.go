package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"

	"github.com/alnah/go-govdraft/internal/config"
)

// Azure request defaults applied when a request leaves them unset.
const (
	azureDefaultTopP        = 0.95
	azureDefaultMaxTokens   = 800
	azureDefaultTemperature = 0.7
)

// OpenAIProvider calls an OpenAI-compatible chat completions API. It backs
// both the Mistral and the Azure OpenAI providers.
type OpenAIProvider struct {
	name   string
	client openai.Client
	model  string

	topP               float64
	defaultMaxTokens   int
	defaultTemperature float64
}

var _ Provider = (*OpenAIProvider)(nil)

// NewMistral creates the Mistral provider. SDK retries are disabled; the
// gateway owns the retry policy.
func NewMistral(cfg config.MistralConfig, opts ...option.RequestOption) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingCredentials, config.ProviderMistral)
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultMistralBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultMistralModel
	}

	reqOpts := append([]option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}, opts...)

	return &OpenAIProvider{
		name:   config.ProviderMistral,
		client: openai.NewClient(reqOpts...),
		model:  model,
	}, nil
}

// NewAzure creates the Azure OpenAI provider. The deployment name is sent
// as the model.
func NewAzure(cfg config.AzureConfig, opts ...option.RequestOption) (*OpenAIProvider, error) {
	if cfg.APIKey == "" || cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingCredentials, config.ProviderAzure)
	}
	deployment := cfg.Deployment
	if deployment == "" {
		deployment = config.DefaultAzureDeployment
	}
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = config.DefaultAzureAPIVersion
	}

	reqOpts := append([]option.RequestOption{
		azure.WithEndpoint(cfg.Endpoint, apiVersion),
		azure.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}, opts...)

	return &OpenAIProvider{
		name:               config.ProviderAzure,
		client:             openai.NewClient(reqOpts...),
		model:              deployment,
		topP:               azureDefaultTopP,
		defaultMaxTokens:   azureDefaultMaxTokens,
		defaultTemperature: azureDefaultTemperature,
	}, nil
}

func (p *OpenAIProvider) Name() string { return p.name }

// Complete sends one chat completion request.
func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (GeneratedText, error) {
	resp, err := p.client.Chat.Completions.New(ctx, p.params(req))
	if err != nil {
		return GeneratedText{}, classifyOpenAIError(p.name, err)
	}

	text, err := normalizeChatCompletion(resp)
	if err != nil {
		return GeneratedText{}, fmt.Errorf("%s: %w", p.name, err)
	}
	return GeneratedText{Text: text, Provider: p.name}, nil
}

func (p *OpenAIProvider) params(req Request) openai.ChatCompletionNewParams {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(req.UserPrompt))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(p.model),
		Messages: messages,
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = p.defaultTemperature
	}
	if temperature > 0 {
		params.Temperature = openai.Float(temperature)
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.defaultMaxTokens
	}
	if maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(maxTokens))
	}

	if p.topP > 0 {
		params.TopP = openai.Float(p.topP)
	}
	return params
}

// normalizeChatCompletion extracts the first choice's text.
func normalizeChatCompletion(resp *openai.ChatCompletion) (string, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty content", ErrMalformedResponse)
	}
	return text, nil
}

func classifyOpenAIError(provider string, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return classifyStatus(provider, apiErr.StatusCode, err)
	}
	return classifyTransport(provider, err)
}
