package provider

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
)

const (
	DefaultModel          = "gpt-4o-mini"
	DefaultMaxTokens      = 200
	DefaultTemperature    = 0.7
	DefaultSystemPrompt   = "You explain things simply and clearly."
	DefaultPromptTemplate = "Explain the following in simple terms: %s"
)

// Config holds the settings of the OpenAI generator. Zero values fall back to
// the Default* constants.
type Config struct {
	APIKey  string
	BaseURL string

	Model          string
	MaxTokens      int
	Temperature    *float32
	SystemPrompt   string
	PromptTemplate string
}

// OpenAI answers questions with the OpenAI chat completion API.
type OpenAI struct {
	client *openai.Client
	logger zerolog.Logger

	model          string
	maxTokens      int
	temperature    float32
	systemPrompt   string
	promptTemplate string
}

// NewOpenAI creates an OpenAI generator.
func NewOpenAI(cfg Config, logger zerolog.Logger) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key is empty")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	o := &OpenAI{
		client:         openai.NewClientWithConfig(clientConfig),
		logger:         logger.With().Str("component", "openai").Logger(),
		model:          cfg.Model,
		maxTokens:      cfg.MaxTokens,
		temperature:    DefaultTemperature,
		systemPrompt:   cfg.SystemPrompt,
		promptTemplate: cfg.PromptTemplate,
	}
	if o.model == "" {
		o.model = DefaultModel
	}
	if o.maxTokens <= 0 {
		o.maxTokens = DefaultMaxTokens
	}
	if cfg.Temperature != nil {
		o.temperature = *cfg.Temperature
		if o.temperature == 0 {
			// go-openai omits a zero temperature, which the API reads as 1.0
			o.temperature = math.SmallestNonzeroFloat32
		}
	}
	if o.systemPrompt == "" {
		o.systemPrompt = DefaultSystemPrompt
	}
	if o.promptTemplate == "" {
		o.promptTemplate = DefaultPromptTemplate
	}
	return o, nil
}

// Model returns the completion model used for answers.
func (o *OpenAI) Model() string { return o.model }

// Generate asks the model to explain question. Failures are returned as *Error.
func (o *OpenAI) Generate(ctx context.Context, question string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: o.systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(o.promptTemplate, question),
			},
		},
		MaxTokens:   o.maxTokens,
		Temperature: o.temperature,
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", NewError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Category: CategoryOther, Err: errors.New("no choices in response")}
	}

	o.logger.Debug().
		Str("model", o.model).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Int("total_tokens", resp.Usage.TotalTokens).
		Msg("chat completion finished")

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
