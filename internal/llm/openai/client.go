package openai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"resume-reviewer/internal/llm"
	"resume-reviewer/internal/shared/telemetry"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4o-mini"

	provider = "openai"
)

// Config configures an OpenAI narrative client. BaseURL overrides the API
// root (for example "https://api.openai.com/v1/").
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Client implements llm.Narrator using OpenAI Chat Completions.
type Client struct {
	model       string
	completions sdk.ChatCompletionService
}

// NewClient constructs a new OpenAI client. Request deadlines come from the
// caller's context and the SDK's own retries are disabled.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &llm.ConfigError{Kind: llm.KindMissingCredential, Provider: provider}
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		opts = append(opts, option.WithBaseURL(base))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	client := sdk.NewClient(opts...)
	return &Client{model: model, completions: client.Chat.Completions}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// GenerateNarrative sends prompt as a single user message and returns the reply.
func (c *Client) GenerateNarrative(ctx context.Context, prompt string) (string, error) {
	params := sdk.ChatCompletionNewParams{
		Model:               sdk.ChatModel(c.model),
		Messages:            []sdk.ChatCompletionMessageParamUnion{sdk.UserMessage(prompt)},
		MaxCompletionTokens: sdk.Int(2048),
	}
	// gpt-5 models reject a non-default temperature.
	if !isGPT5(c.model) {
		params.Temperature = sdk.Float(0.7)
	}

	resp, err := c.completions.New(ctx, params)
	if err != nil {
		return "", classify(ctx, err)
	}
	if len(resp.Choices) == 0 {
		return "", &llm.ValidationError{Reason: "openai response missing choices"}
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", llm.ErrEmptyNarrative
	}
	logUsage(c.model, hashPrompt(prompt), resp.Usage)
	return content, nil
}

// classify maps an SDK failure onto llm.ServiceError. Caller cancellation is
// returned unchanged.
func classify(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return llm.Timeout(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return llm.Timeout(err)
	}
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		svcErr := llm.FromStatus(apiErr.StatusCode, apiErr.Message)
		svcErr.Err = err
		return svcErr
	}
	return &llm.ServiceError{Kind: llm.KindUnknown, Err: fmt.Errorf("openai request: %w", err)}
}

func logUsage(model, promptHash string, usage sdk.CompletionUsage) {
	telemetry.Info("llm.response", map[string]any{
		"provider":          provider,
		"model":             model,
		"prompt_version":    llm.PromptVersion,
		"prompt_sha256":     promptHash,
		"prompt_tokens":     usage.PromptTokens,
		"completion_tokens": usage.CompletionTokens,
		"total_tokens":      usage.TotalTokens,
	})
}

func isGPT5(model string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(model)), "gpt-5")
}

func hashPrompt(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

var _ llm.Narrator = (*Client)(nil)
