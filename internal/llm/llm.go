// Package llm generates commit messages through the Gemini API, reached via
// its OpenAI-compatible chat-completion endpoint.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/gemmit/gemmit/internal/config"
)

// ErrMissingAPIKey indicates that no credential is available for the
// generative-text service.
var ErrMissingAPIKey = errors.New(
	"GEMINI_API_KEY not found; export it or put it in a .env file in the repository root")

const requestTimeout = 30 * time.Second

const systemPrompt = "You are a professional Git commit message generator, " +
	"helping developers generate commit messages that comply with the " +
	"Conventional Commits specification."

// completer is the slice of the OpenAI client the generator uses.
type completer interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client calls the generative-text service. The zero network client is
// built lazily so that the credential check happens at generation time,
// after the workflow has established there is something to commit.
type Client struct {
	cfg *config.Config
	api completer
}

func NewClient(cfg *config.Config) *Client {
	return &Client{cfg: cfg}
}

// GenerateCommitMessage sends the prompt to the service and returns the
// response text with surrounding whitespace trimmed. This is the program's
// single network call; there is no retry.
func (c *Client) GenerateCommitMessage(ctx context.Context, prompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrMissingAPIKey
	}

	api := c.api
	if api == nil {
		clientConfig := openai.DefaultConfig(c.cfg.APIKey)
		clientConfig.BaseURL = config.DefaultAPIBase
		if c.cfg.APIBase != "" {
			clientConfig.BaseURL = c.cfg.APIBase
		}
		api = openai.NewClientWithConfig(clientConfig)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	model := c.cfg.Model
	if model == "" {
		model = config.DefaultModel
	}

	resp, err := api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call the generative-text service: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("the generative-text service returned an empty response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
