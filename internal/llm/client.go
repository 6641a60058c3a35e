package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ethmon/ethmon/internal/retry"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"
	maxTokens      = 4000
	requestTimeout = 5 * time.Minute
)

// DefaultModel is used when the operator has not configured one.
const DefaultModel = "claude-sonnet-4-5"

// ErrNoAPIKey means the Anthropic API key is not configured.
var ErrNoAPIKey = errors.New("ANTHROPIC_API_KEY is not set")

// Client calls the Anthropic Messages API to triage node logs.
type Client struct {
	http     *resty.Client
	baseURL  string
	apiKey   string
	model    string
	retryCfg retry.Config
}

// NewClient builds a triage client. model may be empty to use DefaultModel.
func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		http:     resty.New().SetTimeout(requestTimeout),
		baseURL:  defaultBaseURL,
		apiKey:   apiKey,
		model:    model,
		retryCfg: retry.DefaultConfig(),
	}
}

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Analyze sends both clients' log excerpts for triage and returns the
// model's analysis text. question is an optional operator question appended
// to the request.
func (c *Client) Analyze(ctx context.Context, erigonLogs, prysmLogs, question string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	req := apiRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		System:    systemPrompt,
		Messages: []apiMessage{
			{Role: "user", Content: buildUserMessage(erigonLogs, prysmLogs, question)},
		},
	}

	return retry.DoWithResult(ctx, c.retryCfg, func() (string, error) {
		return c.send(ctx, req)
	})
}

func (c *Client) send(ctx context.Context, req apiRequest) (string, error) {
	var body apiResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-api-key", c.apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetBody(req).
		SetResult(&body).
		SetError(&body).
		Post(c.baseURL + "/v1/messages")
	if err != nil {
		return "", fmt.Errorf("messages request failed: %w", err)
	}

	if !resp.IsSuccess() {
		if body.Error != nil {
			return "", fmt.Errorf("api error %d: %s: %s", resp.StatusCode(), body.Error.Type, body.Error.Message)
		}
		return "", fmt.Errorf("api error %d: %s", resp.StatusCode(), resp.Status())
	}

	for _, block := range body.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", errors.New("response contained no text block")
}
