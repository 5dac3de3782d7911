package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// DefaultBaseURL points at the hosted OpenAI-compatible completion service.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

// DefaultModels is the ordered fallback list, most capable first. Each model
// is tried at most once per request.
var DefaultModels = []string{
	"llama-3.3-70b-versatile",
	"llama-3.1-8b-instant",
	"mixtral-8x7b-32768",
	"gemma2-9b-it",
}

// Client sends composed prompts to the completion API, iterating the model
// list until one produces a non-empty completion.
type Client struct {
	api    *openai.Client
	models []string
	log    *zap.Logger
}

func New(apiKey, baseURL string, models []string, log *zap.Logger) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if strings.TrimSpace(baseURL) != "" {
		cfg.BaseURL = baseURL
	} else {
		cfg.BaseURL = DefaultBaseURL
	}
	if len(models) == 0 {
		models = DefaultModels
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		api:    openai.NewClientWithConfig(cfg),
		models: models,
		log:    log,
	}
}

// Models returns the configured fallback order.
func (c *Client) Models() []string {
	out := make([]string, len(c.models))
	copy(out, c.models)
	return out
}

// Result is a successful completion with the model that produced it.
type Result struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

// ModelAttempt records why one model in the fallback list was rejected.
type ModelAttempt struct {
	Model  string `json:"model"`
	Status int    `json:"status,omitempty"`
	Kind   string `json:"kind"`
	Error  string `json:"error"`
}

// NoWorkingModelError reports that every model in the list was tried and none
// returned a usable completion.
type NoWorkingModelError struct {
	Attempts []ModelAttempt
}

func (e *NoWorkingModelError) Error() string {
	names := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		names = append(names, a.Model)
	}
	return fmt.Sprintf("no working model (tried: %s)", strings.Join(names, ", "))
}

// Complete sends the prompt with the given token budget to each model in
// order and returns the first non-empty completion. Per-model failures are
// swallowed and recorded; list exhaustion surfaces a NoWorkingModelError.
func (c *Client) Complete(ctx context.Context, promptText string, maxTokens int) (*Result, error) {
	attempts := make([]ModelAttempt, 0, len(c.models))

	for _, model := range c.models {
		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:     model,
			MaxTokens: maxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: promptText},
			},
		})
		if err != nil {
			status, kind := classify(err)
			attempts = append(attempts, ModelAttempt{
				Model:  model,
				Status: status,
				Kind:   kind,
				Error:  err.Error(),
			})
			c.log.Warn("model rejected request",
				zap.String("model", model),
				zap.Int("status", status),
				zap.String("kind", kind),
			)
			continue
		}

		text := ""
		if len(resp.Choices) > 0 {
			text = strings.TrimSpace(resp.Choices[0].Message.Content)
		}
		if text == "" {
			attempts = append(attempts, ModelAttempt{
				Model: model,
				Kind:  "empty_completion",
				Error: "model returned an empty completion",
			})
			continue
		}

		c.log.Info("completion ok", zap.String("model", model))
		return &Result{Text: text, Model: model}, nil
	}

	return nil, &NoWorkingModelError{Attempts: attempts}
}

// Probe sends a minimal completion to every configured model and reports the
// outcome per model. Used by the diagnostic endpoint.
func (c *Client) Probe(ctx context.Context) []ModelStatus {
	out := make([]ModelStatus, 0, len(c.models))
	for _, model := range c.models {
		st := ModelStatus{Model: model}
		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:     model,
			MaxTokens: 8,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: "ping"},
			},
		})
		if err != nil {
			st.Status, st.Kind = classify(err)
			st.Error = err.Error()
		} else if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
			st.Kind = "empty_completion"
			st.Error = "model returned an empty completion"
		} else {
			st.OK = true
		}
		out = append(out, st)
	}
	return out
}

// ModelStatus is one probe outcome.
type ModelStatus struct {
	Model  string `json:"model"`
	OK     bool   `json:"ok"`
	Status int    `json:"status,omitempty"`
	Kind   string `json:"kind,omitempty"`
	Error  string `json:"error,omitempty"`
}

// classify maps an API error to an HTTP status and a coarse failure kind used
// in operator diagnostics.
func classify(err error) (int, string) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, kindForStatus(apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode, kindForStatus(reqErr.HTTPStatusCode, reqErr.Error())
	}
	return 0, "transport"
}

func kindForStatus(status int, msg string) string {
	low := strings.ToLower(msg)
	switch {
	case status == 401 || status == 403:
		return "auth_failure"
	case status == 404:
		return "model_not_found"
	case status == 429:
		return "rate_limited"
	case status == 400 && (strings.Contains(low, "token") || strings.Contains(low, "context length")):
		return "budget_exceeded"
	default:
		return "api_error"
	}
}
