package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"backend/internal/config"
	"backend/internal/llm"
)

// Completer is the slice of the completion client the handlers use.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (*llm.Result, error)
}

// ChatRequest is the shared request body. Prompt and UserMessage are
// interchangeable; at least one must be present.
type ChatRequest struct {
	Prompt      string `json:"prompt"`
	UserMessage string `json:"userMessage"`
	MaxTokens   int    `json:"maxTokens"`
}

// Message returns whichever of the two fields carries the user text.
func (r ChatRequest) Message() string {
	if m := strings.TrimSpace(r.Prompt); m != "" {
		return m
	}
	return strings.TrimSpace(r.UserMessage)
}

const chatDefaultMaxTokens = 1500

// ChatHandler is the basic passthrough endpoint: prompt in, completion out,
// no database enrichment.
type ChatHandler struct {
	cfg *config.Config
	llm Completer
	log *zap.Logger
}

func NewChatHandler(cfg *config.Config, completer Completer, log *zap.Logger) *ChatHandler {
	return &ChatHandler{cfg: cfg, llm: completer, log: log}
}

func (h *ChatHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if resp, ok := gatePost(req); !ok {
		return resp, nil
	}

	log := h.log.With(zap.String("requestId", req.RequestContext.RequestID))

	var body ChatRequest
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		return badRequest("invalid JSON body"), nil
	}
	message := body.Message()
	if message == "" {
		return badRequest("prompt or userMessage is required"), nil
	}

	if !h.cfg.HasCompletionCredential() {
		log.Warn("completion credential missing")
		return softFail("completion API credential is not configured", nil), nil
	}

	maxTokens := body.MaxTokens
	if maxTokens <= 0 {
		maxTokens = chatDefaultMaxTokens
	}

	res, err := h.llm.Complete(ctx, message, maxTokens)
	if err != nil {
		return completionFailure(log, err), nil
	}

	log.Info("chat completed", zap.String("model", res.Model))
	return jsonOK(map[string]any{
		"success":   true,
		"response":  res.Text,
		"model":     res.Model,
		"timestamp": nowISO(),
	}), nil
}

// completionFailure maps completion-client errors onto the soft-failure
// envelope, attaching per-model diagnostics when the whole list was exhausted.
func completionFailure(log *zap.Logger, err error) events.APIGatewayV2HTTPResponse {
	var noModel *llm.NoWorkingModelError
	if errors.As(err, &noModel) {
		log.Warn("all models exhausted", zap.Int("attempts", len(noModel.Attempts)))
		return softFail(err.Error(), map[string]any{
			"attempts": noModel.Attempts,
		})
	}
	log.Error("completion failed", zap.Error(err))
	return softFail(err.Error(), nil)
}
