package handlers

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"backend/internal/config"
	"backend/internal/prompt"
	"backend/internal/query"
	"backend/internal/search"
)

// ChatSearchHandler is the comprehensive variant: the user message is
// classified, eligible category tables are searched, and the completion runs
// against a prompt grounded in the retrieved rows.
type ChatSearchHandler struct {
	cfg   *config.Config
	store search.RowStore // nil when row-store credentials are absent
	llm   Completer
	log   *zap.Logger
}

func NewChatSearchHandler(cfg *config.Config, store search.RowStore, completer Completer, log *zap.Logger) *ChatSearchHandler {
	return &ChatSearchHandler{cfg: cfg, store: store, llm: completer, log: log}
}

func (h *ChatSearchHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
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
	if h.store == nil {
		log.Warn("row store not configured")
		return softFail("row store is not configured", nil), nil
	}

	analysis := query.Analyze(message)
	log.Info("query analyzed",
		zap.String("intent", string(analysis.Intent)),
		zap.String("complexity", analysis.Complexity),
		zap.Strings("materials", analysis.Materials),
		zap.Strings("csiCodes", analysis.CSICodes),
	)

	agg, err := search.Aggregate(ctx, h.store, analysis)
	if err != nil {
		log.Error("aggregation failed", zap.Error(err))
		return softFail(err.Error(), nil), nil
	}
	log.Info("search aggregated",
		zap.Strings("tablesSearched", agg.TablesSearched),
		zap.Int("totalResults", agg.TotalResults),
	)

	composed := prompt.Build(message, agg)

	maxTokens := body.MaxTokens
	if maxTokens <= 0 {
		maxTokens = h.cfg.DefaultMaxTokens
	}

	res, err := h.llm.Complete(ctx, composed, maxTokens)
	if err != nil {
		return completionFailure(log, err), nil
	}

	log.Info("chat search completed", zap.String("model", res.Model))
	return jsonOK(map[string]any{
		"success":       true,
		"response":      res.Text,
		"model":         res.Model,
		"searchResults": agg,
		"timestamp":     nowISO(),
	}), nil
}
