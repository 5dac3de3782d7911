package handlers

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"backend/internal/config"
	"backend/internal/llm"
)

// Prober probes every configured model, used by the diagnostic endpoint.
type Prober interface {
	Probe(ctx context.Context) []llm.ModelStatus
}

// ModelsHandler reports which of the configured fallback models currently
// accept requests. A troubleshooting aid, not part of the chat flow.
type ModelsHandler struct {
	cfg *config.Config
	llm Prober
	log *zap.Logger
}

func NewModelsHandler(cfg *config.Config, prober Prober, log *zap.Logger) *ModelsHandler {
	return &ModelsHandler{cfg: cfg, llm: prober, log: log}
}

func (h *ModelsHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if resp, ok := gatePost(req); !ok {
		return resp, nil
	}

	log := h.log.With(zap.String("requestId", req.RequestContext.RequestID))

	if !h.cfg.HasCompletionCredential() {
		log.Warn("completion credential missing")
		return softFail("completion API credential is not configured", nil), nil
	}

	statuses := h.llm.Probe(ctx)
	working := 0
	for _, s := range statuses {
		if s.OK {
			working++
		}
	}
	log.Info("model probe finished", zap.Int("working", working), zap.Int("total", len(statuses)))

	return jsonOK(map[string]any{
		"success":   true,
		"models":    statuses,
		"working":   working,
		"timestamp": nowISO(),
	}), nil
}
