package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"backend/internal/config"
	"backend/internal/handlers"
	"backend/internal/llm"
	"backend/internal/logger"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	if !cfg.HasCompletionCredential() && cfg.CompletionKeySSMParam != "" {
		if ssmClient, err := config.NewSSMClient(ctx); err != nil {
			log.Warn("ssm client unavailable", zap.Error(err))
		} else if err := cfg.ResolveSecrets(ctx, ssmClient); err != nil {
			log.Warn("completion key resolution failed", zap.Error(err))
		}
	}

	prober := llm.New(cfg.CompletionAPIKey, cfg.CompletionBaseURL, cfg.CompletionModels, log)

	h := handlers.NewModelsHandler(cfg, prober, log)
	lambda.Start(h.Handle)
}
