package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"backend/internal/config"
	"backend/internal/handlers"
	"backend/internal/llm"
	"backend/internal/logger"
	"backend/internal/search"
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

	var store search.RowStore
	if cfg.HasRowStore() {
		pg, err := search.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			log.Warn("row store unavailable", zap.Error(err))
		} else {
			store = pg
		}
	}

	completer := llm.New(cfg.CompletionAPIKey, cfg.CompletionBaseURL, cfg.CompletionModels, log)

	h := handlers.NewChatSearchHandler(cfg, store, completer, log)
	lambda.Start(h.Handle)
}
