package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/career-coach/internal/ai"
	"github.com/spigell/career-coach/internal/ai/gemini"
	"github.com/spigell/career-coach/internal/logger"
	"github.com/spigell/career-coach/internal/resources"
	"github.com/spigell/career-coach/internal/secrets"
)

// aiComponents are nil when the AI service is disabled or has no credentials.
type aiComponents struct {
	analyzer  ai.CVAnalyzer
	suggester ai.SectionSuggester
	pinger    ai.Pinger
}

func newAIComponents(ctx context.Context, cfg *AIConfig, log *zap.Logger) (aiComponents, error) {
	if cfg == nil || !cfg.Enabled {
		log.Info("ai service disabled, using the rule-based scorer only")
		return aiComponents{}, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != gemini.Provider {
		return aiComponents{}, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	gemCfg := cfg.Gemini
	if gemCfg == nil {
		gemCfg = &GeminiConfig{}
	}

	apiKey, err := secrets.LoadOptional(secrets.Source{
		Name:  "gemini api key",
		Value: gemCfg.APIKey,
		File:  gemCfg.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return aiComponents{}, err
	}
	if apiKey == "" {
		log.Warn("gemini api key is not configured, using the rule-based scorer only",
			zap.String("hint", "set GEMINI_API_KEY, GEMINI_API_KEY_FILE or ai.gemini.api-key-file"),
		)
		return aiComponents{}, nil
	}

	genLogger := logger.WithCommonFields(log, gemini.Provider, gemCfg.Model).With(
		zap.Int("ai_retry_attempts", gemCfg.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, gemCfg.Model, gemCfg.MaxRetries, genLogger)
	if err != nil {
		return aiComponents{}, err
	}

	aiLogger := logger.WithCommonFields(log, gemini.Provider, generator.Model())

	return aiComponents{
		analyzer:  gemini.NewAnalyzer(generator, gemCfg.MaxLogLength, aiLogger),
		suggester: gemini.NewSuggester(generator, gemCfg.MaxLogLength, aiLogger),
		pinger:    generator,
	}, nil
}

// newResourceStore returns a Postgres store when a database url is configured
// and an in-memory store otherwise. The returned close func is never nil.
func newResourceStore(ctx context.Context, cfg *DatabaseConfig, log *zap.Logger) (resources.Store, func(), error) {
	noop := func() {}
	if cfg == nil {
		cfg = &DatabaseConfig{}
	}

	dsn, err := secrets.LoadOptional(secrets.Source{
		Name:  "database url",
		Value: cfg.URL,
		File:  cfg.URLFile,
	})
	if err != nil {
		return nil, noop, err
	}

	if dsn == "" {
		log.Warn("database url is not configured, resources are kept in memory")
		return resources.NewMemoryStore(), noop, nil
	}

	db, err := resources.Open(ctx, dsn)
	if err != nil {
		return nil, noop, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			log.Warn("closing database", zap.Error(err))
		}
	}

	store := resources.NewPostgresStore(db)
	if err := store.Migrate(ctx); err != nil {
		closeDB()
		return nil, noop, err
	}

	log.Info("connected to database", zap.String("driver", "postgres"), zap.Int("open_connections", db.Stats().OpenConnections))

	return store, closeDB, nil
}
