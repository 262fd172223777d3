package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-reviewer/internal/analyses"
	"resume-reviewer/internal/analyses/recommendations"
	"resume-reviewer/internal/extract"
	"resume-reviewer/internal/llm"
	"resume-reviewer/internal/llm/gemini"
	"resume-reviewer/internal/llm/openai"
	"resume-reviewer/internal/queue"
	"resume-reviewer/internal/services/health"
	"resume-reviewer/internal/shared/config"
	"resume-reviewer/internal/shared/server"
	"resume-reviewer/internal/shared/storage/object"
	localstore "resume-reviewer/internal/shared/storage/object/local"
	s3store "resume-reviewer/internal/shared/storage/object/s3"
	"resume-reviewer/internal/shared/telemetry"
	"resume-reviewer/internal/workerproc"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	AnalysesService *analyses.Service
	AnalysisHandler *analyses.Handler
	HealthService   *health.Service

	shutdownTracing func(context.Context) error
}

// Build wires logging, tracing, the narrative client and the HTTP router.
// A missing narrative credential is not fatal; analyses then fail with
// MISSING_CREDENTIAL and the health endpoint reports it.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	telemetry.SetLogger(telemetry.New(cfg.LogLevel, cfg.LogFormat))

	shutdown, err := telemetry.InitTracing(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return nil, err
	}

	narrator, err := buildNarrator(ctx, cfg)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	mode, err := recommendations.ParseMode(cfg.RecommendationMode)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	svc := analyses.NewService(analyses.Config{
		Provider:           cfg.NarrativeProvider,
		Credential:         cfg.NarrativeAPIKey,
		Endpoint:           cfg.NarrativeEndpoint,
		Model:              cfg.NarrativeModel,
		Timeout:            cfg.NarrativeTimeout,
		RecommendationMode: mode,
	}, extract.DocumentExtractor{}, narrator)

	app := &App{
		Config:          cfg,
		AnalysesService: svc,
		AnalysisHandler: analyses.NewHandler(svc, cfg.MaxUploadBytes),
		HealthService:   health.NewService(cfg.ServiceName, cfg.NarrativeProvider, svc),
		shutdownTracing: shutdown,
	}
	app.Router = server.NewRouter(cfg, server.Deps{
		Analyses: app.AnalysisHandler,
		Health:   app.HealthService,
	})
	return app, nil
}

// Shutdown flushes traces and logs.
func (a *App) Shutdown(ctx context.Context) error {
	defer telemetry.Sync()
	if a == nil || a.shutdownTracing == nil {
		return nil
	}
	return a.shutdownTracing(ctx)
}

// BuildProcessor wires the queue worker's document store and result publisher.
func (a *App) BuildProcessor(ctx context.Context) (*workerproc.Processor, error) {
	store, err := buildStore(ctx, a.Config)
	if err != nil {
		return nil, err
	}
	results, err := queue.NewSQSClient(ctx, a.Config.AWSRegion, a.Config.ResultsQueueURL)
	if err != nil {
		return nil, err
	}
	return &workerproc.Processor{
		Analyzer:       a.AnalysesService,
		Store:          store,
		Results:        results,
		MaxUploadBytes: a.Config.MaxUploadBytes,
	}, nil
}

func buildNarrator(ctx context.Context, cfg config.Config) (llm.Narrator, error) {
	if strings.TrimSpace(cfg.NarrativeAPIKey) == "" {
		telemetry.Warn("bootstrap.narrator.missing_credential", map[string]any{
			"provider": cfg.NarrativeProvider,
		})
		return nil, nil
	}

	switch cfg.NarrativeProvider {
	case config.ProviderOpenAI:
		client, err := openai.NewClient(openai.Config{
			APIKey:  cfg.NarrativeAPIKey,
			Model:   cfg.NarrativeModel,
			BaseURL: cfg.NarrativeEndpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("build openai narrator: %w", err)
		}
		return client, nil
	default:
		client, err := gemini.New(ctx, gemini.Config{
			APIKey:  cfg.NarrativeAPIKey,
			Model:   cfg.NarrativeModel,
			BaseURL: cfg.NarrativeEndpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("build gemini narrator: %w", err)
		}
		return client, nil
	}
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "local":
		return localstore.New(cfg.LocalStoreDir), nil
	case "", "s3":
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.DocumentsBucket, cfg.DocumentsPrefix)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown OBJECT_STORE %q", cfg.ObjectStoreType)
	}
}
