package analyses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"resume-reviewer/internal/analyses/recommendations"
	"resume-reviewer/internal/extract"
	"resume-reviewer/internal/llm"
	"resume-reviewer/internal/shared/metrics"
	"resume-reviewer/internal/shared/telemetry"
	"resume-reviewer/internal/shared/util"
)

// DefaultNarrativeTimeout bounds the narrative call when Config.Timeout is unset.
const DefaultNarrativeTimeout = 30 * time.Second

var tracer = otel.Tracer("resume-reviewer/analyses")

// Config is the per-service analysis configuration.
type Config struct {
	Provider           string
	Credential         string
	Endpoint           string
	Model              string
	Timeout            time.Duration
	RecommendationMode recommendations.Mode
}

// Service runs the analysis pipeline. It holds no mutable state and is safe
// for concurrent use.
type Service struct {
	cfg       Config
	extractor extract.Extractor
	narrator  llm.Narrator
	newID     func() string
}

// NewService constructs a Service. narrator may be nil when no credential is
// configured; Analyze then fails with a missing credential error.
func NewService(cfg Config, extractor extract.Extractor, narrator llm.Narrator) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultNarrativeTimeout
	}
	if cfg.RecommendationMode == "" {
		cfg.RecommendationMode = recommendations.ModeCatalog
	}
	if extractor == nil {
		extractor = extract.DocumentExtractor{}
	}
	return &Service{cfg: cfg, extractor: extractor, narrator: narrator, newID: uuid.NewString}
}

// CredentialConfigured reports whether a narrative credential is set.
func (s *Service) CredentialConfigured() bool {
	return strings.TrimSpace(s.cfg.Credential) != "" && s.narrator != nil
}

// Analyze extracts text from a document and produces its scored review.
// It never returns a partial result.
func (s *Service) Analyze(ctx context.Context, raw []byte, mimeType, fileName string) (AnalysisResult, error) {
	start := time.Now()
	id := s.newID()
	fileName = util.SanitizeFileName(fileName)
	fields := map[string]any{
		"analysis_id":     id,
		"request_id":      requestIDFromContext(ctx),
		"file_name":       fileName,
		"mime_type":       mimeType,
		"size_bytes":      len(raw),
		"document_sha256": util.ContentHash(raw),
	}

	ctx, span := tracer.Start(ctx, "analysis.run", trace.WithAttributes(
		attribute.String("analysis.id", id),
		attribute.String("document.mime_type", mimeType),
		attribute.Int("document.size_bytes", len(raw)),
	))
	defer span.End()

	metrics.IncAnalysisStarted()
	telemetry.Info("analysis.status", withStatus(fields, "started"))

	result, err := s.run(ctx, id, raw, mimeType, fileName)
	metrics.ObserveAnalysisDuration(time.Since(start))
	fields["duration_ms"] = time.Since(start).Milliseconds()
	if err != nil {
		failure := Describe(err)
		metrics.IncAnalysisFailed(failure.Code)
		span.RecordError(err)
		span.SetStatus(codes.Error, failure.Code)
		fields["error_code"] = failure.Code
		fields["error"] = err
		telemetry.Error("analysis.status", withStatus(fields, "failed"))
		return AnalysisResult{}, err
	}

	metrics.IncAnalysisCompleted()
	span.SetAttributes(attribute.Int("analysis.score.overall", result.Scores.Overall))
	fields["overall_score"] = result.Scores.Overall
	telemetry.Info("analysis.status", withStatus(fields, "completed"))
	return result, nil
}

func (s *Service) run(ctx context.Context, id string, raw []byte, mimeType, fileName string) (AnalysisResult, error) {
	text, err := s.extractText(ctx, raw, mimeType, fileName)
	if err != nil {
		return AnalysisResult{}, err
	}

	if !s.CredentialConfigured() {
		return AnalysisResult{}, &llm.ConfigError{Kind: llm.KindMissingCredential, Provider: s.cfg.Provider}
	}

	narrative, err := s.generateNarrative(ctx, text)
	if err != nil {
		return AnalysisResult{}, err
	}

	_, span := tracer.Start(ctx, "analysis.synthesize")
	sig := DetectSignals(text)
	result := AnalysisResult{
		ID:            id,
		FileName:      fileName,
		PromptVersion: llm.PromptVersion,
		Provider:      s.cfg.Provider,
		Model:         s.cfg.Model,
		Scores:        scoresFromSignals(sig),
		Profile:       ExtractProfile(text),
		Insights:      synthesize(text, narrative, sig, s.cfg.RecommendationMode),
	}
	span.SetAttributes(attribute.StringSlice("analysis.signals", sig.Present()))
	span.End()
	return result, nil
}

func (s *Service) extractText(ctx context.Context, raw []byte, mimeType, fileName string) (ResumeText, error) {
	ctx, span := tracer.Start(ctx, "analysis.extract")
	defer span.End()

	extracted, err := s.extractor.ExtractText(ctx, raw, mimeType, fileName)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("extract text: %w", err)
	}
	text, err := Normalize(extracted)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("normalize text: %w", err)
	}
	span.SetAttributes(attribute.Int("resume.length", utf8.RuneCountInString(string(text))))
	return text, nil
}

// generateNarrative makes the single bounded narrative call. A deadline hit
// here is a service timeout; cancellation by the caller is returned as-is.
func (s *Service) generateNarrative(ctx context.Context, text ResumeText) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	callCtx, span := tracer.Start(callCtx, "analysis.narrative", trace.WithAttributes(
		attribute.String("llm.provider", s.cfg.Provider),
		attribute.String("llm.model", s.cfg.Model),
		attribute.String("llm.prompt_version", llm.PromptVersion),
	))
	defer span.End()

	start := time.Now()
	narrative, err := s.narrator.GenerateNarrative(callCtx, llm.BuildPrompt(string(text)))
	if err == nil && strings.TrimSpace(narrative) == "" {
		err = llm.ErrEmptyNarrative
	}
	if err != nil {
		err = s.classifyNarrativeErr(ctx, callCtx, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, Describe(err).Code)
		metrics.ObserveNarrative(s.cfg.Provider, Describe(err).Code, time.Since(start))
		return "", fmt.Errorf("generate narrative: %w", err)
	}
	metrics.ObserveNarrative(s.cfg.Provider, "ok", time.Since(start))
	return narrative, nil
}

func (s *Service) classifyNarrativeErr(parent, call context.Context, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	var svcErr *llm.ServiceError
	if errors.As(err, &svcErr) {
		return err
	}
	if errors.Is(call.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return llm.Timeout(err)
	}
	return err
}

func withStatus(fields map[string]any, status string) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["status"] = status
	return out
}
