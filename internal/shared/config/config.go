package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Env             string
	Port            string
	CORSAllowOrigin []string
	LogLevel        string
	LogFormat       string
	ServiceName     string
	OTLPEndpoint    string

	NarrativeProvider  string
	NarrativeAPIKey    string
	NarrativeModel     string
	NarrativeEndpoint  string
	NarrativeTimeout   time.Duration
	RecommendationMode string

	MaxUploadBytes int64
	RateLimitRPS   float64
	RateLimitBurst int

	AWSRegion         string
	ObjectStoreType   string
	LocalStoreDir     string
	DocumentsBucket   string
	DocumentsPrefix   string
	JobsQueueURL      string
	ResultsQueueURL   string
	VisibilityTimeout time.Duration
	WorkerConcurrency int
	ShutdownTimeout   time.Duration
}

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience; real env wins.
	_ = godotenv.Load(existing(".env", "cmd/.env")...)

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	provider := normalizeProvider(v.GetString("NARRATIVE_PROVIDER"))
	return Config{
		Env:             normalizeEnv(v.GetString("ENV")),
		Port:            v.GetString("PORT"),
		CORSAllowOrigin: splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
		ServiceName:     v.GetString("SERVICE_NAME"),
		OTLPEndpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),

		NarrativeProvider:  provider,
		NarrativeAPIKey:    apiKeyFor(v, provider),
		NarrativeModel:     modelFor(v, provider),
		NarrativeEndpoint:  strings.TrimSpace(v.GetString("NARRATIVE_ENDPOINT")),
		NarrativeTimeout:   seconds(v.GetInt("NARRATIVE_TIMEOUT_SECONDS"), 30),
		RecommendationMode: strings.ToLower(strings.TrimSpace(v.GetString("RECOMMENDATION_MODE"))),

		MaxUploadBytes: v.GetInt64("MAX_UPLOAD_BYTES"),
		RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),

		AWSRegion:         v.GetString("AWS_REGION"),
		ObjectStoreType:   strings.ToLower(strings.TrimSpace(v.GetString("OBJECT_STORE"))),
		LocalStoreDir:     v.GetString("LOCAL_STORE_DIR"),
		DocumentsBucket:   strings.TrimSpace(v.GetString("DOCUMENTS_S3_BUCKET")),
		DocumentsPrefix:   strings.TrimSpace(v.GetString("DOCUMENTS_S3_PREFIX")),
		JobsQueueURL:      strings.TrimSpace(v.GetString("JOBS_QUEUE_URL")),
		ResultsQueueURL:   strings.TrimSpace(v.GetString("RESULTS_QUEUE_URL")),
		VisibilityTimeout: seconds(v.GetInt("SQS_VISIBILITY_TIMEOUT_SECONDS"), 1200),
		WorkerConcurrency: v.GetInt("WORKER_CONCURRENCY"),
		ShutdownTimeout:   seconds(v.GetInt("SHUTDOWN_TIMEOUT_SECONDS"), 30),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("SERVICE_NAME", "resume-reviewer")
	v.SetDefault("NARRATIVE_PROVIDER", ProviderGemini)
	v.SetDefault("NARRATIVE_TIMEOUT_SECONDS", 30)
	v.SetDefault("RECOMMENDATION_MODE", "catalog")
	v.SetDefault("MAX_UPLOAD_BYTES", 10<<20)
	v.SetDefault("RATE_LIMIT_RPS", 0.5)
	v.SetDefault("RATE_LIMIT_BURST", 5)
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("OBJECT_STORE", "s3")
	v.SetDefault("LOCAL_STORE_DIR", "./data/documents")
	v.SetDefault("SQS_VISIBILITY_TIMEOUT_SECONDS", 1200)
	v.SetDefault("WORKER_CONCURRENCY", 4)
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 30)
}

// apiKeyFor prefers the provider-neutral key and falls back to the
// provider's conventional variable names.
func apiKeyFor(v *viper.Viper, provider string) string {
	keys := []string{"NARRATIVE_API_KEY"}
	switch provider {
	case ProviderOpenAI:
		keys = append(keys, "OPENAI_API_KEY")
	default:
		keys = append(keys, "GEMINI_API_KEY", "GOOGLE_AI_API_KEY")
	}
	for _, k := range keys {
		if val := strings.TrimSpace(v.GetString(k)); val != "" {
			return val
		}
	}
	return ""
}

func modelFor(v *viper.Viper, provider string) string {
	if m := strings.TrimSpace(v.GetString("NARRATIVE_MODEL")); m != "" {
		return m
	}
	if provider == ProviderOpenAI {
		return "gpt-4o-mini"
	}
	return "gemini-1.5-flash"
}

func seconds(n, def int) time.Duration {
	if n <= 0 {
		n = def
	}
	return time.Duration(n) * time.Second
}

func existing(paths ...string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := godotenv.Read(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case ProviderOpenAI:
		return ProviderOpenAI
	default:
		return ProviderGemini
	}
}
