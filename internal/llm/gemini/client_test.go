package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"resume-reviewer/internal/llm"
)

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), Config{APIKey: "  "})
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrMissingCredential)
}

func TestClassifyAPIErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want llm.Kind
	}{
		{name: "bad request", err: genai.APIError{Code: 400, Message: "API key not valid"}, want: llm.KindBadRequest},
		{name: "forbidden", err: genai.APIError{Code: 403}, want: llm.KindForbidden},
		{name: "not found", err: fmt.Errorf("wrapped: %w", genai.APIError{Code: 404}), want: llm.KindNotFound},
		{name: "rate limited", err: &genai.APIError{Code: 429}, want: llm.KindRateLimited},
		{name: "server error", err: genai.APIError{Code: 500, Message: "internal"}, want: llm.KindUnknown},
		{name: "transport", err: errors.New("connection reset"), want: llm.KindUnknown},
		{name: "deadline", err: fmt.Errorf("post: %w", context.DeadlineExceeded), want: llm.KindServiceTimeout},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := classify(context.Background(), tt.err)
			var svcErr *llm.ServiceError
			require.ErrorAs(t, got, &svcErr)
			assert.Equal(t, tt.want, svcErr.Kind)
		})
	}
}

func TestClassifyKeepsCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := classify(ctx, errors.New("request aborted"))
	assert.ErrorIs(t, got, context.Canceled)
	var svcErr *llm.ServiceError
	assert.False(t, errors.As(got, &svcErr))
}

func TestGenerationConfigMatchesReviewSettings(t *testing.T) {
	cfg := generationConfig()
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.7, *cfg.Temperature, 1e-6)
	assert.InDelta(t, 40, *cfg.TopK, 1e-6)
	assert.InDelta(t, 0.95, *cfg.TopP, 1e-6)
	assert.Equal(t, int32(2048), cfg.MaxOutputTokens)
	require.Len(t, cfg.SafetySettings, 4)
	for _, s := range cfg.SafetySettings {
		assert.Equal(t, genai.HarmBlockThresholdBlockMediumAndAbove, s.Threshold)
	}
}

func TestResponseTextJoinsParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "thinking...", Thought: true},
				{Text: "Strong resume. "},
				{Text: "Add metrics."},
			}},
		}},
	}
	assert.Equal(t, "Strong resume. Add metrics.", responseText(resp))
	assert.Equal(t, "", responseText(&genai.GenerateContentResponse{}))
	assert.Equal(t, "", responseText(nil))
}

func TestGenerateNarrativeAgainstServer(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Looks good overall."}]}}]}`))
	}))
	defer server.Close()

	client, err := New(context.Background(), Config{
		APIKey:     "test-key",
		Model:      "gemini-test",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})
	require.NoError(t, err)

	text, err := client.GenerateNarrative(context.Background(), "review this")
	require.NoError(t, err)
	assert.Equal(t, "Looks good overall.", text)
	assert.True(t, strings.HasSuffix(gotPath, "models/gemini-test:generateContent"), gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Contains(t, gotBody, "contents")
}

func TestGenerateNarrativeEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	client, err := New(context.Background(), Config{APIKey: "k", BaseURL: server.URL, HTTPClient: server.Client()})
	require.NoError(t, err)

	_, err = client.GenerateNarrative(context.Background(), "review this")
	var vErr *llm.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestGenerateNarrativeForbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"API not enabled","status":"PERMISSION_DENIED"}}`))
	}))
	defer server.Close()

	client, err := New(context.Background(), Config{APIKey: "k", BaseURL: server.URL, HTTPClient: server.Client()})
	require.NoError(t, err)

	_, err = client.GenerateNarrative(context.Background(), "review this")
	var svcErr *llm.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, llm.KindForbidden, svcErr.Kind)
	assert.Equal(t, 403, svcErr.StatusCode)
}
