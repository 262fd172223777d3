package llm

import (
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failure of the narrative service.
type Kind string

const (
	KindBadRequest     Kind = "BAD_REQUEST"
	KindForbidden      Kind = "FORBIDDEN"
	KindNotFound       Kind = "NOT_FOUND"
	KindRateLimited    Kind = "RATE_LIMITED"
	KindServiceTimeout Kind = "SERVICE_TIMEOUT"
	KindUnknown        Kind = "UNKNOWN_SERVICE_FAILURE"
)

// ServiceError is returned when a narrative call fails at runtime.
type ServiceError struct {
	Kind       Kind
	StatusCode int
	Detail     string
	Err        error
}

func (e *ServiceError) Error() string {
	var b strings.Builder
	b.WriteString("narrative service: ")
	b.WriteString(string(e.Kind))
	if e.StatusCode > 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Message returns the user-facing text for the failure.
func (e *ServiceError) Message() string {
	switch e.Kind {
	case KindBadRequest:
		return "Invalid request to the AI service. Please verify your API key is correct."
	case KindForbidden:
		return "Access denied. Please check your AI API key and ensure the Generative Language API is enabled."
	case KindNotFound:
		return "AI API endpoint not found. Please check the configuration."
	case KindRateLimited:
		return "Rate limit exceeded. Please try again in a few minutes."
	case KindServiceTimeout:
		return "Request timeout. Please check your internet connection and try again."
	}
	if e.StatusCode > 0 {
		text := http.StatusText(e.StatusCode)
		if e.Detail != "" {
			text = e.Detail
		}
		return fmt.Sprintf("AI service error: %d - %s", e.StatusCode, text)
	}
	if e.Detail != "" {
		return "AI service error: " + e.Detail
	}
	return "AI service error: unexpected failure"
}

// Retryable reports whether a caller may reasonably try the call again later.
func (e *ServiceError) Retryable() bool {
	return e.Kind == KindRateLimited || e.Kind == KindServiceTimeout
}

// KindForStatus maps an HTTP status from the provider to a failure kind.
func KindForStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest:
		return KindBadRequest
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return KindServiceTimeout
	default:
		return KindUnknown
	}
}

// FromStatus builds a ServiceError for a non-success provider response.
func FromStatus(status int, detail string) *ServiceError {
	return &ServiceError{Kind: KindForStatus(status), StatusCode: status, Detail: strings.TrimSpace(detail)}
}

// Timeout builds a ServiceError for a call that hit its deadline.
func Timeout(err error) *ServiceError {
	return &ServiceError{Kind: KindServiceTimeout, Err: err}
}

// ConfigKind classifies a setup problem that prevents any narrative call.
type ConfigKind string

const KindMissingCredential ConfigKind = "MISSING_CREDENTIAL"

// ConfigError reports a narrative client that cannot be invoked.
type ConfigError struct {
	Kind     ConfigKind
	Provider string
}

func (e *ConfigError) Error() string {
	if e.Provider == "" {
		return "narrative config: " + string(e.Kind)
	}
	return fmt.Sprintf("narrative config (%s): %s", e.Provider, e.Kind)
}

// Message returns the user-facing text for the setup problem.
func (e *ConfigError) Message() string {
	return "AI API key not configured. Please set NARRATIVE_API_KEY (or the provider key) and restart the service."
}

// ErrMissingCredential is a ConfigError usable with errors.Is.
var ErrMissingCredential = &ConfigError{Kind: KindMissingCredential}

// Is matches any ConfigError of the same kind.
func (e *ConfigError) Is(target error) bool {
	other, ok := target.(*ConfigError)
	return ok && other.Kind == e.Kind
}

// ValidationError reports a narrative response the service could not use.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "narrative response invalid: " + e.Reason
}

// ErrEmptyNarrative is returned when the provider answered with no text.
var ErrEmptyNarrative = &ValidationError{Reason: "empty narrative"}
