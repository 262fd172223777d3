package analyses

import (
	"context"
	"errors"
	"net/http"

	"resume-reviewer/internal/extract"
	"resume-reviewer/internal/llm"
)

const (
	ErrorCodeValidation        = "VALIDATION_ERROR"
	ErrorCodeMissingCredential = "MISSING_CREDENTIAL"
	ErrorCodeCanceled          = "CANCELED"
	ErrorCodeInternal          = "INTERNAL_ERROR"
)

// Failure is the caller-facing classification of an analysis error.
type Failure struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Retryable  bool   `json:"retryable"`
}

// Describe classifies err into a stable code and a user-facing message.
func Describe(err error) Failure {
	var (
		extractErr *extract.Error
		configErr  *llm.ConfigError
		svcErr     *llm.ServiceError
		validErr   *llm.ValidationError
	)
	switch {
	case err == nil:
		return Failure{}
	case errors.As(err, &extractErr):
		status := http.StatusUnprocessableEntity
		if extractErr.Kind == extract.UnsupportedFormat {
			status = http.StatusUnsupportedMediaType
		}
		return Failure{Code: string(extractErr.Kind), Message: extractErr.Message(), HTTPStatus: status}
	case errors.As(err, &configErr):
		return Failure{Code: ErrorCodeMissingCredential, Message: configErr.Message(), HTTPStatus: http.StatusServiceUnavailable}
	case errors.As(err, &svcErr):
		return Failure{Code: string(svcErr.Kind), Message: svcErr.Message(), HTTPStatus: serviceStatus(svcErr.Kind), Retryable: svcErr.Retryable()}
	case errors.As(err, &validErr):
		return Failure{
			Code:       string(llm.KindUnknown),
			Message:    "AI service error: the response could not be used. Please try again.",
			HTTPStatus: http.StatusBadGateway,
		}
	case errors.Is(err, context.Canceled):
		return Failure{Code: ErrorCodeCanceled, Message: "The analysis was canceled.", HTTPStatus: 499}
	case errors.Is(err, context.DeadlineExceeded):
		timeout := llm.Timeout(err)
		return Failure{Code: string(timeout.Kind), Message: timeout.Message(), HTTPStatus: http.StatusGatewayTimeout, Retryable: true}
	default:
		return Failure{Code: ErrorCodeInternal, Message: "Failed to analyze resume. Please try again.", HTTPStatus: http.StatusInternalServerError}
	}
}

func serviceStatus(kind llm.Kind) int {
	switch kind {
	case llm.KindRateLimited:
		return http.StatusTooManyRequests
	case llm.KindServiceTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
