package analyses

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-reviewer/internal/analyses/recommendations"
	"resume-reviewer/internal/extract"
	"resume-reviewer/internal/shared/server/middleware"
	"resume-reviewer/internal/shared/server/respond"
)

// DefaultMaxUploadBytes caps uploaded documents when no limit is configured.
const DefaultMaxUploadBytes int64 = 10 << 20

// multipart framing allowance on top of the document limit.
const formOverheadBytes = 1 << 20

// Analyzer is the part of Service the HTTP handler depends on.
type Analyzer interface {
	Analyze(ctx context.Context, raw []byte, mimeType, fileName string) (AnalysisResult, error)
}

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc            Analyzer
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc Analyzer, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.analyze)
	rg.GET("/recommendations", h.listRecommendations)
}

func (h *Handler) analyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes+formOverheadBytes)

	fh, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.tooLarge(c)
			return
		}
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "A resume file is required in the \"file\" form field.", gin.H{
			"field": "file", "issue": "required",
		})
		return
	}
	if fh.Size > h.MaxUploadBytes {
		h.tooLarge(c)
		return
	}

	fileName := strings.TrimSpace(c.PostForm("fileName"))
	if fileName == "" {
		fileName = fh.Filename
	}
	mimeType := fh.Header.Get("Content-Type")

	f, err := fh.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "The uploaded file could not be read.", nil)
		return
	}
	defer f.Close()

	data, err := extract.ReadDocument(f, h.MaxUploadBytes)
	if err != nil {
		if errors.Is(err, extract.ErrTooLarge) {
			h.tooLarge(c)
			return
		}
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "The uploaded file could not be read.", nil)
		return
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	result, err := h.Svc.Analyze(ctx, data, mimeType, fileName)
	if err != nil {
		failure := Describe(err)
		if failure.Retryable && failure.HTTPStatus == http.StatusTooManyRequests {
			c.Header("Retry-After", "60")
		}
		respond.Error(c, failure.HTTPStatus, failure.Code, failure.Message, gin.H{"retryable": failure.Retryable})
		return
	}

	c.Set("analysisId", result.ID)
	respond.OK(c, result)
}

func (h *Handler) tooLarge(c *gin.Context) {
	respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodeTooLarge, "File is too large. Please upload a document under 10MB.", gin.H{
		"maxBytes": h.MaxUploadBytes,
	})
}

func (h *Handler) listRecommendations(c *gin.Context) {
	respond.OK(c, gin.H{
		"version":         recommendations.CatalogVersion,
		"recommendations": recommendations.Catalog(),
	})
}
