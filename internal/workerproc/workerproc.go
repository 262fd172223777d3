package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"resume-reviewer/internal/analyses"
	"resume-reviewer/internal/extract"
	"resume-reviewer/internal/queue"
	"resume-reviewer/internal/shared/storage/object"
)

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{BodyLen: 0, BodySHA: ""}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a payload that is not a valid job message.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

func (e ErrDecode) Unwrap() error { return e.Err }

// ErrProcess indicates processing failed after successful parsing. Retryable
// failures leave the job on the queue; the rest have already been reported on
// the results queue.
type ErrProcess struct {
	JobID     string
	RequestID string
	Stage     string
	Retryable bool
	Err       error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "process job " + e.Stage
	}
	return "process job " + e.Stage + ": " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// Unrecoverable reports whether the message that produced err should be
// removed from the queue instead of redelivered.
func Unrecoverable(err error) bool {
	var procErr ErrProcess
	switch {
	case err == nil:
		return false
	case errors.As(err, &procErr):
		return !procErr.Retryable
	case errors.As(err, new(ErrEmptyBody)), errors.As(err, new(ErrDecode)):
		return true
	default:
		return false
	}
}

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.JobMessage, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.JobMessage{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeJob([]byte(body))
	if err != nil {
		return queue.JobMessage{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	return msg, meta, nil
}

// Processor runs analysis jobs end to end: fetch the document, analyze it and
// publish the outcome.
type Processor struct {
	Analyzer       analyses.Analyzer
	Store          object.ObjectStore
	Results        queue.Publisher
	MaxUploadBytes int64
	Now            func() time.Time
}

// HandleMessage parses and processes a raw queue payload.
func (p *Processor) HandleMessage(ctx context.Context, body string) (queue.JobMessage, error) {
	job, _, err := ParseMessage(body)
	if err != nil {
		return queue.JobMessage{}, err
	}
	return job, p.Process(ctx, job)
}

// Process analyzes one decoded job. Non-retryable analysis failures are
// published as failed results before ErrProcess is returned.
func (p *Processor) Process(ctx context.Context, job queue.JobMessage) error {
	if p == nil || p.Analyzer == nil || p.Store == nil || p.Results == nil {
		return errors.New("job processor not configured")
	}
	ctx = analyses.WithRequestID(ctx, job.RequestID)

	data, err := p.fetch(ctx, job)
	if err != nil {
		return p.fail(ctx, job, "fetch", err, fetchRetryable(err))
	}

	result, err := p.Analyzer.Analyze(ctx, data, job.MimeType, fileNameFor(job))
	if err != nil {
		return p.fail(ctx, job, "analyze", err, analyses.Describe(err).Retryable)
	}

	if err := p.Results.Publish(ctx, queue.Completed(job, result, p.now())); err != nil {
		return ErrProcess{JobID: job.JobID, RequestID: job.RequestID, Stage: "publish", Retryable: true, Err: err}
	}
	return nil
}

func (p *Processor) fetch(ctx context.Context, job queue.JobMessage) ([]byte, error) {
	rc, err := p.Store.Open(ctx, object.Ref{Bucket: job.Bucket, Key: job.ObjectKey})
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	limit := p.MaxUploadBytes
	if limit <= 0 {
		limit = analyses.DefaultMaxUploadBytes
	}
	return extract.ReadDocument(rc, limit)
}

// fail reports a non-retryable failure on the results queue. A failed publish
// keeps the job for redelivery.
func (p *Processor) fail(ctx context.Context, job queue.JobMessage, stage string, err error, retryable bool) error {
	procErr := ErrProcess{JobID: job.JobID, RequestID: job.RequestID, Stage: stage, Retryable: retryable, Err: err}
	if retryable {
		return procErr
	}
	if pubErr := p.Results.Publish(ctx, queue.Failed(job, failureFor(stage, err), p.now())); pubErr != nil {
		procErr.Retryable = true
		procErr.Err = fmt.Errorf("%w; publish failure: %v", err, pubErr)
	}
	return procErr
}

func failureFor(stage string, err error) analyses.Failure {
	if stage != "fetch" {
		return analyses.Describe(err)
	}
	switch {
	case errors.Is(err, extract.ErrTooLarge):
		return analyses.Failure{Code: "PAYLOAD_TOO_LARGE", Message: "File is too large. Please upload a document under 10MB."}
	case errors.Is(err, object.ErrInvalidKey):
		return analyses.Failure{Code: "INVALID_OBJECT_KEY", Message: "The job does not reference a valid document."}
	default:
		return analyses.Failure{Code: "DOCUMENT_NOT_FOUND", Message: "The referenced document could not be found."}
	}
}

func fetchRetryable(err error) bool {
	return !errors.Is(err, object.ErrNotFound) &&
		!errors.Is(err, object.ErrInvalidKey) &&
		!errors.Is(err, extract.ErrTooLarge)
}

func fileNameFor(job queue.JobMessage) string {
	if name := strings.TrimSpace(job.FileName); name != "" {
		return name
	}
	return job.ObjectKey
}

func (p *Processor) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}
