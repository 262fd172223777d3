package queue

import (
	"encoding/json"
	"time"

	"resume-reviewer/internal/analyses"
)

// JobVersion is the only job message version accepted.
const JobVersion = 1

// Result statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// JobMessage asks a worker to analyze one stored document.
type JobMessage struct {
	JobID     string `json:"jobId"`
	RequestID string `json:"requestId,omitempty"`
	Bucket    string `json:"bucket,omitempty"`
	ObjectKey string `json:"objectKey"`
	MimeType  string `json:"mimeType,omitempty"`
	FileName  string `json:"fileName,omitempty"`
	Version   int    `json:"version"`
}

// ResultMessage is published once per finished job. Exactly one of Result
// and Error is set.
type ResultMessage struct {
	JobID       string                   `json:"jobId"`
	RequestID   string                   `json:"requestId,omitempty"`
	Status      string                   `json:"status"`
	Result      *analyses.AnalysisResult `json:"result,omitempty"`
	Error       *analyses.Failure        `json:"error,omitempty"`
	CompletedAt string                   `json:"completedAt"`
}

// Completed builds the result message for a successful analysis.
func Completed(job JobMessage, result analyses.AnalysisResult, at time.Time) ResultMessage {
	return ResultMessage{
		JobID:       job.JobID,
		RequestID:   job.RequestID,
		Status:      StatusCompleted,
		Result:      &result,
		CompletedAt: at.UTC().Format(time.RFC3339),
	}
}

// Failed builds the result message for an analysis that will not be retried.
func Failed(job JobMessage, failure analyses.Failure, at time.Time) ResultMessage {
	return ResultMessage{
		JobID:       job.JobID,
		RequestID:   job.RequestID,
		Status:      StatusFailed,
		Error:       &failure,
		CompletedAt: at.UTC().Format(time.RFC3339),
	}
}

// EncodeJob returns the JSON representation of a job.
func EncodeJob(msg JobMessage) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeJob validates payload against the job schema and parses it.
func DecodeJob(payload []byte) (JobMessage, error) {
	if err := ValidateJob(payload); err != nil {
		return JobMessage{}, err
	}
	var msg JobMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return JobMessage{}, err
	}
	return msg, nil
}

// EncodeResult returns the JSON representation of a result.
func EncodeResult(msg ResultMessage) ([]byte, error) {
	return json.Marshal(msg)
}
