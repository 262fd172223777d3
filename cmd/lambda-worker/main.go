package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=amd64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-worker

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"resume-reviewer/internal/bootstrap"
	"resume-reviewer/internal/queue"
	"resume-reviewer/internal/shared/config"
	"resume-reviewer/internal/shared/metrics"
	"resume-reviewer/internal/shared/telemetry"
	"resume-reviewer/internal/workerproc"
)

var (
	initOnce  sync.Once
	initErr   error
	processor jobHandler
)

type jobHandler interface {
	HandleMessage(ctx context.Context, body string) (queue.JobMessage, error)
}

func initApp() {
	ctx := context.Background()
	app, err := bootstrap.Build(ctx, config.Load())
	if err != nil {
		initErr = err
		return
	}
	p, err := app.BuildProcessor(ctx)
	if err != nil {
		initErr = err
		return
	}
	processor = p
}

func handler(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	initOnce.Do(initApp)
	if initErr != nil {
		telemetry.Error("lambda.bootstrap_failed", map[string]any{"error": initErr})
		failures := make([]events.SQSBatchItemFailure, 0, len(event.Records))
		for _, record := range event.Records {
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
		return events.SQSEventResponse{BatchItemFailures: failures}, initErr
	}
	return processBatch(ctx, processor, event), nil
}

// processBatch reports only retryable failures back to SQS. Unrecoverable
// messages count as handled so they are removed from the queue.
func processBatch(ctx context.Context, h jobHandler, event events.SQSEvent) events.SQSEventResponse {
	failures := make([]events.SQSBatchItemFailure, 0)
	for _, record := range event.Records {
		metrics.IncWorkerJob(metrics.JobReceived)
		job, err := h.HandleMessage(ctx, record.Body)
		fields := map[string]any{
			"sqs_message_id": record.MessageId,
			"job_id":         job.JobID,
			"request_id":     job.RequestID,
		}
		switch {
		case err == nil:
			telemetry.Info("worker.analysis.completed", fields)
			metrics.IncWorkerJob(metrics.JobCompleted)
		case workerproc.Unrecoverable(err):
			fields["error"] = err
			telemetry.Error("worker.analysis.unrecoverable", fields)
			metrics.IncWorkerJob(metrics.JobDeletedUnrecoverable)
		default:
			fields["error"] = err
			telemetry.Error("worker.analysis.failed", fields)
			metrics.IncWorkerJob(metrics.JobFailed)
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
	}
	return events.SQSEventResponse{BatchItemFailures: failures}
}

func main() {
	lambda.Start(handler)
}
