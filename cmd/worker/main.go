package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"resume-reviewer/internal/bootstrap"
	"resume-reviewer/internal/queue"
	"resume-reviewer/internal/shared/config"
	"resume-reviewer/internal/shared/metrics"
	"resume-reviewer/internal/shared/telemetry"
	"resume-reviewer/internal/workerproc"
)

func main() {
	cfg := config.Load()
	if cfg.JobsQueueURL == "" {
		log.Fatal("JOBS_QUEUE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	processor, err := app.BuildProcessor(ctx)
	if err != nil {
		log.Fatalf("build processor: %v", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}
	var sqsClient sqsAPI = sqs.NewFromConfig(awsCfg)

	w := &worker{
		client:      sqsClient,
		queueURL:    cfg.JobsQueueURL,
		handler:     processor,
		concurrency: max(1, cfg.WorkerConcurrency),
		visibility:  cfg.VisibilityTimeout,
	}
	telemetry.Info("worker.started", map[string]any{
		"queue_url":          cfg.JobsQueueURL,
		"concurrency":        w.concurrency,
		"visibility_seconds": int(w.visibility.Seconds()),
	})

	done := make(chan struct{})
	go func() {
		w.run(ctx)
		close(done)
	}()
	<-ctx.Done()

	telemetry.Info("worker.shutdown", map[string]any{"timeout": cfg.ShutdownTimeout.String()})
	select {
	case <-done:
	case <-time.After(cfg.ShutdownTimeout):
		telemetry.Warn("worker.shutdown_timeout", map[string]any{"detail": "exiting with in-flight jobs"})
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.Shutdown(shutdownCtx)
}

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

type jobHandler interface {
	HandleMessage(ctx context.Context, body string) (queue.JobMessage, error)
}

type worker struct {
	client      sqsAPI
	queueURL    string
	handler     jobHandler
	concurrency int
	visibility  time.Duration
}

// run polls until ctx is canceled and then waits for in-flight jobs.
func (w *worker) run(ctx context.Context) {
	sem := make(chan struct{}, max(1, w.concurrency))
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		resp, err := w.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(w.queueURL),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
			VisibilityTimeout:   int32(w.visibility.Seconds()),
			AttributeNames:      []sqstypes.QueueAttributeName{sqstypes.QueueAttributeName("ApproximateReceiveCount")},
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return
			}
			telemetry.Error("worker.receive_failed", map[string]any{"error": err})
			continue
		}

		for _, msg := range resp.Messages {
			select {
			case <-ctx.Done():
				return
			case sem <- struct{}{}:
			}
			metrics.IncWorkerJob(metrics.JobReceived)
			wg.Add(1)
			go func(m sqstypes.Message) {
				defer wg.Done()
				defer func() { <-sem }()
				// In-flight jobs finish even after shutdown starts.
				w.handleMessage(context.WithoutCancel(ctx), m)
			}(msg)
		}
	}
}

func (w *worker) handleMessage(ctx context.Context, msg sqstypes.Message) {
	job, err := w.handler.HandleMessage(ctx, aws.ToString(msg.Body))
	fields := baseFields(msg, job)

	switch {
	case err == nil:
		if w.deleteMessage(ctx, msg, fields) {
			telemetry.Info("worker.analysis.completed", fields)
			metrics.IncWorkerJob(metrics.JobCompleted)
		}
	case workerproc.Unrecoverable(err):
		fields["error"] = err
		addMeta(fields, err)
		telemetry.Error("worker.analysis.unrecoverable", fields)
		if w.deleteMessage(ctx, msg, fields) {
			metrics.IncWorkerJob(metrics.JobDeletedUnrecoverable)
		}
	default:
		fields["error"] = err
		telemetry.Error("worker.analysis.failed", fields)
		metrics.IncWorkerJob(metrics.JobFailed)
	}
}

func (w *worker) deleteMessage(ctx context.Context, msg sqstypes.Message, fields map[string]any) bool {
	receipt := aws.ToString(msg.ReceiptHandle)
	if receipt == "" {
		telemetry.Error("worker.analysis.delete_failed", withError(fields, "missing receipt handle"))
		return false
	}
	if _, err := w.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(w.queueURL),
		ReceiptHandle: aws.String(receipt),
	}); err != nil {
		telemetry.Error("worker.analysis.delete_failed", withError(fields, err.Error()))
		return false
	}
	return true
}

func baseFields(msg sqstypes.Message, job queue.JobMessage) map[string]any {
	fields := map[string]any{
		"job_id":         job.JobID,
		"sqs_message_id": aws.ToString(msg.MessageId),
		"receive_count":  receiveCount(msg),
	}
	if strings.TrimSpace(job.RequestID) != "" {
		fields["request_id"] = job.RequestID
	}
	return fields
}

func addMeta(fields map[string]any, err error) {
	var decodeErr workerproc.ErrDecode
	var emptyErr workerproc.ErrEmptyBody
	switch {
	case errors.As(err, &decodeErr):
		fields["body_len"] = decodeErr.Meta.BodyLen
		fields["body_sha256"] = decodeErr.Meta.BodySHA
	case errors.As(err, &emptyErr):
		fields["body_len"] = emptyErr.Meta.BodyLen
	}
}

func withError(fields map[string]any, msg string) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["error"] = msg
	return out
}

func receiveCount(msg sqstypes.Message) int {
	if msg.Attributes == nil {
		return 0
	}
	raw := msg.Attributes["ApproximateReceiveCount"]
	if raw == "" {
		return 0
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return parsed
}
