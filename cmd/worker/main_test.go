package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"resume-reviewer/internal/queue"
	"resume-reviewer/internal/workerproc"
)

type fakeSQS struct {
	mu       sync.Mutex
	batches  [][]sqstypes.Message
	deleted  []string
	received chan struct{}
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	f.mu.Lock()
	if len(f.batches) > 0 {
		batch := f.batches[0]
		f.batches = f.batches[1:]
		f.mu.Unlock()
		return &sqs.ReceiveMessageOutput{Messages: batch}, nil
	}
	f.mu.Unlock()
	if f.received != nil {
		select {
		case f.received <- struct{}{}:
		default:
		}
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func (f *fakeSQS) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, aws.ToString(params.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

type fakeHandler struct {
	err error
}

func (f fakeHandler) HandleMessage(ctx context.Context, body string) (queue.JobMessage, error) {
	return queue.JobMessage{JobID: "job-1", RequestID: "req-1"}, f.err
}

func message(id string) sqstypes.Message {
	return sqstypes.Message{
		MessageId:     aws.String(id),
		ReceiptHandle: aws.String("r-" + id),
		Body:          aws.String(`{"jobId":"job-1","objectKey":"cv.pdf","version":1}`),
		Attributes:    map[string]string{"ApproximateReceiveCount": "1"},
	}
}

func TestWorkerDeletesMessageOnSuccess(t *testing.T) {
	client := &fakeSQS{}
	w := &worker{client: client, queueURL: "queue", handler: fakeHandler{}}

	w.handleMessage(context.Background(), message("m1"))

	if len(client.deleted) != 1 || client.deleted[0] != "r-m1" {
		t.Fatalf("expected delete of r-m1, got %v", client.deleted)
	}
}

func TestWorkerKeepsRetryableFailures(t *testing.T) {
	client := &fakeSQS{}
	w := &worker{client: client, queueURL: "queue", handler: fakeHandler{
		err: workerproc.ErrProcess{Stage: "analyze", Retryable: true, Err: errors.New("rate limited")},
	}}

	w.handleMessage(context.Background(), message("m2"))

	if len(client.deleted) != 0 {
		t.Fatalf("expected no delete, got %d", len(client.deleted))
	}
}

func TestWorkerDeletesUnrecoverableMessages(t *testing.T) {
	for name, err := range map[string]error{
		"invalid json":    workerproc.ErrDecode{Err: errors.New("syntax")},
		"empty body":      workerproc.ErrEmptyBody{},
		"reported failed": workerproc.ErrProcess{Stage: "analyze", Retryable: false, Err: errors.New("unsupported")},
	} {
		err := err
		t.Run(name, func(t *testing.T) {
			client := &fakeSQS{}
			w := &worker{client: client, queueURL: "queue", handler: fakeHandler{err: err}}

			w.handleMessage(context.Background(), message("m3"))

			if len(client.deleted) != 1 {
				t.Fatalf("expected delete, got %d", len(client.deleted))
			}
		})
	}
}

func TestWorkerRunProcessesBatchAndStops(t *testing.T) {
	client := &fakeSQS{
		batches:  [][]sqstypes.Message{{message("a"), message("b"), message("c")}},
		received: make(chan struct{}, 1),
	}
	w := &worker{client: client, queueURL: "queue", handler: fakeHandler{}, concurrency: 2, visibility: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.run(ctx)
		close(done)
	}()

	select {
	case <-client.received:
	case <-time.After(2 * time.Second):
		t.Fatal("worker never polled a second time")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}

	client.mu.Lock()
	defer client.mu.Unlock()
	if len(client.deleted) != 3 {
		t.Fatalf("expected 3 deletes, got %d", len(client.deleted))
	}
}

func TestReceiveCount(t *testing.T) {
	if got := receiveCount(sqstypes.Message{Attributes: map[string]string{"ApproximateReceiveCount": "3"}}); got != 3 {
		t.Fatalf("receiveCount = %d, want 3", got)
	}
	if got := receiveCount(sqstypes.Message{}); got != 0 {
		t.Fatalf("receiveCount = %d, want 0", got)
	}
}
