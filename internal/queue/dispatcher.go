// Package queue implements the SQS-backed work distribution layer. The
// dispatcher enqueues action envelopes and the consumer drains them one at
// a time, leaning on store idempotence for at-least-once delivery.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/pencilhero402/rift-rewind/internal/models"
)

// maxBatchEntries is the SQS SendMessageBatch hard limit.
const maxBatchEntries = 10

// Prometheus metrics
var (
	messagesEnqueued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rift_messages_enqueued_total",
		Help: "Total number of messages enqueued by action",
	}, []string{"action"})

	messagesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rift_messages_processed_total",
		Help: "Total number of queue messages processed successfully",
	})

	messagesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rift_messages_failed_total",
		Help: "Total number of queue messages that failed processing",
	})

	messagesMalformed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rift_messages_malformed_total",
		Help: "Total number of queue messages dropped as malformed",
	})
)

// SQSAPI is the slice of the SQS client the queue layer uses.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	SendMessageBatch(ctx context.Context, params *sqs.SendMessageBatchInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageBatchOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// Dispatcher enqueues action envelopes onto SQS queues.
type Dispatcher struct {
	client SQSAPI
	logger *zap.SugaredLogger
}

func NewDispatcher(client SQSAPI, logger *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{client: client, logger: logger}
}

// Enqueue sends a single envelope.
func (d *Dispatcher) Enqueue(ctx context.Context, queueURL string, msg models.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	_, err = d.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("send %s message: %w", msg.Action, err)
	}
	messagesEnqueued.WithLabelValues(msg.Action).Inc()
	return nil
}

// EnqueueBatch sends envelopes in chunks of ten, the SQS batch ceiling.
// Entry IDs are fresh uuids; they only need to be unique within a chunk.
func (d *Dispatcher) EnqueueBatch(ctx context.Context, queueURL string, msgs []models.Message) error {
	for start := 0; start < len(msgs); start += maxBatchEntries {
		end := start + maxBatchEntries
		if end > len(msgs) {
			end = len(msgs)
		}

		entries := make([]types.SendMessageBatchRequestEntry, 0, end-start)
		for _, msg := range msgs[start:end] {
			body, err := json.Marshal(msg)
			if err != nil {
				return fmt.Errorf("marshal message: %w", err)
			}
			entries = append(entries, types.SendMessageBatchRequestEntry{
				Id:          aws.String(uuid.NewString()),
				MessageBody: aws.String(string(body)),
			})
		}

		out, err := d.client.SendMessageBatch(ctx, &sqs.SendMessageBatchInput{
			QueueUrl: aws.String(queueURL),
			Entries:  entries,
		})
		if err != nil {
			return fmt.Errorf("send batch [%d:%d]: %w", start, end, err)
		}
		for _, failed := range out.Failed {
			d.logger.Warnw("batch entry rejected",
				"queue", queueURL, "code", aws.ToString(failed.Code), "message", aws.ToString(failed.Message))
		}
		for _, msg := range msgs[start:end] {
			messagesEnqueued.WithLabelValues(msg.Action).Inc()
		}
	}
	return nil
}
