package queue

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/pencilhero402/rift-rewind/internal/models"
)

// HandlerFunc processes one decoded envelope. Returning an error leaves
// the message on the queue for redelivery.
type HandlerFunc func(ctx context.Context, msg models.Message) error

// receiveErrBackoff throttles the poll loop after a failed receive so a
// broken queue URL or revoked credentials cannot spin it hot.
const receiveErrBackoff = 5 * time.Second

// ConsumerConfig configures a queue consumer.
type ConsumerConfig struct {
	QueueURL  string
	BatchSize int
	WaitTime  time.Duration
	Client    SQSAPI
	Logger    *zap.SugaredLogger
}

// Consumer drains one SQS queue with a long-poll loop. Messages are
// processed sequentially so provider rate limits stay predictable.
// Malformed bodies are deleted and counted, never retried.
type Consumer struct {
	cfg        ConsumerConfig
	handlers   map[string]HandlerFunc
	logger     *zap.SugaredLogger
	errBackoff time.Duration
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

func NewConsumer(cfg ConsumerConfig) *Consumer {
	if cfg.BatchSize <= 0 || cfg.BatchSize > 10 {
		cfg.BatchSize = 10
	}
	if cfg.WaitTime <= 0 {
		cfg.WaitTime = 20 * time.Second
	}
	return &Consumer{
		cfg:        cfg,
		handlers:   make(map[string]HandlerFunc),
		logger:     cfg.Logger,
		errBackoff: receiveErrBackoff,
	}
}

// Handle registers the handler for an action.
func (c *Consumer) Handle(action string, fn HandlerFunc) {
	c.handlers[action] = fn
}

// Start launches the poll loop. It returns immediately; call Stop to
// drain and wait.
func (c *Consumer) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.logger.Infow("consumer started", "queue", c.cfg.QueueURL)
		for {
			select {
			case <-ctx.Done():
				c.logger.Infow("consumer stopped", "queue", c.cfg.QueueURL)
				return
			default:
			}
			c.poll(ctx)
		}
	}()
}

// Stop cancels polling and waits for the in-flight message to finish.
func (c *Consumer) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
}

func (c *Consumer) poll(ctx context.Context) {
	out, err := c.cfg.Client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(c.cfg.QueueURL),
		MaxNumberOfMessages: int32(c.cfg.BatchSize),
		WaitTimeSeconds:     int32(c.cfg.WaitTime / time.Second),
	})
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		c.logger.Errorw("receive failed", "queue", c.cfg.QueueURL, "error", err)
		select {
		case <-ctx.Done():
		case <-time.After(c.errBackoff):
		}
		return
	}

	for _, raw := range out.Messages {
		c.process(ctx, raw)
	}
}

// process handles one message in isolation. A handler error leaves the
// message for redelivery; everything else resolves it.
func (c *Consumer) process(ctx context.Context, raw types.Message) {
	var msg models.Message
	if err := json.Unmarshal([]byte(aws.ToString(raw.Body)), &msg); err != nil {
		messagesMalformed.Inc()
		c.logger.Warnw("dropping malformed message", "error", err)
		c.delete(ctx, raw)
		return
	}

	handler, ok := c.handlers[msg.Action]
	if !ok {
		messagesMalformed.Inc()
		c.logger.Warnw("dropping message with unknown action", "action", msg.Action)
		c.delete(ctx, raw)
		return
	}

	if err := handler(ctx, msg); err != nil {
		messagesFailed.Inc()
		c.logger.Errorw("handler failed, message left for redelivery",
			"action", msg.Action, "error", err)
		return
	}
	messagesProcessed.Inc()
	c.delete(ctx, raw)
}

func (c *Consumer) delete(ctx context.Context, raw types.Message) {
	_, err := c.cfg.Client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.cfg.QueueURL),
		ReceiptHandle: raw.ReceiptHandle,
	})
	if err != nil {
		c.logger.Errorw("delete failed", "queue", c.cfg.QueueURL, "error", err)
	}
}
