package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/pencilhero402/rift-rewind/internal/models"
)

type mockSQS struct {
	mu           sync.Mutex
	sendCalls    int
	batchCalls   []int // entry count per SendMessageBatch call
	receiveBody  []string
	receiveOnce  bool
	received     bool
	receiveErr   error
	receiveCalls int
	deleted      []string
	sendErr      error
	batchErr     error
}

func (m *mockSQS) receiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.receiveCalls
}

func (m *mockSQS) deletedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.deleted)
}

func (m *mockSQS) SendMessage(ctx context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	m.sendCalls++
	if m.sendErr != nil {
		return nil, m.sendErr
	}
	return &sqs.SendMessageOutput{}, nil
}

func (m *mockSQS) SendMessageBatch(ctx context.Context, in *sqs.SendMessageBatchInput, _ ...func(*sqs.Options)) (*sqs.SendMessageBatchOutput, error) {
	m.batchCalls = append(m.batchCalls, len(in.Entries))
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	return &sqs.SendMessageBatchOutput{}, nil
}

func (m *mockSQS) ReceiveMessage(ctx context.Context, in *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	m.mu.Lock()
	m.receiveCalls++
	if m.receiveErr != nil {
		m.mu.Unlock()
		return nil, m.receiveErr
	}
	done := m.receiveOnce && m.received
	m.received = true
	m.mu.Unlock()
	if done {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	out := &sqs.ReceiveMessageOutput{}
	for i, body := range m.receiveBody {
		out.Messages = append(out.Messages, types.Message{
			Body:          aws.String(body),
			ReceiptHandle: aws.String(fmt.Sprintf("handle-%d", i)),
		})
	}
	return out, nil
}

func (m *mockSQS) DeleteMessage(ctx context.Context, in *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, aws.ToString(in.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

func TestEnqueueBatchChunksAtTen(t *testing.T) {
	client := &mockSQS{}
	d := NewDispatcher(client, zap.NewNop().Sugar())

	msgs := make([]models.Message, 25)
	for i := range msgs {
		msg, err := models.NewMessage(models.ActionCreateMatchData, models.MatchMessage{MatchID: fmt.Sprintf("NA1_%d", i)})
		if err != nil {
			t.Fatal(err)
		}
		msgs[i] = msg
	}

	if err := d.EnqueueBatch(context.Background(), "https://queue", msgs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{10, 10, 5}
	if len(client.batchCalls) != len(want) {
		t.Fatalf("batch calls = %v, want %v", client.batchCalls, want)
	}
	for i, n := range want {
		if client.batchCalls[i] != n {
			t.Errorf("batch %d size = %d, want %d", i, client.batchCalls[i], n)
		}
	}
}

func TestEnqueueBatchEmpty(t *testing.T) {
	client := &mockSQS{}
	d := NewDispatcher(client, zap.NewNop().Sugar())

	if err := d.EnqueueBatch(context.Background(), "https://queue", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.batchCalls) != 0 {
		t.Errorf("batch calls = %v, want none", client.batchCalls)
	}
}

func TestEnqueueSendsEnvelope(t *testing.T) {
	client := &mockSQS{}
	d := NewDispatcher(client, zap.NewNop().Sugar())

	msg, err := models.NewMessage(models.ActionCreatePlayer, models.PlayerMessage{GameName: "Hide", TagLine: "NA1"})
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Enqueue(context.Background(), "https://queue", msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.sendCalls != 1 {
		t.Errorf("send calls = %d, want 1", client.sendCalls)
	}
}

func consumerFixture(t *testing.T, client *mockSQS) *Consumer {
	t.Helper()
	return NewConsumer(ConsumerConfig{
		QueueURL:  "https://queue",
		BatchSize: 10,
		WaitTime:  time.Second,
		Client:    client,
		Logger:    zap.NewNop().Sugar(),
	})
}

func TestConsumerRoutesAndDeletes(t *testing.T) {
	body, _ := json.Marshal(models.Message{Action: models.ActionCreatePlayer, Data: json.RawMessage(`{"gameName":"Hide","tagLine":"NA1"}`)})
	client := &mockSQS{receiveBody: []string{string(body)}, receiveOnce: true}
	c := consumerFixture(t, client)

	var handled []string
	c.Handle(models.ActionCreatePlayer, func(ctx context.Context, msg models.Message) error {
		var p models.PlayerMessage
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return err
		}
		handled = append(handled, p.GameName)
		return nil
	})

	c.Start(context.Background())
	waitFor(t, func() bool { return client.deletedCount() == 1 })
	c.Stop()

	if len(handled) != 1 || handled[0] != "Hide" {
		t.Errorf("handled = %v", handled)
	}
}

func TestConsumerSkipsMalformedWithoutAborting(t *testing.T) {
	good, _ := json.Marshal(models.Message{Action: models.ActionCreateChampionStats})
	client := &mockSQS{receiveBody: []string{"{not json", string(good)}, receiveOnce: true}
	c := consumerFixture(t, client)

	var handled int
	c.Handle(models.ActionCreateChampionStats, func(ctx context.Context, msg models.Message) error {
		handled++
		return nil
	})

	c.Start(context.Background())
	waitFor(t, func() bool { return client.deletedCount() == 2 })
	c.Stop()

	if handled != 1 {
		t.Errorf("handled = %d, want 1", handled)
	}
}

func TestConsumerLeavesFailedMessages(t *testing.T) {
	body, _ := json.Marshal(models.Message{Action: models.ActionCreatePlayerStats})
	client := &mockSQS{receiveBody: []string{string(body)}, receiveOnce: true}
	c := consumerFixture(t, client)

	c.Handle(models.ActionCreatePlayerStats, func(ctx context.Context, msg models.Message) error {
		return errors.New("transient failure")
	})

	c.Start(context.Background())
	// Give the poll loop a moment to process the single receive.
	time.Sleep(50 * time.Millisecond)
	c.Stop()

	if len(client.deleted) != 0 {
		t.Errorf("deleted = %v, want none", client.deleted)
	}
}

func TestConsumerBacksOffAfterReceiveError(t *testing.T) {
	client := &mockSQS{receiveErr: errors.New("queue does not exist")}
	c := consumerFixture(t, client)
	c.errBackoff = 40 * time.Millisecond

	c.Start(context.Background())
	time.Sleep(100 * time.Millisecond)
	c.Stop()

	// Without backoff the loop would spin through thousands of receives.
	if calls := client.receiveCount(); calls > 4 {
		t.Errorf("receive calls = %d, want throttled polling", calls)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
