package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/student-onboarding-board/pkg/helpers"
	"github.com/oksasatya/student-onboarding-board/pkg/notify"
)

type ackRecorder struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *ackRecorder) Ack(uint64, bool) error { a.acked = true; return nil }
func (a *ackRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked, a.requeue = true, requeue
	return nil
}
func (a *ackRecorder) Reject(_ uint64, requeue bool) error {
	a.nacked, a.requeue = true, requeue
	return nil
}

type fakeMail struct {
	err    error
	events []notify.Event
}

func (f *fakeMail) Deliver(_ context.Context, ev notify.Event) error {
	f.events = append(f.events, ev)
	return f.err
}

func delivery(t *testing.T, body any, redelivered bool) (amqp.Delivery, *ackRecorder) {
	t.Helper()
	raw, ok := body.([]byte)
	if !ok {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	ack := &ackRecorder{}
	return amqp.Delivery{Acknowledger: ack, Body: raw, Redelivered: redelivered}, ack
}

var moved = notify.Event{
	Kind:      "student_moved",
	StudentID: "student-1",
	Message:   "John Doe moved from Inquiry to Tour",
	At:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
}

func newWorker(m deliverer) *worker {
	return &worker{mail: m, logger: helpers.NewDiscardLogger(), timeout: time.Second}
}

func TestHandleMails(t *testing.T) {
	m := &fakeMail{}
	msg, ack := delivery(t, moved, false)
	newWorker(m).handle(context.Background(), msg)

	assert.True(t, ack.acked)
	require.Len(t, m.events, 1)
	assert.Equal(t, moved.Message, m.events[0].Message)
}

func TestHandleLogsOnlyWithoutMailer(t *testing.T) {
	msg, ack := delivery(t, moved, false)
	newWorker(nil).handle(context.Background(), msg)
	assert.True(t, ack.acked)
}

func TestHandleBadMessage(t *testing.T) {
	msg, ack := delivery(t, []byte("{not json"), false)
	newWorker(&fakeMail{}).handle(context.Background(), msg)
	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestHandleSendFailureRequeuesOnce(t *testing.T) {
	m := &fakeMail{err: errors.New("mailgun down")}

	msg, ack := delivery(t, moved, false)
	newWorker(m).handle(context.Background(), msg)
	assert.True(t, ack.nacked)
	assert.True(t, ack.requeue)

	msg, ack = delivery(t, moved, true)
	newWorker(m).handle(context.Background(), msg)
	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
}

type closingCanceler struct {
	msgs chan amqp.Delivery
	tag  string
}

func (c *closingCanceler) Cancel(consumer string, _ bool) error {
	c.tag = consumer
	close(c.msgs)
	return nil
}

type stuckCanceler struct{}

func (stuckCanceler) Cancel(string, bool) error { return errors.New("channel closed") }

func TestStopConsumingDrainsWithoutWaitingForTimeout(t *testing.T) {
	m := &fakeMail{}
	msgs := make(chan amqp.Delivery, 1)
	msg, ack := delivery(t, moved, false)
	msgs <- msg

	done := newWorker(m).run(context.Background(), msgs)
	c := &closingCanceler{msgs: msgs}

	start := time.Now()
	assert.True(t, stopConsuming(c, "board-notification-worker", done, 5*time.Second))
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, "board-notification-worker", c.tag)
	assert.True(t, ack.acked)
	assert.Len(t, m.events, 1)
}

func TestStopConsumingTimesOut(t *testing.T) {
	msgs := make(chan amqp.Delivery)
	done := newWorker(nil).run(context.Background(), msgs)
	assert.False(t, stopConsuming(stuckCanceler{}, "tag", done, 20*time.Millisecond))
	close(msgs)
	<-done
}
