package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/student-onboarding-board/internal/domain/board"
	"github.com/oksasatya/student-onboarding-board/pkg/notify"
)

// Notifier delivers board notifications to the outside world. Delivery is
// best effort and never affects the board state.
type Notifier interface {
	Notify(ctx context.Context, n board.Notification)
}

// Publisher is satisfied by helpers.RabbitPublisher.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type requestIDKey struct{}

// WithRequestID attaches the HTTP request id so published events can be correlated.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// LogNotifier writes each notification to the application log.
type LogNotifier struct {
	Logger *logrus.Logger
}

func (l LogNotifier) Notify(ctx context.Context, n board.Notification) {
	if l.Logger == nil {
		return
	}
	l.Logger.WithFields(logrus.Fields{
		"kind":       n.Kind,
		"student_id": n.StudentID,
		"request_id": requestID(ctx),
	}).Info(n.Message)
}

// QueueNotifier publishes notifications as notify.Event messages.
type QueueNotifier struct {
	Pub    Publisher
	Logger *logrus.Logger
	Now    func() time.Time
}

func (q QueueNotifier) Notify(ctx context.Context, n board.Notification) {
	if q.Pub == nil {
		return
	}
	now := time.Now
	if q.Now != nil {
		now = q.Now
	}
	ev := notify.Event{
		Kind:      string(n.Kind),
		StudentID: n.StudentID,
		Message:   n.Message,
		RequestID: requestID(ctx),
		At:        now().UTC(),
	}
	if err := q.Pub.PublishJSON(ctx, ev); err != nil && q.Logger != nil {
		q.Logger.WithError(err).WithField("kind", n.Kind).Warn("failed to publish notification")
	}
}

// MultiNotifier fans a notification out to every notifier in order.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, n board.Notification) {
	for _, x := range m {
		if x != nil {
			x.Notify(ctx, n)
		}
	}
}
