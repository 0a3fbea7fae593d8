package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/student-onboarding-board/config"
	"github.com/oksasatya/student-onboarding-board/pkg/helpers"
	"github.com/oksasatya/student-onboarding-board/pkg/mailer"
	"github.com/oksasatya/student-onboarding-board/pkg/notify"
)

type deliverer interface {
	Deliver(ctx context.Context, ev notify.Event) error
}

// worker turns queued board events into emails. Without a mailer it only logs.
type worker struct {
	mail    deliverer
	logger  *logrus.Logger
	timeout time.Duration
}

func (w *worker) handle(ctx context.Context, msg amqp.Delivery) {
	var ev notify.Event
	if err := json.Unmarshal(msg.Body, &ev); err != nil {
		w.logger.WithError(err).Warn("bad message")
		_ = msg.Nack(false, false)
		return
	}
	fields := logrus.Fields{"kind": ev.Kind, "student_id": ev.StudentID, "request_id": ev.RequestID}

	if w.mail == nil {
		helpers.LogInfo(w.logger, ev.Message, fields)
		_ = msg.Ack(false)
		return
	}

	c, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	if err := w.mail.Deliver(c, ev); err != nil {
		// one retry through the queue, then drop
		requeue := !msg.Redelivered
		w.logger.WithError(err).WithFields(fields).WithField("requeue", requeue).Warn("send failed")
		_ = msg.Nack(false, requeue)
		return
	}
	w.logger.WithFields(fields).Debug("notification mailed")
	_ = msg.Ack(false)
}

// run handles deliveries until msgs is closed, then closes the returned channel.
func (w *worker) run(ctx context.Context, msgs <-chan amqp.Delivery) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range msgs {
			w.handle(ctx, msg)
		}
	}()
	return done
}

type canceler interface {
	Cancel(consumer string, noWait bool) error
}

// stopConsuming cancels the consumer so the broker closes the delivery
// channel, then waits for the in-flight message. It reports whether the
// worker drained before timeout.
func stopConsuming(ch canceler, tag string, done <-chan struct{}, timeout time.Duration) bool {
	if err := ch.Cancel(tag, false); err != nil {
		log.Printf("cancel consumer: %v", err)
	}
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-worker", cfg.Env)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQNotifyQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}

	w := &worker{logger: logger, timeout: 15 * time.Second}
	if cfg.MailConfigured() {
		mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
		w.mail = mailer.NewNotificationMailer(mg, cfg.NotifyEmailTo, cfg.AppName)
	} else {
		logger.Info("mail sending disabled or Mailgun not configured; notifications are logged only")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}
	if err := helpers.DeclareQueue(ch, cfg.RabbitMQNotifyQueue); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	consumerTag := cfg.AppName + "-notification-worker"
	msgs, err := ch.Consume(cfg.RabbitMQNotifyQueue, consumerTag, false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := w.run(ctx, msgs)

	logger.Infof("notification worker listening on queue=%s", cfg.RabbitMQNotifyQueue)
	<-stop
	logger.Info("shutting down...")
	if !stopConsuming(ch, consumerTag, done, 5*time.Second) {
		logger.Warn("in-flight notifications did not finish before timeout")
	}
}
