package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/oksasatya/student-onboarding-board/pkg/mailer/templates"
	"github.com/oksasatya/student-onboarding-board/pkg/notify"
)

var ErrNoRecipient = errors.New("mailer: no recipient configured")

// Sender delivers one rendered email. *Mailgun implements it.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// NotificationMailer renders board events and mails them to a fixed inbox.
type NotificationMailer struct {
	Sender  Sender
	To      string
	AppName string
}

func NewNotificationMailer(s Sender, to, appName string) *NotificationMailer {
	return &NotificationMailer{Sender: s, To: to, AppName: appName}
}

func (n *NotificationMailer) Deliver(ctx context.Context, ev notify.Event) error {
	if n.To == "" {
		return ErrNoRecipient
	}
	subject, text, html, err := templates.Render(templates.BoardNotification, templates.NotificationData{
		AppName:   n.AppName,
		Kind:      ev.Kind,
		Message:   ev.Message,
		StudentID: ev.StudentID,
		RequestID: ev.RequestID,
		At:        ev.At,
	})
	if err != nil {
		return fmt.Errorf("render notification: %w", err)
	}
	return n.Sender.Send(ctx, n.To, subject, text, html)
}
