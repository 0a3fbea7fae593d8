package mailer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/student-onboarding-board/pkg/notify"
)

type captured struct {
	mu                      sync.Mutex
	to, subject, text, html string
	calls                   int
}

func (c *captured) Send(_ context.Context, to, subject, text, html string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.to, c.subject, c.text, c.html = to, subject, text, html
	c.calls++
	return nil
}

func TestNotificationMailerDeliver(t *testing.T) {
	s := &captured{}
	m := NewNotificationMailer(s, "staff@example.com", "board")
	err := m.Deliver(context.Background(), notify.Event{
		Kind:      "student_added",
		StudentID: "student-42",
		Message:   "New student Ann Lee added to Inquiry",
		At:        time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, s.calls)
	assert.Equal(t, "staff@example.com", s.to)
	assert.Equal(t, "[board] Student added", s.subject)
	assert.Contains(t, s.text, "New student Ann Lee added to Inquiry")
	assert.Contains(t, s.html, "student-42")
}

func TestNotificationMailerNoRecipient(t *testing.T) {
	s := &captured{}
	err := NewNotificationMailer(s, "", "board").Deliver(context.Background(), notify.Event{Kind: "student_moved"})
	assert.ErrorIs(t, err, ErrNoRecipient)
	assert.Zero(t, s.calls)
}

func TestMailgunSend(t *testing.T) {
	var (
		gotPath string
		gotTo   string
		gotHTML string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotTo = r.FormValue("to")
		gotHTML = r.FormValue("html")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"<1@mg.example.com>","message":"Queued. Thank you."}`))
	}))
	defer srv.Close()

	m := NewMailgun("mg.example.com", "key-test", "Board <board@mg.example.com>")
	m.APIBase = srv.URL + "/v3"
	err := m.Send(context.Background(), "staff@example.com", "subject", "body", "<p>body</p>")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(gotPath, "/mg.example.com/messages"), gotPath)
	assert.Equal(t, "staff@example.com", gotTo)
	assert.Equal(t, "<p>body</p>", gotHTML)
}
