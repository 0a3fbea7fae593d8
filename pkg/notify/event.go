package notify

import "time"

// Event is the JSON payload put on the RabbitMQ queue for every board
// notification. Message is the exact text shown to the user.
type Event struct {
	Kind      string    `json:"kind"`
	StudentID string    `json:"student_id"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id,omitempty"`
	At        time.Time `json:"at"`
}
