package board

import "fmt"

type Kind string

const (
	KindMoved   Kind = "student_moved"
	KindAdded   Kind = "student_added"
	KindUpdated Kind = "student_updated"
)

// Notification is the human readable outcome of a transition, shown to the
// user as a toast. Only cross-column moves, adds and updates produce one.
type Notification struct {
	Kind      Kind   `json:"kind"`
	StudentID string `json:"student_id"`
	Message   string `json:"message"`
}

func movedNotification(studentID, name, from, to string) *Notification {
	return &Notification{
		Kind:      KindMoved,
		StudentID: studentID,
		Message:   fmt.Sprintf("%s moved from %s to %s", name, from, to),
	}
}

func addedNotification(studentID, name, column string) *Notification {
	return &Notification{
		Kind:      KindAdded,
		StudentID: studentID,
		Message:   fmt.Sprintf("New student %s added to %s", name, column),
	}
}

func updatedNotification(studentID, name string) *Notification {
	return &Notification{
		Kind:      KindUpdated,
		StudentID: studentID,
		Message:   fmt.Sprintf("Student %s information updated", name),
	}
}
