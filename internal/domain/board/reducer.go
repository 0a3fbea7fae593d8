// Package board holds the pure state transitions of the onboarding board.
//
// Every function takes the current snapshot and returns the next one without
// mutating its input. Unchanged parts of the snapshot are shared, and a move
// that changes nothing returns the very same *entity.Board.
package board

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/oksasatya/student-onboarding-board/internal/domain/entity"
)

var (
	ErrColumnNotFound    = errors.New("column not found")
	ErrStudentNotFound   = errors.New("student not found")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrStudentNotAtIndex = errors.New("student is not at the source index")
	ErrInvalidDraft      = errors.New("name, email and contact are required")
	ErrNoColumns         = errors.New("board has no columns")
	ErrIDExhausted       = errors.New("could not generate a unique student id")
)

const maxIDAttempts = 8

// Location is a position inside a column list.
type Location struct {
	ColumnID string `json:"column_id"`
	Index    int    `json:"index"`
}

// Drop describes a finished drag gesture. A nil Destination means the card
// was released outside any column.
type Drop struct {
	StudentID   string
	Source      Location
	Destination *Location
}

// Draft is the input for a new student.
type Draft struct {
	Name      string
	Email     string
	Contact   string
	Signature string
}

// IDFunc produces candidate student ids.
type IDFunc func() string

// NewStudentID is the default IDFunc.
func NewStudentID() string {
	return "student-" + uuid.NewString()
}

// Move relocates a student within or across columns.
func Move(state *entity.Board, d Drop) (*entity.Board, *Notification, error) {
	if d.Destination == nil {
		return state, nil, nil
	}
	src, dst := d.Source, *d.Destination
	if src.ColumnID == dst.ColumnID && src.Index == dst.Index {
		return state, nil, nil
	}

	start, ok := state.Columns[src.ColumnID]
	if !ok {
		return state, nil, fmt.Errorf("%w: %q", ErrColumnNotFound, src.ColumnID)
	}
	finish, ok := state.Columns[dst.ColumnID]
	if !ok {
		return state, nil, fmt.Errorf("%w: %q", ErrColumnNotFound, dst.ColumnID)
	}
	if src.Index < 0 || src.Index >= len(start.StudentIDs) {
		return state, nil, fmt.Errorf("%w: source %d of %q", ErrIndexOutOfRange, src.Index, start.ID)
	}
	if start.StudentIDs[src.Index] != d.StudentID {
		return state, nil, fmt.Errorf("%w: %q at %q[%d]", ErrStudentNotAtIndex, d.StudentID, start.ID, src.Index)
	}
	if dst.Index < 0 {
		return state, nil, fmt.Errorf("%w: destination %d", ErrIndexOutOfRange, dst.Index)
	}

	if start.ID == finish.ID {
		// past-the-end lands on the last slot once the card is lifted out
		if last := len(start.StudentIDs) - 1; dst.Index > last && src.Index == last {
			return state, nil, nil
		}
		ids := insertAt(removeAt(start.StudentIDs, src.Index), dst.Index, d.StudentID)
		start.StudentIDs = ids
		return withColumns(state, start), nil, nil
	}

	start.StudentIDs = removeAt(start.StudentIDs, src.Index)
	finish.StudentIDs = insertAt(finish.StudentIDs, dst.Index, d.StudentID)
	next := withColumns(state, start, finish)

	name := d.StudentID
	if s, ok := state.Students[d.StudentID]; ok {
		name = s.Name
	}
	return next, movedNotification(d.StudentID, name, start.Title, finish.Title), nil
}

// AddStudent creates a student and appends it to the first column.
func AddStudent(state *entity.Board, draft Draft, newID IDFunc) (*entity.Board, entity.Student, *Notification, error) {
	if draft.Name == "" || draft.Email == "" || draft.Contact == "" {
		return state, entity.Student{}, nil, ErrInvalidDraft
	}
	first, ok := state.FirstColumn()
	if !ok {
		return state, entity.Student{}, nil, ErrNoColumns
	}
	if newID == nil {
		newID = NewStudentID
	}
	id, err := uniqueID(state, newID)
	if err != nil {
		return state, entity.Student{}, nil, err
	}

	student := entity.Student{
		ID:        id,
		Name:      draft.Name,
		Email:     draft.Email,
		Contact:   draft.Contact,
		Signature: draft.Signature,
	}
	first.StudentIDs = insertAt(first.StudentIDs, len(first.StudentIDs), id)

	next := withColumns(state, first)
	next.Students = withStudent(state.Students, student)
	return next, student, addedNotification(id, student.Name, first.Title), nil
}

// UpdateStudent replaces the whole record of an existing student.
// Column membership is left alone.
func UpdateStudent(state *entity.Board, id string, rec entity.Student) (*entity.Board, *Notification, error) {
	if _, ok := state.Students[id]; !ok {
		return state, nil, fmt.Errorf("%w: %q", ErrStudentNotFound, id)
	}
	if rec.Name == "" || rec.Email == "" || rec.Contact == "" {
		return state, nil, ErrInvalidDraft
	}
	rec.ID = id

	next := &entity.Board{
		Students:    withStudent(state.Students, rec),
		Columns:     state.Columns,
		ColumnOrder: state.ColumnOrder,
	}
	return next, updatedNotification(id, rec.Name), nil
}

func uniqueID(state *entity.Board, newID IDFunc) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := newID()
		if id == "" {
			continue
		}
		if _, taken := state.Students[id]; !taken {
			return id, nil
		}
	}
	return "", ErrIDExhausted
}

// withColumns returns a shallow copy of state with the given columns replaced.
func withColumns(state *entity.Board, cols ...entity.Column) *entity.Board {
	columns := make(map[string]entity.Column, len(state.Columns))
	for k, v := range state.Columns {
		columns[k] = v
	}
	for _, c := range cols {
		columns[c.ID] = c
	}
	return &entity.Board{
		Students:    state.Students,
		Columns:     columns,
		ColumnOrder: state.ColumnOrder,
	}
}

func withStudent(students map[string]entity.Student, s entity.Student) map[string]entity.Student {
	out := make(map[string]entity.Student, len(students)+1)
	for k, v := range students {
		out[k] = v
	}
	out[s.ID] = s
	return out
}

func removeAt(ids []string, i int) []string {
	out := make([]string, 0, len(ids)-1)
	out = append(out, ids[:i]...)
	return append(out, ids[i+1:]...)
}

// insertAt clamps i to the list length, like a splice past the end.
func insertAt(ids []string, i int, id string) []string {
	if i > len(ids) {
		i = len(ids)
	}
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids[:i]...)
	out = append(out, id)
	return append(out, ids[i:]...)
}
