package entity

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownStudent   = errors.New("column references unknown student")
	ErrDuplicateStudent = errors.New("student listed more than once")
	ErrBadColumnOrder   = errors.New("column order is not a permutation of columns")
)

// Student is a single card on the board.
// Signature holds an image data URI captured by the client; empty means none.
type Student struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Email     string `json:"email" yaml:"email"`
	Contact   string `json:"contact" yaml:"contact"`
	Signature string `json:"signature,omitempty" yaml:"signature,omitempty"`
}

// Column is an onboarding stage holding an ordered list of student ids.
type Column struct {
	ID         string   `json:"id" yaml:"id"`
	Title      string   `json:"title" yaml:"title"`
	StudentIDs []string `json:"student_ids" yaml:"student_ids"`
}

// Board is the aggregate root. A *Board is treated as an immutable snapshot:
// transitions build a new Board and share every untouched map, column and
// student with the previous one.
type Board struct {
	Students    map[string]Student `json:"students" yaml:"students"`
	Columns     map[string]Column  `json:"columns" yaml:"columns"`
	ColumnOrder []string           `json:"column_order" yaml:"column_order"`
}

// Lane is a column resolved for display.
type Lane struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Students []Student `json:"students"`
}

// Validate checks the referential invariants of a board.
func (b *Board) Validate() error {
	if len(b.ColumnOrder) != len(b.Columns) {
		return fmt.Errorf("%w: %d ordered, %d defined", ErrBadColumnOrder, len(b.ColumnOrder), len(b.Columns))
	}
	ordered := make(map[string]struct{}, len(b.ColumnOrder))
	for _, id := range b.ColumnOrder {
		if _, ok := b.Columns[id]; !ok {
			return fmt.Errorf("%w: %q not defined", ErrBadColumnOrder, id)
		}
		if _, dup := ordered[id]; dup {
			return fmt.Errorf("%w: %q repeated", ErrBadColumnOrder, id)
		}
		ordered[id] = struct{}{}
	}

	seen := make(map[string]string)
	for _, colID := range b.ColumnOrder {
		for _, sid := range b.Columns[colID].StudentIDs {
			if _, ok := b.Students[sid]; !ok {
				return fmt.Errorf("%w: %q in %q", ErrUnknownStudent, sid, colID)
			}
			if prev, dup := seen[sid]; dup {
				return fmt.Errorf("%w: %q in %q and %q", ErrDuplicateStudent, sid, prev, colID)
			}
			seen[sid] = colID
		}
	}
	return nil
}

// Lanes returns columns in display order with their students resolved.
// Ids without a student record are skipped.
func (b *Board) Lanes() []Lane {
	lanes := make([]Lane, 0, len(b.ColumnOrder))
	for _, colID := range b.ColumnOrder {
		col, ok := b.Columns[colID]
		if !ok {
			continue
		}
		students := make([]Student, 0, len(col.StudentIDs))
		for _, sid := range col.StudentIDs {
			if s, ok := b.Students[sid]; ok {
				students = append(students, s)
			}
		}
		lanes = append(lanes, Lane{ID: col.ID, Title: col.Title, Students: students})
	}
	return lanes
}

// Locate returns the column and position currently holding studentID.
func (b *Board) Locate(studentID string) (columnID string, index int, ok bool) {
	for _, colID := range b.ColumnOrder {
		for i, sid := range b.Columns[colID].StudentIDs {
			if sid == studentID {
				return colID, i, true
			}
		}
	}
	return "", -1, false
}

// Student looks up a student record by id.
func (b *Board) Student(id string) (Student, bool) {
	s, ok := b.Students[id]
	return s, ok
}

// FirstColumn returns the column new students are placed in.
func (b *Board) FirstColumn() (Column, bool) {
	if len(b.ColumnOrder) == 0 {
		return Column{}, false
	}
	col, ok := b.Columns[b.ColumnOrder[0]]
	return col, ok
}
