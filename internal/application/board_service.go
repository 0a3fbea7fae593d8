package application

import (
	"context"
	"errors"
	"expvar"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/student-onboarding-board/internal/domain/board"
	"github.com/oksasatya/student-onboarding-board/internal/domain/entity"
	"github.com/oksasatya/student-onboarding-board/internal/domain/repository"
)

var ErrStudentNotFound = board.ErrStudentNotFound

// Operation counters exposed on /debug/vars.
var stats = expvar.NewMap("board")

// StudentIndexer mirrors students into a search backend.
type StudentIndexer interface {
	IndexStudent(ctx context.Context, s entity.Student, columnID string) error
	SearchStudents(ctx context.Context, q string, size int) ([]string, error)
}

// StudentPruner drops indexed students that are no longer on the board.
type StudentPruner interface {
	PruneStudents(ctx context.Context, keep []string) error
}

type Service struct {
	Store    repository.BoardStore
	Notifier Notifier
	Index    StudentIndexer
	Logger   *logrus.Logger
	NewID    board.IDFunc
}

func NewService(store repository.BoardStore, notifier Notifier, index StudentIndexer, logger *logrus.Logger) *Service {
	return &Service{
		Store:    store,
		Notifier: notifier,
		Index:    index,
		Logger:   logger,
		NewID:    board.NewStudentID,
	}
}

// MoveResult reports the snapshot after a drop. Changed is false for
// cancelled drops and drops onto the original position.
type MoveResult struct {
	Board        *entity.Board
	Changed      bool
	Notification *board.Notification
}

type StudentResult struct {
	Board        *entity.Board
	Student      entity.Student
	Notification *board.Notification
}

// StudentLocation is a student together with where it sits on the board.
type StudentLocation struct {
	Student  entity.Student
	ColumnID string
	Index    int
}

func (s *Service) Board(ctx context.Context) *entity.Board {
	return s.Store.Current(ctx)
}

func (s *Service) Move(ctx context.Context, drop board.Drop) (MoveResult, error) {
	var note *board.Notification
	prev, next, err := s.Store.Apply(ctx, func(cur *entity.Board) (*entity.Board, error) {
		b, n, err := board.Move(cur, drop)
		note = n
		return b, err
	})
	if err != nil {
		stats.Add("move_rejected", 1)
		return MoveResult{Board: prev}, err
	}
	if prev == next {
		stats.Add("move_noop", 1)
		return MoveResult{Board: next}, nil
	}
	stats.Add("moves", 1)
	s.emit(ctx, note)
	if note != nil {
		s.reindex(ctx, next, drop.StudentID)
	}
	return MoveResult{Board: next, Changed: true, Notification: note}, nil
}

func (s *Service) AddStudent(ctx context.Context, draft board.Draft) (StudentResult, error) {
	var (
		student entity.Student
		note    *board.Notification
	)
	_, next, err := s.Store.Apply(ctx, func(cur *entity.Board) (*entity.Board, error) {
		b, st, n, err := board.AddStudent(cur, draft, s.NewID)
		student, note = st, n
		return b, err
	})
	if err != nil {
		return StudentResult{}, err
	}
	stats.Add("adds", 1)
	s.emit(ctx, note)
	s.reindex(ctx, next, student.ID)
	return StudentResult{Board: next, Student: student, Notification: note}, nil
}

func (s *Service) UpdateStudent(ctx context.Context, id string, rec entity.Student) (StudentResult, error) {
	var note *board.Notification
	_, next, err := s.Store.Apply(ctx, func(cur *entity.Board) (*entity.Board, error) {
		b, n, err := board.UpdateStudent(cur, id, rec)
		note = n
		return b, err
	})
	if err != nil {
		return StudentResult{}, err
	}
	stats.Add("updates", 1)
	s.emit(ctx, note)
	s.reindex(ctx, next, id)
	updated, _ := next.Student(id)
	return StudentResult{Board: next, Student: updated, Notification: note}, nil
}

func (s *Service) GetStudent(ctx context.Context, id string) (StudentLocation, error) {
	b := s.Store.Current(ctx)
	st, ok := b.Student(id)
	if !ok {
		return StudentLocation{}, ErrStudentNotFound
	}
	col, idx, _ := b.Locate(id)
	return StudentLocation{Student: st, ColumnID: col, Index: idx}, nil
}

// SearchStudents queries the search index when one is configured and
// resolves hits against the current snapshot. Without an index, or when the
// index fails, it falls back to a case-insensitive scan of the snapshot.
func (s *Service) SearchStudents(ctx context.Context, q string, size int) ([]entity.Student, error) {
	switch {
	case size <= 0:
		size = 10
	case size > 50:
		size = 50
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return []entity.Student{}, nil
	}
	b := s.Store.Current(ctx)

	if s.Index != nil {
		ids, err := s.Index.SearchStudents(ctx, q, size)
		if err == nil {
			out := make([]entity.Student, 0, len(ids))
			for _, id := range ids {
				if st, ok := b.Student(id); ok {
					out = append(out, st)
				}
			}
			return out, nil
		}
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("q", q).Warn("search index failed, scanning snapshot")
		}
	}
	return scan(b, q, size), nil
}

func scan(b *entity.Board, q string, size int) []entity.Student {
	needle := strings.ToLower(q)
	out := make([]entity.Student, 0)
	for _, st := range b.Students {
		if strings.Contains(strings.ToLower(st.Name), needle) ||
			strings.Contains(strings.ToLower(st.Email), needle) ||
			strings.Contains(strings.ToLower(st.Contact), needle) {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > size {
		out = out[:size]
	}
	return out
}

// IndexBoard mirrors every student of the current snapshot into the search
// index, after pruning documents left by earlier runs when the index
// supports it. Failures are logged; the first one is returned.
func (s *Service) IndexBoard(ctx context.Context) error {
	if s.Index == nil {
		return nil
	}
	b := s.Store.Current(ctx)
	ids := make([]string, 0, len(b.Students))
	for id := range b.Students {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var first error
	fail := func(err error, msg string, fields logrus.Fields) {
		if s.Logger != nil {
			s.Logger.WithError(err).WithFields(fields).Warn(msg)
		}
		if first == nil {
			first = err
		}
	}
	if p, ok := s.Index.(StudentPruner); ok {
		if err := p.PruneStudents(ctx, ids); err != nil {
			fail(err, "es prune failed", logrus.Fields{"keep": len(ids)})
		}
	}
	for _, id := range ids {
		col, _, _ := b.Locate(id)
		if err := s.Index.IndexStudent(ctx, b.Students[id], col); err != nil {
			fail(err, "es index failed", logrus.Fields{"student_id": id})
		}
	}
	return first
}

func (s *Service) emit(ctx context.Context, n *board.Notification) {
	if n == nil {
		return
	}
	stats.Add("notifications", 1)
	if s.Notifier != nil {
		s.Notifier.Notify(ctx, *n)
	}
}

func (s *Service) reindex(ctx context.Context, b *entity.Board, id string) {
	if s.Index == nil {
		return
	}
	st, ok := b.Student(id)
	if !ok {
		return
	}
	col, _, _ := b.Locate(id)
	if err := s.Index.IndexStudent(ctx, st, col); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("student_id", id).Warn("es index failed")
	}
}

// IsNotFound reports whether err means a referenced student or column does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, board.ErrStudentNotFound) || errors.Is(err, board.ErrColumnNotFound)
}

// IsUnprocessable reports whether err is a rejected move or draft.
func IsUnprocessable(err error) bool {
	return errors.Is(err, board.ErrIndexOutOfRange) ||
		errors.Is(err, board.ErrStudentNotAtIndex) ||
		errors.Is(err, board.ErrInvalidDraft) ||
		errors.Is(err, board.ErrNoColumns)
}
