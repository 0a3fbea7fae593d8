package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/oksasatya/student-onboarding-board/internal/domain/entity"
	"github.com/oksasatya/student-onboarding-board/internal/domain/repository"
)

var errNilBoard = errors.New("transition returned nil board")

// BoardStore keeps the current snapshot in process memory. It is reset to the
// seed on every start.
type BoardStore struct {
	mu      sync.Mutex
	current *entity.Board
}

func NewBoardStore(seed *entity.Board) *BoardStore {
	return &BoardStore{current: seed}
}

func (s *BoardStore) Current(ctx context.Context) *entity.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *BoardStore) Apply(ctx context.Context, fn repository.TransitionFunc) (*entity.Board, *entity.Board, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.current
	next, err := fn(prev)
	if err != nil {
		return prev, prev, err
	}
	if next == nil {
		return prev, prev, errNilBoard
	}
	s.current = next
	return prev, next, nil
}

var _ repository.BoardStore = (*BoardStore)(nil)
