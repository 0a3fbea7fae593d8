package repository

import (
	"context"

	"github.com/oksasatya/student-onboarding-board/internal/domain/entity"
)

// TransitionFunc computes the next snapshot from the current one. Returning
// the same pointer, or an error, leaves the stored snapshot in place.
type TransitionFunc func(current *entity.Board) (*entity.Board, error)

// BoardStore holds the current board snapshot for the running process.
type BoardStore interface {
	Current(ctx context.Context) *entity.Board
	// Apply runs fn against the current snapshot and stores its result.
	// Calls are serialised so transitions apply in arrival order.
	Apply(ctx context.Context, fn TransitionFunc) (prev, next *entity.Board, err error)
}
