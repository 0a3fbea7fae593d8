package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	boardapp "github.com/oksasatya/student-onboarding-board/internal/application"
	"github.com/oksasatya/student-onboarding-board/internal/domain/board"
	"github.com/oksasatya/student-onboarding-board/internal/domain/entity"
	"github.com/oksasatya/student-onboarding-board/pkg/helpers"
	"github.com/oksasatya/student-onboarding-board/pkg/response"
	"github.com/oksasatya/student-onboarding-board/pkg/validation"
)

type BoardHandler struct {
	Svc    *boardapp.Service
	Logger *logrus.Logger
}

func NewBoardHandler(svc *boardapp.Service, logger *logrus.Logger) *BoardHandler {
	return &BoardHandler{Svc: svc, Logger: logger}
}

type locationRequest struct {
	ColumnID string `json:"column_id" binding:"required"`
	Index    *int   `json:"index" binding:"required,position"`
}

// destination is null when the card was dropped outside every column.
type moveRequest struct {
	StudentID   string           `json:"student_id" binding:"required"`
	Source      locationRequest  `json:"source"`
	Destination *locationRequest `json:"destination"`
}

type boardView struct {
	ColumnOrder   []string      `json:"column_order"`
	Lanes         []entity.Lane `json:"lanes"`
	TotalStudents int           `json:"total_students"`
}

type moveView struct {
	Changed      bool                `json:"changed"`
	Notification *board.Notification `json:"notification,omitempty"`
	Board        boardView           `json:"board"`
}

func toBoardView(b *entity.Board) boardView {
	return boardView{ColumnOrder: b.ColumnOrder, Lanes: b.Lanes(), TotalStudents: len(b.Students)}
}

func (r moveRequest) toDrop() board.Drop {
	d := board.Drop{
		StudentID: r.StudentID,
		Source:    board.Location{ColumnID: r.Source.ColumnID, Index: *r.Source.Index},
	}
	if r.Destination != nil {
		d.Destination = &board.Location{ColumnID: r.Destination.ColumnID, Index: *r.Destination.Index}
	}
	return d
}

// GetBoard GET /api/board
func (h *BoardHandler) GetBoard(c *gin.Context) {
	b := h.Svc.Board(c.Request.Context())
	response.Success(c, http.StatusOK, toBoardView(b), "board", nil)
}

// Move POST /api/board/moves
func (h *BoardHandler) Move(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.Move(c.Request.Context(), req.toDrop())
	if err != nil {
		writeDomainError(c, h.Logger, err)
		return
	}

	msg := "no change"
	switch {
	case res.Notification != nil:
		msg = res.Notification.Message
	case res.Changed:
		msg = "student reordered"
	}
	response.Success(c, http.StatusOK, moveView{
		Changed:      res.Changed,
		Notification: res.Notification,
		Board:        toBoardView(res.Board),
	}, msg, nil)
}

// writeDomainError maps service errors onto HTTP statuses.
func writeDomainError(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case boardapp.IsNotFound(err):
		response.Error[any](c, http.StatusNotFound, err.Error(), nil)
	case boardapp.IsUnprocessable(err):
		response.Error[any](c, http.StatusUnprocessableEntity, err.Error(), nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		response.Error[any](c, http.StatusServiceUnavailable, "request cancelled", nil)
	default:
		helpers.LogError(logger, "board operation failed", err, logrus.Fields{"request_id": c.GetString("request_id")})
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}
