package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	boardapp "github.com/oksasatya/student-onboarding-board/internal/application"
	"github.com/oksasatya/student-onboarding-board/internal/domain/board"
	"github.com/oksasatya/student-onboarding-board/internal/domain/entity"
	"github.com/oksasatya/student-onboarding-board/pkg/response"
	"github.com/oksasatya/student-onboarding-board/pkg/validation"
)

type StudentHandler struct {
	Svc    *boardapp.Service
	Logger *logrus.Logger
}

func NewStudentHandler(svc *boardapp.Service, logger *logrus.Logger) *StudentHandler {
	return &StudentHandler{Svc: svc, Logger: logger}
}

// studentRequest is used for both create and update. Updates replace the
// whole record, so an omitted signature clears it.
type studentRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Contact   string `json:"contact" binding:"required"`
	Signature string `json:"signature"`
}

type studentView struct {
	entity.Student
	ColumnID string `json:"column_id"`
	Index    int    `json:"index"`
}

func locate(b *entity.Board, s entity.Student) studentView {
	col, idx, _ := b.Locate(s.ID)
	return studentView{Student: s, ColumnID: col, Index: idx}
}

// Get GET /api/students/:id
func (h *StudentHandler) Get(c *gin.Context) {
	loc, err := h.Svc.GetStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeDomainError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, studentView{Student: loc.Student, ColumnID: loc.ColumnID, Index: loc.Index}, "student", nil)
}

// Create POST /api/students
func (h *StudentHandler) Create(c *gin.Context) {
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.AddStudent(c.Request.Context(), board.Draft{
		Name:      req.Name,
		Email:     req.Email,
		Contact:   req.Contact,
		Signature: req.Signature,
	})
	if err != nil {
		writeDomainError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, locate(res.Board, res.Student), res.Notification.Message, nil)
}

// Update PUT /api/students/:id
func (h *StudentHandler) Update(c *gin.Context) {
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.UpdateStudent(c.Request.Context(), c.Param("id"), entity.Student{
		Name:      req.Name,
		Email:     req.Email,
		Contact:   req.Contact,
		Signature: req.Signature,
	})
	if err != nil {
		writeDomainError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, locate(res.Board, res.Student), res.Notification.Message, nil)
}

// Search GET /api/students/search?q=&size=
func (h *StudentHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "invalid query", map[string]string{"q": "is required"})
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	found, err := h.Svc.SearchStudents(c.Request.Context(), q, size)
	if err != nil {
		writeDomainError(c, h.Logger, err)
		return
	}
	b := h.Svc.Board(c.Request.Context())
	out := make([]studentView, 0, len(found))
	for _, s := range found {
		out = append(out, locate(b, s))
	}
	response.Success(c, http.StatusOK, out, "students", map[string]any{"count": len(out)})
}
