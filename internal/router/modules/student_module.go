package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/student-onboarding-board/internal/interface/http"
	"github.com/oksasatya/student-onboarding-board/internal/interface/middleware"
)

// StudentModule wires student routes under /api/students.
// search is registered before :id; gin resolves the static segment first.
type StudentModule struct {
	Handler   *handlers.StudentHandler
	Redis     *redis.Client
	PerMinute int
}

func NewStudentModule(h *handlers.StudentHandler, rdb *redis.Client, perMinute int) *StudentModule {
	return &StudentModule{Handler: h, Redis: rdb, PerMinute: perMinute}
}

func (m *StudentModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/students")
	g.Use(middleware.RateLimit(m.Redis, m.PerMinute, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()))
	{
		g.GET("/search", m.Handler.Search)
		g.GET("/:id", m.Handler.Get)

		writes := middleware.RateLimit(m.Redis, writeLimit(m.PerMinute), time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
		g.POST("", writes, m.Handler.Create)
		g.PUT("/:id", writes, m.Handler.Update)
	}
}
