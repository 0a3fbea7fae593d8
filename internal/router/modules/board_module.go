package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/student-onboarding-board/internal/interface/http"
	"github.com/oksasatya/student-onboarding-board/internal/interface/middleware"
)

// BoardModule wires the board handlers:
// GET /api/board, POST /api/board/moves
type BoardModule struct {
	Handler   *handlers.BoardHandler
	Redis     *redis.Client
	PerMinute int
}

func NewBoardModule(h *handlers.BoardHandler, rdb *redis.Client, perMinute int) *BoardModule {
	return &BoardModule{Handler: h, Redis: rdb, PerMinute: perMinute}
}

func (m *BoardModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/board")
	g.Use(middleware.RateLimit(m.Redis, m.PerMinute, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()))
	{
		g.GET("", m.Handler.GetBoard)
		// writes get their own, tighter bucket per path
		g.POST("/moves",
			middleware.RateLimit(m.Redis, writeLimit(m.PerMinute), time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP()),
			m.Handler.Move,
		)
	}
}

// writeLimit is a third of the read budget, never below one.
func writeLimit(perMinute int) int {
	if perMinute <= 0 {
		return 0
	}
	if n := perMinute / 3; n > 0 {
		return n
	}
	return 1
}
