package modules

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/student-onboarding-board/pkg/helpers"
	"github.com/oksasatya/student-onboarding-board/pkg/response"
)

type HealthModule struct {
	Redis *redis.Client
}

func NewHealthModule(rdb *redis.Client) *HealthModule { return &HealthModule{Redis: rdb} }

type health struct {
	Status string `json:"status"`
	Redis  string `json:"redis"`
}

// Register adds GET /api/healthz. The service stays live without Redis, so a
// failed ping is reported but does not change the status code.
func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", func(c *gin.Context) {
		h := health{Status: "ok", Redis: "disabled"}
		if m.Redis != nil {
			h.Redis = "ok"
			if err := helpers.PingRedis(c.Request.Context(), m.Redis); err != nil {
				h.Redis = "unavailable"
			}
		}
		response.Success(c, http.StatusOK, h, "healthy", nil)
	})
}
