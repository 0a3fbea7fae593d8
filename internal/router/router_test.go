package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/student-onboarding-board/config"
	"github.com/oksasatya/student-onboarding-board/internal/container"
	"github.com/oksasatya/student-onboarding-board/internal/infrastructure/memory"
	"github.com/oksasatya/student-onboarding-board/internal/interface/middleware"
	"github.com/oksasatya/student-onboarding-board/internal/seed"
	"github.com/oksasatya/student-onboarding-board/pkg/helpers"
	"github.com/oksasatya/student-onboarding-board/pkg/validation"
)

func newEngine(t *testing.T, cfg *config.Config, rdb *redis.Client) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	container.SetConfig(cfg)
	container.SetLogger(helpers.NewDiscardLogger())
	container.SetRedis(rdb)
	container.SetBoardStore(memory.NewBoardStore(seed.Default()))
	t.Cleanup(func() {
		container.SetES(nil)
		container.SetConfig(nil)
		container.SetRedis(nil)
		container.SetBoardStore(nil)
	})

	r := gin.New()
	reg := NewRegistry(r)
	reg.Use(middleware.RealIP())
	InitModules(reg)
	reg.RegisterAll()
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestInitModulesRoutes(t *testing.T) {
	r := newEngine(t, &config.Config{RateLimitPerMin: 300, DebugMetricsEnabled: true, ESStudentsIndex: "students"}, nil)

	w := get(r, "/api/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"disabled"`)

	assert.Equal(t, http.StatusOK, get(r, "/api/board").Code)
	assert.Equal(t, http.StatusOK, get(r, "/api/students/student-1").Code)
	assert.Equal(t, http.StatusOK, get(r, "/api/students/search?q=doe").Code)

	w = get(r, "/api/debug/vars")
	require.Equal(t, http.StatusOK, w.Code)
	var vars map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &vars))
	assert.Contains(t, vars, "board")
}

func TestDebugVarsDisabled(t *testing.T) {
	r := newEngine(t, &config.Config{RateLimitPerMin: 300}, nil)
	assert.Equal(t, http.StatusNotFound, get(r, "/api/debug/vars").Code)
}

func TestBoardRoutesRateLimited(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := newEngine(t, &config.Config{RateLimitPerMin: 2}, rdb)

	assert.Equal(t, http.StatusOK, get(r, "/api/board").Code)
	assert.Equal(t, http.StatusOK, get(r, "/api/board").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "/api/board").Code)

	w := get(r, "/api/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"ok"`)
}

func TestUnknownRouteEnvelope(t *testing.T) {
	r := newEngine(t, &config.Config{}, nil)
	w := get(r, "/api/nope")
	require.Equal(t, http.StatusNotFound, w.Code)

	var env struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "route not found", env.Message)
}

func TestInitModulesIndexesStartingBoard(t *testing.T) {
	var (
		mu      sync.Mutex
		indexed []string
		pruned  int
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		switch {
		case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/students/_doc/"):
			indexed = append(indexed, strings.TrimPrefix(r.URL.Path, "/students/_doc/"))
		case strings.HasSuffix(r.URL.Path, "/_delete_by_query"):
			pruned++
		}
		mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	container.SetES(es)

	newEngine(t, &config.Config{ESStudentsIndex: "students"}, nil)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, pruned)
	assert.Len(t, indexed, 12)
	assert.Contains(t, indexed, "student-2")
}
