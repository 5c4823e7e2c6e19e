package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"pixeltrader/internal/controller"
	"pixeltrader/internal/repo"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupRepo(t *testing.T) *repo.Repository {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	r, err := repo.New(db)
	require.NoError(t, err)
	require.NoError(t, r.Migrate())
	return r
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		err  error
	}{
		{"no engine", []Option{WithRepository(&repo.Repository{})}, ErrNilEngine},
		{"no repository", []Option{WithEngine(gin.New())}, ErrNilRepository},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func routeSet(engine *gin.Engine) map[string]bool {
	set := make(map[string]bool)
	for _, r := range engine.Routes() {
		set[r.Method+" "+r.Path] = true
	}
	return set
}

func TestSetup_RegistersRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	h, err := New(
		WithEngine(engine),
		WithRepository(setupRepo(t)),
		WithPriceHub(controller.NewHub()),
		WithSwagger(),
	)
	require.NoError(t, err)
	require.NoError(t, h.Setup())

	routes := routeSet(engine)
	for _, want := range []string{
		"GET /api/assets",
		"POST /api/assets",
		"DELETE /api/assets/:id",
		"POST /api/assets/:id/transactions",
		"GET /api/assets/:id/position",
		"POST /api/assets/:id/projection",
		"POST /api/assets/:id/import",
		"GET /api/imports/:id",
		"GET /api/portfolio/stress",
		"GET /api/market/quotes",
		"PUT /api/market/favorites/:symbol",
		"POST /api/market/:symbol/details",
		"GET /api/prices/stream",
		"GET /api/prices/:symbol",
		"POST /api/tools/ruin",
		"POST /api/sync/push",
		"POST /api/backup/pull",
		"GET /swagger/*any",
	} {
		assert.True(t, routes[want], want)
	}
}

func TestSetup_OptionalRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	h, err := New(WithEngine(engine), WithRepository(setupRepo(t)))
	require.NoError(t, err)
	require.NoError(t, h.Setup())

	routes := routeSet(engine)
	assert.False(t, routes["GET /api/prices/stream"])
	assert.False(t, routes["GET /swagger/*any"])
}

func TestSetup_ServesRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	h, err := New(WithEngine(engine), WithRepository(setupRepo(t)))
	require.NoError(t, err)
	require.NoError(t, h.Setup())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/assets", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/market/status", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"idle","symbols":0}`, w.Body.String())
}
