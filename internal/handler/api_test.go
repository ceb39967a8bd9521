package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goaltracker/internal/db"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) (*API, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return NewAPI(gdb, zaptest.NewLogger(t)), func() {
		sqlDB.Close()
	}
}

// newJSONContext 构造带 JSON 请求体的测试上下文
func newJSONContext(t *testing.T, method, path string, payload any, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var body *bytes.Reader
	switch v := payload.(type) {
	case nil:
		body = bytes.NewReader(nil)
	case string:
		body = bytes.NewReader([]byte(v))
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = params
	return c, w
}

func idParams(key string, id uint) gin.Params {
	return gin.Params{gin.Param{Key: key, Value: fmt.Sprint(id)}}
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestWelcomeAndHealth(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	c, w := newJSONContext(t, http.MethodGet, "/", nil, nil)
	api.Welcome(c)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Welcome to Goal Tracker API") {
		t.Fatalf("unexpected welcome response: %d %s", w.Code, w.Body.String())
	}

	c, w = newJSONContext(t, http.MethodGet, "/health", nil, nil)
	api.Health(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if got := decodeBody[map[string]string](t, w); got["status"] != "healthy" {
		t.Fatalf("unexpected health body: %v", got)
	}
}

func TestInvalidIDParam(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	c, w := newJSONContext(t, http.MethodGet, "/api/goals/abc", nil, gin.Params{gin.Param{Key: "id", Value: "abc"}})
	api.GetGoal(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if got := decodeBody[map[string]string](t, w); got["error"] != "invalid id" {
		t.Fatalf("unexpected error body: %v", got)
	}
}

func TestMalformedJSONIsBadRequest(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	c, w := newJSONContext(t, http.MethodPost, "/api/goals", "{not json", nil)
	api.CreateGoal(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}
