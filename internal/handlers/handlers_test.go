package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/taskmate-dev/taskmate/db"
	"github.com/taskmate-dev/taskmate/internal/auth"
	"github.com/taskmate-dev/taskmate/internal/router"
	"github.com/taskmate-dev/taskmate/internal/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type taskEnvelope struct {
	Task types.TaskResponse `json:"task"`
}

// setupRouter wires the full router against a fresh in-memory database.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret-do-not-use")
	t.Setenv("TEMPLATES_GLOB", "../../web/templates/*.html")

	require.NoError(t, auth.InitJWTSecret())

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	db.DB = testDB
	require.NoError(t, db.MigrateDatabase())

	return router.NewRouter()
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func registerUser(t *testing.T, r *gin.Engine, name, email string) string {
	t.Helper()

	body := fmt.Sprintf(`{"name":%q,"email":%q,"password":"password123"}`, name, email)
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", body, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "token" && cookie.Value != "" {
			return cookie.Value
		}
	}

	t.Fatal("register response carried no session cookie")
	return ""
}

func createTask(t *testing.T, r *gin.Engine, token, body string) types.TaskResponse {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/tasks", body, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var envelope taskEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))

	return envelope.Task
}

func listTasks(t *testing.T, r *gin.Engine, token, query string) []types.TaskResponse {
	t.Helper()

	w := doJSON(t, r, http.MethodGet, "/api/tasks"+query, "", token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var tasks []types.TaskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))

	return tasks
}
