package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskflow-api/internal/auth"
	"taskflow-api/internal/middleware"
	"taskflow-api/internal/models"
	"taskflow-api/internal/tasks"
	"taskflow-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	testutil.SeedUsers(t, db,
		models.User{ID: "a1", Name: "Alice Admin", Email: "alice@example.com", Password: "x", Role: models.RoleAdmin},
		models.User{ID: "u2", Name: "Bob", Email: "bob@example.com", Password: "x", Role: models.RoleTeamMember},
		models.User{ID: "u3", Name: "Carol", Email: "carol@example.com", Password: "x", Role: models.RoleTeamMember},
	)
	Init(tasks.NewService(db, nil), nil)

	r := gin.New()
	api := r.Group("/api")
	api.Use(middleware.JWTAuthMiddleware())
	api.GET("/tasks", GetTasks)
	api.GET("/tasks/:id", GetTask)
	api.POST("/tasks", CreateTask)
	api.PUT("/tasks/:id", UpdateTask)
	api.POST("/tasks/:id/timer/start", StartTimer)
	api.POST("/tasks/:id/timer/stop", StopTimer)
	return r
}

func tokenFor(t *testing.T, id, name string, role models.UserRole) string {
	t.Helper()
	token, err := auth.GenerateToken(&models.User{ID: id, Name: name, Role: role})
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateTask_Success(t *testing.T) {
	r := setupRouter(t)
	adminToken := tokenFor(t, "a1", "Alice Admin", models.RoleAdmin)

	w := doJSON(t, r, http.MethodPost, "/api/tasks", adminToken, map[string]any{
		"title":     "Design logo",
		"priority":  "high",
		"assignees": []string{"u2"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool        `json:"success"`
		Data    models.Task `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, models.StatusTodo, resp.Data.Status)
	require.Zero(t, resp.Data.TimeSpent)
	require.Equal(t, "u2", resp.Data.Assignee)
}

func TestCreateTask_UnknownAssignee(t *testing.T) {
	r := setupRouter(t)
	adminToken := tokenFor(t, "a1", "Alice Admin", models.RoleAdmin)

	w := doJSON(t, r, http.MethodPost, "/api/tasks", adminToken, map[string]any{
		"title":     "Broken",
		"assignees": []string{"ghost"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Success bool              `json:"success"`
		Errors  map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.Contains(t, resp.Errors, "assignees")
}

func TestGetTask_ForbiddenForOutsider(t *testing.T) {
	r := setupRouter(t)
	adminToken := tokenFor(t, "a1", "Alice Admin", models.RoleAdmin)

	w := doJSON(t, r, http.MethodPost, "/api/tasks", adminToken, map[string]any{
		"title":     "Private",
		"assignees": []string{"u2"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Data models.Task `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	outsiderToken := tokenFor(t, "u3", "Carol", models.RoleTeamMember)
	w = doJSON(t, r, http.MethodGet, "/api/tasks/"+created.Data.ID, outsiderToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestTimer_StartConflictAndStopDuration(t *testing.T) {
	r := setupRouter(t)
	adminToken := tokenFor(t, "a1", "Alice Admin", models.RoleAdmin)
	memberToken := tokenFor(t, "u2", "Bob", models.RoleTeamMember)

	w := doJSON(t, r, http.MethodPost, "/api/tasks", adminToken, map[string]any{
		"title":     "Tracked",
		"assignees": []string{"u2"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Data models.Task `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	taskID := created.Data.ID

	w = doJSON(t, r, http.MethodPost, "/api/tasks/"+taskID+"/timer/start", memberToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var started struct {
		Data models.Task `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &started))
	require.True(t, started.Data.IsTimerRunning)
	require.Equal(t, "u2", started.Data.TimerStartedBy)

	// a second start, even by an admin, reports the conflict
	w = doJSON(t, r, http.MethodPost, "/api/tasks/"+taskID+"/timer/start", adminToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var conflict struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &conflict))
	require.Equal(t, "Timer is already running", conflict.Message)

	w = doJSON(t, r, http.MethodPost, "/api/tasks/"+taskID+"/timer/stop", memberToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stopped struct {
		Data            models.Task `json:"data"`
		SessionDuration *int        `json:"sessionDuration"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stopped))
	require.NotNil(t, stopped.SessionDuration)
	require.False(t, stopped.Data.IsTimerRunning)
	require.Len(t, stopped.Data.WorkSessions, 1)

	w = doJSON(t, r, http.MethodPost, "/api/tasks/"+taskID+"/timer/stop", memberToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTask_TeamMemberPriorityRejected(t *testing.T) {
	r := setupRouter(t)
	adminToken := tokenFor(t, "a1", "Alice Admin", models.RoleAdmin)
	memberToken := tokenFor(t, "u2", "Bob", models.RoleTeamMember)

	w := doJSON(t, r, http.MethodPost, "/api/tasks", adminToken, map[string]any{
		"title":     "Guarded",
		"assignees": []string{"u2"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Data models.Task `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, r, http.MethodPut, "/api/tasks/"+created.Data.ID, memberToken, map[string]any{
		"priority": "low",
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/tasks/"+created.Data.ID, memberToken, map[string]any{
		"status": "in-progress",
	})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestGetTasks_PaginationEnvelope(t *testing.T) {
	r := setupRouter(t)
	adminToken := tokenFor(t, "a1", "Alice Admin", models.RoleAdmin)

	for _, title := range []string{"one", "two", "three"} {
		w := doJSON(t, r, http.MethodPost, "/api/tasks", adminToken, map[string]any{"title": title})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/tasks?page=1&limit=2", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success    bool          `json:"success"`
		Data       []models.Task `json:"data"`
		Pagination Pagination    `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Len(t, resp.Data, 2)
	require.Equal(t, 3, resp.Pagination.Total)
	require.Equal(t, 2, resp.Pagination.Pages)
	require.Equal(t, 2, resp.Pagination.Limit)
}
