package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetTask(t *testing.T) {
	r := setupRouter(t)
	token := registerUser(t, r, "Alice", "alice@example.com")

	task := createTask(t, r, token, `{"title":"Buy milk","priority":"low"}`)

	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, "low", task.Priority)
	assert.False(t, task.Completed)
	assert.Nil(t, task.CompletedAt)
	assert.Nil(t, task.Category)
	assert.NotEmpty(t, task.CreatedAt)

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), "", token)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope taskEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, task.ID, envelope.Task.ID)
	assert.Equal(t, "Buy milk", envelope.Task.Title)
}

func TestCreateTaskRequiresTitle(t *testing.T) {
	r := setupRouter(t)
	token := registerUser(t, r, "Alice", "alice@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/tasks", `{"description":"no title"}`, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/tasks", `{"title":"   "}`, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, listTasks(t, r, token, ""))
}

func TestCreateTaskDefaultsPriorityToMedium(t *testing.T) {
	r := setupRouter(t)
	token := registerUser(t, r, "Alice", "alice@example.com")

	task := createTask(t, r, token, `{"title":"Defaults"}`)
	assert.Equal(t, "medium", task.Priority)
}

func TestCreateTaskRejectsInvalidPriority(t *testing.T) {
	r := setupRouter(t)
	token := registerUser(t, r, "Alice", "alice@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/tasks", `{"title":"Bad","priority":"urgent"}`, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompletionTogglesCompletedAt(t *testing.T) {
	r := setupRouter(t)
	token := registerUser(t, r, "Alice", "alice@example.com")

	task := createTask(t, r, token, `{"title":"Buy milk"}`)
	path := fmt.Sprintf("/api/tasks/%d", task.ID)

	w := doJSON(t, r, http.MethodPut, path, `{"completed":true}`, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope taskEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Task.Completed)
	require.NotNil(t, envelope.Task.CompletedAt)
	completedAt := *envelope.Task.CompletedAt

	// Completing an already-completed task keeps the original timestamp.
	w = doJSON(t, r, http.MethodPut, path, `{"completed":true}`, token)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Task.CompletedAt)
	assert.Equal(t, completedAt, *envelope.Task.CompletedAt)

	w = doJSON(t, r, http.MethodPut, path, `{"completed":false}`, token)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.False(t, envelope.Task.Completed)
	assert.Nil(t, envelope.Task.CompletedAt)
}

func TestUpdatePreservesUnspecifiedFields(t *testing.T) {
	r := setupRouter(t)
	token := registerUser(t, r, "Alice", "alice@example.com")

	task := createTask(t, r, token,
		`{"title":"Original","description":"keep me","priority":"high","dueDate":"2026-10-01"}`)
	path := fmt.Sprintf("/api/tasks/%d", task.ID)

	w := doJSON(t, r, http.MethodPut, path, `{"title":"Renamed"}`, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope taskEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "Renamed", envelope.Task.Title)
	assert.Equal(t, "keep me", envelope.Task.Description)
	assert.Equal(t, "high", envelope.Task.Priority)
	require.NotNil(t, envelope.Task.DueDate)
	assert.Contains(t, *envelope.Task.DueDate, "2026-10-01")
}

func TestUpdateClearsDueDateAndCategory(t *testing.T) {
	r := setupRouter(t)
	token := registerUser(t, r, "Alice", "alice@example.com")

	categories := listCategories(t, r, token)
	require.NotEmpty(t, categories)

	body := fmt.Sprintf(`{"title":"Chore","dueDate":"2026-10-01","categoryId":%d}`, categories[0].ID)
	task := createTask(t, r, token, body)
	require.NotNil(t, task.CategoryID)
	require.NotNil(t, task.DueDate)

	path := fmt.Sprintf("/api/tasks/%d", task.ID)
	w := doJSON(t, r, http.MethodPut, path, `{"dueDate":"","categoryId":0}`, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope taskEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Nil(t, envelope.Task.DueDate)
	assert.Nil(t, envelope.Task.CategoryID)
	assert.Nil(t, envelope.Task.Category)
}

func TestUpdateRejectsEmptyTitle(t *testing.T) {
	r := setupRouter(t)
	token := registerUser(t, r, "Alice", "alice@example.com")

	task := createTask(t, r, token, `{"title":"Keep"}`)

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/tasks/%d", task.ID), `{"title":""}`, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteTask(t *testing.T) {
	r := setupRouter(t)
	token := registerUser(t, r, "Alice", "alice@example.com")

	task := createTask(t, r, token, `{"title":"Ephemeral"}`)
	path := fmt.Sprintf("/api/tasks/%d", task.ID)

	w := doJSON(t, r, http.MethodDelete, path, "", token)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]bool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body["success"])

	w = doJSON(t, r, http.MethodGet, path, "", token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Deleting twice is not a silent success.
	w = doJSON(t, r, http.MethodDelete, path, "", token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListStatusFilter(t *testing.T) {
	r := setupRouter(t)
	token := registerUser(t, r, "Alice", "alice@example.com")

	createTask(t, r, token, `{"title":"Open one"}`)
	done := createTask(t, r, token, `{"title":"Done one"}`)

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/tasks/%d", done.ID), `{"completed":true}`, token)
	require.Equal(t, http.StatusOK, w.Code)

	active := listTasks(t, r, token, "?status=active")
	require.Len(t, active, 1)
	assert.Equal(t, "Open one", active[0].Title)

	completed := listTasks(t, r, token, "?status=completed")
	require.Len(t, completed, 1)
	assert.Equal(t, "Done one", completed[0].Title)

	assert.Len(t, listTasks(t, r, token, ""), 2)
}

func TestListPriorityFilter(t *testing.T) {
	r := setupRouter(t)
	token := registerUser(t, r, "Alice", "alice@example.com")

	createTask(t, r, token, `{"title":"Low","priority":"low"}`)
	createTask(t, r, token, `{"title":"High","priority":"high"}`)

	high := listTasks(t, r, token, "?priority=high")
	require.Len(t, high, 1)
	assert.Equal(t, "High", high[0].Title)

	assert.Len(t, listTasks(t, r, token, "?priority=all"), 2)
}

func TestListSearchFilter(t *testing.T) {
	r := setupRouter(t)
	token := registerUser(t, r, "Alice", "alice@example.com")

	createTask(t, r, token, `{"title":"Buy groceries"}`)
	createTask(t, r, token, `{"title":"Walk the dog","description":"around the GROCERY store"}`)
	createTask(t, r, token, `{"title":"Read a book"}`)

	matches := listTasks(t, r, token, "?search=grocer")
	assert.Len(t, matches, 2)

	assert.Empty(t, listTasks(t, r, token, "?search=nonexistent"))
}

func TestListSorting(t *testing.T) {
	r := setupRouter(t)
	token := registerUser(t, r, "Alice", "alice@example.com")

	createTask(t, r, token, `{"title":"banana"}`)
	createTask(t, r, token, `{"title":"apple"}`)
	createTask(t, r, token, `{"title":"cherry"}`)

	sorted := listTasks(t, r, token, "?sortBy=title&sortOrder=asc")
	require.Len(t, sorted, 3)
	assert.Equal(t, "apple", sorted[0].Title)
	assert.Equal(t, "banana", sorted[1].Title)
	assert.Equal(t, "cherry", sorted[2].Title)
}

func TestTasksScopedToOwner(t *testing.T) {
	r := setupRouter(t)
	aliceToken := registerUser(t, r, "Alice", "alice@example.com")
	bobToken := registerUser(t, r, "Bob", "bob@example.com")

	task := createTask(t, r, aliceToken, `{"title":"Alice's secret"}`)
	path := fmt.Sprintf("/api/tasks/%d", task.ID)

	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodGet, path, "", bobToken).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodPut, path, `{"title":"Stolen"}`, bobToken).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodDelete, path, "", bobToken).Code)

	assert.Empty(t, listTasks(t, r, bobToken, ""))

	// Alice's task survived Bob's attempts untouched.
	w := doJSON(t, r, http.MethodGet, path, "", aliceToken)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope taskEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "Alice's secret", envelope.Task.Title)
}

func TestTasksRequireAuthentication(t *testing.T) {
	r := setupRouter(t)

	assert.Equal(t, http.StatusUnauthorized, doJSON(t, r, http.MethodGet, "/api/tasks", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doJSON(t, r, http.MethodPost, "/api/tasks", `{"title":"x"}`, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doJSON(t, r, http.MethodGet, "/api/tasks/1", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doJSON(t, r, http.MethodPut, "/api/tasks/1", `{}`, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doJSON(t, r, http.MethodDelete, "/api/tasks/1", "", "").Code)
}

func TestGetTaskInvalidID(t *testing.T) {
	r := setupRouter(t)
	token := registerUser(t, r, "Alice", "alice@example.com")

	w := doJSON(t, r, http.MethodGet, "/api/tasks/not-a-number", "", token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
