package handlers_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todosync/internal/models"
	"todosync/internal/services"
)

// session registers a user and returns a valid jwt cookie for it.
func (e *testEnv) session(t *testing.T, email string) (*models.User, *http.Cookie) {
	t.Helper()
	e.register(t, email, "Passw0rd!")

	user, err := e.users.GetByEmail(email)
	require.NoError(t, err)

	authSvc := services.NewAuthService("test-secret", time.Hour)
	token, err := authSvc.SignToken(user.ID)
	require.NoError(t, err)
	return user, &http.Cookie{Name: "jwt", Value: token}
}

func TestCreateTaskDefaultsAndValidation(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.session(t, "alice@x.com")

	w := env.do(t, http.MethodPost, "/task", map[string]any{"title": "buy milk"}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code) // description required

	w = env.do(t, http.MethodPost, "/task", map[string]any{
		"title": "buy milk", "description": "2 liters", "status": "bogus",
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/task", map[string]any{
		"title": "buy milk", "description": "2 liters", "dueDate": "tomorrow",
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/task", map[string]any{
		"title": "buy milk", "description": "2 liters",
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	task := body["task"].(map[string]any)
	assert.Equal(t, "pending", task["status"])
	assert.Equal(t, "low", task["priority"])
}

func TestTaskListIsScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	_, alice := env.session(t, "alice@x.com")
	_, bob := env.session(t, "bob@x.com")

	w := env.do(t, http.MethodPost, "/task", map[string]any{
		"title": "alice task", "description": "hers",
	}, alice)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/tasks", nil, bob)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(0), body["results"])

	w = env.do(t, http.MethodGet, "/tasks", nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["results"])
}

func TestGetTaskByID(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.session(t, "alice@x.com")

	w := env.do(t, http.MethodPost, "/task", map[string]any{
		"title": "buy milk", "description": "2 liters",
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBody(t, w)["task"].(map[string]any)["id"].(float64)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/task/%d", int64(id)), nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/task/9999", nil, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No task found with that ID", decodeBody(t, w)["message"])

	w = env.do(t, http.MethodGet, "/task/abc", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTaskPatchesOnlyProvidedFields(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.session(t, "alice@x.com")

	w := env.do(t, http.MethodPost, "/task", map[string]any{
		"title": "buy milk", "description": "2 liters", "priority": "high",
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	id := int64(decodeBody(t, w)["task"].(map[string]any)["id"].(float64))

	w = env.do(t, http.MethodPatch, fmt.Sprintf("/task/%d", id), map[string]any{
		"status": "completed",
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	task := decodeBody(t, w)["task"].(map[string]any)
	assert.Equal(t, "completed", task["status"])
	assert.Equal(t, "buy milk", task["title"])
	assert.Equal(t, "high", task["priority"])
}

func TestUpdateTaskRejectsBadValues(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.session(t, "alice@x.com")

	w := env.do(t, http.MethodPost, "/task", map[string]any{
		"title": "buy milk", "description": "2 liters",
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	id := int64(decodeBody(t, w)["task"].(map[string]any)["id"].(float64))

	w = env.do(t, http.MethodPatch, fmt.Sprintf("/task/%d", id), map[string]any{
		"dueDate": "not-a-date",
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid due date format", decodeBody(t, w)["message"])

	w = env.do(t, http.MethodPatch, fmt.Sprintf("/task/%d", id), map[string]any{
		"priority": "urgent",
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteTask(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.session(t, "alice@x.com")

	w := env.do(t, http.MethodPost, "/task", map[string]any{
		"title": "buy milk", "description": "2 liters",
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	id := int64(decodeBody(t, w)["task"].(map[string]any)["id"].(float64))

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/task/%d", id), nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Task deleted", decodeBody(t, w)["message"])
	assert.Equal(t, 0, env.tasks.Count())

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/task/%d", id), nil, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskMutationsSurviveCalendarOutage(t *testing.T) {
	env := newTestEnv(t)
	user, cookie := env.session(t, "alice@x.com")

	// пользователь с привязанным Google-аккаунтом
	require.NoError(t, env.users.UpdateGoogleLink(user.ID, "g-1", "at", "rt"))

	env.calendar.CreateFunc = func(u *models.User, task *models.Task) (string, error) {
		return "", errors.New("calendar unavailable")
	}

	w := env.do(t, http.MethodPost, "/task", map[string]any{
		"title": "buy milk", "description": "2 liters",
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 1, env.tasks.Count())

	raw, err := json.Marshal(decodeBody(t, w)["task"])
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "evt-")
}
