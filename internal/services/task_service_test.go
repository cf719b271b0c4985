package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todosync/internal/mocks"
	"todosync/internal/models"
	"todosync/internal/services"
)

func linkedUser() *models.User {
	gid, at, rt := "g-1", "at", "rt"
	return &models.User{ID: 1, Email: "alice@x.com", GoogleID: &gid, AccessToken: &at, RefreshToken: &rt}
}

func TestCreateAppliesDefaultsAndOwner(t *testing.T) {
	repo := mocks.NewMockTaskRepository()
	svc := services.NewTaskService(repo, nil)

	task, err := svc.Create(context.Background(), &models.User{ID: 7}, &models.Task{Title: "buy milk"})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, task.Status)
	assert.Equal(t, models.PriorityLow, task.Priority)
	assert.Equal(t, 7, task.UserID)
	assert.NotZero(t, task.ID)
}

func TestCreateSyncsLinkedUserToCalendar(t *testing.T) {
	repo := mocks.NewMockTaskRepository()
	cal := mocks.NewMockCalendarService()
	svc := services.NewTaskService(repo, cal)

	task, err := svc.Create(context.Background(), linkedUser(), &models.Task{Title: "buy milk"})
	require.NoError(t, err)

	require.NotNil(t, task.GoogleEventID)
	assert.Equal(t, "evt-1", *task.GoogleEventID)

	stored, err := repo.FindByID(context.Background(), task.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.GoogleEventID)
	assert.Equal(t, "evt-1", *stored.GoogleEventID)
}

func TestCreateSkipsCalendarForUnlinkedUser(t *testing.T) {
	repo := mocks.NewMockTaskRepository()
	cal := mocks.NewMockCalendarService()
	svc := services.NewTaskService(repo, cal)

	task, err := svc.Create(context.Background(), &models.User{ID: 7}, &models.Task{Title: "buy milk"})
	require.NoError(t, err)

	assert.Nil(t, task.GoogleEventID)
	assert.Empty(t, cal.Created)
}

func TestCreateSucceedsWhenCalendarFails(t *testing.T) {
	repo := mocks.NewMockTaskRepository()
	cal := mocks.NewMockCalendarService()
	cal.CreateFunc = func(user *models.User, task *models.Task) (string, error) {
		return "", errors.New("quota exceeded")
	}
	svc := services.NewTaskService(repo, cal)

	task, err := svc.Create(context.Background(), linkedUser(), &models.Task{Title: "buy milk"})
	require.NoError(t, err)

	assert.Nil(t, task.GoogleEventID)
	assert.Equal(t, 1, repo.Count())
}

func TestUpdateSucceedsWhenCalendarFails(t *testing.T) {
	repo := mocks.NewMockTaskRepository()
	cal := mocks.NewMockCalendarService()
	svc := services.NewTaskService(repo, cal)

	task, err := svc.Create(context.Background(), linkedUser(), &models.Task{Title: "buy milk"})
	require.NoError(t, err)

	cal.UpdateFunc = func(user *models.User, task *models.Task) error {
		return errors.New("backend unavailable")
	}

	task.Title = "buy oat milk"
	updated, err := svc.Update(context.Background(), linkedUser(), task)
	require.NoError(t, err)
	assert.Equal(t, "buy oat milk", updated.Title)

	stored, err := repo.FindByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, "buy oat milk", stored.Title)
}

func TestUpdateSkipsCalendarWithoutEventID(t *testing.T) {
	repo := mocks.NewMockTaskRepository()
	cal := mocks.NewMockCalendarService()
	svc := services.NewTaskService(repo, cal)

	task := &models.Task{Title: "offline task", UserID: 1, Status: models.StatusPending, Priority: models.PriorityLow}
	require.NoError(t, repo.Store(context.Background(), task))

	_, err := svc.Update(context.Background(), linkedUser(), task)
	require.NoError(t, err)
	assert.Empty(t, cal.Updated)
}

func TestDeleteRemovesTaskEvenIfCalendarFails(t *testing.T) {
	repo := mocks.NewMockTaskRepository()
	cal := mocks.NewMockCalendarService()
	svc := services.NewTaskService(repo, cal)

	task, err := svc.Create(context.Background(), linkedUser(), &models.Task{Title: "buy milk"})
	require.NoError(t, err)

	cal.DeleteFunc = func(user *models.User, eventID string) error {
		return errors.New("event gone")
	}

	require.NoError(t, svc.Delete(context.Background(), linkedUser(), task))
	assert.Equal(t, 0, repo.Count())
}

func TestDeleteSyncsCalendarForLinkedUser(t *testing.T) {
	repo := mocks.NewMockTaskRepository()
	cal := mocks.NewMockCalendarService()
	svc := services.NewTaskService(repo, cal)

	task, err := svc.Create(context.Background(), linkedUser(), &models.Task{Title: "buy milk", DueDate: ptrTime(time.Now().Add(time.Hour))})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), linkedUser(), task))
	assert.Equal(t, []string{"evt-1"}, cal.Deleted)
}

func ptrTime(t time.Time) *time.Time { return &t }
