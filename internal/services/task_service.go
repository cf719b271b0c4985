// internal/services/task_service.go
package services

import (
	"context"
	"log"
	"time"

	"todosync/internal/models"
	"todosync/internal/repositories"
)

// TaskService defines the interface for task-related business logic.
// Calendar sync is one-way and best-effort on every path: the local
// mutation always wins, a failed sync only leaves a log line.
type TaskService interface {
	Create(ctx context.Context, user *models.User, task *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	GetAllForUser(ctx context.Context, userID int) ([]models.Task, error)
	Update(ctx context.Context, user *models.User, task *models.Task) (*models.Task, error)
	Delete(ctx context.Context, user *models.User, task *models.Task) error
}

type taskService struct {
	repo     repositories.TaskRepository
	calendar CalendarService
}

// NewTaskService creates a new instance of TaskService. calendar may be nil
// when sync is disabled.
func NewTaskService(repo repositories.TaskRepository, calendar CalendarService) TaskService {
	return &taskService{repo: repo, calendar: calendar}
}

func (s *taskService) Create(ctx context.Context, user *models.User, task *models.Task) (*models.Task, error) {
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if task.Priority == "" {
		task.Priority = models.PriorityLow
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	task.UserID = user.ID

	if err := s.repo.Store(ctx, task); err != nil {
		return nil, err
	}

	if s.calendar != nil && user.HasCalendarAccess() {
		eventID, err := s.calendar.CreateEvent(ctx, user, task)
		if err != nil {
			log.Printf("[task][create] calendar sync failed id=%d: %v", task.ID, err)
		} else if err := s.repo.UpdateEventID(ctx, task.ID, eventID); err != nil {
			log.Printf("[task][create] store event id failed id=%d: %v", task.ID, err)
		} else {
			task.GoogleEventID = &eventID
		}
	}
	return task, nil
}

func (s *taskService) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *taskService) GetAllForUser(ctx context.Context, userID int) ([]models.Task, error) {
	return s.repo.FindByUser(ctx, userID)
}

func (s *taskService) Update(ctx context.Context, user *models.User, task *models.Task) (*models.Task, error) {
	task.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}

	if s.calendar != nil && user.HasCalendarAccess() && task.GoogleEventID != nil {
		if err := s.calendar.UpdateEvent(ctx, user, task); err != nil {
			log.Printf("[task][update] calendar sync failed id=%d: %v", task.ID, err)
		}
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, user *models.User, task *models.Task) error {
	if s.calendar != nil && user.HasCalendarAccess() && task.GoogleEventID != nil {
		if err := s.calendar.DeleteEvent(ctx, user, *task.GoogleEventID); err != nil {
			log.Printf("[task][delete] calendar sync failed id=%d: %v", task.ID, err)
		}
	}
	return s.repo.Delete(ctx, task.ID)
}
