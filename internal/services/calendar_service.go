package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"todosync/internal/models"
)

// CalendarService mirrors tasks into the user's primary Google calendar.
// Callers treat every operation as best-effort: a sync failure is logged,
// never propagated into the task mutation.
type CalendarService interface {
	CreateEvent(ctx context.Context, user *models.User, task *models.Task) (string, error)
	UpdateEvent(ctx context.Context, user *models.User, task *models.Task) error
	DeleteEvent(ctx context.Context, user *models.User, eventID string) error
}

type googleCalendarService struct {
	conf *oauth2.Config
}

func NewGoogleCalendarService(conf *oauth2.Config) CalendarService {
	return &googleCalendarService{conf: conf}
}

func (s *googleCalendarService) client(ctx context.Context, user *models.User) (*calendar.Service, error) {
	if !user.HasCalendarAccess() {
		return nil, fmt.Errorf("user %d has no calendar credential", user.ID)
	}
	tok := &oauth2.Token{AccessToken: *user.AccessToken}
	if user.RefreshToken != nil {
		tok.RefreshToken = *user.RefreshToken
	}
	return calendar.NewService(ctx, option.WithTokenSource(s.conf.TokenSource(ctx, tok)))
}

func eventFromTask(task *models.Task) *calendar.Event {
	end := time.Now().Add(time.Hour)
	if task.DueDate != nil {
		end = *task.DueDate
	}
	return &calendar.Event{
		Summary:     task.Title,
		Description: task.Description,
		Start: &calendar.EventDateTime{
			DateTime: time.Now().UTC().Format(time.RFC3339),
			TimeZone: "UTC",
		},
		End: &calendar.EventDateTime{
			DateTime: end.UTC().Format(time.RFC3339),
			TimeZone: "UTC",
		},
	}
}

func (s *googleCalendarService) CreateEvent(ctx context.Context, user *models.User, task *models.Task) (string, error) {
	svc, err := s.client(ctx, user)
	if err != nil {
		return "", err
	}
	created, err := svc.Events.Insert("primary", eventFromTask(task)).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("calendar insert: %w", err)
	}
	return created.Id, nil
}

func (s *googleCalendarService) UpdateEvent(ctx context.Context, user *models.User, task *models.Task) error {
	if task.GoogleEventID == nil {
		return fmt.Errorf("task %d has no calendar event", task.ID)
	}
	svc, err := s.client(ctx, user)
	if err != nil {
		return err
	}
	_, err = svc.Events.Update("primary", *task.GoogleEventID, eventFromTask(task)).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("calendar update: %w", err)
	}
	return nil
}

func (s *googleCalendarService) DeleteEvent(ctx context.Context, user *models.User, eventID string) error {
	svc, err := s.client(ctx, user)
	if err != nil {
		return err
	}
	if err := svc.Events.Delete("primary", eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("calendar delete: %w", err)
	}
	return nil
}
