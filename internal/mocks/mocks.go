// Package mocks provides in-memory test doubles for the repository and
// collaborator interfaces.
package mocks

import (
	"context"
	"errors"
	"sync"
	"time"

	"todosync/internal/models"
	"todosync/internal/repositories"
	"todosync/internal/services"
)

var (
	_ repositories.UserRepository         = (*MockUserRepository)(nil)
	_ repositories.LoginAttemptRepository = (*MockLoginAttemptRepository)(nil)
	_ repositories.TaskRepository         = (*MockTaskRepository)(nil)
)

// ===== UserRepository =====

type MockUserRepository struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*models.User
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{nextID: 1, users: map[int]*models.User{}}
}

func (m *MockUserRepository) Create(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	m.nextID++
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *MockUserRepository) GetByID(id int) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) GetByGoogleID(googleID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) Update(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return errors.New("user not found")
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *MockUserRepository) Delete(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

func (m *MockUserRepository) UpdateGoogleLink(userID int, googleID, accessToken, refreshToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return errors.New("user not found")
	}
	u.GoogleID = &googleID
	u.AccessToken = &accessToken
	u.RefreshToken = &refreshToken
	return nil
}

func (m *MockUserRepository) UpdateGoogleTokens(userID int, accessToken, refreshToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return errors.New("user not found")
	}
	u.AccessToken = &accessToken
	u.RefreshToken = &refreshToken
	return nil
}

func (m *MockUserRepository) ClearGoogleTokens(userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return errors.New("user not found")
	}
	u.AccessToken = nil
	u.RefreshToken = nil
	return nil
}

// Count reports the number of stored users.
func (m *MockUserRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// ===== LoginAttemptRepository =====

type MockLoginAttemptRepository struct {
	mu       sync.Mutex
	attempts map[string]*models.LoginAttempt
}

func NewMockLoginAttemptRepository() *MockLoginAttemptRepository {
	return &MockLoginAttemptRepository{attempts: map[string]*models.LoginAttempt{}}
}

func (m *MockLoginAttemptRepository) Create(a *models.LoginAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.CreatedAt = time.Now()
	cp := *a
	m.attempts[a.Token] = &cp
	return nil
}

func (m *MockLoginAttemptRepository) GetByToken(token string) (*models.LoginAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[token]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *MockLoginAttemptRepository) Update(a *models.LoginAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.attempts[a.Token]; !ok {
		return errors.New("attempt not found")
	}
	cp := *a
	m.attempts[a.Token] = &cp
	return nil
}

func (m *MockLoginAttemptRepository) Delete(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.attempts, token)
	return nil
}

func (m *MockLoginAttemptRepository) DeleteByUserID(userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, a := range m.attempts {
		if a.UserID == userID {
			delete(m.attempts, token)
		}
	}
	return nil
}

func (m *MockLoginAttemptRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.attempts)
}

// ===== TaskRepository =====

type MockTaskRepository struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]*models.Task
}

func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{nextID: 1, tasks: map[int64]*models.Task{}}
}

func (m *MockTaskRepository) Store(ctx context.Context, task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	task.ID = m.nextID
	m.nextID++
	cp := *task
	m.tasks[task.ID] = &cp
	return nil
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *MockTaskRepository) FindByUser(ctx context.Context, userID int) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Task
	for _, t := range m.tasks {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *MockTaskRepository) Update(ctx context.Context, task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[task.ID]; !ok {
		return errors.New("task not found")
	}
	cp := *task
	m.tasks[task.ID] = &cp
	return nil
}

func (m *MockTaskRepository) UpdateEventID(ctx context.Context, id int64, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return errors.New("task not found")
	}
	t.GoogleEventID = &eventID
	return nil
}

func (m *MockTaskRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tasks, id)
	return nil
}

func (m *MockTaskRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// ===== EmailService =====

type MockEmailService struct {
	mu       sync.Mutex
	SendFunc func(email, code string) error
	Sent     []SentMail
}

type SentMail struct {
	Email string
	Code  string
}

func NewMockEmailService() *MockEmailService {
	return &MockEmailService{}
}

func (m *MockEmailService) SendOTPEmail(email, code string) error {
	if m.SendFunc != nil {
		if err := m.SendFunc(email, code); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentMail{Email: email, Code: code})
	return nil
}

func (m *MockEmailService) LastCode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return ""
	}
	return m.Sent[len(m.Sent)-1].Code
}

// ===== CalendarService =====

type MockCalendarService struct {
	mu         sync.Mutex
	CreateFunc func(user *models.User, task *models.Task) (string, error)
	UpdateFunc func(user *models.User, task *models.Task) error
	DeleteFunc func(user *models.User, eventID string) error

	Created []int64
	Updated []int64
	Deleted []string
}

func NewMockCalendarService() *MockCalendarService {
	return &MockCalendarService{}
}

func (m *MockCalendarService) CreateEvent(ctx context.Context, user *models.User, task *models.Task) (string, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(user, task)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Created = append(m.Created, task.ID)
	return "evt-1", nil
}

func (m *MockCalendarService) UpdateEvent(ctx context.Context, user *models.User, task *models.Task) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(user, task)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Updated = append(m.Updated, task.ID)
	return nil
}

func (m *MockCalendarService) DeleteEvent(ctx context.Context, user *models.User, eventID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(user, eventID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted = append(m.Deleted, eventID)
	return nil
}

var _ services.EmailService = (*MockEmailService)(nil)
var _ services.CalendarService = (*MockCalendarService)(nil)
