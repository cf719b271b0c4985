// internal/models/task.go
package models

import "time"

// TaskStatus defines the possible statuses for a task.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Task represents the structure of a task in the system.
type Task struct {
	ID            int64        `json:"id"`
	UserID        int          `json:"user_id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	DueDate       *time.Time   `json:"due_date,omitempty"`
	Status        TaskStatus   `json:"status"`
	Priority      TaskPriority `json:"priority"`
	GoogleEventID *string      `json:"google_event_id,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// TaskUpdate is the explicit allowlist of patchable fields. Nil means
// "leave unchanged"; anything outside this struct is not patchable.
type TaskUpdate struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	DueDate     *string       `json:"dueDate"` // RFC3339
	Status      *TaskStatus   `json:"status"`
	Priority    *TaskPriority `json:"priority"`
}

func IsAllowedTaskStatus(s TaskStatus) bool {
	switch s {
	case StatusPending, StatusCompleted:
		return true
	}
	return false
}

func IsAllowedTaskPriority(p TaskPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
