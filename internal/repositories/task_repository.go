package repositories

import (
	"context"
	"database/sql"

	"todosync/internal/models"
)

type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id int64) (*models.Task, error)
	FindByUser(ctx context.Context, userID int) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	UpdateEventID(ctx context.Context, id int64, eventID string) error
	Delete(ctx context.Context, id int64) error
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (user_id, title, description, due_date, status, priority, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		task.UserID, task.Title, task.Description, task.DueDate,
		task.Status, task.Priority, task.CreatedAt, task.UpdatedAt,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	query := `SELECT id, user_id, title, description, due_date, status, priority,
       google_event_id, created_at, updated_at
       FROM tasks WHERE id = $1`
	task := &models.Task{}
	var eventID sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID, &task.UserID, &task.Title, &task.Description, &task.DueDate,
		&task.Status, &task.Priority, &eventID, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if eventID.Valid {
		s := eventID.String
		task.GoogleEventID = &s
	}
	return task, nil
}

func (r *taskRepository) FindByUser(ctx context.Context, userID int) ([]models.Task, error) {
	query := `SELECT id, user_id, title, description, due_date, status, priority,
       google_event_id, created_at, updated_at
       FROM tasks WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		var eventID sql.NullString
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Title, &t.Description, &t.DueDate,
			&t.Status, &t.Priority, &eventID, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if eventID.Valid {
			s := eventID.String
			t.GoogleEventID = &s
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks SET
			title=$1, description=$2, due_date=$3, status=$4, priority=$5, updated_at=$6
		WHERE id=$7`
	_, err := r.db.ExecContext(ctx, query,
		task.Title, task.Description, task.DueDate,
		task.Status, task.Priority, task.UpdatedAt, task.ID,
	)
	return err
}

func (r *taskRepository) UpdateEventID(ctx context.Context, id int64, eventID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET google_event_id=$1, updated_at=NOW() WHERE id=$2`, eventID, id)
	return err
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}
