package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/subash43e/taskapp/internal/core/domain"
	"github.com/subash43e/taskapp/internal/core/ports"
)

const selectTaskColumns = `
SELECT id, user_id, task_name, description, due_date, due_time, priority,
       category, tags, color, completed, created_at, updated_at
FROM tasks
`

type TaskRepository struct {
	db *sqlx.DB
}

type taskRow struct {
	ID          string         `db:"id"`
	UserID      string         `db:"user_id"`
	TaskName    string         `db:"task_name"`
	Description string         `db:"description"`
	DueDate     string         `db:"due_date"`
	DueTime     sql.NullString `db:"due_time"`
	Priority    string         `db:"priority"`
	Category    string         `db:"category"`
	Tags        []byte         `db:"tags"`
	Color       string         `db:"color"`
	Completed   bool           `db:"completed"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) CreateTask(ctx context.Context, userID string, input domain.CreateTaskInput) (domain.Task, error) {
	if userID == "" {
		return domain.Task{}, domain.ErrAuthRequired
	}

	id := uuid.NewString()
	tags, err := json.Marshal(domain.NormalizeTags(input.Tags))
	if err != nil {
		return domain.Task{}, err
	}

	const query = `
INSERT INTO tasks (id, user_id, task_name, description, due_date, due_time,
                   priority, category, tags, color, completed, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, FALSE, NOW(), NOW())
`
	_, err = r.db.ExecContext(ctx, query,
		id, userID, input.TaskName, input.Description, input.DueDate,
		nullString(input.DueTime), string(input.Priority), input.Category, tags, input.Color,
	)
	if err != nil {
		return domain.Task{}, err
	}

	return r.getTask(ctx, userID, id)
}

func (r *TaskRepository) GetTask(ctx context.Context, userID, taskID string) (domain.Task, error) {
	if userID == "" {
		return domain.Task{}, domain.ErrAuthRequired
	}
	return r.getTask(ctx, userID, taskID)
}

func (r *TaskRepository) GetUserTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	return r.listTasks(ctx, userID, "", "created_at DESC")
}

func (r *TaskRepository) GetPendingTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	return r.listTasks(ctx, userID, "AND completed = FALSE", "created_at DESC")
}

func (r *TaskRepository) GetCompletedTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	return r.listTasks(ctx, userID, "AND completed = TRUE", "updated_at DESC")
}

func (r *TaskRepository) GetTodayTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	if userID == "" {
		return nil, domain.ErrAuthRequired
	}

	today := time.Now().Format(domain.DueDateLayout)
	var rows []taskRow
	query := selectTaskColumns + `
WHERE user_id = ? AND due_date = ?
ORDER BY COALESCE(due_time, '23:59')
`
	if err := r.db.SelectContext(ctx, &rows, query, userID, today); err != nil {
		return nil, err
	}
	return mapTaskRows(rows)
}

func (r *TaskRepository) GetUpcomingTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	if userID == "" {
		return nil, domain.ErrAuthRequired
	}

	today := time.Now().Format(domain.DueDateLayout)
	var rows []taskRow
	query := selectTaskColumns + `
WHERE user_id = ? AND due_date > ?
ORDER BY due_date, COALESCE(due_time, '23:59')
`
	if err := r.db.SelectContext(ctx, &rows, query, userID, today); err != nil {
		return nil, err
	}
	return mapTaskRows(rows)
}

func (r *TaskRepository) UpdateTask(ctx context.Context, userID, taskID string, input domain.UpdateTaskInput) (domain.Task, error) {
	if userID == "" {
		return domain.Task{}, domain.ErrAuthRequired
	}

	assignments := make([]string, 0, 9)
	args := make([]any, 0, 10)

	if input.TaskName != nil {
		assignments = append(assignments, "task_name = ?")
		args = append(args, *input.TaskName)
	}
	if input.Description != nil {
		assignments = append(assignments, "description = ?")
		args = append(args, *input.Description)
	}
	if input.DueDateSet {
		assignments = append(assignments, "due_date = ?")
		if input.DueDate != nil {
			args = append(args, *input.DueDate)
		} else {
			args = append(args, "")
		}
	}
	if input.DueTimeSet {
		assignments = append(assignments, "due_time = ?")
		if input.DueTime != nil {
			args = append(args, nullString(*input.DueTime))
		} else {
			args = append(args, nil)
		}
	}
	if input.Priority != nil {
		assignments = append(assignments, "priority = ?")
		args = append(args, string(*input.Priority))
	}
	if input.Category != nil {
		assignments = append(assignments, "category = ?")
		args = append(args, *input.Category)
	}
	if input.TagsSet {
		tags, err := json.Marshal(domain.NormalizeTags(input.Tags))
		if err != nil {
			return domain.Task{}, err
		}
		assignments = append(assignments, "tags = ?")
		args = append(args, tags)
	}
	if input.Color != nil {
		assignments = append(assignments, "color = ?")
		args = append(args, *input.Color)
	}
	if input.Completed != nil {
		assignments = append(assignments, "completed = ?")
		args = append(args, *input.Completed)
	}

	if len(assignments) == 0 {
		return r.getTask(ctx, userID, taskID)
	}

	assignments = append(assignments, "updated_at = NOW()")
	query := "UPDATE tasks SET " + strings.Join(assignments, ", ") + " WHERE user_id = ? AND id = ?"
	args = append(args, userID, taskID)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return domain.Task{}, err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		// Distinguish "no such task" from "values already matched".
		if _, getErr := r.getTask(ctx, userID, taskID); getErr != nil {
			return domain.Task{}, getErr
		}
	}

	return r.getTask(ctx, userID, taskID)
}

func (r *TaskRepository) DeleteTask(ctx context.Context, userID, taskID string) error {
	if userID == "" {
		return domain.ErrAuthRequired
	}

	result, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE user_id = ? AND id = ?", userID, taskID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) getTask(ctx context.Context, userID, taskID string) (domain.Task, error) {
	var row taskRow
	err := r.db.GetContext(ctx, &row, selectTaskColumns+"WHERE user_id = ? AND id = ?", userID, taskID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	if err != nil {
		return domain.Task{}, err
	}
	return mapTaskRow(row)
}

func (r *TaskRepository) listTasks(ctx context.Context, userID, extraWhere, orderBy string) ([]domain.Task, error) {
	if userID == "" {
		return nil, domain.ErrAuthRequired
	}

	var rows []taskRow
	query := selectTaskColumns + "WHERE user_id = ? " + extraWhere + " ORDER BY " + orderBy
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, err
	}
	return mapTaskRows(rows)
}

func mapTaskRows(rows []taskRow) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		task, err := mapTaskRow(row)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func mapTaskRow(row taskRow) (domain.Task, error) {
	task := domain.Task{
		ID:          row.ID,
		UserID:      row.UserID,
		TaskName:    row.TaskName,
		Description: row.Description,
		DueDate:     row.DueDate,
		Priority:    domain.Priority(row.Priority),
		Category:    row.Category,
		Color:       row.Color,
		Completed:   row.Completed,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if row.DueTime.Valid {
		task.DueTime = row.DueTime.String
	}
	if len(row.Tags) > 0 {
		if err := json.Unmarshal(row.Tags, &task.Tags); err != nil {
			return domain.Task{}, err
		}
	}
	return task, nil
}

func nullString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
