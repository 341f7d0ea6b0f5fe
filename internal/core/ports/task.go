package ports

import (
	"context"

	"github.com/subash43e/taskapp/internal/core/domain"
)

// TaskRepository is the user-scoped persistence collaborator. Every operation
// requires a non-empty userID and fails with domain.ErrAuthRequired otherwise.
type TaskRepository interface {
	CreateTask(ctx context.Context, userID string, input domain.CreateTaskInput) (domain.Task, error)
	GetTask(ctx context.Context, userID, taskID string) (domain.Task, error)
	GetUserTasks(ctx context.Context, userID string) ([]domain.Task, error)
	UpdateTask(ctx context.Context, userID, taskID string, input domain.UpdateTaskInput) (domain.Task, error)
	DeleteTask(ctx context.Context, userID, taskID string) error
	GetPendingTasks(ctx context.Context, userID string) ([]domain.Task, error)
	GetCompletedTasks(ctx context.Context, userID string) ([]domain.Task, error)
	GetTodayTasks(ctx context.Context, userID string) ([]domain.Task, error)
	GetUpcomingTasks(ctx context.Context, userID string) ([]domain.Task, error)
}

type TaskService interface {
	CreateTask(ctx context.Context, user domain.User, input domain.CreateTaskInput) (domain.Task, error)
	ListTasks(ctx context.Context, userID string) ([]domain.Task, error)
	UpdateTask(ctx context.Context, user domain.User, taskID string, input domain.UpdateTaskInput) (domain.Task, error)
	ToggleComplete(ctx context.Context, user domain.User, taskID string) (domain.Task, error)
	DeleteTask(ctx context.Context, userID, taskID string) error
	PendingTasks(ctx context.Context, userID string) ([]domain.Task, error)
	TodayTasks(ctx context.Context, userID string) ([]domain.Task, error)
	UpcomingTasks(ctx context.Context, userID string) ([]domain.Task, error)
	CompletedTasks(ctx context.Context, userID string) ([]domain.Task, error)
}
