package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/subash43e/taskapp/internal/app/notify"
	"github.com/subash43e/taskapp/internal/app/scheduler"
	"github.com/subash43e/taskapp/internal/app/store"
	"github.com/subash43e/taskapp/internal/core/domain"
	"github.com/subash43e/taskapp/internal/core/ports"
)

// TaskService orchestrates the repository, the in-memory snapshot and the
// notification scheduler. Persistence is the source of truth; the snapshot is
// optimistic and reverts when a write fails.
type TaskService struct {
	taskRepository ports.TaskRepository
	snapshot       *store.Store
	scheduler      *scheduler.Scheduler
	mailer         ports.Mailer
	logger         *zap.Logger
}

func NewTaskService(taskRepository ports.TaskRepository, snapshot *store.Store, sched *scheduler.Scheduler, mailer ports.Mailer, logger *zap.Logger) *TaskService {
	if logger == nil {
		logger = zap.L()
	}
	return &TaskService{
		taskRepository: taskRepository,
		snapshot:       snapshot,
		scheduler:      sched,
		mailer:         mailer,
		logger:         logger,
	}
}

// CreateTask persists the task, prepends it to the snapshot and schedules its
// reminders. Reminder scheduling never fails the create.
func (s *TaskService) CreateTask(ctx context.Context, user domain.User, input domain.CreateTaskInput) (domain.Task, error) {
	task, err := s.taskRepository.CreateTask(ctx, user.UID, input)
	if err != nil {
		return domain.Task{}, err
	}

	s.snapshot.AddTask(task)
	s.scheduler.ScheduleTaskReminder(task)
	return task, nil
}

// ListTasks refreshes the snapshot from persistence and returns it.
func (s *TaskService) ListTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	tasks, err := s.taskRepository.GetUserTasks(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.snapshot.SetTasks(tasks)
	return tasks, nil
}

// UpdateTask persists the patch and mirrors it into the snapshot. When the
// update can move the due instant, existing reminders are cancelled and fresh
// ones scheduled from the updated task.
func (s *TaskService) UpdateTask(ctx context.Context, user domain.User, taskID string, input domain.UpdateTaskInput) (domain.Task, error) {
	task, err := s.taskRepository.UpdateTask(ctx, user.UID, taskID, input)
	if err != nil {
		return domain.Task{}, err
	}

	s.snapshot.Replace(task)

	if input.TouchesSchedule() {
		s.scheduler.CancelTaskReminders(taskID)
		if !task.Completed {
			s.scheduler.ScheduleTaskReminder(task)
		}
	}
	return task, nil
}

// ToggleComplete flips the completion flag optimistically: the snapshot
// changes first and reverts if persistence rejects the write. When the
// snapshot has not seen the task yet, the stored state is read first so
// the flip starts from the persisted flag.
func (s *TaskService) ToggleComplete(ctx context.Context, user domain.User, taskID string) (domain.Task, error) {
	current, inSnapshot := s.snapshot.Get(taskID)
	if !inSnapshot {
		stored, err := s.taskRepository.GetTask(ctx, user.UID, taskID)
		if err != nil {
			return domain.Task{}, err
		}
		current = stored
	}

	completed := !current.Completed
	if inSnapshot {
		s.snapshot.UpdateTask(taskID, domain.UpdateTaskInput{Completed: &completed})
	}

	task, err := s.taskRepository.UpdateTask(ctx, user.UID, taskID, domain.UpdateTaskInput{Completed: &completed})
	if err != nil {
		if inSnapshot {
			revert := current.Completed
			s.snapshot.UpdateTask(taskID, domain.UpdateTaskInput{Completed: &revert})
		}
		return domain.Task{}, err
	}

	s.snapshot.Replace(task)

	if task.Completed {
		s.scheduler.CancelTaskReminders(taskID)
		s.sendCompletionEmail(user, task)
	} else {
		s.scheduler.ScheduleTaskReminder(task)
	}
	return task, nil
}

// DeleteTask removes the task everywhere and cancels its reminders.
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID string) error {
	if err := s.taskRepository.DeleteTask(ctx, userID, taskID); err != nil {
		return err
	}
	s.snapshot.DeleteTask(taskID)
	s.scheduler.CancelTaskReminders(taskID)
	return nil
}

func (s *TaskService) PendingTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	return s.taskRepository.GetPendingTasks(ctx, userID)
}

func (s *TaskService) TodayTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	return s.taskRepository.GetTodayTasks(ctx, userID)
}

func (s *TaskService) UpcomingTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	return s.taskRepository.GetUpcomingTasks(ctx, userID)
}

func (s *TaskService) CompletedTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	return s.taskRepository.GetCompletedTasks(ctx, userID)
}

// sendCompletionEmail is fire-and-forget; failures are logged only.
func (s *TaskService) sendCompletionEmail(user domain.User, task domain.Task) {
	if user.Email == "" {
		return
	}
	subject, body := notify.CompletionMessage(task, time.Now())
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if ok, err := s.mailer.Send(ctx, user.Email, subject, body); err != nil || !ok {
			s.logger.Warn("completion email not delivered",
				zap.String("task_id", task.ID), zap.Bool("accepted", ok), zap.Error(err))
		}
	}()
}

var _ ports.TaskService = (*TaskService)(nil)
