//go:build integration
// +build integration

package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	dbadapter "github.com/subash43e/taskapp/internal/adapter/db"
	httpadapter "github.com/subash43e/taskapp/internal/adapter/http"
	"github.com/subash43e/taskapp/internal/adapter/http/dto"
	"github.com/subash43e/taskapp/internal/adapter/http/handlers"
	"github.com/subash43e/taskapp/internal/adapter/mail"
	"github.com/subash43e/taskapp/internal/adapter/notification"
	"github.com/subash43e/taskapp/internal/adapter/settings"
	"github.com/subash43e/taskapp/internal/app/scheduler"
	appservice "github.com/subash43e/taskapp/internal/app/service"
	"github.com/subash43e/taskapp/internal/app/store"
	"github.com/subash43e/taskapp/internal/core/domain"
	"github.com/subash43e/taskapp/pkg/apierrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

const (
	testUserID    = "user-1"
	otherUserID   = "user-2"
	testUserEmail = "user-1@example.test"
)

type TasksIntegrationSuite struct {
	IntegrationSuiteBase
	router    *gin.Engine
	scheduler *scheduler.Scheduler
}

func TestTasksIntegrationSuite(t *testing.T) {
	suite.Run(t, new(TasksIntegrationSuite))
}

func (s *TasksIntegrationSuite) SetupTest() {
	s.ResetDatabase()

	logger := zap.NewNop()
	settingsStore, err := settings.Open(filepath.Join(s.T().TempDir(), "settings.json"))
	s.Require().NoError(err)

	mailer := mail.New(mail.Config{Provider: mail.ProviderMock}, logger)
	notifier := notification.NewLogNotifier(logger)
	snapshot := store.New()
	feed := func(context.Context) ([]domain.Task, error) { return snapshot.Snapshot(), nil }
	sched := scheduler.New(mailer, notifier, feed, testUserEmail, logger)
	s.scheduler = sched

	taskRepository := dbadapter.NewTaskRepository(s.DB)
	taskService := appservice.NewTaskService(taskRepository, snapshot, sched, mailer, logger)

	router := gin.New()
	healthHandler := handlers.NewHealthHandler(s.DB)
	taskHandler := handlers.NewTaskHandler(taskService)
	settingsHandler := handlers.NewSettingsHandler(settingsStore, mailer, notifier, sched)
	httpadapter.RegisterRoutes(router, healthHandler, taskHandler, settingsHandler)

	s.router = router
}

func (s *TasksIntegrationSuite) TearDownTest() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *TasksIntegrationSuite) request(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", testUserID)
	req.Header.Set("X-User-Email", testUserEmail)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *TasksIntegrationSuite) insertTask(id, userID, name, dueDate, dueTime string, completed bool) {
	var due interface{}
	if dueTime != "" {
		due = dueTime
	}
	_, err := s.DB.Exec(
		`INSERT INTO tasks (id, user_id, task_name, description, due_date, due_time, priority, category, tags, color, completed)
		 VALUES (?, ?, ?, 'seeded', ?, ?, 'Medium', 'Work', '[]', '#2196f3', ?)`,
		id, userID, name, dueDate, due, completed,
	)
	s.Require().NoError(err)
}

func (s *TasksIntegrationSuite) TestGetTasks_ScopedToUser() {
	s.insertTask("t1", testUserID, "Mine", "2026-03-04", "10:00", false)
	s.insertTask("t2", otherUserID, "Not mine", "2026-03-04", "", false)

	rec := s.request(http.MethodGet, "/api/tasks", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var got []dto.TaskItem
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Len(got, 1)
	s.Require().Equal("t1", got[0].ID)
	s.Require().Equal("Mine", got[0].TaskName)
	s.Require().Equal("10:00", got[0].DueTime)
}

func (s *TasksIntegrationSuite) TestGetTasks_EmptyList() {
	rec := s.request(http.MethodGet, "/api/tasks", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var got []dto.TaskItem
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Len(got, 0)
}

func (s *TasksIntegrationSuite) TestGetTasks_MissingUserHeaderIsUnauthorized() {
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusUnauthorized, rec.Code)

	var got apierrors.JsonErr
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Equal("authentication required", got.ErrDetails.Message)
}

func (s *TasksIntegrationSuite) TestGetTasks_InternalErrorWhenQueryFails() {
	_, err := s.DB.Exec("DROP TABLE tasks")
	s.Require().NoError(err)

	rec := s.request(http.MethodGet, "/api/tasks", "")
	s.Require().Equal(http.StatusInternalServerError, rec.Code)

	var got apierrors.JsonErr
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Equal(http.StatusInternalServerError, got.ErrDetails.Code)
	s.Require().Equal("failed to list tasks", got.ErrDetails.Message)
}

func (s *TasksIntegrationSuite) TestPostTasks_CreatesTask() {
	rec := s.request(http.MethodPost, "/api/tasks", `{
		"task_name": "Pay rent",
		"description": "Transfer before the 5th",
		"due_date": "2026-03-04",
		"due_time": "10:00",
		"priority": "High",
		"category": "Personal",
		"tags": ["bills", "Bills"]
	}`)
	s.Require().Equal(http.StatusCreated, rec.Code)

	var got dto.TaskItem
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().NotEmpty(got.ID)
	s.Require().Equal("Pay rent", got.TaskName)
	s.Require().Equal("High", got.Priority)
	s.Require().Equal([]string{"bills"}, got.Tags)
	s.Require().Equal("#2196f3", got.Color)
	s.Require().False(got.Completed)

	var row struct {
		UserID string `db:"user_id"`
		Tags   string `db:"tags"`
	}
	s.Require().NoError(s.DB.Get(&row, "SELECT user_id, tags FROM tasks WHERE id = ?", got.ID))
	s.Require().Equal(testUserID, row.UserID)
	s.Require().JSONEq(`["bills"]`, row.Tags)
}

func (s *TasksIntegrationSuite) TestPostTasks_RejectsInvalidPayload() {
	rec := s.request(http.MethodPost, "/api/tasks", `{"task_name": "No due date"}`)
	s.Require().Equal(http.StatusBadRequest, rec.Code)

	var got apierrors.JsonErr
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Equal(http.StatusBadRequest, got.ErrDetails.Code)
	s.Require().Equal("invalid task payload", got.ErrDetails.Message)
}

func (s *TasksIntegrationSuite) TestPatchTasks_UpdatesFieldsAndClearsDueTime() {
	s.insertTask("t1", testUserID, "Original", "2026-03-04", "10:00", false)

	rec := s.request(http.MethodPatch, "/api/tasks/t1", `{
		"task_name": "Renamed",
		"priority": "Low",
		"due_time": null
	}`)
	s.Require().Equal(http.StatusOK, rec.Code)

	var got dto.TaskItem
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Equal("Renamed", got.TaskName)
	s.Require().Equal("Low", got.Priority)
	s.Require().Empty(got.DueTime)

	var dueTime *string
	s.Require().NoError(s.DB.Get(&dueTime, "SELECT due_time FROM tasks WHERE id = 't1'"))
	s.Require().Nil(dueTime)
}

func (s *TasksIntegrationSuite) TestPatchTasks_EmptyPatchRejected() {
	s.insertTask("t1", testUserID, "Original", "2026-03-04", "", false)

	rec := s.request(http.MethodPatch, "/api/tasks/t1", `{}`)
	s.Require().Equal(http.StatusBadRequest, rec.Code)

	var got apierrors.JsonErr
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Equal("invalid task payload", got.ErrDetails.Message)
}

func (s *TasksIntegrationSuite) TestPatchTasks_NotFoundForOtherUsersTask() {
	s.insertTask("t2", otherUserID, "Not mine", "2026-03-04", "", false)

	rec := s.request(http.MethodPatch, "/api/tasks/t2", `{"task_name": "Hijack"}`)
	s.Require().Equal(http.StatusNotFound, rec.Code)

	var got apierrors.JsonErr
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Equal(http.StatusNotFound, got.ErrDetails.Code)
	s.Require().Equal("task not found", got.ErrDetails.Message)
}

func (s *TasksIntegrationSuite) TestToggleComplete_FlipsFlag() {
	s.insertTask("t1", testUserID, "Toggle me", "2026-03-04", "", false)

	rec := s.request(http.MethodPost, "/api/tasks/t1/toggle", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var got dto.TaskItem
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().True(got.Completed)

	var completed bool
	s.Require().NoError(s.DB.Get(&completed, "SELECT completed FROM tasks WHERE id = 't1'"))
	s.Require().True(completed)

	rec = s.request(http.MethodPost, "/api/tasks/t1/toggle", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().NoError(s.DB.Get(&completed, "SELECT completed FROM tasks WHERE id = 't1'"))
	s.Require().False(completed)
}

func (s *TasksIntegrationSuite) TestDeleteTasks_RemovesRow() {
	s.insertTask("t1", testUserID, "Delete me", "2026-03-04", "", false)

	rec := s.request(http.MethodDelete, "/api/tasks/t1", "")
	s.Require().Equal(http.StatusNoContent, rec.Code)

	var count int
	s.Require().NoError(s.DB.Get(&count, "SELECT COUNT(*) FROM tasks WHERE id = 't1'"))
	s.Require().Zero(count)
}

func (s *TasksIntegrationSuite) TestDeleteTasks_NotFound() {
	rec := s.request(http.MethodDelete, "/api/tasks/missing", "")
	s.Require().Equal(http.StatusNotFound, rec.Code)

	var got apierrors.JsonErr
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Equal("task not found", got.ErrDetails.Message)
}

func (s *TasksIntegrationSuite) TestGetTodayTasks_OnlyTodayOrdered() {
	today := time.Now().Format(domain.DueDateLayout)
	tomorrow := time.Now().AddDate(0, 0, 1).Format(domain.DueDateLayout)

	s.insertTask("late", testUserID, "Late today", today, "18:00", false)
	s.insertTask("early", testUserID, "Early today", today, "08:00", false)
	s.insertTask("future", testUserID, "Tomorrow", tomorrow, "08:00", false)

	rec := s.request(http.MethodGet, "/api/tasks/today", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var got []dto.TaskItem
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Len(got, 2)
	s.Require().Equal("early", got[0].ID)
	s.Require().Equal("late", got[1].ID)
}

func (s *TasksIntegrationSuite) TestGetUpcomingTasks_GroupedByDate() {
	tomorrow := time.Now().AddDate(0, 0, 1).Format(domain.DueDateLayout)
	nextWeek := time.Now().AddDate(0, 0, 7).Format(domain.DueDateLayout)

	s.insertTask("w", testUserID, "Next week", nextWeek, "", false)
	s.insertTask("t", testUserID, "Tomorrow", tomorrow, "09:00", false)

	rec := s.request(http.MethodGet, "/api/tasks/upcoming", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var got []dto.TaskGroup
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Len(got, 2)
	s.Require().Equal(tomorrow, got[0].Date)
	s.Require().Equal(nextWeek, got[1].Date)
}

func (s *TasksIntegrationSuite) TestGetPendingTasks() {
	s.insertTask("done", testUserID, "Done", "2026-03-01", "", true)
	s.insertTask("open", testUserID, "Open", "2026-03-01", "", false)

	rec := s.request(http.MethodGet, "/api/tasks/pending", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var got []dto.TaskItem
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Len(got, 1)
	s.Require().Equal("open", got[0].ID)
}

func (s *TasksIntegrationSuite) TestGetCompletedTasks() {
	s.insertTask("done", testUserID, "Done", "2026-03-01", "", true)
	s.insertTask("open", testUserID, "Open", "2026-03-01", "", false)

	rec := s.request(http.MethodGet, "/api/tasks/completed", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var got []dto.TaskItem
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Len(got, 1)
	s.Require().Equal("done", got[0].ID)
}
