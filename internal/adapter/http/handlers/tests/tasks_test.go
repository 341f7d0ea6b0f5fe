package tests

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/subash43e/taskapp/internal/adapter/http/dto"
	"github.com/subash43e/taskapp/internal/adapter/http/handlers"
	"github.com/subash43e/taskapp/internal/adapter/http/middleware"
	"github.com/subash43e/taskapp/internal/core/domain"
	"github.com/subash43e/taskapp/pkg/apierrors"
	"github.com/subash43e/taskapp/pkg/translator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type taskServiceMock struct {
	mock.Mock
}

func (m *taskServiceMock) CreateTask(ctx context.Context, user domain.User, input domain.CreateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, user, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) ListTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	args := m.Called(ctx, userID)

	var tasks []domain.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]domain.Task)
	}
	return tasks, args.Error(1)
}

func (m *taskServiceMock) UpdateTask(ctx context.Context, user domain.User, taskID string, input domain.UpdateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, user, taskID, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) ToggleComplete(ctx context.Context, user domain.User, taskID string) (domain.Task, error) {
	args := m.Called(ctx, user, taskID)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) DeleteTask(ctx context.Context, userID, taskID string) error {
	return m.Called(ctx, userID, taskID).Error(0)
}

func (m *taskServiceMock) PendingTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	args := m.Called(ctx, userID)

	var tasks []domain.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]domain.Task)
	}
	return tasks, args.Error(1)
}

func (m *taskServiceMock) TodayTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	args := m.Called(ctx, userID)

	var tasks []domain.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]domain.Task)
	}
	return tasks, args.Error(1)
}

func (m *taskServiceMock) UpcomingTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	args := m.Called(ctx, userID)

	var tasks []domain.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]domain.Task)
	}
	return tasks, args.Error(1)
}

func (m *taskServiceMock) CompletedTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	args := m.Called(ctx, userID)

	var tasks []domain.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]domain.Task)
	}
	return tasks, args.Error(1)
}

func newTaskRouter(serviceMock *taskServiceMock) *gin.Engine {
	handler := handlers.NewTaskHandler(serviceMock)

	router := gin.New()
	authed := router.Group("/api", middleware.LanguageMiddleware(), middleware.AuthMiddleware())
	authed.GET("/tasks", handler.ListTasks)
	authed.POST("/tasks", handler.CreateTask)
	authed.GET("/tasks/upcoming", handler.UpcomingTasks)
	authed.PATCH("/tasks/:id", handler.UpdateTask)
	authed.POST("/tasks/:id/toggle", handler.ToggleComplete)
	authed.DELETE("/tasks/:id", handler.DeleteTask)
	return router
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Accept-Language", translator.LanguageEn)
	req.Header.Set("X-User-ID", "uid-1")
	req.Header.Set("X-User-Email", "me@example.test")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestTaskHandler_ListTasks_Success(t *testing.T) {
	createdAt := time.Date(2026, 2, 13, 10, 20, 30, 0, time.UTC)
	updatedAt := time.Date(2026, 2, 13, 11, 20, 30, 0, time.UTC)

	serviceMock := new(taskServiceMock)
	serviceMock.On("ListTasks", mock.Anything, "uid-1").Return(
		[]domain.Task{
			{
				ID:          "t1",
				UserID:      "uid-1",
				TaskName:    "Pay rent",
				Description: "Transfer before the 5th",
				DueDate:     "2026-03-04",
				DueTime:     "10:00",
				Priority:    domain.PriorityHigh,
				Category:    "Personal",
				Tags:        []string{"bills"},
				Color:       "#2196f3",
				CreatedAt:   createdAt,
				UpdatedAt:   updatedAt,
			},
			{
				ID:       "t2",
				UserID:   "uid-1",
				TaskName: "Untagged",
				DueDate:  "2026-03-05",
				Priority: domain.PriorityLow,
			},
		},
		nil,
	).Once()

	rec := doRequest(newTaskRouter(serviceMock), http.MethodGet, "/api/tasks", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var got []dto.TaskItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)

	require.Equal(t, "t1", got[0].ID)
	require.Equal(t, "Pay rent", got[0].TaskName)
	require.Equal(t, "2026-03-04", got[0].DueDate)
	require.Equal(t, "10:00", got[0].DueTime)
	require.Equal(t, "High", got[0].Priority)
	require.Equal(t, []string{"bills"}, got[0].Tags)
	require.Equal(t, "2026-02-13T10:20:30Z", got[0].CreatedAt)
	require.Equal(t, "2026-02-13T11:20:30Z", got[0].UpdatedAt)

	require.NotNil(t, got[1].Tags)
	require.Empty(t, got[1].Tags)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_ListTasks_SortByPriority(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("ListTasks", mock.Anything, "uid-1").Return(
		[]domain.Task{
			{ID: "low", TaskName: "Low", Priority: domain.PriorityLow},
			{ID: "high", TaskName: "High", Priority: domain.PriorityHigh},
			{ID: "medium", TaskName: "Medium", Priority: domain.PriorityMedium},
		},
		nil,
	).Once()

	rec := doRequest(newTaskRouter(serviceMock), http.MethodGet, "/api/tasks?sort=priority", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var got []dto.TaskItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 3)
	require.Equal(t, "high", got[0].ID)
	require.Equal(t, "medium", got[1].ID)
	require.Equal(t, "low", got[2].ID)
}

func TestTaskHandler_ListTasks_SearchFilters(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("ListTasks", mock.Anything, "uid-1").Return(
		[]domain.Task{
			{ID: "t1", TaskName: "Buy groceries"},
			{ID: "t2", TaskName: "Ship release", Tags: []string{"groceries"}},
			{ID: "t3", TaskName: "Walk the dog"},
		},
		nil,
	).Once()

	rec := doRequest(newTaskRouter(serviceMock), http.MethodGet, "/api/tasks?q=groceries", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var got []dto.TaskItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	require.Equal(t, "t1", got[0].ID)
	require.Equal(t, "t2", got[1].ID)
}

func TestTaskHandler_ListTasks_Error(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("ListTasks", mock.Anything, "uid-1").Return(nil, errors.New("db is down")).Once()

	rec := doRequest(newTaskRouter(serviceMock), http.MethodGet, "/api/tasks", "")

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var got apierrors.JsonErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, http.StatusInternalServerError, got.ErrDetails.Code)
	require.Equal(t, "failed to list tasks", got.ErrDetails.Message)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_MissingUserHeader_Unauthorized(t *testing.T) {
	serviceMock := new(taskServiceMock)
	router := newTaskRouter(serviceMock)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Accept-Language", translator.LanguageEn)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var got apierrors.JsonErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "authentication required", got.ErrDetails.Message)
	serviceMock.AssertNotCalled(t, "ListTasks")
}

func TestTaskHandler_CreateTask_Success(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("CreateTask", mock.Anything,
		mock.MatchedBy(func(user domain.User) bool { return user.UID == "uid-1" }),
		mock.MatchedBy(func(input domain.CreateTaskInput) bool {
			return input.TaskName == "Pay rent" && input.Priority == domain.PriorityHigh && input.Color == "#2196f3"
		}),
	).Return(
		domain.Task{ID: "t1", TaskName: "Pay rent", DueDate: "2026-03-04", DueTime: "10:00", Priority: domain.PriorityHigh},
		nil,
	).Once()

	body := `{
		"task_name": "Pay rent",
		"description": "Transfer before the 5th",
		"due_date": "2026-03-04",
		"due_time": "10:00",
		"priority": "High",
		"category": "Personal"
	}`
	rec := doRequest(newTaskRouter(serviceMock), http.MethodPost, "/api/tasks", body)

	require.Equal(t, http.StatusCreated, rec.Code)

	var got dto.TaskItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "t1", got.ID)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_CreateTask_InvalidPayload(t *testing.T) {
	serviceMock := new(taskServiceMock)
	router := newTaskRouter(serviceMock)

	cases := map[string]string{
		"missing due_time": `{"task_name":"x","description":"y","due_date":"2026-03-04","priority":"High","category":"Personal"}`,
		"bad date format":  `{"task_name":"x","description":"y","due_date":"04/03/2026","due_time":"10:00","priority":"High","category":"Personal"}`,
		"bad priority":     `{"task_name":"x","description":"y","due_date":"2026-03-04","due_time":"10:00","priority":"Critical","category":"Personal"}`,
		"not json":         `{`,
	}
	for name, body := range cases {
		rec := doRequest(router, http.MethodPost, "/api/tasks", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, name)

		var got apierrors.JsonErr
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Equal(t, "invalid task payload", got.ErrDetails.Message, name)
	}
	serviceMock.AssertNotCalled(t, "CreateTask")
}

func TestTaskHandler_UpdateTask_NullClearsDueTime(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("UpdateTask", mock.Anything, mock.Anything, "t1",
		mock.MatchedBy(func(input domain.UpdateTaskInput) bool {
			return input.DueTimeSet && input.DueTime == nil && !input.DueDateSet
		}),
	).Return(
		domain.Task{ID: "t1", TaskName: "Pay rent", DueDate: "2026-03-04"},
		nil,
	).Once()

	rec := doRequest(newTaskRouter(serviceMock), http.MethodPatch, "/api/tasks/t1", `{"due_time": null}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.TaskItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Empty(t, got.DueTime)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_UpdateTask_AbsentFieldsStayAbsent(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("UpdateTask", mock.Anything, mock.Anything, "t1",
		mock.MatchedBy(func(input domain.UpdateTaskInput) bool {
			return input.TaskName != nil && *input.TaskName == "Renamed" &&
				!input.DueDateSet && !input.DueTimeSet && !input.TagsSet
		}),
	).Return(domain.Task{ID: "t1", TaskName: "Renamed"}, nil).Once()

	rec := doRequest(newTaskRouter(serviceMock), http.MethodPatch, "/api/tasks/t1", `{"task_name": "Renamed"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_UpdateTask_EmptyPatchRejected(t *testing.T) {
	serviceMock := new(taskServiceMock)

	rec := doRequest(newTaskRouter(serviceMock), http.MethodPatch, "/api/tasks/t1", `{}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var got apierrors.JsonErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "invalid task payload", got.ErrDetails.Message)
	serviceMock.AssertNotCalled(t, "UpdateTask")
}

func TestTaskHandler_UpdateTask_NotFound(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("UpdateTask", mock.Anything, mock.Anything, "missing", mock.Anything).
		Return(domain.Task{}, domain.ErrTaskNotFound).Once()

	rec := doRequest(newTaskRouter(serviceMock), http.MethodPatch, "/api/tasks/missing", `{"task_name": "x"}`)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var got apierrors.JsonErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, http.StatusNotFound, got.ErrDetails.Code)
	require.Equal(t, "task not found", got.ErrDetails.Message)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_ToggleComplete_Success(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("ToggleComplete", mock.Anything, mock.Anything, "t1").
		Return(domain.Task{ID: "t1", TaskName: "Pay rent", Completed: true}, nil).Once()

	rec := doRequest(newTaskRouter(serviceMock), http.MethodPost, "/api/tasks/t1/toggle", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.TaskItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.True(t, got.Completed)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_DeleteTask_Success(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("DeleteTask", mock.Anything, "uid-1", "t1").Return(nil).Once()

	rec := doRequest(newTaskRouter(serviceMock), http.MethodDelete, "/api/tasks/t1", "")

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Body.Bytes())
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_DeleteTask_NotFound(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("DeleteTask", mock.Anything, "uid-1", "missing").Return(domain.ErrTaskNotFound).Once()

	rec := doRequest(newTaskRouter(serviceMock), http.MethodDelete, "/api/tasks/missing", "")

	require.Equal(t, http.StatusNotFound, rec.Code)

	var got apierrors.JsonErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "task not found", got.ErrDetails.Message)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_UpcomingTasks_GroupsByDate(t *testing.T) {
	tomorrow := time.Now().AddDate(0, 0, 1).Format(domain.DueDateLayout)
	nextWeek := time.Now().AddDate(0, 0, 7).Format(domain.DueDateLayout)

	serviceMock := new(taskServiceMock)
	serviceMock.On("UpcomingTasks", mock.Anything, "uid-1").Return(
		[]domain.Task{
			{ID: "w", TaskName: "Next week", DueDate: nextWeek},
			{ID: "t2", TaskName: "Tomorrow late", DueDate: tomorrow, DueTime: "18:00"},
			{ID: "t1", TaskName: "Tomorrow early", DueDate: tomorrow, DueTime: "09:00"},
		},
		nil,
	).Once()

	rec := doRequest(newTaskRouter(serviceMock), http.MethodGet, "/api/tasks/upcoming", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var got []dto.TaskGroup
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	require.Equal(t, tomorrow, got[0].Date)
	require.Len(t, got[0].Tasks, 2)
	require.Equal(t, "t1", got[0].Tasks[0].ID)
	require.Equal(t, "t2", got[0].Tasks[1].ID)
	require.Equal(t, nextWeek, got[1].Date)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_FrenchErrorMessages(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("ListTasks", mock.Anything, "uid-1").Return(nil, errors.New("db is down")).Once()
	router := newTaskRouter(serviceMock)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Accept-Language", translator.LanguageFr)
	req.Header.Set("X-User-ID", "uid-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var got apierrors.JsonErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, apierrors.GetTransErrorMsg(apierrors.MsgFailListTask, translator.LanguageFr), got.ErrDetails.Message)
	serviceMock.AssertExpectations(t)
}
