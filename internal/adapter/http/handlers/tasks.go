package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/subash43e/taskapp/internal/adapter/http/dto"
	"github.com/subash43e/taskapp/internal/adapter/http/mapper"
	"github.com/subash43e/taskapp/internal/adapter/http/middleware"
	"github.com/subash43e/taskapp/internal/adapter/http/validation"
	"github.com/subash43e/taskapp/internal/app/store"
	"github.com/subash43e/taskapp/internal/core/domain"
	"github.com/subash43e/taskapp/internal/core/ports"
	"github.com/subash43e/taskapp/pkg/apierrors"
)

type TaskHandler struct {
	taskService ports.TaskService
}

func NewTaskHandler(taskService ports.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ListTasks is the inbox view: the user's full task list with optional
// search (?q=) and sort (?sort=dueDate|priority|created).
func (h *TaskHandler) ListTasks(c *gin.Context) {
	lang := middleware.GetLang(c)
	user := middleware.GetUser(c)

	tasks, err := h.taskService.ListTasks(c.Request.Context(), user.UID)
	if err != nil {
		h.answerListError(c, lang, err)
		return
	}

	tasks = store.FilteredAndSorted(tasks, c.Query("q"), c.Query("sort"))
	c.JSON(http.StatusOK, mapper.ToTaskItems(tasks))
}

func (h *TaskHandler) PendingTasks(c *gin.Context) {
	lang := middleware.GetLang(c)
	user := middleware.GetUser(c)

	tasks, err := h.taskService.PendingTasks(c.Request.Context(), user.UID)
	if err != nil {
		h.answerListError(c, lang, err)
		return
	}

	tasks = store.FilterTasks(tasks, c.Query("q"))
	c.JSON(http.StatusOK, mapper.ToTaskItems(tasks))
}

func (h *TaskHandler) TodayTasks(c *gin.Context) {
	lang := middleware.GetLang(c)
	user := middleware.GetUser(c)

	tasks, err := h.taskService.TodayTasks(c.Request.Context(), user.UID)
	if err != nil {
		h.answerListError(c, lang, err)
		return
	}

	tasks = store.FilterTasks(tasks, c.Query("q"))
	c.JSON(http.StatusOK, mapper.ToTaskItems(tasks))
}

// UpcomingTasks groups incomplete future tasks by calendar date.
func (h *TaskHandler) UpcomingTasks(c *gin.Context) {
	lang := middleware.GetLang(c)
	user := middleware.GetUser(c)

	tasks, err := h.taskService.UpcomingTasks(c.Request.Context(), user.UID)
	if err != nil {
		h.answerListError(c, lang, err)
		return
	}

	tasks = store.FilterTasks(tasks, c.Query("q"))
	today := time.Now().Format(domain.DueDateLayout)
	c.JSON(http.StatusOK, mapper.ToTaskGroups(store.UpcomingGroups(tasks, today)))
}

func (h *TaskHandler) CompletedTasks(c *gin.Context) {
	lang := middleware.GetLang(c)
	user := middleware.GetUser(c)

	tasks, err := h.taskService.CompletedTasks(c.Request.Context(), user.UID)
	if err != nil {
		h.answerListError(c, lang, err)
		return
	}

	tasks = store.FilterTasks(tasks, c.Query("q"))
	c.JSON(http.StatusOK, mapper.ToTaskItems(tasks))
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	lang := middleware.GetLang(c)
	user := middleware.GetUser(c)

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	input, err := validation.BuildCreateTaskInput(req)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), user, input)
	if err != nil {
		if errors.Is(err, domain.ErrAuthRequired) {
			c.JSON(
				http.StatusUnauthorized,
				apierrors.CreateError(http.StatusUnauthorized, apierrors.MsgAuthRequired, lang),
			)
			return
		}

		zap.L().Error("failed to create task", zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailCreateTask, lang),
		)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToTaskItem(task))
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	lang := middleware.GetLang(c)
	user := middleware.GetUser(c)

	taskID := c.Param("id")
	if taskID == "" {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskID, lang),
		)
		return
	}

	// Bind twice: once typed, once raw, so absent and null fields stay apart.
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	var raw map[string]json.RawMessage
	var req dto.UpdateTaskRequest
	if err := json.Unmarshal(body, &raw); err != nil || json.Unmarshal(body, &req) != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	input, err := validation.BuildUpdateTaskInput(req, raw)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), user, taskID, input)
	if err != nil {
		h.answerTaskError(c, lang, taskID, err, apierrors.MsgFailUpdateTask, "failed to update task")
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) ToggleComplete(c *gin.Context) {
	lang := middleware.GetLang(c)
	user := middleware.GetUser(c)

	taskID := c.Param("id")
	task, err := h.taskService.ToggleComplete(c.Request.Context(), user, taskID)
	if err != nil {
		h.answerTaskError(c, lang, taskID, err, apierrors.MsgFailUpdateTask, "failed to toggle task")
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	lang := middleware.GetLang(c)
	user := middleware.GetUser(c)

	taskID := c.Param("id")
	if err := h.taskService.DeleteTask(c.Request.Context(), user.UID, taskID); err != nil {
		h.answerTaskError(c, lang, taskID, err, apierrors.MsgFailDeleteTask, "failed to delete task")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) answerListError(c *gin.Context, lang string, err error) {
	if errors.Is(err, domain.ErrAuthRequired) {
		c.JSON(
			http.StatusUnauthorized,
			apierrors.CreateError(http.StatusUnauthorized, apierrors.MsgAuthRequired, lang),
		)
		return
	}

	zap.L().Error("failed to list tasks", zap.Error(err))
	c.JSON(
		http.StatusInternalServerError,
		apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailListTask, lang),
	)
}

func (h *TaskHandler) answerTaskError(c *gin.Context, lang, taskID string, err error, failMsg, logMsg string) {
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		c.JSON(
			http.StatusNotFound,
			apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang),
		)
	case errors.Is(err, domain.ErrAuthRequired):
		c.JSON(
			http.StatusUnauthorized,
			apierrors.CreateError(http.StatusUnauthorized, apierrors.MsgAuthRequired, lang),
		)
	default:
		zap.L().Error(logMsg, zap.String("task_id", taskID), zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, failMsg, lang),
		)
	}
}
