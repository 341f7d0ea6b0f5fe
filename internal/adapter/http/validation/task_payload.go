package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/subash43e/taskapp/internal/adapter/http/dto"
	"github.com/subash43e/taskapp/internal/core/domain"
)

var ErrInvalidTaskPayload = errors.New("invalid task payload")

func BuildCreateTaskInput(req dto.CreateTaskRequest) (domain.CreateTaskInput, error) {
	taskName := strings.TrimSpace(req.TaskName)
	description := strings.TrimSpace(req.Description)
	category := strings.TrimSpace(req.Category)
	if taskName == "" || description == "" || category == "" {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}

	if _, err := time.Parse(domain.DueDateLayout, req.DueDate); err != nil {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}
	if _, err := time.Parse(domain.DueTimeLayout, req.DueTime); err != nil {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}

	priority := domain.Priority(req.Priority)
	if !priority.IsValid() {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}

	color := strings.TrimSpace(req.Color)
	if color == "" {
		color = "#2196f3"
	}

	return domain.CreateTaskInput{
		TaskName:    taskName,
		Description: description,
		DueDate:     req.DueDate,
		DueTime:     req.DueTime,
		Priority:    priority,
		Category:    category,
		Tags:        domain.NormalizeTags(req.Tags),
		Color:       color,
	}, nil
}

func BuildUpdateTaskInput(req dto.UpdateTaskRequest, raw map[string]json.RawMessage) (domain.UpdateTaskInput, error) {
	if !hasTaskUpdateFields(raw) {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}

	var input domain.UpdateTaskInput

	if hasJSONField(raw, "task_name") {
		if req.TaskName == nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		value := strings.TrimSpace(*req.TaskName)
		if value == "" {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		input.TaskName = &value
	}

	if hasJSONField(raw, "description") {
		if req.Description == nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		value := strings.TrimSpace(*req.Description)
		if value == "" {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		input.Description = &value
	}

	if hasJSONField(raw, "due_date") {
		input.DueDateSet = true
		if !isJSONNull(raw["due_date"]) {
			if req.DueDate == nil {
				return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
			}
			if _, err := time.Parse(domain.DueDateLayout, *req.DueDate); err != nil {
				return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
			}
			input.DueDate = req.DueDate
		}
	}

	if hasJSONField(raw, "due_time") {
		input.DueTimeSet = true
		if !isJSONNull(raw["due_time"]) {
			if req.DueTime == nil {
				return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
			}
			if _, err := time.Parse(domain.DueTimeLayout, *req.DueTime); err != nil {
				return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
			}
			input.DueTime = req.DueTime
		}
	}

	if hasJSONField(raw, "priority") {
		if req.Priority == nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		value := domain.Priority(*req.Priority)
		if !value.IsValid() {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		input.Priority = &value
	}

	if hasJSONField(raw, "category") {
		if req.Category == nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		value := strings.TrimSpace(*req.Category)
		if value == "" {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		input.Category = &value
	}

	if hasJSONField(raw, "tags") {
		input.TagsSet = true
		input.Tags = domain.NormalizeTags(req.Tags)
	}

	if hasJSONField(raw, "color") {
		if req.Color == nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		input.Color = req.Color
	}

	if hasJSONField(raw, "completed") {
		if req.Completed == nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		input.Completed = req.Completed
	}

	return input, nil
}

func hasTaskUpdateFields(raw map[string]json.RawMessage) bool {
	for _, field := range []string{
		"task_name", "description", "due_date", "due_time",
		"priority", "category", "tags", "color", "completed",
	} {
		if hasJSONField(raw, field) {
			return true
		}
	}
	return false
}

func hasJSONField(raw map[string]json.RawMessage, field string) bool {
	_, ok := raw[field]
	return ok
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
