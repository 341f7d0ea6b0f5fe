package mapper

import (
	"time"

	"github.com/subash43e/taskapp/internal/adapter/http/dto"
	"github.com/subash43e/taskapp/internal/app/store"
	"github.com/subash43e/taskapp/internal/core/domain"
)

func ToTaskItems(tasks []domain.Task) []dto.TaskItem {
	items := make([]dto.TaskItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, ToTaskItem(task))
	}
	return items
}

func ToTaskItem(task domain.Task) dto.TaskItem {
	tags := task.Tags
	if tags == nil {
		tags = []string{}
	}
	return dto.TaskItem{
		ID:          task.ID,
		TaskName:    task.TaskName,
		Description: task.Description,
		DueDate:     task.DueDate,
		DueTime:     task.DueTime,
		Priority:    string(task.Priority),
		Category:    task.Category,
		Tags:        tags,
		Color:       task.Color,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   task.UpdatedAt.Format(time.RFC3339),
	}
}

func ToTaskGroups(groups []store.DateGroup) []dto.TaskGroup {
	items := make([]dto.TaskGroup, 0, len(groups))
	for _, group := range groups {
		items = append(items, dto.TaskGroup{
			Date:  group.Date,
			Tasks: ToTaskItems(group.Tasks),
		})
	}
	return items
}
