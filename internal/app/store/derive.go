package store

import (
	"sort"
	"strings"

	"github.com/subash43e/taskapp/internal/core/domain"
)

// Sort modes for the inbox view.
const (
	SortByDueDate  = "dueDate"
	SortByPriority = "priority"
	SortByCreated  = "created"
)

// DateGroup is one calendar date of the upcoming view.
type DateGroup struct {
	Date  string
	Tasks []domain.Task
}

// TodayTasks returns incomplete tasks due exactly on today (YYYY-MM-DD).
func TodayTasks(tasks []domain.Task, today string) []domain.Task {
	out := make([]domain.Task, 0)
	for _, task := range tasks {
		if !task.Completed && task.DueDate == today {
			out = append(out, task)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortTime() < out[j].SortTime()
	})
	return out
}

// UpcomingGroups returns incomplete tasks due strictly after today, grouped by
// calendar date. Groups come back in ascending date order and each group is
// ordered by due time, missing times sorting as end of day.
func UpcomingGroups(tasks []domain.Task, today string) []DateGroup {
	byDate := make(map[string][]domain.Task)
	for _, task := range tasks {
		if task.Completed || task.DueDate == "" || task.DueDate <= today {
			continue
		}
		byDate[task.DueDate] = append(byDate[task.DueDate], task)
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	groups := make([]DateGroup, 0, len(dates))
	for _, date := range dates {
		group := byDate[date]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].SortTime() < group[j].SortTime()
		})
		groups = append(groups, DateGroup{Date: date, Tasks: group})
	}
	return groups
}

// CompletedTasks returns completed tasks, most recently updated first.
func CompletedTasks(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, 0)
	for _, task := range tasks {
		if task.Completed {
			out = append(out, task)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// FilterTasks keeps tasks whose name, description, category or any tag
// contains the query, case-insensitively. An empty query matches everything
// and preserves order.
func FilterTasks(tasks []domain.Task, query string) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	q := strings.ToLower(strings.TrimSpace(query))
	for _, task := range tasks {
		if q == "" || matchesQuery(task, q) {
			out = append(out, task)
		}
	}
	return out
}

func matchesQuery(task domain.Task, q string) bool {
	if strings.Contains(strings.ToLower(task.TaskName), q) ||
		strings.Contains(strings.ToLower(task.Description), q) ||
		strings.Contains(strings.ToLower(task.Category), q) {
		return true
	}
	for _, tag := range task.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// SortTasks orders a copy of tasks by the given mode: due date ascending,
// priority descending, or creation time descending. Unknown modes keep the
// input order.
func SortTasks(tasks []domain.Task, mode string) []domain.Task {
	out := make([]domain.Task, len(tasks))
	copy(out, tasks)

	switch mode {
	case SortByDueDate:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].DueDate != out[j].DueDate {
				return out[i].DueDate < out[j].DueDate
			}
			return out[i].SortTime() < out[j].SortTime()
		})
	case SortByPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Weight() > out[j].Priority.Weight()
		})
	case SortByCreated:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out
}

// FilteredAndSorted is the inbox view: search filter then sort.
func FilteredAndSorted(tasks []domain.Task, query, mode string) []domain.Task {
	return SortTasks(FilterTasks(tasks, query), mode)
}
