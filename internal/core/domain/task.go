package domain

import (
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Weight orders priorities for sorting: High(3) > Medium(2) > Low(1) > unknown(0).
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

const (
	DueDateLayout = "2006-01-02"
	DueTimeLayout = "15:04"

	// EndOfDayTime substitutes for a missing due time when sorting or
	// computing due instants.
	EndOfDayTime = "23:59"
)

type Task struct {
	ID          string
	UserID      string
	TaskName    string
	Description string
	DueDate     string // YYYY-MM-DD
	DueTime     string // HH:MM, optional
	Priority    Priority
	Category    string
	Tags        []string
	Color       string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DueInstant combines DueDate and DueTime into a concrete instant in loc.
// A missing due time defaults to end of day. The second return is false when
// the task has no parseable due date.
func (t Task) DueInstant(loc *time.Location) (time.Time, bool) {
	if t.DueDate == "" {
		return time.Time{}, false
	}
	clock := t.DueTime
	if clock == "" {
		clock = EndOfDayTime
	}
	instant, err := time.ParseInLocation(DueDateLayout+"T"+DueTimeLayout, t.DueDate+"T"+clock, loc)
	if err != nil {
		return time.Time{}, false
	}
	return instant, true
}

// SortTime is the clock value used for intra-day ordering.
func (t Task) SortTime() string {
	if t.DueTime == "" {
		return EndOfDayTime
	}
	return t.DueTime
}

type CreateTaskInput struct {
	TaskName    string
	Description string
	DueDate     string
	DueTime     string
	Priority    Priority
	Category    string
	Tags        []string
	Color       string
}

// UpdateTaskInput carries a partial update; the *Set flags distinguish
// "field absent" from "field explicitly cleared".
type UpdateTaskInput struct {
	TaskName    *string
	Description *string
	DueDate     *string
	DueDateSet  bool
	DueTime     *string
	DueTimeSet  bool
	Priority    *Priority
	Category    *string
	Tags        []string
	TagsSet     bool
	Color       *string
	Completed   *bool
}

// TouchesSchedule reports whether applying the update can change when the
// task's reminders should fire.
func (u UpdateTaskInput) TouchesSchedule() bool {
	return u.DueDateSet || u.DueTimeSet || u.Completed != nil
}

// NormalizeTags trims entries, drops empties and suppresses duplicates
// case-insensitively, keeping first-seen casing and order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
