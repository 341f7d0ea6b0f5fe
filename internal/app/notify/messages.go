// Package notify builds the notification email subjects and bodies.
package notify

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/subash43e/taskapp/internal/core/domain"
)

const signature = "---\nSent from your Task Management App"

// ReminderMessage builds the reminder email for a task.
func ReminderMessage(task domain.Task) (subject, body string) {
	subject = "Task Reminder: " + task.TaskName

	due := task.DueDate
	if task.DueTime != "" {
		due = task.DueDate + " at " + FormatClock(task.DueTime)
	}

	var b strings.Builder
	b.WriteString("You have an upcoming task:\n\n")
	fmt.Fprintf(&b, "Task: %s\n", task.TaskName)
	fmt.Fprintf(&b, "Due: %s\n", due)
	fmt.Fprintf(&b, "Category: %s\n", orDefault(task.Category, "General"))
	fmt.Fprintf(&b, "Priority: %s\n\n", orDefault(string(task.Priority), "Medium"))
	b.WriteString("Don't forget to complete it on time!\n\n")
	b.WriteString(signature)
	return subject, b.String()
}

// CompletionMessage builds the congratulation email sent when a task is
// marked complete.
func CompletionMessage(task domain.Task, completedAt time.Time) (subject, body string) {
	subject = "Task Completed: " + task.TaskName

	var b strings.Builder
	b.WriteString("Congratulations! You've completed a task.\n\n")
	fmt.Fprintf(&b, "Task: %s\n", task.TaskName)
	fmt.Fprintf(&b, "Category: %s\n", orDefault(task.Category, "General"))
	fmt.Fprintf(&b, "Priority: %s\n", orDefault(string(task.Priority), "Medium"))
	fmt.Fprintf(&b, "Completed At: %s\n\n", completedAt.Format("2006-01-02 15:04"))
	b.WriteString("Keep up the great work!\n\n")
	b.WriteString(signature)
	return subject, b.String()
}

// DigestMessage builds the daily digest covering today's and the coming
// week's incomplete tasks. Callers skip empty digests.
func DigestMessage(tasks []domain.Task) (subject, body string) {
	subject = fmt.Sprintf("Daily Task Digest - %d Task%s", len(tasks), plural(len(tasks)))

	var b strings.Builder
	b.WriteString("Here's your daily task summary:\n\n")
	writeTaskList(&b, tasks, "Due")
	b.WriteString("\nHave a productive day!\n\n")
	b.WriteString(signature)
	return subject, b.String()
}

// OverdueMessage builds one batched email for all overdue tasks.
func OverdueMessage(tasks []domain.Task) (subject, body string) {
	subject = fmt.Sprintf("Overdue Tasks - %d Task%s Need Attention", len(tasks), plural(len(tasks)))

	var b strings.Builder
	fmt.Fprintf(&b, "You have %d overdue task%s:\n\n", len(tasks), plural(len(tasks)))
	writeTaskList(&b, tasks, "Was due")
	b.WriteString("\nPlease review and complete these tasks as soon as possible.\n\n")
	b.WriteString(signature)
	return subject, b.String()
}

// TestMessage is sent from the settings screen to verify a provider setup.
func TestMessage() (subject, body string) {
	return "Test Notification",
		"This is a test notification from your task manager.\n\n" + signature
}

// FormatClock renders a HH:MM value as 12-hour time, e.g. "09:30" -> "9:30 AM".
func FormatClock(clock string) string {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return clock
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return clock
	}
	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%s %s", display, parts[1], meridiem)
}

func writeTaskList(b *strings.Builder, tasks []domain.Task, dueLabel string) {
	for i, task := range tasks {
		due := task.DueDate
		if task.DueTime != "" {
			due += " at " + FormatClock(task.DueTime)
		}
		fmt.Fprintf(b, "%d. %s\n", i+1, task.TaskName)
		fmt.Fprintf(b, "   %s: %s\n", dueLabel, due)
		fmt.Fprintf(b, "   Priority: %s\n", orDefault(string(task.Priority), "Medium"))
		fmt.Fprintf(b, "   Category: %s\n\n", orDefault(task.Category, "General"))
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
