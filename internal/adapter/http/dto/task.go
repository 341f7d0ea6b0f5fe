package dto

type TaskItem struct {
	ID          string   `json:"id"`
	TaskName    string   `json:"task_name"`
	Description string   `json:"description"`
	DueDate     string   `json:"due_date"`
	DueTime     string   `json:"due_time,omitempty"`
	Priority    string   `json:"priority"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Color       string   `json:"color"`
	Completed   bool     `json:"completed"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

type TaskGroup struct {
	Date  string     `json:"date"`
	Tasks []TaskItem `json:"tasks"`
}

type CreateTaskRequest struct {
	TaskName    string   `json:"task_name" binding:"required,max=255"`
	Description string   `json:"description" binding:"required,max=65535"`
	DueDate     string   `json:"due_date" binding:"required,datetime=2006-01-02"`
	DueTime     string   `json:"due_time" binding:"required,datetime=15:04"`
	Priority    string   `json:"priority" binding:"required,oneof=Low Medium High"`
	Category    string   `json:"category" binding:"required,max=255"`
	Tags        []string `json:"tags" binding:"omitempty,dive,max=64"`
	Color       string   `json:"color" binding:"omitempty,max=32"`
}

type UpdateTaskRequest struct {
	TaskName    *string  `json:"task_name" binding:"omitempty,max=255"`
	Description *string  `json:"description" binding:"omitempty,max=65535"`
	DueDate     *string  `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	DueTime     *string  `json:"due_time" binding:"omitempty,datetime=15:04"`
	Priority    *string  `json:"priority" binding:"omitempty,oneof=Low Medium High"`
	Category    *string  `json:"category" binding:"omitempty,max=255"`
	Tags        []string `json:"tags" binding:"omitempty,dive,max=64"`
	Color       *string  `json:"color" binding:"omitempty,max=32"`
	Completed   *bool    `json:"completed"`
}
