package tasks

import "time"

// Status is the progress state of a task.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Subtask is a checklist item embedded in its parent task document.
type Subtask struct {
	ID    string `json:"id" bson:"id"`
	Title string `json:"title" bson:"title"`
	Done  bool   `json:"done" bson:"done"`
}

// Task belongs to a project and optionally to an assignee.
type Task struct {
	ID          string     `json:"id" bson:"_id,omitempty"`
	ProjectID   string     `json:"projectId" bson:"projectId"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	AssigneeID  string     `json:"assigneeId,omitempty" bson:"assigneeId,omitempty"`
	Status      Status     `json:"status" bson:"status"`
	DueDate     *time.Time `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	Subtasks    []Subtask  `json:"subtasks" bson:"subtasks"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updatedAt"`
}
