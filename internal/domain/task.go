package domain

import "time"

// Task is a planner entry. Due is zero for undated tasks.
type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes"`
	Due       time.Time `json:"due"`
	Done      bool      `json:"done"`
	Remind    bool      `json:"remind"`
	Notified  bool      `json:"notified"` // a due reminder has been emitted
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type TaskStore interface {
	CreateTask(t *Task) error
	GetTask(id string) (*Task, error)
	ListTasks() ([]Task, error)
	UpdateTask(t *Task) error
	DeleteTask(id string) error
}
