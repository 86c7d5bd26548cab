package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"blockpad/internal/domain"
	"blockpad/internal/event"
	"blockpad/internal/log"
)

// ─────────────────────────────────────────────────────────────
// Planner — tasks with due dates and reminder emission
// ─────────────────────────────────────────────────────────────

// Planner manages tasks and emits a reminder event the first time a
// task with reminders enabled passes its due date.
type Planner struct {
	store   domain.TaskStore
	emitter event.Emitter
	logger  *zap.Logger
	sched   *cron.Cron
	now     func() time.Time
}

// New creates a Planner. The reminder schedule is inactive until
// Start is called.
func New(store domain.TaskStore, emitter event.Emitter) *Planner {
	return &Planner{
		store:   store,
		emitter: emitter,
		logger:  log.Get().Named("planner"),
		now:     time.Now,
	}
}

// ── Task CRUD ──────────────────────────────────────────────

type CreateTaskInput struct {
	Title  string    `json:"title"`
	Notes  string    `json:"notes"`
	Due    time.Time `json:"due"`
	Remind bool      `json:"remind"`
}

func (p *Planner) CreateTask(input CreateTaskInput) (*domain.Task, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("task title is required")
	}
	now := p.now()
	task := &domain.Task{
		ID:        uuid.New().String(),
		Title:     input.Title,
		Notes:     input.Notes,
		Due:       input.Due,
		Remind:    input.Remind,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.store.CreateTask(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

type UpdateTaskInput struct {
	Title  *string    `json:"title"`
	Notes  *string    `json:"notes"`
	Due    *time.Time `json:"due"`
	Remind *bool      `json:"remind"`
}

func (p *Planner) UpdateTask(id string, input UpdateTaskInput) (*domain.Task, error) {
	task, err := p.store.GetTask(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load task: %w", err)
	}
	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Notes != nil {
		task.Notes = *input.Notes
	}
	if input.Due != nil {
		task.Due = *input.Due
		// A moved due date gets a fresh reminder.
		task.Notified = false
	}
	if input.Remind != nil {
		task.Remind = *input.Remind
	}
	task.UpdatedAt = p.now()
	if err := p.store.UpdateTask(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// ToggleDone flips a task's done state.
func (p *Planner) ToggleDone(id string) (*domain.Task, error) {
	task, err := p.store.GetTask(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load task: %w", err)
	}
	task.Done = !task.Done
	task.UpdatedAt = p.now()
	if err := p.store.UpdateTask(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

func (p *Planner) DeleteTask(id string) error {
	return p.store.DeleteTask(id)
}

func (p *Planner) ListTasks() ([]domain.Task, error) {
	return p.store.ListTasks()
}

// ── Reminders ──────────────────────────────────────────────

// Start schedules a reminder scan every minute.
func (p *Planner) Start(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc("* * * * *", func() {
		if err := p.Scan(ctx); err != nil {
			p.logger.Warn("reminder scan failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule reminder scan: %w", err)
	}
	c.Start()
	p.sched = c
	p.logger.Info("reminder scan scheduled")
	return nil
}

// Stop halts the reminder schedule if one is running.
func (p *Planner) Stop() {
	if p.sched != nil {
		p.sched.Stop()
		p.sched = nil
	}
}

// Scan emits a task:due event for every open task with reminders
// enabled whose due date has passed. Each task fires at most once; the
// Notified flag is persisted before emitting so a crashed write does
// not repeat the reminder on the next scan.
func (p *Planner) Scan(ctx context.Context) error {
	tasks, err := p.store.ListTasks()
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	now := p.now()
	for i := range tasks {
		task := &tasks[i]
		if task.Done || !task.Remind || task.Notified {
			continue
		}
		if task.Due.IsZero() || task.Due.After(now) {
			continue
		}
		task.Notified = true
		task.UpdatedAt = now
		if err := p.store.UpdateTask(task); err != nil {
			p.logger.Warn("failed to mark task notified",
				zap.String("taskId", task.ID), zap.Error(err))
			continue
		}
		p.emitter.Emit(ctx, event.TaskDue, *task)
		p.logger.Info("task due", zap.String("taskId", task.ID), zap.String("title", task.Title))
	}
	return nil
}
