package storage

import (
	"database/sql"
	"fmt"
	"time"

	"blockpad/internal/domain"
)

// TaskStore implements domain.TaskStore using SQLite.
type TaskStore struct {
	db *DB
}

func NewTaskStore(db *DB) *TaskStore {
	return &TaskStore{db: db}
}

func (s *TaskStore) CreateTask(t *domain.Task) error {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	_, err := s.db.Conn().Exec(
		`INSERT INTO tasks (id, title, notes, due, done, remind, notified, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Notes, nullTime(t.Due), t.Done, t.Remind, t.Notified, t.CreatedAt, t.UpdatedAt,
	)
	return err
}

func (s *TaskStore) GetTask(id string) (*domain.Task, error) {
	row := s.db.Conn().QueryRow(
		`SELECT id, title, notes, due, done, remind, notified, created_at, updated_at FROM tasks WHERE id = ?`, id,
	)
	t, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *TaskStore) ListTasks() ([]domain.Task, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, title, notes, due, done, remind, notified, created_at, updated_at FROM tasks ORDER BY due ASC, created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *TaskStore) UpdateTask(t *domain.Task) error {
	t.UpdatedAt = time.Now()
	_, err := s.db.Conn().Exec(
		`UPDATE tasks SET title = ?, notes = ?, due = ?, done = ?, remind = ?, notified = ?, updated_at = ? WHERE id = ?`,
		t.Title, t.Notes, nullTime(t.Due), t.Done, t.Remind, t.Notified, t.UpdatedAt, t.ID,
	)
	return err
}

func (s *TaskStore) DeleteTask(id string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM tasks WHERE id = ?`, id)
	return err
}

func scanTask(row rowScanner) (*domain.Task, error) {
	t := &domain.Task{}
	var due sql.NullTime
	err := row.Scan(&t.ID, &t.Title, &t.Notes, &due, &t.Done, &t.Remind, &t.Notified, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if due.Valid {
		t.Due = due.Time
	}
	return t, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
