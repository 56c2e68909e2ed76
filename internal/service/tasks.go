package service

import (
	"context"
	"strings"

	"github.com/starford/digimark/internal/models"
)

// DefaultTaskLabel is applied to tasks created without a label.
const DefaultTaskLabel = "Task"

// TaskInput is a new task card.
type TaskInput struct {
	Title   string            `json:"title"`
	Label   string            `json:"label"`
	Content string            `json:"content"`
	Status  models.TaskStatus `json:"status"`
}

// ListTasks returns every task in board insertion order.
func (s *Service) ListTasks(ctx context.Context) ([]models.Task, error) {
	return s.repos.Tasks.GetAll(ctx)
}

// TasksByStatus groups tasks into the kanban columns. Every status has an
// entry, possibly empty.
func (s *Service) TasksByStatus(ctx context.Context) (map[models.TaskStatus][]models.Task, error) {
	tasks, err := s.repos.Tasks.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	cols := make(map[models.TaskStatus][]models.Task, 3)
	for _, st := range models.TaskStatuses() {
		cols[st] = []models.Task{}
	}
	for _, t := range tasks {
		cols[t.Status] = append(cols[t.Status], t)
	}
	return cols, nil
}

// CreateTask adds a card. Title is required; label defaults to "Task" and
// status to todo.
func (s *Service) CreateTask(ctx context.Context, in TaskInput) (models.Task, error) {
	t := models.Task{
		ID:      s.newID(),
		Title:   strings.TrimSpace(in.Title),
		Label:   strings.TrimSpace(in.Label),
		Content: in.Content,
		Status:  in.Status,
	}
	if t.Label == "" {
		t.Label = DefaultTaskLabel
	}
	if t.Status == "" {
		t.Status = models.TaskStatusTodo
	}
	if err := t.Validate(); err != nil {
		return models.Task{}, invalid(err)
	}
	if err := s.repos.Tasks.Upsert(ctx, t); err != nil {
		return models.Task{}, err
	}
	s.changed(ctx, ChangeTaskSaved, t.ID)
	return t, nil
}

// MoveTask sets the status of a task. Any status may move to any other.
func (s *Service) MoveTask(ctx context.Context, id string, status models.TaskStatus) (models.Task, error) {
	t, err := s.repos.Tasks.Get(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	t.Status = status
	if err := t.Validate(); err != nil {
		return models.Task{}, invalid(err)
	}
	if err := s.repos.Tasks.Upsert(ctx, t); err != nil {
		return models.Task{}, err
	}
	s.changed(ctx, ChangeTaskSaved, t.ID)
	return t, nil
}

// DeleteTask removes a card. Deleting an absent id is a no-op.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	if err := s.repos.Tasks.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, ChangeTaskDeleted, id)
	return nil
}
