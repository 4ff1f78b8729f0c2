package service

import (
	"context"

	"notekeeper/internal/domain"
	"notekeeper/internal/repository"
)

// TaskService coordinates task operations, always scoped to the owning user.
type TaskService interface {
	CreateTask(ctx context.Context, userID int64, text string) (*domain.Task, error)
	ListTasks(ctx context.Context, userID int64) ([]domain.Task, error)
	UpdateTask(ctx context.Context, userID, taskID int64, text string, done bool) (*domain.Task, error)
	DeleteTask(ctx context.Context, userID, taskID int64) error
}

type taskService struct {
	tasks repository.TaskRepository
}

func NewTaskService(tasks repository.TaskRepository) TaskService {
	return &taskService{tasks: tasks}
}

func (s *taskService) CreateTask(ctx context.Context, userID int64, text string) (*domain.Task, error) {
	task := &domain.Task{
		UserID: userID,
		Text:   text,
	}
	if _, err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) ListTasks(ctx context.Context, userID int64) ([]domain.Task, error) {
	return s.tasks.ListByUser(ctx, userID)
}

func (s *taskService) UpdateTask(ctx context.Context, userID, taskID int64, text string, done bool) (*domain.Task, error) {
	aff, err := s.tasks.Update(ctx, &domain.Task{
		ID:     taskID,
		UserID: userID,
		Text:   text,
		Done:   done,
	})
	if err != nil {
		return nil, err
	}
	if aff == 0 {
		return nil, ErrNotOwned
	}
	// re-read so the caller gets the stored row, created_at included
	return s.tasks.GetByID(ctx, taskID, userID)
}

func (s *taskService) DeleteTask(ctx context.Context, userID, taskID int64) error {
	_, err := s.tasks.Delete(ctx, taskID, userID)
	return err
}
