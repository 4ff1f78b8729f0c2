package repository

import (
	"context"

	"notekeeper/internal/domain"
)

// TaskRepository exposes persistence operations for Task entities with the
// same owner scoping rules as NoteRepository.
type TaskRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, task *domain.Task) (int64, error)
	GetByID(ctx context.Context, id, userID int64) (*domain.Task, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Task, error)
	Update(ctx context.Context, task *domain.Task) (int64, error)
	Delete(ctx context.Context, id, userID int64) (int64, error)
}
