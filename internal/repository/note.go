package repository

import (
	"context"

	"notekeeper/internal/domain"
)

// NoteRepository exposes persistence operations for Note entities.
// Update and Delete are scoped by owner and report how many rows changed:
// targeting another user's note affects zero rows rather than erroring.
type NoteRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, note *domain.Note) (int64, error)
	GetByID(ctx context.Context, id, userID int64) (*domain.Note, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Note, error)
	Update(ctx context.Context, note *domain.Note) (int64, error)
	Delete(ctx context.Context, id, userID int64) (int64, error)
}
