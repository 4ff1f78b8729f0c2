package service

import (
	"context"
	"errors"

	"notekeeper/internal/domain"
	"notekeeper/internal/repository"
)

// ErrNotOwned is returned when an update or delete matched no rows for the
// caller. It does not distinguish a missing id from someone else's id.
var ErrNotOwned = errors.New("not found")

// NoteService coordinates note operations, always scoped to the owning user.
type NoteService interface {
	CreateNote(ctx context.Context, userID int64, title, content string) (*domain.Note, error)
	ListNotes(ctx context.Context, userID int64) ([]domain.Note, error)
	UpdateNote(ctx context.Context, userID, noteID int64, title, content string) (*domain.Note, error)
	DeleteNote(ctx context.Context, userID, noteID int64) error
}

type noteService struct {
	notes repository.NoteRepository
}

func NewNoteService(notes repository.NoteRepository) NoteService {
	return &noteService{notes: notes}
}

func (s *noteService) CreateNote(ctx context.Context, userID int64, title, content string) (*domain.Note, error) {
	note := &domain.Note{
		UserID:  userID,
		Title:   title,
		Content: content,
	}
	if _, err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *noteService) ListNotes(ctx context.Context, userID int64) ([]domain.Note, error) {
	return s.notes.ListByUser(ctx, userID)
}

func (s *noteService) UpdateNote(ctx context.Context, userID, noteID int64, title, content string) (*domain.Note, error) {
	aff, err := s.notes.Update(ctx, &domain.Note{
		ID:      noteID,
		UserID:  userID,
		Title:   title,
		Content: content,
	})
	if err != nil {
		return nil, err
	}
	if aff == 0 {
		return nil, ErrNotOwned
	}
	// re-read so the caller gets the stored row, created_at included
	return s.notes.GetByID(ctx, noteID, userID)
}

func (s *noteService) DeleteNote(ctx context.Context, userID, noteID int64) error {
	// zero affected rows is fine: delete is idempotent and must not leak
	// whether the id exists under another user
	_, err := s.notes.Delete(ctx, noteID, userID)
	return err
}
