package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"notekeeper/internal/domain"
	"notekeeper/internal/repository"
)

const createNotesTable = `
CREATE TABLE IF NOT EXISTS notes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_notes_user_id ON notes(user_id);
`

type NoteRepository struct {
	db *sql.DB
}

func NewNoteRepository(db *sql.DB) repository.NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createNotesTable); err != nil {
		return fmt.Errorf("create notes table: %w", err)
	}
	return nil
}

func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) (int64, error) {
	now := time.Now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO notes (user_id, title, content, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`,
		note.UserID,
		note.Title,
		note.Content,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert note: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("note last insert id: %w", err)
	}
	note.ID = id
	return id, nil
}

// GetByID loads the note, scoped by owner. A foreign or absent id reads as
// not found either way.
func (r *NoteRepository) GetByID(ctx context.Context, id, userID int64) (*domain.Note, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, title, content, created_at, updated_at
FROM notes
WHERE id = ? AND user_id = ?`,
		id,
		userID,
	)
	return scanNote(row)
}

func (r *NoteRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Note, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, title, content, created_at, updated_at
FROM notes
WHERE user_id = ?
ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *note)
	}

	return notes, rows.Err()
}

// Update rewrites title and content for the note, scoped by owner. Returns
// the number of affected rows; zero means the id does not exist for this user.
func (r *NoteRepository) Update(ctx context.Context, note *domain.Note) (int64, error) {
	note.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
UPDATE notes
SET title=?, content=?, updated_at=?
WHERE id=? AND user_id=?`,
		note.Title,
		note.Content,
		note.UpdatedAt,
		note.ID,
		note.UserID,
	)
	if err != nil {
		return 0, fmt.Errorf("update note: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("note update rows affected: %w", err)
	}
	return aff, nil
}

// Delete removes the note, scoped by owner. Deleting an absent or foreign id
// affects zero rows and is not an error.
func (r *NoteRepository) Delete(ctx context.Context, id, userID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id=? AND user_id=?`, id, userID)
	if err != nil {
		return 0, fmt.Errorf("delete note: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("note delete rows affected: %w", err)
	}
	return aff, nil
}

func scanNote(row interface {
	Scan(dest ...any) error
}) (*domain.Note, error) {
	var note domain.Note
	if err := row.Scan(
		&note.ID,
		&note.UserID,
		&note.Title,
		&note.Content,
		&note.CreatedAt,
		&note.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("note not found")
		}
		return nil, fmt.Errorf("scan note: %w", err)
	}
	return &note, nil
}
