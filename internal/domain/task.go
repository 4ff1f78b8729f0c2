package domain

import "time"

// Task is a to-do item owned by a single user.
type Task struct {
	ID        int64
	UserID    int64
	Text      string
	Done      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
