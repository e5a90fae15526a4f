package model

import (
	"time"
)

type TaskStatus string

const (
	StatusPending   TaskStatus = "Pending"
	StatusCompleted TaskStatus = "Completed"
)

// ValidTaskStatus reports whether s is one of the accepted status values.
func ValidTaskStatus(s TaskStatus) bool {
	return s == StatusPending || s == StatusCompleted
}

// Task is owned by exactly one user, fixed at creation. Ownership is never
// transferred.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	UserID      string     `json:"user_id"`

	// Owner projection, populated by joins on read paths.
	OwnerName  *string `json:"owner_name,omitempty"`
	OwnerEmail *string `json:"owner_email,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
