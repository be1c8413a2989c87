package entity

import (
	"time"

	"github.com/google/uuid"
)

// Lead is a persisted record of one prospective customer's contact details.
type Lead struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Industry    string    `json:"industry"`
	SessionID   *string   `json:"session_id,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewLead carries the validated fields written by a single insert.
type NewLead struct {
	Name        string
	Email       string
	Industry    string
	SessionID   *string
	SubmittedAt time.Time
}
