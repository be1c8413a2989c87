package dto

import (
	"time"

	"github.com/octobees/lead-capture/api/internal/entity"
)

// SubmissionRequest is the lead form payload.
type SubmissionRequest struct {
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Industry    string     `json:"industry"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	SessionID   string     `json:"session_id,omitempty"`
}

// SubmissionResponse is returned once a lead has been stored.
type SubmissionResponse struct {
	Lead        *entity.Lead `json:"lead"`
	Outcome     string       `json:"outcome"`
	EmailStatus string       `json:"email_status"`
}

// ValidationResponse lists field-level problems keyed by field name.
type ValidationResponse struct {
	Errors map[string]string `json:"errors"`
}

// LeadListFilter contains query parameters for the operator listing endpoint.
type LeadListFilter struct {
	Industry string
	Page     int
	PerPage  int
}

// LeadListResponse wraps a page of leads.
type LeadListResponse struct {
	Items   []entity.Lead `json:"items"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
}
