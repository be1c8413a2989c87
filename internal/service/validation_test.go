package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/octobees/lead-capture/api/internal/dto"
)

func TestValidateSubmission_Valid(t *testing.T) {
	submitted := time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))
	req, errs := ValidateSubmission(dto.SubmissionRequest{
		Name:        "  Ada   Lovelace ",
		Email:       " Ada@Example.COM ",
		Industry:    "Real Estate",
		SessionID:   " sess-1 ",
		SubmittedAt: &submitted,
	})
	if errs != nil {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
	if req.Name != "Ada Lovelace" || req.Email != "ada@example.com" || req.Industry != "real_estate" || req.SessionID != "sess-1" {
		t.Fatalf("unexpected normalization: %+v", req)
	}
	if req.SubmittedAt.Location() != time.UTC || !req.SubmittedAt.Equal(submitted) {
		t.Fatalf("expected submitted_at converted to UTC, got %v", req.SubmittedAt)
	}
}

func TestValidateSubmission_InternationalDomain(t *testing.T) {
	req, errs := ValidateSubmission(dto.SubmissionRequest{Name: "Jo", Email: "jo@münchen.de", Industry: "retail"})
	if errs != nil {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
	if req.Email != "jo@xn--mnchen-3ya.de" {
		t.Fatalf("expected punycode domain, got %s", req.Email)
	}
}

func TestValidateSubmission_FieldErrors(t *testing.T) {
	tests := map[string]struct {
		req    dto.SubmissionRequest
		fields []string
	}{
		"empty payload": {
			req:    dto.SubmissionRequest{},
			fields: []string{"name", "email", "industry"},
		},
		"missing industry": {
			req:    dto.SubmissionRequest{Name: "Ada", Email: "ada@example.com"},
			fields: []string{"industry"},
		},
		"unknown industry": {
			req:    dto.SubmissionRequest{Name: "Ada", Email: "ada@example.com", Industry: "piracy"},
			fields: []string{"industry"},
		},
		"malformed email": {
			req:    dto.SubmissionRequest{Name: "Ada", Email: "ada-at-example.com", Industry: "finance"},
			fields: []string{"email"},
		},
		"email without tld": {
			req:    dto.SubmissionRequest{Name: "Ada", Email: "ada@localhost", Industry: "finance"},
			fields: []string{"email"},
		},
		"email with double at": {
			req:    dto.SubmissionRequest{Name: "Ada", Email: "ada@@example.com", Industry: "finance"},
			fields: []string{"email"},
		},
		"email with bad label": {
			req:    dto.SubmissionRequest{Name: "Ada", Email: "ada@-example.com", Industry: "finance"},
			fields: []string{"email"},
		},
		"name too long": {
			req:    dto.SubmissionRequest{Name: strings.Repeat("a", 201), Email: "ada@example.com", Industry: "finance"},
			fields: []string{"name"},
		},
		"name with nul byte": {
			req:    dto.SubmissionRequest{Name: "Ada\x00", Email: "ada@example.com", Industry: "finance"},
			fields: []string{"name"},
		},
		"name with control character": {
			req:    dto.SubmissionRequest{Name: "Ada\x1b[31m", Email: "ada@example.com", Industry: "finance"},
			fields: []string{"name"},
		},
		"name with invalid utf8": {
			req:    dto.SubmissionRequest{Name: "Ada\xff", Email: "ada@example.com", Industry: "finance"},
			fields: []string{"name"},
		},
		"session with nul byte": {
			req:    dto.SubmissionRequest{Name: "Ada", Email: "ada@example.com", Industry: "finance", SessionID: "s\x00"},
			fields: []string{"session_id"},
		},
		"session too long": {
			req:    dto.SubmissionRequest{Name: "Ada", Email: "ada@example.com", Industry: "finance", SessionID: strings.Repeat("s", 129)},
			fields: []string{"session_id"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, errs := ValidateSubmission(tt.req)
			if len(errs) != len(tt.fields) {
				t.Fatalf("expected %d errors, got %v", len(tt.fields), errs)
			}
			for _, field := range tt.fields {
				if _, ok := errs[field]; !ok {
					t.Fatalf("expected error for %s, got %v", field, errs)
				}
			}
			if !errors.Is(errs, ErrValidation) {
				t.Fatalf("expected validation errors to match ErrValidation")
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{"industry": "industry is required", "email": "email is required"}
	want := "validation failed: email: email is required; industry: industry is required"
	if errs.Error() != want {
		t.Fatalf("expected %q, got %q", want, errs.Error())
	}
}

func TestNormalizeIndustry(t *testing.T) {
	if got := NormalizeIndustry(" Real-Estate "); got != "real_estate" {
		t.Fatalf("expected real_estate, got %s", got)
	}
	if !IsKnownIndustry("finance") || IsKnownIndustry("Finance") {
		t.Fatalf("expected exact match against normalized set")
	}
}
