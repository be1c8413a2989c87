package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrValidation matches any ValidationErrors value.
	ErrValidation = errors.New("submission is invalid")
	// ErrPersistence marks a failed lead insert; fatal to the submission.
	ErrPersistence = errors.New("lead could not be stored")
	// ErrGeneration marks a failed or unusable content generation; recovered with fallback text.
	ErrGeneration = errors.New("content generation failed")
	// ErrDelivery marks a failed confirmation email; the lead stays stored.
	ErrDelivery = errors.New("confirmation email not delivered")
	// ErrSubmissionInFlight is returned when the same submission is already being processed.
	ErrSubmissionInFlight = errors.New("submission already in progress")
	// ErrUnknownIndustry is returned when filtering by an industry outside the supported set.
	ErrUnknownIndustry = errors.New("unknown industry")
)

// ValidationErrors maps a field name to a user-facing problem description.
type ValidationErrors map[string]string

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+v[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is reports ErrValidation as a match.
func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}
