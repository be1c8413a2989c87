package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/lead-capture/api/internal/dto"
	"github.com/octobees/lead-capture/api/internal/service"
)

const (
	emailStatusSent    = "sent"
	emailStatusDelayed = "delayed"
)

// Submitter runs one lead submission to a terminal outcome.
type Submitter interface {
	Submit(ctx context.Context, req dto.SubmissionRequest) (service.Result, error)
}

// LeadsHandler exposes the lead form submission and the operator listing.
type LeadsHandler struct {
	submissions Submitter
	leads       *service.LeadsService
	log         *slog.Logger
}

// NewLeadsHandler creates a new handler instance.
func NewLeadsHandler(submissions Submitter, leads *service.LeadsService, log *slog.Logger) *LeadsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &LeadsHandler{submissions: submissions, leads: leads, log: log}
}

// Submit handles POST /leads requests.
func (h *LeadsHandler) Submit(c echo.Context) error {
	var req dto.SubmissionRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid request payload")
	}

	ctx := c.Request().Context()
	res, err := h.submissions.Submit(ctx, req)
	switch {
	case errors.Is(err, service.ErrSubmissionInFlight):
		return Error(c, http.StatusConflict, "submission already in progress")
	case errors.Is(err, service.ErrPersistence):
		return Error(c, http.StatusServiceUnavailable, "unable to save submission")
	case err != nil:
		h.log.ErrorContext(ctx, "submission failed", slog.Any("error", err))
		return Error(c, http.StatusInternalServerError, "unable to process submission")
	}

	switch res.Outcome {
	case service.OutcomeRejectedValidation:
		return ErrorWithData(c, http.StatusUnprocessableEntity, "invalid submission", dto.ValidationResponse{Errors: res.ValidationErrors})
	case service.OutcomePartialSuccess:
		return Success(c, http.StatusCreated, "submission received; confirmation email may be delayed", dto.SubmissionResponse{
			Lead:        res.Lead,
			Outcome:     string(res.Outcome),
			EmailStatus: emailStatusDelayed,
		})
	default:
		return Success(c, http.StatusCreated, "submission received", dto.SubmissionResponse{
			Lead:        res.Lead,
			Outcome:     string(res.Outcome),
			EmailStatus: emailStatusSent,
		})
	}
}

// List handles GET /admin/leads requests.
func (h *LeadsHandler) List(c echo.Context) error {
	filter := dto.LeadListFilter{
		Industry: strings.TrimSpace(c.QueryParam("industry")),
		Page:     parseIntDefault(c.QueryParam("page"), 1),
		PerPage:  parseIntDefault(c.QueryParam("per_page"), 20),
	}

	leads, applied, err := h.leads.ListLeads(c.Request().Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrUnknownIndustry) {
			return Error(c, http.StatusBadRequest, "unknown industry")
		}
		h.log.ErrorContext(c.Request().Context(), "list leads failed", slog.Any("error", err))
		return Error(c, http.StatusInternalServerError, "failed to list leads")
	}

	return Success(c, http.StatusOK, "leads retrieved", dto.LeadListResponse{
		Items:   leads,
		Page:    applied.Page,
		PerPage: applied.PerPage,
	})
}

func parseIntDefault(input string, fallback int) int {
	if input == "" {
		return fallback
	}
	if value, err := strconv.Atoi(input); err == nil {
		return value
	}
	return fallback
}
