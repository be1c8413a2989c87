package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/octobees/lead-capture/api/internal/dto"
	"github.com/octobees/lead-capture/api/internal/entity"
	"github.com/octobees/lead-capture/api/internal/logger"
	"github.com/octobees/lead-capture/api/internal/metrics"
)

// State is a step of the submission flow.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StatePersisting State = "persisting"
	StateGenerating State = "generating"
	StateSending    State = "sending"
	StateDone       State = "done"
)

// Outcome is the terminal result of one submission.
type Outcome string

const (
	OutcomeSuccess            Outcome = "success"
	OutcomePartialSuccess     Outcome = "partial_success"
	OutcomeRejectedValidation Outcome = "rejected_validation"
	OutcomeRejectedDB         Outcome = "rejected_db"
)

const (
	defaultGenerateTimeout = 15 * time.Second
	defaultSendTimeout     = 10 * time.Second
)

// LeadStore inserts a lead and returns the stored row.
type LeadStore interface {
	Insert(ctx context.Context, lead entity.NewLead) (*entity.Lead, error)
}

// Generator produces confirmation copy for an industry. Implementations
// return usable fallback content alongside any error.
type Generator interface {
	Generate(ctx context.Context, industry string) (Content, error)
}

// Mailer delivers the confirmation email.
type Mailer interface {
	Send(ctx context.Context, recipient, name string, content Content) error
}

// Result describes how a submission ended.
type Result struct {
	Outcome          Outcome
	Lead             *entity.Lead
	ValidationErrors ValidationErrors
	Personalized     bool
	DeliveryErr      error
	Trace            []State
}

// Option customizes a SubmissionService.
type Option func(*SubmissionService)

// WithGenerateTimeout bounds the content generation step.
func WithGenerateTimeout(d time.Duration) Option {
	return func(s *SubmissionService) {
		if d > 0 {
			s.generateTimeout = d
		}
	}
}

// WithSendTimeout bounds the email step.
func WithSendTimeout(d time.Duration) Option {
	return func(s *SubmissionService) {
		if d > 0 {
			s.sendTimeout = d
		}
	}
}

// WithMetrics records outcomes and stage failures.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *SubmissionService) { s.metrics = m }
}

// WithClock overrides the time source used for submitted_at.
func WithClock(now func() time.Time) Option {
	return func(s *SubmissionService) {
		if now != nil {
			s.now = now
		}
	}
}

// SubmissionService runs one lead submission from validation to a terminal outcome.
type SubmissionService struct {
	store     LeadStore
	generator Generator
	mailer    Mailer
	log       *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time

	generateTimeout time.Duration
	sendTimeout     time.Duration

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewSubmissionService wires the orchestrator.
func NewSubmissionService(store LeadStore, generator Generator, mailer Mailer, log *slog.Logger, opts ...Option) *SubmissionService {
	if log == nil {
		log = slog.Default()
	}
	s := &SubmissionService{
		store:           store,
		generator:       generator,
		mailer:          mailer,
		log:             log,
		now:             time.Now,
		generateTimeout: defaultGenerateTimeout,
		sendTimeout:     defaultSendTimeout,
		inFlight:        make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit processes a form submission. A nil error is returned for Success,
// PartialSuccess and validation rejections; the latter carries field errors in
// Result. Persistence failures return an error wrapping ErrPersistence, and a
// duplicate concurrent submission returns ErrSubmissionInFlight.
func (s *SubmissionService) Submit(ctx context.Context, req dto.SubmissionRequest) (Result, error) {
	res := Result{Trace: []State{StateIdle, StateValidating}}

	normalized, verrs := ValidateSubmission(req)
	if verrs != nil {
		res.ValidationErrors = verrs
		s.finish(ctx, &res, OutcomeRejectedValidation)
		return res, nil
	}

	key := inFlightKey(normalized)
	if !s.acquire(key) {
		return res, ErrSubmissionInFlight
	}
	defer s.release(key)

	log := s.log.With(slog.String("email", logger.MaskEmail(normalized.Email)), slog.String("industry", normalized.Industry))

	res.Trace = append(res.Trace, StatePersisting)
	lead, err := s.store.Insert(ctx, toNewLead(normalized, s.now()))
	if err != nil {
		s.metrics.StageFailure(string(StatePersisting))
		log.ErrorContext(ctx, "lead insert failed", slog.String("stage", string(StatePersisting)), slog.Any("error", err))
		s.finish(ctx, &res, OutcomeRejectedDB)
		return res, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	res.Lead = lead

	// The lead is stored; the remaining steps run to completion even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	res.Trace = append(res.Trace, StateGenerating)
	content := s.generate(ctx, log, normalized.Industry)
	res.Personalized = content.Personalized

	res.Trace = append(res.Trace, StateSending)
	if err := s.send(ctx, normalized, content); err != nil {
		s.metrics.StageFailure(string(StateSending))
		log.ErrorContext(ctx, "confirmation email failed", slog.String("stage", string(StateSending)),
			slog.String("lead_id", lead.ID.String()), slog.Any("error", err))
		res.DeliveryErr = err
		s.finish(ctx, &res, OutcomePartialSuccess)
		return res, nil
	}

	s.finish(ctx, &res, OutcomeSuccess)
	return res, nil
}

func (s *SubmissionService) generate(ctx context.Context, log *slog.Logger, industry string) (content Content) {
	ctx, cancel := context.WithTimeout(ctx, s.generateTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			s.metrics.StageFailure(string(StateGenerating))
			log.ErrorContext(ctx, "content generation panicked", slog.String("stage", string(StateGenerating)), slog.Any("panic", r))
			content = FallbackContent()
		}
	}()

	if s.generator == nil {
		return FallbackContent()
	}
	content, err := s.generator.Generate(ctx, industry)
	if err != nil {
		s.metrics.StageFailure(string(StateGenerating))
		log.WarnContext(ctx, "using fallback content", slog.String("stage", string(StateGenerating)), slog.Any("error", err))
	}
	if strings.TrimSpace(content.Text) == "" {
		return FallbackContent()
	}
	return content
}

func (s *SubmissionService) send(ctx context.Context, req dto.SubmissionRequest, content Content) error {
	if s.mailer == nil {
		return fmt.Errorf("%w: no mailer configured", ErrDelivery)
	}
	ctx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()
	return s.mailer.Send(ctx, req.Email, req.Name, content)
}

func (s *SubmissionService) finish(ctx context.Context, res *Result, outcome Outcome) {
	res.Outcome = outcome
	res.Trace = append(res.Trace, StateDone)
	s.metrics.Outcome(string(outcome))
	s.log.InfoContext(ctx, "submission finished", slog.String("outcome", string(outcome)))
}

func (s *SubmissionService) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[key]; busy {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

func (s *SubmissionService) release(key string) {
	s.mu.Lock()
	delete(s.inFlight, key)
	s.mu.Unlock()
}

func inFlightKey(req dto.SubmissionRequest) string {
	return req.Email + "|" + req.SessionID
}

func toNewLead(req dto.SubmissionRequest, now time.Time) entity.NewLead {
	lead := entity.NewLead{
		Name:        req.Name,
		Email:       req.Email,
		Industry:    req.Industry,
		SubmittedAt: submittedAt(req, now),
	}
	if req.SessionID != "" {
		sessionID := req.SessionID
		lead.SessionID = &sessionID
	}
	return lead
}
