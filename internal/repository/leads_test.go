package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/octobees/lead-capture/api/internal/dto"
	"github.com/octobees/lead-capture/api/internal/entity"
)

type stubPool struct {
	queryRowFunc func(ctx context.Context, query string, args ...any) pgx.Row
	queryFunc    func(ctx context.Context, query string, args ...any) (pgx.Rows, error)
}

func (s *stubPool) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	if s.queryRowFunc != nil {
		return s.queryRowFunc(ctx, query, args...)
	}
	return &stubRow{scan: func(dest ...any) error { return nil }}
}

func (s *stubPool) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	if s.queryFunc != nil {
		return s.queryFunc(ctx, query, args...)
	}
	return nil, errors.New("query not implemented")
}

type stubRow struct {
	scan func(dest ...any) error
}

func (s *stubRow) Scan(dest ...any) error {
	if s.scan != nil {
		return s.scan(dest...)
	}
	return nil
}

type stubRows struct {
	scans []func(dest ...any) error
	idx   int
	err   error
}

func (s *stubRows) Close() {}

func (s *stubRows) Err() error { return s.err }

func (s *stubRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (s *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (s *stubRows) Next() bool {
	if s.err != nil {
		return false
	}
	if s.idx < len(s.scans) {
		s.idx++
		return true
	}
	return false
}

func (s *stubRows) Scan(dest ...any) error {
	if s.idx == 0 || s.idx > len(s.scans) {
		return errors.New("scan called out of order")
	}
	return s.scans[s.idx-1](dest...)
}

func (s *stubRows) Values() ([]any, error) { return nil, nil }

func (s *stubRows) RawValues() [][]byte { return nil }

func (s *stubRows) Conn() *pgx.Conn { return nil }

func fillLead(id uuid.UUID, name, email, industry string) func(dest ...any) error {
	return func(dest ...any) error {
		now := time.Now()
		*dest[0].(*uuid.UUID) = id
		*dest[1].(*string) = name
		*dest[2].(*string) = email
		*dest[3].(*string) = industry
		*dest[4].(**string) = nil
		*dest[5].(*time.Time) = now
		*dest[6].(*time.Time) = now
		*dest[7].(*time.Time) = now
		return nil
	}
}

func TestPGXLeadsRepository_Insert(t *testing.T) {
	id := uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	calls := 0
	var capturedArgs []any
	repo := &PGXLeadsRepository{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			calls++
			capturedArgs = args
			if !strings.Contains(query, "INSERT INTO leads") || !strings.Contains(query, "RETURNING") {
				t.Fatalf("unexpected query: %s", query)
			}
			return &stubRow{scan: fillLead(id, "Ada", "ada@example.com", "finance")}
		},
	}}

	session := "sess-1"
	lead, err := repo.Insert(context.Background(), entity.NewLead{
		Name:        "Ada",
		Email:       "ada@example.com",
		Industry:    "finance",
		SessionID:   &session,
		SubmittedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one insert, got %d", calls)
	}
	if lead.ID != id || lead.Email != "ada@example.com" || lead.Industry != "finance" {
		t.Fatalf("unexpected lead: %+v", lead)
	}
	if len(capturedArgs) != 5 || capturedArgs[0] != "Ada" || capturedArgs[3] != &session {
		t.Fatalf("unexpected insert args: %#v", capturedArgs)
	}
}

func TestPGXLeadsRepository_InsertErrors(t *testing.T) {
	t.Run("constraint violation", func(t *testing.T) {
		repo := &PGXLeadsRepository{pool: &stubPool{
			queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
				return &stubRow{scan: func(dest ...any) error {
					return &pgconn.PgError{Code: "23514", ConstraintName: "leads_name_not_blank"}
				}}
			},
		}}
		_, err := repo.Insert(context.Background(), entity.NewLead{Name: " "})
		if !errors.Is(err, ErrLeadConstraint) {
			t.Fatalf("expected ErrLeadConstraint, got %v", err)
		}
		if !strings.Contains(err.Error(), "leads_name_not_blank") {
			t.Fatalf("expected constraint name in error, got %v", err)
		}
	})

	t.Run("connectivity", func(t *testing.T) {
		boom := errors.New("connection refused")
		repo := &PGXLeadsRepository{pool: &stubPool{
			queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
				return &stubRow{scan: func(dest ...any) error { return boom }}
			},
		}}
		_, err := repo.Insert(context.Background(), entity.NewLead{Name: "Ada"})
		if !errors.Is(err, boom) || errors.Is(err, ErrLeadConstraint) {
			t.Fatalf("expected wrapped connectivity error, got %v", err)
		}
	})
}

func TestPGXLeadsRepository_List(t *testing.T) {
	var capturedQuery string
	var capturedArgs []any
	repo := &PGXLeadsRepository{pool: &stubPool{
		queryFunc: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			capturedQuery = query
			capturedArgs = args
			return &stubRows{scans: []func(dest ...any) error{
				fillLead(uuid.New(), "Ada", "ada@example.com", "finance"),
				fillLead(uuid.New(), "Grace", "grace@example.com", "finance"),
			}}, nil
		},
	}}

	leads, err := repo.List(context.Background(), dto.LeadListFilter{Industry: "finance", Page: 2, PerPage: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(leads) != 2 || leads[1].Name != "Grace" {
		t.Fatalf("unexpected leads: %+v", leads)
	}
	if !strings.Contains(capturedQuery, "WHERE industry = $1") || !strings.Contains(capturedQuery, "LIMIT $2 OFFSET $3") {
		t.Fatalf("unexpected query: %s", capturedQuery)
	}
	if len(capturedArgs) != 3 || capturedArgs[1] != 10 || capturedArgs[2] != 10 {
		t.Fatalf("unexpected args: %#v", capturedArgs)
	}

	repo.pool = &stubPool{
		queryFunc: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			if strings.Contains(query, "WHERE") {
				t.Fatalf("did not expect industry filter: %s", query)
			}
			return &stubRows{err: errors.New("stream broken")}, nil
		},
	}
	if _, err := repo.List(context.Background(), dto.LeadListFilter{Page: 1, PerPage: 20}); err == nil {
		t.Fatalf("expected iteration error")
	}
}
