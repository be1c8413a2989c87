package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/lead-capture/api/internal/dto"
	"github.com/octobees/lead-capture/api/internal/entity"
)

// ErrLeadConstraint is returned when the insert violates a table constraint.
var ErrLeadConstraint = errors.New("lead violates table constraint")

// LeadsRepository describes persistence operations for leads.
type LeadsRepository interface {
	Insert(ctx context.Context, lead entity.NewLead) (*entity.Lead, error)
	List(ctx context.Context, filter dto.LeadListFilter) ([]entity.Lead, error)
}

// pgxPool is the subset of *pgxpool.Pool used by repositories.
type pgxPool interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
}

var _ pgxPool = (*pgxpool.Pool)(nil)

const leadColumns = `id, name, email, industry, session_id, submitted_at, created_at, updated_at`

// PGXLeadsRepository implements LeadsRepository with pgx.
type PGXLeadsRepository struct {
	pool pgxPool
}

// NewPGXLeadsRepository instantiates a leads repository.
func NewPGXLeadsRepository(pool *pgxpool.Pool) *PGXLeadsRepository {
	return &PGXLeadsRepository{pool: pool}
}

// Insert writes exactly one lead row and returns it with generated fields.
func (r *PGXLeadsRepository) Insert(ctx context.Context, lead entity.NewLead) (*entity.Lead, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO leads (name, email, industry, session_id, submitted_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING `+leadColumns,
		lead.Name, lead.Email, lead.Industry, lead.SessionID, lead.SubmittedAt)

	stored, err := scanLead(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && isConstraintViolation(pgErr.Code) {
			return nil, fmt.Errorf("%w: %s", ErrLeadConstraint, pgErr.ConstraintName)
		}
		return nil, fmt.Errorf("insert lead: %w", err)
	}
	return stored, nil
}

// List returns leads ordered by creation date (desc).
func (r *PGXLeadsRepository) List(ctx context.Context, filter dto.LeadListFilter) ([]entity.Lead, error) {
	args := make([]any, 0, 3)
	query := `SELECT ` + leadColumns + ` FROM leads`
	if filter.Industry != "" {
		args = append(args, filter.Industry)
		query += fmt.Sprintf(` WHERE industry = $%d`, len(args))
	}
	args = append(args, filter.PerPage, (filter.Page-1)*filter.PerPage)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]entity.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead row: %w", err)
		}
		leads = append(leads, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}

func scanLead(row pgx.Row) (*entity.Lead, error) {
	var lead entity.Lead
	if err := row.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Email,
		&lead.Industry,
		&lead.SessionID,
		&lead.SubmittedAt,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &lead, nil
}

// Class 23 is integrity constraint violation.
func isConstraintViolation(code string) bool {
	return len(code) == 5 && code[:2] == "23"
}
