package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/lead-capture/api/internal/entity"
)

var (
	ErrOperatorNotFound   = errors.New("operator not found")
	ErrOperatorEmailTaken = errors.New("operator email already exists")
)

// OperatorsRepository declares persistence operations for operator accounts.
type OperatorsRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.Operator, error)
	Create(ctx context.Context, email, passwordHash, role string) (*entity.Operator, error)
}

const operatorColumns = `id, email, password_hash, role, created_at, updated_at`

// PGXOperatorsRepository implements OperatorsRepository with pgx.
type PGXOperatorsRepository struct {
	pool pgxPool
}

// NewPGXOperatorsRepository instantiates an operators repository.
func NewPGXOperatorsRepository(pool *pgxpool.Pool) *PGXOperatorsRepository {
	return &PGXOperatorsRepository{pool: pool}
}

// FindByEmail fetches an operator by email if present.
func (r *PGXOperatorsRepository) FindByEmail(ctx context.Context, email string) (*entity.Operator, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+operatorColumns+` FROM operators WHERE email = $1`, email)

	operator, err := scanOperator(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOperatorNotFound
		}
		return nil, fmt.Errorf("query operator by email: %w", err)
	}
	return operator, nil
}

// Create inserts a new operator row.
func (r *PGXOperatorsRepository) Create(ctx context.Context, email, passwordHash, role string) (*entity.Operator, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO operators (email, password_hash, role)
        VALUES ($1, $2, $3)
        RETURNING `+operatorColumns, email, passwordHash, role)

	operator, err := scanOperator(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "operators_email_key" {
			return nil, fmt.Errorf("%w: %s", ErrOperatorEmailTaken, email)
		}
		return nil, fmt.Errorf("insert operator: %w", err)
	}
	return operator, nil
}

func scanOperator(row pgx.Row) (*entity.Operator, error) {
	var operator entity.Operator
	if err := row.Scan(
		&operator.ID,
		&operator.Email,
		&operator.PasswordHash,
		&operator.Role,
		&operator.CreatedAt,
		&operator.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &operator, nil
}
