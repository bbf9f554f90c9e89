// Package postgres provides the PostgreSQL implementation of the seed repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opsmith/seedling/internal/domain"
	"github.com/opsmith/seedling/internal/seed"
)

// uniqueViolation is the SQLSTATE code for unique constraint violations.
const uniqueViolation = "23505"

// Repository implements seed.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// BeginTx starts a new database transaction.
func (r *Repository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.db.Begin(ctx)
}

// CreateUserTx inserts a user within the given transaction and reads back the
// generated identifier and timestamps.
func (r *Repository) CreateUserTx(ctx context.Context, tx pgx.Tx, user *domain.User) error {
	query := `
		INSERT INTO users (email, password_hash, role, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := tx.QueryRow(ctx, query,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.FirstName,
		user.LastName,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return seed.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// CreateProjectTx inserts a project within the given transaction and reads
// back the generated identifier and timestamps.
func (r *Repository) CreateProjectTx(ctx context.Context, tx pgx.Tx, project *domain.Project) error {
	query := `
		INSERT INTO projects (name, unique_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := tx.QueryRow(ctx, query,
		project.Name,
		project.UniqueID,
		project.UserID,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err, "projects_unique_id_key") {
			return seed.ErrUniqueIDTaken
		}
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == uniqueViolation &&
		pgErr.ConstraintName == constraint
}
