package seed

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/opsmith/seedling/internal/domain"
)

// Repository defines the storage operations the seeder needs. The Tx variants
// run inside a caller-managed transaction so the user and project are created
// atomically.
type Repository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CreateUserTx(ctx context.Context, tx pgx.Tx, user *domain.User) error
	CreateProjectTx(ctx context.Context, tx pgx.Tx, project *domain.Project) error
}
