// Package seed creates the initial administrative user and its project.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/opsmith/seedling/internal/domain"
	"github.com/opsmith/seedling/internal/pkg/ctxlog"
	"golang.org/x/crypto/bcrypt"
)

// Input contains the records to create. All values come from configuration.
type Input struct {
	AdminEmail     string
	AdminPassword  string
	AdminFirstName string
	AdminLastName  string

	ProjectName     string
	ProjectUniqueID string

	// BcryptCost is the bcrypt work factor. Zero means bcrypt.DefaultCost.
	BcryptCost int
}

// Result summarizes a completed seed run.
type Result struct {
	RunID   string
	Admin   *domain.User
	Project *domain.Project
}

// Service runs the seed procedure.
type Service struct {
	repo Repository
}

// NewService creates a new seed service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Run hashes the admin password and creates the admin user and the project
// inside a single transaction. A failure on either insert rolls back both,
// so a failed run never leaves an orphaned user behind. The stored password
// is only ever the bcrypt hash.
func (s *Service) Run(ctx context.Context, input Input) (*Result, error) {
	log := ctxlog.FromContext(ctx)
	runID := uuid.New().String()

	cost := input.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.AdminPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}

	user := &domain.User{
		Email:        input.AdminEmail,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		FirstName:    input.AdminFirstName,
		LastName:     input.AdminLastName,
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			log.Error("failed to rollback transaction", "error", err)
		}
	}()

	if err := s.repo.CreateUserTx(ctx, tx, user); err != nil {
		return nil, fmt.Errorf("create admin user: %w", err)
	}

	project := &domain.Project{
		Name:     input.ProjectName,
		UniqueID: input.ProjectUniqueID,
		UserID:   user.ID,
	}

	if err := s.repo.CreateProjectTx(ctx, tx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	log.Info("seed run finished",
		"run_id", runID,
		"admin_id", user.ID,
		"project_id", project.ID,
	)

	return &Result{
		RunID:   runID,
		Admin:   user,
		Project: project,
	}, nil
}
