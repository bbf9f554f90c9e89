package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/opsmith/seedling/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// stubTx implements just enough of pgx.Tx for the service under test.
type stubTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *stubTx) Commit(_ context.Context) error {
	t.committed = true
	return nil
}

func (t *stubTx) Rollback(_ context.Context) error {
	if t.committed {
		return pgx.ErrTxClosed
	}
	t.rolledBack = true
	return nil
}

// mockRepository implements Repository for testing.
type mockRepository struct {
	tx               *stubTx
	users            []*domain.User
	projects         []*domain.Project
	beginErr         error
	createUserErr    error
	createProjectErr error
}

func (m *mockRepository) BeginTx(_ context.Context) (pgx.Tx, error) {
	if m.beginErr != nil {
		return nil, m.beginErr
	}
	m.tx = &stubTx{}
	return m.tx, nil
}

func (m *mockRepository) CreateUserTx(_ context.Context, _ pgx.Tx, user *domain.User) error {
	if m.createUserErr != nil {
		return m.createUserErr
	}
	user.ID = "test-user-id"
	m.users = append(m.users, user)
	return nil
}

func (m *mockRepository) CreateProjectTx(_ context.Context, _ pgx.Tx, project *domain.Project) error {
	if m.createProjectErr != nil {
		return m.createProjectErr
	}
	project.ID = "test-project-id"
	m.projects = append(m.projects, project)
	return nil
}

func testInput() Input {
	return Input{
		AdminEmail:      "admin@example.com",
		AdminPassword:   "admin123",
		AdminFirstName:  "Admin",
		AdminLastName:   "User",
		ProjectName:     "Default Project",
		ProjectUniqueID: "default-project",
		BcryptCost:      bcrypt.MinCost,
	}
}

func TestRun_CreatesAdminAndProject(t *testing.T) {
	repo := &mockRepository{}
	service := NewService(repo)

	result, err := service.Run(context.Background(), testInput())

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.RunID)

	require.Len(t, repo.users, 1)
	require.Len(t, repo.projects, 1)

	assert.Equal(t, "admin@example.com", result.Admin.Email)
	assert.Equal(t, domain.RoleAdmin, result.Admin.Role)
	assert.Equal(t, "Admin", result.Admin.FirstName)
	assert.Equal(t, "User", result.Admin.LastName)

	assert.Equal(t, "Default Project", result.Project.Name)
	assert.Equal(t, "default-project", result.Project.UniqueID)
	assert.Equal(t, result.Admin.ID, result.Project.UserID, "project must reference the created user")

	assert.True(t, repo.tx.committed, "transaction should be committed")
	assert.False(t, repo.tx.rolledBack)
}

func TestRun_PasswordIsHashed(t *testing.T) {
	repo := &mockRepository{}
	service := NewService(repo)

	result, err := service.Run(context.Background(), testInput())
	require.NoError(t, err)

	assert.NotEqual(t, "admin123", result.Admin.PasswordHash, "plaintext must never be stored")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(result.Admin.PasswordHash), []byte("admin123")))
}

func TestRun_ZeroCostUsesDefault(t *testing.T) {
	repo := &mockRepository{}
	service := NewService(repo)

	input := testInput()
	input.BcryptCost = 0

	result, err := service.Run(context.Background(), input)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(result.Admin.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestRun_EmailTaken(t *testing.T) {
	repo := &mockRepository{createUserErr: ErrEmailTaken}
	service := NewService(repo)

	result, err := service.Run(context.Background(), testInput())

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.True(t, repo.tx.rolledBack, "transaction should be rolled back")
	assert.Empty(t, repo.projects)
}

func TestRun_ProjectFailureRollsBackUser(t *testing.T) {
	repo := &mockRepository{createProjectErr: errors.New("insert failed")}
	service := NewService(repo)

	result, err := service.Run(context.Background(), testInput())

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, repo.tx.rolledBack, "user insert must not survive a project failure")
	assert.False(t, repo.tx.committed)
}

func TestRun_BeginFailure(t *testing.T) {
	repo := &mockRepository{beginErr: errors.New("connection lost")}
	service := NewService(repo)

	result, err := service.Run(context.Background(), testInput())

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Empty(t, repo.users)
}
