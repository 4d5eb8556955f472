package repository_test

import (
	"context"
	"testing"

	"github.com/ridloal/meoris-storefront/internal/platform/database/dbtest"
	"github.com/ridloal/meoris-storefront/internal/user/domain"
	"github.com/ridloal/meoris-storefront/internal/user/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	db := dbtest.Open(t)
	repo := repository.NewPostgresUserRepository(db)
	ctx := context.Background()

	user := &domain.User{Email: "rani@example.com", Nama: "Rani", PasswordHash: "hash"}
	require.NoError(t, repo.CreateUser(ctx, user))
	assert.NotEmpty(t, user.ID)

	dup := &domain.User{Email: "rani@example.com", Nama: "Other", PasswordHash: "hash"}
	assert.ErrorIs(t, repo.CreateUser(ctx, dup), repository.ErrUserConflict)

	byEmail, err := repo.GetUserByEmail(ctx, "rani@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash)
	assert.True(t, user.CreatedAt.Equal(byEmail.CreatedAt))

	_, err = repo.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	updated, err := repo.UpdateUser(ctx, user.ID, "Rani Putri")
	require.NoError(t, err)
	assert.Equal(t, "Rani Putri", updated.Nama)
	assert.False(t, updated.UpdatedAt.Before(user.UpdatedAt))

	_, err = repo.UpdateUser(ctx, "missing", "x")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}
