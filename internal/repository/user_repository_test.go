package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/nimasrn/storefront-backoffice/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, repo *UserRepository, email, name, label string, role model.Role) *model.User {
	t.Helper()
	u := &model.User{Email: email, Name: name, Label: label, Role: role}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestUserRepository_GetByID(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t).DB)
	ctx := context.Background()

	t.Run("existing user", func(t *testing.T) {
		u := seedUser(t, repo, "ana@example.com", "Ana", "vip", model.RoleAdmin)

		got, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", got.Email)
		assert.Equal(t, "vip", got.Label)
		assert.True(t, got.IsAdmin())
		assert.Equal(t, int64(0), got.Points)
	})

	t.Run("role defaults to user", func(t *testing.T) {
		u := seedUser(t, repo, "budi@example.com", "Budi", "", "")

		got, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RoleUser, got.Role)
		assert.False(t, got.IsAdmin())
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserRepository_AddPoints(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t).DB)
	ctx := context.Background()
	u := seedUser(t, repo, "citra@example.com", "Citra", "", model.RoleUser)

	balance, err := repo.AddPoints(ctx, u.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)

	balance, err = repo.AddPoints(ctx, u.ID, -130)
	require.NoError(t, err)
	assert.Equal(t, int64(-30), balance, "negative balances are allowed")

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(-30), got.Points)

	_, err = repo.AddPoints(ctx, uuid.New(), 5)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_Search(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t).DB)
	ctx := context.Background()

	seedUser(t, repo, "zed@example.com", "Zed", "", model.RoleUser)
	seedUser(t, repo, "ana@example.com", "Ana Putri", "Gold", model.RoleUser)
	seedUser(t, repo, "budi@shop.id", "Budi", "silver", model.RoleAdmin)

	t.Run("empty query lists ordered by email", func(t *testing.T) {
		users, err := repo.Search(ctx, model.UserFilter{})
		require.NoError(t, err)
		require.Len(t, users, 3)
		assert.Equal(t, "ana@example.com", users[0].Email)
		assert.Equal(t, "budi@shop.id", users[1].Email)
		assert.Equal(t, "zed@example.com", users[2].Email)
	})

	t.Run("matches email name and label case-insensitively", func(t *testing.T) {
		users, err := repo.Search(ctx, model.UserFilter{Query: "SHOP"})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "Budi", users[0].Name)

		users, err = repo.Search(ctx, model.UserFilter{Query: "putri"})
		require.NoError(t, err)
		require.Len(t, users, 1)

		users, err = repo.Search(ctx, model.UserFilter{Query: "gold"})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "ana@example.com", users[0].Email)
	})

	t.Run("wildcards are literal", func(t *testing.T) {
		users, err := repo.Search(ctx, model.UserFilter{Query: "%"})
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("limit", func(t *testing.T) {
		users, err := repo.Search(ctx, model.UserFilter{Query: "example", Limit: 1})
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})
}
