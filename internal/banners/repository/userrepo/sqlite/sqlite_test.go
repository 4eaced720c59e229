package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bannerkit/banners/internal/banners/domain/models"
	"github.com/bannerkit/banners/internal/banners/repository/userrepo"
	"github.com/bannerkit/banners/internal/pkg/config"
)

func newTestRepo(t *testing.T) UsersSQLiteRepo {
	t.Helper()

	cfg := config.SQLiteDB{
		Path:    filepath.Join(t.TempDir(), "banners.db"),
		Version: 2,
		Reload:  false,
	}

	ur, err := New(context.Background(), cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, ur.Shutdown(context.Background()))
	})

	return ur
}

func TestCreateAndGetUser(t *testing.T) {
	ur := newTestRepo(t)
	ctx := context.Background()

	u := models.User{ //nolint:exhaustruct
		Username:     "alice",
		PasswordHash: "hash",
		Role:         "user",
		Feature:      5,
		Tags:         []int{1, 2},
	}

	require.NoError(t, ur.CreateUser(ctx, u))

	got, err := ur.GetUser(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, u.Username, got.Username)
	require.Equal(t, u.PasswordHash, got.PasswordHash)
	require.Equal(t, u.Role, got.Role)
	require.Equal(t, u.Feature, got.Feature)
	require.Equal(t, u.Tags, got.Tags)
	require.NotZero(t, got.ID)
}

func TestCreateUserDuplicate(t *testing.T) {
	ur := newTestRepo(t)
	ctx := context.Background()

	u := models.User{ //nolint:exhaustruct
		Username:     "bob",
		PasswordHash: "hash",
		Role:         "user",
	}

	require.NoError(t, ur.CreateUser(ctx, u))
	require.ErrorIs(t, ur.CreateUser(ctx, u), userrepo.ErrAlreadyExists)
}

func TestGetUserNotFound(t *testing.T) {
	ur := newTestRepo(t)

	_, err := ur.GetUser(context.Background(), "nobody")
	require.ErrorIs(t, err, userrepo.ErrNotFound)
}
