package jwtauth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bannerkit/banners/internal/banners/domain/models"
)

func TestTokenRoundTrip(t *testing.T) {
	u := models.User{ //nolint:exhaustruct
		Username: "alice",
		Role:     "admin",
	}

	token, err := GetToken(u, time.Hour, "secret")
	require.NoError(t, err)

	role, err := ValidateTokenRole(token, "secret")
	require.NoError(t, err)
	require.Equal(t, "admin", role)
}

func TestWrongSecret(t *testing.T) {
	u := models.User{Username: "alice", Role: "user"} //nolint:exhaustruct

	token, err := GetToken(u, time.Hour, "secret")
	require.NoError(t, err)

	_, err = ValidateTokenRole(token, "other-secret")
	require.Error(t, err)
}

func TestExpiredToken(t *testing.T) {
	u := models.User{Username: "alice", Role: "user"} //nolint:exhaustruct

	token, err := GetToken(u, -time.Minute, "secret")
	require.NoError(t, err)

	_, err = ValidateTokenRole(token, "secret")
	require.Error(t, err)
}

func TestGarbageToken(t *testing.T) {
	_, err := ValidateTokenRole("garbage", "secret")
	require.Error(t, err)
}
