package authservice

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/bannerkit/banners/internal/banners/domain/models"
	"github.com/bannerkit/banners/internal/banners/repository/userrepo"
	"github.com/bannerkit/banners/internal/pkg/config"
	"github.com/bannerkit/banners/internal/pkg/jwtauth"
)

type AuthService struct {
	userRepo Repository
	cfg      config.Auth
}

const (
	adminRole = "admin"
)

var (
	ErrNotAllowed = errors.New("only admins can create admin")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password, so the caller can't tell the two apart.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type Repository interface {
	CreateUser(context.Context, models.User) error
	GetUser(context.Context, string) (models.User, error)
}

func New(userRepo Repository, cfg config.Auth) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// Bootstrap creates the initial admin account from the config so the
// admin-only creation rule has somewhere to start from. An already
// existing account is left alone.
func (as *AuthService) Bootstrap(ctx context.Context) error {
	if as.cfg.AdminUsername == "" {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(as.cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("generate from password error: %w", err)
	}

	u := models.User{ //nolint:exhaustruct
		Username:     as.cfg.AdminUsername,
		PasswordHash: string(hash),
		Role:         adminRole,
	}

	if err := as.userRepo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrAlreadyExists) {
			return nil
		}

		return fmt.Errorf("create admin error: %w", err)
	}

	return nil
}

func (as *AuthService) CreateUser(ctx context.Context, req CreateUserRequest) (string, error) {
	if req.Role == adminRole { // только админы могут создавать админов
		isAdmin, err := as.Auth(req.Token)
		if err != nil {
			return "", fmt.Errorf("auth error: %w", err)
		}

		if !isAdmin {
			return "", ErrNotAllowed
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("generate from password error: %w", err)
	}

	var u models.User

	u.Username = req.Username
	u.PasswordHash = string(hash)
	u.Role = req.Role
	u.Tags = req.Tags
	u.Feature = req.Feature

	err = as.userRepo.CreateUser(ctx, u)
	if err != nil {
		return "", fmt.Errorf("create user error: %w", err)
	}

	token, err := jwtauth.GetToken(u, as.cfg.TTL, as.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("can't get token error: %w", err)
	}

	return token, nil
}

func (as *AuthService) Auth(token string) (bool, error) {
	role, err := jwtauth.ValidateTokenRole(token, as.cfg.Secret)
	if err != nil {
		return false, fmt.Errorf("validate token role error: %w", err)
	}

	return role == adminRole, nil
}

func (as *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	u, err := as.userRepo.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return "", ErrInvalidCredentials
		}

		return "", fmt.Errorf("get user error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := jwtauth.GetToken(u, as.cfg.TTL, as.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("can't get token error: %w", err)
	}

	return token, nil
}
