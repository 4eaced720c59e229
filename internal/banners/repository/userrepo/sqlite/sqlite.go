package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/bannerkit/banners/internal/banners/domain/models"
	"github.com/bannerkit/banners/internal/banners/repository/userrepo"
	"github.com/bannerkit/banners/internal/pkg/config"
	"github.com/bannerkit/banners/internal/pkg/sqlitetools"
)

type UsersSQLiteRepo struct {
	db *sql.DB
}

func New(ctx context.Context, cfg config.SQLiteDB) (UsersSQLiteRepo, error) {
	db, err := sqlitetools.Connect(ctx, cfg)
	if err != nil {
		return UsersSQLiteRepo{}, fmt.Errorf("connect to db error: %w", err)
	}

	if err := sqlitetools.ApplyMigration(db, cfg); err != nil {
		return UsersSQLiteRepo{}, fmt.Errorf("apply migration error: %w", err)
	}

	return UsersSQLiteRepo{
		db: db,
	}, nil
}

func (ur UsersSQLiteRepo) CreateUser(ctx context.Context, u models.User) (err error) { //nolint:nonamedreturns
	tagsJSON, err := json.Marshal(u.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags error: %w", err)
	}

	tx, err := ur.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = sqlitetools.CommitOrRollback(tx, err, "create")
	}()

	query, args, err := squirrel.Insert("users").
		Columns("username", "password_hash", "user_role", "feature_id", "tag_ids").
		Values(u.Username, u.PasswordHash, u.Role, u.Feature, string(tagsJSON)).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	_, err = tx.ExecContext(ctx, query, args...)
	if err != nil {
		var sqliteErr *msqlite.Error
		if errors.As(err, &sqliteErr) {
			// другие коды будут добавлены по необходимости.
			switch sqliteErr.Code() { //nolint:gocritic
			case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
				return userrepo.ErrAlreadyExists
			}
		}

		return fmt.Errorf("exec error: %w", err)
	}

	return nil
}

func (ur UsersSQLiteRepo) GetUser(ctx context.Context, username string) (models.User, error) {
	query, args, err := squirrel.
		Select("id", "username", "password_hash", "user_role", "feature_id", "tag_ids").
		From("users").
		Where(squirrel.Eq{"username": username}).ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("to sql error: %w", err)
	}

	var (
		u        models.User
		tagsJSON string
	)

	if err := ur.db.QueryRowContext(ctx, query, args...).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Feature, &tagsJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return u, userrepo.ErrNotFound
		}

		return u, fmt.Errorf("scan error: %w", err)
	}

	if err := json.Unmarshal([]byte(tagsJSON), &u.Tags); err != nil {
		return models.User{}, fmt.Errorf("unmarshal tags error: %w", err)
	}

	return u, nil
}

func (ur UsersSQLiteRepo) Shutdown(ctx context.Context) error {
	done := make(chan error)

	go func() {
		done <- ur.db.Close()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("context error: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("close db error: %w", err)
		}

		return nil
	}
}
