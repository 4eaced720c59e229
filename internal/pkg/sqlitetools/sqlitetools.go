package sqlitetools

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // file-backed database driver

	"github.com/bannerkit/banners/internal/pkg/config"
	"github.com/bannerkit/banners/migrations"
)

// Connect opens the database file named by cfg.Path. WAL and the busy
// timeout let concurrent request handlers share the file without the
// writers tripping over each other. The pragmas use the _pragma=...
// form, which is the only one this driver applies.
func Connect(ctx context.Context, cfg config.SQLiteDB) (*sql.DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	dsn := filepath.Clean(cfg.Path) +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open db error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()

		return nil, fmt.Errorf("cannot ping db error: %w", err)
	}

	return db, nil
}

func ApplyMigration(db *sql.DB, cfg config.SQLiteDB) error {
	defaultVersion := 0

	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose set dialect error: %w", err)
	}

	if cfg.Reload {
		if err := goose.DownTo(db, ".", int64(defaultVersion)); err != nil {
			return fmt.Errorf("goose down error: %w", err)
		}
	}

	if err := goose.UpTo(db, ".", int64(cfg.Version)); err != nil {
		return fmt.Errorf("goose up error: %w", err)
	}

	return nil
}

func CommitOrRollback(tx *sql.Tx, err error, where string) error {
	if err == nil {
		if errT := tx.Commit(); errT != nil {
			err = fmt.Errorf("commit error: %w", errT)
		}
	} else {
		if errT := tx.Rollback(); errT != nil {
			err = fmt.Errorf("%s error: %w rollback error: %w", where, err, errT)
		} else {
			err = fmt.Errorf("%s error: %w", where, err)
		}
	}

	return err
}
