package sqlitetools

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bannerkit/banners/internal/pkg/config"
)

func TestConnectRequiresPath(t *testing.T) {
	_, err := Connect(context.Background(), config.SQLiteDB{}) //nolint:exhaustruct
	require.Error(t, err)
}

func TestConnectAppliesPragmas(t *testing.T) {
	cfg := config.SQLiteDB{ //nolint:exhaustruct
		Path: filepath.Join(t.TempDir(), "banners.db"),
	}

	db, err := Connect(context.Background(), cfg)
	require.NoError(t, err)

	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	require.Equal(t, "wal", mode)

	var timeout int
	require.NoError(t, db.QueryRow("PRAGMA busy_timeout").Scan(&timeout))
	require.Equal(t, 5000, timeout)

	var fk int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	require.Equal(t, 1, fk)
}

func TestConnectAndMigrate(t *testing.T) {
	cfg := config.SQLiteDB{
		Path:    filepath.Join(t.TempDir(), "banners.db"),
		Version: 2,
		Reload:  false,
	}

	db, err := Connect(context.Background(), cfg)
	require.NoError(t, err)

	defer db.Close()

	require.NoError(t, ApplyMigration(db, cfg))

	// повторное применение не должно ничего ломать
	require.NoError(t, ApplyMigration(db, cfg))

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM banners").Scan(&n))
	require.Zero(t, n)

	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users").Scan(&n))
	require.Zero(t, n)
}

func TestReloadDropsData(t *testing.T) {
	cfg := config.SQLiteDB{
		Path:    filepath.Join(t.TempDir(), "banners.db"),
		Version: 2,
		Reload:  false,
	}

	db, err := Connect(context.Background(), cfg)
	require.NoError(t, err)

	defer db.Close()

	require.NoError(t, ApplyMigration(db, cfg))

	_, err = db.Exec("INSERT INTO banners (feature_id, tag_ids, is_active, content, created_at, updated_at) VALUES (1, '[1]', 1, '{}', 0, 0)")
	require.NoError(t, err)

	cfg.Reload = true
	require.NoError(t, ApplyMigration(db, cfg))

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM banners").Scan(&n))
	require.Zero(t, n)
}
