package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/bannerkit/banners/internal/banners/domain/models"
	repo "github.com/bannerkit/banners/internal/banners/repository/bannerrepo"
	"github.com/bannerkit/banners/internal/pkg/config"
	"github.com/bannerkit/banners/internal/pkg/sqlitetools"
)

type BannersSQLiteRepo struct {
	db *sql.DB
}

func New(ctx context.Context, cfg config.SQLiteDB) (BannersSQLiteRepo, error) {
	db, err := sqlitetools.Connect(ctx, cfg)
	if err != nil {
		return BannersSQLiteRepo{}, fmt.Errorf("connect to db error: %w", err)
	}

	if err := sqlitetools.ApplyMigration(db, cfg); err != nil {
		return BannersSQLiteRepo{}, fmt.Errorf("apply migration error: %w", err)
	}

	return BannersSQLiteRepo{
		db: db,
	}, nil
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func (br BannersSQLiteRepo) CreateBanner(ctx context.Context, //nolint:nonamedreturns
	banner models.Banner,
) (id int, err error) {
	contentJSON, err := json.Marshal(banner.Content)
	if err != nil {
		return 0, fmt.Errorf("marshal content error: %w", err)
	}

	tagsJSON, err := json.Marshal(banner.Tags)
	if err != nil {
		return 0, fmt.Errorf("marshal tags error: %w", err)
	}

	tx, err := br.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = sqlitetools.CommitOrRollback(tx, err, "create")
	}()

	query, args, err := squirrel.Insert("banners").
		Columns("feature_id", "tag_ids", "is_active", "content", "created_at", "updated_at").
		Values(banner.FeatureID, string(tagsJSON), banner.Active, string(contentJSON),
			toMillis(banner.CreatedAt), toMillis(banner.UpdatedAt)).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	row := tx.QueryRowContext(ctx, query, args...)

	err = row.Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("scan error: %w", err)
	}

	return id, nil
}

func (br BannersSQLiteRepo) GetBannerByID(ctx context.Context, bannerID int) (models.Banner, error) {
	query, args, err := squirrel.
		Select("id", "feature_id", "tag_ids", "is_active", "updated_at", "created_at", "content").
		From("banners").
		Where(squirrel.Eq{"id": bannerID}).ToSql()
	if err != nil {
		return models.Banner{}, fmt.Errorf("to sql error: %w", err)
	}

	b, err := scanBanner(br.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Banner{}, repo.ErrNotFound
		}

		return models.Banner{}, err
	}

	return b, nil
}

func (br BannersSQLiteRepo) UpdateBanner(ctx context.Context, bannerID int, //nolint:nonamedreturns
	req repo.UpdateBannerRequest,
) (err error) {
	tx, err := br.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = sqlitetools.CommitOrRollback(tx, err, "update")
	}()

	// id is never writable; only the fields present in the request are.
	ub := squirrel.Update("banners").
		Set("updated_at", toMillis(req.UpdatedAt))

	if req.FeatureID != nil {
		ub = ub.Set("feature_id", *req.FeatureID)
	}

	if req.Tags != nil {
		tagsJSON, errM := json.Marshal(req.Tags)
		if errM != nil {
			return fmt.Errorf("marshal tags error: %w", errM)
		}

		ub = ub.Set("tag_ids", string(tagsJSON))
	}

	if req.Active != nil {
		ub = ub.Set("is_active", *req.Active)
	}

	if req.Content != nil {
		contentJSON, errM := json.Marshal(req.Content)
		if errM != nil {
			return fmt.Errorf("marshal content error: %w", errM)
		}

		ub = ub.Set("content", string(contentJSON))
	}

	query, args, err := ub.Where(squirrel.Eq{"id": bannerID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	affected, err := ct.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}

	if affected == 0 {
		return repo.ErrNotFound
	}

	return nil
}

func (br BannersSQLiteRepo) DeleteBanner(ctx context.Context, bannerID int) (err error) { //nolint:nonamedreturns
	tx, err := br.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = sqlitetools.CommitOrRollback(tx, err, "delete")
	}()

	query, args, err := squirrel.Delete("banners").
		Where(squirrel.Eq{"id": bannerID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	affected, err := ct.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}

	if affected == 0 {
		return repo.ErrNotFound
	}

	return nil
}

func (br BannersSQLiteRepo) GetBannerByFeatureAndTags(ctx context.Context, //nolint:cyclop
	req repo.GetBannerRequest,
) ([]models.Banner, error) {
	sb := squirrel.
		Select("id", "feature_id", "tag_ids", "is_active", "updated_at", "created_at", "content").
		From("banners")

	if req.FeatureID != -1 {
		sb = sb.Where(squirrel.Eq{"feature_id": req.FeatureID})
	}

	// tag_ids is a JSON array; json_each unnests it for the membership test.
	for _, tagID := range req.Tags {
		sb = sb.Where("EXISTS (SELECT 1 FROM json_each(tag_ids) WHERE value = ?)", tagID)
	}

	if req.OnlyActive {
		sb = sb.Where(squirrel.Eq{"is_active": true})
	}

	sb = sb.OrderBy("id ASC")

	// не положительные limit и offset означают "не задано"
	if req.Limit > 0 {
		sb = sb.Limit(uint64(req.Limit))
	} else if req.Offset > 0 {
		sb = sb.Limit(math.MaxInt64) // sqlite requires a LIMIT once OFFSET is used
	}

	if req.Offset > 0 {
		sb = sb.Offset(uint64(req.Offset))
	}

	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := br.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	banners := make([]models.Banner, 0, 10) //nolint:gomnd

	for rows.Next() {
		b, err := scanBanner(rows)
		if err != nil {
			return nil, err
		}

		banners = append(banners, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return banners, nil
}

func (br BannersSQLiteRepo) Shutdown(ctx context.Context) error {
	done := make(chan error)

	go func() {
		done <- br.db.Close()
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

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBanner(row rowScanner) (models.Banner, error) {
	var (
		b           models.Banner
		tagsJSON    string
		contentJSON string
		createdAt   int64
		updatedAt   int64
	)

	err := row.Scan(&b.ID, &b.FeatureID, &tagsJSON, &b.Active, &updatedAt, &createdAt, &contentJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Banner{}, err
		}

		return models.Banner{}, fmt.Errorf("scan error: %w", err)
	}

	if err := json.Unmarshal([]byte(tagsJSON), &b.Tags); err != nil {
		return models.Banner{}, fmt.Errorf("unmarshal tags error: %w", err)
	}

	content := make(map[string]interface{})
	if err := json.Unmarshal([]byte(contentJSON), &content); err != nil {
		return models.Banner{}, fmt.Errorf("unmarshal content error: %w", err)
	}

	b.Content = content
	b.CreatedAt = fromMillis(createdAt)
	b.UpdatedAt = fromMillis(updatedAt)

	return b, nil
}
