package bannerservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bannerkit/banners/internal/banners/domain/models"
	repo "github.com/bannerkit/banners/internal/banners/repository/bannerrepo"
	"github.com/bannerkit/banners/pkg/logger"
)

var ErrNotFound = errors.New("banner not found")

type BannerService struct {
	bannerRepo Repository
	lg         logger.Logger
}

type Repository interface {
	CreateBanner(context.Context, models.Banner) (int, error)
	GetBannerByID(context.Context, int) (models.Banner, error)
	UpdateBanner(context.Context, int, repo.UpdateBannerRequest) error
	DeleteBanner(context.Context, int) error
	GetBannerByFeatureAndTags(context.Context, repo.GetBannerRequest) ([]models.Banner, error)
	Shutdown(context.Context) error
}

func New(bannerRepo Repository, lg logger.Logger) *BannerService {
	return &BannerService{
		bannerRepo: bannerRepo,
		lg:         lg,
	}
}

func (bs *BannerService) GetBanner(ctx context.Context, req GetBannerRequest) ([]models.Banner, error) {
	repoReq := repo.GetBannerRequest{
		FeatureID:  req.FeatureID,
		Tags:       req.Tags,
		Offset:     req.Offset,
		Limit:      req.Limit,
		OnlyActive: !req.IsAdmin,
	}

	banners, err := bs.bannerRepo.GetBannerByFeatureAndTags(ctx, repoReq)
	if err != nil {
		return nil, fmt.Errorf("get banner error: %w", err)
	}

	return banners, nil
}

func (bs *BannerService) GetBannerByID(ctx context.Context, id int) (models.Banner, error) {
	b, err := bs.bannerRepo.GetBannerByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Banner{}, ErrNotFound
		}

		return models.Banner{}, fmt.Errorf("get banner error: %w", err)
	}

	return b, nil
}

func (bs *BannerService) CreateBanner(ctx context.Context, b models.Banner) (int, error) {
	b.CreatedAt = time.Now()
	b.UpdatedAt = time.Now()

	id, err := bs.bannerRepo.CreateBanner(ctx, b)
	if err != nil {
		return 0, fmt.Errorf("create banner error: %w", err)
	}

	return id, nil
}

func (bs *BannerService) DeleteBanner(ctx context.Context, id int) error {
	if err := bs.bannerRepo.DeleteBanner(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}

		return fmt.Errorf("delete banner error: %w", err)
	}

	return nil
}

func (bs *BannerService) UpdateBanner(ctx context.Context, id int, req UpdateBannerRequest) error {
	repoReq := repo.UpdateBannerRequest{
		FeatureID: req.FeatureID,
		Tags:      req.Tags,
		Active:    req.Active,
		Content:   req.Content,
		UpdatedAt: time.Now(),
	}

	if err := bs.bannerRepo.UpdateBanner(ctx, id, repoReq); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}

		return fmt.Errorf("update banner error: %w", err)
	}

	return nil
}

func (bs *BannerService) Shutdown(ctx context.Context) error {
	if err := bs.bannerRepo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown banner repo error: %w", err)
	}

	return nil
}
