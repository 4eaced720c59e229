package bannerservice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bannerkit/banners/internal/banners/domain/models"
	repo "github.com/bannerkit/banners/internal/banners/repository/bannerrepo"
)

type fakeRepo struct {
	banners map[int]models.Banner
	nextID  int
	lastGet repo.GetBannerRequest
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		banners: make(map[int]models.Banner),
		nextID:  1,
	}
}

func (f *fakeRepo) CreateBanner(_ context.Context, b models.Banner) (int, error) {
	id := f.nextID
	f.nextID++

	b.ID = int64(id)
	f.banners[id] = b

	return id, nil
}

func (f *fakeRepo) GetBannerByID(_ context.Context, id int) (models.Banner, error) {
	b, ok := f.banners[id]
	if !ok {
		return models.Banner{}, repo.ErrNotFound
	}

	return b, nil
}

func (f *fakeRepo) UpdateBanner(_ context.Context, id int, req repo.UpdateBannerRequest) error {
	b, ok := f.banners[id]
	if !ok {
		return repo.ErrNotFound
	}

	if req.FeatureID != nil {
		b.FeatureID = *req.FeatureID
	}

	if req.Tags != nil {
		b.Tags = req.Tags
	}

	if req.Active != nil {
		b.Active = *req.Active
	}

	if req.Content != nil {
		b.Content = req.Content
	}

	b.UpdatedAt = req.UpdatedAt
	f.banners[id] = b

	return nil
}

func (f *fakeRepo) DeleteBanner(_ context.Context, id int) error {
	if _, ok := f.banners[id]; !ok {
		return repo.ErrNotFound
	}

	delete(f.banners, id)

	return nil
}

func (f *fakeRepo) GetBannerByFeatureAndTags(_ context.Context, req repo.GetBannerRequest) ([]models.Banner, error) {
	f.lastGet = req

	res := make([]models.Banner, 0, len(f.banners))

	for _, b := range f.banners {
		if req.OnlyActive && !b.Active {
			continue
		}

		res = append(res, b)
	}

	return res, nil
}

func (f *fakeRepo) Shutdown(context.Context) error { return nil }

func newTestService(f *fakeRepo) *BannerService {
	return New(f, zap.NewNop().Sugar())
}

func TestCreateBannerStampsTimestamps(t *testing.T) {
	f := newFakeRepo()
	bs := newTestService(f)

	id, err := bs.CreateBanner(context.Background(), models.Banner{ //nolint:exhaustruct
		FeatureID: 1,
		Tags:      []int{1},
		Active:    true,
	})
	require.NoError(t, err)
	require.Equal(t, 1, id)

	b := f.banners[id]
	require.False(t, b.CreatedAt.IsZero())
	require.False(t, b.UpdatedAt.IsZero())
}

func TestGetBannerAdminSeesInactive(t *testing.T) {
	f := newFakeRepo()
	bs := newTestService(f)

	_, err := bs.GetBanner(context.Background(), GetBannerRequest{ //nolint:exhaustruct
		FeatureID: -1,
		IsAdmin:   true,
	})
	require.NoError(t, err)
	require.False(t, f.lastGet.OnlyActive)

	_, err = bs.GetBanner(context.Background(), GetBannerRequest{ //nolint:exhaustruct
		FeatureID: -1,
		IsAdmin:   false,
	})
	require.NoError(t, err)
	require.True(t, f.lastGet.OnlyActive)
}

func TestUpdateBannerNotFound(t *testing.T) {
	bs := newTestService(newFakeRepo())

	err := bs.UpdateBanner(context.Background(), 42, UpdateBannerRequest{}) //nolint:exhaustruct
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateBannerRefreshesUpdatedAt(t *testing.T) {
	f := newFakeRepo()
	bs := newTestService(f)

	id, err := bs.CreateBanner(context.Background(), models.Banner{ //nolint:exhaustruct
		FeatureID: 1,
	})
	require.NoError(t, err)

	created := f.banners[id]

	feature := 2
	require.NoError(t, bs.UpdateBanner(context.Background(), id, UpdateBannerRequest{ //nolint:exhaustruct
		FeatureID: &feature,
	}))

	updated := f.banners[id]
	require.Equal(t, 2, updated.FeatureID)
	require.Equal(t, created.CreatedAt, updated.CreatedAt)
	require.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestDeleteBannerNotFound(t *testing.T) {
	bs := newTestService(newFakeRepo())

	require.ErrorIs(t, bs.DeleteBanner(context.Background(), 42), ErrNotFound)
}

func TestGetBannerByIDNotFound(t *testing.T) {
	bs := newTestService(newFakeRepo())

	_, err := bs.GetBannerByID(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
}
