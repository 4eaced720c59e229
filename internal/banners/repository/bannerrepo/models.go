package bannerrepo

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("banner not found")

type GetBannerRequest struct {
	FeatureID  int
	Tags       []int
	Offset     int
	Limit      int
	OnlyActive bool
}

// UpdateBannerRequest carries a partial update. Nil fields stay untouched,
// so an update never clobbers what the caller did not send.
type UpdateBannerRequest struct {
	FeatureID *int
	Tags      []int
	Active    *bool
	Content   map[string]interface{}
	UpdatedAt time.Time
}
