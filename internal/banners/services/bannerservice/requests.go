package bannerservice

type GetBannerRequest struct {
	FeatureID int
	Tags      []int
	Offset    int
	Limit     int
	IsAdmin   bool
}

type UpdateBannerRequest struct {
	FeatureID *int
	Tags      []int
	Active    *bool
	Content   map[string]interface{}
}
