package server

// Request bodies use pointer fields so a missing field is distinguishable
// from a zero value; PATCH relies on that for partial updates.

type PostBannerRequest struct {
	Content   *map[string]interface{} `json:"content"`
	FeatureID *int                    `json:"feature_id"` //nolint:tagliatelle
	IsActive  *bool                   `json:"is_active"`  //nolint:tagliatelle
	TagIDs    *[]int                  `json:"tag_ids"`    //nolint:tagliatelle
}

type PatchBannerRequest struct {
	Content   map[string]interface{} `json:"content"`
	FeatureID *int                   `json:"feature_id"` //nolint:tagliatelle
	IsActive  *bool                  `json:"is_active"`  //nolint:tagliatelle
	TagIDs    []int                  `json:"tag_ids"`    //nolint:tagliatelle
}

type AuthRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

type PostUserRequest struct {
	Username  *string `json:"username"`
	Password  *string `json:"password"`
	Role      *string `json:"role"`
	FeatureID *int    `json:"feature_id"` //nolint:tagliatelle
	TagIDs    *[]int  `json:"tag_ids"`    //nolint:tagliatelle
}
