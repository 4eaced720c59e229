package server

type CreateBannerResponse struct {
	BannerID int `json:"banner_id"` //nolint:tagliatelle
}

type AuthUserResponse struct {
	Token string `json:"token"`
}

type CreateUserResponse struct {
	Token string `json:"token"`
}
