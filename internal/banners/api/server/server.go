package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bannerkit/banners/internal/banners/domain/models"
	"github.com/bannerkit/banners/internal/banners/services/authservice"
	"github.com/bannerkit/banners/internal/banners/services/bannerservice"
	"github.com/bannerkit/banners/internal/pkg/config"
	"github.com/bannerkit/banners/pkg/logger"
)

const tokenHeader = "token"

type Server struct {
	serv          *http.Server
	bannerService BannerService
	authService   AuthService
}

type BannerService interface {
	GetBanner(context.Context, bannerservice.GetBannerRequest) ([]models.Banner, error)
	GetBannerByID(context.Context, int) (models.Banner, error)
	CreateBanner(context.Context, models.Banner) (int, error)
	DeleteBanner(context.Context, int) error
	UpdateBanner(context.Context, int, bannerservice.UpdateBannerRequest) error
	Shutdown(context.Context) error
}

type AuthService interface {
	CreateUser(context.Context, authservice.CreateUserRequest) (string, error)
	Auth(string) (bool, error)
	Login(context.Context, string, string) (string, error)
}

func New(cfg config.Server, bs BannerService, authService AuthService, lg logger.Logger) *Server {
	s := &Server{ //nolint:exhaustruct
		bannerService: bs,
		authService:   authService,
	}

	r := chi.NewRouter()
	r.Use(loggingMiddleware(lg))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth", s.PostAuth)
		r.Post("/user", s.PostUser)
		r.Get("/user_banner", s.GetUserBanner)
		r.Get("/banner", s.GetBanner)
		r.Post("/banner", s.PostBanner)
		r.Get("/banner/{id}", s.GetBannerID)
		r.Patch("/banner/{id}", s.PatchBannerID)
		r.Delete("/banner/{id}", s.DeleteBannerID)
	})

	s.serv = &http.Server{ //nolint:exhaustruct
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error)

	go func() {
		if err := s.serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			close(errCh)
		}
	}()

	select {
	case <-ctx.Done():
		ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
		defer cancel()

		if err := s.Shutdown(ctxS); err != nil { //nolint:contextcheck
			return fmt.Errorf("context error: %w server error %w", ctxS.Err(), err)
		}

		if !errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("context cancelled error: %w", ctx.Err())
		}

		return nil
	case err := <-errCh:
		return fmt.Errorf("listen and serve error: %w", err)
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.serv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown server error: %w", err)
	}

	return nil
}

// authorize checks the token header. With admin set it also demands the
// admin role. Reports whether the request may proceed; the response is
// already written when it may not.
func (s *Server) authorize(w http.ResponseWriter, r *http.Request, admin bool) bool {
	token := r.Header.Get(tokenHeader)
	if token == "" {
		handleError(w, errors.New("token required"), http.StatusUnauthorized)

		return false
	}

	isAdmin, err := s.authService.Auth(token)
	if err != nil {
		handleError(w, fmt.Errorf("authorization error: %w", err), http.StatusUnauthorized)

		return false
	}

	if admin && !isAdmin {
		w.WriteHeader(http.StatusForbidden)

		return false
	}

	return true
}

// GET /banner — список баннеров с фильтрацией по фиче и/или тегу.
func (s *Server) GetBanner(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	if !s.authorize(w, r, true) {
		return
	}

	req := bannerservice.GetBannerRequest{ //nolint:exhaustruct
		FeatureID: -1,
		IsAdmin:   true,
	}

	if v := r.URL.Query().Get("feature_id"); v != "" {
		featureID, err := strconv.Atoi(v)
		if err != nil {
			handleError(w, fmt.Errorf("invalid feature_id: %w", err), http.StatusBadRequest)

			return
		}

		req.FeatureID = featureID
	}

	if v := r.URL.Query().Get("tag_id"); v != "" {
		tagID, err := strconv.Atoi(v)
		if err != nil {
			handleError(w, fmt.Errorf("invalid tag_id: %w", err), http.StatusBadRequest)

			return
		}

		req.Tags = []int{tagID}
	}

	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			handleError(w, errors.New("invalid limit"), http.StatusBadRequest)

			return
		}

		req.Limit = limit
	}

	if v := r.URL.Query().Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			handleError(w, errors.New("invalid offset"), http.StatusBadRequest)

			return
		}

		req.Offset = offset
	}

	banners, err := s.bannerService.GetBanner(r.Context(), req)
	if err != nil {
		handleError(w, fmt.Errorf("get banner error: %w", err), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	if err := enc.Encode(banners); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}
}

// GET /banner/{id} — получение баннера по идентификатору.
func (s *Server) GetBannerID(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	if !s.authorize(w, r, true) {
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, fmt.Errorf("invalid banner id: %w", err), http.StatusBadRequest)

		return
	}

	b, err := s.bannerService.GetBannerByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, bannerservice.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)

			return
		}

		handleError(w, fmt.Errorf("get banner error: %w", err), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	if err := enc.Encode(b); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}
}

// POST /banner — создание нового баннера.
func (s *Server) PostBanner(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	if !s.authorize(w, r, true) {
		return
	}

	var b PostBannerRequest

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&b); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	if b.Content == nil || b.FeatureID == nil || b.TagIDs == nil {
		handleError(w, errors.New("tag_ids, feature_id and content are required"), http.StatusBadRequest)

		return
	}

	bn := models.Banner{ //nolint:exhaustruct
		FeatureID: *b.FeatureID,
		Tags:      *b.TagIDs,
		Content:   *b.Content,
		Active:    true,
	}

	if b.IsActive != nil {
		bn.Active = *b.IsActive
	}

	id, err := s.bannerService.CreateBanner(r.Context(), bn)
	if err != nil {
		handleError(w, fmt.Errorf("create banner error: %w", err), http.StatusInternalServerError)

		return
	}

	resp := CreateBannerResponse{id}

	bts, err := json.Marshal(resp)
	if err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusCreated)
	w.Write(bts) //nolint:errcheck
}

// PATCH /banner/{id} — частичное обновление баннера.
func (s *Server) PatchBannerID(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	if !s.authorize(w, r, true) {
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, fmt.Errorf("invalid banner id: %w", err), http.StatusBadRequest)

		return
	}

	var b PatchBannerRequest

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&b); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	req := bannerservice.UpdateBannerRequest{
		FeatureID: b.FeatureID,
		Active:    b.IsActive,
		Content:   b.Content,
		Tags:      b.TagIDs,
	}

	if err := s.bannerService.UpdateBanner(r.Context(), id, req); err != nil {
		if errors.Is(err, bannerservice.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)

			return
		}

		handleError(w, fmt.Errorf("update banner error: %w", err), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusOK)
}

// DELETE /banner/{id} — удаление баннера по идентификатору.
func (s *Server) DeleteBannerID(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	if !s.authorize(w, r, true) {
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, fmt.Errorf("invalid banner id: %w", err), http.StatusBadRequest)

		return
	}

	if err := s.bannerService.DeleteBanner(r.Context(), id); err != nil {
		if errors.Is(err, bannerservice.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)

			return
		}

		handleError(w, fmt.Errorf("delete banner error: %w", err), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GET /user_banner — получение баннера для пользователя.
func (s *Server) GetUserBanner(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	token := r.Header.Get(tokenHeader)
	if token == "" {
		handleError(w, errors.New("token required"), http.StatusUnauthorized)

		return
	}

	if _, err := s.authService.Auth(token); err != nil {
		handleError(w, fmt.Errorf("authorization error: %w", err), http.StatusUnauthorized)

		return
	}

	tagID, err := strconv.Atoi(r.URL.Query().Get("tag_id"))
	if err != nil {
		handleError(w, fmt.Errorf("invalid tag_id: %w", err), http.StatusBadRequest)

		return
	}

	featureID, err := strconv.Atoi(r.URL.Query().Get("feature_id"))
	if err != nil {
		handleError(w, fmt.Errorf("invalid feature_id: %w", err), http.StatusBadRequest)

		return
	}

	// пользовательская ручка отдает только активные баннеры, даже админу
	req := bannerservice.GetBannerRequest{ //nolint:exhaustruct
		FeatureID: featureID,
		Tags:      []int{tagID},
	}

	banners, err := s.bannerService.GetBanner(r.Context(), req)
	if err != nil {
		handleError(w, fmt.Errorf("get banner error: %w", err), http.StatusInternalServerError)

		return
	}

	if len(banners) == 0 {
		w.WriteHeader(http.StatusNotFound)

		return
	}

	i := rand.Intn(len(banners)) //nolint:gosec
	content := banners[i].Content

	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	if err := enc.Encode(content); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}
}

// POST /auth — аутентификация пользователя.
func (s *Server) PostAuth(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	var b AuthRequest

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&b); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	if b.Password == nil || b.Username == nil {
		handleError(w, errors.New("not enough parameters to auth user"), http.StatusBadRequest)

		return
	}

	token, err := s.authService.Login(r.Context(), *b.Username, *b.Password)
	if err != nil {
		if errors.Is(err, authservice.ErrInvalidCredentials) {
			handleError(w, fmt.Errorf("login error: %w", err), http.StatusUnauthorized)

			return
		}

		handleError(w, fmt.Errorf("login error: %w", err), http.StatusInternalServerError)

		return
	}

	resp := AuthUserResponse{Token: token}

	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	if err := enc.Encode(resp); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}
}

// POST /user — создание пользователя.
func (s *Server) PostUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	var b PostUserRequest

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&b); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	if b.Password == nil || b.Username == nil || b.FeatureID == nil || b.TagIDs == nil || b.Role == nil {
		handleError(w, errors.New("not enough parameters to create user"), http.StatusBadRequest)

		return
	}

	req := authservice.CreateUserRequest{
		Username: *b.Username,
		Password: *b.Password,
		Role:     *b.Role,
		Tags:     *b.TagIDs,
		Feature:  *b.FeatureID,
		Token:    r.Header.Get(tokenHeader),
	}

	token, err := s.authService.CreateUser(r.Context(), req)
	if err != nil {
		handleError(w, fmt.Errorf("create user error: %w", err), http.StatusUnauthorized)

		return
	}

	resp := CreateUserResponse{Token: token}

	bts, err := json.Marshal(resp)
	if err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusCreated)
	w.Write(bts) //nolint:errcheck
}

func handleError(w http.ResponseWriter, err error, code int) {
	w.WriteHeader(code)

	e := Error{err.Error()}

	w.Write(e.ToJSON()) //nolint:errcheck
}
