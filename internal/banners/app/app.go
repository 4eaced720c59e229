package app

import (
	"context"
	"fmt"
	"time"

	"github.com/bannerkit/banners/internal/banners/api/server"
	br "github.com/bannerkit/banners/internal/banners/repository/bannerrepo/sqlite"
	ur "github.com/bannerkit/banners/internal/banners/repository/userrepo/sqlite"
	"github.com/bannerkit/banners/internal/banners/services/authservice"
	"github.com/bannerkit/banners/internal/banners/services/bannerservice"
	"github.com/bannerkit/banners/internal/pkg/config"
	"github.com/bannerkit/banners/pkg/logger"
)

type Server interface {
	Start(context.Context) error
	Shutdown(context.Context) error
}

type Storage interface {
	Shutdown(context.Context) error
}

type BannersApp struct {
	s        Server
	lg       logger.Logger
	cfg      config.Config
	storages []Storage
}

func New(ctx context.Context, cfg config.Config) (BannersApp, error) {
	lg, err := logger.New(cfg.Logger)
	if err != nil {
		return BannersApp{}, fmt.Errorf("can't get logger error: %w", err)
	}

	bannerRepo, err := br.New(ctx, cfg.SQLiteDB)
	if err != nil {
		return BannersApp{}, fmt.Errorf("sqlite banner repo initializing error: %w", err)
	}

	bannerService := bannerservice.New(bannerRepo, lg)

	userRepo, err := ur.New(ctx, cfg.SQLiteDB)
	if err != nil {
		return BannersApp{}, fmt.Errorf("sqlite user repo initializing error: %w", err)
	}

	authService := authservice.New(userRepo, cfg.Auth)

	if err := authService.Bootstrap(ctx); err != nil {
		return BannersApp{}, fmt.Errorf("bootstrap admin error: %w", err)
	}

	s := server.New(cfg.Server, bannerService, authService, lg)

	return BannersApp{
		s:        s,
		lg:       lg,
		cfg:      cfg,
		storages: []Storage{bannerService, userRepo},
	}, nil
}

func (ba *BannersApp) Run(ctx context.Context) {
	ba.lg.Infof("STARTED SERVER ON %s", ba.cfg.Server.Addr)

	go func() {
		if err := ba.s.Start(ctx); err != nil {
			ba.lg.Errorf("server start error: %s", err.Error())

			return
		}
	}()

	<-ctx.Done()

	ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
	defer cancel()

	if err := ba.Stop(ctxS); err != nil { //nolint:contextcheck
		ba.lg.Errorf("server shutdown error: %s", err.Error())
	}
}

func (ba *BannersApp) Stop(ctx context.Context) error {
	if err := ba.s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	for _, st := range ba.storages {
		if err := st.Shutdown(ctx); err != nil {
			return fmt.Errorf("storage shutdown error: %w", err)
		}
	}

	ba.lg.Info("Shutdowned successfully")

	return nil
}
