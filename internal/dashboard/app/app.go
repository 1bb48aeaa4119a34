package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/api/server"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/providers/coingecko"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/providers/coinmarketcap"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/providers/feargreed"
	ar "github.com/Leopold1975/crypto_dashboard/internal/dashboard/repository/alertrepo/postgres"
	fr "github.com/Leopold1975/crypto_dashboard/internal/dashboard/repository/feedrepo/postgres"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/repository/marketcache/redis"
	nr "github.com/Leopold1975/crypto_dashboard/internal/dashboard/repository/noterepo/postgres"
	pr "github.com/Leopold1975/crypto_dashboard/internal/dashboard/repository/portfoliorepo/postgres"
	ur "github.com/Leopold1975/crypto_dashboard/internal/dashboard/repository/userrepo/postgres"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/services/alertservice"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/services/authservice"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/services/feedservice"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/services/marketservice"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/services/noteservice"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/services/portfolioservice"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/config"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/httptools"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/mailer"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/pgtools"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/redistools"
	"github.com/Leopold1975/crypto_dashboard/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Server interface {
	Start(context.Context) error
	Shutdown(context.Context) error
}

type Cache interface {
	Shutdown(context.Context) error
}

type DashboardApp struct {
	s     Server
	db    *pgxpool.Pool
	cache Cache
	lg    logger.Logger
	cfg   config.Config
}

func New(ctx context.Context, cfg config.Config) (DashboardApp, error) {
	lg, err := logger.New(cfg.Logger)
	if err != nil {
		return DashboardApp{}, fmt.Errorf("can't get logger error: %w", err)
	}

	if err := pgtools.ApplyMigration(cfg.PostgresDB); err != nil {
		return DashboardApp{}, fmt.Errorf("apply migrations error: %w", err)
	}

	db, err := pgtools.Connect(ctx, pgtools.ConnString(cfg.PostgresDB))
	if err != nil {
		return DashboardApp{}, fmt.Errorf("postgres initializing error: %w", err)
	}

	rdb, err := redistools.New(ctx, cfg.RedisCache)
	if err != nil {
		db.Close()

		return DashboardApp{}, fmt.Errorf("redis market cache initializing error: %w", err)
	}

	marketCache := redis.New(rdb, cfg.Market.CacheTTL)

	client := httptools.NewClient(cfg.Market.Timeout)
	marketService := marketservice.New(
		coingecko.New(cfg.Market.CoinGeckoURL, cfg.Market.CoinGeckoKey, client),
		coinmarketcap.New(cfg.Market.CoinMarketCapURL, cfg.Market.CoinMarketCapKey, client),
		feargreed.New(cfg.Market.FearGreedURL, client),
		marketCache,
		cfg.Market.DefaultCurrency,
		lg,
	)

	m := mailer.New(cfg.Mail, lg)
	userRepo := ur.New(db)

	alertService := alertservice.New(ar.New(db), marketService, userRepo, m, cfg.Market.DefaultCurrency, lg)

	if cfg.Alerts.Enabled {
		if err := alertService.Start(ctx, cfg.Alerts.Schedule); err != nil {
			db.Close()
			marketCache.Shutdown(ctx) //nolint:errcheck

			return DashboardApp{}, fmt.Errorf("alert scheduler error: %w", err)
		}
	}

	s := server.New(cfg, server.Services{
		Auth:       authservice.New(userRepo, m, cfg.Auth, lg),
		Market:     marketService,
		Notes:      noteservice.New(nr.New(db), lg),
		Portfolios: portfolioservice.New(pr.New(db), marketService, cfg.Market.DefaultCurrency, lg),
		Feed:       feedservice.New(fr.New(db), lg),
		Alerts:     alertService,
	}, lg)

	return DashboardApp{
		s:     s,
		db:    db,
		cache: marketCache,
		lg:    lg,
		cfg:   cfg,
	}, nil
}

func (da *DashboardApp) Run(ctx context.Context) {
	da.lg.Infof("STARTED SERVER ON %s", da.cfg.Server.Addr)

	go func() {
		if err := da.s.Start(ctx); err != nil {
			da.lg.Errorf("server start error: %s", err.Error())

			return
		}
	}()

	<-ctx.Done()

	ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
	defer cancel()

	if err := da.Stop(ctxS); err != nil { //nolint:contextcheck
		da.lg.Errorf("server shutdown error: %s", err.Error())
	}
}

func (da *DashboardApp) Stop(ctx context.Context) error {
	if err := da.s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if err := da.cache.Shutdown(ctx); err != nil {
		return fmt.Errorf("cache shutdown error: %w", err)
	}

	da.db.Close()

	da.lg.Info("Shutdowned successfully")

	return nil
}
