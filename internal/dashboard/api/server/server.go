package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/domain/models"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/services/alertservice"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/services/authservice"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/services/feedservice"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/services/marketservice"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/services/noteservice"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/services/portfolioservice"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/config"
	"github.com/Leopold1975/crypto_dashboard/pkg/logger"
	"github.com/shopspring/decimal"
)

type AuthService interface {
	Register(context.Context, authservice.RegisterRequest) (models.User, error)
	ResendVerification(context.Context, authservice.ResendRequest) error
	Verify(ctx context.Context, token string) error
	Login(context.Context, authservice.LoginRequest) (string, error)
	Auth(token string) (int64, error)
	Me(ctx context.Context, userID int64) (models.User, error)
	TTL() time.Duration
}

type MarketService interface {
	Coins(context.Context, marketservice.CoinsRequest) ([]models.Coin, error)
	Coin(ctx context.Context, id, currency string) (models.CoinDetails, error)
	Chart(context.Context, marketservice.ChartRequest) ([]models.PricePoint, error)
	Trending(context.Context) ([]models.TrendingCoin, error)
	Prices(context.Context, marketservice.PricesRequest) (map[string]decimal.Decimal, error)
	Global(ctx context.Context, currency string) (models.GlobalMetrics, error)
	Listings(ctx context.Context, limit int, currency string) ([]models.Listing, error)
	FearGreed(ctx context.Context, limit int) ([]models.FearGreed, error)
}

type NoteService interface {
	CreateTag(ctx context.Context, userID int64, req noteservice.TagRequest) (models.Tag, error)
	ListTags(ctx context.Context, userID int64) ([]models.Tag, error)
	RenameTag(ctx context.Context, userID, tagID int64, req noteservice.TagRequest) (models.Tag, error)
	DeleteTag(ctx context.Context, userID, tagID int64) error
	CreateNote(ctx context.Context, userID int64, req noteservice.CreateNoteRequest) (models.Note, error)
	GetNote(ctx context.Context, userID, noteID int64) (models.Note, error)
	ListNotes(context.Context, noteservice.ListNotesRequest) ([]models.Note, error)
	UpdateNote(ctx context.Context, userID, noteID int64, req noteservice.UpdateNoteRequest) (models.Note, error)
	DeleteNote(ctx context.Context, userID, noteID int64) error
}

type PortfolioService interface {
	CreatePortfolio(ctx context.Context, userID int64, req portfolioservice.PortfolioRequest) (models.Portfolio, error)
	ListPortfolios(ctx context.Context, userID int64) ([]models.Portfolio, error)
	GetPortfolio(ctx context.Context, userID, portfolioID int64) (models.Portfolio, error)
	RenamePortfolio(ctx context.Context, userID, portfolioID int64,
		req portfolioservice.PortfolioRequest) (models.Portfolio, error)
	DeletePortfolio(ctx context.Context, userID, portfolioID int64) error
	ListAssets(ctx context.Context, userID, portfolioID int64) ([]models.Asset, error)
	AddAsset(ctx context.Context, userID, portfolioID int64, req portfolioservice.AssetRequest) (models.Asset, error)
	UpdateAsset(ctx context.Context, userID, portfolioID, assetID int64,
		req portfolioservice.UpdateAssetRequest) (models.Asset, error)
	DeleteAsset(ctx context.Context, userID, portfolioID, assetID int64) error
	Summary(ctx context.Context, userID, portfolioID int64, currency string) (portfolioservice.Summary, error)
}

type FeedService interface {
	ListPosts(context.Context, feedservice.ListPostsRequest) ([]models.Post, error)
	GetPost(ctx context.Context, postID, viewerID int64) (models.Post, error)
	CreatePost(ctx context.Context, userID int64, req feedservice.PostRequest) (models.Post, error)
	UpdatePost(ctx context.Context, userID, postID int64, req feedservice.PostRequest) (models.Post, error)
	DeletePost(ctx context.Context, userID, postID int64) error
	ListComments(ctx context.Context, postID int64) ([]models.Comment, error)
	AddComment(ctx context.Context, userID, postID int64, req feedservice.CommentRequest) (models.Comment, error)
	DeleteComment(ctx context.Context, userID, commentID int64) error
	ToggleLike(ctx context.Context, userID, postID int64) (feedservice.LikeResult, error)
}

type AlertService interface {
	CreateAlert(ctx context.Context, userID int64, req alertservice.AlertRequest) (models.PriceAlert, error)
	ListAlerts(ctx context.Context, userID int64) ([]models.PriceAlert, error)
	DeleteAlert(ctx context.Context, userID, alertID int64) error
	Check(ctx context.Context, userID int64) ([]alertservice.TriggeredAlert, error)
}

type Services struct {
	Auth       AuthService
	Market     MarketService
	Notes      NoteService
	Portfolios PortfolioService
	Feed       FeedService
	Alerts     AlertService
}

type Server struct {
	serv             *http.Server
	authService      AuthService
	marketService    MarketService
	noteService      NoteService
	portfolioService PortfolioService
	feedService      FeedService
	alertService     AlertService
	limiter          *rateLimiter
	secureCookie     bool
	lg               logger.Logger
}

func New(cfg config.Config, svc Services, lg logger.Logger) *Server {
	s := &Server{ //nolint:exhaustruct
		authService:      svc.Auth,
		marketService:    svc.Market,
		noteService:      svc.Notes,
		portfolioService: svc.Portfolios,
		feedService:      svc.Feed,
		alertService:     svc.Alerts,
		limiter:          newRateLimiter(cfg.RateLimit),
		secureCookie:     cfg.Auth.SecureCookie,
		lg:               lg,
	}

	s.serv = &http.Server{ //nolint:exhaustruct
		Addr:         cfg.Server.Addr,
		Handler:      s.routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

func (s *Server) Handler() http.Handler {
	return s.serv.Handler
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
	ctxS, cancel := context.WithTimeout(ctx, s.serv.IdleTimeout)
	defer cancel()

	if err := s.serv.Shutdown(ctxS); err != nil {
		return fmt.Errorf("shutdown server error: %w", err)
	}

	return nil
}
