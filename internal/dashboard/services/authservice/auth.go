package authservice

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/domain/models"
	repo "github.com/Leopold1975/crypto_dashboard/internal/dashboard/repository/userrepo"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/config"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/jwtauth"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/mailer"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/validate"
	"github.com/Leopold1975/crypto_dashboard/pkg/logger"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotVerified        = errors.New("email is not verified")
	ErrInvalidToken       = errors.New("invalid or expired verification token")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("user not found")
)

type Repository interface {
	CreateUser(context.Context, models.User) (int64, error)
	GetUserByEmail(context.Context, string) (models.User, error)
	GetUser(context.Context, int64) (models.User, error)
	SetEmailVerified(ctx context.Context, email string, at time.Time) error
	CreateVerificationToken(context.Context, models.VerificationToken) error
	UseVerificationToken(ctx context.Context, token string) (models.VerificationToken, error)
}

type AuthService struct {
	userRepo Repository
	mailer   mailer.Mailer
	cfg      config.Auth
	lg       logger.Logger
	now      func() time.Time
}

func New(userRepo Repository, m mailer.Mailer, cfg config.Auth, lg logger.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		mailer:   m,
		cfg:      cfg,
		lg:       lg,
		now:      time.Now,
	}
}

func (as *AuthService) Register(ctx context.Context, req RegisterRequest) (models.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	if err := validate.Struct(req); err != nil {
		return models.User{}, err //nolint:wrapcheck
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("generate from password error: %w", err)
	}

	u := models.User{ //nolint:exhaustruct
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		CreatedAt:    as.now(),
	}

	u.ID, err = as.userRepo.CreateUser(ctx, u)
	if err != nil {
		if errors.Is(err, repo.ErrAlreadyExists) {
			return models.User{}, ErrUserExists
		}

		return models.User{}, fmt.Errorf("create user error: %w", err)
	}

	if err := as.sendVerification(ctx, u); err != nil {
		as.lg.Errorf("send verification to %s error: %s", u.Email, err)
	}

	return u, nil
}

// ResendVerification mails a fresh token. Unknown and already verified
// addresses are silently accepted so the endpoint does not reveal which accounts exist.
func (as *AuthService) ResendVerification(ctx context.Context, req ResendRequest) error {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := validate.Struct(req); err != nil {
		return err //nolint:wrapcheck
	}

	u, err := as.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}

		return fmt.Errorf("get user error: %w", err)
	}

	if u.EmailVerified != nil {
		return nil
	}

	return as.sendVerification(ctx, u)
}

func (as *AuthService) sendVerification(ctx context.Context, u models.User) error {
	vt := models.VerificationToken{
		Identifier: u.Email,
		Token:      uuid.NewString(),
		Expires:    as.now().Add(as.cfg.VerifyTTL),
	}

	if err := as.userRepo.CreateVerificationToken(ctx, vt); err != nil {
		return fmt.Errorf("create verification token error: %w", err)
	}

	link := strings.TrimRight(as.cfg.BaseURL, "/") + "/v1/auth/verify?token=" + url.QueryEscape(vt.Token)

	msg := mailer.Message{
		To:      u.Email,
		ToName:  u.Name,
		Subject: "Confirm your email",
		Text:    "Open this link to confirm your email: " + link,
		HTML:    `<p>Open <a href="` + link + `">this link</a> to confirm your email.</p>`,
	}

	if err := as.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send mail error: %w", err)
	}

	return nil
}

// Verify consumes the token and marks its email as verified.
func (as *AuthService) Verify(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidToken
	}

	vt, err := as.userRepo.UseVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, repo.ErrTokenNotFound) {
			return ErrInvalidToken
		}

		return fmt.Errorf("use verification token error: %w", err)
	}

	now := as.now()
	if vt.Expired(now) {
		return ErrInvalidToken
	}

	if err := as.userRepo.SetEmailVerified(ctx, vt.Identifier, now); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrInvalidToken
		}

		return fmt.Errorf("set email verified error: %w", err)
	}

	return nil
}

func (as *AuthService) Login(ctx context.Context, req LoginRequest) (string, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := validate.Struct(req); err != nil {
		return "", err //nolint:wrapcheck
	}

	u, err := as.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrInvalidCredentials
		}

		return "", fmt.Errorf("get user error: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password))
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if as.cfg.RequireVerified && u.EmailVerified == nil {
		return "", ErrNotVerified
	}

	token, err := jwtauth.GetToken(u, as.cfg.TTL, as.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("can't get token error: %w", err)
	}

	return token, nil
}

// Auth returns the id of the user the session token belongs to.
func (as *AuthService) Auth(token string) (int64, error) {
	id, err := jwtauth.ValidateTokenUser(token, as.cfg.Secret)
	if err != nil {
		return 0, errors.Join(ErrUnauthorized, err)
	}

	return id, nil
}

func (as *AuthService) Me(ctx context.Context, userID int64) (models.User, error) {
	u, err := as.userRepo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.User{}, ErrNotFound
		}

		return models.User{}, fmt.Errorf("get user error: %w", err)
	}

	return u, nil
}

func (as *AuthService) TTL() time.Duration {
	return as.cfg.TTL
}
