package alertservice

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/domain/models"
	repo "github.com/Leopold1975/crypto_dashboard/internal/dashboard/repository/alertrepo"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/services/marketservice"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/mailer"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/metrics"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/validate"
	"github.com/Leopold1975/crypto_dashboard/pkg/logger"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("price alert not found")

type Repository interface {
	CreateAlert(context.Context, models.PriceAlert) (models.PriceAlert, error)
	ListAlerts(ctx context.Context, userID int64) ([]models.PriceAlert, error)
	ListPending(ctx context.Context, userID int64) ([]models.PriceAlert, error)
	ListAllPending(ctx context.Context) ([]models.PriceAlert, error)
	DeleteAlert(ctx context.Context, userID, alertID int64) error
	MarkTriggered(ctx context.Context, ids []int64, at time.Time) ([]int64, error)
}

type PriceSource interface {
	Prices(context.Context, marketservice.PricesRequest) (map[string]decimal.Decimal, error)
}

type UserSource interface {
	GetUser(ctx context.Context, id int64) (models.User, error)
}

type AlertService struct {
	alertRepo Repository
	prices    PriceSource
	users     UserSource
	mailer    mailer.Mailer
	currency  string
	lg        logger.Logger
	now       func() time.Time
}

func New(alertRepo Repository, prices PriceSource, users UserSource, m mailer.Mailer,
	currency string, lg logger.Logger,
) *AlertService {
	return &AlertService{
		alertRepo: alertRepo,
		prices:    prices,
		users:     users,
		mailer:    m,
		currency:  strings.ToLower(currency),
		lg:        lg,
		now:       time.Now,
	}
}

func (as *AlertService) CreateAlert(ctx context.Context, userID int64, req AlertRequest) (models.PriceAlert, error) {
	req.CoinID = strings.ToLower(strings.TrimSpace(req.CoinID))
	req.Condition = models.AlertCondition(strings.ToLower(string(req.Condition)))

	if err := validate.Struct(req); err != nil {
		return models.PriceAlert{}, err //nolint:wrapcheck
	}

	if !req.TargetPrice.IsPositive() {
		return models.PriceAlert{}, validate.Errorf("target_price must be positive")
	}

	a, err := as.alertRepo.CreateAlert(ctx, models.PriceAlert{ //nolint:exhaustruct
		UserID:      userID,
		CoinID:      req.CoinID,
		TargetPrice: req.TargetPrice,
		Condition:   req.Condition,
	})
	if err != nil {
		return models.PriceAlert{}, fmt.Errorf("create alert error: %w", err)
	}

	return a, nil
}

func (as *AlertService) ListAlerts(ctx context.Context, userID int64) ([]models.PriceAlert, error) {
	alerts, err := as.alertRepo.ListAlerts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list alerts error: %w", err)
	}

	return alerts, nil
}

func (as *AlertService) DeleteAlert(ctx context.Context, userID, alertID int64) error {
	if err := as.alertRepo.DeleteAlert(ctx, userID, alertID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}

		return fmt.Errorf("delete alert error: %w", err)
	}

	return nil
}

// Check evaluates the pending alerts of userID and returns the ones that
// fired. Fired alerts are marked and never reported again.
func (as *AlertService) Check(ctx context.Context, userID int64) ([]TriggeredAlert, error) {
	pending, err := as.alertRepo.ListPending(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list pending alerts error: %w", err)
	}

	return as.run(ctx, pending)
}

// CheckAll evaluates the pending alerts of every user and mails the owners
// of the ones that fired.
func (as *AlertService) CheckAll(ctx context.Context) error {
	pending, err := as.alertRepo.ListAllPending(ctx)
	if err != nil {
		return fmt.Errorf("list pending alerts error: %w", err)
	}

	fired, err := as.run(ctx, pending)
	if err != nil {
		return err
	}

	as.notify(ctx, fired)

	return nil
}

func (as *AlertService) run(ctx context.Context, pending []models.PriceAlert) ([]TriggeredAlert, error) {
	if len(pending) == 0 {
		return []TriggeredAlert{}, nil
	}

	prices, err := as.fetchPrices(ctx, pending)
	if err != nil {
		return nil, err
	}

	fired := Evaluate(pending, prices)
	if len(fired) == 0 {
		return fired, nil
	}

	ids := make([]int64, 0, len(fired))
	for _, f := range fired {
		ids = append(ids, f.ID)
	}

	now := as.now()

	marked, err := as.alertRepo.MarkTriggered(ctx, ids, now)
	if err != nil {
		return nil, fmt.Errorf("mark triggered error: %w", err)
	}

	isMarked := make(map[int64]struct{}, len(marked))
	for _, id := range marked {
		isMarked[id] = struct{}{}
	}

	out := make([]TriggeredAlert, 0, len(marked))

	for _, f := range fired {
		if _, ok := isMarked[f.ID]; !ok {
			continue
		}

		f.Triggered = true
		f.TriggeredAt = &now
		out = append(out, f)
	}

	metrics.RecordAlertsTriggered(len(out))

	return out, nil
}

// fetchPrices asks for every distinct coin once.
func (as *AlertService) fetchPrices(ctx context.Context, alerts []models.PriceAlert) (map[string]decimal.Decimal, error) {
	seen := make(map[string]struct{}, len(alerts))
	ids := make([]string, 0, len(alerts))

	for _, a := range alerts {
		if _, ok := seen[a.CoinID]; ok {
			continue
		}

		seen[a.CoinID] = struct{}{}
		ids = append(ids, a.CoinID)
	}

	sort.Strings(ids)

	prices := make(map[string]decimal.Decimal, len(ids))

	for start := 0; start < len(ids); start += marketservice.MaxPriceIDs {
		end := min(start+marketservice.MaxPriceIDs, len(ids))

		batch, err := as.prices.Prices(ctx, marketservice.PricesRequest{CoinIDs: ids[start:end], Currency: as.currency})
		if err != nil {
			return nil, fmt.Errorf("get prices error: %w", err)
		}

		for id, p := range batch {
			prices[id] = p
		}
	}

	return prices, nil
}

// Evaluate returns the alerts whose condition holds at prices. Alerts for
// coins without a price never fire.
func Evaluate(alerts []models.PriceAlert, prices map[string]decimal.Decimal) []TriggeredAlert {
	fired := []TriggeredAlert{}

	for _, a := range alerts {
		price, ok := prices[a.CoinID]
		if !ok || a.Triggered {
			continue
		}

		if a.Reached(price) {
			fired = append(fired, TriggeredAlert{PriceAlert: a, Price: price})
		}
	}

	return fired
}

func (as *AlertService) notify(ctx context.Context, fired []TriggeredAlert) {
	byUser := make(map[int64][]TriggeredAlert)
	for _, f := range fired {
		byUser[f.UserID] = append(byUser[f.UserID], f)
	}

	for userID, alerts := range byUser {
		u, err := as.users.GetUser(ctx, userID)
		if err != nil {
			as.lg.Errorf("get user %d for alert mail error: %s", userID, err)

			continue
		}

		if err := as.mailer.Send(ctx, alertMail(u, alerts, as.currency)); err != nil {
			as.lg.Errorf("send alert mail to %s error: %s", u.Email, err)
		}
	}
}

func alertMail(u models.User, alerts []TriggeredAlert, currency string) mailer.Message {
	var b strings.Builder

	for _, a := range alerts {
		fmt.Fprintf(&b, "%s is %s %s %s: now %s\n",
			a.CoinID, a.Condition, a.TargetPrice, strings.ToUpper(currency), a.Price)
	}

	subject := "Price alert: " + alerts[0].CoinID
	if len(alerts) > 1 {
		subject = fmt.Sprintf("%d price alerts triggered", len(alerts))
	}

	return mailer.Message{
		To:      u.Email,
		ToName:  u.Name,
		Subject: subject,
		Text:    b.String(),
		HTML:    "<pre>" + b.String() + "</pre>",
	}
}
