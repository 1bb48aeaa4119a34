package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/domain/models"
	repo "github.com/Leopold1975/crypto_dashboard/internal/dashboard/repository/alertrepo"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/pgtools"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type AlertsPostgresRepo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) AlertsPostgresRepo {
	return AlertsPostgresRepo{
		db: db,
	}
}

var alertColumns = []string{ //nolint:gochecknoglobals
	"id", "user_id", "coin_id", "target_price::text", "condition", "triggered", "triggered_at", "created_at",
}

func (ar AlertsPostgresRepo) CreateAlert(ctx context.Context, //nolint:nonamedreturns
	a models.PriceAlert,
) (_ models.PriceAlert, err error) {
	tx, err := ar.db.Begin(ctx)
	if err != nil {
		return a, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create alert")
	}()

	query, args, err := pgtools.PSQL.Insert("price_alerts").
		Columns("user_id", "coin_id", "target_price", "condition").
		Values(a.UserID, a.CoinID, squirrel.Expr("?::numeric", a.TargetPrice.String()), string(a.Condition)).
		Suffix("RETURNING id, created_at").ToSql()
	if err != nil {
		return a, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&a.ID, &a.CreatedAt); err != nil {
		return a, fmt.Errorf("scan error: %w", err)
	}

	return a, nil
}

func (ar AlertsPostgresRepo) ListAlerts(ctx context.Context, userID int64) ([]models.PriceAlert, error) {
	return ar.list(ctx, squirrel.Eq{"user_id": userID})
}

func (ar AlertsPostgresRepo) ListPending(ctx context.Context, userID int64) ([]models.PriceAlert, error) {
	return ar.list(ctx, squirrel.Eq{"triggered": false, "user_id": userID})
}

// ListAllPending returns untriggered alerts of every user.
func (ar AlertsPostgresRepo) ListAllPending(ctx context.Context) ([]models.PriceAlert, error) {
	return ar.list(ctx, squirrel.Eq{"triggered": false})
}

func (ar AlertsPostgresRepo) list(ctx context.Context, //nolint:nonamedreturns
	where squirrel.Eq,
) (alerts []models.PriceAlert, err error) {
	tx, err := ar.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "list alerts")
	}()

	query, args, err := pgtools.PSQL.Select(alertColumns...).
		From("price_alerts").
		Where(where).
		OrderBy("created_at DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	alerts = make([]models.PriceAlert, 0, 10) //nolint:gomnd

	for rows.Next() {
		var (
			a         models.PriceAlert
			target    string
			condition string
		)

		if err = rows.Scan(&a.ID, &a.UserID, &a.CoinID, &target, &condition,
			&a.Triggered, &a.TriggeredAt, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		if a.TargetPrice, err = decimal.NewFromString(target); err != nil {
			return nil, fmt.Errorf("parse target price error: %w", err)
		}

		a.Condition = models.AlertCondition(condition)
		alerts = append(alerts, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return alerts, nil
}

func (ar AlertsPostgresRepo) DeleteAlert(ctx context.Context, userID, alertID int64) (err error) {
	tx, err := ar.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete alert")
	}()

	query, args, err := pgtools.PSQL.Delete("price_alerts").
		Where(squirrel.Eq{"id": alertID, "user_id": userID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	return nil
}

// MarkTriggered flags the given alerts and returns the ids that were still
// pending, so concurrent checks never report the same alert twice.
func (ar AlertsPostgresRepo) MarkTriggered(ctx context.Context, //nolint:nonamedreturns
	ids []int64, at time.Time,
) (marked []int64, err error) {
	if len(ids) == 0 {
		return nil, nil
	}

	tx, err := ar.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "mark triggered")
	}()

	query, args, err := pgtools.PSQL.Update("price_alerts").
		Set("triggered", true).
		Set("triggered_at", at).
		Where(squirrel.Eq{"id": ids, "triggered": false}).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	marked, err = pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("collect rows error: %w", err)
	}

	return marked, nil
}
