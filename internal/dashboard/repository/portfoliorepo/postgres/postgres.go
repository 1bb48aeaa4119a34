package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/domain/models"
	repo "github.com/Leopold1975/crypto_dashboard/internal/dashboard/repository/portfoliorepo"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/pgtools"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PortfoliosPostgresRepo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) PortfoliosPostgresRepo {
	return PortfoliosPostgresRepo{
		db: db,
	}
}

// Numeric columns travel as text so decimal precision is kept end to end.
var assetColumns = []string{ //nolint:gochecknoglobals
	"id", "portfolio_id", "coin_id", "symbol", "amount::text", "buy_price::text", "created_at", "updated_at",
}

func (pr PortfoliosPostgresRepo) CreatePortfolio(ctx context.Context, //nolint:nonamedreturns
	p models.Portfolio,
) (_ models.Portfolio, err error) {
	tx, err := pr.db.Begin(ctx)
	if err != nil {
		return p, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create portfolio")
	}()

	query, args, err := pgtools.PSQL.Insert("portfolios").
		Columns("user_id", "name").
		Values(p.UserID, p.Name).
		Suffix("RETURNING id, created_at").ToSql()
	if err != nil {
		return p, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		if pgtools.IsUniqueViolation(err) {
			return p, repo.ErrAlreadyExists
		}

		return p, fmt.Errorf("scan error: %w", err)
	}

	return p, nil
}

func (pr PortfoliosPostgresRepo) ListPortfolios(ctx context.Context, //nolint:nonamedreturns
	userID int64,
) (portfolios []models.Portfolio, err error) {
	tx, err := pr.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "list portfolios")
	}()

	query, args, err := pgtools.PSQL.Select("id", "user_id", "name", "created_at").
		From("portfolios").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	portfolios = make([]models.Portfolio, 0, 4) //nolint:gomnd

	for rows.Next() {
		var p models.Portfolio

		if err = rows.Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		portfolios = append(portfolios, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return portfolios, nil
}

// GetPortfolio returns the portfolio with all of its assets.
func (pr PortfoliosPostgresRepo) GetPortfolio(ctx context.Context, //nolint:nonamedreturns
	userID, portfolioID int64,
) (p models.Portfolio, err error) {
	tx, err := pr.db.Begin(ctx)
	if err != nil {
		return p, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "get portfolio")
	}()

	query, args, err := pgtools.PSQL.Select("id", "user_id", "name", "created_at").
		From("portfolios").
		Where(squirrel.Eq{"id": portfolioID, "user_id": userID}).ToSql()
	if err != nil {
		return p, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return p, repo.ErrNotFound
		}

		return p, fmt.Errorf("scan error: %w", err)
	}

	p.Assets, err = listAssets(ctx, tx, p.ID)
	if err != nil {
		return p, err
	}

	return p, nil
}

func (pr PortfoliosPostgresRepo) UpdatePortfolio(ctx context.Context, p models.Portfolio) (err error) {
	tx, err := pr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "update portfolio")
	}()

	query, args, err := pgtools.PSQL.Update("portfolios").
		Set("name", p.Name).
		Where(squirrel.Eq{"id": p.ID, "user_id": p.UserID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		if pgtools.IsUniqueViolation(err) {
			return repo.ErrAlreadyExists
		}

		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	return nil
}

func (pr PortfoliosPostgresRepo) DeletePortfolio(ctx context.Context, userID, portfolioID int64) (err error) {
	tx, err := pr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete portfolio")
	}()

	query, args, err := pgtools.PSQL.Delete("portfolios").
		Where(squirrel.Eq{"id": portfolioID, "user_id": userID}).ToSql()
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

func (pr PortfoliosPostgresRepo) ListAssets(ctx context.Context, //nolint:nonamedreturns
	userID, portfolioID int64,
) (assets []models.Asset, err error) {
	tx, err := pr.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "list assets")
	}()

	if err = ensureOwner(ctx, tx, userID, portfolioID); err != nil {
		return nil, err
	}

	return listAssets(ctx, tx, portfolioID)
}

func (pr PortfoliosPostgresRepo) CreateAsset(ctx context.Context, //nolint:nonamedreturns
	userID int64, a models.Asset,
) (_ models.Asset, err error) {
	tx, err := pr.db.Begin(ctx)
	if err != nil {
		return a, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create asset")
	}()

	if err = ensureOwner(ctx, tx, userID, a.PortfolioID); err != nil {
		return a, err
	}

	query, args, err := pgtools.PSQL.Insert("assets").
		Columns("portfolio_id", "coin_id", "symbol", "amount", "buy_price").
		Values(a.PortfolioID, a.CoinID, a.Symbol,
			squirrel.Expr("?::numeric", a.Amount.String()),
			squirrel.Expr("?::numeric", a.BuyPrice.String())).
		Suffix("RETURNING id, created_at, updated_at").ToSql()
	if err != nil {
		return a, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return a, fmt.Errorf("scan error: %w", err)
	}

	return a, nil
}

func (pr PortfoliosPostgresRepo) UpdateAsset(ctx context.Context, //nolint:nonamedreturns
	userID int64, a models.Asset,
) (_ models.Asset, err error) {
	tx, err := pr.db.Begin(ctx)
	if err != nil {
		return a, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "update asset")
	}()

	query, args, err := pgtools.PSQL.Update("assets").
		Set("coin_id", a.CoinID).
		Set("symbol", a.Symbol).
		Set("amount", squirrel.Expr("?::numeric", a.Amount.String())).
		Set("buy_price", squirrel.Expr("?::numeric", a.BuyPrice.String())).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": a.ID, "portfolio_id": a.PortfolioID}).
		Where("portfolio_id IN (SELECT id FROM portfolios WHERE user_id = ?)", userID).
		Suffix("RETURNING created_at, updated_at").ToSql()
	if err != nil {
		return a, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return a, repo.ErrAssetNotFound
		}

		return a, fmt.Errorf("scan error: %w", err)
	}

	return a, nil
}

func (pr PortfoliosPostgresRepo) GetAsset(ctx context.Context, //nolint:nonamedreturns
	userID, portfolioID, assetID int64,
) (a models.Asset, err error) {
	tx, err := pr.db.Begin(ctx)
	if err != nil {
		return a, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "get asset")
	}()

	query, args, err := pgtools.PSQL.Select(assetColumns...).
		From("assets").
		Where(squirrel.Eq{"id": assetID, "portfolio_id": portfolioID}).
		Where("portfolio_id IN (SELECT id FROM portfolios WHERE user_id = ?)", userID).ToSql()
	if err != nil {
		return a, fmt.Errorf("to sql error: %w", err)
	}

	a, err = scanAsset(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return a, repo.ErrAssetNotFound
		}

		return a, err
	}

	return a, nil
}

func (pr PortfoliosPostgresRepo) DeleteAsset(ctx context.Context, userID, portfolioID, assetID int64) (err error) {
	tx, err := pr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete asset")
	}()

	query, args, err := pgtools.PSQL.Delete("assets").
		Where(squirrel.Eq{"id": assetID, "portfolio_id": portfolioID}).
		Where("portfolio_id IN (SELECT id FROM portfolios WHERE user_id = ?)", userID).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repo.ErrAssetNotFound
	}

	return nil
}

func ensureOwner(ctx context.Context, tx pgx.Tx, userID, portfolioID int64) error {
	query, args, err := pgtools.PSQL.Select("1").
		From("portfolios").
		Where(squirrel.Eq{"id": portfolioID, "user_id": userID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	var one int
	if err := tx.QueryRow(ctx, query, args...).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrNotFound
		}

		return fmt.Errorf("scan error: %w", err)
	}

	return nil
}

func listAssets(ctx context.Context, tx pgx.Tx, portfolioID int64) ([]models.Asset, error) {
	query, args, err := pgtools.PSQL.Select(assetColumns...).
		From("assets").
		Where(squirrel.Eq{"portfolio_id": portfolioID}).
		OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	assets := make([]models.Asset, 0, 10) //nolint:gomnd

	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}

		assets = append(assets, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return assets, nil
}

func scanAsset(row pgx.Row) (models.Asset, error) {
	var (
		a                models.Asset
		amount, buyPrice string
	)

	if err := row.Scan(&a.ID, &a.PortfolioID, &a.CoinID, &a.Symbol,
		&amount, &buyPrice, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return a, err //nolint:wrapcheck
		}

		return a, fmt.Errorf("scan error: %w", err)
	}

	var err error

	if a.Amount, err = decimal.NewFromString(amount); err != nil {
		return a, fmt.Errorf("parse amount error: %w", err)
	}

	if a.BuyPrice, err = decimal.NewFromString(buyPrice); err != nil {
		return a, fmt.Errorf("parse buy price error: %w", err)
	}

	return a, nil
}
