package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/domain/models"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/repository/userrepo"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/pgtools"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersPostgresRepo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) UsersPostgresRepo {
	return UsersPostgresRepo{
		db: db,
	}
}

var userColumns = []string{"id", "email", "name", "password_hash", "email_verified", "created_at"} //nolint:gochecknoglobals

func (ur UsersPostgresRepo) CreateUser(ctx context.Context, u models.User) (id int64, err error) { //nolint:nonamedreturns
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create")
	}()

	query, args, err := pgtools.PSQL.Insert("users").
		Columns("email", "name", "password_hash").
		Values(u.Email, u.Name, u.PasswordHash).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if pgtools.IsUniqueViolation(err) {
			return 0, userrepo.ErrAlreadyExists
		}

		return 0, fmt.Errorf("scan error: %w", err)
	}

	return id, nil
}

func (ur UsersPostgresRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return ur.getUser(ctx, squirrel.Eq{"email": email})
}

func (ur UsersPostgresRepo) GetUser(ctx context.Context, id int64) (models.User, error) {
	return ur.getUser(ctx, squirrel.Eq{"id": id})
}

func (ur UsersPostgresRepo) getUser(ctx context.Context, where squirrel.Eq) (u models.User, err error) { //nolint:nonamedreturns
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return u, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "get")
	}()

	query, args, err := pgtools.PSQL.Select(userColumns...).
		From("users").
		Where(where).ToSql()
	if err != nil {
		return u, fmt.Errorf("to sql error: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.EmailVerified, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return u, userrepo.ErrNotFound
		}

		return u, fmt.Errorf("scan error: %w", err)
	}

	return u, nil
}

func (ur UsersPostgresRepo) SetEmailVerified(ctx context.Context, email string, at time.Time) (err error) {
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "verify")
	}()

	query, args, err := pgtools.PSQL.Update("users").
		Set("email_verified", at).
		Where(squirrel.Eq{"email": email}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return userrepo.ErrNotFound
	}

	return nil
}

func (ur UsersPostgresRepo) CreateVerificationToken(ctx context.Context, vt models.VerificationToken) (err error) {
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create token")
	}()

	// Only the newest token per identifier stays valid.
	query, args, err := pgtools.PSQL.Delete("verification_tokens").
		Where(squirrel.Eq{"identifier": vt.Identifier}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	if _, err = tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	query, args, err = pgtools.PSQL.Insert("verification_tokens").
		Columns("identifier", "token", "expires").
		Values(vt.Identifier, vt.Token, vt.Expires).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	if _, err = tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	return nil
}

// UseVerificationToken deletes the token and returns it, so a token can be
// consumed only once.
func (ur UsersPostgresRepo) UseVerificationToken(ctx context.Context, //nolint:nonamedreturns
	token string,
) (vt models.VerificationToken, err error) {
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return vt, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "use token")
	}()

	query, args, err := pgtools.PSQL.Delete("verification_tokens").
		Where(squirrel.Eq{"token": token}).
		Suffix("RETURNING identifier, token, expires").ToSql()
	if err != nil {
		return vt, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&vt.Identifier, &vt.Token, &vt.Expires); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return vt, userrepo.ErrTokenNotFound
		}

		return vt, fmt.Errorf("scan error: %w", err)
	}

	return vt, nil
}
