package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/domain/models"
	repo "github.com/Leopold1975/crypto_dashboard/internal/dashboard/repository/feedrepo"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/pgtools"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FeedPostgresRepo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) FeedPostgresRepo {
	return FeedPostgresRepo{
		db: db,
	}
}

// postSelect builds the feed projection: author, counters and whether the
// viewer liked the post. viewerID 0 means an anonymous reader.
func postSelect(viewerID int64) squirrel.SelectBuilder {
	return pgtools.PSQL.Select("p.id", "p.user_id", "u.name", "p.content", "p.created_at", "p.updated_at").
		Column("(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id)").
		Column("(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)").
		Column(squirrel.Expr("EXISTS (SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = ?)", viewerID)).
		From("posts p").
		Join("users u ON u.id = p.user_id")
}

func scanPost(row pgx.Row) (models.Post, error) {
	var p models.Post

	err := row.Scan(&p.ID, &p.UserID, &p.AuthorName, &p.Content, &p.CreatedAt, &p.UpdatedAt,
		&p.Likes, &p.Comments, &p.Liked)

	return p, err //nolint:wrapcheck
}

func (fr FeedPostgresRepo) CreatePost(ctx context.Context, p models.Post) (_ models.Post, err error) { //nolint:nonamedreturns
	tx, err := fr.db.Begin(ctx)
	if err != nil {
		return p, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create post")
	}()

	query, args, err := pgtools.PSQL.Insert("posts").
		Columns("user_id", "content").
		Values(p.UserID, p.Content).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return p, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&p.ID); err != nil {
		return p, fmt.Errorf("scan error: %w", err)
	}

	return getPost(ctx, tx, p.ID, p.UserID)
}

func (fr FeedPostgresRepo) GetPost(ctx context.Context, postID, viewerID int64) (p models.Post, err error) { //nolint:nonamedreturns
	tx, err := fr.db.Begin(ctx)
	if err != nil {
		return p, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "get post")
	}()

	return getPost(ctx, tx, postID, viewerID)
}

func (fr FeedPostgresRepo) ListPosts(ctx context.Context, //nolint:nonamedreturns
	req repo.ListPostsRequest,
) (posts []models.Post, err error) {
	tx, err := fr.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "list posts")
	}()

	sb := postSelect(req.ViewerID)

	if req.AuthorID != 0 {
		sb = sb.Where(squirrel.Eq{"p.user_id": req.AuthorID})
	}

	sb = sb.OrderBy("p.created_at DESC", "p.id DESC")

	if req.Offset != 0 {
		sb = sb.Offset(uint64(req.Offset))
	}

	if req.Limit != 0 {
		sb = sb.Limit(uint64(req.Limit))
	}

	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	posts = make([]models.Post, 0, req.Limit)

	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		posts = append(posts, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return posts, nil
}

func (fr FeedPostgresRepo) UpdatePost(ctx context.Context, p models.Post) (_ models.Post, err error) { //nolint:nonamedreturns
	tx, err := fr.db.Begin(ctx)
	if err != nil {
		return p, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "update post")
	}()

	query, args, err := pgtools.PSQL.Update("posts").
		Set("content", p.Content).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": p.ID, "user_id": p.UserID}).ToSql()
	if err != nil {
		return p, fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return p, fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return p, repo.ErrNotFound
	}

	return getPost(ctx, tx, p.ID, p.UserID)
}

func (fr FeedPostgresRepo) DeletePost(ctx context.Context, userID, postID int64) (err error) {
	tx, err := fr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete post")
	}()

	query, args, err := pgtools.PSQL.Delete("posts").
		Where(squirrel.Eq{"id": postID, "user_id": userID}).ToSql()
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

func (fr FeedPostgresRepo) ListComments(ctx context.Context, //nolint:nonamedreturns
	postID int64,
) (comments []models.Comment, err error) {
	tx, err := fr.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "list comments")
	}()

	if err = postExists(ctx, tx, postID); err != nil {
		return nil, err
	}

	query, args, err := pgtools.PSQL.Select("c.id", "c.post_id", "c.user_id", "u.name", "c.content", "c.created_at").
		From("comments c").
		Join("users u ON u.id = c.user_id").
		Where(squirrel.Eq{"c.post_id": postID}).
		OrderBy("c.created_at ASC", "c.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	comments = make([]models.Comment, 0, 10) //nolint:gomnd

	for rows.Next() {
		var c models.Comment

		if err = rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.AuthorName, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		comments = append(comments, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return comments, nil
}

func (fr FeedPostgresRepo) CreateComment(ctx context.Context, //nolint:nonamedreturns
	c models.Comment,
) (_ models.Comment, err error) {
	tx, err := fr.db.Begin(ctx)
	if err != nil {
		return c, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create comment")
	}()

	query, args, err := pgtools.PSQL.Insert("comments").
		Columns("post_id", "user_id", "content").
		Values(c.PostID, c.UserID, c.Content).
		Suffix("RETURNING id, created_at, (SELECT name FROM users WHERE id = comments.user_id)").ToSql()
	if err != nil {
		return c, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&c.ID, &c.CreatedAt, &c.AuthorName); err != nil {
		if pgtools.IsForeignKeyViolation(err) {
			return c, repo.ErrNotFound
		}

		return c, fmt.Errorf("scan error: %w", err)
	}

	return c, nil
}

func (fr FeedPostgresRepo) DeleteComment(ctx context.Context, userID, commentID int64) (err error) {
	tx, err := fr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete comment")
	}()

	query, args, err := pgtools.PSQL.Delete("comments").
		Where(squirrel.Eq{"id": commentID, "user_id": userID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repo.ErrCommentNotFound
	}

	return nil
}

// ToggleLike removes the like of userID on postID if present, otherwise adds
// it. It returns the resulting state and like count.
func (fr FeedPostgresRepo) ToggleLike(ctx context.Context, //nolint:nonamedreturns
	userID, postID int64,
) (liked bool, likes int64, err error) {
	tx, err := fr.db.Begin(ctx)
	if err != nil {
		return false, 0, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "toggle like")
	}()

	query, args, err := pgtools.PSQL.Delete("likes").
		Where(squirrel.Eq{"user_id": userID, "post_id": postID}).ToSql()
	if err != nil {
		return false, 0, fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return false, 0, fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		query, args, err = pgtools.PSQL.Insert("likes").
			Columns("user_id", "post_id").
			Values(userID, postID).
			Suffix("ON CONFLICT DO NOTHING").ToSql()
		if err != nil {
			return false, 0, fmt.Errorf("to sql error: %w", err)
		}

		if _, err = tx.Exec(ctx, query, args...); err != nil {
			if pgtools.IsForeignKeyViolation(err) {
				return false, 0, repo.ErrNotFound
			}

			return false, 0, fmt.Errorf("exec error: %w", err)
		}

		liked = true
	}

	query, args, err = pgtools.PSQL.Select("COUNT(*)").
		From("likes").
		Where(squirrel.Eq{"post_id": postID}).ToSql()
	if err != nil {
		return false, 0, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&likes); err != nil {
		return false, 0, fmt.Errorf("scan error: %w", err)
	}

	return liked, likes, nil
}

func getPost(ctx context.Context, tx pgx.Tx, postID, viewerID int64) (models.Post, error) {
	query, args, err := postSelect(viewerID).
		Where(squirrel.Eq{"p.id": postID}).ToSql()
	if err != nil {
		return models.Post{}, fmt.Errorf("to sql error: %w", err)
	}

	p, err := scanPost(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return p, repo.ErrNotFound
		}

		return p, fmt.Errorf("scan error: %w", err)
	}

	return p, nil
}

func postExists(ctx context.Context, tx pgx.Tx, postID int64) error {
	query, args, err := pgtools.PSQL.Select("1").
		From("posts").
		Where(squirrel.Eq{"id": postID}).ToSql()
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
