package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/domain/models"
	repo "github.com/Leopold1975/crypto_dashboard/internal/dashboard/repository/noterepo"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/pgtools"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotesPostgresRepo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) NotesPostgresRepo {
	return NotesPostgresRepo{
		db: db,
	}
}

func (nr NotesPostgresRepo) CreateTag(ctx context.Context, t models.Tag) (_ models.Tag, err error) { //nolint:nonamedreturns
	tx, err := nr.db.Begin(ctx)
	if err != nil {
		return t, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create tag")
	}()

	query, args, err := pgtools.PSQL.Insert("tags").
		Columns("user_id", "name").
		Values(t.UserID, t.Name).
		Suffix("RETURNING id, created_at").ToSql()
	if err != nil {
		return t, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&t.ID, &t.CreatedAt); err != nil {
		if pgtools.IsUniqueViolation(err) {
			return t, repo.ErrTagExists
		}

		return t, fmt.Errorf("scan error: %w", err)
	}

	return t, nil
}

func (nr NotesPostgresRepo) ListTags(ctx context.Context, userID int64) (tags []models.Tag, err error) { //nolint:nonamedreturns
	tx, err := nr.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "list tags")
	}()

	query, args, err := pgtools.PSQL.Select("id", "user_id", "name", "created_at").
		From("tags").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	tags = make([]models.Tag, 0, 10) //nolint:gomnd

	for rows.Next() {
		var t models.Tag

		if err = rows.Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		tags = append(tags, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return tags, nil
}

func (nr NotesPostgresRepo) UpdateTag(ctx context.Context, t models.Tag) (err error) {
	tx, err := nr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "update tag")
	}()

	query, args, err := pgtools.PSQL.Update("tags").
		Set("name", t.Name).
		Where(squirrel.Eq{"id": t.ID, "user_id": t.UserID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		if pgtools.IsUniqueViolation(err) {
			return repo.ErrTagExists
		}

		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repo.ErrTagNotFound
	}

	return nil
}

func (nr NotesPostgresRepo) DeleteTag(ctx context.Context, userID, tagID int64) (err error) {
	tx, err := nr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete tag")
	}()

	query, args, err := pgtools.PSQL.Delete("tags").
		Where(squirrel.Eq{"id": tagID, "user_id": userID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repo.ErrTagNotFound
	}

	return nil
}

func (nr NotesPostgresRepo) CreateNote(ctx context.Context, n models.Note) (_ models.Note, err error) { //nolint:nonamedreturns
	tx, err := nr.db.Begin(ctx)
	if err != nil {
		return n, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create note")
	}()

	query, args, err := pgtools.PSQL.Insert("notes").
		Columns("user_id", "title", "content").
		Values(n.UserID, n.Title, n.Content).
		Suffix("RETURNING id, created_at, updated_at").ToSql()
	if err != nil {
		return n, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return n, fmt.Errorf("scan error: %w", err)
	}

	if err = setNoteTags(ctx, tx, n.UserID, n.ID, n.TagIDs()); err != nil {
		return n, err
	}

	tags, err := loadTags(ctx, tx, []int64{n.ID})
	if err != nil {
		return n, err
	}

	n.Tags = tags[n.ID]

	return n, nil
}

func (nr NotesPostgresRepo) GetNote(ctx context.Context, userID, noteID int64) (n models.Note, err error) { //nolint:nonamedreturns
	tx, err := nr.db.Begin(ctx)
	if err != nil {
		return n, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "get note")
	}()

	query, args, err := pgtools.PSQL.Select("id", "user_id", "title", "content", "created_at", "updated_at").
		From("notes").
		Where(squirrel.Eq{"id": noteID, "user_id": userID}).ToSql()
	if err != nil {
		return n, fmt.Errorf("to sql error: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return n, repo.ErrNotFound
		}

		return n, fmt.Errorf("scan error: %w", err)
	}

	tags, err := loadTags(ctx, tx, []int64{n.ID})
	if err != nil {
		return n, err
	}

	n.Tags = tags[n.ID]
	if n.Tags == nil {
		n.Tags = []models.Tag{}
	}

	return n, nil
}

func (nr NotesPostgresRepo) ListNotes(ctx context.Context, //nolint:cyclop,nonamedreturns
	req repo.ListNotesRequest,
) (notes []models.Note, err error) {
	tx, err := nr.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "list notes")
	}()

	sb := pgtools.PSQL.Select("id", "user_id", "title", "content", "created_at", "updated_at").
		From("notes").
		Where(squirrel.Eq{"user_id": req.UserID})

	if req.TagID != 0 {
		sb = sb.Where("EXISTS (SELECT 1 FROM note_tags nt WHERE nt.note_id = notes.id AND nt.tag_id = ?)", req.TagID)
	}

	if req.Query != "" {
		pattern := pgtools.ContainsPattern(req.Query)
		sb = sb.Where(squirrel.Or{squirrel.ILike{"title": pattern}, squirrel.ILike{"content": pattern}})
	}

	sb = sb.OrderBy("created_at DESC", "id DESC")

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

	notes = make([]models.Note, 0, 10) //nolint:gomnd
	ids := make([]int64, 0, 10)        //nolint:gomnd

	for rows.Next() {
		var n models.Note

		if err = rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			rows.Close()

			return nil, fmt.Errorf("scan error: %w", err)
		}

		notes = append(notes, n)
		ids = append(ids, n.ID)
	}

	rows.Close()

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	tags, err := loadTags(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	for i := range notes {
		notes[i].Tags = tags[notes[i].ID]
		if notes[i].Tags == nil {
			notes[i].Tags = []models.Tag{}
		}
	}

	return notes, nil
}

// UpdateNote overwrites title, content and the full tag set of the note.
func (nr NotesPostgresRepo) UpdateNote(ctx context.Context, n models.Note) (_ models.Note, err error) { //nolint:nonamedreturns
	tx, err := nr.db.Begin(ctx)
	if err != nil {
		return n, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "update note")
	}()

	query, args, err := pgtools.PSQL.Update("notes").
		Set("title", n.Title).
		Set("content", n.Content).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": n.ID, "user_id": n.UserID}).
		Suffix("RETURNING created_at, updated_at").ToSql()
	if err != nil {
		return n, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&n.CreatedAt, &n.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return n, repo.ErrNotFound
		}

		return n, fmt.Errorf("scan error: %w", err)
	}

	query, args, err = pgtools.PSQL.Delete("note_tags").
		Where(squirrel.Eq{"note_id": n.ID}).ToSql()
	if err != nil {
		return n, fmt.Errorf("to sql error: %w", err)
	}

	if _, err = tx.Exec(ctx, query, args...); err != nil {
		return n, fmt.Errorf("exec error: %w", err)
	}

	if err = setNoteTags(ctx, tx, n.UserID, n.ID, n.TagIDs()); err != nil {
		return n, err
	}

	tags, err := loadTags(ctx, tx, []int64{n.ID})
	if err != nil {
		return n, err
	}

	n.Tags = tags[n.ID]
	if n.Tags == nil {
		n.Tags = []models.Tag{}
	}

	return n, nil
}

func (nr NotesPostgresRepo) DeleteNote(ctx context.Context, userID, noteID int64) (err error) {
	tx, err := nr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete note")
	}()

	query, args, err := pgtools.PSQL.Delete("notes").
		Where(squirrel.Eq{"id": noteID, "user_id": userID}).ToSql()
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

// setNoteTags links only tags owned by userID; any foreign or unknown id
// fails the whole operation.
func setNoteTags(ctx context.Context, tx pgx.Tx, userID, noteID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}

	query, args, err := pgtools.PSQL.Insert("note_tags").
		Columns("note_id", "tag_id").
		Select(squirrel.Select().
			Column(squirrel.Expr("?::bigint", noteID)).
			Column("id").
			From("tags").
			Where(squirrel.Eq{"user_id": userID, "id": tagIDs})).
		Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() != int64(len(unique(tagIDs))) {
		return repo.ErrForeignTags
	}

	return nil
}

func loadTags(ctx context.Context, tx pgx.Tx, noteIDs []int64) (map[int64][]models.Tag, error) {
	res := make(map[int64][]models.Tag, len(noteIDs))
	if len(noteIDs) == 0 {
		return res, nil
	}

	query, args, err := pgtools.PSQL.Select("nt.note_id", "t.id", "t.user_id", "t.name", "t.created_at").
		From("note_tags nt").
		Join("tags t ON t.id = nt.tag_id").
		Where(squirrel.Eq{"nt.note_id": noteIDs}).
		OrderBy("t.name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			noteID int64
			t      models.Tag
		)

		if err := rows.Scan(&noteID, &t.ID, &t.UserID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		res[noteID] = append(res[noteID], t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

func unique(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
