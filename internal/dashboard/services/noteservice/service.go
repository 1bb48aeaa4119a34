package noteservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/domain/models"
	repo "github.com/Leopold1975/crypto_dashboard/internal/dashboard/repository/noterepo"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/validate"
	"github.com/Leopold1975/crypto_dashboard/pkg/logger"
)

var (
	ErrNotFound    = errors.New("note not found")
	ErrTagNotFound = errors.New("tag not found")
	ErrTagExists   = errors.New("tag with this name already exists")
	ErrUnknownTags = errors.New("unknown tag ids")
)

const defaultLimit = 50

type Repository interface {
	CreateTag(context.Context, models.Tag) (models.Tag, error)
	ListTags(ctx context.Context, userID int64) ([]models.Tag, error)
	UpdateTag(context.Context, models.Tag) error
	DeleteTag(ctx context.Context, userID, tagID int64) error
	CreateNote(context.Context, models.Note) (models.Note, error)
	GetNote(ctx context.Context, userID, noteID int64) (models.Note, error)
	ListNotes(context.Context, repo.ListNotesRequest) ([]models.Note, error)
	UpdateNote(context.Context, models.Note) (models.Note, error)
	DeleteNote(ctx context.Context, userID, noteID int64) error
}

type NoteService struct {
	noteRepo Repository
	lg       logger.Logger
}

func New(noteRepo Repository, lg logger.Logger) *NoteService {
	return &NoteService{
		noteRepo: noteRepo,
		lg:       lg,
	}
}

func mapErr(err error, op string) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repo.ErrTagNotFound):
		return ErrTagNotFound
	case errors.Is(err, repo.ErrTagExists):
		return ErrTagExists
	case errors.Is(err, repo.ErrForeignTags):
		return fmt.Errorf("%w: %w", validate.ErrInvalid, ErrUnknownTags)
	default:
		return fmt.Errorf("%s error: %w", op, err)
	}
}

func (ns *NoteService) CreateTag(ctx context.Context, userID int64, req TagRequest) (models.Tag, error) {
	req.Name = strings.TrimSpace(req.Name)

	if err := validate.Struct(req); err != nil {
		return models.Tag{}, err //nolint:wrapcheck
	}

	t, err := ns.noteRepo.CreateTag(ctx, models.Tag{UserID: userID, Name: req.Name}) //nolint:exhaustruct
	if err != nil {
		return models.Tag{}, mapErr(err, "create tag")
	}

	return t, nil
}

func (ns *NoteService) ListTags(ctx context.Context, userID int64) ([]models.Tag, error) {
	tags, err := ns.noteRepo.ListTags(ctx, userID)
	if err != nil {
		return nil, mapErr(err, "list tags")
	}

	return tags, nil
}

func (ns *NoteService) RenameTag(ctx context.Context, userID, tagID int64, req TagRequest) (models.Tag, error) {
	req.Name = strings.TrimSpace(req.Name)

	if err := validate.Struct(req); err != nil {
		return models.Tag{}, err //nolint:wrapcheck
	}

	t := models.Tag{ID: tagID, UserID: userID, Name: req.Name} //nolint:exhaustruct

	if err := ns.noteRepo.UpdateTag(ctx, t); err != nil {
		return models.Tag{}, mapErr(err, "update tag")
	}

	return t, nil
}

// DeleteTag removes the tag and detaches it from every note.
func (ns *NoteService) DeleteTag(ctx context.Context, userID, tagID int64) error {
	if err := ns.noteRepo.DeleteTag(ctx, userID, tagID); err != nil {
		return mapErr(err, "delete tag")
	}

	return nil
}

func (ns *NoteService) CreateNote(ctx context.Context, userID int64, req CreateNoteRequest) (models.Note, error) {
	req.Title = strings.TrimSpace(req.Title)

	if err := validate.Struct(req); err != nil {
		return models.Note{}, err //nolint:wrapcheck
	}

	n := models.Note{ //nolint:exhaustruct
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
		Tags:    tagsOf(req.TagIDs),
	}

	n, err := ns.noteRepo.CreateNote(ctx, n)
	if err != nil {
		return models.Note{}, mapErr(err, "create note")
	}

	return n, nil
}

func (ns *NoteService) GetNote(ctx context.Context, userID, noteID int64) (models.Note, error) {
	n, err := ns.noteRepo.GetNote(ctx, userID, noteID)
	if err != nil {
		return models.Note{}, mapErr(err, "get note")
	}

	return n, nil
}

func (ns *NoteService) ListNotes(ctx context.Context, req ListNotesRequest) ([]models.Note, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if req.Limit == 0 {
		req.Limit = defaultLimit
	}

	notes, err := ns.noteRepo.ListNotes(ctx, repo.ListNotesRequest{
		UserID: req.UserID,
		TagID:  req.TagID,
		Query:  strings.TrimSpace(req.Query),
		Offset: req.Offset,
		Limit:  req.Limit,
	})
	if err != nil {
		return nil, mapErr(err, "list notes")
	}

	return notes, nil
}

func (ns *NoteService) UpdateNote(ctx context.Context, userID, noteID int64, req UpdateNoteRequest) (models.Note, error) {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return models.Note{}, validate.Errorf("title is required")
		}

		req.Title = &title
	}

	if err := validate.Struct(req); err != nil {
		return models.Note{}, err //nolint:wrapcheck
	}

	n, err := ns.noteRepo.GetNote(ctx, userID, noteID)
	if err != nil {
		return models.Note{}, mapErr(err, "get note")
	}

	if req.Title != nil {
		n.Title = *req.Title
	}

	if req.Content != nil {
		n.Content = *req.Content
	}

	if req.TagIDs != nil {
		n.Tags = tagsOf(*req.TagIDs)
	}

	n, err = ns.noteRepo.UpdateNote(ctx, n)
	if err != nil {
		return models.Note{}, mapErr(err, "update note")
	}

	return n, nil
}

func (ns *NoteService) DeleteNote(ctx context.Context, userID, noteID int64) error {
	if err := ns.noteRepo.DeleteNote(ctx, userID, noteID); err != nil {
		return mapErr(err, "delete note")
	}

	return nil
}

func tagsOf(ids []int64) []models.Tag {
	tags := make([]models.Tag, 0, len(ids))
	for _, id := range ids {
		tags = append(tags, models.Tag{ID: id}) //nolint:exhaustruct
	}

	return tags
}
