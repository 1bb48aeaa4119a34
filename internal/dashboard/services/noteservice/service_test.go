package noteservice

import (
	"context"
	"testing"

	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/domain/models"
	repo "github.com/Leopold1975/crypto_dashboard/internal/dashboard/repository/noterepo"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/validate"
	"github.com/Leopold1975/crypto_dashboard/pkg/logger"
	"github.com/stretchr/testify/suite"
)

type fakeRepo struct {
	tags    map[int64]models.Tag
	notes   map[int64]models.Note
	nextID  int64
	lastReq repo.ListNotesRequest
}

func (f *fakeRepo) id() int64 {
	f.nextID++

	return f.nextID
}

func (f *fakeRepo) CreateTag(_ context.Context, t models.Tag) (models.Tag, error) {
	for _, ex := range f.tags {
		if ex.UserID == t.UserID && ex.Name == t.Name {
			return models.Tag{}, repo.ErrTagExists
		}
	}

	t.ID = f.id()
	f.tags[t.ID] = t

	return t, nil
}

func (f *fakeRepo) ListTags(_ context.Context, userID int64) ([]models.Tag, error) {
	var out []models.Tag

	for _, t := range f.tags {
		if t.UserID == userID {
			out = append(out, t)
		}
	}

	return out, nil
}

func (f *fakeRepo) UpdateTag(_ context.Context, t models.Tag) error {
	ex, ok := f.tags[t.ID]
	if !ok || ex.UserID != t.UserID {
		return repo.ErrTagNotFound
	}

	f.tags[t.ID] = t

	return nil
}

func (f *fakeRepo) DeleteTag(_ context.Context, userID, tagID int64) error {
	ex, ok := f.tags[tagID]
	if !ok || ex.UserID != userID {
		return repo.ErrTagNotFound
	}

	delete(f.tags, tagID)

	return nil
}

func (f *fakeRepo) resolve(n models.Note) (models.Note, error) {
	tags := make([]models.Tag, 0, len(n.Tags))

	for _, t := range n.Tags {
		ex, ok := f.tags[t.ID]
		if !ok || ex.UserID != n.UserID {
			return models.Note{}, repo.ErrForeignTags
		}

		tags = append(tags, ex)
	}

	n.Tags = tags

	return n, nil
}

func (f *fakeRepo) CreateNote(_ context.Context, n models.Note) (models.Note, error) {
	n, err := f.resolve(n)
	if err != nil {
		return n, err
	}

	n.ID = f.id()
	f.notes[n.ID] = n

	return n, nil
}

func (f *fakeRepo) GetNote(_ context.Context, userID, noteID int64) (models.Note, error) {
	n, ok := f.notes[noteID]
	if !ok || n.UserID != userID {
		return models.Note{}, repo.ErrNotFound
	}

	return n, nil
}

func (f *fakeRepo) ListNotes(_ context.Context, req repo.ListNotesRequest) ([]models.Note, error) {
	f.lastReq = req

	return nil, nil
}

func (f *fakeRepo) UpdateNote(_ context.Context, n models.Note) (models.Note, error) {
	n, err := f.resolve(n)
	if err != nil {
		return n, err
	}

	f.notes[n.ID] = n

	return n, nil
}

func (f *fakeRepo) DeleteNote(_ context.Context, userID, noteID int64) error {
	if _, err := f.GetNote(context.Background(), userID, noteID); err != nil {
		return err
	}

	delete(f.notes, noteID)

	return nil
}

type NoteServiceSuite struct {
	suite.Suite
	repo *fakeRepo
	ns   *NoteService
}

func TestNoteService(t *testing.T) {
	suite.Run(t, new(NoteServiceSuite))
}

func (s *NoteServiceSuite) SetupTest() {
	s.repo = &fakeRepo{tags: map[int64]models.Tag{}, notes: map[int64]models.Note{}}
	s.ns = New(s.repo, logger.NewNop())
}

func (s *NoteServiceSuite) TestTags() {
	ctx := context.Background()

	t, err := s.ns.CreateTag(ctx, 1, TagRequest{Name: "  defi "})
	s.Require().NoError(err)
	s.Require().Equal("defi", t.Name)

	_, err = s.ns.CreateTag(ctx, 1, TagRequest{Name: "defi"})
	s.Require().ErrorIs(err, ErrTagExists)

	_, err = s.ns.CreateTag(ctx, 2, TagRequest{Name: "defi"})
	s.Require().NoError(err)

	_, err = s.ns.CreateTag(ctx, 1, TagRequest{Name: "   "})
	s.Require().ErrorIs(err, validate.ErrInvalid)

	renamed, err := s.ns.RenameTag(ctx, 1, t.ID, TagRequest{Name: "layer2"})
	s.Require().NoError(err)
	s.Require().Equal("layer2", renamed.Name)

	_, err = s.ns.RenameTag(ctx, 2, t.ID, TagRequest{Name: "stolen"})
	s.Require().ErrorIs(err, ErrTagNotFound)

	s.Require().ErrorIs(s.ns.DeleteTag(ctx, 2, t.ID), ErrTagNotFound)
	s.Require().NoError(s.ns.DeleteTag(ctx, 1, t.ID))
}

func (s *NoteServiceSuite) TestCreateNoteWithTags() {
	ctx := context.Background()

	mine, err := s.ns.CreateTag(ctx, 1, TagRequest{Name: "btc"})
	s.Require().NoError(err)

	theirs, err := s.ns.CreateTag(ctx, 2, TagRequest{Name: "eth"})
	s.Require().NoError(err)

	n, err := s.ns.CreateNote(ctx, 1, CreateNoteRequest{Title: " Halving ", Content: "april", TagIDs: []int64{mine.ID}})
	s.Require().NoError(err)
	s.Require().Equal("Halving", n.Title)
	s.Require().Equal([]int64{mine.ID}, n.TagIDs())

	_, err = s.ns.CreateNote(ctx, 1, CreateNoteRequest{Title: "x", TagIDs: []int64{theirs.ID}})
	s.Require().ErrorIs(err, validate.ErrInvalid)
	s.Require().ErrorIs(err, ErrUnknownTags)

	_, err = s.ns.CreateNote(ctx, 1, CreateNoteRequest{Content: "no title"})
	s.Require().ErrorIs(err, validate.ErrInvalid)
}

func (s *NoteServiceSuite) TestUpdateNotePartial() {
	ctx := context.Background()

	tag, err := s.ns.CreateTag(ctx, 1, TagRequest{Name: "btc"})
	s.Require().NoError(err)

	n, err := s.ns.CreateNote(ctx, 1, CreateNoteRequest{Title: "t", Content: "c", TagIDs: []int64{tag.ID}})
	s.Require().NoError(err)

	content := "updated"

	n, err = s.ns.UpdateNote(ctx, 1, n.ID, UpdateNoteRequest{Content: &content})
	s.Require().NoError(err)
	s.Require().Equal("t", n.Title)
	s.Require().Equal("updated", n.Content)
	s.Require().Len(n.Tags, 1)

	empty := []int64{}

	n, err = s.ns.UpdateNote(ctx, 1, n.ID, UpdateNoteRequest{TagIDs: &empty})
	s.Require().NoError(err)
	s.Require().Empty(n.Tags)

	blank := " "

	_, err = s.ns.UpdateNote(ctx, 1, n.ID, UpdateNoteRequest{Title: &blank})
	s.Require().ErrorIs(err, validate.ErrInvalid)

	_, err = s.ns.UpdateNote(ctx, 2, n.ID, UpdateNoteRequest{Content: &content})
	s.Require().ErrorIs(err, ErrNotFound)
}

func (s *NoteServiceSuite) TestListNotesDefaults() {
	_, err := s.ns.ListNotes(context.Background(), ListNotesRequest{UserID: 1, TagID: 4, Query: " moon "})
	s.Require().NoError(err)
	s.Require().Equal(repo.ListNotesRequest{UserID: 1, TagID: 4, Query: "moon", Limit: 50}, s.repo.lastReq)

	_, err = s.ns.ListNotes(context.Background(), ListNotesRequest{UserID: 1, Limit: 500})
	s.Require().ErrorIs(err, validate.ErrInvalid)
}

func (s *NoteServiceSuite) TestDeleteNote() {
	n, err := s.ns.CreateNote(context.Background(), 1, CreateNoteRequest{Title: "t"})
	s.Require().NoError(err)

	s.Require().ErrorIs(s.ns.DeleteNote(context.Background(), 2, n.ID), ErrNotFound)
	s.Require().NoError(s.ns.DeleteNote(context.Background(), 1, n.ID))
	s.Require().ErrorIs(s.ns.DeleteNote(context.Background(), 1, n.ID), ErrNotFound)
}
