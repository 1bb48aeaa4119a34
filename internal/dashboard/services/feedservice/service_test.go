package feedservice

import (
	"context"
	"strings"
	"testing"

	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/domain/models"
	repo "github.com/Leopold1975/crypto_dashboard/internal/dashboard/repository/feedrepo"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/validate"
	"github.com/Leopold1975/crypto_dashboard/pkg/logger"
	"github.com/stretchr/testify/suite"
)

type fakeRepo struct {
	posts    map[int64]models.Post
	comments map[int64]models.Comment
	likes    map[[2]int64]bool
	nextID   int64
	lastReq  repo.ListPostsRequest
}

func (f *fakeRepo) id() int64 {
	f.nextID++

	return f.nextID
}

func (f *fakeRepo) CreatePost(_ context.Context, p models.Post) (models.Post, error) {
	p.ID = f.id()
	f.posts[p.ID] = p

	return p, nil
}

func (f *fakeRepo) GetPost(_ context.Context, postID, _ int64) (models.Post, error) {
	p, ok := f.posts[postID]
	if !ok {
		return models.Post{}, repo.ErrNotFound
	}

	return p, nil
}

func (f *fakeRepo) ListPosts(_ context.Context, req repo.ListPostsRequest) ([]models.Post, error) {
	f.lastReq = req

	return nil, nil
}

func (f *fakeRepo) UpdatePost(_ context.Context, p models.Post) (models.Post, error) {
	ex, ok := f.posts[p.ID]
	if !ok || ex.UserID != p.UserID {
		return models.Post{}, repo.ErrNotFound
	}

	ex.Content = p.Content
	f.posts[p.ID] = ex

	return ex, nil
}

func (f *fakeRepo) DeletePost(_ context.Context, userID, postID int64) error {
	ex, ok := f.posts[postID]
	if !ok || ex.UserID != userID {
		return repo.ErrNotFound
	}

	delete(f.posts, postID)

	return nil
}

func (f *fakeRepo) ListComments(_ context.Context, postID int64) ([]models.Comment, error) {
	if _, ok := f.posts[postID]; !ok {
		return nil, repo.ErrNotFound
	}

	var out []models.Comment

	for _, c := range f.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}

	return out, nil
}

func (f *fakeRepo) CreateComment(_ context.Context, c models.Comment) (models.Comment, error) {
	if _, ok := f.posts[c.PostID]; !ok {
		return models.Comment{}, repo.ErrNotFound
	}

	c.ID = f.id()
	f.comments[c.ID] = c

	return c, nil
}

func (f *fakeRepo) DeleteComment(_ context.Context, userID, commentID int64) error {
	c, ok := f.comments[commentID]
	if !ok || c.UserID != userID {
		return repo.ErrCommentNotFound
	}

	delete(f.comments, commentID)

	return nil
}

func (f *fakeRepo) ToggleLike(_ context.Context, userID, postID int64) (bool, int64, error) {
	if _, ok := f.posts[postID]; !ok {
		return false, 0, repo.ErrNotFound
	}

	key := [2]int64{userID, postID}
	f.likes[key] = !f.likes[key]

	var n int64

	for k, v := range f.likes {
		if v && k[1] == postID {
			n++
		}
	}

	return f.likes[key], n, nil
}

type FeedServiceSuite struct {
	suite.Suite
	repo *fakeRepo
	fs   *FeedService
}

func TestFeedService(t *testing.T) {
	suite.Run(t, new(FeedServiceSuite))
}

func (s *FeedServiceSuite) SetupTest() {
	s.repo = &fakeRepo{
		posts:    map[int64]models.Post{},
		comments: map[int64]models.Comment{},
		likes:    map[[2]int64]bool{},
	}
	s.fs = New(s.repo, logger.NewNop())
}

func (s *FeedServiceSuite) TestPostLength() {
	ctx := context.Background()

	p, err := s.fs.CreatePost(ctx, 1, PostRequest{Content: "  gm  "})
	s.Require().NoError(err)
	s.Require().Equal("gm", p.Content)

	_, err = s.fs.CreatePost(ctx, 1, PostRequest{Content: "   "})
	s.Require().ErrorIs(err, validate.ErrInvalid)

	_, err = s.fs.CreatePost(ctx, 1, PostRequest{Content: strings.Repeat("₿", 1000)})
	s.Require().NoError(err)

	_, err = s.fs.CreatePost(ctx, 1, PostRequest{Content: strings.Repeat("a", 1001)})
	s.Require().ErrorIs(err, validate.ErrInvalid)
}

func (s *FeedServiceSuite) TestUpdateDeleteOwnOnly() {
	ctx := context.Background()

	p, err := s.fs.CreatePost(ctx, 1, PostRequest{Content: "first"})
	s.Require().NoError(err)

	_, err = s.fs.UpdatePost(ctx, 2, p.ID, PostRequest{Content: "hijack"})
	s.Require().ErrorIs(err, ErrNotFound)

	p, err = s.fs.UpdatePost(ctx, 1, p.ID, PostRequest{Content: "edited"})
	s.Require().NoError(err)
	s.Require().Equal("edited", p.Content)

	s.Require().ErrorIs(s.fs.DeletePost(ctx, 2, p.ID), ErrNotFound)
	s.Require().NoError(s.fs.DeletePost(ctx, 1, p.ID))

	_, err = s.fs.GetPost(ctx, p.ID, 1)
	s.Require().ErrorIs(err, ErrNotFound)
}

func (s *FeedServiceSuite) TestComments() {
	ctx := context.Background()

	p, err := s.fs.CreatePost(ctx, 1, PostRequest{Content: "post"})
	s.Require().NoError(err)

	c, err := s.fs.AddComment(ctx, 2, p.ID, CommentRequest{Content: "nice"})
	s.Require().NoError(err)

	_, err = s.fs.AddComment(ctx, 2, p.ID, CommentRequest{Content: strings.Repeat("x", 501)})
	s.Require().ErrorIs(err, validate.ErrInvalid)

	_, err = s.fs.AddComment(ctx, 2, 999, CommentRequest{Content: "lost"})
	s.Require().ErrorIs(err, ErrNotFound)

	comments, err := s.fs.ListComments(ctx, p.ID)
	s.Require().NoError(err)
	s.Require().Len(comments, 1)

	s.Require().ErrorIs(s.fs.DeleteComment(ctx, 1, c.ID), ErrCommentNotFound)
	s.Require().NoError(s.fs.DeleteComment(ctx, 2, c.ID))
}

func (s *FeedServiceSuite) TestToggleLike() {
	ctx := context.Background()

	p, err := s.fs.CreatePost(ctx, 1, PostRequest{Content: "like me"})
	s.Require().NoError(err)

	res, err := s.fs.ToggleLike(ctx, 2, p.ID)
	s.Require().NoError(err)
	s.Require().Equal(LikeResult{Liked: true, Likes: 1}, res)

	res, err = s.fs.ToggleLike(ctx, 3, p.ID)
	s.Require().NoError(err)
	s.Require().Equal(LikeResult{Liked: true, Likes: 2}, res)

	res, err = s.fs.ToggleLike(ctx, 2, p.ID)
	s.Require().NoError(err)
	s.Require().Equal(LikeResult{Liked: false, Likes: 1}, res)

	_, err = s.fs.ToggleLike(ctx, 2, 999)
	s.Require().ErrorIs(err, ErrNotFound)
}

func (s *FeedServiceSuite) TestListPostsDefaults() {
	_, err := s.fs.ListPosts(context.Background(), ListPostsRequest{ViewerID: 5})
	s.Require().NoError(err)
	s.Require().Equal(repo.ListPostsRequest{ViewerID: 5, Limit: 20}, s.repo.lastReq)

	_, err = s.fs.ListPosts(context.Background(), ListPostsRequest{Offset: -1})
	s.Require().ErrorIs(err, validate.ErrInvalid)
}
