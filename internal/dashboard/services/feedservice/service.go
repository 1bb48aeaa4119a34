package feedservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/domain/models"
	repo "github.com/Leopold1975/crypto_dashboard/internal/dashboard/repository/feedrepo"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/validate"
	"github.com/Leopold1975/crypto_dashboard/pkg/logger"
)

var (
	ErrNotFound        = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
)

const (
	defaultLimit  = 20
	maxPostLen    = 1000
	maxCommentLen = 500
)

type Repository interface {
	CreatePost(context.Context, models.Post) (models.Post, error)
	GetPost(ctx context.Context, postID, viewerID int64) (models.Post, error)
	ListPosts(context.Context, repo.ListPostsRequest) ([]models.Post, error)
	UpdatePost(context.Context, models.Post) (models.Post, error)
	DeletePost(ctx context.Context, userID, postID int64) error
	ListComments(ctx context.Context, postID int64) ([]models.Comment, error)
	CreateComment(context.Context, models.Comment) (models.Comment, error)
	DeleteComment(ctx context.Context, userID, commentID int64) error
	ToggleLike(ctx context.Context, userID, postID int64) (bool, int64, error)
}

type FeedService struct {
	feedRepo Repository
	lg       logger.Logger
}

func New(feedRepo Repository, lg logger.Logger) *FeedService {
	return &FeedService{
		feedRepo: feedRepo,
		lg:       lg,
	}
}

func mapErr(err error, op string) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repo.ErrCommentNotFound):
		return ErrCommentNotFound
	default:
		return fmt.Errorf("%s error: %w", op, err)
	}
}

// checkContent trims s and enforces the limit in characters, not bytes.
func checkContent(s string, limit int) (string, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return "", validate.Errorf("content is required")
	}

	if n := utf8.RuneCountInString(s); n > limit {
		return "", validate.Errorf("content is %d characters long, limit is %d", n, limit)
	}

	return s, nil
}

func (fs *FeedService) ListPosts(ctx context.Context, req ListPostsRequest) ([]models.Post, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if req.Limit == 0 {
		req.Limit = defaultLimit
	}

	posts, err := fs.feedRepo.ListPosts(ctx, repo.ListPostsRequest{
		ViewerID: req.ViewerID,
		AuthorID: req.AuthorID,
		Offset:   req.Offset,
		Limit:    req.Limit,
	})
	if err != nil {
		return nil, mapErr(err, "list posts")
	}

	return posts, nil
}

func (fs *FeedService) GetPost(ctx context.Context, postID, viewerID int64) (models.Post, error) {
	p, err := fs.feedRepo.GetPost(ctx, postID, viewerID)
	if err != nil {
		return models.Post{}, mapErr(err, "get post")
	}

	return p, nil
}

func (fs *FeedService) CreatePost(ctx context.Context, userID int64, req PostRequest) (models.Post, error) {
	content, err := checkContent(req.Content, maxPostLen)
	if err != nil {
		return models.Post{}, err
	}

	p, err := fs.feedRepo.CreatePost(ctx, models.Post{UserID: userID, Content: content}) //nolint:exhaustruct
	if err != nil {
		return models.Post{}, mapErr(err, "create post")
	}

	return p, nil
}

// UpdatePost edits the content of a post written by userID.
func (fs *FeedService) UpdatePost(ctx context.Context, userID, postID int64, req PostRequest) (models.Post, error) {
	content, err := checkContent(req.Content, maxPostLen)
	if err != nil {
		return models.Post{}, err
	}

	p, err := fs.feedRepo.UpdatePost(ctx, models.Post{ID: postID, UserID: userID, Content: content}) //nolint:exhaustruct
	if err != nil {
		return models.Post{}, mapErr(err, "update post")
	}

	return p, nil
}

func (fs *FeedService) DeletePost(ctx context.Context, userID, postID int64) error {
	if err := fs.feedRepo.DeletePost(ctx, userID, postID); err != nil {
		return mapErr(err, "delete post")
	}

	return nil
}

func (fs *FeedService) ListComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	comments, err := fs.feedRepo.ListComments(ctx, postID)
	if err != nil {
		return nil, mapErr(err, "list comments")
	}

	return comments, nil
}

func (fs *FeedService) AddComment(ctx context.Context, userID, postID int64, req CommentRequest) (models.Comment, error) {
	content, err := checkContent(req.Content, maxCommentLen)
	if err != nil {
		return models.Comment{}, err
	}

	c, err := fs.feedRepo.CreateComment(ctx, models.Comment{ //nolint:exhaustruct
		PostID:  postID,
		UserID:  userID,
		Content: content,
	})
	if err != nil {
		return models.Comment{}, mapErr(err, "create comment")
	}

	return c, nil
}

// DeleteComment removes a comment written by userID.
func (fs *FeedService) DeleteComment(ctx context.Context, userID, commentID int64) error {
	if err := fs.feedRepo.DeleteComment(ctx, userID, commentID); err != nil {
		return mapErr(err, "delete comment")
	}

	return nil
}

func (fs *FeedService) ToggleLike(ctx context.Context, userID, postID int64) (LikeResult, error) {
	liked, likes, err := fs.feedRepo.ToggleLike(ctx, userID, postID)
	if err != nil {
		return LikeResult{}, mapErr(err, "toggle like")
	}

	return LikeResult{Liked: liked, Likes: likes}, nil
}
