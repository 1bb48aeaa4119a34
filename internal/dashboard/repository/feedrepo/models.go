package feedrepo

import "errors"

var (
	ErrNotFound        = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
)

type ListPostsRequest struct {
	ViewerID int64
	AuthorID int64
	Offset   int
	Limit    int
}
