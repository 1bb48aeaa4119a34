package noterepo

import "errors"

var (
	ErrNotFound    = errors.New("note not found")
	ErrTagNotFound = errors.New("tag not found")
	ErrTagExists   = errors.New("tag already exists")
	ErrForeignTags = errors.New("tags do not belong to user")
)

type ListNotesRequest struct {
	UserID int64
	TagID  int64
	Query  string
	Offset int
	Limit  int
}
