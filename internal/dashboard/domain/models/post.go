package models

import "time"

type Post struct {
	ID         int64     `json:"post_id"`     //nolint:tagliatelle
	UserID     int64     `json:"user_id"`     //nolint:tagliatelle
	AuthorName string    `json:"author_name"` //nolint:tagliatelle
	Content    string    `json:"content"`
	Likes      int64     `json:"likes"`
	Comments   int64     `json:"comments"`
	Liked      bool      `json:"liked"`
	CreatedAt  time.Time `json:"created_at"` //nolint:tagliatelle
	UpdatedAt  time.Time `json:"updated_at"` //nolint:tagliatelle
}

type Comment struct {
	ID         int64     `json:"comment_id"`  //nolint:tagliatelle
	PostID     int64     `json:"post_id"`     //nolint:tagliatelle
	UserID     int64     `json:"user_id"`     //nolint:tagliatelle
	AuthorName string    `json:"author_name"` //nolint:tagliatelle
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"` //nolint:tagliatelle
}

type Like struct {
	UserID    int64     `json:"user_id"`    //nolint:tagliatelle
	PostID    int64     `json:"post_id"`    //nolint:tagliatelle
	CreatedAt time.Time `json:"created_at"` //nolint:tagliatelle
}
