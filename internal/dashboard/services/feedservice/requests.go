package feedservice

type PostRequest struct {
	Content string `json:"content"`
}

type CommentRequest struct {
	Content string `json:"content"`
}

type ListPostsRequest struct {
	ViewerID int64
	AuthorID int64
	Offset   int `validate:"min=0"`
	Limit    int `validate:"min=0,max=100"`
}

type LikeResult struct {
	Liked bool  `json:"liked"`
	Likes int64 `json:"likes"`
}
