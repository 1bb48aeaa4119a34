package noteservice

type TagRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

type CreateNoteRequest struct {
	Title   string  `json:"title"   validate:"required,max=200"`
	Content string  `json:"content" validate:"max=20000"`
	TagIDs  []int64 `json:"tag_ids" validate:"max=50"` //nolint:tagliatelle
}

// UpdateNoteRequest changes only the fields that are set.
type UpdateNoteRequest struct {
	Title   *string  `json:"title"   validate:"omitempty,max=200"`
	Content *string  `json:"content" validate:"omitempty,max=20000"`
	TagIDs  *[]int64 `json:"tag_ids"` //nolint:tagliatelle
}

type ListNotesRequest struct {
	UserID int64
	TagID  int64
	Query  string
	Offset int `validate:"min=0"`
	Limit  int `validate:"min=0,max=100"`
}
