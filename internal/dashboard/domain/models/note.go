package models

import "time"

type Tag struct {
	ID        int64     `json:"tag_id"` //nolint:tagliatelle
	UserID    int64     `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"` //nolint:tagliatelle
}

type Note struct {
	ID        int64     `json:"note_id"` //nolint:tagliatelle
	UserID    int64     `json:"-"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []Tag     `json:"tags"`
	CreatedAt time.Time `json:"created_at"` //nolint:tagliatelle
	UpdatedAt time.Time `json:"updated_at"` //nolint:tagliatelle
}

func (n Note) TagIDs() []int64 {
	ids := make([]int64, 0, len(n.Tags))
	for _, t := range n.Tags {
		ids = append(ids, t.ID)
	}

	return ids
}
