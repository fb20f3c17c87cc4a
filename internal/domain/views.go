package domain

import "time"

// AuthorView is the outward author projection. The real author id never
// leaves the service layer when the record is author-hidden.
type AuthorView struct {
	Id         UserId     `json:"id,omitempty"`
	Name       string     `json:"name"`
	Department Department `json:"department"`
}

// PostView is what callers see after the visibility policy is applied.
type PostView struct {
	Id           PostId      `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Author       AuthorView  `json:"author"`
	CategoryId   CategoryId  `json:"category_id"`
	Likes        int         `json:"likes"`
	Dislikes     int         `json:"dislikes"`
	Images       []string    `json:"images"`
	Documents    []string    `json:"documents"`
	CommentIds   []CommentId `json:"comment_ids"`
	Views        int64       `json:"views"`
	AuthorHidden bool        `json:"author_hidden"`
	Deleted      bool        `json:"deleted"`
	CreatedAt    time.Time   `json:"created_at"`
}

type CommentView struct {
	Id           CommentId  `json:"id"`
	PostId       PostId     `json:"post_id"`
	Text         string     `json:"text"`
	Author       AuthorView `json:"author"`
	AuthorHidden bool       `json:"author_hidden"`
	Deleted      bool       `json:"deleted"`
	CreatedAt    time.Time  `json:"created_at"`
}
