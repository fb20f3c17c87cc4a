package domain

import "time"

type Post struct {
	Id           PostId     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	AuthorId     UserId     `json:"author_id"`
	CategoryId   CategoryId `json:"category_id"`
	AuthorHidden bool       `json:"author_hidden"`
	LikedBy      UserSet    `json:"liked_by"`
	DislikedBy   UserSet    `json:"disliked_by"`
	Images       BlobKeys   `json:"images"`
	Documents    BlobKeys   `json:"documents"`
	CommentIds   []CommentId `json:"comment_ids"`
	Views        int64      `json:"views"`
	Deleted      bool       `json:"deleted"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Attachments returns image and document keys as one slice, the unit of
// blob-store cleanup on hard delete.
func (p *Post) Attachments() []string {
	keys := make([]string, 0, len(p.Images)+len(p.Documents))
	keys = append(keys, p.Images...)
	keys = append(keys, p.Documents...)
	return keys
}

type Comment struct {
	Id           CommentId `json:"id"`
	PostId       PostId    `json:"post_id"`
	AuthorId     UserId    `json:"author_id"`
	Text         string    `json:"text"`
	AuthorHidden bool      `json:"author_hidden"`
	Deleted      bool      `json:"deleted"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
