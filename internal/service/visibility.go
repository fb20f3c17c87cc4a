package service

import (
	"github.com/ideahub-dev/ideahub/internal/domain"
	internal_errors "github.com/ideahub-dev/ideahub/internal/errors"
)

// Fixed strings used by outward projections. The true author id and text are
// retained in storage; only the projection changes.
const (
	DeletedPlaceholder = "[deleted]"
	AnonymousName      = "Anonymous"
	HiddenDepartment   = "Hidden"
	DeletedUserName    = "Deleted User"
)

// CheckOwnership allows a mutation only for the record's author.
func CheckOwnership(requesterId, authorId domain.UserId) error {
	if requesterId != authorId {
		return internal_errors.Unauthorized("You can only modify your own content")
	}
	return nil
}

// checkMutable rejects mutations on soft-deleted records.
func checkMutable(deleted bool, what string) error {
	if deleted {
		return internal_errors.Conflict("This " + what + " has been removed")
	}
	return nil
}

// projectAuthor applies the author-hidden and deleted-user rules.
// authorExists is false when the referenced user no longer exists.
func projectAuthor(authorId domain.UserId, name string, department domain.Department, hidden, authorExists bool) domain.AuthorView {
	if hidden {
		// true author id must not leak
		return domain.AuthorView{Name: AnonymousName, Department: HiddenDepartment}
	}
	if !authorExists {
		return domain.AuthorView{Name: DeletedUserName}
	}
	return domain.AuthorView{Id: authorId, Name: name, Department: department}
}

// ProjectPost builds the outward view of a post. author may be nil when the
// referenced user has been deleted.
func ProjectPost(p *domain.Post, author *domain.User) domain.PostView {
	v := domain.PostView{
		Id:           p.Id,
		Title:        p.Title,
		Description:  p.Description,
		CategoryId:   p.CategoryId,
		Likes:        len(p.LikedBy),
		Dislikes:     len(p.DislikedBy),
		Images:       p.Images,
		Documents:    p.Documents,
		CommentIds:   p.CommentIds,
		Views:        p.Views,
		AuthorHidden: p.AuthorHidden,
		Deleted:      p.Deleted,
		CreatedAt:    p.CreatedAt,
	}

	if p.Deleted {
		v.Title = DeletedPlaceholder
		v.Description = DeletedPlaceholder
		v.Images = nil
		v.Documents = nil
	}

	var name string
	var department domain.Department
	if author != nil {
		name, department = author.Name, author.Department
	}
	v.Author = projectAuthor(p.AuthorId, name, department, p.AuthorHidden, author != nil)

	return v
}

// ProjectComment builds the outward view of a comment.
func ProjectComment(c *domain.Comment, author *domain.User) domain.CommentView {
	v := domain.CommentView{
		Id:           c.Id,
		PostId:       c.PostId,
		Text:         c.Text,
		AuthorHidden: c.AuthorHidden,
		Deleted:      c.Deleted,
		CreatedAt:    c.CreatedAt,
	}

	if c.Deleted {
		v.Text = DeletedPlaceholder
	}

	var name string
	var department domain.Department
	if author != nil {
		name, department = author.Name, author.Department
	}
	v.Author = projectAuthor(c.AuthorId, name, department, c.AuthorHidden, author != nil)

	return v
}
