package service

import (
	"time"

	"github.com/ideahub-dev/ideahub/internal/domain"
	e "github.com/ideahub-dev/ideahub/internal/errors"
	"github.com/ideahub-dev/ideahub/internal/logger"
	"github.com/ideahub-dev/ideahub/internal/sanitize"
)

type CommentService interface {
	Create(input CreateCommentInput) (*domain.Comment, error)
	Get(id domain.CommentId) (*domain.CommentView, error)
	Update(id domain.CommentId, requesterId domain.UserId, text string) (string, error)
	SoftHide(id domain.CommentId, requesterId domain.UserId) error
	HardDelete(id domain.CommentId, requesterId domain.UserId) error
}

type CreateCommentInput struct {
	PostId       domain.PostId
	AuthorId     domain.UserId
	Text         string
	AuthorHidden bool
}

type CommentStorage interface {
	CreateComment(c *domain.Comment) (*domain.Comment, error)
	// GetComment returns (nil, nil) when the comment does not exist.
	GetComment(id domain.CommentId) (*domain.Comment, error)
	// ListCommentsByPost returns comments in creation order.
	ListCommentsByPost(postId domain.PostId) ([]domain.Comment, error)
	UpdateComment(id domain.CommentId, text string) error
	SetCommentDeleted(id domain.CommentId) error
	DeleteComment(id domain.CommentId) error
	DeleteCommentsByPost(postId domain.PostId) error
}

type CommentDeps struct {
	Storage  CommentStorage
	Posts    PostStorage
	Users    UserStorage
	Closures ClosureStorage
	Notifier Notifier
}

type Comment struct {
	storage  CommentStorage
	posts    PostStorage
	users    UserStorage
	closures ClosureStorage
	notifier Notifier
	now      func() time.Time
}

func NewComment(d CommentDeps) *Comment {
	return &Comment{d.Storage, d.Posts, d.Users, d.Closures, d.Notifier, time.Now}
}

// Create accepts a comment only while the submission window is open, on a
// live post, from an existing user. The post author gets an email; a hidden
// commenter stays hidden there too.
func (s *Comment) Create(input CreateCommentInput) (*domain.Comment, error) {
	window, err := s.closures.GetClosure()
	if err != nil {
		return nil, err
	}
	if open, reason := IsOpenForSubmission(window, s.now()); !open {
		return nil, e.BadRequest("Idea submissions are " + reason)
	}

	post, err := s.posts.GetPost(input.PostId)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, e.NotFound("Post not found")
	}
	if err := checkMutable(post.Deleted, "post"); err != nil {
		return nil, err
	}

	author, err := s.users.GetUser(input.AuthorId)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, e.NotFound("Invalid author")
	}

	text := sanitize.Text(input.Text)
	if text == "" {
		return nil, e.BadRequest("Comment text must not be empty")
	}

	comment, err := s.storage.CreateComment(&domain.Comment{
		PostId:       input.PostId,
		AuthorId:     input.AuthorId,
		Text:         text,
		AuthorHidden: input.AuthorHidden,
	})
	if err != nil {
		return nil, err
	}

	s.notifyPostAuthor(post, comment, author)

	return comment, nil
}

func (s *Comment) Get(id domain.CommentId) (*domain.CommentView, error) {
	comment, err := s.storage.GetComment(id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, e.NotFound("Comment not found")
	}
	author, err := s.users.GetUser(comment.AuthorId)
	if err != nil {
		return nil, err
	}
	view := ProjectComment(comment, author)
	return &view, nil
}

func (s *Comment) Update(id domain.CommentId, requesterId domain.UserId, text string) (string, error) {
	comment, err := s.storage.GetComment(id)
	if err != nil {
		return "", err
	}
	if comment == nil {
		return "", e.NotFound("Comment not found")
	}
	if err := CheckOwnership(requesterId, comment.AuthorId); err != nil {
		return "", err
	}
	if err := checkMutable(comment.Deleted, "comment"); err != nil {
		return "", err
	}

	clean := sanitize.Text(text)
	if clean == "" {
		return "", e.BadRequest("Comment text must not be empty")
	}

	if err := s.storage.UpdateComment(id, clean); err != nil {
		return "", err
	}
	return "The comment has been updated", nil
}

func (s *Comment) SoftHide(id domain.CommentId, requesterId domain.UserId) error {
	comment, err := s.storage.GetComment(id)
	if err != nil {
		return err
	}
	if comment == nil {
		return e.NotFound("Comment not found")
	}
	if err := CheckOwnership(requesterId, comment.AuthorId); err != nil {
		return err
	}
	return s.storage.SetCommentDeleted(id)
}

func (s *Comment) HardDelete(id domain.CommentId, requesterId domain.UserId) error {
	comment, err := s.storage.GetComment(id)
	if err != nil {
		return err
	}
	if comment == nil {
		return e.NotFound("Comment not found")
	}
	if err := CheckOwnership(requesterId, comment.AuthorId); err != nil {
		return err
	}
	return s.storage.DeleteComment(id)
}

func (s *Comment) notifyPostAuthor(post *domain.Post, comment *domain.Comment, commentAuthor *domain.User) {
	// commenting on your own idea produces no email
	if post.AuthorId == comment.AuthorId {
		return
	}
	postAuthor, err := s.users.GetUser(post.AuthorId)
	if err != nil {
		logger.Log.Error("can't resolve post author for notification", "post", post.Id, "error", err)
		return
	}
	if postAuthor == nil {
		return
	}

	subject, text, html := composeNewCommentEmail(post, comment, commentAuthor)
	notifyAsync(s.notifier, []string{postAuthor.Email}, subject, text, html)
}
