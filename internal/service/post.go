package service

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ideahub-dev/ideahub/internal/domain"
	internal_errors "github.com/ideahub-dev/ideahub/internal/errors"
	"github.com/ideahub-dev/ideahub/internal/logger"
	"github.com/ideahub-dev/ideahub/internal/sanitize"
)

type Reaction string

const (
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

func (r Reaction) Valid() bool {
	return r == ReactionLike || r == ReactionDislike
}

// to mock service in tests
type PostService interface {
	Create(input CreatePostInput) (*domain.Post, error)
	Get(id domain.PostId) (*domain.PostView, []domain.CommentView, error)
	List(q ListPostsQuery) (*PostPage, error)
	Update(id domain.PostId, requesterId domain.UserId, upd PostUpdate) (string, error)
	SoftHide(id domain.PostId, requesterId domain.UserId) error
	HardDelete(id domain.PostId, requesterId domain.UserId) error
	BulkDelete(ids []domain.PostId) []BulkDeleteResult
	React(id domain.PostId, userId domain.UserId, reaction Reaction) (string, error)
	View(id domain.PostId) (*domain.PostView, error)
}

// Upload is a file accepted by the handler, not yet in the blob store.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        io.Reader
}

type CreatePostInput struct {
	Title        string
	Description  string
	AuthorId     domain.UserId
	CategoryId   domain.CategoryId
	AuthorHidden bool
	Images       []Upload
	Documents    []Upload
}

// PostUpdate carries owner-editable fields; nil means unchanged. Attachments
// are immutable after creation.
type PostUpdate struct {
	Title        *string
	Description  *string
	CategoryId   *domain.CategoryId
	AuthorHidden *bool
}

type ListPostsQuery struct {
	Page        int
	Limit       int
	Search      string
	CategoryIds []domain.CategoryId
	SortBy      string // "created" | "likes" | "views"
	SortOrder   string // "asc" | "desc"
}

// PostListItem is a storage row: the post plus author fields resolved by the
// list query. The visibility policy is applied on top of it.
type PostListItem struct {
	domain.Post
	AuthorName       string
	AuthorDepartment domain.Department
	AuthorExists     bool
	CommentCount     int
}

type PostPage struct {
	Total int               `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Posts []domain.PostView `json:"posts"`
}

type BulkDeleteResult struct {
	Id      domain.PostId `json:"id"`
	Deleted bool          `json:"deleted"`
	Message string        `json:"message"`
}

type PostStorage interface {
	CreatePost(p *domain.Post) (*domain.Post, error)
	// GetPost returns nil when the post does not exist.
	GetPost(id domain.PostId) (*domain.Post, error)
	ListPosts(q ListPostsQuery) ([]PostListItem, int, error)
	UpdatePost(id domain.PostId, upd PostUpdate) error
	SetPostDeleted(id domain.PostId) error
	DeletePost(id domain.PostId) error
	// ToggleReaction atomically flips the user's membership in the reaction
	// set and reports whether the reaction was removed (prior member) or
	// added. Adding always removes the opposite reaction.
	ToggleReaction(id domain.PostId, userId domain.UserId, reaction Reaction) (removed bool, err error)
	IncrementViews(id domain.PostId) (*domain.Post, error)
}

type Post struct {
	storage  PostStorage
	users    UserStorage
	cats     CategoryStorage
	comments CommentStorage
	closures ClosureStorage
	blobs    BlobStorage
	notifier Notifier
	now      func() time.Time
}

func NewPost(storage PostStorage, users UserStorage, cats CategoryStorage, comments CommentStorage, closures ClosureStorage, blobs BlobStorage, notifier Notifier) *Post {
	return &Post{storage, users, cats, comments, closures, blobs, notifier, time.Now}
}

// checkGate rejects the mutation when the submission window is not open.
func (p *Post) checkGate() error {
	window, err := p.closures.GetClosure()
	if err != nil {
		return err
	}
	open, reason := IsOpenForSubmission(window, p.now())
	if !open {
		return internal_errors.BadRequest("Idea submissions are " + reason)
	}
	return nil
}

// Create validates the submission gate BEFORE any attachment reaches the
// blob store. If persisting the post fails after the uploads, the stored
// blobs are rolled back.
func (p *Post) Create(input CreatePostInput) (*domain.Post, error) {
	if err := p.checkGate(); err != nil {
		return nil, err
	}

	author, err := p.users.GetUser(input.AuthorId)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, internal_errors.NotFound("Invalid author")
	}

	category, err := p.cats.GetCategory(input.CategoryId)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, internal_errors.NotFound("Category not found")
	}

	title := sanitize.Text(input.Title)
	description := sanitize.Text(input.Description)
	if title == "" || description == "" {
		return nil, internal_errors.BadRequest("Title and description are required")
	}

	imageKeys, err := p.storeUploads(input.Images)
	if err != nil {
		return nil, err
	}
	documentKeys, err := p.storeUploads(input.Documents)
	if err != nil {
		// images are already stored, roll them back
		p.rollbackUploads(imageKeys)
		return nil, err
	}

	post, err := p.storage.CreatePost(&domain.Post{
		Title:        title,
		Description:  description,
		AuthorId:     input.AuthorId,
		CategoryId:   input.CategoryId,
		AuthorHidden: input.AuthorHidden,
		Images:       imageKeys,
		Documents:    documentKeys,
	})
	if err != nil {
		p.rollbackUploads(append(imageKeys, documentKeys...))
		return nil, err
	}

	p.notifyCoordinators(post, author, category)

	return post, nil
}

func (p *Post) storeUploads(uploads []Upload) (domain.BlobKeys, error) {
	keys := make(domain.BlobKeys, 0, len(uploads))
	for _, upload := range uploads {
		key := uuid.NewString() + filepath.Ext(upload.Filename)
		if err := p.blobs.Save(key, upload.Data, upload.Size, upload.ContentType); err != nil {
			p.rollbackUploads(keys)
			return nil, internal_errors.Upstream("attachment upload", err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (p *Post) rollbackUploads(keys domain.BlobKeys) {
	if err := p.deleteAttachments(keys); err != nil {
		logger.Log.Error("attachment rollback failed", "keys", len(keys), "error", err)
	}
}

// deleteAttachments removes blobs concurrently; the deletes are independent
// keyed operations with no ordering requirement. The first failure is
// returned wrapping its cause.
func (p *Post) deleteAttachments(keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(keys))
	for _, key := range keys {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			if err := p.blobs.Delete(key); err != nil {
				errs <- fmt.Errorf("delete attachment %s: %w", key, err)
			}
		}(key)
	}
	wg.Wait()
	close(errs)

	if err := <-errs; err != nil {
		return internal_errors.Upstream("attachment cleanup", err)
	}
	return nil
}

func (p *Post) Get(id domain.PostId) (*domain.PostView, []domain.CommentView, error) {
	post, err := p.storage.GetPost(id)
	if err != nil {
		return nil, nil, err
	}
	if post == nil {
		return nil, nil, internal_errors.NotFound("Post not found")
	}

	author, err := p.users.GetUser(post.AuthorId)
	if err != nil {
		return nil, nil, err
	}

	comments, err := p.comments.ListCommentsByPost(id)
	if err != nil {
		return nil, nil, err
	}
	commentViews := make([]domain.CommentView, 0, len(comments))
	for i := range comments {
		commentAuthor, err := p.users.GetUser(comments[i].AuthorId)
		if err != nil {
			return nil, nil, err
		}
		commentViews = append(commentViews, ProjectComment(&comments[i], commentAuthor))
	}

	view := ProjectPost(post, author)
	return &view, commentViews, nil
}

func (p *Post) List(q ListPostsQuery) (*PostPage, error) {
	q.Page = max(1, q.Page)
	if q.Limit <= 0 {
		q.Limit = 5
	}

	items, total, err := p.storage.ListPosts(q)
	if err != nil {
		return nil, err
	}

	views := make([]domain.PostView, 0, len(items))
	for i := range items {
		item := &items[i]
		var author *domain.User
		if item.AuthorExists {
			author = &domain.User{Id: item.AuthorId, Name: item.AuthorName, Department: item.AuthorDepartment}
		}
		views = append(views, ProjectPost(&item.Post, author))
	}

	return &PostPage{Total: total, Page: q.Page, Limit: q.Limit, Posts: views}, nil
}

func (p *Post) Update(id domain.PostId, requesterId domain.UserId, upd PostUpdate) (string, error) {
	post, err := p.storage.GetPost(id)
	if err != nil {
		return "", err
	}
	if post == nil {
		return "", internal_errors.NotFound("Post not found")
	}
	if err := CheckOwnership(requesterId, post.AuthorId); err != nil {
		return "", err
	}
	if err := checkMutable(post.Deleted, "post"); err != nil {
		return "", err
	}

	if upd.Title != nil {
		clean := sanitize.Text(*upd.Title)
		if clean == "" {
			return "", internal_errors.BadRequest("Title must not be empty")
		}
		upd.Title = &clean
	}
	if upd.Description != nil {
		clean := sanitize.Text(*upd.Description)
		if clean == "" {
			return "", internal_errors.BadRequest("Description must not be empty")
		}
		upd.Description = &clean
	}
	if upd.CategoryId != nil {
		category, err := p.cats.GetCategory(*upd.CategoryId)
		if err != nil {
			return "", err
		}
		if category == nil {
			return "", internal_errors.NotFound("Category not found")
		}
	}

	if err := p.storage.UpdatePost(id, upd); err != nil {
		return "", err
	}
	return "The post has been updated", nil
}

// SoftHide marks the post deleted without touching attachments or child
// comments.
func (p *Post) SoftHide(id domain.PostId, requesterId domain.UserId) error {
	post, err := p.storage.GetPost(id)
	if err != nil {
		return err
	}
	if post == nil {
		return internal_errors.NotFound("Post not found")
	}
	if err := CheckOwnership(requesterId, post.AuthorId); err != nil {
		return err
	}
	return p.storage.SetPostDeleted(id)
}

// HardDelete removes blob attachments first, then the record. A cleanup
// failure aborts the delete so no record silently loses track of its blobs.
// Child comments are left orphaned.
func (p *Post) HardDelete(id domain.PostId, requesterId domain.UserId) error {
	post, err := p.storage.GetPost(id)
	if err != nil {
		return err
	}
	if post == nil {
		return internal_errors.NotFound("Post not found")
	}
	if err := CheckOwnership(requesterId, post.AuthorId); err != nil {
		return err
	}

	if err := p.deleteAttachments(post.Attachments()); err != nil {
		return err
	}

	return p.storage.DeletePost(id)
}

// BulkDelete is administrative: no ownership checks, one result per id, a
// failed id never aborts the batch. Unlike single HardDelete it also removes
// child comments.
func (p *Post) BulkDelete(ids []domain.PostId) []BulkDeleteResult {
	results := make([]BulkDeleteResult, 0, len(ids))
	for _, id := range ids {
		results = append(results, p.bulkDeleteOne(id))
	}
	return results
}

func (p *Post) bulkDeleteOne(id domain.PostId) BulkDeleteResult {
	post, err := p.storage.GetPost(id)
	if err != nil {
		return BulkDeleteResult{Id: id, Message: err.Error()}
	}
	if post == nil {
		return BulkDeleteResult{Id: id, Message: fmt.Sprintf("Post with id %d not found", id)}
	}

	if err := p.deleteAttachments(post.Attachments()); err != nil {
		return BulkDeleteResult{Id: id, Message: err.Error()}
	}
	if err := p.comments.DeleteCommentsByPost(id); err != nil {
		return BulkDeleteResult{Id: id, Message: err.Error()}
	}
	if err := p.storage.DeletePost(id); err != nil {
		return BulkDeleteResult{Id: id, Message: err.Error()}
	}

	return BulkDeleteResult{Id: id, Deleted: true, Message: fmt.Sprintf("Post with id %d deleted successfully", id)}
}

// React flips the user's like or dislike. A user is a member of at most one
// of the two sets at any time; atomicity is the storage's single-statement
// update.
func (p *Post) React(id domain.PostId, userId domain.UserId, reaction Reaction) (string, error) {
	if !reaction.Valid() {
		return "", internal_errors.BadRequest("Unknown reaction")
	}

	post, err := p.storage.GetPost(id)
	if err != nil {
		return "", err
	}
	if post == nil {
		return "", internal_errors.NotFound("Post not found")
	}
	if err := checkMutable(post.Deleted, "post"); err != nil {
		return "", err
	}

	removed, err := p.storage.ToggleReaction(id, userId, reaction)
	if err != nil {
		return "", err
	}

	if removed {
		return string(reaction) + " removed", nil
	}
	return string(reaction) + "d", nil
}

// View bumps the view counter and returns the updated projection.
func (p *Post) View(id domain.PostId) (*domain.PostView, error) {
	post, err := p.storage.IncrementViews(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, internal_errors.NotFound("Post not found")
	}

	author, err := p.users.GetUser(post.AuthorId)
	if err != nil {
		return nil, err
	}

	view := ProjectPost(post, author)
	return &view, nil
}

func (p *Post) notifyCoordinators(post *domain.Post, author *domain.User, category *domain.Category) {
	coordinators, err := p.users.ListUsersByRoleAndDepartment(domain.RoleQACoordinator, author.Department)
	if err != nil {
		logger.Log.Error("can't resolve QA coordinators", "department", author.Department, "error", err)
		return
	}

	recipients := make([]string, 0, len(coordinators))
	for _, c := range coordinators {
		recipients = append(recipients, c.Email)
	}

	subject, text, html := composeNewPostEmail(post, author, category)
	notifyAsync(p.notifier, recipients, subject, text, html)
}
