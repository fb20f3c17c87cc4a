package service

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideahub-dev/ideahub/internal/domain"
)

func openWindow() *domain.Closure {
	return &domain.Closure{
		Id:                 1,
		StartDate:          days(-10),
		InitialClosureDate: days(10),
		FinalClosureDate:   days(20),
	}
}

type postTestDeps struct {
	storage  *MockPostStorage
	users    *MockUserStorage
	cats     *MockCategoryStorage
	comments *MockCommentStorage
	closures *MockClosureStorage
	blobs    *MockBlobStorage
	notifier *MockNotifier
}

func newTestPost(d postTestDeps) *Post {
	if d.storage == nil {
		d.storage = &MockPostStorage{}
	}
	if d.users == nil {
		d.users = &MockUserStorage{
			getUserFunc: func(id domain.UserId) (*domain.User, error) {
				return &domain.User{Id: id, Name: "Alice", Email: "alice@corp.test", Department: "R&D"}, nil
			},
		}
	}
	if d.cats == nil {
		d.cats = &MockCategoryStorage{
			getCategoryFunc: func(id domain.CategoryId) (*domain.Category, error) {
				return &domain.Category{Id: id, Name: "Process"}, nil
			},
		}
	}
	if d.comments == nil {
		d.comments = &MockCommentStorage{}
	}
	if d.closures == nil {
		d.closures = &MockClosureStorage{
			getClosureFunc: func() (*domain.Closure, error) { return openWindow(), nil },
		}
	}
	if d.blobs == nil {
		d.blobs = &MockBlobStorage{}
	}
	if d.notifier == nil {
		d.notifier = &MockNotifier{}
	}
	return &Post{
		storage:  d.storage,
		users:    d.users,
		cats:     d.cats,
		comments: d.comments,
		closures: d.closures,
		blobs:    d.blobs,
		notifier: d.notifier,
		now:      func() time.Time { return testToday },
	}
}

func upload(name string) Upload {
	return Upload{Filename: name, ContentType: "image/png", Size: 4, Data: strings.NewReader("data")}
}

func TestPostCreate(t *testing.T) {
	input := CreatePostInput{
		Title:       "Better coffee",
		Description: "Replace the machine on floor 3",
		AuthorId:    42,
		CategoryId:  7,
	}

	t.Run("success", func(t *testing.T) {
		var created *domain.Post
		storage := &MockPostStorage{
			createPostFunc: func(p *domain.Post) (*domain.Post, error) {
				p.Id = 99
				created = p
				return p, nil
			},
		}
		svc := newTestPost(postTestDeps{storage: storage})

		post, err := svc.Create(input)
		require.NoError(t, err)
		assert.Equal(t, domain.PostId(99), post.Id)
		assert.Equal(t, "Better coffee", created.Title)
		assert.Equal(t, domain.UserId(42), created.AuthorId)
	})

	t.Run("closed window rejects before any upload", func(t *testing.T) {
		blobs := &MockBlobStorage{}
		closures := &MockClosureStorage{
			getClosureFunc: func() (*domain.Closure, error) { return nil, nil },
		}
		svc := newTestPost(postTestDeps{closures: closures, blobs: blobs})

		withFiles := input
		withFiles.Images = []Upload{upload("a.png")}

		_, err := svc.Create(withFiles)
		assertCode(t, err, "bad_request")
		assert.Contains(t, err.Error(), GateReasonNotYetOpen)
		assert.Empty(t, blobs.saved)
	})

	t.Run("past both closes rejects", func(t *testing.T) {
		closures := &MockClosureStorage{
			getClosureFunc: func() (*domain.Closure, error) {
				return &domain.Closure{StartDate: days(-30), InitialClosureDate: days(-5), FinalClosureDate: days(-1)}, nil
			},
		}
		svc := newTestPost(postTestDeps{closures: closures})

		_, err := svc.Create(input)
		assertCode(t, err, "bad_request")
		assert.Contains(t, err.Error(), GateReasonClosed)
	})

	t.Run("unknown author", func(t *testing.T) {
		users := &MockUserStorage{
			getUserFunc: func(id domain.UserId) (*domain.User, error) { return nil, nil },
		}
		svc := newTestPost(postTestDeps{users: users})

		_, err := svc.Create(input)
		assertCode(t, err, "not_found")
	})

	t.Run("unknown category", func(t *testing.T) {
		cats := &MockCategoryStorage{
			getCategoryFunc: func(id domain.CategoryId) (*domain.Category, error) { return nil, nil },
		}
		svc := newTestPost(postTestDeps{cats: cats})

		_, err := svc.Create(input)
		assertCode(t, err, "not_found")
	})

	t.Run("upload keys keep the extension", func(t *testing.T) {
		blobs := &MockBlobStorage{}
		svc := newTestPost(postTestDeps{blobs: blobs})

		withFiles := input
		withFiles.Images = []Upload{upload("diagram.png")}
		withFiles.Documents = []Upload{upload("plan.pdf")}

		post, err := svc.Create(withFiles)
		require.NoError(t, err)
		require.Len(t, post.Images, 1)
		require.Len(t, post.Documents, 1)
		assert.True(t, strings.HasSuffix(post.Images[0], ".png"))
		assert.True(t, strings.HasSuffix(post.Documents[0], ".pdf"))
		assert.NotEqual(t, "diagram.png", post.Images[0])
		assert.Len(t, blobs.saved, 2)
	})

	t.Run("document upload failure rolls back stored images", func(t *testing.T) {
		blobs := &MockBlobStorage{
			// fail only on the pdf
			saveFunc: func(key string, _ io.Reader, _ int64, _ string) error {
				if strings.HasSuffix(key, ".pdf") {
					return errors.New("bucket unavailable")
				}
				return nil
			},
		}
		svc := newTestPost(postTestDeps{blobs: blobs})

		withFiles := input
		withFiles.Images = []Upload{upload("a.png")}
		withFiles.Documents = []Upload{upload("b.pdf")}

		_, err := svc.Create(withFiles)
		assertCode(t, err, "upstream_failure")
		require.Len(t, blobs.saved, 1)
		assert.Equal(t, blobs.saved, blobs.deletedKeys())
	})

	t.Run("persist failure rolls back all blobs", func(t *testing.T) {
		blobs := &MockBlobStorage{}
		storage := &MockPostStorage{
			createPostFunc: func(p *domain.Post) (*domain.Post, error) {
				return nil, errors.New("insert failed")
			},
		}
		svc := newTestPost(postTestDeps{storage: storage, blobs: blobs})

		withFiles := input
		withFiles.Images = []Upload{upload("a.png"), upload("b.jpg")}

		_, err := svc.Create(withFiles)
		require.Error(t, err)
		assert.ElementsMatch(t, blobs.saved, blobs.deletedKeys())
	})

	t.Run("empty title", func(t *testing.T) {
		svc := newTestPost(postTestDeps{})
		bad := input
		bad.Title = "   "
		_, err := svc.Create(bad)
		assertCode(t, err, "bad_request")
	})
}

func TestPostReact(t *testing.T) {
	livePost := func(id domain.PostId) (*domain.Post, error) {
		return &domain.Post{Id: id, AuthorId: 1}, nil
	}

	testCases := []struct {
		name     string
		reaction Reaction
		removed  bool
		want     string
	}{
		{"like added", ReactionLike, false, "liked"},
		{"like removed", ReactionLike, true, "like removed"},
		{"dislike added", ReactionDislike, false, "disliked"},
		{"dislike removed", ReactionDislike, true, "dislike removed"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			storage := &MockPostStorage{
				getPostFunc: livePost,
				toggleReactionFunc: func(id domain.PostId, userId domain.UserId, r Reaction) (bool, error) {
					assert.Equal(t, tc.reaction, r)
					return tc.removed, nil
				},
			}
			svc := newTestPost(postTestDeps{storage: storage})

			msg, err := svc.React(5, 42, tc.reaction)
			require.NoError(t, err)
			assert.Equal(t, tc.want, msg)
		})
	}

	t.Run("unknown reaction", func(t *testing.T) {
		svc := newTestPost(postTestDeps{})
		_, err := svc.React(5, 42, Reaction("love"))
		assertCode(t, err, "bad_request")
	})

	t.Run("missing post", func(t *testing.T) {
		svc := newTestPost(postTestDeps{storage: &MockPostStorage{}})
		_, err := svc.React(5, 42, ReactionLike)
		assertCode(t, err, "not_found")
	})

	t.Run("deleted post", func(t *testing.T) {
		storage := &MockPostStorage{
			getPostFunc: func(id domain.PostId) (*domain.Post, error) {
				return &domain.Post{Id: id, Deleted: true}, nil
			},
		}
		svc := newTestPost(postTestDeps{storage: storage})
		_, err := svc.React(5, 42, ReactionLike)
		assertCode(t, err, "conflict")
	})
}

func TestPostUpdate(t *testing.T) {
	owned := func(id domain.PostId) (*domain.Post, error) {
		return &domain.Post{Id: id, AuthorId: 42, Title: "old"}, nil
	}

	t.Run("owner updates", func(t *testing.T) {
		var got PostUpdate
		storage := &MockPostStorage{
			getPostFunc: owned,
			updatePostFunc: func(id domain.PostId, upd PostUpdate) error {
				got = upd
				return nil
			},
		}
		svc := newTestPost(postTestDeps{storage: storage})

		title := "new title"
		msg, err := svc.Update(5, 42, PostUpdate{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "The post has been updated", msg)
		require.NotNil(t, got.Title)
		assert.Equal(t, "new title", *got.Title)
		assert.Nil(t, got.Description)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		svc := newTestPost(postTestDeps{storage: &MockPostStorage{getPostFunc: owned}})
		title := "hijack"
		_, err := svc.Update(5, 7, PostUpdate{Title: &title})
		assertCode(t, err, "unauthorized")
	})

	t.Run("deleted post is immutable", func(t *testing.T) {
		storage := &MockPostStorage{
			getPostFunc: func(id domain.PostId) (*domain.Post, error) {
				return &domain.Post{Id: id, AuthorId: 42, Deleted: true}, nil
			},
		}
		svc := newTestPost(postTestDeps{storage: storage})
		title := "x"
		_, err := svc.Update(5, 42, PostUpdate{Title: &title})
		assertCode(t, err, "conflict")
	})

	t.Run("unknown target category", func(t *testing.T) {
		cats := &MockCategoryStorage{
			getCategoryFunc: func(id domain.CategoryId) (*domain.Category, error) { return nil, nil },
		}
		svc := newTestPost(postTestDeps{storage: &MockPostStorage{getPostFunc: owned}, cats: cats})
		cat := domain.CategoryId(9)
		_, err := svc.Update(5, 42, PostUpdate{CategoryId: &cat})
		assertCode(t, err, "not_found")
	})
}

func TestPostHardDelete(t *testing.T) {
	withAttachments := func(id domain.PostId) (*domain.Post, error) {
		return &domain.Post{
			Id:        id,
			AuthorId:  42,
			Images:    domain.BlobKeys{"img-1.png"},
			Documents: domain.BlobKeys{"doc-1.pdf"},
		}, nil
	}

	t.Run("removes blobs then the record", func(t *testing.T) {
		deleted := false
		storage := &MockPostStorage{
			getPostFunc:    withAttachments,
			deletePostFunc: func(id domain.PostId) error { deleted = true; return nil },
		}
		blobs := &MockBlobStorage{}
		svc := newTestPost(postTestDeps{storage: storage, blobs: blobs})

		require.NoError(t, svc.HardDelete(5, 42))
		assert.True(t, deleted)
		assert.ElementsMatch(t, []string{"img-1.png", "doc-1.pdf"}, blobs.deletedKeys())
	})

	t.Run("blob failure aborts the delete", func(t *testing.T) {
		deleted := false
		storage := &MockPostStorage{
			getPostFunc:    withAttachments,
			deletePostFunc: func(id domain.PostId) error { deleted = true; return nil },
		}
		blobs := &MockBlobStorage{
			deleteFunc: func(key string) error { return errors.New("bucket unavailable") },
		}
		svc := newTestPost(postTestDeps{storage: storage, blobs: blobs})

		err := svc.HardDelete(5, 42)
		assertCode(t, err, "upstream_failure")
		assert.ErrorContains(t, errors.Unwrap(err), "bucket unavailable")
		assert.False(t, deleted, "record must survive a failed cleanup")
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		svc := newTestPost(postTestDeps{storage: &MockPostStorage{getPostFunc: withAttachments}})
		assertCode(t, svc.HardDelete(5, 7), "unauthorized")
	})
}

func TestPostBulkDelete(t *testing.T) {
	storage := &MockPostStorage{
		getPostFunc: func(id domain.PostId) (*domain.Post, error) {
			switch id {
			case 1:
				return &domain.Post{Id: 1, AuthorId: 7}, nil
			case 2:
				return nil, nil
			default:
				return nil, fmt.Errorf("connection reset")
			}
		},
	}
	cleaned := []domain.PostId{}
	comments := &MockCommentStorage{
		deleteCommentsByPostFunc: func(postId domain.PostId) error {
			cleaned = append(cleaned, postId)
			return nil
		},
	}
	svc := newTestPost(postTestDeps{storage: storage, comments: comments})

	results := svc.BulkDelete([]domain.PostId{1, 2, 3})
	require.Len(t, results, 3)

	assert.True(t, results[0].Deleted)
	assert.Equal(t, "Post with id 1 deleted successfully", results[0].Message)

	assert.False(t, results[1].Deleted)
	assert.Equal(t, "Post with id 2 not found", results[1].Message)

	assert.False(t, results[2].Deleted)
	assert.Contains(t, results[2].Message, "connection reset")

	assert.Equal(t, []domain.PostId{1}, cleaned, "comments cleaned only for deleted posts")
}

func TestPostGetVisibility(t *testing.T) {
	t.Run("deleted post reads as placeholder", func(t *testing.T) {
		storage := &MockPostStorage{
			getPostFunc: func(id domain.PostId) (*domain.Post, error) {
				return &domain.Post{Id: id, AuthorId: 42, Title: "secret", Description: "secret", Deleted: true}, nil
			},
		}
		svc := newTestPost(postTestDeps{storage: storage})

		view, _, err := svc.Get(5)
		require.NoError(t, err)
		assert.Equal(t, DeletedPlaceholder, view.Title)
		assert.Equal(t, DeletedPlaceholder, view.Description)
		assert.True(t, view.Deleted)
	})

	t.Run("hidden author never leaks the id", func(t *testing.T) {
		storage := &MockPostStorage{
			getPostFunc: func(id domain.PostId) (*domain.Post, error) {
				return &domain.Post{Id: id, AuthorId: 42, Title: "t", Description: "d", AuthorHidden: true}, nil
			},
		}
		svc := newTestPost(postTestDeps{storage: storage})

		view, _, err := svc.Get(5)
		require.NoError(t, err)
		assert.Zero(t, view.Author.Id)
		assert.Equal(t, AnonymousName, view.Author.Name)
		assert.Equal(t, HiddenDepartment, view.Author.Department)
	})
}

func TestPostList(t *testing.T) {
	var got ListPostsQuery
	storage := &MockPostStorage{
		listPostsFunc: func(q ListPostsQuery) ([]PostListItem, int, error) {
			got = q
			return []PostListItem{
				{Post: domain.Post{Id: 1, Title: "t", AuthorId: 3}, AuthorName: "Bob", AuthorDepartment: "IT", AuthorExists: true},
				{Post: domain.Post{Id: 2, Title: "u", AuthorId: 4}},
			}, 12, nil
		},
	}
	svc := newTestPost(postTestDeps{storage: storage})

	page, err := svc.List(ListPostsQuery{Page: 0, Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Page, "page defaults to 1")
	assert.Equal(t, 5, got.Limit, "limit defaults to 5")
	assert.Equal(t, 12, page.Total)
	require.Len(t, page.Posts, 2)
	assert.Equal(t, "Bob", page.Posts[0].Author.Name)
	assert.Equal(t, DeletedUserName, page.Posts[1].Author.Name)
}
