package service

import (
	"io"
	"sync"

	"github.com/ideahub-dev/ideahub/internal/domain"
)

// Func-field mocks shared by the service tests. A nil field means "succeed
// with the zero answer"; tests override only what they assert on.

type MockPostStorage struct {
	createPostFunc     func(p *domain.Post) (*domain.Post, error)
	getPostFunc        func(id domain.PostId) (*domain.Post, error)
	listPostsFunc      func(q ListPostsQuery) ([]PostListItem, int, error)
	updatePostFunc     func(id domain.PostId, upd PostUpdate) error
	setPostDeletedFunc func(id domain.PostId) error
	deletePostFunc     func(id domain.PostId) error
	toggleReactionFunc func(id domain.PostId, userId domain.UserId, reaction Reaction) (bool, error)
	incrementViewsFunc func(id domain.PostId) (*domain.Post, error)
}

func (m *MockPostStorage) CreatePost(p *domain.Post) (*domain.Post, error) {
	if m.createPostFunc != nil {
		return m.createPostFunc(p)
	}
	p.Id = 1
	return p, nil
}

func (m *MockPostStorage) GetPost(id domain.PostId) (*domain.Post, error) {
	if m.getPostFunc != nil {
		return m.getPostFunc(id)
	}
	return nil, nil
}

func (m *MockPostStorage) ListPosts(q ListPostsQuery) ([]PostListItem, int, error) {
	if m.listPostsFunc != nil {
		return m.listPostsFunc(q)
	}
	return nil, 0, nil
}

func (m *MockPostStorage) UpdatePost(id domain.PostId, upd PostUpdate) error {
	if m.updatePostFunc != nil {
		return m.updatePostFunc(id, upd)
	}
	return nil
}

func (m *MockPostStorage) SetPostDeleted(id domain.PostId) error {
	if m.setPostDeletedFunc != nil {
		return m.setPostDeletedFunc(id)
	}
	return nil
}

func (m *MockPostStorage) DeletePost(id domain.PostId) error {
	if m.deletePostFunc != nil {
		return m.deletePostFunc(id)
	}
	return nil
}

func (m *MockPostStorage) ToggleReaction(id domain.PostId, userId domain.UserId, reaction Reaction) (bool, error) {
	if m.toggleReactionFunc != nil {
		return m.toggleReactionFunc(id, userId, reaction)
	}
	return false, nil
}

func (m *MockPostStorage) IncrementViews(id domain.PostId) (*domain.Post, error) {
	if m.incrementViewsFunc != nil {
		return m.incrementViewsFunc(id)
	}
	return nil, nil
}

type MockUserStorage struct {
	createUserFunc        func(user *domain.User) (domain.UserId, error)
	getUserFunc           func(id domain.UserId) (*domain.User, error)
	getUserByEmailFunc    func(email string) (*domain.User, error)
	listUsersFunc         func() ([]domain.User, error)
	listByRoleAndDeptFunc func(role, department string) ([]domain.User, error)
	updateUserFunc        func(user *domain.User) error
	deleteUserFunc        func(id domain.UserId) error
	deleteUsersFunc       func(ids []domain.UserId) error
}

func (m *MockUserStorage) CreateUser(user *domain.User) (domain.UserId, error) {
	if m.createUserFunc != nil {
		return m.createUserFunc(user)
	}
	return 1, nil
}

func (m *MockUserStorage) GetUser(id domain.UserId) (*domain.User, error) {
	if m.getUserFunc != nil {
		return m.getUserFunc(id)
	}
	return nil, nil
}

func (m *MockUserStorage) GetUserByEmail(email string) (*domain.User, error) {
	if m.getUserByEmailFunc != nil {
		return m.getUserByEmailFunc(email)
	}
	return nil, nil
}

func (m *MockUserStorage) ListUsers() ([]domain.User, error) {
	if m.listUsersFunc != nil {
		return m.listUsersFunc()
	}
	return nil, nil
}

func (m *MockUserStorage) ListUsersByRoleAndDepartment(role, department string) ([]domain.User, error) {
	if m.listByRoleAndDeptFunc != nil {
		return m.listByRoleAndDeptFunc(role, department)
	}
	return nil, nil
}

func (m *MockUserStorage) UpdateUser(user *domain.User) error {
	if m.updateUserFunc != nil {
		return m.updateUserFunc(user)
	}
	return nil
}

func (m *MockUserStorage) DeleteUser(id domain.UserId) error {
	if m.deleteUserFunc != nil {
		return m.deleteUserFunc(id)
	}
	return nil
}

func (m *MockUserStorage) DeleteUsers(ids []domain.UserId) error {
	if m.deleteUsersFunc != nil {
		return m.deleteUsersFunc(ids)
	}
	return nil
}

type MockCategoryStorage struct {
	createCategoryFunc    func(name string) (domain.CategoryId, error)
	getCategoryFunc       func(id domain.CategoryId) (*domain.Category, error)
	getCategoryByNameFunc func(name string) (*domain.Category, error)
	listCategoriesFunc    func() ([]domain.Category, error)
	updateCategoryFunc    func(category *domain.Category) error
	deleteCategoryFunc    func(id domain.CategoryId) error
	deleteCategoriesFunc  func(ids []domain.CategoryId) error
	categoriesInUseFunc   func(ids []domain.CategoryId) ([]domain.CategoryId, error)
}

func (m *MockCategoryStorage) CreateCategory(name string) (domain.CategoryId, error) {
	if m.createCategoryFunc != nil {
		return m.createCategoryFunc(name)
	}
	return 1, nil
}

func (m *MockCategoryStorage) GetCategory(id domain.CategoryId) (*domain.Category, error) {
	if m.getCategoryFunc != nil {
		return m.getCategoryFunc(id)
	}
	return nil, nil
}

func (m *MockCategoryStorage) GetCategoryByName(name string) (*domain.Category, error) {
	if m.getCategoryByNameFunc != nil {
		return m.getCategoryByNameFunc(name)
	}
	return nil, nil
}

func (m *MockCategoryStorage) ListCategories() ([]domain.Category, error) {
	if m.listCategoriesFunc != nil {
		return m.listCategoriesFunc()
	}
	return nil, nil
}

func (m *MockCategoryStorage) UpdateCategory(category *domain.Category) error {
	if m.updateCategoryFunc != nil {
		return m.updateCategoryFunc(category)
	}
	return nil
}

func (m *MockCategoryStorage) DeleteCategory(id domain.CategoryId) error {
	if m.deleteCategoryFunc != nil {
		return m.deleteCategoryFunc(id)
	}
	return nil
}

func (m *MockCategoryStorage) DeleteCategories(ids []domain.CategoryId) error {
	if m.deleteCategoriesFunc != nil {
		return m.deleteCategoriesFunc(ids)
	}
	return nil
}

func (m *MockCategoryStorage) CategoriesInUse(ids []domain.CategoryId) ([]domain.CategoryId, error) {
	if m.categoriesInUseFunc != nil {
		return m.categoriesInUseFunc(ids)
	}
	return nil, nil
}

type MockCommentStorage struct {
	createCommentFunc        func(c *domain.Comment) (*domain.Comment, error)
	getCommentFunc           func(id domain.CommentId) (*domain.Comment, error)
	listCommentsByPostFunc   func(postId domain.PostId) ([]domain.Comment, error)
	updateCommentFunc        func(id domain.CommentId, text string) error
	setCommentDeletedFunc    func(id domain.CommentId) error
	deleteCommentFunc        func(id domain.CommentId) error
	deleteCommentsByPostFunc func(postId domain.PostId) error
}

func (m *MockCommentStorage) CreateComment(c *domain.Comment) (*domain.Comment, error) {
	if m.createCommentFunc != nil {
		return m.createCommentFunc(c)
	}
	c.Id = 1
	return c, nil
}

func (m *MockCommentStorage) GetComment(id domain.CommentId) (*domain.Comment, error) {
	if m.getCommentFunc != nil {
		return m.getCommentFunc(id)
	}
	return nil, nil
}

func (m *MockCommentStorage) ListCommentsByPost(postId domain.PostId) ([]domain.Comment, error) {
	if m.listCommentsByPostFunc != nil {
		return m.listCommentsByPostFunc(postId)
	}
	return nil, nil
}

func (m *MockCommentStorage) UpdateComment(id domain.CommentId, text string) error {
	if m.updateCommentFunc != nil {
		return m.updateCommentFunc(id, text)
	}
	return nil
}

func (m *MockCommentStorage) SetCommentDeleted(id domain.CommentId) error {
	if m.setCommentDeletedFunc != nil {
		return m.setCommentDeletedFunc(id)
	}
	return nil
}

func (m *MockCommentStorage) DeleteComment(id domain.CommentId) error {
	if m.deleteCommentFunc != nil {
		return m.deleteCommentFunc(id)
	}
	return nil
}

func (m *MockCommentStorage) DeleteCommentsByPost(postId domain.PostId) error {
	if m.deleteCommentsByPostFunc != nil {
		return m.deleteCommentsByPostFunc(postId)
	}
	return nil
}

// deletes run concurrently, guard the recorded keys
type MockBlobStorage struct {
	saveFunc   func(key string, data io.Reader, size int64, contentType string) error
	deleteFunc func(key string) error

	mu      sync.Mutex
	saved   []string
	deleted []string
}

func (m *MockBlobStorage) Save(key string, data io.Reader, size int64, contentType string) error {
	if m.saveFunc != nil {
		if err := m.saveFunc(key, data, size, contentType); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, key)
	return nil
}

func (m *MockBlobStorage) Delete(key string) error {
	if m.deleteFunc != nil {
		if err := m.deleteFunc(key); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *MockBlobStorage) deletedKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

type MockNotifier struct {
	sendFunc func(to []string, subject, text, html string) error
}

func (m *MockNotifier) Send(to []string, subject, text, html string) error {
	if m.sendFunc != nil {
		return m.sendFunc(to, subject, text, html)
	}
	return nil
}
