package service

import (
	"github.com/ideahub-dev/ideahub/internal/domain"
	e "github.com/ideahub-dev/ideahub/internal/errors"
	"github.com/ideahub-dev/ideahub/internal/sanitize"
)

type CategoryService interface {
	Create(name string) (*domain.Category, error)
	Get(id domain.CategoryId) (*domain.Category, error)
	List() ([]domain.Category, error)
	Rename(id domain.CategoryId, name string) (*domain.Category, error)
	Delete(id domain.CategoryId) error
	BulkDelete(ids []domain.CategoryId) error
}

type CategoryStorage interface {
	CreateCategory(name string) (domain.CategoryId, error)
	// GetCategory returns (nil, nil) when no category with the given id exists.
	GetCategory(id domain.CategoryId) (*domain.Category, error)
	// GetCategoryByName returns (nil, nil) when no category with the given name exists.
	GetCategoryByName(name string) (*domain.Category, error)
	ListCategories() ([]domain.Category, error)
	UpdateCategory(category *domain.Category) error
	DeleteCategory(id domain.CategoryId) error
	DeleteCategories(ids []domain.CategoryId) error
	// CategoriesInUse reports which of the given ids are referenced by at
	// least one post, deleted posts included.
	CategoriesInUse(ids []domain.CategoryId) ([]domain.CategoryId, error)
}

type Category struct {
	storage CategoryStorage
}

func NewCategory(storage CategoryStorage) *Category {
	return &Category{storage: storage}
}

func (s *Category) checkNameFree(name string, self domain.CategoryId) error {
	existing, err := s.storage.GetCategoryByName(name)
	if err != nil {
		return err
	}
	if existing != nil && existing.Id != self {
		return e.Conflict("Category with this name already exists")
	}
	return nil
}

func (s *Category) Create(name string) (*domain.Category, error) {
	name = sanitize.Text(name)
	if name == "" {
		return nil, e.BadRequest("Category name must not be empty")
	}
	if err := s.checkNameFree(name, 0); err != nil {
		return nil, err
	}
	id, err := s.storage.CreateCategory(name)
	if err != nil {
		return nil, err
	}
	return &domain.Category{Id: id, Name: name}, nil
}

func (s *Category) Get(id domain.CategoryId) (*domain.Category, error) {
	category, err := s.storage.GetCategory(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, e.NotFound("Category not found")
	}
	return category, nil
}

func (s *Category) List() ([]domain.Category, error) {
	return s.storage.ListCategories()
}

func (s *Category) Rename(id domain.CategoryId, name string) (*domain.Category, error) {
	category, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	name = sanitize.Text(name)
	if name == "" {
		return nil, e.BadRequest("Category name must not be empty")
	}
	if err := s.checkNameFree(name, id); err != nil {
		return nil, err
	}
	category.Name = name
	if err := s.storage.UpdateCategory(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete refuses to remove a category that any post still references.
func (s *Category) Delete(id domain.CategoryId) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	inUse, err := s.storage.CategoriesInUse([]domain.CategoryId{id})
	if err != nil {
		return err
	}
	if len(inUse) > 0 {
		return e.Conflict("Category is in use and cannot be deleted")
	}
	return s.storage.DeleteCategory(id)
}

// BulkDelete is all-or-nothing: one referenced category rejects the whole batch.
func (s *Category) BulkDelete(ids []domain.CategoryId) error {
	if len(ids) == 0 {
		return e.BadRequest("No category ids provided")
	}
	inUse, err := s.storage.CategoriesInUse(ids)
	if err != nil {
		return err
	}
	if len(inUse) > 0 {
		return e.Conflict("Some categories are in use and cannot be deleted")
	}
	return s.storage.DeleteCategories(ids)
}
