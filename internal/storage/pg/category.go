package pg

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/ideahub-dev/ideahub/internal/domain"
	internal_errors "github.com/ideahub-dev/ideahub/internal/errors"
)

func scanCategory(row *sql.Row) (*domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.Id, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (s *Storage) CreateCategory(name string) (domain.CategoryId, error) {
	var id domain.CategoryId
	err := s.db.QueryRow(`INSERT INTO categories(name) VALUES($1) RETURNING id`, name).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, internal_errors.Conflict("Category with this name already exists")
		}
		return 0, err
	}
	return id, nil
}

func (s *Storage) GetCategory(id domain.CategoryId) (*domain.Category, error) {
	return scanCategory(s.db.QueryRow(`
	SELECT id, name, created_at, updated_at FROM categories WHERE id = $1`, id))
}

func (s *Storage) GetCategoryByName(name string) (*domain.Category, error) {
	return scanCategory(s.db.QueryRow(`
	SELECT id, name, created_at, updated_at FROM categories WHERE name = $1`, name))
}

func (s *Storage) ListCategories() ([]domain.Category, error) {
	rows, err := s.db.Query(`SELECT id, name, created_at, updated_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.Id, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Storage) UpdateCategory(category *domain.Category) error {
	result, err := s.db.Exec(`UPDATE categories SET name = $1, updated_at = now() WHERE id = $2`,
		category.Name, category.Id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return internal_errors.Conflict("Category with this name already exists")
		}
		return err
	}
	return requireUpdated(result, "Category")
}

func (s *Storage) DeleteCategory(id domain.CategoryId) error {
	result, err := s.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireUpdated(result, "Category")
}

func (s *Storage) DeleteCategories(ids []domain.CategoryId) error {
	_, err := s.db.Exec(`DELETE FROM categories WHERE id = ANY($1)`, pq.Array(ids))
	return err
}

// CategoriesInUse checks references from live and soft-deleted posts alike:
// a hidden post still pins its category.
func (s *Storage) CategoriesInUse(ids []domain.CategoryId) ([]domain.CategoryId, error) {
	rows, err := s.db.Query(`
	SELECT DISTINCT category_id FROM posts WHERE category_id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inUse []domain.CategoryId
	for rows.Next() {
		var id domain.CategoryId
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		inUse = append(inUse, id)
	}
	return inUse, rows.Err()
}
