package pg

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/ideahub-dev/ideahub/internal/domain"
	internal_errors "github.com/ideahub-dev/ideahub/internal/errors"
)

const uniqueViolation = "23505"

func (s *Storage) GetClosure() (*domain.Closure, error) {
	return s.scanClosure(s.db.QueryRow(`
	SELECT id, start_date, initial_closure_date, final_closure_date, created_at, updated_at
	FROM closures
	LIMIT 1`))
}

func (s *Storage) GetClosureById(id domain.ClosureId) (*domain.Closure, error) {
	return s.scanClosure(s.db.QueryRow(`
	SELECT id, start_date, initial_closure_date, final_closure_date, created_at, updated_at
	FROM closures
	WHERE id = $1`, id))
}

func (s *Storage) scanClosure(row *sql.Row) (*domain.Closure, error) {
	var c domain.Closure
	err := row.Scan(&c.Id, &c.StartDate, &c.InitialClosureDate, &c.FinalClosureDate, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// CreateClosure relies on the singleton_key constraint: two racing creates
// both pass the service-level existence check, the second insert loses here.
func (s *Storage) CreateClosure(start, initial, final time.Time) (*domain.Closure, error) {
	var c domain.Closure
	err := s.db.QueryRow(`
	INSERT INTO closures(start_date, initial_closure_date, final_closure_date)
	VALUES($1, $2, $3)
	RETURNING id, start_date, initial_closure_date, final_closure_date, created_at, updated_at`,
		start, initial, final).Scan(&c.Id, &c.StartDate, &c.InitialClosureDate, &c.FinalClosureDate, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, internal_errors.Conflict("A closure already exists")
		}
		return nil, err
	}
	return &c, nil
}

func (s *Storage) UpdateClosure(id domain.ClosureId, upd domain.ClosureUpdate) error {
	result, err := s.db.Exec(`
	UPDATE closures SET
		start_date = COALESCE($1, start_date),
		initial_closure_date = COALESCE($2, initial_closure_date),
		final_closure_date = COALESCE($3, final_closure_date),
		updated_at = now()
	WHERE id = $4`, upd.StartDate, upd.InitialClosureDate, upd.FinalClosureDate, id)
	if err != nil {
		return err
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if updated == 0 {
		return internal_errors.NotFound("Closure not found")
	}
	return nil
}

func (s *Storage) DeleteClosure(id domain.ClosureId) error {
	result, err := s.db.Exec(`DELETE FROM closures WHERE id = $1`, id)
	if err != nil {
		return err
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return internal_errors.NotFound("Closure not found")
	}
	return nil
}
