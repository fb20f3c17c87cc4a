package pg

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/ideahub-dev/ideahub/internal/domain"
	internal_errors "github.com/ideahub-dev/ideahub/internal/errors"
)

const userColumns = `id, name, email, pass_hash, date_of_birth, department, role, created_at, updated_at`

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.Id, &u.Name, &u.Email, &u.PassHash, &u.DateOfBirth, &u.Department, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (s *Storage) CreateUser(user *domain.User) (domain.UserId, error) {
	var id domain.UserId
	err := s.db.QueryRow(`
	INSERT INTO users(name, email, pass_hash, date_of_birth, department, role)
	VALUES($1, $2, $3, $4, $5, $6)
	RETURNING id`,
		user.Name, user.Email, user.PassHash, user.DateOfBirth, user.Department, user.Role).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, internal_errors.Conflict("User with this email already exists")
		}
		return 0, err
	}
	return id, nil
}

func (s *Storage) GetUser(id domain.UserId) (*domain.User, error) {
	return scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *Storage) GetUserByEmail(email string) (*domain.User, error) {
	return scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (s *Storage) ListUsers() ([]domain.User, error) {
	return s.queryUsers(`SELECT ` + userColumns + ` FROM users ORDER BY id`)
}

func (s *Storage) ListUsersByRoleAndDepartment(role, department string) ([]domain.User, error) {
	return s.queryUsers(`SELECT `+userColumns+` FROM users WHERE role = $1 AND department = $2 ORDER BY id`,
		role, department)
}

func (s *Storage) queryUsers(query string, args ...any) ([]domain.User, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (s *Storage) UpdateUser(user *domain.User) error {
	result, err := s.db.Exec(`
	UPDATE users SET
		name = $1, email = $2, pass_hash = $3, date_of_birth = $4, department = $5, role = $6,
		updated_at = now()
	WHERE id = $7`,
		user.Name, user.Email, user.PassHash, user.DateOfBirth, user.Department, user.Role, user.Id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return internal_errors.Conflict("User with this email already exists")
		}
		return err
	}
	return requireUpdated(result, "User")
}

func (s *Storage) DeleteUser(id domain.UserId) error {
	result, err := s.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireUpdated(result, "User")
}

func (s *Storage) DeleteUsers(ids []domain.UserId) error {
	_, err := s.db.Exec(`DELETE FROM users WHERE id = ANY($1)`, pq.Array(ids))
	return err
}
