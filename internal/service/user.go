package service

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ideahub-dev/ideahub/internal/dates"
	"github.com/ideahub-dev/ideahub/internal/domain"
	e "github.com/ideahub-dev/ideahub/internal/errors"
	"github.com/ideahub-dev/ideahub/internal/sanitize"
)

const minUserAge = 17

// reserved account names, lowercased
var restrictedNames = map[string]struct{}{
	"admin":         {},
	"administrator": {},
	"moderator":     {},
	"root":          {},
	"system":        {},
	"support":       {},
}

type UserService interface {
	Register(input RegisterInput) (*domain.User, error)
	BulkRegister(inputs []RegisterInput) []BulkRegisterResult
	Login(email, password string) (*domain.User, error)
	Get(id domain.UserId) (*domain.User, error)
	List() ([]domain.User, error)
	Update(id domain.UserId, upd UserUpdate) (*domain.User, error)
	Delete(id domain.UserId) error
	BulkDelete(ids []domain.UserId) error
}

type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	DateOfBirth time.Time
	Department  string
	Role        string
}

// UserUpdate carries the fields to change. Nil means leave the stored value.
type UserUpdate struct {
	Name        *string
	Email       *string
	Password    *string
	DateOfBirth *time.Time
	Department  *string
	Role        *string
}

type UserStorage interface {
	CreateUser(user *domain.User) (domain.UserId, error)
	// GetUser returns (nil, nil) when no user with the given id exists.
	GetUser(id domain.UserId) (*domain.User, error)
	// GetUserByEmail returns (nil, nil) when no user with the given email exists.
	GetUserByEmail(email string) (*domain.User, error)
	ListUsers() ([]domain.User, error)
	ListUsersByRoleAndDepartment(role, department string) ([]domain.User, error)
	UpdateUser(user *domain.User) error
	DeleteUser(id domain.UserId) error
	DeleteUsers(ids []domain.UserId) error
}

type User struct {
	storage UserStorage
	now     func() time.Time
}

func NewUser(storage UserStorage) *User {
	return &User{storage: storage, now: time.Now}
}

func validateName(name string) error {
	if _, ok := restrictedNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return e.BadRequest("This name is not allowed")
	}
	return nil
}

func (s *User) validateAge(dob time.Time) error {
	if dob.After(s.now().AddDate(-minUserAge, 0, 0)) {
		return e.BadRequest("You must be at least 17 years old")
	}
	return nil
}

func (s *User) Register(input RegisterInput) (*domain.User, error) {
	name := sanitize.Text(input.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := s.validateAge(input.DateOfBirth); err != nil {
		return nil, err
	}
	if !domain.ValidRole(input.Role) {
		return nil, e.BadRequest("Unknown role")
	}

	existing, err := s.storage.GetUserByEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, e.Conflict("User with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	dob := dates.Day(input.DateOfBirth)
	user := &domain.User{
		Name:        name,
		Email:       strings.ToLower(strings.TrimSpace(input.Email)),
		PassHash:    string(hash),
		DateOfBirth: &dob,
		Department:  sanitize.Text(input.Department),
		Role:        input.Role,
	}
	id, err := s.storage.CreateUser(user)
	if err != nil {
		return nil, err
	}
	user.Id = id
	return user, nil
}

type BulkRegisterResult struct {
	Email   string       `json:"email"`
	Created bool         `json:"created"`
	Message string       `json:"message"`
	User    *domain.User `json:"user,omitempty"`
}

// BulkRegister creates accounts one by one; a failed row never blocks the
// rest.
func (s *User) BulkRegister(inputs []RegisterInput) []BulkRegisterResult {
	results := make([]BulkRegisterResult, 0, len(inputs))
	for _, input := range inputs {
		user, err := s.Register(input)
		if err != nil {
			results = append(results, BulkRegisterResult{Email: input.Email, Created: false, Message: err.Error()})
			continue
		}
		results = append(results, BulkRegisterResult{Email: user.Email, Created: true, Message: "User registered successfully", User: user})
	}
	return results
}

func (s *User) Login(email, password string) (*domain.User, error) {
	user, err := s.storage.GetUserByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, e.Unauthenticated("Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(password)); err != nil {
		return nil, e.Unauthenticated("Invalid email or password")
	}
	return user, nil
}

func (s *User) Get(id domain.UserId) (*domain.User, error) {
	user, err := s.storage.GetUser(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, e.NotFound("User not found")
	}
	return user, nil
}

func (s *User) List() ([]domain.User, error) {
	return s.storage.ListUsers()
}

func (s *User) Update(id domain.UserId, upd UserUpdate) (*domain.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := sanitize.Text(*upd.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		user.Name = name
	}
	if upd.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*upd.Email))
		if email != user.Email {
			existing, err := s.storage.GetUserByEmail(email)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.Id != id {
				return nil, e.Conflict("User with this email already exists")
			}
		}
		user.Email = email
	}
	if upd.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PassHash = string(hash)
	}
	if upd.DateOfBirth != nil {
		if err := s.validateAge(*upd.DateOfBirth); err != nil {
			return nil, err
		}
		dob := dates.Day(*upd.DateOfBirth)
		user.DateOfBirth = &dob
	}
	if upd.Department != nil {
		user.Department = sanitize.Text(*upd.Department)
	}
	if upd.Role != nil {
		if !domain.ValidRole(*upd.Role) {
			return nil, e.BadRequest("Unknown role")
		}
		user.Role = *upd.Role
	}

	if err := s.storage.UpdateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *User) Delete(id domain.UserId) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.storage.DeleteUser(id)
}

func (s *User) BulkDelete(ids []domain.UserId) error {
	if len(ids) == 0 {
		return e.BadRequest("No user ids provided")
	}
	return s.storage.DeleteUsers(ids)
}
