package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ideahub-dev/ideahub/internal/domain"
)

func newTestUser(storage UserStorage) *User {
	return &User{storage: storage, now: func() time.Time { return testToday }}
}

func validRegister() RegisterInput {
	return RegisterInput{
		Name:        "Alice",
		Email:       "Alice@Corp.Test",
		Password:    "s3cret-pass",
		DateOfBirth: testToday.AddDate(-30, 0, 0),
		Department:  "R&D",
		Role:        domain.RoleStaff,
	}
}

func TestUserBulkRegister(t *testing.T) {
	t.Run("bad rows never block the rest", func(t *testing.T) {
		var nextId domain.UserId
		storage := &MockUserStorage{
			createUserFunc: func(u *domain.User) (domain.UserId, error) {
				nextId++
				return nextId, nil
			},
			getUserByEmailFunc: func(email string) (*domain.User, error) {
				if email == "taken@corp.test" {
					return &domain.User{Id: 99, Email: email}, nil
				}
				return nil, nil
			},
		}
		svc := newTestUser(storage)

		first := validRegister()
		taken := validRegister()
		taken.Email = "taken@corp.test"
		underage := validRegister()
		underage.Email = "kid@corp.test"
		underage.DateOfBirth = testToday.AddDate(-16, 0, 0)

		results := svc.BulkRegister([]RegisterInput{first, taken, underage})

		require.Len(t, results, 3)
		assert.True(t, results[0].Created)
		require.NotNil(t, results[0].User)
		assert.Equal(t, "alice@corp.test", results[0].Email)

		assert.False(t, results[1].Created)
		assert.Contains(t, results[1].Message, "already exists")

		assert.False(t, results[2].Created)
		assert.Contains(t, results[2].Message, "17 years old")
	})
}

func TestUserRegister(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var created *domain.User
		storage := &MockUserStorage{
			createUserFunc: func(u *domain.User) (domain.UserId, error) {
				created = u
				return 7, nil
			},
		}
		svc := newTestUser(storage)

		user, err := svc.Register(validRegister())
		require.NoError(t, err)
		assert.Equal(t, domain.UserId(7), user.Id)
		assert.Equal(t, "alice@corp.test", created.Email, "email is normalized")
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PassHash), []byte("s3cret-pass")))
		assert.NotEqual(t, "s3cret-pass", created.PassHash)
	})

	t.Run("restricted name", func(t *testing.T) {
		svc := newTestUser(&MockUserStorage{})
		input := validRegister()
		input.Name = "  Admin "
		_, err := svc.Register(input)
		assertCode(t, err, "bad_request")
	})

	t.Run("too young", func(t *testing.T) {
		svc := newTestUser(&MockUserStorage{})
		input := validRegister()
		input.DateOfBirth = testToday.AddDate(-16, 0, 0)
		_, err := svc.Register(input)
		assertCode(t, err, "bad_request")
	})

	t.Run("exactly seventeen is allowed", func(t *testing.T) {
		svc := newTestUser(&MockUserStorage{})
		input := validRegister()
		input.DateOfBirth = testToday.AddDate(-17, 0, 0)
		_, err := svc.Register(input)
		assert.NoError(t, err)
	})

	t.Run("duplicate email", func(t *testing.T) {
		storage := &MockUserStorage{
			getUserByEmailFunc: func(email string) (*domain.User, error) {
				return &domain.User{Id: 3, Email: email}, nil
			},
		}
		svc := newTestUser(storage)
		_, err := svc.Register(validRegister())
		assertCode(t, err, "conflict")
	})

	t.Run("unknown role", func(t *testing.T) {
		svc := newTestUser(&MockUserStorage{})
		input := validRegister()
		input.Role = "superuser"
		_, err := svc.Register(input)
		assertCode(t, err, "bad_request")
	})
}

func TestUserLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("right-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &domain.User{Id: 7, Email: "alice@corp.test", PassHash: string(hash)}

	storage := &MockUserStorage{
		getUserByEmailFunc: func(email string) (*domain.User, error) {
			if email == stored.Email {
				return stored, nil
			}
			return nil, nil
		},
	}
	svc := newTestUser(storage)

	t.Run("success", func(t *testing.T) {
		user, err := svc.Login(" Alice@Corp.Test ", "right-pass")
		require.NoError(t, err)
		assert.Equal(t, domain.UserId(7), user.Id)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login("alice@corp.test", "wrong-pass")
		assertCode(t, err, "unauthorized")
	})

	t.Run("unknown email gets the same answer", func(t *testing.T) {
		_, err := svc.Login("nobody@corp.test", "right-pass")
		assertCode(t, err, "unauthorized")
		assert.Equal(t, "Invalid email or password", err.Error())
	})
}

func TestUserUpdate(t *testing.T) {
	stored := func(id domain.UserId) (*domain.User, error) {
		return &domain.User{Id: id, Name: "Alice", Email: "alice@corp.test", Role: domain.RoleStaff}, nil
	}

	t.Run("email collision with another user", func(t *testing.T) {
		storage := &MockUserStorage{
			getUserFunc: stored,
			getUserByEmailFunc: func(email string) (*domain.User, error) {
				return &domain.User{Id: 99, Email: email}, nil
			},
		}
		svc := newTestUser(storage)
		email := "taken@corp.test"
		_, err := svc.Update(7, UserUpdate{Email: &email})
		assertCode(t, err, "conflict")
	})

	t.Run("keeping your own email is fine", func(t *testing.T) {
		storage := &MockUserStorage{getUserFunc: stored}
		svc := newTestUser(storage)
		email := "alice@corp.test"
		user, err := svc.Update(7, UserUpdate{Email: &email})
		require.NoError(t, err)
		assert.Equal(t, "alice@corp.test", user.Email)
	})

	t.Run("missing user", func(t *testing.T) {
		svc := newTestUser(&MockUserStorage{})
		name := "Bob"
		_, err := svc.Update(7, UserUpdate{Name: &name})
		assertCode(t, err, "not_found")
	})

	t.Run("restricted rename", func(t *testing.T) {
		svc := newTestUser(&MockUserStorage{getUserFunc: stored})
		name := "root"
		_, err := svc.Update(7, UserUpdate{Name: &name})
		assertCode(t, err, "bad_request")
	})
}

func TestUserDelete(t *testing.T) {
	t.Run("missing user", func(t *testing.T) {
		svc := newTestUser(&MockUserStorage{})
		assertCode(t, svc.Delete(7), "not_found")
	})

	t.Run("bulk delete requires ids", func(t *testing.T) {
		svc := newTestUser(&MockUserStorage{})
		assertCode(t, svc.BulkDelete(nil), "bad_request")
	})
}
