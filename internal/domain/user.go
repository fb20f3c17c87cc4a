package domain

import "time"

type User struct {
	Id          UserId     `json:"id"`
	Name        string     `json:"name"`
	Email       Email      `json:"email"`
	PassHash    string     `json:"-"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Department  Department `json:"department"`
	Role        string     `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
