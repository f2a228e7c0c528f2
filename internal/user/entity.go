package user

import "time"

type User struct {
	ID           string    `yaml:"id"`
	Email        string    `yaml:"email"`
	Name         string    `yaml:"name"`
	PasswordHash string    `yaml:"password_hash"`
	Role         string    `yaml:"role"`
	CreatedAt    time.Time `yaml:"created_at"`
}

// Summary is the identity projection embedded in task views.
type Summary struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func (u *User) Summary() *Summary {
	return &Summary{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
