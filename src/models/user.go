package models

import "time"

// AdminUser is an entry of the `users` key. Only admins can sign in.
type AdminUser struct {
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	Role         string    `json:"role,omitempty"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}

// CurrentUser is what gets written to `currentUser` after a login.
type CurrentUser struct {
	Email      string    `json:"email"`
	Name       string    `json:"name,omitempty"`
	Role       string    `json:"role,omitempty"`
	LoggedInAt time.Time `json:"loggedInAt"`
}

func (u *AdminUser) Public() CurrentUser {
	return CurrentUser{
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		LoggedInAt: time.Now().UTC(),
	}
}
