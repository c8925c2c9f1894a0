package model

import (
	"time"
)

// Admin is the single privileged operator account. PasswordHash never
// leaves this package's owners (repository, auth service).
type Admin struct {
	ID           string     `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	IsActive     bool       `db:"is_active" json:"isActive"`
	LastLogin    *time.Time `db:"last_login" json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
}

// AdminView is the public projection returned by login.
type AdminView struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	LastLogin *time.Time `json:"lastLogin"`
}

func (a *Admin) View() AdminView {
	return AdminView{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		LastLogin: a.LastLogin,
	}
}

type CreateAdminParams struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
}
