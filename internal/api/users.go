package api

import (
	"context"

	"github.com/mediwound/wardview/internal/domain/session"
)

// Account is a staff account as managed from the admin console.
type Account struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Role     session.Role `json:"role"`
	IsActive bool         `json:"is_active"`
	LastSeen string       `json:"last_seen,omitempty"`
}

// UsersService manages staff accounts. The backend enforces the admin
// role; a non-admin caller gets a permission error.
type UsersService struct {
	c *Client
}

// NewAccount carries the fields for creating a staff account.
type NewAccount struct {
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Role     session.Role `json:"role"`
	Password string       `json:"password"`
}

// List returns all staff accounts.
func (s UsersService) List(ctx context.Context) ([]Account, error) {
	var out []Account
	if err := s.c.Get(ctx, "/users/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create adds a staff account and returns the stored record.
func (s UsersService) Create(ctx context.Context, in NewAccount) (Account, error) {
	var out Account
	if err := s.c.Post(ctx, "/users/", in, &out); err != nil {
		return Account{}, err
	}
	return out, nil
}
