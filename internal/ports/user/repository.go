package user

import (
	"context"
	"time"

	"postboard/internal/core/user"
)

// UserRepository is the port for storing and loading accounts.
type UserRepository interface {
	Create(ctx context.Context, user *user.User) (*user.User, error)
	FindByID(ctx context.Context, id string) (*user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	List(ctx context.Context) ([]*user.User, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	SetOnline(ctx context.Context, id string, online bool) error
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Bio      *string
}

// ProfileInput carries the editable profile fields; nil leaves a field as is
// and an empty string clears it.
type ProfileInput struct {
	Bio    *string
	Avatar *string
}

type LoginResponse struct {
	Token     string   `json:"token"`
	ExpiresAt int64    `json:"expires_at"`
	User      *UserDTO `json:"user"`
}

type UserDTO struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Bio       *string   `json:"bio"`
	Avatar    *string   `json:"avatar"`
	IsOnline  bool      `json:"is_online"`
	IsStaff   bool      `json:"is_staff"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewUserDTO(u *user.User) *UserDTO {
	return &UserDTO{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		Bio:       u.Bio,
		Avatar:    u.Avatar,
		IsOnline:  u.IsOnline,
		IsStaff:   u.IsStaff,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
