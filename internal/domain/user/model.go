package user

import (
	"context"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	Role              string     `json:"role"`
	EmailVerified     bool       `json:"email_verified"`
	VerificationToken string     `json:"-"`
	ResetToken        string     `json:"-"`
	ResetExpiresAt    *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByVerificationToken(ctx context.Context, token string) (*User, error)
	// GetByResetToken only matches tokens that are still valid at now.
	GetByResetToken(ctx context.Context, token string, now time.Time) (*User, error)
	List(ctx context.Context) ([]User, error)
	UpdateRole(ctx context.Context, id int64, role string) error
	MarkVerified(ctx context.Context, id int64) error
	SetVerificationToken(ctx context.Context, id int64, token string) error
	// UpdateEmail switches the address and marks it unverified under token.
	UpdateEmail(ctx context.Context, id int64, email, token string) error
	// SetResetToken stores a reset token; an empty token clears it.
	SetResetToken(ctx context.Context, id int64, token string, expiresAt *time.Time) error
	// UpdatePassword replaces the hash and clears any reset token.
	UpdatePassword(ctx context.Context, id int64, hash string) error
}
