// Package common holds response shapes shared across feature handlers.
package common

import (
	"time"

	"github.com/launchpool/launchpool-api/pkg/domain"
)

// UserResponse is the public JSON projection of a user. Password hashes
// and pending one-time tokens never leave the server.
type UserResponse struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	FirstName          string     `json:"firstName"`
	LastName           string     `json:"lastName"`
	FullName           string     `json:"fullName"`
	PhoneNumber        *string    `json:"phoneNumber,omitempty"`
	Role               string     `json:"role"`
	IsEmailVerified    bool       `json:"isEmailVerified"`
	IsTwoFactorEnabled bool       `json:"isTwoFactorEnabled"`
	LastLoginAt        *time.Time `json:"lastLoginAt"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// NewUserResponse projects a domain user into its public shape.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:                 u.ID.String(),
		Email:              u.Email,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		FullName:           u.FullName(),
		PhoneNumber:        u.PhoneNumber,
		Role:               u.Role,
		IsEmailVerified:    u.IsEmailVerified,
		IsTwoFactorEnabled: u.IsTwoFactorEnabled,
		LastLoginAt:        u.LastLoginAt,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}
