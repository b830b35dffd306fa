package dto

import (
	"time"

	"github.com/abdullah-iqbal-cbs/CBS-main/internal/domain"
)

// UserResponse is the sanitized projection of domain.User. It never carries
// the password hash or reset-token fields.
type UserResponse struct {
	ID            string     `json:"id"`
	Email         *string    `json:"email,omitempty"`
	Mobile        *string    `json:"mobile,omitempty"`
	Name          string     `json:"name"`
	AvatarURL     *string    `json:"avatarUrl,omitempty"`
	GoogleID      *string    `json:"googleId,omitempty"`
	GithubID      *string    `json:"githubId,omitempty"`
	FacebookID    *string    `json:"facebookId,omitempty"`
	IsActive      bool       `json:"isActive"`
	EmailVerified bool       `json:"emailVerified"`
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func NewUserResponse(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:            u.ID.String(),
		Email:         u.Email,
		Mobile:        u.Mobile,
		Name:          u.Name,
		AvatarURL:     u.AvatarURL,
		GoogleID:      u.GoogleID,
		GithubID:      u.GithubID,
		FacebookID:    u.FacebookID,
		IsActive:      u.IsActive,
		EmailVerified: u.EmailVerified,
		LastLoginAt:   u.LastLoginAt,
		CreatedAt:     u.CreatedAt,
	}
}

type UserListMeta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

type UserListResponse struct {
	Success bool            `json:"success"`
	Data    []*UserResponse `json:"data"`
	Meta    UserListMeta    `json:"meta"`
}
