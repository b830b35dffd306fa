package domain

import (
	"time"
)

type User struct {
	ID               UserID     `gorm:"type:uuid;primaryKey" db:"id"`
	Email            *string    `gorm:"type:citext;uniqueIndex:ux_users_email" db:"email"`
	Mobile           *string    `gorm:"type:text;uniqueIndex:ux_users_mobile" db:"mobile"`
	Name             string     `gorm:"type:text;not null" db:"name"`
	PasswordHash     *string    `gorm:"type:text" db:"password_hash"` // NULL for social-only accounts
	GoogleID         *string    `gorm:"type:text;uniqueIndex:ux_users_google_id" db:"google_id"`
	GithubID         *string    `gorm:"type:text;uniqueIndex:ux_users_github_id" db:"github_id"`
	FacebookID       *string    `gorm:"type:text;uniqueIndex:ux_users_facebook_id" db:"facebook_id"`
	AvatarURL        *string    `gorm:"type:text" db:"avatar_url"`
	IsActive         bool       `gorm:"not null;default:false" db:"is_active"`
	EmailVerified    bool       `gorm:"not null;default:false" db:"email_verified"`
	LastLoginAt      *time.Time `db:"last_login_at"`
	ResetToken       *string    `gorm:"type:text;index" db:"reset_token"`
	ResetTokenExpiry *time.Time `db:"reset_token_expiry"`
	CreatedAt        time.Time  `gorm:"not null" db:"created_at"`
	UpdatedAt        time.Time  `gorm:"not null" db:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// ProviderID returns the external id linked for p, if any.
func (u *User) ProviderID(p Provider) *string {
	switch p {
	case ProviderGoogle:
		return u.GoogleID
	case ProviderGitHub:
		return u.GithubID
	case ProviderFacebook:
		return u.FacebookID
	}
	return nil
}

func (u *User) SetProviderID(p Provider, externalID string) {
	id := externalID
	switch p {
	case ProviderGoogle:
		u.GoogleID = &id
	case ProviderGitHub:
		u.GithubID = &id
	case ProviderFacebook:
		u.FacebookID = &id
	}
}

// ResetTokenValid reports whether a stored reset token is still usable at now.
func (u *User) ResetTokenValid(now time.Time) bool {
	return u.ResetToken != nil && u.ResetTokenExpiry != nil && u.ResetTokenExpiry.After(now)
}

func (u *User) EmailOrEmpty() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}
