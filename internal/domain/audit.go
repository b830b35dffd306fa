package domain

import "time"

const (
	AuditSignup         = "signup"
	AuditLogin          = "login"
	AuditSocialLogin    = "social_login"
	AuditActivate       = "activate"
	AuditPasswordReset  = "password_reset"
	AuditPasswordChange = "password_change"
	AuditResetRequested = "password_reset_requested"
)

type AuditLog struct {
	ID        AuditID   `gorm:"type:uuid;primaryKey" db:"id"`
	UserID    *UserID   `gorm:"type:uuid;index" db:"user_id"`
	Action    string    `gorm:"type:text;not null" db:"action"`
	Metadata  []byte    `gorm:"type:jsonb" db:"metadata"`
	IP        string    `gorm:"type:text" db:"ip"`
	UserAgent string    `gorm:"type:text" db:"user_agent"`
	CreatedAt time.Time `gorm:"not null" db:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }
