package domain

import "time"

type Contact struct {
	ID        ContactID `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	UserID    UserID    `gorm:"type:uuid;uniqueIndex:ux_contacts_user" db:"user_id" json:"userId"`
	Company   string    `gorm:"type:text" db:"company" json:"company"`
	Phone     string    `gorm:"type:text" db:"phone" json:"phone"`
	Address   string    `gorm:"type:text" db:"address" json:"address"`
	Notes     string    `gorm:"type:text" db:"notes" json:"notes"`
	CreatedAt time.Time `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" db:"updated_at" json:"updatedAt"`
}

func (Contact) TableName() string { return "contacts" }
