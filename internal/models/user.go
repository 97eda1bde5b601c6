package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255)" json:"name"`
	Email     *string   `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Image     string    `gorm:"type:varchar(512)" json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Accounts   []Account  `gorm:"foreignKey:UserID" json:"-"`
	Tasks      []Task     `gorm:"foreignKey:UserID" json:"-"`
	Categories []Category `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
