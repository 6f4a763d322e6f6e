package models

import (
	"time"

	"commissionhub/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	Email          string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash   string         `gorm:"size:255" json:"-"`
	Role           string         `gorm:"size:20;not null;index" json:"role"` // user | seller | admin
	Name           string         `gorm:"size:255;not null" json:"name"`
	AvatarURL      string         `gorm:"size:512" json:"avatar_url"`
	Qualifications string         `gorm:"type:text" json:"qualifications"`
	Bio            string         `gorm:"type:text" json:"bio"`
	Skills         datatypes.JSON `json:"skills"` // JSON array of strings
	Experience     string         `gorm:"type:text" json:"experience"`
	Education      string         `gorm:"type:text" json:"education"`
	Phone          string         `gorm:"size:50" json:"phone"`
	Address        string         `gorm:"size:512" json:"address"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u *User) IsSeller() bool { return u.Role == domain.RoleSeller }
func (u *User) IsAdmin() bool  { return u.Role == domain.RoleAdmin }

// DisplayName falls back to the email when no name was given.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
