package user

import (
	"time"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/internal/models"
)

// MaxContactsPerType caps auxiliary emails and phones per user.
const MaxContactsPerType = 3

type User struct {
	models.BaseModel
	Email         string         `gorm:"uniqueIndex;not null" json:"email"`
	Password      string         `json:"-"`
	FullName      string         `gorm:"not null" json:"full_name"`
	Phone         string         `json:"phone"`
	AvatarURL     string         `json:"avatar_url"`
	Role          common.Role    `gorm:"type:varchar(16);not null;default:'player';index" json:"role"`
	PlayerProfile *PlayerProfile `gorm:"constraint:OnDelete:CASCADE" json:"player_profile,omitempty"`
	Contacts      []UserContact  `gorm:"constraint:OnDelete:CASCADE" json:"contacts,omitempty"`
}

// PlayerProfile holds the baseball attributes of a player. One per user.
type PlayerProfile struct {
	models.BaseModel
	UserID       uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	JerseyNumber *int   `json:"jersey_number"`
	Position     string `json:"position"`
	Grade        string `json:"grade"`
	Height       string `json:"height"`
	Weight       *int   `json:"weight"`
	Bats         string `json:"bats"`
	Throws       string `json:"throws"`
}

type ContactType string

const (
	ContactEmail ContactType = "email"
	ContactPhone ContactType = "phone"
)

// UserContact is an auxiliary email or phone number.
type UserContact struct {
	models.BaseModel
	UserID      uint        `gorm:"index;not null" json:"user_id"`
	ContactType ContactType `gorm:"type:varchar(8);not null" json:"contact_type"`
	Value       string      `gorm:"not null" json:"value"`
	Label       string      `json:"label"`
	SortOrder   int         `gorm:"default:0" json:"sort_order"`
}

type RefreshToken struct {
	models.BaseModel
	UserID    uint      `gorm:"index;not null"`
	Token     string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	Revoked   bool      `gorm:"default:false"`
}

// UserResponse is the public projection of a user.
type UserResponse struct {
	ID        uint           `json:"id"`
	Email     string         `json:"email"`
	FullName  string         `json:"full_name"`
	Phone     string         `json:"phone"`
	AvatarURL string         `json:"avatar_url"`
	Role      common.Role    `json:"role"`
	Profile   *PlayerProfile `json:"player_profile,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func FilterUserRecord(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Phone:     u.Phone,
		AvatarURL: u.AvatarURL,
		Role:      u.Role,
		Profile:   u.PlayerProfile,
		CreatedAt: u.CreatedAt,
	}
}
