package models

import (
	"time"
)

// Profile roles. Only students may create or update ratings.
const (
	RoleStudent  = "student"
	RoleLecturer = "lecturer"
)

type User struct {
	UserID    uint      `gorm:"primaryKey;column:user_id" json:"user_id"`
	Username  string    `gorm:"column:username;size:150;uniqueIndex" json:"username"`
	Email     *string   `gorm:"column:email;size:254" json:"email,omitempty"`
	Password  string    `gorm:"column:password" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`

	// Relations
	Profile Profile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

// Profile is one-to-one with a user and carries the role used for
// permission checks.
type Profile struct {
	ProfileID uint   `gorm:"primaryKey;column:profile_id" json:"profile_id"`
	UserID    uint   `gorm:"column:user_id;uniqueIndex" json:"user_id"`
	Role      string `gorm:"column:role;size:10" json:"role"`
}

// ValidRole reports whether role is one of the supported profile roles.
func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleLecturer
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Profile) TableName() string {
	return "profiles"
}
