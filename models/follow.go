package models

import (
	"time"
)

// Follow is a standing subscription by a user to comment activity on an
// entity; unique per (user, target). Follows are not cascade-deleted with
// their target, stale references are tolerated and skipped on read.
type Follow struct {
	FollowID   uint       `gorm:"primaryKey;column:follow_id" json:"id"`
	UserID     uint       `gorm:"column:user_id;uniqueIndex:uniq_follow_user_target" json:"user_id"`
	TargetType TargetType `gorm:"column:target_type;size:20;uniqueIndex:uniq_follow_user_target" json:"target_type"`
	TargetID   uint       `gorm:"column:target_id;uniqueIndex:uniq_follow_user_target" json:"target_id"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Follow) TableName() string {
	return "follows"
}
