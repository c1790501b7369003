package models

import (
	"time"
)

// Rating score bounds.
const (
	MinScore = 1
	MaxScore = 5
)

// Rating holds one user's current score for one target. Re-rating updates
// the row in place; the (user, target) pair is unique.
type Rating struct {
	RatingID   uint       `gorm:"primaryKey;column:rating_id" json:"id"`
	UserID     uint       `gorm:"column:user_id;uniqueIndex:uniq_rating_user_target" json:"user_id"`
	TargetType TargetType `gorm:"column:target_type;size:20;uniqueIndex:uniq_rating_user_target;index:idx_rating_target" json:"target_type"`
	TargetID   uint       `gorm:"column:target_id;uniqueIndex:uniq_rating_user_target;index:idx_rating_target" json:"target_id"`
	Score      int        `gorm:"column:score" json:"score"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at" json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// ValidScore reports whether score is inside the allowed 1..5 range.
func ValidScore(score int) bool {
	return score >= MinScore && score <= MaxScore
}

func (Rating) TableName() string {
	return "ratings"
}
