package models

import (
	"time"
)

// VisitHistory is an append-only log of entity detail views. Repeat visits
// to the same target inside the dedup window collapse into one row; the
// window length is configuration, not schema.
type VisitHistory struct {
	VisitID    uint       `gorm:"primaryKey;column:visit_id" json:"id"`
	UserID     uint       `gorm:"column:user_id;index" json:"user_id"`
	TargetType TargetType `gorm:"column:target_type;size:20" json:"target_type"`
	TargetID   uint       `gorm:"column:target_id" json:"target_id"`
	TargetName string     `gorm:"column:target_name;size:255" json:"target_name"`
	VisitedAt  time.Time  `gorm:"column:visited_at;index" json:"visited_at"`

	// Relations
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (VisitHistory) TableName() string {
	return "visit_history"
}
