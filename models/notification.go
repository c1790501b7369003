package models

import (
	"time"
)

// Notification kinds. A reply notification targets the author of the
// parent comment; a follow notification targets followers of the entity a
// new root comment was posted on.
const (
	NotificationKindReply  = "reply"
	NotificationKindFollow = "follow"
)

type Notification struct {
	NotificationID uint      `gorm:"primaryKey;column:notification_id" json:"notification_id"`
	RecipientID    uint      `gorm:"column:recipient_id;index" json:"recipient_id"`
	Kind           string    `gorm:"column:kind;size:10" json:"kind"`
	CommentID      uint      `gorm:"column:comment_id" json:"comment_id"`
	ReplyID        *uint     `gorm:"column:reply_id" json:"reply_id,omitempty"`
	IsRead         bool      `gorm:"column:is_read" json:"is_read"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`

	// Relations
	Recipient User     `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE" json:"-"`
	Comment   *Comment `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}
