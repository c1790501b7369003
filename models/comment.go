package models

import (
	"time"
)

// Comment is attached to exactly one target entity via a (type, id) pair.
// Replies reference their parent comment; root comments have ParentID nil.
// UserID stays recorded for anonymous comments so ownership checks still
// work; only the serialized view hides the identity.
type Comment struct {
	CommentID   uint       `gorm:"primaryKey;column:comment_id" json:"id"`
	TargetType  TargetType `gorm:"column:target_type;size:20;index:idx_comment_target" json:"target_type"`
	TargetID    uint       `gorm:"column:target_id;index:idx_comment_target" json:"target_id"`
	UserID      *uint      `gorm:"column:user_id" json:"user_id,omitempty"`
	Content     string     `gorm:"column:content;type:text" json:"content"`
	ParentID    *uint      `gorm:"column:parent_id;index" json:"parent_id,omitempty"`
	IsAnonymous bool       `gorm:"column:is_anonymous" json:"is_anonymous"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`

	// Relations
	User   *User    `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	Parent *Comment `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"-"`
}

// Target returns the (type, id) pair this comment is attached to.
func (c *Comment) Target() TargetRef {
	return TargetRef{Type: c.TargetType, ID: c.TargetID}
}

func (Comment) TableName() string {
	return "comments"
}
