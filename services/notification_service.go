package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"edu-feedback-api/config"
	"edu-feedback-api/models"
)

// Follow status values reported back to the client. Repeating an action
// is not an error.
const (
	FollowStatusFollowing        = "following"
	FollowStatusAlreadyFollowing = "already_following"
	FollowStatusUnfollowed       = "unfollowed"
	FollowStatusNotFollowing     = "not_following"
)

// NotificationView is the serialized notification row.
type NotificationView struct {
	NotificationID uint   `json:"notification_id"`
	Kind           string `json:"kind"`
	CommentID      uint   `json:"comment_id"`
	ReplyID        *uint  `json:"reply_id,omitempty"`
	Preview        string `json:"preview"`
	Target         string `json:"target"`
	IsRead         bool   `json:"is_read"`
	CreatedAt      string `json:"created_at"`
}

type NotificationService struct {
	db       *gorm.DB
	resolver *TargetResolver
	// sendMail is swappable for tests; defaults to config.SendMail.
	sendMail func(to []string, subject, html string) error
}

func NewNotificationService(db *gorm.DB, resolver *TargetResolver) *NotificationService {
	return &NotificationService{db: db, resolver: resolver, sendMail: config.SendMail}
}

// FollowTarget subscribes a user to an entity's comment activity.
func (s *NotificationService) FollowTarget(userID uint, target models.TargetRef) (string, error) {
	if err := s.resolver.Resolve(target); err != nil {
		return "", err
	}

	var existing models.Follow
	err := s.db.Where("user_id = ? AND target_type = ? AND target_id = ?",
		userID, target.Type, target.ID).First(&existing).Error
	if err == nil {
		return FollowStatusAlreadyFollowing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	follow := models.Follow{
		UserID:     userID,
		TargetType: target.Type,
		TargetID:   target.ID,
		CreatedAt:  time.Now(),
	}
	if err := s.db.Create(&follow).Error; err != nil {
		// A concurrent follow hit the unique key first; same outcome.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return FollowStatusAlreadyFollowing, nil
		}
		return "", err
	}
	return FollowStatusFollowing, nil
}

// UnfollowTarget removes a subscription if present.
func (s *NotificationService) UnfollowTarget(userID uint, target models.TargetRef) (string, error) {
	result := s.db.Where("user_id = ? AND target_type = ? AND target_id = ?",
		userID, target.Type, target.ID).Delete(&models.Follow{})
	if result.Error != nil {
		return "", result.Error
	}
	if result.RowsAffected == 0 {
		return FollowStatusNotFollowing, nil
	}
	return FollowStatusUnfollowed, nil
}

// IsFollowing reports whether the user follows the target.
func (s *NotificationService) IsFollowing(userID uint, target models.TargetRef) (bool, error) {
	var count int64
	err := s.db.Model(&models.Follow{}).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, target.Type, target.ID).
		Count(&count).Error
	return count > 0, err
}

// NotifyOnComment fans out notifications for a freshly posted comment.
// Replies notify the parent author (never the replier themselves); root
// comments notify followers of the target, minus the poster. Notification
// rows are best-effort and never fail the comment write.
func (s *NotificationService) NotifyOnComment(parent, comment *models.Comment) {
	if parent != nil {
		s.notifyReply(parent, comment)
		return
	}
	s.notifyFollowers(comment)
}

func (s *NotificationService) notifyReply(parent, comment *models.Comment) {
	if parent.UserID == nil {
		return
	}
	// No self-reply spam.
	if comment.UserID != nil && *comment.UserID == *parent.UserID {
		return
	}

	notification := models.Notification{
		RecipientID: *parent.UserID,
		Kind:        models.NotificationKindReply,
		CommentID:   parent.CommentID,
		ReplyID:     &comment.CommentID,
		CreatedAt:   time.Now(),
	}
	if err := s.db.Create(&notification).Error; err != nil {
		log.Printf("Warning: failed to record reply notification: %v", err)
		return
	}
	s.emailRecipient(*parent.UserID, comment)
}

func (s *NotificationService) notifyFollowers(comment *models.Comment) {
	var follows []models.Follow
	if err := s.db.Where("target_type = ? AND target_id = ?", comment.TargetType, comment.TargetID).
		Find(&follows).Error; err != nil {
		log.Printf("Warning: failed to load followers: %v", err)
		return
	}

	now := time.Now()
	for _, follow := range follows {
		if comment.UserID != nil && *comment.UserID == follow.UserID {
			continue
		}
		notification := models.Notification{
			RecipientID: follow.UserID,
			Kind:        models.NotificationKindFollow,
			CommentID:   comment.CommentID,
			CreatedAt:   now,
		}
		if err := s.db.Create(&notification).Error; err != nil {
			log.Printf("Warning: failed to record follow notification: %v", err)
		}
	}
}

// emailRecipient sends a best-effort notification email when SMTP is
// configured and the recipient registered an address.
func (s *NotificationService) emailRecipient(recipientID uint, comment *models.Comment) {
	if !config.MailEnabled() {
		return
	}
	var recipient models.User
	if err := s.db.Where("user_id = ?", recipientID).First(&recipient).Error; err != nil {
		return
	}
	if recipient.Email == nil || *recipient.Email == "" {
		return
	}

	target := s.resolver.Label(comment.Target())
	subject := "New reply to your comment"
	body := fmt.Sprintf("<p>Your comment on %s received a reply:</p><blockquote>%s</blockquote>",
		target, comment.Content)
	if err := s.sendMail([]string{*recipient.Email}, subject, body); err != nil {
		log.Printf("Warning: failed to send notification email: %v", err)
	}
}

// List returns the recipient's notifications, newest first.
func (s *NotificationService) List(recipientID uint, limit int) ([]NotificationView, error) {
	query := s.db.Where("recipient_id = ?", recipientID).Order("created_at DESC, notification_id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var notifications []models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}

	views := make([]NotificationView, 0, len(notifications))
	for _, n := range notifications {
		view := NotificationView{
			NotificationID: n.NotificationID,
			Kind:           n.Kind,
			CommentID:      n.CommentID,
			ReplyID:        n.ReplyID,
			IsRead:         n.IsRead,
			CreatedAt:      n.CreatedAt.Format(time.RFC3339),
		}
		previewID := n.CommentID
		if n.ReplyID != nil {
			previewID = *n.ReplyID
		}
		var c models.Comment
		if err := s.db.Where("comment_id = ?", previewID).First(&c).Error; err == nil {
			view.Preview = c.Content
			view.Target = s.resolver.Label(c.Target())
		}
		views = append(views, view)
	}
	return views, nil
}

// MarkRead flags the given notifications as read. Ids owned by other
// users are silently ignored; the count of updated rows is returned.
func (s *NotificationService) MarkRead(ids []uint, recipientID uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := s.db.Model(&models.Notification{}).
		Where("notification_id IN ? AND recipient_id = ?", ids, recipientID).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

// UnreadCount returns how many unread notifications the recipient has.
func (s *NotificationService) UnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}
