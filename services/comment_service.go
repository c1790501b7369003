package services

import (
	"errors"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"edu-feedback-api/models"
)

var (
	ErrEmptyContent         = errors.New("content is required")
	ErrParentNotFound       = errors.New("parent comment not found")
	ErrParentTargetMismatch = errors.New("parent comment belongs to a different target")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrNotCommentAuthor     = errors.New("only the comment author may delete it")
)

// CommentAuthor is the identity shown on a serialized comment. It is nil
// for anonymous comments and for comments whose author was deleted.
type CommentAuthor struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
}

// CommentThread is the recursive serialized view of a comment and its
// replies. Top-level threads are ordered newest-first, reply lists
// oldest-first.
type CommentThread struct {
	ID          uint            `json:"id"`
	Content     string          `json:"content"`
	CreatedAt   string          `json:"created_at"`
	IsAnonymous bool            `json:"is_anonymous"`
	Author      *CommentAuthor  `json:"author"`
	Target      string          `json:"target"`
	Replies     []CommentThread `json:"replies"`
}

type AddCommentInput struct {
	Target      models.TargetRef
	Content     string
	ParentID    *uint
	UserID      *uint
	IsAnonymous bool
}

type CommentService struct {
	db            *gorm.DB
	resolver      *TargetResolver
	notifications *NotificationService
}

func NewCommentService(db *gorm.DB, resolver *TargetResolver, notifications *NotificationService) *CommentService {
	return &CommentService{db: db, resolver: resolver, notifications: notifications}
}

// AddComment validates and persists a new root comment or reply. Target
// validation and the insert run in one transaction so a target deleted
// mid-request cannot leave an orphaned comment behind.
func (s *CommentService) AddComment(input AddCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	var parent *models.Comment
	comment := &models.Comment{
		TargetType:  input.Target.Type,
		TargetID:    input.Target.ID,
		UserID:      input.UserID,
		Content:     content,
		IsAnonymous: input.IsAnonymous,
		CreatedAt:   time.Now(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := NewTargetResolver(tx).Resolve(input.Target); err != nil {
			return err
		}

		if input.ParentID != nil {
			parent = &models.Comment{}
			if err := tx.Where("comment_id = ?", *input.ParentID).First(parent).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrParentNotFound
				}
				return err
			}
			if parent.TargetType != input.Target.Type || parent.TargetID != input.Target.ID {
				return ErrParentTargetMismatch
			}
			comment.ParentID = &parent.CommentID
		}

		return tx.Create(comment).Error
	})
	if err != nil {
		return nil, err
	}

	if s.notifications != nil {
		s.notifications.NotifyOnComment(parent, comment)
	}
	return comment, nil
}

// ListThreads returns the serialized comment forest for a target: root
// comments newest-first, each with its reply subtree.
func (s *CommentService) ListThreads(target models.TargetRef) ([]CommentThread, error) {
	var comments []models.Comment
	if err := s.db.Where("target_type = ? AND target_id = ?", target.Type, target.ID).
		Find(&comments).Error; err != nil {
		return nil, err
	}

	authors, err := s.loadAuthors(comments)
	if err != nil {
		return nil, err
	}

	label := s.resolver.Label(target)

	children := make(map[uint][]*models.Comment)
	var roots []*models.Comment
	for i := range comments {
		c := &comments[i]
		if c.ParentID == nil {
			roots = append(roots, c)
		} else {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}

	// Roots newest-first, replies oldest-first.
	sort.Slice(roots, func(i, j int) bool {
		if roots[i].CreatedAt.Equal(roots[j].CreatedAt) {
			return roots[i].CommentID > roots[j].CommentID
		}
		return roots[i].CreatedAt.After(roots[j].CreatedAt)
	})
	for _, replies := range children {
		sort.Slice(replies, func(i, j int) bool {
			if replies[i].CreatedAt.Equal(replies[j].CreatedAt) {
				return replies[i].CommentID < replies[j].CommentID
			}
			return replies[i].CreatedAt.Before(replies[j].CreatedAt)
		})
	}

	threads := make([]CommentThread, 0, len(roots))
	for _, root := range roots {
		threads = append(threads, serializeThread(root, children, authors, label))
	}
	return threads, nil
}

// SerializeThread renders one comment with its reply subtree.
func (s *CommentService) SerializeThread(comment *models.Comment) (CommentThread, error) {
	threads, err := s.ListThreads(comment.Target())
	if err != nil {
		return CommentThread{}, err
	}
	for _, t := range threads {
		if found, ok := findThread(t, comment.CommentID); ok {
			return found, nil
		}
	}
	return CommentThread{}, ErrCommentNotFound
}

func findThread(t CommentThread, id uint) (CommentThread, bool) {
	if t.ID == id {
		return t, true
	}
	for _, reply := range t.Replies {
		if found, ok := findThread(reply, id); ok {
			return found, true
		}
	}
	return CommentThread{}, false
}

func serializeThread(c *models.Comment, children map[uint][]*models.Comment, authors map[uint]CommentAuthor, label string) CommentThread {
	thread := CommentThread{
		ID:          c.CommentID,
		Content:     c.Content,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
		IsAnonymous: c.IsAnonymous,
		Target:      label,
		Replies:     []CommentThread{},
	}
	// Identity is suppressed for anonymous comments even though the author
	// reference stays recorded for ownership checks.
	if !c.IsAnonymous && c.UserID != nil {
		if author, ok := authors[*c.UserID]; ok {
			a := author
			thread.Author = &a
		}
	}
	for _, reply := range children[c.CommentID] {
		thread.Replies = append(thread.Replies, serializeThread(reply, children, authors, label))
	}
	return thread
}

func (s *CommentService) loadAuthors(comments []models.Comment) (map[uint]CommentAuthor, error) {
	idSet := make(map[uint]struct{})
	for i := range comments {
		c := &comments[i]
		if !c.IsAnonymous && c.UserID != nil {
			idSet[*c.UserID] = struct{}{}
		}
	}
	authors := make(map[uint]CommentAuthor, len(idSet))
	if len(idSet) == 0 {
		return authors, nil
	}

	ids := make([]uint, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	var users []models.User
	if err := s.db.Preload("Profile").Where("user_id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		authors[u.UserID] = CommentAuthor{
			UserID:   u.UserID,
			Username: u.Username,
			Role:     u.Profile.Role,
		}
	}
	return authors, nil
}

// DeleteComment removes a comment and its full reply subtree. Only the
// stored author may delete, anonymous comments included.
func (s *CommentService) DeleteComment(commentID, requesterID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.Where("comment_id = ?", commentID).First(&comment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommentNotFound
			}
			return err
		}

		if comment.UserID == nil || *comment.UserID != requesterID {
			return ErrNotCommentAuthor
		}

		// Walk the subtree breadth-first; self-referential cascade is not
		// guaranteed by every store the tests run against.
		ids := []uint{comment.CommentID}
		frontier := []uint{comment.CommentID}
		for len(frontier) > 0 {
			var replyIDs []uint
			if err := tx.Model(&models.Comment{}).
				Where("parent_id IN ?", frontier).
				Pluck("comment_id", &replyIDs).Error; err != nil {
				return err
			}
			ids = append(ids, replyIDs...)
			frontier = replyIDs
		}

		if err := tx.Where("comment_id IN ? OR reply_id IN ?", ids, ids).
			Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Where("comment_id IN ?", ids).Delete(&models.Comment{}).Error
	})
}
