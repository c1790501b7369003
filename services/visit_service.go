package services

import (
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	"edu-feedback-api/models"
)

// DefaultVisitDedupWindow collapses repeat visits to the same entity. The
// window is configuration (VISIT_DEDUP_WINDOW_MINUTES), not a literal
// buried in queries; deployments have run it at both 1 and 5 minutes.
const DefaultVisitDedupWindow = 5 * time.Minute

// VisitDedupWindowFromEnv reads the dedup window from the environment,
// falling back to the default for missing or unusable values.
func VisitDedupWindowFromEnv() time.Duration {
	raw := os.Getenv("VISIT_DEDUP_WINDOW_MINUTES")
	if raw == "" {
		return DefaultVisitDedupWindow
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return DefaultVisitDedupWindow
	}
	return time.Duration(minutes) * time.Minute
}

type VisitService struct {
	db       *gorm.DB
	resolver *TargetResolver
	window   time.Duration
}

func NewVisitService(db *gorm.DB, resolver *TargetResolver, window time.Duration) *VisitService {
	if window <= 0 {
		window = DefaultVisitDedupWindow
	}
	return &VisitService{db: db, resolver: resolver, window: window}
}

// RecordVisit appends a visit row unless the user already visited the
// same target inside the dedup window.
func (s *VisitService) RecordVisit(userID uint, target models.TargetRef) error {
	name, err := s.resolver.Name(target)
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-s.window)
	var count int64
	if err := s.db.Model(&models.VisitHistory{}).
		Where("user_id = ? AND target_type = ? AND target_id = ? AND visited_at > ?",
			userID, target.Type, target.ID, cutoff).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	visit := models.VisitHistory{
		UserID:     userID,
		TargetType: target.Type,
		TargetID:   target.ID,
		TargetName: name,
		VisitedAt:  time.Now(),
	}
	return s.db.Create(&visit).Error
}

// History returns the user's most recent visits, newest first.
func (s *VisitService) History(userID uint, limit int) ([]models.VisitHistory, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var visits []models.VisitHistory
	err := s.db.Where("user_id = ?", userID).
		Order("visited_at DESC, visit_id DESC").
		Limit(limit).
		Find(&visits).Error
	return visits, err
}
