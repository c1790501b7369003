package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"edu-feedback-api/config"
	"edu-feedback-api/services"
)

// timeFormat is the timestamp layout used in JSON payloads.
const timeFormat = time.RFC3339

func getDB() *gorm.DB { return config.DB }

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func targetResolver() *services.TargetResolver {
	return services.NewTargetResolver(getDB())
}

func notificationService() *services.NotificationService {
	return services.NewNotificationService(getDB(), targetResolver())
}

func commentService() *services.CommentService {
	return services.NewCommentService(getDB(), targetResolver(), notificationService())
}

func ratingService() *services.RatingService {
	return services.NewRatingService(getDB(), targetResolver())
}

func visitService() *services.VisitService {
	return services.NewVisitService(getDB(), targetResolver(), services.VisitDedupWindowFromEnv())
}

func getCurrentUserID(c *gin.Context) (uint, bool) {
	if v, ok := c.Get("userID"); ok {
		switch t := v.(type) {
		case uint:
			return t, true
		case int:
			return uint(t), true
		case int64:
			return uint(t), true
		case float64:
			return uint(t), true
		}
	}
	return 0, false
}

func getCurrentRole(c *gin.Context) (string, bool) {
	if v, ok := c.Get("role"); ok {
		if role, isString := v.(string); isString {
			return role, true
		}
	}
	return "", false
}

// respondLogged records a best-effort failure without touching the
// response.
func respondLogged(err error) {
	log.Printf("Warning: %v", err)
}

// respondServiceError translates domain errors into the API's error
// taxonomy. Anything unexpected is logged and masked as a generic 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyContent),
		errors.Is(err, services.ErrInvalidScore),
		errors.Is(err, services.ErrNoTarget),
		errors.Is(err, services.ErrAmbiguousTarget),
		errors.Is(err, services.ErrUnknownTargetType),
		errors.Is(err, services.ErrParentTargetMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrTargetNotFound),
		errors.Is(err, services.ErrParentNotFound),
		errors.Is(err, services.ErrCommentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotStudent),
		errors.Is(err, services.ErrNotCommentAuthor):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		log.Printf("unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
