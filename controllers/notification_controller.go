package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"edu-feedback-api/models"
	"edu-feedback-api/services"
)

type FollowRequest struct {
	TargetType string `json:"target_type" binding:"required"`
	TargetID   uint   `json:"target_id" binding:"required"`
}

// FollowEntity subscribes the caller to an entity's comment activity.
// Following twice reports already_following instead of erroring.
func FollowEntity(c *gin.Context) {
	target, userID, ok := followTarget(c)
	if !ok {
		return
	}

	status, err := notificationService().FollowTarget(userID, target)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

// UnfollowEntity removes a subscription; unfollowing something never
// followed reports not_following.
func UnfollowEntity(c *gin.Context) {
	target, userID, ok := followTarget(c)
	if !ok {
		return
	}

	status, err := notificationService().UnfollowTarget(userID, target)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

// GetFollowStatus reports whether the caller follows the queried target.
func GetFollowStatus(c *gin.Context) {
	target, ok := targetFromQuery(c)
	if !ok {
		return
	}
	userID, _ := getCurrentUserID(c)

	following, err := notificationService().IsFollowing(userID, target)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": following})
}

// GetNotifications lists the caller's notifications, newest first.
func GetNotifications(c *gin.Context) {
	userID, _ := getCurrentUserID(c)

	limit := 50
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	notifications, err := notificationService().List(userID, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// GetUnreadCount returns the caller's unread notification count.
func GetUnreadCount(c *gin.Context) {
	userID, _ := getCurrentUserID(c)

	count, err := notificationService().UnreadCount(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// MarkNotificationsRead flags the given notifications as read. Ids that
// belong to other users are ignored, not errors.
func MarkNotificationsRead(c *gin.Context) {
	var req struct {
		NotificationIDs []uint `json:"notification_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	userID, _ := getCurrentUserID(c)
	updated, err := notificationService().MarkRead(req.NotificationIDs, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func followTarget(c *gin.Context) (models.TargetRef, uint, bool) {
	var req FollowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return models.TargetRef{}, 0, false
	}
	target := models.TargetRef{Type: models.TargetType(req.TargetType), ID: req.TargetID}
	if !services.KnownType(target.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown target type"})
		return models.TargetRef{}, 0, false
	}
	userID, _ := getCurrentUserID(c)
	return target, userID, true
}
