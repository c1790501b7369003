package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetVisitHistory returns the caller's recent entity visits.
func GetVisitHistory(c *gin.Context) {
	userID, _ := getCurrentUserID(c)

	limit := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	visits, err := visitService().History(userID, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	data := make([]gin.H, 0, len(visits))
	for _, visit := range visits {
		data = append(data, gin.H{
			"target_type": visit.TargetType,
			"target_id":   visit.TargetID,
			"target_name": visit.TargetName,
			"visited_at":  visit.VisitedAt.Format(timeFormat),
		})
	}
	c.JSON(http.StatusOK, gin.H{"history": data})
}
