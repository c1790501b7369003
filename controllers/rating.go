package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"edu-feedback-api/models"
	"edu-feedback-api/services"
)

type RateRequest struct {
	TargetType string `json:"target_type" binding:"required"`
	TargetID   uint   `json:"target_id" binding:"required"`
	Score      int    `json:"score"`
}

// RateTarget creates or updates the caller's rating for a target and
// returns the refreshed aggregate. Student role required.
func RateTarget(c *gin.Context) {
	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	target := models.TargetRef{Type: models.TargetType(req.TargetType), ID: req.TargetID}
	if !services.KnownType(target.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown target type"})
		return
	}

	userID, _ := getCurrentUserID(c)
	role, _ := getCurrentRole(c)

	rating, err := ratingService().UpsertRating(userID, role, target, req.Score)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	aggregate, err := ratingService().Aggregate(target)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"average": aggregate.Average,
		"count":   aggregate.Count,
		"score":   rating.Score,
	})
}

// GetUserRating returns the caller's own score for a target, 0 if none.
func GetUserRating(c *gin.Context) {
	target, ok := targetFromQuery(c)
	if !ok {
		return
	}

	userID, _ := getCurrentUserID(c)
	role, _ := getCurrentRole(c)

	score, err := ratingService().UserScore(userID, role, target)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"score": score})
}

// GetRatingAggregate returns {average, count} for a target.
func GetRatingAggregate(c *gin.Context) {
	target, ok := targetFromQuery(c)
	if !ok {
		return
	}

	aggregate, err := ratingService().Aggregate(target)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"average": aggregate.Average,
		"count":   aggregate.Count,
	})
}

func targetFromQuery(c *gin.Context) (models.TargetRef, bool) {
	targetType := models.TargetType(c.Query("target_type"))
	if !services.KnownType(targetType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown target type"})
		return models.TargetRef{}, false
	}
	id, err := strconv.ParseUint(c.Query("target_id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target_id"})
		return models.TargetRef{}, false
	}
	return models.TargetRef{Type: targetType, ID: uint(id)}, true
}

// GetLecturerRatingTrend returns the per-year rating distribution for a
// lecturer's teaching records, overall and per course. Scope filters
// apply in order of specificity: school, then college, then university.
func GetLecturerRatingTrend(c *gin.Context) {
	id, ok := entityID(c)
	if !ok {
		return
	}

	filters := services.TrendFilters{Year: c.Query("year_filter")}
	if v := c.Query("school_id"); v != "" {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			scopeID := uint(parsed)
			filters.SchoolID = &scopeID
		}
	}
	if v := c.Query("college_id"); v != "" {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			scopeID := uint(parsed)
			filters.CollegeID = &scopeID
		}
	}
	if v := c.Query("university_id"); v != "" {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			scopeID := uint(parsed)
			filters.UniversityID = &scopeID
		}
	}

	trend, err := ratingService().LecturerRatingTrend(id, filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, trend)
}
