package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"edu-feedback-api/services"
)

type AddCommentRequest struct {
	Content     string `json:"content"`
	ParentID    *uint  `json:"parent_id"`
	IsAnonymous bool   `json:"is_anonymous"`

	UniversityID uint `json:"university_id"`
	CollegeID    uint `json:"college_id"`
	SchoolID     uint `json:"school_id"`
	ModuleID     uint `json:"module_id"`
	LecturerID   uint `json:"lecturer_id"`
	TeachingID   uint `json:"teaching_id"`
}

func (r *AddCommentRequest) targetFields() map[string]uint {
	return map[string]uint{
		"university_id": r.UniversityID,
		"college_id":    r.CollegeID,
		"school_id":     r.SchoolID,
		"module_id":     r.ModuleID,
		"lecturer_id":   r.LecturerID,
		"teaching_id":   r.TeachingID,
	}
}

// AddComment posts a root comment or reply against exactly one target.
// Anonymous visitors may post; signed-in users may additionally mark
// their comment anonymous, which hides identity from readers but keeps
// the author recorded for deletion rights.
func AddComment(c *gin.Context) {
	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	target, err := targetResolver().ResolveFields(req.targetFields())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	input := services.AddCommentInput{
		Target:      target,
		Content:     req.Content,
		ParentID:    req.ParentID,
		IsAnonymous: req.IsAnonymous,
	}
	if userID, ok := getCurrentUserID(c); ok {
		input.UserID = &userID
	}

	comment, err := commentService().AddComment(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         comment.CommentID,
		"content":    comment.Content,
		"created_at": comment.CreatedAt.Format(timeFormat),
		"target":     targetResolver().Label(comment.Target()),
	})
}

// DeleteComment removes the caller's own comment and its reply subtree.
func DeleteComment(c *gin.Context) {
	id, ok := entityID(c)
	if !ok {
		return
	}
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	if err := commentService().DeleteComment(id, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
