package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"edu-feedback-api/models"
)

func entityID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

// feedbackFor bundles the comment threads and rating aggregate every
// entity detail page carries, and records the visit for signed-in users.
func feedbackFor(c *gin.Context, target models.TargetRef) (gin.H, bool) {
	comments, err := commentService().ListThreads(target)
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}
	aggregate, err := ratingService().Aggregate(target)
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}

	if userID, ok := getCurrentUserID(c); ok {
		if err := visitService().RecordVisit(userID, target); err != nil {
			// History is best-effort; the detail view still renders.
			respondLogged(err)
		}
	}

	return gin.H{"comments": comments, "rating": aggregate}, true
}

func regionName(region *models.Region) *string {
	if region == nil {
		return nil
	}
	return &region.Name
}

func universityJSON(u *models.University) gin.H {
	if u == nil {
		return nil
	}
	return gin.H{
		"id":     u.UniversityID,
		"name":   u.Name,
		"region": regionName(u.Region),
	}
}

func collegeJSON(col *models.College) gin.H {
	if col == nil {
		return nil
	}
	return gin.H{
		"id":         col.CollegeID,
		"name":       col.Name,
		"university": universityJSON(&col.University),
	}
}

func schoolJSON(sch *models.School) gin.H {
	if sch == nil {
		return nil
	}
	return gin.H{
		"id":      sch.SchoolID,
		"name":    sch.Name,
		"college": collegeJSON(&sch.College),
	}
}

func moduleJSON(mod *models.Module) gin.H {
	if mod == nil {
		return nil
	}
	return gin.H{
		"id":     mod.ModuleID,
		"name":   mod.Name,
		"school": schoolJSON(&mod.School),
	}
}

// GetUniversity returns university details with threaded comments and the
// rating aggregate.
func GetUniversity(c *gin.Context) {
	id, ok := entityID(c)
	if !ok {
		return
	}

	var university models.University
	if err := getDB().Preload("Region").
		Where("university_id = ?", id).First(&university).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "University not found"})
		return
	}

	feedback, ok := feedbackFor(c, models.TargetRef{Type: models.TargetUniversity, ID: id})
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"university": universityJSON(&university),
		"comments":   feedback["comments"],
		"rating":     feedback["rating"],
	})
}

// GetCollege returns college details with its parent chain, comments and
// rating aggregate.
func GetCollege(c *gin.Context) {
	id, ok := entityID(c)
	if !ok {
		return
	}

	var college models.College
	if err := getDB().Preload("University.Region").
		Where("college_id = ?", id).First(&college).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "College not found"})
		return
	}

	feedback, ok := feedbackFor(c, models.TargetRef{Type: models.TargetCollege, ID: id})
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"college":  collegeJSON(&college),
		"comments": feedback["comments"],
		"rating":   feedback["rating"],
	})
}

// GetSchool returns school details with its parent chain, comments and
// rating aggregate.
func GetSchool(c *gin.Context) {
	id, ok := entityID(c)
	if !ok {
		return
	}

	var school models.School
	if err := getDB().Preload("College.University.Region").
		Where("school_id = ?", id).First(&school).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "School not found"})
		return
	}

	feedback, ok := feedbackFor(c, models.TargetRef{Type: models.TargetSchool, ID: id})
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"school":   schoolJSON(&school),
		"comments": feedback["comments"],
		"rating":   feedback["rating"],
	})
}

// GetModule returns module details plus its teaching records, comments
// and rating aggregate.
func GetModule(c *gin.Context) {
	id, ok := entityID(c)
	if !ok {
		return
	}

	var module models.Module
	if err := getDB().Preload("School.College.University.Region").
		Where("module_id = ?", id).First(&module).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Module not found"})
		return
	}

	var teachings []models.Teaching
	if err := getDB().Preload("Lecturer").
		Where("module_id = ?", id).Find(&teachings).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	teachingData := make([]gin.H, 0, len(teachings))
	for _, teaching := range teachings {
		teachingData = append(teachingData, gin.H{
			"id":       teaching.TeachingID,
			"lecturer": teaching.Lecturer.Name,
			"year":     teaching.Year,
		})
	}

	feedback, ok := feedbackFor(c, models.TargetRef{Type: models.TargetModule, ID: id})
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"module":    moduleJSON(&module),
		"teachings": teachingData,
		"comments":  feedback["comments"],
		"rating":    feedback["rating"],
	})
}

// GetLecturer returns lecturer details with comments, rating aggregate
// and the lecturer's teaching records.
func GetLecturer(c *gin.Context) {
	id, ok := entityID(c)
	if !ok {
		return
	}

	var lecturer models.Lecturer
	if err := getDB().Where("lecturer_id = ?", id).First(&lecturer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lecturer not found"})
		return
	}

	var teachings []models.Teaching
	if err := getDB().Preload("Module").
		Where("lecturer_id = ?", id).Find(&teachings).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	teachingData := make([]gin.H, 0, len(teachings))
	for _, teaching := range teachings {
		teachingData = append(teachingData, gin.H{
			"id":     teaching.TeachingID,
			"module": teaching.Module.Name,
			"year":   teaching.Year,
		})
	}

	feedback, ok := feedbackFor(c, models.TargetRef{Type: models.TargetLecturer, ID: id})
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lecturer":  gin.H{"id": lecturer.LecturerID, "name": lecturer.Name},
		"teachings": teachingData,
		"comments":  feedback["comments"],
		"rating":    feedback["rating"],
	})
}

// GetTeaching returns one teaching record with the full module parent
// chain, comments and rating aggregate.
func GetTeaching(c *gin.Context) {
	id, ok := entityID(c)
	if !ok {
		return
	}

	var teaching models.Teaching
	if err := getDB().Preload("Lecturer").Preload("Module.School.College.University.Region").
		Where("teaching_id = ?", id).First(&teaching).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Teaching record not found"})
		return
	}

	feedback, ok := feedbackFor(c, models.TargetRef{Type: models.TargetTeaching, ID: id})
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"teaching": gin.H{
			"id":          teaching.TeachingID,
			"lecturer":    teaching.Lecturer.Name,
			"lecturer_id": teaching.LecturerID,
			"module":      teaching.Module.Name,
			"module_id":   teaching.ModuleID,
			"year":        teaching.Year,
			"module_info": moduleJSON(&teaching.Module),
		},
		"comments": feedback["comments"],
		"rating":   feedback["rating"],
	})
}
