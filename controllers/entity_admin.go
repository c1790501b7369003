package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"edu-feedback-api/models"
)

// Duplicate creations are not silently merged: the existing record is
// echoed back with 409 so the caller can decide to reuse it.

// AddUniversity creates a university under an existing region (by name).
func AddUniversity(c *gin.Context) {
	var req struct {
		Name   string `json:"name" binding:"required"`
		Region string `json:"region" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both name and region are required"})
		return
	}

	name := strings.TrimSpace(req.Name)
	regionName := strings.TrimSpace(req.Region)
	if name == "" || regionName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both name and region are required"})
		return
	}

	var region models.Region
	if err := getDB().Where("LOWER(name) = LOWER(?)", regionName).First(&region).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Region \"" + regionName + "\" not found"})
		return
	}

	var existing models.University
	err := getDB().Preload("Region").
		Where("LOWER(name) = LOWER(?) AND region_id = ?", name, region.RegionID).
		First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":               "University already exists",
			"existing_university": universityJSON(&existing),
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondServiceError(c, err)
		return
	}

	university := models.University{Name: name, RegionID: &region.RegionID}
	if err := getDB().Create(&university).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     university.UniversityID,
		"name":   university.Name,
		"region": region.Name,
	})
}

// AddCollege creates a college under a university.
func AddCollege(c *gin.Context) {
	var req struct {
		Name         string `json:"name" binding:"required"`
		UniversityID uint   `json:"university_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both name and university_id are required"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both name and university_id are required"})
		return
	}

	var university models.University
	if err := getDB().Where("university_id = ?", req.UniversityID).First(&university).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "University not found"})
		return
	}

	var existing models.College
	err := getDB().Where("LOWER(name) = LOWER(?) AND university_id = ?", name, req.UniversityID).
		First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": "College already exists",
			"existing_college": gin.H{
				"id":         existing.CollegeID,
				"name":       existing.Name,
				"university": university.Name,
			},
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondServiceError(c, err)
		return
	}

	college := models.College{Name: name, UniversityID: req.UniversityID}
	if err := getDB().Create(&college).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         college.CollegeID,
		"name":       college.Name,
		"university": university.Name,
	})
}

// AddSchool creates a school under a college.
func AddSchool(c *gin.Context) {
	var req struct {
		Name      string `json:"name" binding:"required"`
		CollegeID uint   `json:"college_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both name and college_id are required"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both name and college_id are required"})
		return
	}

	var college models.College
	if err := getDB().Where("college_id = ?", req.CollegeID).First(&college).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "College not found"})
		return
	}

	var existing models.School
	err := getDB().Where("LOWER(name) = LOWER(?) AND college_id = ?", name, req.CollegeID).
		First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": "School already exists",
			"existing_school": gin.H{
				"id":      existing.SchoolID,
				"name":    existing.Name,
				"college": college.Name,
			},
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondServiceError(c, err)
		return
	}

	school := models.School{Name: name, CollegeID: req.CollegeID}
	if err := getDB().Create(&school).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      school.SchoolID,
		"name":    school.Name,
		"college": college.Name,
	})
}

// AddModule creates a module under a school.
func AddModule(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		SchoolID uint   `json:"school_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both name and school_id are required"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both name and school_id are required"})
		return
	}

	var school models.School
	if err := getDB().Where("school_id = ?", req.SchoolID).First(&school).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "School not found"})
		return
	}

	var existing models.Module
	err := getDB().Where("LOWER(name) = LOWER(?) AND school_id = ?", name, req.SchoolID).
		First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Module already exists",
			"existing_module": gin.H{
				"id":     existing.ModuleID,
				"name":   existing.Name,
				"school": school.Name,
			},
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondServiceError(c, err)
		return
	}

	module := models.Module{Name: name, SchoolID: req.SchoolID}
	if err := getDB().Create(&module).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     module.ModuleID,
		"name":   module.Name,
		"school": school.Name,
	})
}

// AddLecturer creates a lecturer by name.
func AddLecturer(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	var existing models.Lecturer
	err := getDB().Where("LOWER(name) = LOWER(?)", name).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Lecturer already exists",
			"existing_lecturer": gin.H{
				"id":   existing.LecturerID,
				"name": existing.Name,
			},
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondServiceError(c, err)
		return
	}

	lecturer := models.Lecturer{Name: name}
	if err := getDB().Create(&lecturer).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": lecturer.LecturerID, "name": lecturer.Name})
}

// AddTeaching links a lecturer to a module for one academic year.
func AddTeaching(c *gin.Context) {
	var req struct {
		LecturerID uint   `json:"lecturer_id" binding:"required"`
		ModuleID   uint   `json:"module_id" binding:"required"`
		Year       string `json:"year" binding:"required,len=4"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lecturer_id, module_id and a 4-digit year are required"})
		return
	}

	var lecturer models.Lecturer
	if err := getDB().Where("lecturer_id = ?", req.LecturerID).First(&lecturer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lecturer not found"})
		return
	}
	var module models.Module
	if err := getDB().Where("module_id = ?", req.ModuleID).First(&module).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Module not found"})
		return
	}

	var existing models.Teaching
	err := getDB().Where("lecturer_id = ? AND module_id = ? AND year = ?",
		req.LecturerID, req.ModuleID, req.Year).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Teaching record already exists",
			"existing_teaching": gin.H{
				"id":       existing.TeachingID,
				"lecturer": lecturer.Name,
				"module":   module.Name,
				"year":     existing.Year,
			},
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondServiceError(c, err)
		return
	}

	teaching := models.Teaching{
		LecturerID: req.LecturerID,
		ModuleID:   req.ModuleID,
		Year:       req.Year,
	}
	if err := getDB().Create(&teaching).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       teaching.TeachingID,
		"lecturer": lecturer.Name,
		"module":   module.Name,
		"year":     teaching.Year,
	})
}
