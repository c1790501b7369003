package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"edu-feedback-api/models"
)

// Search result caps: per-entity searches return at most searchLimit
// rows, the global search at most globalSearchLimit per entity type.
const (
	searchLimit       = 10
	globalSearchLimit = 5
)

func searchQuery(c *gin.Context) string {
	return strings.TrimSpace(c.Query("q"))
}

// SearchUniversities matches universities by name substring, optionally
// narrowed by region name.
func SearchUniversities(c *gin.Context) {
	query := searchQuery(c)
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"universities": []gin.H{}})
		return
	}

	db := getDB().Preload("Region").
		Where("LOWER(name) LIKE LOWER(?)", "%"+query+"%")
	if region := strings.TrimSpace(c.Query("region")); region != "" {
		db = db.Joins("JOIN regions ON regions.region_id = universities.region_id").
			Where("LOWER(regions.name) LIKE LOWER(?)", "%"+region+"%")
	}

	var universities []models.University
	if err := db.Limit(searchLimit).Find(&universities).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	data := make([]gin.H, 0, len(universities))
	for i := range universities {
		data = append(data, universityJSON(&universities[i]))
	}
	c.JSON(http.StatusOK, gin.H{"universities": data})
}

// SearchRegions matches region names by substring.
func SearchRegions(c *gin.Context) {
	query := searchQuery(c)
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"regions": []string{}})
		return
	}

	var names []string
	if err := getDB().Model(&models.Region{}).
		Where("LOWER(name) LIKE LOWER(?)", "%"+query+"%").
		Limit(searchLimit).
		Pluck("name", &names).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"regions": names})
}

// SearchColleges matches colleges by name, optionally within a university.
func SearchColleges(c *gin.Context) {
	query := searchQuery(c)
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"colleges": []gin.H{}})
		return
	}

	db := getDB().Preload("University").
		Where("LOWER(name) LIKE LOWER(?)", "%"+query+"%")
	if universityID := c.Query("university_id"); universityID != "" {
		db = db.Where("university_id = ?", universityID)
	}

	var colleges []models.College
	if err := db.Limit(searchLimit).Find(&colleges).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	data := make([]gin.H, 0, len(colleges))
	for _, college := range colleges {
		data = append(data, gin.H{
			"id":         college.CollegeID,
			"name":       college.Name,
			"university": college.University.Name,
		})
	}
	c.JSON(http.StatusOK, gin.H{"colleges": data})
}

// SearchSchools matches schools by name, optionally within a college.
func SearchSchools(c *gin.Context) {
	query := searchQuery(c)
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"schools": []gin.H{}})
		return
	}

	db := getDB().Preload("College").
		Where("LOWER(name) LIKE LOWER(?)", "%"+query+"%")
	if collegeID := c.Query("college_id"); collegeID != "" {
		db = db.Where("college_id = ?", collegeID)
	}

	var schools []models.School
	if err := db.Limit(searchLimit).Find(&schools).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	data := make([]gin.H, 0, len(schools))
	for _, school := range schools {
		data = append(data, gin.H{
			"id":      school.SchoolID,
			"name":    school.Name,
			"college": school.College.Name,
		})
	}
	c.JSON(http.StatusOK, gin.H{"schools": data})
}

// SearchModules matches modules by name, optionally within a school.
func SearchModules(c *gin.Context) {
	query := searchQuery(c)
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"modules": []gin.H{}})
		return
	}

	db := getDB().Preload("School").
		Where("LOWER(name) LIKE LOWER(?)", "%"+query+"%")
	if schoolID := c.Query("school_id"); schoolID != "" {
		db = db.Where("school_id = ?", schoolID)
	}

	var modules []models.Module
	if err := db.Limit(searchLimit).Find(&modules).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	data := make([]gin.H, 0, len(modules))
	for _, module := range modules {
		data = append(data, gin.H{
			"id":     module.ModuleID,
			"name":   module.Name,
			"school": module.School.Name,
		})
	}
	c.JSON(http.StatusOK, gin.H{"modules": data})
}

// SearchLecturers matches lecturers by name substring.
func SearchLecturers(c *gin.Context) {
	query := searchQuery(c)
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"lecturers": []gin.H{}})
		return
	}

	var lecturers []models.Lecturer
	if err := getDB().Where("LOWER(name) LIKE LOWER(?)", "%"+query+"%").
		Limit(searchLimit).Find(&lecturers).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	data := make([]gin.H, 0, len(lecturers))
	for _, lecturer := range lecturers {
		data = append(data, gin.H{"id": lecturer.LecturerID, "name": lecturer.Name})
	}
	c.JSON(http.StatusOK, gin.H{"lecturers": data})
}

// GlobalSearch queries every entity type at once for typeahead results.
func GlobalSearch(c *gin.Context) {
	query := searchQuery(c)
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"results": []gin.H{}})
		return
	}

	results := []gin.H{}
	pattern := "%" + query + "%"

	var universities []models.University
	if err := getDB().Preload("Region").
		Where("LOWER(name) LIKE LOWER(?)", pattern).
		Limit(globalSearchLimit).Find(&universities).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	for _, u := range universities {
		results = append(results, gin.H{
			"name":   u.Name,
			"type":   "University",
			"url":    "/university/" + itoa(u.UniversityID),
			"parent": regionName(u.Region),
		})
	}

	var colleges []models.College
	if err := getDB().Preload("University.Region").
		Where("LOWER(name) LIKE LOWER(?)", pattern).
		Limit(globalSearchLimit).Find(&colleges).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	for _, col := range colleges {
		parent := col.University.Name
		if col.University.Region != nil {
			parent += " (" + col.University.Region.Name + ")"
		} else {
			parent += " (No Region)"
		}
		results = append(results, gin.H{
			"name":   col.Name,
			"type":   "College",
			"url":    "/college/" + itoa(col.CollegeID),
			"parent": parent,
		})
	}

	var schools []models.School
	if err := getDB().Preload("College.University").
		Where("LOWER(name) LIKE LOWER(?)", pattern).
		Limit(globalSearchLimit).Find(&schools).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	for _, sch := range schools {
		results = append(results, gin.H{
			"name":   sch.Name,
			"type":   "School",
			"url":    "/school/" + itoa(sch.SchoolID),
			"parent": sch.College.Name + " > " + sch.College.University.Name,
		})
	}

	var modules []models.Module
	if err := getDB().Preload("School.College.University").
		Where("LOWER(name) LIKE LOWER(?)", pattern).
		Limit(globalSearchLimit).Find(&modules).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	for _, mod := range modules {
		results = append(results, gin.H{
			"name": mod.Name,
			"type": "Module",
			"url":  "/module/" + itoa(mod.ModuleID),
			"parent": mod.School.Name + " > " + mod.School.College.Name +
				" > " + mod.School.College.University.Name,
		})
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}
