package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"

	"edu-feedback-api/models"
)

// GetYears returns all available ranking years, newest first.
func GetYears(c *gin.Context) {
	var years []string
	err := getDB().Model(&models.YearRanking{}).
		Order("year DESC").
		Pluck("year", &years).Error
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if years == nil {
		years = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"years": years})
}

// GetYearRankings returns the university table for one ranking year.
func GetYearRankings(c *gin.Context) {
	year := c.Param("year")

	var yearRow models.YearRanking
	if err := getDB().Where("year = ?", year).First(&yearRow).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Year not found"})
		return
	}

	var rankings []models.UniversityRanking
	// RANK is reserved in MySQL 8; let the dialect quote the column.
	if err := getDB().Preload("University.Region").
		Where("year_id = ?", yearRow.YearID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "rank"}}).
		Find(&rankings).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	data := make([]gin.H, 0, len(rankings))
	for _, ranking := range rankings {
		var region *string
		if ranking.University.Region != nil {
			region = &ranking.University.Region.Name
		}
		data = append(data, gin.H{
			"id":   ranking.RankingID,
			"rank": ranking.Rank,
			"university": gin.H{
				"id":     ranking.University.UniversityID,
				"name":   ranking.University.Name,
				"region": region,
			},
		})
	}

	c.JSON(http.StatusOK, gin.H{"year": year, "rankings": data})
}
