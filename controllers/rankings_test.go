package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edu-feedback-api/models"
)

func TestGetYearRankingsOrdered(t *testing.T) {
	db := setupControllerTest(t)
	router := gin.New()
	router.GET("/rankings/:year", GetYearRankings)

	year := models.YearRanking{Year: "2024"}
	require.NoError(t, db.Create(&year).Error)

	// Inserted out of rank order on purpose.
	for _, entry := range []struct {
		name string
		rank int
	}{
		{"Gamma University", 3},
		{"Alpha University", 1},
		{"Beta University", 2},
	} {
		university := models.University{Name: entry.name}
		require.NoError(t, db.Create(&university).Error)
		ranking := models.UniversityRanking{
			YearID:       year.YearID,
			UniversityID: university.UniversityID,
			Rank:         entry.rank,
		}
		require.NoError(t, db.Create(&ranking).Error)
	}

	req := httptest.NewRequest(http.MethodGet, "/rankings/2024", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Year     string `json:"year"`
		Rankings []struct {
			Rank       int `json:"rank"`
			University struct {
				Name string `json:"name"`
			} `json:"university"`
		} `json:"rankings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.Len(t, payload.Rankings, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{
		payload.Rankings[0].Rank,
		payload.Rankings[1].Rank,
		payload.Rankings[2].Rank,
	})
	assert.Equal(t, "Alpha University", payload.Rankings[0].University.Name)
}

func TestGetYearRankingsUnknownYear(t *testing.T) {
	setupControllerTest(t)
	router := gin.New()
	router.GET("/rankings/:year", GetYearRankings)

	req := httptest.NewRequest(http.MethodGet, "/rankings/1999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
