package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"edu-feedback-api/models"
)

// setupTestDB creates an in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, models.AutoMigrate(db))
	return db
}

// seedHierarchy creates one full chain: region, university, college,
// school, module, lecturer and a teaching record.
type hierarchy struct {
	Region     models.Region
	University models.University
	College    models.College
	School     models.School
	Module     models.Module
	Lecturer   models.Lecturer
	Teaching   models.Teaching
}

func seedHierarchy(t *testing.T, db *gorm.DB) hierarchy {
	t.Helper()

	h := hierarchy{Region: models.Region{Name: "Europe"}}
	require.NoError(t, db.Create(&h.Region).Error)

	h.University = models.University{Name: "Test University", RegionID: &h.Region.RegionID}
	require.NoError(t, db.Create(&h.University).Error)

	h.College = models.College{Name: "Engineering", UniversityID: h.University.UniversityID}
	require.NoError(t, db.Create(&h.College).Error)

	h.School = models.School{Name: "Computing", CollegeID: h.College.CollegeID}
	require.NoError(t, db.Create(&h.School).Error)

	h.Module = models.Module{Name: "Databases", SchoolID: h.School.SchoolID}
	require.NoError(t, db.Create(&h.Module).Error)

	h.Lecturer = models.Lecturer{Name: "Dr. Stone"}
	require.NoError(t, db.Create(&h.Lecturer).Error)

	h.Teaching = models.Teaching{
		LecturerID: h.Lecturer.LecturerID,
		ModuleID:   h.Module.ModuleID,
		Year:       "2024",
	}
	require.NoError(t, db.Create(&h.Teaching).Error)

	return h
}

func seedUser(t *testing.T, db *gorm.DB, username, role string) models.User {
	t.Helper()

	user := models.User{Username: username, Password: "x", CreatedAt: time.Now()}
	require.NoError(t, db.Create(&user).Error)
	profile := models.Profile{UserID: user.UserID, Role: role}
	require.NoError(t, db.Create(&profile).Error)

	user.Profile = profile
	return user
}
