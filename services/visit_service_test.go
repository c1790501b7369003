package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edu-feedback-api/models"
)

func TestRecordVisitDedupWindow(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db)
	svc := NewVisitService(db, NewTargetResolver(db), 5*time.Minute)
	user := seedUser(t, db, "alice", models.RoleStudent)

	target := models.TargetRef{Type: models.TargetModule, ID: h.Module.ModuleID}
	require.NoError(t, svc.RecordVisit(user.UserID, target))
	require.NoError(t, svc.RecordVisit(user.UserID, target))

	var count int64
	require.NoError(t, db.Model(&models.VisitHistory{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// A visit older than the window no longer suppresses new rows.
	require.NoError(t, db.Model(&models.VisitHistory{}).
		Where("user_id = ?", user.UserID).
		Update("visited_at", time.Now().Add(-10*time.Minute)).Error)
	require.NoError(t, svc.RecordVisit(user.UserID, target))

	require.NoError(t, db.Model(&models.VisitHistory{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestRecordVisitSnapshotsTargetName(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db)
	svc := NewVisitService(db, NewTargetResolver(db), time.Minute)
	user := seedUser(t, db, "bob", models.RoleStudent)

	require.NoError(t, svc.RecordVisit(user.UserID,
		models.TargetRef{Type: models.TargetTeaching, ID: h.Teaching.TeachingID}))

	var visit models.VisitHistory
	require.NoError(t, db.First(&visit).Error)
	assert.Equal(t, "Dr. Stone - Databases (2024)", visit.TargetName)
}

func TestRecordVisitMissingTarget(t *testing.T) {
	db := setupTestDB(t)
	seedHierarchy(t, db)
	svc := NewVisitService(db, NewTargetResolver(db), time.Minute)

	err := svc.RecordVisit(1, models.TargetRef{Type: models.TargetSchool, ID: 9999})
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestVisitHistoryOrderAndLimit(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db)
	user := seedUser(t, db, "carol", models.RoleStudent)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		visit := models.VisitHistory{
			UserID:     user.UserID,
			TargetType: models.TargetModule,
			TargetID:   h.Module.ModuleID,
			TargetName: "Databases",
			VisitedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&visit).Error)
	}

	svc := NewVisitService(db, NewTargetResolver(db), time.Minute)
	visits, err := svc.History(user.UserID, 2)
	require.NoError(t, err)
	require.Len(t, visits, 2)
	assert.True(t, visits[0].VisitedAt.After(visits[1].VisitedAt))
}

func TestVisitDedupWindowFromEnv(t *testing.T) {
	t.Setenv("VISIT_DEDUP_WINDOW_MINUTES", "1")
	assert.Equal(t, time.Minute, VisitDedupWindowFromEnv())

	t.Setenv("VISIT_DEDUP_WINDOW_MINUTES", "not-a-number")
	assert.Equal(t, DefaultVisitDedupWindow, VisitDedupWindowFromEnv())

	t.Setenv("VISIT_DEDUP_WINDOW_MINUTES", "")
	assert.Equal(t, DefaultVisitDedupWindow, VisitDedupWindowFromEnv())
}
