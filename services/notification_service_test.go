package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"edu-feedback-api/models"
)

func notificationServiceFor(db *gorm.DB) *NotificationService {
	svc := NewNotificationService(db, NewTargetResolver(db))
	svc.sendMail = func(to []string, subject, html string) error { return nil }
	return svc
}

func TestFollowUnfollowStatuses(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db)
	svc := notificationServiceFor(db)
	user := seedUser(t, db, "alice", models.RoleStudent)

	target := models.TargetRef{Type: models.TargetUniversity, ID: h.University.UniversityID}

	status, err := svc.FollowTarget(user.UserID, target)
	require.NoError(t, err)
	assert.Equal(t, FollowStatusFollowing, status)

	status, err = svc.FollowTarget(user.UserID, target)
	require.NoError(t, err)
	assert.Equal(t, FollowStatusAlreadyFollowing, status)

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	following, err := svc.IsFollowing(user.UserID, target)
	require.NoError(t, err)
	assert.True(t, following)

	status, err = svc.UnfollowTarget(user.UserID, target)
	require.NoError(t, err)
	assert.Equal(t, FollowStatusUnfollowed, status)

	status, err = svc.UnfollowTarget(user.UserID, target)
	require.NoError(t, err)
	assert.Equal(t, FollowStatusNotFollowing, status)
}

func TestFollowMissingTarget(t *testing.T) {
	db := setupTestDB(t)
	seedHierarchy(t, db)
	svc := notificationServiceFor(db)
	user := seedUser(t, db, "bob", models.RoleStudent)

	_, err := svc.FollowTarget(user.UserID, models.TargetRef{Type: models.TargetModule, ID: 9999})
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestReplyNotifiesParentAuthor(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db)
	comments := commentServiceFor(db)
	author := seedUser(t, db, "carol", models.RoleStudent)
	replier := seedUser(t, db, "dave", models.RoleStudent)

	target := models.TargetRef{Type: models.TargetModule, ID: h.Module.ModuleID}
	root, err := comments.AddComment(AddCommentInput{Target: target, Content: "root", UserID: &author.UserID})
	require.NoError(t, err)
	reply, err := comments.AddComment(AddCommentInput{Target: target, Content: "reply", ParentID: &root.CommentID, UserID: &replier.UserID})
	require.NoError(t, err)

	var notifications []models.Notification
	require.NoError(t, db.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, author.UserID, notifications[0].RecipientID)
	assert.Equal(t, models.NotificationKindReply, notifications[0].Kind)
	assert.Equal(t, root.CommentID, notifications[0].CommentID)
	require.NotNil(t, notifications[0].ReplyID)
	assert.Equal(t, reply.CommentID, *notifications[0].ReplyID)
	assert.False(t, notifications[0].IsRead)
}

func TestSelfReplyProducesNoNotification(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db)
	comments := commentServiceFor(db)
	author := seedUser(t, db, "erin", models.RoleStudent)

	target := models.TargetRef{Type: models.TargetSchool, ID: h.School.SchoolID}
	root, err := comments.AddComment(AddCommentInput{Target: target, Content: "root", UserID: &author.UserID})
	require.NoError(t, err)
	_, err = comments.AddComment(AddCommentInput{Target: target, Content: "self reply", ParentID: &root.CommentID, UserID: &author.UserID})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRootCommentNotifiesFollowersExceptPoster(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db)
	notifications := notificationServiceFor(db)
	comments := commentServiceFor(db)
	poster := seedUser(t, db, "frank", models.RoleStudent)
	follower := seedUser(t, db, "grace", models.RoleStudent)

	target := models.TargetRef{Type: models.TargetLecturer, ID: h.Lecturer.LecturerID}
	for _, u := range []models.User{poster, follower} {
		_, err := notifications.FollowTarget(u.UserID, target)
		require.NoError(t, err)
	}

	comment, err := comments.AddComment(AddCommentInput{Target: target, Content: "news", UserID: &poster.UserID})
	require.NoError(t, err)

	var rows []models.Notification
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, follower.UserID, rows[0].RecipientID)
	assert.Equal(t, models.NotificationKindFollow, rows[0].Kind)
	assert.Equal(t, comment.CommentID, rows[0].CommentID)
	assert.Nil(t, rows[0].ReplyID)
}

func TestListNotificationsWithPreview(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db)
	notifications := notificationServiceFor(db)
	comments := commentServiceFor(db)
	author := seedUser(t, db, "henry", models.RoleStudent)
	replier := seedUser(t, db, "iris", models.RoleStudent)

	target := models.TargetRef{Type: models.TargetUniversity, ID: h.University.UniversityID}
	root, err := comments.AddComment(AddCommentInput{Target: target, Content: "root", UserID: &author.UserID})
	require.NoError(t, err)
	_, err = comments.AddComment(AddCommentInput{Target: target, Content: "the reply text", ParentID: &root.CommentID, UserID: &replier.UserID})
	require.NoError(t, err)

	views, err := notifications.List(author.UserID, 50)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, models.NotificationKindReply, views[0].Kind)
	assert.Equal(t, "the reply text", views[0].Preview)
	assert.Equal(t, "University: Test University", views[0].Target)
}

func TestMarkReadScopedToRecipient(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db)
	notifications := notificationServiceFor(db)
	comments := commentServiceFor(db)
	author := seedUser(t, db, "judy", models.RoleStudent)
	replier := seedUser(t, db, "kyle", models.RoleStudent)

	target := models.TargetRef{Type: models.TargetCollege, ID: h.College.CollegeID}
	root, err := comments.AddComment(AddCommentInput{Target: target, Content: "root", UserID: &author.UserID})
	require.NoError(t, err)
	_, err = comments.AddComment(AddCommentInput{Target: target, Content: "reply", ParentID: &root.CommentID, UserID: &replier.UserID})
	require.NoError(t, err)

	var row models.Notification
	require.NoError(t, db.First(&row).Error)

	// Someone else's mark-read request touches nothing.
	updated, err := notifications.MarkRead([]uint{row.NotificationID}, replier.UserID)
	require.NoError(t, err)
	assert.Zero(t, updated)

	unread, err := notifications.UnreadCount(author.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	updated, err = notifications.MarkRead([]uint{row.NotificationID}, author.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	unread, err = notifications.UnreadCount(author.UserID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestConcurrentFollowResolvesAsAlreadyFollowing(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db)
	svc := notificationServiceFor(db)
	user := seedUser(t, db, "liam", models.RoleStudent)

	// A competing follow lands between the lookup and the insert; the
	// create callback plays that writer exactly once.
	raced := false
	err := db.Callback().Create().Before("gorm:create").Register("competing_follow", func(tx *gorm.DB) {
		if raced {
			return
		}
		if _, ok := tx.Statement.Dest.(*models.Follow); !ok {
			return
		}
		raced = true
		tx.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO follows (user_id, target_type, target_id, created_at) VALUES (?, ?, ?, ?)",
			user.UserID, models.TargetUniversity, h.University.UniversityID, time.Now())
	})
	require.NoError(t, err)
	defer db.Callback().Create().Remove("competing_follow")

	target := models.TargetRef{Type: models.TargetUniversity, ID: h.University.UniversityID}
	status, err := svc.FollowTarget(user.UserID, target)
	require.NoError(t, err)
	assert.True(t, raced)
	assert.Equal(t, FollowStatusAlreadyFollowing, status)

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
