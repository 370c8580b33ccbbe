package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dealkhoj/dealkhoj/models"
)

func TestDailyCheckinFirstDay(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, 0)
	cc := NewCheckinController(db)

	ctx, w := authedRequest(user.ID, http.MethodPost, "/api/v1/checkin", "")
	cc.DailyCheckin(ctx)
	requireStatus(t, w, http.StatusOK)

	data := dataField(t, decodeResponse(t, w))
	require.EqualValues(t, 5, data["points_awarded"])
	require.EqualValues(t, 1, data["streak_day"])

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	require.Equal(t, 5, fresh.Points)
	require.Equal(t, 1, fresh.StreakDays)
	require.NotNil(t, fresh.LastCheckinAt)

	var entry models.PointsLog
	require.NoError(t, db.Where("user_id = ? AND action = ?", user.ID, models.ActionCheckin).
		First(&entry).Error)
	require.Equal(t, 5, entry.Delta)
}

func TestDailyCheckinRejectsSameDay(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, 0)
	cc := NewCheckinController(db)

	ctx, w := authedRequest(user.ID, http.MethodPost, "/api/v1/checkin", "")
	cc.DailyCheckin(ctx)
	requireStatus(t, w, http.StatusOK)

	ctx, w = authedRequest(user.ID, http.MethodPost, "/api/v1/checkin", "")
	cc.DailyCheckin(ctx)
	requireStatus(t, w, http.StatusBadRequest)
	require.Equal(t, 40030, decodeResponse(t, w).Code)

	// Exactly one check-in row and one ledger entry.
	var rows int64
	require.NoError(t, db.Model(&models.CheckIn{}).Where("user_id = ?", user.ID).Count(&rows).Error)
	require.EqualValues(t, 1, rows)

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	require.Equal(t, 5, fresh.Points)
}

func TestDailyCheckinContinuesStreak(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, 0)
	cc := NewCheckinController(db)

	seedCheckinYesterday(t, db, user.ID, 3)

	ctx, w := authedRequest(user.ID, http.MethodPost, "/api/v1/checkin", "")
	cc.DailyCheckin(ctx)
	requireStatus(t, w, http.StatusOK)

	data := dataField(t, decodeResponse(t, w))
	require.EqualValues(t, 4, data["streak_day"])

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	require.Equal(t, 4, fresh.StreakDays)
}

func TestDailyCheckinResetsAfterGap(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, 0)
	cc := NewCheckinController(db)

	// Last check-in three days ago: streak restarts at day 1.
	now := time.Now()
	old := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -3)
	require.NoError(t, db.Create(&models.CheckIn{
		UserID: user.ID, CheckinDate: old, StreakDay: 5, Points: 5,
	}).Error)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("streak_days", 5).Error)

	ctx, w := authedRequest(user.ID, http.MethodPost, "/api/v1/checkin", "")
	cc.DailyCheckin(ctx)
	requireStatus(t, w, http.StatusOK)

	data := dataField(t, decodeResponse(t, w))
	require.EqualValues(t, 1, data["streak_day"])

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	require.Equal(t, 1, fresh.StreakDays)
}

func TestDailyCheckinSeventhDayBonus(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, 0)
	cc := NewCheckinController(db)

	seedCheckinYesterday(t, db, user.ID, 6)

	ctx, w := authedRequest(user.ID, http.MethodPost, "/api/v1/checkin", "")
	cc.DailyCheckin(ctx)
	requireStatus(t, w, http.StatusOK)

	data := dataField(t, decodeResponse(t, w))
	require.EqualValues(t, 7, data["streak_day"])
	require.EqualValues(t, 25, data["points_awarded"]) // 5 base + 20 bonus

	var bonus models.PointsLog
	require.NoError(t, db.Where("user_id = ? AND action = ?", user.ID, models.ActionStreakBonus).
		First(&bonus).Error)
	require.Equal(t, 20, bonus.Delta)

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	require.Equal(t, 25, fresh.Points)
	require.Equal(t, 7, fresh.StreakDays)
}

func TestDailyCheckinEighthDayCyclesToOne(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, 0)
	cc := NewCheckinController(db)

	seedCheckinYesterday(t, db, user.ID, 7)

	ctx, w := authedRequest(user.ID, http.MethodPost, "/api/v1/checkin", "")
	cc.DailyCheckin(ctx)
	requireStatus(t, w, http.StatusOK)

	data := dataField(t, decodeResponse(t, w))
	require.EqualValues(t, 1, data["streak_day"])
	require.EqualValues(t, 5, data["points_awarded"])

	// The streak count itself keeps growing even as the reward cycle wraps.
	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	require.Equal(t, 8, fresh.StreakDays)
}

func TestDailyCheckinBannedUser(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, 0)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("banned", true).Error)
	cc := NewCheckinController(db)

	ctx, w := authedRequest(user.ID, http.MethodPost, "/api/v1/checkin", "")
	cc.DailyCheckin(ctx)
	requireStatus(t, w, http.StatusForbidden)
}

func TestCheckinStatus(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, 0)
	cc := NewCheckinController(db)

	ctx, w := authedRequest(user.ID, http.MethodPost, "/api/v1/checkin", "")
	cc.DailyCheckin(ctx)
	requireStatus(t, w, http.StatusOK)

	ctx, w = authedRequest(user.ID, http.MethodGet, "/api/v1/checkin/status", "")
	cc.CheckinStatus(ctx)
	requireStatus(t, w, http.StatusOK)

	data := dataField(t, decodeResponse(t, w))
	require.EqualValues(t, 5, data["points"])
	require.EqualValues(t, 1, data["streak_days"])
	require.NotNil(t, data["last_checkin_at"])
}

// seedCheckinYesterday plants a check-in dated yesterday and sets the user's
// streak so today's check-in continues it.
func seedCheckinYesterday(t *testing.T, db *gorm.DB, userID uint, streak int) {
	t.Helper()
	now := time.Now()
	yesterday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -1)
	require.NoError(t, db.Create(&models.CheckIn{
		UserID:      userID,
		CheckinDate: yesterday,
		StreakDay:   models.StreakDayIndex(streak),
		Points:      5,
	}).Error)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", userID).
		Update("streak_days", streak).Error)
}
