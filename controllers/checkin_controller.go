package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dealkhoj/dealkhoj/config"
	"github.com/dealkhoj/dealkhoj/models"
	"github.com/dealkhoj/dealkhoj/utils"
)

// CheckinController handles daily check-in endpoints.
type CheckinController struct {
	db *gorm.DB
}

var errAlreadyCheckedIn = errors.New("already checked in today")

// NewCheckinController creates a new controller instance.
func NewCheckinController(db *gorm.DB) *CheckinController {
	return &CheckinController{db: db}
}

// DailyCheckin records a daily check-in, awards points and advances the
// streak. The streak continues when the previous check-in was yesterday and
// resets otherwise; the reward day index cycles 1-7, with an extra bonus on
// day 7.
func (s *CheckinController) DailyCheckin(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	cfg := config.Get()

	var awarded int
	var streakDay int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}
		if user.Banned {
			return errBanned
		}

		var last models.CheckIn
		err := tx.Where("user_id = ?", userID).Order("checkin_date DESC").First(&last).Error

		streak := 1
		if err == nil {
			if isSameDay(last.CheckinDate, todayStart) {
				return errAlreadyCheckedIn
			}
			if isYesterday(last.CheckinDate, todayStart) {
				streak = user.StreakDays + 1
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		streakDay = models.StreakDayIndex(streak)
		awarded = cfg.CheckinBasePoints

		record := models.CheckIn{
			UserID:      userID,
			CheckinDate: todayStart,
			StreakDay:   streakDay,
			Points:      awarded,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		desc := fmt.Sprintf("daily check-in day %d", streakDay)
		if err := models.ApplyPointsDelta(tx, userID, awarded, models.ActionCheckin, desc); err != nil {
			return err
		}

		if streakDay == 7 && cfg.StreakBonusPoints > 0 {
			if err := models.ApplyPointsDelta(tx, userID, cfg.StreakBonusPoints, models.ActionStreakBonus, "7-day streak bonus"); err != nil {
				return err
			}
			awarded += cfg.StreakBonusPoints
		}

		// Points were already adjusted by ApplyPointsDelta; only touch the
		// streak bookkeeping here.
		return tx.Model(&user).Updates(map[string]interface{}{
			"streak_days":     streak,
			"last_checkin_at": now,
		}).Error
	})

	if err != nil {
		switch {
		case errors.Is(err, errAlreadyCheckedIn):
			utils.Error(ctx, http.StatusBadRequest, 40030, err.Error())
		case errors.Is(err, errBanned):
			utils.Error(ctx, http.StatusForbidden, 40330, "account banned")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to record check-in")
		}
		return
	}

	utils.Success(ctx, gin.H{
		"message":        "check-in successful",
		"points_awarded": awarded,
		"streak_day":     streakDay,
	})
}

// CheckinStatus returns the user's balance, streak and last check-in time.
func (s *CheckinController) CheckinStatus(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to load user")
		return
	}

	utils.Success(ctx, gin.H{
		"points":          user.Points,
		"streak_days":     user.StreakDays,
		"last_checkin_at": user.LastCheckinAt,
	})
}

func isSameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func isYesterday(last, today time.Time) bool {
	yesterday := today.Add(-24 * time.Hour)
	return last.Year() == yesterday.Year() && last.YearDay() == yesterday.YearDay()
}
