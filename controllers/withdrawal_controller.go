package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dealkhoj/dealkhoj/config"
	"github.com/dealkhoj/dealkhoj/models"
	"github.com/dealkhoj/dealkhoj/utils"
)

// WithdrawalController handles the points payout workflow: users submit
// requests, admins review them. A pending request never touches the balance;
// the deduction is logged when an admin approves.
type WithdrawalController struct {
	db *gorm.DB
}

// NewWithdrawalController creates a new WithdrawalController instance.
func NewWithdrawalController(db *gorm.DB) *WithdrawalController {
	return &WithdrawalController{db: db}
}

// Create validates and stores a new withdrawal request with status pending.
func (w *WithdrawalController) Create(ctx *gin.Context) {
	var req struct {
		Amount         int    `json:"amount" binding:"required"`
		Method         string `json:"method" binding:"required"`
		AccountDetails string `json:"account_details" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	cfg := config.Get()
	details := utils.SanitizeStrict(strings.TrimSpace(req.AccountDetails))
	if err := models.ValidateWithdrawalRequest(req.Amount, cfg.MinWithdrawAmount, req.Method, details); err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidAmount):
			utils.Error(ctx, http.StatusBadRequest, 40041, "invalid amount")
		case errors.Is(err, models.ErrInvalidMethod):
			utils.Error(ctx, http.StatusBadRequest, 40042, "invalid payment method")
		default:
			utils.Error(ctx, http.StatusBadRequest, 40043, "payment details required")
		}
		return
	}

	var request models.Withdrawal
	err := w.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}
		if user.Banned {
			return errBanned
		}
		if req.Amount > user.Points {
			return models.ErrInsufficientPoints
		}

		request = models.Withdrawal{
			UserID:         userID,
			Amount:         req.Amount,
			Method:         req.Method,
			AccountDetails: details,
			Status:         models.WithdrawalPending,
			RequestedAt:    time.Now(),
		}
		return tx.Create(&request).Error
	})

	if err != nil {
		switch {
		case errors.Is(err, models.ErrInsufficientPoints):
			utils.Error(ctx, http.StatusBadRequest, 40044, "insufficient points")
		case errors.Is(err, errBanned):
			utils.Error(ctx, http.StatusForbidden, 40340, "account banned")
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to create withdrawal request")
		}
		return
	}

	// Force refresh of the user's withdrawal history and the admin queue.
	utils.InvalidateByPrefix("cache:withdrawals:user:" + strconv.Itoa(int(userID)))
	utils.InvalidateByPrefix("cache:withdrawals:admin:")

	utils.Success(ctx, gin.H{"withdrawal": request})
}

// ListMine returns the caller's withdrawal requests, newest first.
func (w *WithdrawalController) ListMine(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	cacheKey := fmt.Sprintf("cache:withdrawals:user:%d:page=%d:size=%d", userID, page, pageSize)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var items []models.Withdrawal
	var total int64
	q := w.db.Where("user_id = ?", userID).Order("requested_at DESC")
	if err := q.Model(&models.Withdrawal{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to count withdrawals")
		return
	}
	if err := q.Offset((page - 1) * pageSize).Limit(pageSize).Find(&items).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to list withdrawals")
		return
	}

	payload := gin.H{
		"items": items,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages(total, pageSize),
		},
	}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(cacheKey, wrapper, 10*time.Minute)
	utils.Success(ctx, payload)
}

// AdminList returns withdrawal requests across all users, optionally
// filtered by status, with the requesting user embedded.
func (w *WithdrawalController) AdminList(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	status := strings.TrimSpace(ctx.Query("status"))

	var items []models.Withdrawal
	var total int64
	q := w.db.Preload("User").Order("requested_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Model(&models.Withdrawal{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to count withdrawals")
		return
	}
	if err := q.Offset((page - 1) * pageSize).Limit(pageSize).Find(&items).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to list withdrawals")
		return
	}

	utils.Success(ctx, gin.H{
		"items": items,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages(total, pageSize),
		},
	})
}

// AdminReview applies the single permitted transition pending -> approved |
// rejected. Approval writes the negative ledger entry and decrements the
// balance in the same transaction; both outcomes are terminal.
func (w *WithdrawalController) AdminReview(ctx *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
		Notes  string `json:"notes"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40045, "invalid request payload")
		return
	}
	if req.Status != models.WithdrawalApproved && req.Status != models.WithdrawalRejected {
		utils.Error(ctx, http.StatusBadRequest, 40046, "status must be approved or rejected")
		return
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40047, "invalid withdrawal id")
		return
	}

	notes := utils.SanitizeStrict(strings.TrimSpace(req.Notes))
	now := time.Now()

	var request models.Withdrawal
	err = w.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, id).Error; err != nil {
			return err
		}

		// Guard the transition with a conditional UPDATE so a concurrent
		// review cannot overwrite a terminal status.
		res := tx.Model(&models.Withdrawal{}).
			Where("id = ? AND status = ?", request.ID, models.WithdrawalPending).
			Updates(map[string]interface{}{
				"status":       req.Status,
				"admin_notes":  notes,
				"processed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrAlreadyProcessed
		}

		if req.Status == models.WithdrawalApproved {
			desc := fmt.Sprintf("withdrawal #%d via %s", request.ID, request.Method)
			if err := models.ApplyPointsDelta(tx, request.UserID, -request.Amount, models.ActionWithdrawal, desc); err != nil {
				return err
			}
		}

		request.Status = req.Status
		request.AdminNotes = notes
		request.ProcessedAt = &now
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.Error(ctx, http.StatusNotFound, 40440, "withdrawal not found")
		case errors.Is(err, models.ErrAlreadyProcessed):
			utils.Error(ctx, http.StatusConflict, 40940, "withdrawal already processed")
		case errors.Is(err, models.ErrInsufficientPoints):
			utils.Error(ctx, http.StatusBadRequest, 40044, "insufficient points")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50045, "failed to update withdrawal")
		}
		return
	}

	utils.InvalidateByPrefix("cache:withdrawals:user:" + strconv.Itoa(int(request.UserID)))
	utils.InvalidateByPrefix("cache:withdrawals:admin:")

	utils.Success(ctx, gin.H{"withdrawal": request})
}
