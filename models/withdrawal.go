package models

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

// Withdrawal statuses. A request starts pending and moves exactly once to
// approved or rejected; both are terminal.
const (
	WithdrawalPending  = "pending"
	WithdrawalApproved = "approved"
	WithdrawalRejected = "rejected"
)

// Supported payout methods.
const (
	MethodEsewa        = "esewa"
	MethodKhalti       = "khalti"
	MethodBankTransfer = "bank-transfer"
)

var (
	// ErrInvalidAmount is returned when the requested amount is below the
	// configured minimum.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidMethod is returned for an unknown payment method.
	ErrInvalidMethod = errors.New("invalid payment method")
	// ErrInvalidDetails is returned when account details are missing or do
	// not match the method's expected shape.
	ErrInvalidDetails = errors.New("payment details required")
	// ErrAlreadyProcessed is returned when reviewing a request that has
	// already left the pending state.
	ErrAlreadyProcessed = errors.New("withdrawal already processed")
)

// Withdrawal is a user's request to convert points into an external payout.
// Amount and method are immutable after creation; only an admin review may
// change the status.
type Withdrawal struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"index;not null" json:"user_id"`
	Amount         int        `gorm:"not null" json:"amount"`
	Method         string     `gorm:"size:32;not null" json:"method"`
	AccountDetails string     `gorm:"size:255;not null" json:"account_details"`
	Status         string     `gorm:"size:16;not null;default:'pending';index" json:"status"`
	AdminNotes     string     `gorm:"size:255" json:"admin_notes"`
	RequestedAt    time.Time  `json:"requested_at"`
	ProcessedAt    *time.Time `json:"processed_at"`
	User           User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
}

// ValidateWithdrawalRequest checks amount, method and account details before
// a request is created. minAmount comes from configuration (default 1000).
// The balance check happens separately inside the submission transaction.
func ValidateWithdrawalRequest(amount, minAmount int, method, details string) error {
	if amount < minAmount {
		return ErrInvalidAmount
	}

	details = strings.TrimSpace(details)
	switch method {
	case MethodEsewa, MethodKhalti:
		// eSewa and Khalti accounts are Nepali mobile wallet numbers.
		if !isWalletNumber(details) {
			return ErrInvalidDetails
		}
	case MethodBankTransfer:
		// Free-form bank name + account number; require a minimal shape.
		if len(details) < 8 {
			return ErrInvalidDetails
		}
	default:
		return ErrInvalidMethod
	}
	return nil
}

// isWalletNumber reports whether s is a 10-digit mobile wallet number.
func isWalletNumber(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return strings.HasPrefix(s, "9")
}
